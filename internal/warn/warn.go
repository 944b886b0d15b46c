// Package warn suppresses repeated log messages for degraded behavior.
package warn

import (
	"context"
	"log/slog"
	"sync"
)

// Once records which warnings have already been logged. The zero value is
// ready to use. A Once is safe for concurrent use.
type Once struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// Warn logs msg at Warn level the first time key is seen and reports
// whether it did. A nil Once logs every time.
func (o *Once) Warn(logger *slog.Logger, key, msg string, args ...any) bool {
	if o != nil && !o.first(key) {
		return false
	}
	if logger != nil {
		logger.Log(context.Background(), slog.LevelWarn, msg, args...)
	}
	return true
}

func (o *Once) first(key string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.seen[key]; ok {
		return false
	}
	if o.seen == nil {
		o.seen = make(map[string]struct{})
	}
	o.seen[key] = struct{}{}
	return true
}

// Reset forgets every recorded warning.
func (o *Once) Reset() {
	o.mu.Lock()
	o.seen = nil
	o.mu.Unlock()
}
