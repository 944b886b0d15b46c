package svgfilter

import "log/slog"

// Option configures a Program.
//
// Example:
//
//	p := svgfilter.New(
//	    svgfilter.WithResolution(256, 256),
//	    svgfilter.WithColorInterpolation(svgfilter.LinearRGB),
//	)
type Option func(*options)

type options struct {
	logger *slog.Logger

	resX, resY float64
	resSet     bool
	parallel   bool

	colorInterpolation ColorInterpolation
	pool               *BufferPool

	tileW, tileH int
	workers      int
}

func defaultOptions() options {
	return options{colorInterpolation: SRGB}
}

// WithLogger sets the logger for the program. Without it the program uses
// Logger() at render time.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithResolution sets an explicit buffer resolution: the number of pixels
// across the filter region along each axis. It forces pixel axes parallel
// to user space.
func WithResolution(x, y float64) Option {
	return func(o *options) {
		o.resX, o.resY = x, y
		o.resSet = x > 0 && y > 0
	}
}

// WithAutoResolution derives the resolution from the current transform.
// This is the default.
func WithAutoResolution() Option {
	return func(o *options) {
		o.resSet = false
	}
}

// WithParallelAxes requests pixel axes parallel to user space even when
// the current transform rotates or shears.
func WithParallelAxes(on bool) Option {
	return func(o *options) {
		o.parallel = on
	}
}

// WithColorInterpolation sets the color-interpolation-filters value used
// by primitives that inherit it. The default is SRGB.
func WithColorInterpolation(c ColorInterpolation) Option {
	return func(o *options) {
		if c == InheritColorInterpolation {
			c = SRGB
		}
		o.colorInterpolation = c
	}
}

// WithBufferPool shares a buffer pool between programs and passes.
func WithBufferPool(pool *BufferPool) Option {
	return func(o *options) {
		o.pool = pool
	}
}

// WithTileSize sets the tile size used by RenderTiled. Non-positive values
// select 64.
func WithTileSize(w, h int) Option {
	return func(o *options) {
		o.tileW, o.tileH = w, h
	}
}

// WithWorkers sets the number of goroutines used by RenderTiled.
// Non-positive values select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}
