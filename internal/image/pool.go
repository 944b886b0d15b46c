package image

import (
	"image"
	"sync"

	"github.com/gogpu/svgfilter/internal/color"
)

// Pool is a thread-safe pool for reusing Buffer storage.
//
// Pool groups buffers by their dimensions. A filter pass allocates many
// buffers of the filter region's size, so reuse across passes keeps GC
// pressure flat for interactive repaints.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*Buffer
	maxSize int // max buffers per bucket
}

type poolKey struct {
	width  int
	height int
}

// NewPool creates a buffer pool retaining at most maxPerBucket buffers of
// each size. A maxPerBucket of 0 means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*Buffer),
		maxSize: maxPerBucket,
	}
}

// Get returns a cleared premultiplied sRGB buffer covering r, reusing
// pooled storage when a buffer of the same size is available. A nil pool
// always allocates.
func (p *Pool) Get(r image.Rectangle) *Buffer {
	r = r.Canon()
	if p == nil || r.Empty() {
		return NewBuffer(r)
	}
	key := poolKey{width: r.Dx(), height: r.Dy()}

	p.mu.Lock()
	bucket := p.buckets[key]
	if len(bucket) == 0 {
		p.mu.Unlock()
		return NewBuffer(r)
	}
	buf := bucket[len(bucket)-1]
	bucket[len(bucket)-1] = nil
	p.buckets[key] = bucket[:len(bucket)-1]
	p.mu.Unlock()

	buf.Clear()
	buf.Rect = r
	buf.Alpha = Premultiplied
	buf.Space = color.SRGB
	return buf
}

// Put returns a buffer to the pool. The caller must not use buf afterwards.
// Nil and empty buffers are ignored, as are buffers whose bucket is full.
func (p *Pool) Put(buf *Buffer) {
	if p == nil || buf.Empty() || buf.Stride != 4*buf.Rect.Dx() {
		return
	}
	key := poolKey{width: buf.Rect.Dx(), height: buf.Rect.Dy()}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}

// Len returns the number of pooled buffers of the given size.
func (p *Pool) Len(width, height int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buckets[poolKey{width: width, height: height}])
}
