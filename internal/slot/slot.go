// Package slot owns the intermediate buffers of one filter pass.
//
// A Registry maps slots to buffers. Reserved slots (the source graphic,
// its alpha, the background capture and the fill and stroke paints) are
// materialized lazily from the pass Sources on first access and cached
// for the rest of the pass. A Registry is never shared between passes or
// between concurrently rendered tiles.
package slot

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/svgfilter/geom"
	intImage "github.com/gogpu/svgfilter/internal/image"
	"github.com/gogpu/svgfilter/internal/units"
	"github.com/gogpu/svgfilter/internal/warn"
)

// Slot identifies a buffer within one filter pass. Reserved slots are
// negative; primitive results use positive numbers.
type Slot int

// Reserved slots.
const (
	// NotSet means "the previous result", or SourceGraphic for the first
	// primitive.
	NotSet Slot = -iota
	SourceGraphic
	SourceAlpha
	BackgroundImage
	BackgroundAlpha
	FillPaint
	StrokePaint
)

var reservedNames = map[Slot]string{
	NotSet:          "NotSet",
	SourceGraphic:   "SourceGraphic",
	SourceAlpha:     "SourceAlpha",
	BackgroundImage: "BackgroundImage",
	BackgroundAlpha: "BackgroundAlpha",
	FillPaint:       "FillPaint",
	StrokePaint:     "StrokePaint",
}

// String returns the SVG keyword of a reserved slot, or "result<n>".
func (s Slot) String() string {
	if name, ok := reservedNames[s]; ok {
		return name
	}
	return fmt.Sprintf("result%d", int(s))
}

// Reserved reports whether s is one of the standard inputs.
func (s Slot) Reserved() bool {
	return s < NotSet && s >= StrokePaint
}

// Lookup returns the reserved slot for an SVG input keyword.
func Lookup(name string) (Slot, bool) {
	for s, n := range reservedNames {
		if s != NotSet && n == name {
			return s, true
		}
	}
	return NotSet, false
}

// Sources are the pixels and paints supplied by the rasterizer for one pass.
// Graphic and Background are in device space: their pixel coordinates are
// device coordinates.
type Sources struct {
	Graphic    image.Image
	Background image.Image // nil when no background capture is available
	Fill       Paint
	Stroke     Paint
}

// Config configures a Registry.
type Config struct {
	Units   *units.CoordinateUnits
	Sources Sources

	// Area is the pixel rectangle reserved slots are materialized over.
	Area image.Rectangle

	// Region is the filter region in pixels, the subregion of reserved
	// slots and of slots never written.
	Region image.Rectangle

	Pool   *intImage.Pool
	Warn   *warn.Once
	Logger *slog.Logger
}

// Registry maps slots to buffers for one pass.
type Registry struct {
	cfg        Config
	buffers    map[Slot]*intImage.Buffer
	subregions map[Slot]image.Rectangle
	last       Slot
}

// New creates an empty registry.
func New(cfg Config) *Registry {
	return &Registry{
		cfg:        cfg,
		buffers:    make(map[Slot]*intImage.Buffer),
		subregions: make(map[Slot]image.Rectangle),
		last:       NotSet,
	}
}

// Area returns the rectangle reserved slots are materialized over.
func (r *Registry) Area() image.Rectangle { return r.cfg.Area }

// Last returns the slot written most recently, or NotSet.
func (r *Registry) Last() Slot { return r.last }

// Get returns the buffer for s, materializing reserved slots on first
// access. It returns nil for a result slot that was never written and for
// a source graphic the rasterizer did not supply.
func (r *Registry) Get(s Slot) *intImage.Buffer {
	if s == NotSet {
		if r.last == NotSet {
			s = SourceGraphic
		} else {
			s = r.last
		}
	}
	if buf, ok := r.buffers[s]; ok {
		return buf
	}
	if !s.Reserved() {
		return nil
	}
	buf := r.materialize(s)
	if buf != nil {
		r.buffers[s] = buf
	}
	return buf
}

// Set stores buf at s with the given declared subregion. A buffer
// previously stored at s that no other slot references is returned to the
// pool.
func (r *Registry) Set(s Slot, buf *intImage.Buffer, subregion image.Rectangle) {
	if prev, ok := r.buffers[s]; ok && prev != buf {
		r.buffers[s] = nil
		if !r.referenced(prev) {
			r.cfg.Pool.Put(prev)
		}
	}
	r.buffers[s] = buf
	r.subregions[s] = subregion
	r.last = s
}

// PrimitiveSubregion returns the subregion declared by the primitive that
// last wrote s. Reserved slots and unwritten slots report the filter
// region.
func (r *Registry) PrimitiveSubregion(s Slot) image.Rectangle {
	if s == NotSet {
		s = r.last
	}
	if sub, ok := r.subregions[s]; ok {
		return sub
	}
	return r.cfg.Region
}

// Release returns every buffer to the pool and empties the registry. The
// registry must not be used afterwards.
func (r *Registry) Release() {
	seen := make(map[*intImage.Buffer]struct{}, len(r.buffers))
	for _, buf := range r.buffers {
		if buf == nil {
			continue
		}
		if _, dup := seen[buf]; dup {
			continue
		}
		seen[buf] = struct{}{}
		r.cfg.Pool.Put(buf)
	}
	clear(r.buffers)
	clear(r.subregions)
	r.last = NotSet
}

func (r *Registry) referenced(buf *intImage.Buffer) bool {
	for _, b := range r.buffers {
		if b == buf {
			return true
		}
	}
	return false
}

func (r *Registry) materialize(s Slot) *intImage.Buffer {
	switch s {
	case SourceGraphic:
		return r.importDevice(r.cfg.Sources.Graphic, "SourceGraphic")
	case SourceAlpha:
		if g := r.Get(SourceGraphic); g != nil {
			return g.AlphaOnly()
		}
		return nil
	case BackgroundImage:
		if r.cfg.Sources.Background == nil {
			r.cfg.Warn.Warn(r.cfg.Logger, "background-missing",
				"svgfilter: no background capture available, using transparent background")
			return r.cfg.Pool.Get(r.cfg.Area)
		}
		return r.importDevice(r.cfg.Sources.Background, "BackgroundImage")
	case BackgroundAlpha:
		if bg := r.Get(BackgroundImage); bg != nil {
			return bg.AlphaOnly()
		}
		return nil
	case FillPaint:
		return r.paint(r.cfg.Sources.Fill)
	case StrokePaint:
		return r.paint(r.cfg.Sources.Stroke)
	}
	return nil
}

// importDevice maps a device-space image into buffer pixel space.
func (r *Registry) importDevice(src image.Image, name string) *intImage.Buffer {
	if src == nil {
		return nil
	}
	if r.cfg.Area.Empty() {
		return intImage.NewBuffer(image.Rectangle{})
	}
	cu := r.cfg.Units
	deviceToUser, ok := cu.CTM().Invert()
	if !ok {
		r.cfg.Warn.Warn(r.cfg.Logger, "singular-ctm", "svgfilter: singular transform, source is transparent")
		return r.cfg.Pool.Get(r.cfg.Area)
	}
	pixelFromDevice := cu.UserToPixel().Multiply(deviceToUser)
	buf, err := intImage.Import(src, r.cfg.Area, pixelFromDevice, r.cfg.Pool)
	if err != nil {
		if r.cfg.Logger != nil {
			r.cfg.Logger.Warn("svgfilter: import failed", "slot", name, "err", err)
		}
		return nil
	}
	return buf
}

// paint tiles a paint server across the area, sampling at pixel centers.
func (r *Registry) paint(p Paint) *intImage.Buffer {
	out := r.cfg.Pool.Get(r.cfg.Area)
	if p == nil {
		return out
	}
	if solid, ok := p.(SolidPaint); ok {
		cr, cg, cb, ca := solid.Color.Premultiplied()
		out.Fill(out.Rect, cr, cg, cb, ca)
		return out
	}
	toUser := r.cfg.Units.PixelToUser()
	for y := out.Rect.Min.Y; y < out.Rect.Max.Y; y++ {
		for x := out.Rect.Min.X; x < out.Rect.Max.X; x++ {
			u := toUser.TransformPoint(geom.Pt(float64(x)+0.5, float64(y)+0.5))
			cr, cg, cb, ca := p.At(u.X, u.Y)
			out.SetRGBA(x, y, cr, cg, cb, ca)
		}
	}
	return out
}
