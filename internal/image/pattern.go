package image

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/clone"

	"github.com/gogpu/svgfilter/geom"
)

// Pattern is an image tiled across user space, as used by pattern paint
// servers. Samples wrap around in both directions and are filtered
// bilinearly, with neighbors taken across the wrap so tile seams stay
// continuous.
type Pattern struct {
	img     *image.RGBA
	inverse geom.Matrix // user space -> pattern image pixels
	opacity float64
}

// NewPattern creates a pattern from img. transform maps the pattern image's
// pixel space into user space. Returns nil if img is nil or empty.
func NewPattern(img image.Image, transform geom.Matrix) *Pattern {
	if img == nil || img.Bounds().Empty() {
		return nil
	}
	inv, ok := transform.Invert()
	if !ok {
		inv = geom.Identity()
	}
	return &Pattern{
		img:     clone.AsShallowRGBA(img),
		inverse: inv,
		opacity: 1,
	}
}

// WithOpacity sets the opacity multiplier, clamped to [0,1].
// Returns the pattern for method chaining.
func (p *Pattern) WithOpacity(opacity float64) *Pattern {
	p.opacity = math.Max(0, math.Min(1, opacity))
	return p
}

// Sample returns the premultiplied color at user-space point (x, y).
func (p *Pattern) Sample(x, y float64) (r, g, b, a uint8) {
	if p == nil {
		return 0, 0, 0, 0
	}
	pt := p.inverse.TransformPoint(geom.Pt(x, y))
	bounds := p.img.Rect
	w, h := bounds.Dx(), bounds.Dy()

	fx := pt.X - float64(bounds.Min.X) - 0.5
	fy := pt.Y - float64(bounds.Min.Y) - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1, y1 := wrap(x0+1, w), wrap(y0+1, h)
	x0, y0 = wrap(x0, w), wrap(y0, h)

	c00 := p.at(x0, y0)
	c10 := p.at(x1, y0)
	c01 := p.at(x0, y1)
	c11 := p.at(x1, y1)

	var out [4]uint8
	for i := range out {
		v := lerp2D(float64(c00[i]), float64(c10[i]), float64(c01[i]), float64(c11[i]), tx, ty)
		out[i] = uint8(math.Round(clampFloat(v*p.opacity, 0, 255)))
	}
	return out[0], out[1], out[2], out[3]
}

func (p *Pattern) at(x, y int) [4]uint8 {
	i := y*p.img.Stride + x*4
	s := p.img.Pix[i : i+4 : i+4]
	return [4]uint8{s[0], s[1], s[2], s[3]}
}

// wrap maps i into [0,n) with repeat semantics.
func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func lerp2D(v00, v10, v01, v11, tx, ty float64) float64 {
	top := v00 + (v10-v00)*tx
	bottom := v01 + (v11-v01)*tx
	return top + (bottom-top)*ty
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
