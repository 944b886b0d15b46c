package slot

import (
	"image"

	"github.com/gogpu/svgfilter/geom"
	"github.com/gogpu/svgfilter/internal/color"
	intImage "github.com/gogpu/svgfilter/internal/image"
)

// Paint is a paint server sampled in user space. At returns premultiplied
// sRGB channels.
type Paint interface {
	At(x, y float64) (r, g, b, a uint8)
}

// SolidPaint paints a single straight-alpha color.
type SolidPaint struct {
	Color color.ColorF32
}

// At implements Paint.
func (p SolidPaint) At(_, _ float64) (r, g, b, a uint8) {
	return p.Color.Premultiplied()
}

// PatternPaint repeats an image across user space.
type PatternPaint struct {
	pattern *intImage.Pattern
}

// NewPatternPaint creates a pattern paint. transform maps the image's pixel
// space into user space; opacity multiplies every sample.
func NewPatternPaint(img image.Image, transform geom.Matrix, opacity float64) *PatternPaint {
	p := intImage.NewPattern(img, transform)
	if p != nil {
		p.WithOpacity(opacity)
	}
	return &PatternPaint{pattern: p}
}

// At implements Paint.
func (p *PatternPaint) At(x, y float64) (r, g, b, a uint8) {
	return p.pattern.Sample(x, y)
}
