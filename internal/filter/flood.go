package filter

import (
	"github.com/gogpu/svgfilter/internal/color"
	intImage "github.com/gogpu/svgfilter/internal/image"
)

// Flood is the feFlood primitive. Color is straight sRGB; Opacity
// multiplies its alpha.
type Flood struct {
	Color   color.ColorF32
	Opacity float64
}

func (Flood) Kind() Kind     { return KindFlood }
func (Flood) Traits() Traits { return TraitParallel }
func (Flood) isParams()      {}

func evaluateFlood(p Flood, env *Env) (*intImage.Buffer, error) {
	c := p.Color.InSpace(env.Space)
	c.A *= float32(p.Opacity)
	r, g, b, a := c.Premultiplied()
	out := env.output(intImage.Premultiplied)
	out.Fill(out.Rect, r, g, b, a)
	return out, nil
}
