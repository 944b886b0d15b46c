package filter

import (
	"image"
	"math"

	"github.com/gogpu/svgfilter/geom"
	intImage "github.com/gogpu/svgfilter/internal/image"
)

// Offset is the feOffset primitive. Dx and Dy are in primitive units and
// are rounded to whole pixels.
type Offset struct {
	Dx, Dy float64
}

func (Offset) Kind() Kind     { return KindOffset }
func (Offset) Traits() Traits { return TraitParallel }
func (Offset) isParams()      {}

// Pixels returns the shift in whole buffer pixels.
func (p Offset) Pixels(m geom.Matrix) image.Point {
	v := m.TransformVector(geom.Pt(p.Dx, p.Dy))
	return image.Pt(int(math.Round(v.X)), int(math.Round(v.Y)))
}

// enlarge grows area by |dx| and |dy| on the side the content comes from.
func (p Offset) enlarge(area image.Rectangle, m geom.Matrix) image.Rectangle {
	d := p.Pixels(m)
	return area.Union(area.Sub(d))
}

func evaluateOffset(in *intImage.Buffer, p Offset, env *Env) (*intImage.Buffer, error) {
	d := p.Pixels(env.Transform)
	out := env.output(in.Alpha)
	if d == (image.Point{}) {
		out.CopyFrom(in)
		return out, nil
	}
	shifted := *in
	shifted.Rect = in.Rect.Add(d)
	out.CopyFrom(&shifted)
	return out, nil
}
