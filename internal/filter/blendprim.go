package filter

import (
	"github.com/gogpu/svgfilter/internal/blend"
	intImage "github.com/gogpu/svgfilter/internal/image"
)

// Blend is the feBlend primitive. The first input is the source layer and
// the second the backdrop.
type Blend struct {
	Mode blend.Mode
}

func (Blend) Kind() Kind     { return KindBlend }
func (Blend) Traits() Traits { return TraitParallel }
func (Blend) isParams()      {}

func evaluateBlend(in, in2 *intImage.Buffer, p Blend, env *Env) (*intImage.Buffer, error) {
	out := env.output(intImage.Premultiplied)
	combine(in.ToAlpha(intImage.Premultiplied), in2.ToAlpha(intImage.Premultiplied), out, p.Mode.Func())
	return out, nil
}
