package filter

import (
	"github.com/gogpu/svgfilter/internal/blend"
	intImage "github.com/gogpu/svgfilter/internal/image"
)

// Merge is the feMerge primitive. Its inputs are composited with
// source-over, the first input at the bottom.
type Merge struct{}

func (Merge) Kind() Kind     { return KindMerge }
func (Merge) Traits() Traits { return TraitParallel }
func (Merge) isParams()      {}

func evaluateMerge(inputs []*intImage.Buffer, _ Merge, env *Env) (*intImage.Buffer, error) {
	out := env.output(intImage.Premultiplied)
	for _, in := range inputs {
		if in == nil {
			continue
		}
		combine(in.ToAlpha(intImage.Premultiplied), out, out, blend.SourceOver)
	}
	return out, nil
}
