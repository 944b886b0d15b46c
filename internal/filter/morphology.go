package filter

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/gogpu/svgfilter/geom"
	intImage "github.com/gogpu/svgfilter/internal/image"
)

// MorphologyOperator is erode or dilate.
type MorphologyOperator uint8

const (
	Erode MorphologyOperator = iota
	Dilate
)

// String returns the SVG keyword for the operator.
func (op MorphologyOperator) String() string {
	if op == Dilate {
		return "dilate"
	}
	return "erode"
}

// ParseMorphologyOperator parses an SVG feMorphology operator keyword.
func ParseMorphologyOperator(s string) (MorphologyOperator, error) {
	switch strings.TrimSpace(s) {
	case "erode":
		return Erode, nil
	case "dilate":
		return Dilate, nil
	}
	return Erode, fmt.Errorf("filter: unknown morphology operator %q", s)
}

// Morphology is the feMorphology primitive. Radii are in primitive units;
// a non-positive radius on either axis disables the primitive.
type Morphology struct {
	Operator         MorphologyOperator
	RadiusX, RadiusY float64
}

func (Morphology) Kind() Kind     { return KindMorphology }
func (Morphology) Traits() Traits { return TraitParallel | TraitAxisAligned }
func (Morphology) isParams()      {}

// Pixels returns the radii in whole buffer pixels.
func (p Morphology) Pixels(m geom.Matrix) (rx, ry int) {
	if p.RadiusX <= 0 || p.RadiusY <= 0 {
		return 0, 0
	}
	return int(math.Round(p.RadiusX * m.ExpansionX())), int(math.Round(p.RadiusY * m.ExpansionY()))
}

func (p Morphology) enlarge(area image.Rectangle, m geom.Matrix) image.Rectangle {
	rx, ry := p.Pixels(m)
	return image.Rect(area.Min.X-rx, area.Min.Y-ry, area.Max.X+rx, area.Max.Y+ry)
}

func evaluateMorphology(in *intImage.Buffer, p Morphology, env *Env) (*intImage.Buffer, error) {
	rx, ry := p.Pixels(env.Transform)
	if rx == 0 && ry == 0 {
		return passthrough(in, env), nil
	}
	src := in.ToAlpha(intImage.Premultiplied)
	pick := minU8
	if p.Operator == Dilate {
		pick = maxU8
	}

	// Horizontal pass over the rows the vertical pass will read.
	tmpRect := image.Rect(env.Area.Min.X, env.Area.Min.Y-ry, env.Area.Max.X, env.Area.Max.Y+ry)
	tmp := intImage.NewBuffer(tmpRect)
	for y := tmpRect.Min.Y; y < tmpRect.Max.Y; y++ {
		for x := tmpRect.Min.X; x < tmpRect.Max.X; x++ {
			var acc [4]uint8
			for k := -rx; k <= rx; k++ {
				r, g, b, a := src.RGBAAt(x+k, y)
				acc = pickPixel(acc, [4]uint8{r, g, b, a}, k == -rx, pick)
			}
			tmp.SetRGBA(x, y, acc[0], acc[1], acc[2], acc[3])
		}
	}

	out := env.output(intImage.Premultiplied)
	for y := out.Rect.Min.Y; y < out.Rect.Max.Y; y++ {
		for x := out.Rect.Min.X; x < out.Rect.Max.X; x++ {
			var acc [4]uint8
			for k := -ry; k <= ry; k++ {
				r, g, b, a := tmp.RGBAAt(x, y+k)
				acc = pickPixel(acc, [4]uint8{r, g, b, a}, k == -ry, pick)
			}
			out.SetRGBA(x, y, acc[0], acc[1], acc[2], acc[3])
		}
	}
	return out, nil
}

func pickPixel(acc, px [4]uint8, first bool, pick func(a, b uint8) uint8) [4]uint8 {
	if first {
		return px
	}
	for i := range acc {
		acc[i] = pick(acc[i], px[i])
	}
	return acc
}

func maxU8(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}
