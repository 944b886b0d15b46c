package filter

import (
	"fmt"
	"image"

	"github.com/gogpu/svgfilter/geom"
	intImage "github.com/gogpu/svgfilter/internal/image"
)

// GaussianBlur is the feGaussianBlur primitive. Deviations are in
// primitive units. A zero deviation on both axes passes the input through;
// a negative one is an error.
type GaussianBlur struct {
	StdDeviationX, StdDeviationY float64
}

func (GaussianBlur) Kind() Kind     { return KindGaussianBlur }
func (GaussianBlur) Traits() Traits { return TraitParallel | TraitAxisAligned }
func (GaussianBlur) isParams()      {}

// Sigma returns the deviations in buffer pixels, quantized to the kernel
// cache step.
func (p GaussianBlur) Sigma(m geom.Matrix) (sx, sy float64) {
	return QuantizeSigma(p.StdDeviationX * m.ExpansionX()), QuantizeSigma(p.StdDeviationY * m.ExpansionY())
}

func (p GaussianBlur) enlarge(area image.Rectangle, m geom.Matrix) image.Rectangle {
	sx, sy := p.Sigma(m)
	rx, ry := KernelRadius(sx), KernelRadius(sy)
	return image.Rect(area.Min.X-rx, area.Min.Y-ry, area.Max.X+rx, area.Max.Y+ry)
}

// evaluateGaussianBlur runs two separable passes on premultiplied data:
//  1. Horizontal pass: rows of the input into a float buffer
//  2. Vertical pass: columns of the float buffer into the output
//
// Samples outside the input contribute zero.
func evaluateGaussianBlur(in *intImage.Buffer, p GaussianBlur, env *Env) (*intImage.Buffer, error) {
	if p.StdDeviationX < 0 || p.StdDeviationY < 0 {
		return nil, fmt.Errorf("filter: negative stdDeviation (%g, %g)", p.StdDeviationX, p.StdDeviationY)
	}
	sx, sy := p.Sigma(env.Transform)
	if sx <= 0 && sy <= 0 {
		return passthrough(in, env), nil
	}
	src := in.ToAlpha(intImage.Premultiplied)
	kx := env.Kernels.Kernel(sx)
	ky := env.Kernels.Kernel(sy)
	hx, hy := len(kx)/2, len(ky)/2

	area := env.Area
	rows := image.Rect(area.Min.X, area.Min.Y-hy, area.Max.X, area.Max.Y+hy)
	w, h := rows.Dx(), rows.Dy()
	temp := make([]float32, w*h*4)

	for ty := 0; ty < h; ty++ {
		y := rows.Min.Y + ty
		if y < src.Rect.Min.Y || y >= src.Rect.Max.Y {
			continue
		}
		for tx := 0; tx < w; tx++ {
			x := rows.Min.X + tx
			kMin := max(0, src.Rect.Min.X-(x-hx))
			kMax := min(len(kx), src.Rect.Max.X-(x-hx))
			var r, g, b, a float32
			for k := kMin; k < kMax; k++ {
				i := src.PixOffset(x-hx+k, y)
				wgt := kx[k]
				r += float32(src.Pix[i+0]) * wgt
				g += float32(src.Pix[i+1]) * wgt
				b += float32(src.Pix[i+2]) * wgt
				a += float32(src.Pix[i+3]) * wgt
			}
			ti := (ty*w + tx) * 4
			temp[ti+0], temp[ti+1], temp[ti+2], temp[ti+3] = r, g, b, a
		}
	}

	out := env.output(intImage.Premultiplied)
	for y := area.Min.Y; y < area.Max.Y; y++ {
		di := out.PixOffset(area.Min.X, y)
		for tx := 0; tx < w; tx, di = tx+1, di+4 {
			var r, g, b, a float32
			for k := range ky {
				ti := ((y-rows.Min.Y-hy+k)*w + tx) * 4
				wgt := ky[k]
				r += temp[ti+0] * wgt
				g += temp[ti+1] * wgt
				b += temp[ti+2] * wgt
				a += temp[ti+3] * wgt
			}
			ca := clampUint8(a)
			d := out.Pix[di : di+4 : di+4]
			d[0] = minU8(clampUint8(r), ca)
			d[1] = minU8(clampUint8(g), ca)
			d[2] = minU8(clampUint8(b), ca)
			d[3] = ca
		}
	}
	return out, nil
}
