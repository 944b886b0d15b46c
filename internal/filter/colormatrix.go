package filter

import (
	"fmt"
	"image"
	"strings"

	"github.com/chewxy/math32"

	intImage "github.com/gogpu/svgfilter/internal/image"
)

// ColorMatrixType selects how ColorMatrix.Values is interpreted.
type ColorMatrixType uint8

const (
	// MatrixValues is a general 4x5 matrix applied to straight RGBA.
	MatrixValues ColorMatrixType = iota
	// Saturate desaturates by a scalar in [0,1].
	Saturate
	// HueRotate rotates hue by an angle in degrees.
	HueRotate
	// LuminanceToAlpha moves luminance into alpha and zeroes color.
	LuminanceToAlpha
)

var colorMatrixTypeNames = [...]string{"matrix", "saturate", "hueRotate", "luminanceToAlpha"}

// String returns the SVG keyword for the type.
func (t ColorMatrixType) String() string {
	if int(t) < len(colorMatrixTypeNames) {
		return colorMatrixTypeNames[t]
	}
	return "unknown"
}

// ParseColorMatrixType parses an SVG color matrix type keyword.
func ParseColorMatrixType(s string) (ColorMatrixType, error) {
	s = strings.TrimSpace(s)
	for i, name := range colorMatrixTypeNames {
		if strings.EqualFold(s, name) {
			return ColorMatrixType(i), nil
		}
	}
	return MatrixValues, fmt.Errorf("filter: unknown color matrix type %q", s)
}

// ColorMatrix is the feColorMatrix primitive.
//
// For MatrixValues, Values holds 20 numbers in row-major order; the fifth
// column is an offset in [0,1] units. Saturate and HueRotate take a single
// value (defaults 1 and 0). LuminanceToAlpha ignores Values.
type ColorMatrix struct {
	Type   ColorMatrixType
	Values []float64
}

func (ColorMatrix) Kind() Kind     { return KindColorMatrix }
func (ColorMatrix) Traits() Traits { return TraitParallel }
func (ColorMatrix) isParams()      {}

// Luminance coefficients of the saturate and hueRotate matrices.
const (
	lumR = 0.213
	lumG = 0.715
	lumB = 0.072
)

// Luminance coefficients of the luminanceToAlpha matrix.
const (
	alphaLumR = 0.2125
	alphaLumG = 0.7154
	alphaLumB = 0.0721
)

func evaluateColorMatrix(in *intImage.Buffer, p ColorMatrix, env *Env) (*intImage.Buffer, error) {
	switch p.Type {
	case Saturate:
		s := float32(1)
		if len(p.Values) >= 1 {
			s = float32(p.Values[0])
		}
		s = math32.Max(0, math32.Min(1, s))
		return applyColorOnly(in, saturateMatrix(s), env), nil

	case HueRotate:
		var deg float32
		if len(p.Values) >= 1 {
			deg = float32(p.Values[0])
		}
		return applyColorOnly(in, hueRotateMatrix(deg), env), nil

	case LuminanceToAlpha:
		return luminanceToAlpha(in, env), nil

	default:
		m := identityMatrix
		if len(p.Values) == 20 {
			for i, v := range p.Values {
				m[i] = float32(v)
			}
		} else {
			env.logWarn("feColorMatrix: matrix needs 20 values, using identity", "got", len(p.Values))
		}
		return applyMatrix(in, m, env), nil
	}
}

var identityMatrix = [20]float32{
	1, 0, 0, 0, 0,
	0, 1, 0, 0, 0,
	0, 0, 1, 0, 0,
	0, 0, 0, 1, 0,
}

// saturateMatrix returns the 3x3 color part of the SVG saturate matrix.
func saturateMatrix(s float32) [9]float32 {
	return [9]float32{
		lumR + (1-lumR)*s, lumG - lumG*s, lumB - lumB*s,
		lumR - lumR*s, lumG + (1-lumG)*s, lumB - lumB*s,
		lumR - lumR*s, lumG - lumG*s, lumB + (1-lumB)*s,
	}
}

// hueRotateMatrix returns the 3x3 color part of the SVG hueRotate matrix.
func hueRotateMatrix(deg float32) [9]float32 {
	sin, cos := math32.Sincos(deg * math32.Pi / 180)
	return [9]float32{
		lumR + cos*(1-lumR) - sin*lumR,
		lumG - cos*lumG - sin*lumG,
		lumB - cos*lumB + sin*(1-lumB),

		lumR - cos*lumR + sin*0.143,
		lumG + cos*(1-lumG) + sin*0.140,
		lumB - cos*lumB - sin*0.283,

		lumR - cos*lumR - sin*(1-lumR),
		lumG - cos*lumG + sin*lumG,
		lumB + cos*(1-lumB) + sin*lumB,
	}
}

// applyColorOnly applies a 3x3 matrix to premultiplied color, leaving
// alpha untouched and clamping color to alpha. Premultiplication commutes
// with a linear color map, so the input is used in premultiplied form.
func applyColorOnly(in *intImage.Buffer, m [9]float32, env *Env) *intImage.Buffer {
	src := in.ToAlpha(intImage.Premultiplied)
	out := env.output(intImage.Premultiplied)
	forEachPixel(src, out, func(s, d []uint8) {
		r, g, b, a := float32(s[0]), float32(s[1]), float32(s[2]), s[3]
		d[0] = minU8(clampUint8(m[0]*r+m[1]*g+m[2]*b), a)
		d[1] = minU8(clampUint8(m[3]*r+m[4]*g+m[5]*b), a)
		d[2] = minU8(clampUint8(m[6]*r+m[7]*g+m[8]*b), a)
		d[3] = a
	})
	return out
}

// applyMatrix applies a full 4x5 matrix to straight RGBA. Pixels of the
// area outside the input are transparent black and still receive the
// offset column.
func applyMatrix(in *intImage.Buffer, m [20]float32, env *Env) *intImage.Buffer {
	src := in.ToAlpha(intImage.Straight)
	out := env.output(intImage.Straight)
	forEachOutputPixel(src, out, func(s, d []uint8) {
		r, g, b, a := float32(s[0]), float32(s[1]), float32(s[2]), float32(s[3])
		for row := 0; row < 4; row++ {
			k := m[row*5 : row*5+5 : row*5+5]
			d[row] = clampUint8(k[0]*r + k[1]*g + k[2]*b + k[3]*a + k[4]*255)
		}
	})
	return out
}

// luminanceToAlpha computes alpha from straight color. The color channels
// of the result are zero, which is valid in either alpha convention.
func luminanceToAlpha(in *intImage.Buffer, env *Env) *intImage.Buffer {
	src := in.ToAlpha(intImage.Straight)
	out := env.output(intImage.Premultiplied)
	forEachPixel(src, out, func(s, d []uint8) {
		d[3] = clampUint8(alphaLumR*float32(s[0]) + alphaLumG*float32(s[1]) + alphaLumB*float32(s[2]))
	})
	return out
}

// forEachPixel calls fn for every pixel of out that is also inside src,
// with s and d the 4-byte pixel slices.
func forEachPixel(src, out *intImage.Buffer, fn func(s, d []uint8)) {
	r := out.Rect.Intersect(src.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		si := src.PixOffset(r.Min.X, y)
		di := out.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			fn(src.Pix[si:si+4:si+4], out.Pix[di:di+4:di+4])
			si += 4
			di += 4
		}
	}
}

// forEachOutputPixel calls fn for every pixel of out. Pixels outside src
// are read as transparent black.
func forEachOutputPixel(src, out *intImage.Buffer, fn func(s, d []uint8)) {
	var zero [4]uint8
	r := out.Rect
	for y := r.Min.Y; y < r.Max.Y; y++ {
		di := out.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			s := zero[:]
			if (image.Point{X: x, Y: y}).In(src.Rect) {
				si := src.PixOffset(x, y)
				s = src.Pix[si : si+4 : si+4]
			}
			fn(s, out.Pix[di:di+4:di+4])
			di += 4
		}
	}
}

func minU8(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}
