package filter

import (
	"fmt"
	"image"
	"strings"

	intImage "github.com/gogpu/svgfilter/internal/image"
)

// EdgeMode is the feConvolveMatrix edge mode.
type EdgeMode uint8

const (
	// EdgeNone means samples outside the input do not contribute.
	EdgeNone EdgeMode = iota
	// EdgeDuplicate extends edge pixels. Accepted but evaluated as EdgeNone.
	EdgeDuplicate
	// EdgeWrap wraps around the input. Accepted but evaluated as EdgeNone.
	EdgeWrap
)

var edgeModeNames = [...]string{"none", "duplicate", "wrap"}

// String returns the SVG keyword for the edge mode.
func (m EdgeMode) String() string {
	if int(m) < len(edgeModeNames) {
		return edgeModeNames[m]
	}
	return "unknown"
}

// ParseEdgeMode parses an SVG edge mode keyword.
func ParseEdgeMode(s string) (EdgeMode, error) {
	s = strings.TrimSpace(s)
	for i, name := range edgeModeNames {
		if s == name {
			return EdgeMode(i), nil
		}
	}
	return EdgeNone, fmt.Errorf("filter: unknown edge mode %q", s)
}

// ConvolveMatrix is the feConvolveMatrix primitive.
//
// Kernel holds OrderX*OrderY weights in row-major order. A zero Divisor
// means the sum of the weights, or 1 if they sum to zero. A target outside
// [0, order) (use -1 for "unset") means floor(order/2). Bias is in [0,1]
// units.
type ConvolveMatrix struct {
	OrderX, OrderY   int
	Kernel           []float64
	Divisor          float64
	Bias             float64
	TargetX, TargetY int
	EdgeMode         EdgeMode
	PreserveAlpha    bool
}

func (ConvolveMatrix) Kind() Kind     { return KindConvolveMatrix }
func (ConvolveMatrix) Traits() Traits { return TraitParallel | TraitAxisAligned }
func (ConvolveMatrix) isParams()      {}

// Normalize returns p with orders, targets and divisor resolved to their
// documented defaults.
func (p ConvolveMatrix) Normalize() ConvolveMatrix {
	if p.OrderX < 1 {
		p.OrderX = 3
	}
	if p.OrderY < 1 {
		p.OrderY = p.OrderX
	}
	if p.TargetX < 0 || p.TargetX >= p.OrderX {
		p.TargetX = p.OrderX / 2
	}
	if p.TargetY < 0 || p.TargetY >= p.OrderY {
		p.TargetY = p.OrderY / 2
	}
	if p.Divisor == 0 {
		var sum float64
		for _, k := range p.Kernel {
			sum += k
		}
		p.Divisor = sum
		if p.Divisor == 0 {
			p.Divisor = 1
		}
	}
	return p
}

func (p ConvolveMatrix) enlarge(area image.Rectangle) image.Rectangle {
	p = p.Normalize()
	return image.Rect(
		area.Min.X-p.TargetX,
		area.Min.Y-p.TargetY,
		area.Max.X+p.OrderX-p.TargetX-1,
		area.Max.Y+p.OrderY-p.TargetY-1,
	)
}

type convolveMode uint8

const (
	convolvePremultiplied convolveMode = iota
	convolveStraight
	convolvePreserveAlpha
)

func evaluateConvolveMatrix(in *intImage.Buffer, p ConvolveMatrix, env *Env) (*intImage.Buffer, error) {
	p = p.Normalize()
	if len(p.Kernel) != p.OrderX*p.OrderY {
		return nil, fmt.Errorf("%w: %dx%d needs %d values, got %d",
			ErrKernelSize, p.OrderX, p.OrderY, p.OrderX*p.OrderY, len(p.Kernel))
	}
	if p.EdgeMode != EdgeNone {
		env.warnOnce("convolve-edge-mode", "feConvolveMatrix: edgeMode not implemented, using none",
			"edgeMode", p.EdgeMode.String())
	}

	mode := convolvePremultiplied
	src := in
	switch {
	case p.PreserveAlpha:
		mode = convolvePreserveAlpha
		src = in.ToAlpha(intImage.Straight)
	case in.Alpha == intImage.Straight:
		mode = convolveStraight
	}

	outAlpha := intImage.Premultiplied
	if mode != convolvePremultiplied {
		outAlpha = intImage.Straight
	}
	out := env.output(outAlpha)

	// Reverse the kernel once so the inner loop walks it forwards:
	// weight(i,j) = kernel[orderX-1-j, orderY-1-i].
	n := len(p.Kernel)
	k := make([]float32, n)
	for i, v := range p.Kernel {
		k[n-1-i] = float32(v)
	}
	invDiv := float32(1 / p.Divisor)
	bias := float32(p.Bias) * 255

	sr := src.Rect
	for y := out.Rect.Min.Y; y < out.Rect.Max.Y; y++ {
		// Restrict i so that y-targetY+i stays inside src.
		iMin := max(0, sr.Min.Y-(y-p.TargetY))
		iMax := min(p.OrderY, sr.Max.Y-(y-p.TargetY))
		di := out.PixOffset(out.Rect.Min.X, y)
		for x := out.Rect.Min.X; x < out.Rect.Max.X; x, di = x+1, di+4 {
			jMin := max(0, sr.Min.X-(x-p.TargetX))
			jMax := min(p.OrderX, sr.Max.X-(x-p.TargetX))

			var sum [4]float32
			for i := iMin; i < iMax; i++ {
				row := src.PixOffset(x-p.TargetX, y-p.TargetY+i)
				krow := k[i*p.OrderX : (i+1)*p.OrderX]
				for j := jMin; j < jMax; j++ {
					s := src.Pix[row+4*j : row+4*j+4 : row+4*j+4]
					w := krow[j]
					switch mode {
					case convolveStraight:
						a := float32(s[3])
						sum[0] += w * float32(s[0]) * a
						sum[1] += w * float32(s[1]) * a
						sum[2] += w * float32(s[2]) * a
						sum[3] += w * a
					default:
						sum[0] += w * float32(s[0])
						sum[1] += w * float32(s[1])
						sum[2] += w * float32(s[2])
						sum[3] += w * float32(s[3])
					}
				}
			}

			d := out.Pix[di : di+4 : di+4]
			switch mode {
			case convolvePremultiplied:
				a := clampUint8(sum[3]*invDiv + bias)
				d[0] = minU8(clampUint8(sum[0]*invDiv+bias), a)
				d[1] = minU8(clampUint8(sum[1]*invDiv+bias), a)
				d[2] = minU8(clampUint8(sum[2]*invDiv+bias), a)
				d[3] = a

			case convolveStraight:
				a := clampUint8(sum[3]*invDiv + bias)
				if a == 0 {
					d[0], d[1], d[2], d[3] = 0, 0, 0, 0
					continue
				}
				// Color sums are premultiplied by alpha in [0,255]; divide
				// by the final alpha to get straight color back.
				fa := float32(a)
				d[0] = clampUint8((sum[0]*invDiv/255 + bias) * 255 / fa)
				d[1] = clampUint8((sum[1]*invDiv/255 + bias) * 255 / fa)
				d[2] = clampUint8((sum[2]*invDiv/255 + bias) * 255 / fa)
				d[3] = a

			case convolvePreserveAlpha:
				_, _, _, a := src.RGBAAt(x, y)
				d[0] = clampUint8(sum[0]*invDiv + bias)
				d[1] = clampUint8(sum[1]*invDiv + bias)
				d[2] = clampUint8(sum[2]*invDiv + bias)
				d[3] = a
			}
		}
	}
	return out, nil
}
