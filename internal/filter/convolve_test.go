package filter

import (
	"bytes"
	"image"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	intImage "github.com/gogpu/svgfilter/internal/image"
	"github.com/gogpu/svgfilter/internal/warn"
)

func box3() ConvolveMatrix {
	return ConvolveMatrix{
		OrderX: 3, OrderY: 3,
		Kernel:  []float64{1, 1, 1, 1, 1, 1, 1, 1, 1},
		Divisor: 9,
		TargetX: 1, TargetY: 1,
	}
}

func TestConvolveIdentityKernel(t *testing.T) {
	area := image.Rect(0, 0, 12, 9)
	src := randomPremultiplied(area, 4)
	p := ConvolveMatrix{OrderX: 1, OrderY: 1, Kernel: []float64{1}, Divisor: 1}

	out, err := Evaluate(p, []*intImage.Buffer{src}, testEnv(area))
	require.NoError(t, err)
	assert.Equal(t, intImage.Premultiplied, out.Alpha)
	assert.Equal(t, src.Pix, out.Pix)
}

func TestConvolveKernelOrientation(t *testing.T) {
	area := image.Rect(0, 0, 5, 1)
	src := intImage.NewBuffer(area)
	src.SetRGBA(2, 0, 255, 255, 255, 255)

	// out[x] = sum_j kernel[orderX-1-j] * in[x-targetX+j], so a kernel of
	// [1 0 0] reads the pixel to the right and moves content left.
	p := ConvolveMatrix{OrderX: 3, OrderY: 1, Kernel: []float64{1, 0, 0}, Divisor: 1, TargetX: 1, TargetY: 0}
	out, err := Evaluate(p, []*intImage.Buffer{src}, testEnv(area))
	require.NoError(t, err)
	assert.Equal(t, rgba{255, 255, 255, 255}, at(out, 1, 0))
	assert.Equal(t, rgba{}, at(out, 2, 0))

	// Vertically the same reversal applies.
	area = image.Rect(0, 0, 1, 5)
	src = intImage.NewBuffer(area)
	src.SetRGBA(0, 2, 255, 255, 255, 255)
	p = ConvolveMatrix{OrderX: 1, OrderY: 3, Kernel: []float64{0, 0, 1}, Divisor: 1, TargetX: 0, TargetY: 1}
	out, err = Evaluate(p, []*intImage.Buffer{src}, testEnv(area))
	require.NoError(t, err)
	assert.Equal(t, rgba{255, 255, 255, 255}, at(out, 0, 3))
}

func TestConvolveBoxBlurSinglePixel(t *testing.T) {
	area := image.Rect(-2, -2, 3, 3)
	src := intImage.NewBuffer(area)
	src.SetRGBA(0, 0, 255, 255, 255, 255)

	out, err := Evaluate(box3(), []*intImage.Buffer{src}, testEnv(area))
	require.NoError(t, err)
	for y := -1; y <= 1; y++ {
		for x := -1; x <= 1; x++ {
			assert.Equal(t, rgba{28, 28, 28, 28}, at(out, x, y), "(%d,%d)", x, y)
		}
	}
	assert.Equal(t, rgba{}, at(out, 2, 2))
}

func TestConvolveEdgesDoNotReadOutside(t *testing.T) {
	// Output area larger than the input: out-of-range samples simply do
	// not contribute.
	src := filled(image.Rect(0, 0, 2, 2), rgba{90, 90, 90, 90})
	area := image.Rect(-1, -1, 3, 3)
	out, err := Evaluate(box3(), []*intImage.Buffer{src}, testEnv(area))
	require.NoError(t, err)
	assert.Equal(t, rgba{40, 40, 40, 40}, at(out, 0, 0))   // 4 of 9 samples
	assert.Equal(t, rgba{10, 10, 10, 10}, at(out, -1, -1)) // 1 of 9 samples
}

func TestConvolveInvalidTargetFallsBack(t *testing.T) {
	tests := []struct {
		name           string
		tx, ty         int
		wantTX, wantTY int
	}{
		{"negative", -1, -5, 1, 1},
		{"too large", 3, 7, 1, 1},
		{"valid", 0, 2, 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := box3()
			p.TargetX, p.TargetY = tt.tx, tt.ty
			n := p.Normalize()
			assert.Equal(t, tt.wantTX, n.TargetX)
			assert.Equal(t, tt.wantTY, n.TargetY)

			area := image.Rect(0, 0, 4, 4)
			assert.NotPanics(t, func() {
				_, err := Evaluate(p, []*intImage.Buffer{randomPremultiplied(area, 5)}, testEnv(area))
				assert.NoError(t, err)
			})
		})
	}
}

func TestConvolveNormalizeDefaults(t *testing.T) {
	n := ConvolveMatrix{Kernel: []float64{1, 2, 1, 0, 0, 0, -1, -2, -1}, TargetX: -1, TargetY: -1}.Normalize()
	assert.Equal(t, 3, n.OrderX)
	assert.Equal(t, 3, n.OrderY)
	assert.Equal(t, 1.0, n.Divisor, "zero-sum kernel divides by 1")

	n = ConvolveMatrix{OrderX: 2, Kernel: []float64{1, 2, 3, 4}}.Normalize()
	assert.Equal(t, 2, n.OrderY)
	assert.Equal(t, 10.0, n.Divisor)
	assert.Equal(t, 0, n.TargetX, "zero is a valid target")
	assert.Equal(t, 0, n.TargetY)
}

func TestConvolveKernelSizeMismatch(t *testing.T) {
	area := image.Rect(0, 0, 2, 2)
	_, err := Evaluate(ConvolveMatrix{OrderX: 3, OrderY: 3, Kernel: []float64{1}}, []*intImage.Buffer{filled(area, rgba{})}, testEnv(area))
	assert.ErrorIs(t, err, ErrKernelSize)
}

func TestConvolveEnlarge(t *testing.T) {
	area := image.Rect(10, 10, 20, 20)
	tests := []struct {
		name string
		p    ConvolveMatrix
		want image.Rectangle
	}{
		{"order 3 target 1", ConvolveMatrix{OrderX: 3, OrderY: 1, TargetX: 1, TargetY: 0}, image.Rect(9, 10, 21, 20)},
		{"order 3 target 0", ConvolveMatrix{OrderX: 3, OrderY: 1, TargetX: 0, TargetY: 0}, image.Rect(10, 10, 22, 20)},
		{"order 3x3 target 2,0", ConvolveMatrix{OrderX: 3, OrderY: 3, TargetX: 2, TargetY: 0}, image.Rect(8, 10, 20, 22)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Enlarge(tt.p, area, testEnv(area)))
		})
	}
}

func TestConvolveStraightInput(t *testing.T) {
	area := image.Rect(0, 0, 3, 1)
	src := intImage.NewBuffer(area)
	src.Alpha = intImage.Straight
	src.SetRGBA(0, 0, 255, 0, 0, 255)
	src.SetRGBA(1, 0, 0, 0, 255, 0) // invisible blue must not bleed
	src.SetRGBA(2, 0, 0, 0, 0, 0)

	p := ConvolveMatrix{OrderX: 3, OrderY: 1, Kernel: []float64{1, 1, 1}, Divisor: 3, TargetX: 1}
	out, err := Evaluate(p, []*intImage.Buffer{src}, testEnv(area))
	require.NoError(t, err)
	assert.Equal(t, intImage.Straight, out.Alpha)
	assert.Equal(t, rgba{255, 0, 0, 85}, at(out, 1, 0))
	assert.Equal(t, rgba{}, at(out, 2, 0), "zero alpha forces zero color")
}

func TestConvolvePreserveAlpha(t *testing.T) {
	area := image.Rect(0, 0, 3, 1)
	src := intImage.NewBuffer(area)
	src.SetRGBA(0, 0, 100, 100, 100, 100) // premultiplied white at alpha 100
	src.SetRGBA(1, 0, 0, 0, 0, 255)
	src.SetRGBA(2, 0, 0, 0, 0, 0)

	p := ConvolveMatrix{OrderX: 3, OrderY: 1, Kernel: []float64{1, 1, 1}, Divisor: 3, TargetX: 1, PreserveAlpha: true}
	out, err := Evaluate(p, []*intImage.Buffer{src}, testEnv(area))
	require.NoError(t, err)
	assert.Equal(t, intImage.Straight, out.Alpha)
	// Straight colors (255, 0, 0) averaged; alpha copied.
	assert.Equal(t, rgba{85, 85, 85, 255}, at(out, 1, 0))
	assert.Equal(t, uint8(100), at(out, 0, 0)[3])
}

func TestConvolveEdgeModeWarnsOnce(t *testing.T) {
	var logs bytes.Buffer
	env := testEnv(image.Rect(0, 0, 2, 2))
	env.Logger = slog.New(slog.NewTextHandler(&logs, nil))
	env.Warn = &warn.Once{}

	p := box3()
	p.EdgeMode = EdgeWrap
	src := filled(env.Area, rgba{255, 255, 255, 255})
	for i := 0; i < 3; i++ {
		_, err := Evaluate(p, []*intImage.Buffer{src}, env)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, strings.Count(logs.String(), "edgeMode not implemented"))
}

func TestParseEdgeMode(t *testing.T) {
	m, err := ParseEdgeMode("duplicate")
	require.NoError(t, err)
	assert.Equal(t, EdgeDuplicate, m)
	_, err = ParseEdgeMode("mirror")
	assert.Error(t, err)
}
