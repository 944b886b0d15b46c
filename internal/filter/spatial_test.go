package filter

import (
	"bytes"
	"image"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/svgfilter/geom"
	"github.com/gogpu/svgfilter/internal/color"
	intImage "github.com/gogpu/svgfilter/internal/image"
)

func TestOffsetZeroIsIdentity(t *testing.T) {
	area := image.Rect(0, 0, 10, 10)
	src := randomPremultiplied(area, 9)
	out, err := Evaluate(Offset{}, []*intImage.Buffer{src}, testEnv(area))
	require.NoError(t, err)
	assert.Equal(t, src.Pix, out.Pix)
}

func TestOffsetShiftsAndRounds(t *testing.T) {
	area := image.Rect(0, 0, 5, 5)
	src := intImage.NewBuffer(area)
	src.SetRGBA(1, 1, 9, 9, 9, 9)

	env := testEnv(area)
	env.Transform = geom.Scale(2, 2)
	// 0.8 primitive units at scale 2 is 1.6 pixels, rounded to 2.
	out, err := Evaluate(Offset{Dx: 0.8, Dy: -0.2}, []*intImage.Buffer{src}, env)
	require.NoError(t, err)
	assert.Equal(t, rgba{9, 9, 9, 9}, at(out, 3, 1))
	assert.Equal(t, rgba{}, at(out, 1, 1))
}

func TestOffsetEnlarge(t *testing.T) {
	area := image.Rect(0, 0, 10, 10)
	env := testEnv(area)
	assert.Equal(t, image.Rect(-3, 0, 10, 12), Enlarge(Offset{Dx: 3, Dy: -2}, area, env))
	assert.Equal(t, area, Enlarge(Offset{}, area, env))
}

func TestTileOnePixel(t *testing.T) {
	red := filled(image.Rect(0, 0, 1, 1), rgba{255, 0, 0, 255})
	env := testEnv(image.Rect(0, 0, 10, 10))
	env.InputSubregion = image.Rect(0, 0, 1, 1)

	out, err := Evaluate(Tile{}, []*intImage.Buffer{red}, env)
	require.NoError(t, err)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			require.Equal(t, rgba{255, 0, 0, 255}, at(out, x, y), "(%d,%d)", x, y)
		}
	}
}

func TestTilePattern(t *testing.T) {
	src := intImage.NewBuffer(image.Rect(2, 2, 4, 3))
	src.SetRGBA(2, 2, 1, 1, 1, 1)
	src.SetRGBA(3, 2, 2, 2, 2, 2)
	env := testEnv(image.Rect(-1, 0, 5, 2))
	env.InputSubregion = src.Rect

	out, err := Evaluate(Tile{}, []*intImage.Buffer{src}, env)
	require.NoError(t, err)
	// Columns alternate 1,2 anchored at x=2; rows repeat.
	wantRow := []uint8{2, 1, 2, 1, 2, 1}
	for y := 0; y < 2; y++ {
		for i, want := range wantRow {
			assert.Equal(t, want, at(out, i-1, y)[3], "(%d,%d)", i-1, y)
		}
	}
}

func TestTileDegradedAndEmpty(t *testing.T) {
	var logs bytes.Buffer
	env := testEnv(image.Rect(0, 0, 4, 4))
	env.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	// Declared 2x2, only the left column resident.
	src := filled(image.Rect(0, 0, 1, 2), rgba{50, 50, 50, 50})
	env.InputSubregion = image.Rect(0, 0, 2, 2)
	out, err := Evaluate(Tile{}, []*intImage.Buffer{src}, env)
	require.NoError(t, err)
	assert.Equal(t, rgba{50, 50, 50, 50}, at(out, 3, 3))
	assert.Contains(t, logs.String(), "not fully resident")

	// Empty source subregion passes through.
	env.InputSubregion = image.Rectangle{}
	out, err = Evaluate(Tile{}, []*intImage.Buffer{src}, env)
	require.NoError(t, err)
	assert.Equal(t, rgba{50, 50, 50, 50}, at(out, 0, 1))
	assert.Equal(t, rgba{}, at(out, 3, 3))
	assert.Equal(t, 1, strings.Count(logs.String(), "empty source subregion"))
}

func TestTileEnlargeAndTraits(t *testing.T) {
	env := testEnv(image.Rect(0, 0, 10, 10))
	env.InputSubregion = image.Rect(40, 40, 43, 42)
	got := Enlarge(Tile{}, env.Area, env)
	assert.True(t, env.InputSubregion.In(got))
	assert.True(t, env.Area.Inset(-3).In(got))
	assert.False(t, Tile{}.Traits().Has(TraitParallel))
	assert.True(t, ConvolveMatrix{}.Traits().Has(TraitParallel))
}

func TestMorphology(t *testing.T) {
	area := image.Rect(0, 0, 5, 5)
	src := intImage.NewBuffer(area)
	src.SetRGBA(2, 2, 255, 255, 255, 255)

	out, err := Evaluate(Morphology{Operator: Dilate, RadiusX: 1, RadiusY: 1}, []*intImage.Buffer{src}, testEnv(area))
	require.NoError(t, err)
	assert.Equal(t, rgba{255, 255, 255, 255}, at(out, 1, 1))
	assert.Equal(t, rgba{255, 255, 255, 255}, at(out, 3, 3))
	assert.Equal(t, rgba{}, at(out, 0, 0))

	out, err = Evaluate(Morphology{Operator: Erode, RadiusX: 1, RadiusY: 1}, []*intImage.Buffer{out}, testEnv(area))
	require.NoError(t, err)
	assert.Equal(t, rgba{255, 255, 255, 255}, at(out, 2, 2))
	assert.Equal(t, rgba{}, at(out, 1, 1))

	// A zero radius disables the primitive.
	out, err = Evaluate(Morphology{Operator: Erode, RadiusX: 0, RadiusY: 3}, []*intImage.Buffer{src}, testEnv(area))
	require.NoError(t, err)
	assert.Equal(t, src.Pix, out.Pix)

	assert.Equal(t, image.Rect(-2, -1, 7, 6), Enlarge(Morphology{RadiusX: 1, RadiusY: 0.5}, area, &Env{Transform: geom.Scale(2, 2)}))
}

func TestGaussianBlur(t *testing.T) {
	area := image.Rect(-10, -10, 11, 11)
	src := intImage.NewBuffer(area)
	src.SetRGBA(0, 0, 255, 255, 255, 255)

	out, err := Evaluate(GaussianBlur{StdDeviationX: 1.5, StdDeviationY: 1.5}, []*intImage.Buffer{src}, testEnv(area))
	require.NoError(t, err)
	center := at(out, 0, 0)
	assert.Less(t, center[3], uint8(255))
	assert.Greater(t, center[3], at(out, 2, 0)[3])
	assert.Equal(t, at(out, 2, 0), at(out, -2, 0), "symmetric")
	assert.Equal(t, at(out, 0, 2), at(out, 2, 0), "isotropic")

	var sum int
	for i := 3; i < len(out.Pix); i += 4 {
		sum += int(out.Pix[i])
	}
	assert.InDelta(t, 255, sum, 20, "energy is roughly preserved")

	zero, err := Evaluate(GaussianBlur{}, []*intImage.Buffer{src}, testEnv(area))
	require.NoError(t, err)
	assert.Equal(t, src.Pix, zero.Pix)

	_, err = Evaluate(GaussianBlur{StdDeviationX: -1}, []*intImage.Buffer{src}, testEnv(area))
	assert.Error(t, err)

	assert.Equal(t, image.Rect(-5, -3, 6, 4), Enlarge(GaussianBlur{StdDeviationX: 1.5, StdDeviationY: 1}, image.Rect(0, 0, 1, 1), testEnv(area)))
}

func TestGaussianKernel(t *testing.T) {
	k := GaussianKernel(2)
	assert.Len(t, k, 13)
	var sum float32
	for _, v := range k {
		sum += v
	}
	assert.InDelta(t, 1, sum, 1e-5)
	assert.Equal(t, []float32{1}, GaussianKernel(0))
}

func TestKernelCacheRoundsSigma(t *testing.T) {
	c := NewKernelCache(8)
	assert.Equal(t, GaussianKernel(1.24), c.Kernel(1.239))
	assert.Equal(t, GaussianKernel(1.23), c.Kernel(1.231))
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, GaussianKernel(1.24), c.Kernel(1.2401))
	assert.Equal(t, 2, c.Len(), "same key reused")

	var none *KernelCache
	assert.Equal(t, GaussianKernel(1.24), none.Kernel(1.239))
	assert.Zero(t, none.Len())
}

func TestKernelCacheEvicts(t *testing.T) {
	c := NewKernelCache(4)
	for i := 1; i <= 10; i++ {
		c.Kernel(float64(i) / 10)
	}
	assert.LessOrEqual(t, c.Len(), 4)
}

func TestGaussianBlurSupportMatchesKernel(t *testing.T) {
	// 3*0.666 rounds below 2 but the cached 0.67 kernel needs radius 3.
	p := GaussianBlur{StdDeviationX: 0.666, StdDeviationY: 0.666}
	env := testEnv(image.Rect(0, 0, 1, 1))
	sx, _ := p.Sigma(env.Transform)
	assert.Equal(t, 0.67, sx)
	got := Enlarge(p, image.Rect(0, 0, 1, 1), env)
	assert.Equal(t, len(NewKernelCache(1).Kernel(sx))/2, -got.Min.X)
	assert.Equal(t, image.Rect(-3, -3, 4, 4), got)
}

func TestFlood(t *testing.T) {
	area := image.Rect(3, 3, 5, 5)
	env := testEnv(area)
	out, err := Evaluate(Flood{Color: color.ColorF32{R: 1, A: 1}, Opacity: 0.5}, nil, env)
	require.NoError(t, err)
	assert.Equal(t, area, out.Rect)
	assert.Equal(t, rgba{128, 0, 0, 128}, at(out, 4, 4))

	env.Space = color.LinearRGB
	out, err = Evaluate(Flood{Color: color.ColorF32{R: 0.5, A: 1}, Opacity: 1}, nil, env)
	require.NoError(t, err)
	assert.Equal(t, color.LinearRGB, out.Space)
	assert.Equal(t, uint8(55), at(out, 3, 3)[0])
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "feConvolveMatrix", ConvolveMatrix{}.Kind().String())
	assert.Equal(t, "feTile", Tile{}.Kind().String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}
