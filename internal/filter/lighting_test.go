package filter

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/svgfilter/internal/color"
	intImage "github.com/gogpu/svgfilter/internal/image"
)

func TestDiffuseFlatSurface(t *testing.T) {
	area := image.Rect(0, 0, 4, 4)
	src := filled(area, rgba{0, 0, 0, 255})
	p := DiffuseLighting{
		SurfaceScale:    1,
		DiffuseConstant: 0.5,
		Color:           color.White,
		Light:           DistantLight{Azimuth: 0, Elevation: 90},
	}
	out, err := Evaluate(p, []*intImage.Buffer{src}, testEnv(area))
	require.NoError(t, err)
	for _, pt := range []image.Point{{0, 0}, {1, 2}, {3, 3}} {
		px := at(out, pt.X, pt.Y)
		assert.InDelta(t, 128, px[0], 1, "%v", pt)
		assert.Equal(t, px[0], px[1])
		assert.Equal(t, uint8(255), px[3], "diffuse alpha is opaque")
	}
}

func TestDiffuseSlopeFacesLight(t *testing.T) {
	// Height rises to the right, so the surface faces -x.
	area := image.Rect(0, 0, 5, 3)
	src := intImage.NewBuffer(area)
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			a := uint8(x * 60)
			src.SetRGBA(x, y, 0, 0, 0, a)
		}
	}
	eval := func(azimuth float64) rgba {
		p := DiffuseLighting{SurfaceScale: 2, DiffuseConstant: 1, Color: color.White,
			Light: DistantLight{Azimuth: azimuth, Elevation: 30}}
		out, err := Evaluate(p, []*intImage.Buffer{src}, testEnv(area))
		require.NoError(t, err)
		return at(out, 2, 1)
	}
	fromLeft, fromRight := eval(180), eval(0)
	assert.Greater(t, fromLeft[0], fromRight[0])
}

func TestSpecularAlphaIsMaxChannel(t *testing.T) {
	area := image.Rect(0, 0, 3, 3)
	src := filled(area, rgba{0, 0, 0, 255})
	p := SpecularLighting{
		SurfaceScale:     1,
		SpecularConstant: 1,
		SpecularExponent: 1,
		Color:            color.ColorF32{R: 1, G: 0.5, B: 0, A: 1},
		Light:            DistantLight{Elevation: 90},
	}
	out, err := Evaluate(p, []*intImage.Buffer{src}, testEnv(area))
	require.NoError(t, err)
	px := at(out, 1, 1)
	assert.InDelta(t, 255, px[0], 1)
	assert.InDelta(t, 128, px[1], 1)
	assert.Equal(t, uint8(0), px[2])
	assert.Equal(t, px[0], px[3])
	assert.Equal(t, intImage.Premultiplied, out.Alpha)
}

func TestPointAndSpotLights(t *testing.T) {
	area := image.Rect(0, 0, 5, 5)
	src := intImage.NewBuffer(area) // flat, zero height

	point := DiffuseLighting{DiffuseConstant: 1, Color: color.White, Light: PointLight{X: 2, Y: 2, Z: 10}}
	out, err := Evaluate(point, []*intImage.Buffer{src}, testEnv(area))
	require.NoError(t, err)
	assert.Greater(t, at(out, 2, 2)[0], at(out, 0, 0)[0])
	assert.InDelta(t, 255, at(out, 2, 2)[0], 1)

	cone := 10.0
	spot := DiffuseLighting{DiffuseConstant: 1, Color: color.White, Light: SpotLight{
		X: 2, Y: 2, Z: 10, PointsAtX: 2, PointsAtY: 2, PointsAtZ: 0,
		SpecularExponent: 1, LimitingConeAngle: &cone,
	}}
	out, err = Evaluate(spot, []*intImage.Buffer{src}, testEnv(area))
	require.NoError(t, err)
	assert.InDelta(t, 255, at(out, 2, 2)[0], 1)
	assert.Equal(t, uint8(0), at(out, 0, 0)[0], "outside the cone")
	assert.Equal(t, uint8(255), at(out, 0, 0)[3])
}

func TestLightingEnlarge(t *testing.T) {
	area := image.Rect(0, 0, 3, 3)
	assert.Equal(t, image.Rect(-1, -1, 4, 4), Enlarge(DiffuseLighting{}, area, testEnv(area)))
	assert.Equal(t, image.Rect(-1, -1, 4, 4), Enlarge(SpecularLighting{}, area, testEnv(area)))
}

func TestSobelFactors(t *testing.T) {
	assert.InDelta(t, 0.25, sobelFactor(true, true), 1e-7)
	assert.InDelta(t, 1.0/3, sobelFactor(true, false), 1e-7)
	assert.InDelta(t, 0.5, sobelFactor(false, true), 1e-7)
	assert.InDelta(t, 2.0/3, sobelFactor(false, false), 1e-7)
}
