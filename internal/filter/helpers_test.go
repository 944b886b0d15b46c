package filter

import (
	"image"
	"math/rand"

	"github.com/gogpu/svgfilter/geom"
	intImage "github.com/gogpu/svgfilter/internal/image"
	"github.com/gogpu/svgfilter/internal/warn"
)

// Test helper functions shared across filter tests.

type rgba [4]uint8

// filled creates a premultiplied buffer covering r filled with c.
func filled(r image.Rectangle, c rgba) *intImage.Buffer {
	b := intImage.NewBuffer(r)
	b.Fill(r, c[0], c[1], c[2], c[3])
	return b
}

// randomPremultiplied creates a buffer of valid premultiplied pixels.
func randomPremultiplied(r image.Rectangle, seed int64) *intImage.Buffer {
	rng := rand.New(rand.NewSource(seed))
	b := intImage.NewBuffer(r)
	for i := 0; i < len(b.Pix); i += 4 {
		a := uint8(rng.Intn(256))
		b.Pix[i+0] = uint8(rng.Intn(int(a) + 1))
		b.Pix[i+1] = uint8(rng.Intn(int(a) + 1))
		b.Pix[i+2] = uint8(rng.Intn(int(a) + 1))
		b.Pix[i+3] = a
	}
	return b
}

func at(b *intImage.Buffer, x, y int) rgba {
	r, g, bl, a := b.RGBAAt(x, y)
	return rgba{r, g, bl, a}
}

// testEnv returns an evaluation context with identity units.
func testEnv(area image.Rectangle) *Env {
	return &Env{
		Warn:      &warn.Once{},
		Transform: geom.Identity(),
		Area:      area,
	}
}
