package svgfilter

import (
	"image"
	stdcolor "image/color"
	"math/rand"

	"github.com/gogpu/svgfilter/geom"
)

// Test helper functions shared across svgfilter tests.

// userSpaceProgram returns a program whose filter region is the w x h
// rectangle at the origin, in user space.
func userSpaceProgram(w, h float64, opts ...Option) *Program {
	p := New(opts...)
	p.SetUnits(UserSpaceOnUse, UserSpaceOnUse)
	p.SetRegion(geom.XYWH(0, 0, w, h))
	return p
}

// dotImage returns a w x h transparent image with one opaque white pixel.
func dotImage(w, h, x, y int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.SetRGBA(x, y, stdcolor.RGBA{R: 255, G: 255, B: 255, A: 255})
	return img
}

// randomImage returns an image of valid premultiplied pixels.
func randomImage(w, h int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		a := uint8(rng.Intn(256))
		img.Pix[i+0] = uint8(rng.Intn(int(a) + 1))
		img.Pix[i+1] = uint8(rng.Intn(int(a) + 1))
		img.Pix[i+2] = uint8(rng.Intn(int(a) + 1))
		img.Pix[i+3] = a
	}
	return img
}

func rgbaAt(img *image.RGBA, x, y int) [4]uint8 {
	c := img.RGBAAt(x, y)
	return [4]uint8{c.R, c.G, c.B, c.A}
}

func ptr[T any](v T) *T { return &v }
