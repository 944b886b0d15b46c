package image

import (
	"image"
	"testing"

	"github.com/gogpu/svgfilter/internal/color"
)

func TestNewBuffer(t *testing.T) {
	b := NewBuffer(image.Rect(-2, 3, 4, 5))
	if got, want := len(b.Pix), 6*2*4; got != want {
		t.Fatalf("len(Pix) = %d, want %d", got, want)
	}
	if b.Stride != 24 {
		t.Errorf("Stride = %d, want 24", b.Stride)
	}
	if b.Alpha != Premultiplied || b.Space != color.SRGB {
		t.Errorf("tags = (%v, %v), want (Premultiplied, sRGB)", b.Alpha, b.Space)
	}
	if !NewBuffer(image.Rectangle{}).Empty() {
		t.Error("zero rectangle should give an empty buffer")
	}
}

func TestBufferSetGetOutside(t *testing.T) {
	b := NewBuffer(image.Rect(10, 10, 12, 12))
	b.SetRGBA(11, 10, 1, 2, 3, 4)
	b.SetRGBA(0, 0, 9, 9, 9, 9) // dropped

	if r, g, bl, a := b.RGBAAt(11, 10); r != 1 || g != 2 || bl != 3 || a != 4 {
		t.Errorf("RGBAAt(11,10) = (%d,%d,%d,%d), want (1,2,3,4)", r, g, bl, a)
	}
	if _, _, _, a := b.RGBAAt(12, 10); a != 0 {
		t.Errorf("RGBAAt outside = %d, want 0", a)
	}
	if got := b.PixOffset(11, 11); got != 12 {
		t.Errorf("PixOffset(11,11) = %d, want 12", got)
	}
}

func TestBufferCrop(t *testing.T) {
	b := NewBuffer(image.Rect(0, 0, 2, 2))
	b.Fill(b.Rect, 10, 20, 30, 40)

	c := b.Crop(image.Rect(1, 1, 3, 3))
	if c.Rect != image.Rect(1, 1, 3, 3) {
		t.Fatalf("Rect = %v", c.Rect)
	}
	if _, _, _, a := c.RGBAAt(1, 1); a != 40 {
		t.Errorf("overlap alpha = %d, want 40", a)
	}
	if _, _, _, a := c.RGBAAt(2, 2); a != 0 {
		t.Errorf("outside alpha = %d, want 0", a)
	}
}

func TestAlphaOnly(t *testing.T) {
	b := NewBuffer(image.Rect(0, 0, 1, 1))
	b.SetRGBA(0, 0, 100, 50, 25, 200)
	r, g, bl, a := b.AlphaOnly().RGBAAt(0, 0)
	if r != 0 || g != 0 || bl != 0 || a != 200 {
		t.Errorf("AlphaOnly = (%d,%d,%d,%d), want (0,0,0,200)", r, g, bl, a)
	}
}

func TestToAlpha(t *testing.T) {
	tests := []struct {
		name     string
		in       [4]uint8
		mode     AlphaMode
		want     [4]uint8
		fromMode AlphaMode
	}{
		{"premul to straight half", [4]uint8{64, 32, 0, 128}, Straight, [4]uint8{128, 64, 0, 128}, Premultiplied},
		{"straight to premul half", [4]uint8{255, 128, 0, 128}, Premultiplied, [4]uint8{128, 64, 0, 128}, Straight},
		{"zero alpha", [4]uint8{0, 0, 0, 0}, Straight, [4]uint8{0, 0, 0, 0}, Premultiplied},
		{"opaque unchanged", [4]uint8{1, 2, 3, 255}, Straight, [4]uint8{1, 2, 3, 255}, Premultiplied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(image.Rect(0, 0, 1, 1))
			b.Alpha = tt.fromMode
			b.SetRGBA(0, 0, tt.in[0], tt.in[1], tt.in[2], tt.in[3])
			out := b.ToAlpha(tt.mode)
			if out.Alpha != tt.mode {
				t.Errorf("Alpha = %v, want %v", out.Alpha, tt.mode)
			}
			r, g, bl, a := out.RGBAAt(0, 0)
			if got := [4]uint8{r, g, bl, a}; got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToAlphaSameModeIsNoop(t *testing.T) {
	b := NewBuffer(image.Rect(0, 0, 1, 1))
	if b.ToAlpha(Premultiplied) != b {
		t.Error("ToAlpha with the current mode should return the receiver")
	}
}

func TestToColorSpace(t *testing.T) {
	b := NewBuffer(image.Rect(0, 0, 1, 1))
	b.SetRGBA(0, 0, 128, 0, 255, 255)

	lin := b.ToColorSpace(color.LinearRGB)
	if lin.Space != color.LinearRGB {
		t.Fatalf("Space = %v, want linearRGB", lin.Space)
	}
	if r, _, bl, a := lin.RGBAAt(0, 0); r != color.Table(color.SRGB, color.LinearRGB)[128] || bl != 255 || a != 255 {
		t.Errorf("linear = (%d,_,%d,%d)", r, bl, a)
	}
	if b.ToColorSpace(color.SRGB) != b {
		t.Error("ToColorSpace with the current space should return the receiver")
	}
	// The source must be untouched.
	if r, _, _, _ := b.RGBAAt(0, 0); r != 128 {
		t.Errorf("source mutated: r = %d", r)
	}
}

func TestRGBAExport(t *testing.T) {
	b := NewBuffer(image.Rect(5, 5, 6, 6))
	b.Alpha = Straight
	b.SetRGBA(5, 5, 255, 0, 0, 128)
	img := b.RGBA()
	if img.Rect != b.Rect {
		t.Fatalf("Rect = %v, want %v", img.Rect, b.Rect)
	}
	c := img.RGBAAt(5, 5)
	if c.R != 128 || c.A != 128 {
		t.Errorf("export = %+v, want premultiplied R=128 A=128", c)
	}
}

func TestPremultiplyRoundTrip(t *testing.T) {
	for a := 1; a < 256; a++ {
		for c := 0; c <= a; c++ {
			got := Premultiply(Unpremultiply(uint8(c), uint8(a)), uint8(a))
			if got != uint8(c) {
				t.Fatalf("round trip c=%d a=%d: got %d", c, a, got)
			}
		}
	}
}
