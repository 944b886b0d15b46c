// Package image provides the pixel buffers passed between filter primitives.
//
// A Buffer is an RGBA8 raster positioned in filter pixel space. Besides the
// pixels it records which alpha convention the color channels use and which
// color-interpolation space they are encoded in, so that primitives can ask
// for the representation they need and pay for a conversion only when the
// representation actually differs.
package image

import (
	"errors"
	"image"

	"github.com/gogpu/svgfilter/internal/color"
)

// Common errors for buffer operations.
var (
	// ErrInvalidDimensions is returned when a buffer rectangle is empty.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrNilImage is returned when an import source is nil.
	ErrNilImage = errors.New("image: nil source image")
)

// AlphaMode is the alpha convention of a buffer's color channels.
type AlphaMode uint8

const (
	// Premultiplied means color channels are pre-scaled by alpha.
	Premultiplied AlphaMode = iota
	// Straight means color channels are independent of alpha.
	Straight
)

// String returns a string representation of the alpha mode.
func (m AlphaMode) String() string {
	switch m {
	case Premultiplied:
		return "Premultiplied"
	case Straight:
		return "Straight"
	default:
		return "Unknown"
	}
}

// Buffer is an RGBA8 raster covering Rect in filter pixel space.
//
// Pixel (x, y) lives at Pix[(y-Rect.Min.Y)*Stride+(x-Rect.Min.X)*4]. Reads
// outside Rect yield transparent black; writes outside Rect are dropped.
type Buffer struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
	Alpha  AlphaMode
	Space  color.ColorSpace
}

// NewBuffer allocates a transparent premultiplied sRGB buffer covering r.
// An empty r yields a buffer with no pixels.
func NewBuffer(r image.Rectangle) *Buffer {
	r = r.Canon()
	w, h := r.Dx(), r.Dy()
	return &Buffer{
		Pix:    make([]uint8, 4*w*h),
		Stride: 4 * w,
		Rect:   r,
	}
}

// Bounds returns the pixel rectangle covered by the buffer.
func (b *Buffer) Bounds() image.Rectangle {
	return b.Rect
}

// Empty reports whether the buffer has no pixels.
func (b *Buffer) Empty() bool {
	return b == nil || b.Rect.Empty()
}

// PixOffset returns the index of the first byte of pixel (x, y).
func (b *Buffer) PixOffset(x, y int) int {
	return (y-b.Rect.Min.Y)*b.Stride + (x-b.Rect.Min.X)*4
}

// RGBAAt returns the channels of pixel (x, y), or zero outside the buffer.
func (b *Buffer) RGBAAt(x, y int) (r, g, bl, a uint8) {
	if !(image.Point{X: x, Y: y}.In(b.Rect)) {
		return 0, 0, 0, 0
	}
	i := b.PixOffset(x, y)
	s := b.Pix[i : i+4 : i+4]
	return s[0], s[1], s[2], s[3]
}

// SetRGBA stores the channels of pixel (x, y). Points outside the buffer
// are ignored.
func (b *Buffer) SetRGBA(x, y int, r, g, bl, a uint8) {
	if !(image.Point{X: x, Y: y}.In(b.Rect)) {
		return
	}
	i := b.PixOffset(x, y)
	s := b.Pix[i : i+4 : i+4]
	s[0], s[1], s[2], s[3] = r, g, bl, a
}

// Clear zeroes every pixel.
func (b *Buffer) Clear() {
	clear(b.Pix)
}

// Fill sets every pixel of r (clipped to the buffer) to the given channels.
func (b *Buffer) Fill(r image.Rectangle, cr, cg, cb, ca uint8) {
	r = r.Intersect(b.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := b.PixOffset(r.Min.X, y)
		row := b.Pix[i : i+4*r.Dx()]
		for j := 0; j < len(row); j += 4 {
			row[j], row[j+1], row[j+2], row[j+3] = cr, cg, cb, ca
		}
	}
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{
		Pix:    make([]uint8, len(b.Pix)),
		Stride: b.Stride,
		Rect:   b.Rect,
		Alpha:  b.Alpha,
		Space:  b.Space,
	}
	copy(out.Pix, b.Pix)
	return out
}

// Crop returns a new buffer covering r. Pixels of r outside b are
// transparent. The representation tags are preserved.
func (b *Buffer) Crop(r image.Rectangle) *Buffer {
	out := NewBuffer(r)
	out.Alpha, out.Space = b.Alpha, b.Space
	out.CopyFrom(b)
	return out
}

// CopyFrom copies the overlapping pixels of src into b verbatim. The caller
// is responsible for matching representations.
func (b *Buffer) CopyFrom(src *Buffer) {
	r := b.Rect.Intersect(src.Rect)
	if r.Empty() {
		return
	}
	n := 4 * r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		di := b.PixOffset(r.Min.X, y)
		si := src.PixOffset(r.Min.X, y)
		copy(b.Pix[di:di+n], src.Pix[si:si+n])
	}
}

// AlphaOnly returns a copy of the buffer with color channels zeroed and
// alpha kept. The result is valid in either alpha convention.
func (b *Buffer) AlphaOnly() *Buffer {
	out := NewBuffer(b.Rect)
	out.Alpha, out.Space = b.Alpha, b.Space
	for y := b.Rect.Min.Y; y < b.Rect.Max.Y; y++ {
		si := b.PixOffset(b.Rect.Min.X, y)
		for x := 0; x < b.Rect.Dx(); x++ {
			out.Pix[si+4*x+3] = b.Pix[si+4*x+3]
		}
	}
	return out
}

// RGBA exports the buffer as a premultiplied sRGB *image.RGBA.
func (b *Buffer) RGBA() *image.RGBA {
	src := b.ToColorSpace(color.SRGB).ToAlpha(Premultiplied)
	img := image.NewRGBA(b.Rect)
	copy(img.Pix, src.Pix)
	return img
}

// div255 returns round(v/255) for v+128 already folded in.
func div255(v uint32) uint8 {
	return uint8((v + (v >> 8)) >> 8)
}

// Premultiply scales color channel c by alpha a with rounding.
func Premultiply(c, a uint8) uint8 {
	return div255(uint32(c)*uint32(a) + 128)
}

// Unpremultiply divides color channel c by alpha a with rounding. A zero
// alpha yields zero.
func Unpremultiply(c, a uint8) uint8 {
	if a == 0 {
		return 0
	}
	if c >= a {
		return 255
	}
	return uint8((uint32(c)*255 + uint32(a)/2) / uint32(a))
}
