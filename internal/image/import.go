package image

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/clone"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/svgfilter/geom"
)

// Import maps src into a new premultiplied sRGB buffer covering dst.
//
// pixelFromSource maps src coordinates to buffer pixel coordinates. When it
// is an integer translation the pixels are copied verbatim; otherwise src is
// resampled bilinearly. Pixels of dst not covered by src stay transparent.
func Import(src image.Image, dst image.Rectangle, pixelFromSource geom.Matrix, pool *Pool) (*Buffer, error) {
	if src == nil {
		return nil, ErrNilImage
	}
	if dst.Empty() {
		return nil, ErrInvalidDimensions
	}
	buf := pool.Get(dst)
	out := buf.view()

	rgba := clone.AsShallowRGBA(src)
	if dx, dy, ok := integerTranslation(pixelFromSource); ok {
		sp := dst.Min.Sub(image.Pt(dx, dy))
		xdraw.Draw(out, dst, rgba, sp, xdraw.Src)
		return buf, nil
	}
	xdraw.BiLinear.Transform(out, pixelFromSource.Aff3(), rgba, rgba.Bounds(), xdraw.Src, nil)
	return buf, nil
}

// view returns an *image.RGBA sharing the buffer's pixels.
func (b *Buffer) view() *image.RGBA {
	return &image.RGBA{Pix: b.Pix, Stride: b.Stride, Rect: b.Rect}
}

func integerTranslation(m geom.Matrix) (dx, dy int, ok bool) {
	if !m.IsTranslation() {
		return 0, 0, false
	}
	const eps = 1e-9
	rx, ry := math.Round(m.C), math.Round(m.F)
	if math.Abs(m.C-rx) > eps || math.Abs(m.F-ry) > eps {
		return 0, 0, false
	}
	return int(rx), int(ry), true
}
