package geom

import (
	"image"
	"math"
)

// roundingSlack absorbs floating point noise so that a coordinate that is
// an integer up to rounding error is not pushed out to the next pixel.
const roundingSlack = 1e-6

// Rect is an axis-aligned rectangle with float coordinates.
// A rectangle with MinX >= MaxX or MinY >= MaxY is empty.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// XYWH builds a rectangle from its origin and size.
func XYWH(x, y, w, h float64) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}

// FromRectangle converts an integer rectangle.
func FromRectangle(r image.Rectangle) Rect {
	return Rect{
		MinX: float64(r.Min.X),
		MinY: float64(r.Min.Y),
		MaxX: float64(r.Max.X),
		MaxY: float64(r.Max.Y),
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.MaxX - r.MinX
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.MaxY - r.MinY
}

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.MinX >= r.MaxX || r.MinY >= r.MaxY
}

// Union returns the smallest rectangle containing both r and other.
// Empty operands are ignored.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return Rect{
		MinX: math.Min(r.MinX, other.MinX),
		MinY: math.Min(r.MinY, other.MinY),
		MaxX: math.Max(r.MaxX, other.MaxX),
		MaxY: math.Max(r.MaxY, other.MaxY),
	}
}

// Intersect returns the overlap of r and other, or the zero Rect.
func (r Rect) Intersect(other Rect) Rect {
	out := Rect{
		MinX: math.Max(r.MinX, other.MinX),
		MinY: math.Max(r.MinY, other.MinY),
		MaxX: math.Min(r.MaxX, other.MaxX),
		MaxY: math.Min(r.MaxY, other.MaxY),
	}
	if out.IsEmpty() {
		return Rect{}
	}
	return out
}

// Transform returns the bounding box of the four transformed corners.
func (r Rect) Transform(m Matrix) Rect {
	corners := [4]Point{
		m.TransformPoint(Pt(r.MinX, r.MinY)),
		m.TransformPoint(Pt(r.MaxX, r.MinY)),
		m.TransformPoint(Pt(r.MinX, r.MaxY)),
		m.TransformPoint(Pt(r.MaxX, r.MaxY)),
	}
	out := Rect{MinX: corners[0].X, MinY: corners[0].Y, MaxX: corners[0].X, MaxY: corners[0].Y}
	for _, c := range corners[1:] {
		out.MinX = math.Min(out.MinX, c.X)
		out.MinY = math.Min(out.MinY, c.Y)
		out.MaxX = math.Max(out.MaxX, c.X)
		out.MaxY = math.Max(out.MaxY, c.Y)
	}
	return out
}

// RoundOut returns the smallest integer rectangle that contains r.
// Rounding is always outward so that a buffer allocated with the result
// covers every sample point of r.
func (r Rect) RoundOut() image.Rectangle {
	if r.IsEmpty() {
		return image.Rectangle{}
	}
	return image.Rect(
		int(math.Floor(r.MinX+roundingSlack)),
		int(math.Floor(r.MinY+roundingSlack)),
		int(math.Ceil(r.MaxX-roundingSlack)),
		int(math.Ceil(r.MaxY-roundingSlack)),
	)
}
