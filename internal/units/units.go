// Package units converts between user space, primitive-unit space and the
// pixel grid of a filter buffer.
package units

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"strings"

	"github.com/gogpu/svgfilter/geom"
)

// Units is an SVG unit system for filter and primitive coordinates.
type Units uint8

const (
	// UserSpaceOnUse uses raw user-space coordinates.
	UserSpaceOnUse Units = iota
	// ObjectBoundingBox normalizes coordinates to the item's bounding box.
	ObjectBoundingBox
)

// ErrUnknownUnits is returned when parsing an unknown unit keyword.
var ErrUnknownUnits = errors.New("units: unknown unit system")

// String returns the SVG keyword for the unit system.
func (u Units) String() string {
	switch u {
	case UserSpaceOnUse:
		return "userSpaceOnUse"
	case ObjectBoundingBox:
		return "objectBoundingBox"
	default:
		return "Unknown"
	}
}

// ParseUnits parses an SVG unit keyword.
func ParseUnits(s string) (Units, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "userspaceonuse":
		return UserSpaceOnUse, nil
	case "objectboundingbox":
		return ObjectBoundingBox, nil
	}
	return UserSpaceOnUse, fmt.Errorf("%w: %q", ErrUnknownUnits, s)
}

// CoordinateUnits holds the transform configuration of one filter pass.
//
// The filter region and a resolution (explicit or automatic) must be set
// before any pixel conversion is requested; violating that is a programming
// error and panics.
type CoordinateUnits struct {
	ctm    geom.Matrix
	bbox   geom.Rect
	region geom.Rect // in filterUnits

	filterUnits    Units
	primitiveUnits Units

	resX, resY float64
	regionSet  bool
	resSet     bool
	automatic  bool
	parallel   bool

	logger *slog.Logger
}

// New returns CoordinateUnits with an identity transform, userSpaceOnUse
// primitive units, objectBoundingBox filter units and no region or
// resolution. A nil logger discards messages.
func New(logger *slog.Logger) *CoordinateUnits {
	return &CoordinateUnits{
		ctm:         geom.Identity(),
		filterUnits: ObjectBoundingBox,
		logger:      logger,
	}
}

// Clone returns an independent copy.
func (cu *CoordinateUnits) Clone() *CoordinateUnits {
	c := *cu
	return &c
}

// SetCTM sets the user space to device transform.
func (cu *CoordinateUnits) SetCTM(m geom.Matrix) { cu.ctm = m }

// CTM returns the user space to device transform.
func (cu *CoordinateUnits) CTM() geom.Matrix { return cu.ctm }

// SetItemBBox sets the user-space bounding box of the filtered item.
func (cu *CoordinateUnits) SetItemBBox(r geom.Rect) { cu.bbox = r }

// ItemBBox returns the user-space bounding box of the filtered item.
func (cu *CoordinateUnits) ItemBBox() geom.Rect { return cu.bbox }

// SetUnits sets the filterUnits and primitiveUnits systems.
func (cu *CoordinateUnits) SetUnits(filter, primitive Units) {
	cu.filterUnits = filter
	cu.primitiveUnits = primitive
}

// PrimitiveUnits returns the primitive unit system.
func (cu *CoordinateUnits) PrimitiveUnits() Units { return cu.primitiveUnits }

// SetFilterRegion sets the filter effects region, expressed in filterUnits.
func (cu *CoordinateUnits) SetFilterRegion(r geom.Rect) {
	cu.region = r
	cu.regionSet = true
}

// SetResolution sets an explicit buffer resolution: the number of pixels
// across the filter region along each axis. An explicit resolution is
// independent of rotation, so it forces parallel-axis mode.
func (cu *CoordinateUnits) SetResolution(x, y float64) {
	cu.resX, cu.resY = x, y
	cu.resSet = true
	cu.automatic = false
}

// SetAutomaticResolution derives the resolution from the current
// transform, so one buffer pixel covers about one device pixel.
func (cu *CoordinateUnits) SetAutomaticResolution() {
	cu.automatic = true
	cu.resSet = false
}

// SetParallelAxes requests pixel axes parallel to user-space axes.
func (cu *CoordinateUnits) SetParallelAxes(on bool) { cu.parallel = on }

// ParallelAxes reports whether pixel axes are parallel to user-space axes,
// either by request or because an explicit resolution is set.
func (cu *CoordinateUnits) ParallelAxes() bool { return cu.parallel || cu.resSet }

// RegionUser returns the filter region in user space.
func (cu *CoordinateUnits) RegionUser() geom.Rect {
	if !cu.regionSet {
		panic("units: filter region not set")
	}
	if cu.filterUnits == ObjectBoundingBox {
		return cu.region.Transform(cu.bboxMatrix())
	}
	return cu.region
}

// Resolution returns the number of buffer pixels across the filter region.
func (cu *CoordinateUnits) Resolution() (x, y float64) {
	switch {
	case cu.resSet:
		return cu.resX, cu.resY
	case cu.automatic:
		r := cu.RegionUser()
		return r.Width() * cu.ctm.ExpansionX(), r.Height() * cu.ctm.ExpansionY()
	}
	panic("units: resolution not set")
}

// UserToPixel returns the transform from user space to buffer pixels.
//
// In parallel-axis mode it is a pure scale and translate mapping the filter
// region onto resolution pixels. Otherwise it follows the current transform
// and translates so the device-space region corner lands on the pixel
// origin.
func (cu *CoordinateUnits) UserToPixel() geom.Matrix {
	region := cu.RegionUser()
	resX, resY := cu.Resolution()

	if cu.ParallelAxes() {
		sx, sy := scaleFor(resX, region.Width()), scaleFor(resY, region.Height())
		return geom.Scale(sx, sy).Multiply(geom.Translate(-region.MinX, -region.MinY))
	}
	corner := region.Transform(cu.ctm).RoundOut().Min
	return geom.Translate(-float64(corner.X), -float64(corner.Y)).Multiply(cu.ctm)
}

func scaleFor(res, extent float64) float64 {
	if extent <= 0 || res <= 0 || math.IsInf(res, 0) || math.IsNaN(res) {
		return 1
	}
	return res / extent
}

// PixelToUser returns the inverse of UserToPixel, or the identity when
// that transform is singular.
func (cu *CoordinateUnits) PixelToUser() geom.Matrix {
	inv, ok := cu.UserToPixel().Invert()
	if !ok {
		return geom.Identity()
	}
	return inv
}

// UnitsToPixel returns the transform from coordinates in the given unit
// system to buffer pixels. An unknown unit system logs and yields the
// identity.
func (cu *CoordinateUnits) UnitsToPixel(u Units) geom.Matrix {
	switch u {
	case UserSpaceOnUse:
		return cu.UserToPixel()
	case ObjectBoundingBox:
		return cu.UserToPixel().Multiply(cu.bboxMatrix())
	}
	if cu.logger != nil {
		cu.logger.Warn("units: unknown unit system", "units", uint8(u))
	}
	return geom.Identity()
}

// PrimitiveToPixel is UnitsToPixel for the primitive unit system.
func (cu *CoordinateUnits) PrimitiveToPixel() geom.Matrix {
	return cu.UnitsToPixel(cu.primitiveUnits)
}

// FilterRegionPixels returns the filter region in buffer pixels, rounded
// outward to whole pixels.
func (cu *CoordinateUnits) FilterRegionPixels() image.Rectangle {
	return cu.RegionUser().Transform(cu.UserToPixel()).RoundOut()
}

// bboxMatrix maps the unit square onto the item bounding box.
func (cu *CoordinateUnits) bboxMatrix() geom.Matrix {
	b := cu.bbox
	return geom.Translate(b.MinX, b.MinY).Multiply(geom.Scale(b.Width(), b.Height()))
}
