package svgfilter

import (
	"image"

	"github.com/gogpu/svgfilter/geom"
	"github.com/gogpu/svgfilter/internal/blend"
	"github.com/gogpu/svgfilter/internal/color"
	"github.com/gogpu/svgfilter/internal/filter"
	intImage "github.com/gogpu/svgfilter/internal/image"
	"github.com/gogpu/svgfilter/internal/slot"
	"github.com/gogpu/svgfilter/internal/units"
)

// Slot identifies a buffer within one filter pass. Reserved slots name
// the standard inputs; Program.Slot and Program.Add hand out result slots.
type Slot = slot.Slot

// Standard input slots.
const (
	NotSet          = slot.NotSet
	SourceGraphic   = slot.SourceGraphic
	SourceAlpha     = slot.SourceAlpha
	BackgroundImage = slot.BackgroundImage
	BackgroundAlpha = slot.BackgroundAlpha
	FillPaint       = slot.FillPaint
	StrokePaint     = slot.StrokePaint
)

// Units is an SVG unit system, used for filterUnits and primitiveUnits.
type Units = units.Units

const (
	UserSpaceOnUse    = units.UserSpaceOnUse
	ObjectBoundingBox = units.ObjectBoundingBox
)

// Primitive parameter kinds.
type (
	Params           = filter.Params
	ColorMatrix      = filter.ColorMatrix
	ConvolveMatrix   = filter.ConvolveMatrix
	Composite        = filter.Composite
	Offset           = filter.Offset
	Tile             = filter.Tile
	DiffuseLighting  = filter.DiffuseLighting
	SpecularLighting = filter.SpecularLighting
	Merge            = filter.Merge
	Morphology       = filter.Morphology
	GaussianBlur     = filter.GaussianBlur
	Flood            = filter.Flood
	Blend            = filter.Blend

	Light        = filter.Light
	DistantLight = filter.DistantLight
	PointLight   = filter.PointLight
	SpotLight    = filter.SpotLight
)

// Parameter enumerations.
type (
	ColorMatrixType    = filter.ColorMatrixType
	CompositeOperator  = filter.CompositeOperator
	EdgeMode           = filter.EdgeMode
	MorphologyOperator = filter.MorphologyOperator
	BlendMode          = blend.Mode
)

const (
	MatrixValues     = filter.MatrixValues
	Saturate         = filter.Saturate
	HueRotate        = filter.HueRotate
	LuminanceToAlpha = filter.LuminanceToAlpha

	CompositeOver       = filter.CompositeOver
	CompositeIn         = filter.CompositeIn
	CompositeOut        = filter.CompositeOut
	CompositeAtop       = filter.CompositeAtop
	CompositeXor        = filter.CompositeXor
	CompositeArithmetic = filter.CompositeArithmetic

	EdgeNone      = filter.EdgeNone
	EdgeDuplicate = filter.EdgeDuplicate
	EdgeWrap      = filter.EdgeWrap

	Erode  = filter.Erode
	Dilate = filter.Dilate

	BlendNormal     = blend.Normal
	BlendMultiply   = blend.Multiply
	BlendScreen     = blend.Screen
	BlendDarken     = blend.Darken
	BlendLighten    = blend.Lighten
	BlendOverlay    = blend.Overlay
	BlendColorDodge = blend.ColorDodge
	BlendColorBurn  = blend.ColorBurn
	BlendHardLight  = blend.HardLight
	BlendSoftLight  = blend.SoftLight
	BlendDifference = blend.Difference
	BlendExclusion  = blend.Exclusion
)

// Color is a straight-alpha sRGB color with components in [0,1].
type Color = color.ColorF32

// Paint is a paint server for the FillPaint and StrokePaint inputs.
type Paint = slot.Paint

// SolidPaint paints a single color.
type SolidPaint = slot.SolidPaint

// NewPatternPaint creates a paint repeating img across user space.
// transform maps the image's pixel space into user space.
func NewPatternPaint(img image.Image, transform geom.Matrix, opacity float64) Paint {
	return slot.NewPatternPaint(img, transform, opacity)
}

// BufferPool recycles pixel buffers across render passes.
type BufferPool = intImage.Pool

// NewBufferPool creates a pool retaining at most maxPerSize buffers of
// each size; 0 means unlimited.
func NewBufferPool(maxPerSize int) *BufferPool {
	return intImage.NewPool(maxPerSize)
}

// ColorInterpolation is the color-interpolation-filters property.
type ColorInterpolation uint8

const (
	// InheritColorInterpolation uses the program default.
	InheritColorInterpolation ColorInterpolation = iota
	SRGB
	LinearRGB
)

// String returns the CSS keyword.
func (c ColorInterpolation) String() string {
	switch c {
	case SRGB:
		return "sRGB"
	case LinearRGB:
		return "linearRGB"
	default:
		return "inherit"
	}
}

// space resolves c against the program default def.
func (c ColorInterpolation) space(def ColorInterpolation) color.ColorSpace {
	if c == InheritColorInterpolation {
		c = def
	}
	if c == LinearRGB {
		return color.LinearRGB
	}
	return color.SRGB
}

// Subregion is a primitive subregion in primitive units. Nil fields take
// their value from the default subregion.
type Subregion struct {
	X, Y, Width, Height *float64
}

// IsSet reports whether any field is set.
func (s Subregion) IsSet() bool {
	return s.X != nil || s.Y != nil || s.Width != nil || s.Height != nil
}

// Primitive is one step of a filter program.
type Primitive struct {
	Params Params

	// In is the primary input. NotSet means the previous primitive's
	// result, or SourceGraphic for the first primitive.
	In Slot

	// In2 is the second input of Composite and Blend. NotSet means
	// SourceGraphic.
	In2 Slot

	// Inputs are the Merge inputs, bottom first. NotSet entries resolve
	// like In.
	Inputs []Slot

	// Result is the output slot. NotSet allocates an anonymous slot.
	Result Slot

	Subregion          Subregion
	ColorInterpolation ColorInterpolation
}
