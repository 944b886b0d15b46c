package svgfilter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/svgfilter/geom"
	"github.com/gogpu/svgfilter/internal/blend"
	"github.com/gogpu/svgfilter/internal/color"
	"github.com/gogpu/svgfilter/internal/filter"
	"github.com/gogpu/svgfilter/internal/units"
)

// Description errors.
var (
	// ErrUnknownFormat is returned for an unsupported description format.
	ErrUnknownFormat = errors.New("svgfilter: unknown description format")

	// ErrConfig wraps every configuration problem found by Compile.
	ErrConfig = errors.New("svgfilter: configuration error")
)

// Format is a filter description encoding.
type Format uint8

const (
	FormatYAML Format = iota
	FormatTOML
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return FormatYAML, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Description is a declarative filter definition, as produced by a
// document model.
//
// Example (YAML):
//
//	filterUnits: userSpaceOnUse
//	region: {x: 0, y: 0, width: 100, height: 100}
//	primitives:
//	  - type: feColorMatrix
//	    matrixType: luminanceToAlpha
//	  - type: feConvolveMatrix
//	    order: [3]
//	    kernelMatrix: [1, 1, 1, 1, 1, 1, 1, 1, 1]
//	    divisor: 9
type Description struct {
	FilterUnits        string                 `yaml:"filterUnits,omitempty" toml:"filterUnits,omitempty"`
	PrimitiveUnits     string                 `yaml:"primitiveUnits,omitempty" toml:"primitiveUnits,omitempty"`
	Region             *RegionDescription     `yaml:"region,omitempty" toml:"region,omitempty"`
	Resolution         []float64              `yaml:"filterRes,omitempty" toml:"filterRes,omitempty"`
	ColorInterpolation string                 `yaml:"colorInterpolationFilters,omitempty" toml:"colorInterpolationFilters,omitempty"`
	Primitives         []PrimitiveDescription `yaml:"primitives" toml:"primitives"`
}

// RegionDescription is a rectangle in filterUnits.
type RegionDescription struct {
	X      float64 `yaml:"x" toml:"x"`
	Y      float64 `yaml:"y" toml:"y"`
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

// PrimitiveDescription describes one primitive. Attributes not used by
// Type are ignored.
type PrimitiveDescription struct {
	Type   string   `yaml:"type" toml:"type"`
	In     string   `yaml:"in,omitempty" toml:"in,omitempty"`
	In2    string   `yaml:"in2,omitempty" toml:"in2,omitempty"`
	Inputs []string `yaml:"inputs,omitempty" toml:"inputs,omitempty"`
	Result string   `yaml:"result,omitempty" toml:"result,omitempty"`

	X      *float64 `yaml:"x,omitempty" toml:"x,omitempty"`
	Y      *float64 `yaml:"y,omitempty" toml:"y,omitempty"`
	Width  *float64 `yaml:"width,omitempty" toml:"width,omitempty"`
	Height *float64 `yaml:"height,omitempty" toml:"height,omitempty"`

	ColorInterpolation string `yaml:"colorInterpolationFilters,omitempty" toml:"colorInterpolationFilters,omitempty"`

	// feColorMatrix
	MatrixType string    `yaml:"matrixType,omitempty" toml:"matrixType,omitempty"`
	Values     []float64 `yaml:"values,omitempty" toml:"values,omitempty"`

	// feConvolveMatrix
	Order         []int     `yaml:"order,omitempty" toml:"order,omitempty"`
	KernelMatrix  []float64 `yaml:"kernelMatrix,omitempty" toml:"kernelMatrix,omitempty"`
	Divisor       *float64  `yaml:"divisor,omitempty" toml:"divisor,omitempty"`
	Bias          float64   `yaml:"bias,omitempty" toml:"bias,omitempty"`
	TargetX       *int      `yaml:"targetX,omitempty" toml:"targetX,omitempty"`
	TargetY       *int      `yaml:"targetY,omitempty" toml:"targetY,omitempty"`
	EdgeMode      string    `yaml:"edgeMode,omitempty" toml:"edgeMode,omitempty"`
	PreserveAlpha bool      `yaml:"preserveAlpha,omitempty" toml:"preserveAlpha,omitempty"`

	// feComposite, feMorphology
	Operator string  `yaml:"operator,omitempty" toml:"operator,omitempty"`
	K1       float64 `yaml:"k1,omitempty" toml:"k1,omitempty"`
	K2       float64 `yaml:"k2,omitempty" toml:"k2,omitempty"`
	K3       float64 `yaml:"k3,omitempty" toml:"k3,omitempty"`
	K4       float64 `yaml:"k4,omitempty" toml:"k4,omitempty"`

	// feOffset
	Dx float64 `yaml:"dx,omitempty" toml:"dx,omitempty"`
	Dy float64 `yaml:"dy,omitempty" toml:"dy,omitempty"`

	// feDiffuseLighting, feSpecularLighting
	SurfaceScale     *float64          `yaml:"surfaceScale,omitempty" toml:"surfaceScale,omitempty"`
	DiffuseConstant  *float64          `yaml:"diffuseConstant,omitempty" toml:"diffuseConstant,omitempty"`
	SpecularConstant *float64          `yaml:"specularConstant,omitempty" toml:"specularConstant,omitempty"`
	SpecularExponent *float64          `yaml:"specularExponent,omitempty" toml:"specularExponent,omitempty"`
	LightingColor    string            `yaml:"lightingColor,omitempty" toml:"lightingColor,omitempty"`
	Light            *LightDescription `yaml:"light,omitempty" toml:"light,omitempty"`

	// feMorphology
	Radius []float64 `yaml:"radius,omitempty" toml:"radius,omitempty"`

	// feGaussianBlur
	StdDeviation []float64 `yaml:"stdDeviation,omitempty" toml:"stdDeviation,omitempty"`

	// feFlood
	FloodColor   string   `yaml:"floodColor,omitempty" toml:"floodColor,omitempty"`
	FloodOpacity *float64 `yaml:"floodOpacity,omitempty" toml:"floodOpacity,omitempty"`

	// feBlend
	Mode string `yaml:"mode,omitempty" toml:"mode,omitempty"`
}

// LightDescription describes a light source: feDistantLight,
// fePointLight or feSpotLight.
type LightDescription struct {
	Type              string   `yaml:"type" toml:"type"`
	Azimuth           float64  `yaml:"azimuth,omitempty" toml:"azimuth,omitempty"`
	Elevation         float64  `yaml:"elevation,omitempty" toml:"elevation,omitempty"`
	X                 float64  `yaml:"x,omitempty" toml:"x,omitempty"`
	Y                 float64  `yaml:"y,omitempty" toml:"y,omitempty"`
	Z                 float64  `yaml:"z,omitempty" toml:"z,omitempty"`
	PointsAtX         float64  `yaml:"pointsAtX,omitempty" toml:"pointsAtX,omitempty"`
	PointsAtY         float64  `yaml:"pointsAtY,omitempty" toml:"pointsAtY,omitempty"`
	PointsAtZ         float64  `yaml:"pointsAtZ,omitempty" toml:"pointsAtZ,omitempty"`
	SpecularExponent  float64  `yaml:"specularExponent,omitempty" toml:"specularExponent,omitempty"`
	LimitingConeAngle *float64 `yaml:"limitingConeAngle,omitempty" toml:"limitingConeAngle,omitempty"`
}

// ParseYAML decodes a YAML description.
func ParseYAML(data []byte) (*Description, error) {
	var d Description
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("svgfilter: parse yaml: %w", err)
	}
	return &d, nil
}

// ParseTOML decodes a TOML description.
func ParseTOML(data []byte) (*Description, error) {
	var d Description
	if err := toml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("svgfilter: parse toml: %w", err)
	}
	return &d, nil
}

// LoadDescription reads a description in the given format.
func LoadDescription(r io.Reader, format Format) (*Description, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("svgfilter: read description: %w", err)
	}
	switch format {
	case FormatYAML:
		return ParseYAML(buf.Bytes())
	case FormatTOML:
		return ParseTOML(buf.Bytes())
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, format)
}

// Compile builds a Program from the description.
//
// Configuration problems (unknown types or keywords, malformed colors,
// wrong value counts) do not stop compilation: each is logged, resolved to
// its documented default, and reported in the returned error, which wraps
// ErrConfig. The returned program is always usable.
func (d *Description) Compile(opts ...Option) (*Program, error) {
	c := compiler{}
	if len(d.Resolution) > 0 {
		rx, ry := d.Resolution[0], d.Resolution[0]
		if len(d.Resolution) > 1 {
			ry = d.Resolution[1]
		}
		opts = append([]Option{WithResolution(rx, ry)}, opts...)
	}
	if d.ColorInterpolation != "" {
		opts = append([]Option{WithColorInterpolation(c.colorInterpolation(d.ColorInterpolation, SRGB))}, opts...)
	}
	p := New(opts...)

	fu := c.units(d.FilterUnits, ObjectBoundingBox)
	pu := c.units(d.PrimitiveUnits, UserSpaceOnUse)
	p.SetUnits(fu, pu)
	if d.Region != nil {
		p.SetRegion(geom.XYWH(d.Region.X, d.Region.Y, d.Region.Width, d.Region.Height))
	}

	for i, pd := range d.Primitives {
		c.index = i
		prim := Primitive{
			Params:             c.params(pd),
			In:                 p.Slot(pd.In),
			In2:                p.Slot(pd.In2),
			Result:             p.Slot(pd.Result),
			Subregion:          Subregion{X: pd.X, Y: pd.Y, Width: pd.Width, Height: pd.Height},
			ColorInterpolation: c.colorInterpolation(pd.ColorInterpolation, InheritColorInterpolation),
		}
		for _, name := range pd.Inputs {
			prim.Inputs = append(prim.Inputs, p.Slot(name))
		}
		p.Add(prim)
	}

	err := c.err()
	if err != nil {
		p.logger().Warn("svgfilter: filter description has problems", "err", err)
	}
	return p, err
}

// compiler collects configuration errors while building params.
type compiler struct {
	index int
	errs  []error
}

func (c *compiler) fail(err error) {
	c.errs = append(c.errs, fmt.Errorf("%w: primitive %d: %w", ErrConfig, c.index, err))
}

func (c *compiler) err() error {
	return errors.Join(c.errs...)
}

func (c *compiler) units(s string, def Units) Units {
	if s == "" {
		return def
	}
	u, err := units.ParseUnits(s)
	if err != nil {
		c.fail(err)
		return def
	}
	return u
}

func (c *compiler) colorInterpolation(s string, def ColorInterpolation) ColorInterpolation {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def
	case "auto", "inherit":
		return InheritColorInterpolation
	}
	cs, err := color.ParseColorSpace(s)
	if err != nil {
		c.fail(err)
		return def
	}
	if cs == color.LinearRGB {
		return LinearRGB
	}
	return SRGB
}

func (c *compiler) color(s string, def Color) Color {
	if s == "" {
		return def
	}
	col, err := color.ParseHex(s)
	if err != nil {
		c.fail(err)
		return def
	}
	return col
}

// pair returns the one- or two-number attribute v, with the second number
// defaulting to the first.
func pair[T int | float64](v []T, def T) (T, T) {
	switch len(v) {
	case 0:
		return def, def
	case 1:
		return v[0], v[0]
	}
	return v[0], v[1]
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func (c *compiler) params(pd PrimitiveDescription) Params {
	switch pd.Type {
	case "feColorMatrix":
		t := filter.MatrixValues
		if pd.MatrixType != "" {
			var err error
			if t, err = filter.ParseColorMatrixType(pd.MatrixType); err != nil {
				c.fail(err)
			}
		}
		if t == filter.MatrixValues && pd.Values != nil && len(pd.Values) != 20 {
			c.fail(fmt.Errorf("feColorMatrix: matrix needs 20 values, got %d", len(pd.Values)))
		}
		return filter.ColorMatrix{Type: t, Values: pd.Values}

	case "feConvolveMatrix":
		ox, oy := pair(pd.Order, 3)
		p := filter.ConvolveMatrix{
			OrderX:        ox,
			OrderY:        oy,
			Kernel:        pd.KernelMatrix,
			Divisor:       orDefault(pd.Divisor, 0),
			Bias:          pd.Bias,
			TargetX:       -1,
			TargetY:       -1,
			PreserveAlpha: pd.PreserveAlpha,
		}
		if pd.TargetX != nil {
			p.TargetX = *pd.TargetX
		}
		if pd.TargetY != nil {
			p.TargetY = *pd.TargetY
		}
		if pd.EdgeMode != "" {
			var err error
			if p.EdgeMode, err = filter.ParseEdgeMode(pd.EdgeMode); err != nil {
				c.fail(err)
			}
		}
		n := p.Normalize()
		if len(n.Kernel) != n.OrderX*n.OrderY {
			c.fail(fmt.Errorf("%w: %dx%d needs %d values, got %d",
				filter.ErrKernelSize, n.OrderX, n.OrderY, n.OrderX*n.OrderY, len(n.Kernel)))
		}
		return p

	case "feComposite":
		op := filter.CompositeOver
		if pd.Operator != "" {
			var err error
			if op, err = filter.ParseCompositeOperator(pd.Operator); err != nil {
				c.fail(err)
			}
		}
		return filter.Composite{Operator: op, K1: pd.K1, K2: pd.K2, K3: pd.K3, K4: pd.K4}

	case "feOffset":
		return filter.Offset{Dx: pd.Dx, Dy: pd.Dy}

	case "feTile":
		return filter.Tile{}

	case "feDiffuseLighting":
		return filter.DiffuseLighting{
			SurfaceScale:    orDefault(pd.SurfaceScale, 1),
			DiffuseConstant: orDefault(pd.DiffuseConstant, 1),
			Color:           c.color(pd.LightingColor, color.White),
			Light:           c.light(pd.Light),
		}

	case "feSpecularLighting":
		return filter.SpecularLighting{
			SurfaceScale:     orDefault(pd.SurfaceScale, 1),
			SpecularConstant: orDefault(pd.SpecularConstant, 1),
			SpecularExponent: orDefault(pd.SpecularExponent, 1),
			Color:            c.color(pd.LightingColor, color.White),
			Light:            c.light(pd.Light),
		}

	case "feMerge":
		return filter.Merge{}

	case "feMorphology":
		op := filter.Erode
		if pd.Operator != "" {
			var err error
			if op, err = filter.ParseMorphologyOperator(pd.Operator); err != nil {
				c.fail(err)
			}
		}
		rx, ry := pair(pd.Radius, 0)
		return filter.Morphology{Operator: op, RadiusX: rx, RadiusY: ry}

	case "feGaussianBlur":
		sx, sy := pair(pd.StdDeviation, 0)
		if sx < 0 || sy < 0 {
			c.fail(fmt.Errorf("feGaussianBlur: negative stdDeviation (%g, %g)", sx, sy))
		}
		return filter.GaussianBlur{StdDeviationX: sx, StdDeviationY: sy}

	case "feFlood":
		return filter.Flood{
			Color:   c.color(pd.FloodColor, color.Black),
			Opacity: orDefault(pd.FloodOpacity, 1),
		}

	case "feBlend":
		mode := blend.Normal
		if pd.Mode != "" {
			var err error
			if mode, err = blend.ParseMode(pd.Mode); err != nil {
				c.fail(err)
			}
		}
		return filter.Blend{Mode: mode}
	}

	// Unknown primitives pass their input through unchanged.
	c.fail(fmt.Errorf("%w: %q", filter.ErrUnknownPrimitive, pd.Type))
	return filter.ColorMatrix{Type: filter.Saturate, Values: []float64{1}}
}

func (c *compiler) light(ld *LightDescription) Light {
	if ld == nil {
		c.fail(errors.New("lighting primitive without a light source, using a distant light"))
		return filter.DistantLight{}
	}
	switch ld.Type {
	case "feDistantLight":
		return filter.DistantLight{Azimuth: ld.Azimuth, Elevation: ld.Elevation}
	case "fePointLight":
		return filter.PointLight{X: ld.X, Y: ld.Y, Z: ld.Z}
	case "feSpotLight":
		return filter.SpotLight{
			X: ld.X, Y: ld.Y, Z: ld.Z,
			PointsAtX: ld.PointsAtX, PointsAtY: ld.PointsAtY, PointsAtZ: ld.PointsAtZ,
			SpecularExponent:  ld.SpecularExponent,
			LimitingConeAngle: ld.LimitingConeAngle,
		}
	}
	c.fail(fmt.Errorf("unknown light type %q", ld.Type))
	return filter.DistantLight{}
}
