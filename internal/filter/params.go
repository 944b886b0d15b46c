package filter

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/svgfilter/geom"
	"github.com/gogpu/svgfilter/internal/color"
	intImage "github.com/gogpu/svgfilter/internal/image"
	"github.com/gogpu/svgfilter/internal/warn"
)

// Common errors for primitive evaluation.
var (
	// ErrMissingInput is returned when a required input buffer is nil.
	ErrMissingInput = errors.New("filter: missing input")

	// ErrKernelSize is returned when a convolution kernel does not hold
	// orderX*orderY values.
	ErrKernelSize = errors.New("filter: kernel size does not match order")

	// ErrUnknownPrimitive is returned for Params values of no known kind.
	ErrUnknownPrimitive = errors.New("filter: unknown primitive")
)

// Kind identifies a primitive type.
type Kind uint8

const (
	KindColorMatrix Kind = iota
	KindConvolveMatrix
	KindComposite
	KindOffset
	KindTile
	KindDiffuseLighting
	KindSpecularLighting
	KindMerge
	KindMorphology
	KindGaussianBlur
	KindFlood
	KindBlend
)

var kindNames = [...]string{
	"feColorMatrix", "feConvolveMatrix", "feComposite", "feOffset", "feTile",
	"feDiffuseLighting", "feSpecularLighting", "feMerge", "feMorphology",
	"feGaussianBlur", "feFlood", "feBlend",
}

// String returns the SVG element name of the primitive kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Traits describe how a primitive may be scheduled.
type Traits uint8

const (
	// TraitParallel means the primitive's pixel mapping is uniform, so the
	// filter region may be split into independently rendered tiles.
	TraitParallel Traits = 1 << iota

	// TraitAxisAligned means the primitive needs pixel axes parallel to the
	// user-space axes, e.g. because its kernel is defined along them.
	TraitAxisAligned
)

// Has reports whether all bits of o are set.
func (t Traits) Has(o Traits) bool { return t&o == o }

// Params is the closed set of primitive parameter types.
type Params interface {
	Kind() Kind
	Traits() Traits
	isParams()
}

// Env is the per-primitive evaluation context supplied by the program.
type Env struct {
	// Logger receives debug traces and warnings. May be nil.
	Logger *slog.Logger

	// Warn suppresses repeated warnings for the owning program.
	Warn *warn.Once

	// Transform maps primitive units to buffer pixels.
	Transform geom.Matrix

	// Area is the output rectangle in buffer pixels.
	Area image.Rectangle

	// InputSubregion is the declared subregion of the primary input in
	// buffer pixels. Only Tile uses it.
	InputSubregion image.Rectangle

	// Space is the color-interpolation space of the primitive. Inputs are
	// already converted to it; colors given as parameters are converted by
	// the primitive.
	Space color.ColorSpace

	// Pool supplies output buffers. May be nil.
	Pool *intImage.Pool

	// Kernels caches blur kernels for the owning program. May be nil.
	Kernels *KernelCache
}

func (e *Env) warnOnce(key, msg string, args ...any) {
	e.Warn.Warn(e.Logger, key, msg, args...)
}

func (e *Env) logWarn(msg string, args ...any) {
	if e.Logger != nil {
		e.Logger.Warn(msg, args...)
	}
}

// output allocates the transparent output buffer for the primitive.
func (e *Env) output(alpha intImage.AlphaMode) *intImage.Buffer {
	out := e.Pool.Get(e.Area)
	out.Alpha = alpha
	out.Space = e.Space
	return out
}

// Evaluate runs the primitive described by p on inputs. For two-input
// primitives inputs[0] is "in" and inputs[1] is "in2"; Merge takes any
// number of inputs and Flood none.
func Evaluate(p Params, inputs []*intImage.Buffer, env *Env) (*intImage.Buffer, error) {
	need := 1
	switch p.(type) {
	case Flood:
		need = 0
	case Composite, Blend:
		need = 2
	case Merge:
		need = len(inputs)
	}
	if len(inputs) < need {
		return nil, fmt.Errorf("%w: %s needs %d inputs, got %d", ErrMissingInput, p.Kind(), need, len(inputs))
	}
	for i := 0; i < need; i++ {
		if inputs[i] == nil {
			return nil, fmt.Errorf("%w: %s input %d", ErrMissingInput, p.Kind(), i)
		}
	}

	switch p := p.(type) {
	case ColorMatrix:
		return evaluateColorMatrix(inputs[0], p, env)
	case ConvolveMatrix:
		return evaluateConvolveMatrix(inputs[0], p, env)
	case Composite:
		return evaluateComposite(inputs[0], inputs[1], p, env)
	case Offset:
		return evaluateOffset(inputs[0], p, env)
	case Tile:
		return evaluateTile(inputs[0], p, env)
	case DiffuseLighting:
		return evaluateDiffuse(inputs[0], p, env)
	case SpecularLighting:
		return evaluateSpecular(inputs[0], p, env)
	case Merge:
		return evaluateMerge(inputs, p, env)
	case Morphology:
		return evaluateMorphology(inputs[0], p, env)
	case GaussianBlur:
		return evaluateGaussianBlur(inputs[0], p, env)
	case Flood:
		return evaluateFlood(p, env)
	case Blend:
		return evaluateBlend(inputs[0], inputs[1], p, env)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnknownPrimitive, p)
}

// Enlarge returns the input rectangle the primitive needs in order to
// produce area. env supplies Transform and, for Tile, InputSubregion.
func Enlarge(p Params, area image.Rectangle, env *Env) image.Rectangle {
	if area.Empty() {
		return area
	}
	switch p := p.(type) {
	case ConvolveMatrix:
		return p.enlarge(area)
	case Offset:
		return p.enlarge(area, env.Transform)
	case Tile:
		return p.enlarge(area, env.InputSubregion)
	case DiffuseLighting, SpecularLighting:
		return area.Inset(-1)
	case Morphology:
		return p.enlarge(area, env.Transform)
	case GaussianBlur:
		return p.enlarge(area, env.Transform)
	}
	return area
}

// passthrough returns in cropped to the output area.
func passthrough(in *intImage.Buffer, env *Env) *intImage.Buffer {
	out := env.output(in.Alpha)
	out.CopyFrom(in)
	return out
}

// clampUint8 clamps a float32 to [0, 255] and rounds to the nearest integer.
func clampUint8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
