package svgfilter

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/svgfilter/geom"
	"github.com/gogpu/svgfilter/internal/filter"
	"github.com/gogpu/svgfilter/internal/slot"
	"github.com/gogpu/svgfilter/internal/warn"
)

// Common errors.
var (
	// ErrNilSource is returned by Render when the source graphic is nil.
	ErrNilSource = errors.New("svgfilter: nil source graphic")

	// ErrIndexOutOfRange is returned when a primitive index is invalid.
	ErrIndexOutOfRange = errors.New("svgfilter: primitive index out of range")
)

// DefaultRegion is the SVG default filter region in objectBoundingBox
// units: the item bounding box grown by 10% on every side.
var DefaultRegion = geom.XYWH(-0.1, -0.1, 1.2, 1.2)

// Program is an ordered list of filter primitives together with the
// filter region and unit configuration.
//
// A Program is built once per filter definition and reused across render
// passes. Each pass gets its own slot registry, so Render may be called
// concurrently; the setters must not be called during a pass.
type Program struct {
	opts options

	filterUnits    Units
	primitiveUnits Units
	region         geom.Rect

	prims []Primitive
	names map[string]Slot
	next  Slot

	// warn suppresses repeated warnings for this program.
	warn *warn.Once

	kernels *filter.KernelCache
}

// New creates an empty program with objectBoundingBox filter units,
// userSpaceOnUse primitive units and the default filter region.
func New(opts ...Option) *Program {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Program{
		opts:           o,
		filterUnits:    ObjectBoundingBox,
		primitiveUnits: UserSpaceOnUse,
		region:         DefaultRegion,
		names:          make(map[string]Slot),
		next:           1,
		warn:           &warn.Once{},
		kernels:        filter.NewKernelCache(64),
	}
}

// SetUnits sets the filterUnits and primitiveUnits systems.
func (p *Program) SetUnits(filterUnits, primitiveUnits Units) {
	p.filterUnits = filterUnits
	p.primitiveUnits = primitiveUnits
}

// Units returns the filterUnits and primitiveUnits systems.
func (p *Program) Units() (filterUnits, primitiveUnits Units) {
	return p.filterUnits, p.primitiveUnits
}

// SetRegion sets the filter region in filterUnits.
func (p *Program) SetRegion(r geom.Rect) {
	p.region = r
}

// Region returns the filter region in filterUnits.
func (p *Program) Region() geom.Rect {
	return p.region
}

// Slot returns the slot for a result name, allocating one on first use.
// SVG standard input keywords return the reserved slots and the empty
// name returns NotSet.
func (p *Program) Slot(name string) Slot {
	if name == "" {
		return NotSet
	}
	if s, ok := slot.Lookup(name); ok {
		return s
	}
	if s, ok := p.names[name]; ok {
		return s
	}
	s := p.newSlot()
	p.names[name] = s
	return s
}

func (p *Program) newSlot() Slot {
	s := p.next
	p.next++
	return s
}

// Add appends a primitive and returns its result slot. A NotSet or
// reserved Result is replaced by a fresh anonymous slot.
func (p *Program) Add(prim Primitive) Slot {
	prim = p.prepare(prim)
	p.prims = append(p.prims, prim)
	return prim.Result
}

// Set replaces the primitive at index i, keeping the rest of the chain.
func (p *Program) Set(i int, prim Primitive) error {
	if i < 0 || i >= len(p.prims) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	if prim.Result == NotSet || prim.Result.Reserved() {
		prim.Result = p.prims[i].Result
	}
	p.prims[i] = p.prepare(prim)
	return nil
}

// SetParams replaces the parameters of the primitive at index i.
func (p *Program) SetParams(i int, params Params) error {
	if i < 0 || i >= len(p.prims) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	p.prims[i].Params = params
	return nil
}

func (p *Program) prepare(prim Primitive) Primitive {
	if prim.Result == NotSet || prim.Result.Reserved() {
		if prim.Result.Reserved() {
			p.logger().Warn("svgfilter: result cannot name a standard input, using an anonymous slot",
				"result", prim.Result.String())
		}
		prim.Result = p.newSlot()
	}
	if prim.Result >= p.next {
		p.next = prim.Result + 1
	}
	prim.Inputs = append([]Slot(nil), prim.Inputs...)
	return prim
}

// Len returns the number of primitives.
func (p *Program) Len() int {
	return len(p.prims)
}

// Primitive returns the primitive at index i.
func (p *Program) Primitive(i int) Primitive {
	return p.prims[i]
}

// Reset removes every primitive and result name and clears the warn-once
// state. Units, region and options are kept.
func (p *Program) Reset() {
	p.prims = p.prims[:0]
	clear(p.names)
	p.next = 1
	p.warn.Reset()
}

// Parallel reports whether every primitive can be evaluated per tile, so
// RenderTiled may split the filter region.
func (p *Program) Parallel() bool {
	for _, prim := range p.prims {
		if prim.Params == nil || !prim.Params.Traits().Has(filter.TraitParallel) {
			return false
		}
	}
	return true
}

// needsAxisAlignment reports whether any primitive needs pixel axes
// parallel to user space.
func (p *Program) needsAxisAlignment() bool {
	for _, prim := range p.prims {
		if prim.Params != nil && prim.Params.Traits().Has(filter.TraitAxisAligned) {
			return true
		}
	}
	return false
}

func (p *Program) logger() *slog.Logger {
	if p.opts.logger != nil {
		return p.opts.logger
	}
	return Logger()
}
