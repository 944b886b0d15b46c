package svgfilter

import (
	"image"

	"github.com/gogpu/svgfilter/geom"
	"github.com/gogpu/svgfilter/internal/color"
	"github.com/gogpu/svgfilter/internal/filter"
	"github.com/gogpu/svgfilter/internal/units"
)

// step is a primitive resolved against one pass's coordinate units.
type step struct {
	prim   Primitive
	inputs []Slot

	// producers holds, per input, the index of the step that wrote it
	// last, or -1 for standard inputs and unknown slots.
	producers []int

	subregion image.Rectangle

	// inputSubregion is the primary input's subregion as planned, used
	// for Enlarge. Evaluation reads it from the registry.
	inputSubregion image.Rectangle
	area           image.Rectangle
	space          color.ColorSpace
}

// plan resolves inputs and subregions front to back, then propagates the
// pixels each step must produce back to front, starting from target.
// It returns the steps and the area the standard inputs must cover.
func (p *Program) plan(cu *units.CoordinateUnits, region, target image.Rectangle) ([]step, image.Rectangle) {
	steps := make([]step, len(p.prims))
	toPixel := cu.PrimitiveToPixel()

	subregions := make(map[Slot]image.Rectangle)
	producer := make(map[Slot]int)
	subregionOf := func(s Slot) image.Rectangle {
		if r, ok := subregions[s]; ok {
			return r
		}
		return region
	}

	prev := SourceGraphic
	for i, prim := range p.prims {
		st := &steps[i]
		st.prim = prim
		st.space = prim.ColorInterpolation.space(p.opts.colorInterpolation)
		st.inputs = resolveInputs(prim, prev)

		var def image.Rectangle
		fullRegion := len(st.inputs) == 0
		switch prim.Params.(type) {
		case filter.Flood, filter.Tile:
			fullRegion = true
		}
		for _, in := range st.inputs {
			if _, ok := subregions[in]; !ok {
				fullRegion = true
				break
			}
			def = def.Union(subregions[in])
		}
		if fullRegion {
			def = region
		}
		st.subregion = p.resolveSubregion(prim.Subregion, def, toPixel).Intersect(region)
		if len(st.inputs) > 0 {
			st.inputSubregion = subregionOf(st.inputs[0])
		}

		st.producers = make([]int, len(st.inputs))
		for k, in := range st.inputs {
			st.producers[k] = -1
			if j, ok := producer[in]; ok {
				st.producers[k] = j
			}
		}
		subregions[prim.Result] = st.subregion
		producer[prim.Result] = i
		prev = prim.Result
	}

	demand := make([]image.Rectangle, len(steps))
	if len(steps) > 0 {
		demand[len(steps)-1] = target
	}
	var sourceNeed image.Rectangle
	for i := len(steps) - 1; i >= 0; i-- {
		st := &steps[i]
		st.area = demand[i].Intersect(st.subregion)
		if st.area.Empty() || st.prim.Params == nil {
			if st.prim.Params == nil && !st.area.Empty() {
				p.propagate(st, st.area, demand, &sourceNeed)
			}
			continue
		}
		env := &filter.Env{Transform: toPixel, InputSubregion: st.inputSubregion}
		p.propagate(st, filter.Enlarge(st.prim.Params, st.area, env), demand, &sourceNeed)
	}
	return steps, sourceNeed.Intersect(region)
}

func (p *Program) propagate(st *step, need image.Rectangle, demand []image.Rectangle, sourceNeed *image.Rectangle) {
	for k := range st.inputs {
		if j := st.producers[k]; j >= 0 {
			demand[j] = demand[j].Union(need)
		} else {
			*sourceNeed = sourceNeed.Union(need)
		}
	}
}

// resolveInputs applies the implicit chaining rules.
func resolveInputs(prim Primitive, prev Slot) []Slot {
	orPrev := func(s Slot) Slot {
		if s == NotSet {
			return prev
		}
		return s
	}
	switch prim.Params.(type) {
	case filter.Flood:
		return nil
	case filter.Composite, filter.Blend:
		in2 := prim.In2
		if in2 == NotSet {
			in2 = SourceGraphic
		}
		return []Slot{orPrev(prim.In), in2}
	case filter.Merge:
		inputs := make([]Slot, len(prim.Inputs))
		for i, s := range prim.Inputs {
			inputs[i] = orPrev(s)
		}
		return inputs
	}
	return []Slot{orPrev(prim.In)}
}

// resolveSubregion fills the unset fields of sub from def and converts the
// result to pixels, rounding outward.
func (p *Program) resolveSubregion(sub Subregion, def image.Rectangle, toPixel geom.Matrix) image.Rectangle {
	if !sub.IsSet() {
		return def
	}
	fromPixel, ok := toPixel.Invert()
	if !ok {
		return def
	}
	d := geom.FromRectangle(def).Transform(fromPixel)
	x, y, w, h := d.MinX, d.MinY, d.Width(), d.Height()
	if sub.X != nil {
		x = *sub.X
	}
	if sub.Y != nil {
		y = *sub.Y
	}
	if sub.Width != nil {
		w = *sub.Width
	}
	if sub.Height != nil {
		h = *sub.Height
	}
	if w < 0 || h < 0 {
		p.warn.Warn(p.logger(), "negative-subregion", "svgfilter: negative subregion size, primitive is empty",
			"width", w, "height", h)
		return image.Rectangle{}
	}
	return geom.XYWH(x, y, w, h).Transform(toPixel).RoundOut()
}
