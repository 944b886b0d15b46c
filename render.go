package svgfilter

import (
	"context"
	"image"
	"log/slog"

	"github.com/gogpu/svgfilter/geom"
	"github.com/gogpu/svgfilter/internal/filter"
	intImage "github.com/gogpu/svgfilter/internal/image"
	"github.com/gogpu/svgfilter/internal/slot"
	"github.com/gogpu/svgfilter/internal/units"
)

// Source is what the rasterizer supplies for one render pass.
type Source struct {
	// Graphic is the filtered element rendered in device space, its pixel
	// coordinates being device coordinates. Premultiplied, as image.RGBA.
	Graphic image.Image

	// Background is the optional background capture, in device space.
	Background image.Image

	// Fill and Stroke are the element's paint servers. Nil paints are
	// transparent.
	Fill, Stroke Paint

	// CTM maps user space to device space. The zero value means identity.
	CTM geom.Matrix

	// BBox is the element's bounding box in user space.
	BBox geom.Rect
}

// Result is the output of a render pass.
type Result struct {
	// Image holds premultiplied sRGB pixels. Its bounds equal Region.
	Image *image.RGBA

	// Region is the filter region in buffer pixels.
	Region image.Rectangle

	// PixelToUser places the buffer in user space.
	PixelToUser geom.Matrix
}

// Render evaluates the program once over the whole filter region.
//
// Problems inside primitives never fail the pass: they are logged and the
// affected primitive passes its input through. Render returns an error
// only for a nil source graphic or a cancelled context.
func (p *Program) Render(ctx context.Context, src Source) (*Result, error) {
	if src.Graphic == nil {
		return nil, ErrNilSource
	}
	cu := p.coordinateUnits(src)
	region := cu.FilterRegionPixels()
	res := &Result{Region: region, PixelToUser: cu.PixelToUser()}
	if region.Empty() {
		res.Image = image.NewRGBA(region)
		return res, nil
	}

	img, err := p.renderArea(ctx, cu, src, region, region)
	if err != nil {
		return nil, err
	}
	res.Image = img
	return res, nil
}

// coordinateUnits configures the units for one pass.
func (p *Program) coordinateUnits(src Source) *units.CoordinateUnits {
	ctm := src.CTM
	if ctm == (geom.Matrix{}) {
		ctm = geom.Identity()
	}
	cu := units.New(p.logger())
	cu.SetCTM(ctm)
	cu.SetItemBBox(src.BBox)
	cu.SetUnits(p.filterUnits, p.primitiveUnits)
	cu.SetFilterRegion(p.region)
	if p.opts.resSet {
		cu.SetResolution(p.opts.resX, p.opts.resY)
	} else {
		cu.SetAutomaticResolution()
	}
	cu.SetParallelAxes(p.opts.parallel || (p.needsAxisAlignment() && !ctm.IsAxisAligned()))
	return cu
}

// renderArea evaluates every primitive for the pixels of target with a
// fresh registry.
func (p *Program) renderArea(ctx context.Context, cu *units.CoordinateUnits, src Source,
	region, target image.Rectangle) (*image.RGBA, error) {
	logger := p.logger()
	steps, sourceNeed := p.plan(cu, region, target)

	reg := slot.New(slot.Config{
		Units: cu,
		Sources: slot.Sources{
			Graphic:    src.Graphic,
			Background: src.Background,
			Fill:       src.Fill,
			Stroke:     src.Stroke,
		},
		Area:   sourceNeed,
		Region: region,
		Pool:   p.opts.pool,
		Warn:   p.warn,
		Logger: logger,
	})
	defer reg.Release()

	toPixel := cu.PrimitiveToPixel()
	for i := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		st := &steps[i]
		out := p.evaluate(reg, i, st, toPixel, logger)
		reg.Set(st.prim.Result, out, st.subregion)
	}

	if len(steps) == 0 {
		return image.NewRGBA(target), nil
	}
	final := reg.Get(steps[len(steps)-1].prim.Result)
	if final == nil {
		return image.NewRGBA(target), nil
	}
	return final.Crop(target).RGBA(), nil
}

// evaluate runs one step. A primitive that cannot execute passes its
// primary input through.
func (p *Program) evaluate(reg *slot.Registry, i int, st *step, toPixel geom.Matrix, logger *slog.Logger) *intImage.Buffer {
	env := &filter.Env{
		Logger:    logger,
		Warn:      p.warn,
		Transform: toPixel,
		Area:      st.area,
		Space:     st.space,
		Pool:      p.opts.pool,
		Kernels:   p.kernels,
	}
	if len(st.inputs) > 0 {
		env.InputSubregion = reg.PrimitiveSubregion(st.inputs[0])
	}
	if st.area.Empty() {
		out := intImage.NewBuffer(image.Rectangle{})
		out.Space = st.space
		return out
	}

	inputs := make([]*intImage.Buffer, len(st.inputs))
	for k, in := range st.inputs {
		buf := reg.Get(in)
		if buf == nil {
			p.warn.Warn(logger, "missing-input:"+in.String(),
				"svgfilter: missing input, using transparent pixels", "primitive", i, "in", in.String())
			buf = intImage.NewBuffer(st.area)
		}
		inputs[k] = buf.ToColorSpace(st.space)
	}

	if st.prim.Params == nil {
		p.warn.Warn(logger, "nil-params", "svgfilter: primitive without parameters, passing input through",
			"primitive", i)
		return passthrough(inputs, env)
	}
	kind := st.prim.Params.Kind()
	out, err := filter.Evaluate(st.prim.Params, inputs, env)
	if err != nil {
		logger.Warn("svgfilter: primitive failed, passing input through",
			"primitive", i, "kind", kind.String(), "err", err)
		return passthrough(inputs, env)
	}
	logger.Debug("svgfilter: evaluated primitive",
		"primitive", i, "kind", kind.String(), "area", st.area.String(), "space", st.space.String())
	return out
}

// passthrough copies the primary input over the step area, or returns
// transparent pixels when there is none.
func passthrough(inputs []*intImage.Buffer, env *filter.Env) *intImage.Buffer {
	out := env.Pool.Get(env.Area)
	out.Space = env.Space
	if len(inputs) > 0 && inputs[0] != nil {
		out.Alpha = inputs[0].Alpha
		out.CopyFrom(inputs[0])
	}
	return out
}
