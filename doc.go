// Package svgfilter renders SVG filter effects on raster images.
//
// # Overview
//
// A Program is an ordered chain of filter primitives (feColorMatrix,
// feConvolveMatrix, feComposite, feOffset, feTile, feDiffuseLighting,
// feSpecularLighting, feMerge, feMorphology, feGaussianBlur, feFlood and
// feBlend) plus the filter region and unit configuration. Render evaluates
// the chain once over the filter region and returns a premultiplied RGBA
// buffer together with its placement in user space.
//
// # Quick Start
//
//	p := svgfilter.New()
//	p.SetUnits(svgfilter.UserSpaceOnUse, svgfilter.UserSpaceOnUse)
//	p.SetRegion(geom.XYWH(0, 0, 100, 100))
//	p.Add(svgfilter.Primitive{Params: svgfilter.GaussianBlur{StdDeviationX: 2, StdDeviationY: 2}})
//	p.Add(svgfilter.Primitive{Params: svgfilter.Offset{Dx: 3, Dy: 3}})
//
//	res, err := p.Render(ctx, svgfilter.Source{Graphic: img, BBox: bbox})
//
// Filter definitions can also be loaded from YAML or TOML with
// LoadDescription and compiled with Description.Compile.
//
// # Coordinate Systems
//
// Three spaces are involved: user space, primitive-unit space
// (objectBoundingBox or userSpaceOnUse) and pixel-buffer space, whose
// origin is the filter-region corner. By default pixel axes follow the
// current transform; an explicit resolution, WithParallelAxes, or a
// primitive that needs axis-aligned kernels under a rotating transform
// makes them parallel to user space instead.
//
// # Inputs
//
// A primitive's In defaults to the previous result (SourceGraphic for the
// first primitive), and In2 of Composite and Blend defaults to
// SourceGraphic. The standard inputs SourceAlpha, BackgroundImage,
// BackgroundAlpha, FillPaint and StrokePaint are derived lazily per pass.
//
// # Errors
//
// Filter evaluation never fails because of malformed parameters or missing
// inputs: problems are logged through the package logger (see SetLogger)
// and the affected primitive passes its input through or produces
// transparent pixels.
//
// # Concurrency
//
// Each pass owns its buffers, so a Program may render concurrently.
// RenderTiled splits the filter region into tiles rendered on a worker
// pool when every primitive supports it.
package svgfilter
