package svgfilter

import (
	"context"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/svgfilter/internal/parallel"
)

// RenderTiled evaluates the program like Render, splitting the filter
// region into tiles evaluated concurrently, each with its own registry.
// Every tile's working area is enlarged by the primitives' support, so
// the result matches Render.
//
// Programs containing a primitive without TraitParallel (Tile) are
// rendered with Render.
func (p *Program) RenderTiled(ctx context.Context, src Source) (*Result, error) {
	if !p.Parallel() {
		p.logger().Debug("svgfilter: program not tileable, rendering in one pass")
		return p.Render(ctx, src)
	}
	if src.Graphic == nil {
		return nil, ErrNilSource
	}
	cu := p.coordinateUnits(src)
	region := cu.FilterRegionPixels()
	tiles := parallel.Split(region, p.opts.tileW, p.opts.tileH)
	if len(tiles) <= 1 {
		return p.Render(ctx, src)
	}

	img := image.NewRGBA(region)
	errs := make([]error, len(tiles))
	work := make([]func(), len(tiles))
	for i, tile := range tiles {
		work[i] = func() {
			part, err := p.renderArea(ctx, cu.Clone(), src, region, tile)
			if err != nil {
				errs[i] = err
				return
			}
			xdraw.Draw(img, tile, part, tile.Min, xdraw.Src)
		}
	}

	pool := parallel.NewWorkerPool(p.opts.workers)
	workers := pool.Workers()
	pool.ExecuteAll(work)
	pool.Close()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	p.logger().Debug("svgfilter: tiled render", "region", region.String(), "tiles", len(tiles), "workers", workers)
	return &Result{Image: img, Region: region, PixelToUser: cu.PixelToUser()}, nil
}
