package filter

import (
	"image"

	intImage "github.com/gogpu/svgfilter/internal/image"
)

// Tile is the feTile primitive. It repeats the declared subregion of its
// input across the output area.
type Tile struct{}

func (Tile) Kind() Kind { return KindTile }

// Traits reports no TraitParallel: the source tile may lie outside the
// pixels a render tile has resident.
func (Tile) Traits() Traits { return TraitAxisAligned }
func (Tile) isParams()      {}

// enlarge requests one full tile period of border plus the source tile
// itself.
func (Tile) enlarge(area, src image.Rectangle) image.Rectangle {
	if src.Empty() {
		return area
	}
	return area.Inset(-max(src.Dx(), src.Dy())).Union(src)
}

func evaluateTile(in *intImage.Buffer, _ Tile, env *Env) (*intImage.Buffer, error) {
	declared := env.InputSubregion
	if declared.Empty() {
		env.warnOnce("tile-empty-source", "feTile: empty source subregion, passing input through")
		return passthrough(in, env), nil
	}

	src := declared.Intersect(in.Rect)
	if src != declared {
		env.warnOnce("tile-non-resident", "feTile: source tile not fully resident, tiling available pixels",
			"declared", declared.String(), "resident", src.String())
	}
	if src.Empty() {
		return env.output(in.Alpha), nil
	}

	out := env.output(in.Alpha)
	tw, th := src.Dx(), src.Dy()
	for y := out.Rect.Min.Y; y < out.Rect.Max.Y; y++ {
		sy := src.Min.Y + mod(y-src.Min.Y, th)
		di := out.PixOffset(out.Rect.Min.X, y)
		x := out.Rect.Min.X
		for x < out.Rect.Max.X {
			// Copy the longest run that stays within one tile row.
			sx := src.Min.X + mod(x-src.Min.X, tw)
			n := min(src.Max.X-sx, out.Rect.Max.X-x)
			si := in.PixOffset(sx, sy)
			copy(out.Pix[di:di+4*n], in.Pix[si:si+4*n])
			x += n
			di += 4 * n
		}
	}
	return out, nil
}

// mod returns a mod b in [0, b).
func mod(a, b int) int {
	a %= b
	if a < 0 {
		a += b
	}
	return a
}
