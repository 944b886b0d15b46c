package parallel

import "image"

// Default tile dimensions in pixels. 64x64 RGBA is 16KB per buffer.
const (
	TileWidth  = 64
	TileHeight = 64
)

// Split divides region into row-major tiles of at most tileW x tileH
// pixels. Edge tiles are clipped to region. Non-positive tile dimensions
// select the defaults. An empty region yields no tiles.
func Split(region image.Rectangle, tileW, tileH int) []image.Rectangle {
	if region.Empty() {
		return nil
	}
	if tileW <= 0 {
		tileW = TileWidth
	}
	if tileH <= 0 {
		tileH = TileHeight
	}

	cols := (region.Dx() + tileW - 1) / tileW
	rows := (region.Dy() + tileH - 1) / tileH
	tiles := make([]image.Rectangle, 0, cols*rows)
	for y := region.Min.Y; y < region.Max.Y; y += tileH {
		for x := region.Min.X; x < region.Max.X; x += tileW {
			tiles = append(tiles, image.Rect(x, y, x+tileW, y+tileH).Intersect(region))
		}
	}
	return tiles
}
