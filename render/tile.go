package render

// Tile is a rectangular, non-overlapping region of the image (spec
// section 5, "the image is partitioned into tiles"). Index is the tile's
// position in row-major scan order, used to derive a deterministic
// sampler seed independent of which worker ends up processing it.
type Tile struct {
	X, Y          int
	Width, Height int
	Index         int
}

// tiles splits a width x height image into row-major tileSize x tileSize
// tiles, clamping the last tile in each row/column to the remaining
// pixels when the image dimensions aren't an exact multiple of tileSize.
func tiles(width, height, tileSize int) []Tile {
	var out []Tile
	index := 0
	for y := 0; y < height; y += tileSize {
		h := tileSize
		if y+h > height {
			h = height - y
		}
		for x := 0; x < width; x += tileSize {
			w := tileSize
			if x+w > width {
				w = width - x
			}
			out = append(out, Tile{X: x, Y: y, Width: w, Height: h, Index: index})
			index++
		}
	}
	return out
}
