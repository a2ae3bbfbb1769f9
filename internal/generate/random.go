package generate

import (
	"math/rand/v2"

	"github.com/dshills/pixelplay/internal/engine/grid"
)

// Random returns a size×size grid with every cell drawn uniformly from
// palette. A nil rng uses the global source.
func Random(size int, palette []grid.Color, rng *rand.Rand) (*grid.Grid, error) {
	if len(palette) == 0 {
		return nil, ErrEmptyPalette
	}
	if size < 1 {
		return grid.New(size, palette[0])
	}
	pick := rand.IntN
	if rng != nil {
		pick = rng.IntN
	}

	cells := make([]grid.Color, size*size)
	for i := range cells {
		cells[i] = palette[pick(len(palette))]
	}
	return grid.FromCells(size, cells)
}
