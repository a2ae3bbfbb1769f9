package grid

import (
	"fmt"
	"slices"
)

// MaxSize is the largest supported side length.
const MaxSize = 4096

// Grid is an immutable size×size raster of colour cells.
// All methods that "modify" a Grid return a new one.
type Grid struct {
	size  int
	cells []Color
}

// New creates a grid of size*size cells all set to fill.
func New(size int, fill Color) (*Grid, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	cells := make([]Color, size*size)
	for i := range cells {
		cells[i] = fill
	}
	return &Grid{size: size, cells: cells}, nil
}

// FromCells creates a grid from an existing cell slice.
// The slice is copied; later changes to cells do not affect the grid.
func FromCells(size int, cells []Color) (*Grid, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	if len(cells) != size*size {
		return nil, fmt.Errorf("%w: got %d cells, want %d", ErrShapeMismatch, len(cells), size*size)
	}
	return &Grid{size: size, cells: slices.Clone(cells)}, nil
}

func checkSize(size int) error {
	if size < 1 || size > MaxSize {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidSize, size, MaxSize)
	}
	return nil
}

// Size returns the side length of the grid.
func (g *Grid) Size() int {
	return g.size
}

// Len returns the number of cells (size*size).
func (g *Grid) Len() int {
	return len(g.cells)
}

// At returns the colour at index.
func (g *Grid) At(index int) (Color, error) {
	if err := g.check(index); err != nil {
		return "", err
	}
	return g.cells[index], nil
}

// Cells returns a copy of the cell array.
func (g *Grid) Cells() []Color {
	return slices.Clone(g.cells)
}

// Set returns a grid with the cell at index set to c.
// If the cell already holds c, g itself is returned.
func (g *Grid) Set(index int, c Color) (*Grid, error) {
	if err := g.check(index); err != nil {
		return nil, err
	}
	if g.cells[index] == c {
		return g, nil
	}
	cells := slices.Clone(g.cells)
	cells[index] = c
	return &Grid{size: g.size, cells: cells}, nil
}

// Index converts a row/column pair to a flat index.
// Returns -1 if the position lies outside the grid.
func (g *Grid) Index(row, col int) int {
	if row < 0 || col < 0 || row >= g.size || col >= g.size {
		return -1
	}
	return row*g.size + col
}

// RowCol converts a flat index to its row and column.
func (g *Grid) RowCol(index int) (row, col int) {
	return index / g.size, index % g.size
}

// Equal reports whether g and other have the same size and cells.
func (g *Grid) Equal(other *Grid) bool {
	if g == other {
		return true
	}
	if g == nil || other == nil {
		return false
	}
	return g.size == other.size && slices.Equal(g.cells, other.cells)
}

// Count returns how many cells hold c.
func (g *Grid) Count(c Color) int {
	n := 0
	for _, cell := range g.cells {
		if cell == c {
			n++
		}
	}
	return n
}

// Draft returns a mutable working copy of g.
func (g *Grid) Draft() *Draft {
	return &Draft{
		base:  g,
		size:  g.size,
		cells: slices.Clone(g.cells),
	}
}

func (g *Grid) check(index int) error {
	if index < 0 || index >= len(g.cells) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, len(g.cells))
	}
	return nil
}
