package grid

import (
	"fmt"
	"slices"
)

// Draft is a mutable working copy of a Grid.
// It owns its cells exclusively; nothing else ever aliases them.
type Draft struct {
	base  *Grid
	size  int
	cells []Color
}

// Size returns the side length of the draft.
func (d *Draft) Size() int {
	return d.size
}

// At returns the colour at index.
func (d *Draft) At(index int) (Color, error) {
	if err := d.check(index); err != nil {
		return "", err
	}
	return d.cells[index], nil
}

// Set paints the cell at index in place.
func (d *Draft) Set(index int, c Color) error {
	if err := d.check(index); err != nil {
		return err
	}
	d.cells[index] = c
	return nil
}

// Fill flood-fills the region containing start in place and returns the
// number of repainted cells.
func (d *Draft) Fill(start int, replacement Color) (int, error) {
	if err := d.check(start); err != nil {
		return 0, err
	}
	return floodFill(d.cells, d.size, start, replacement), nil
}

// Changed reports whether the draft differs from the grid it was taken from.
func (d *Draft) Changed() bool {
	return !slices.Equal(d.base.cells, d.cells)
}

// Base returns the grid the draft was taken from.
func (d *Draft) Base() *Grid {
	return d.base
}

// Grid freezes the current contents into a new Grid.
// The draft stays usable; further edits do not affect the returned grid.
func (d *Draft) Grid() *Grid {
	return &Grid{size: d.size, cells: slices.Clone(d.cells)}
}

func (d *Draft) check(index int) error {
	if index < 0 || index >= len(d.cells) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, len(d.cells))
	}
	return nil
}
