// Package grid provides the immutable pixel raster used by the editing engine.
//
// A Grid is a size×size array of colour cells addressed by a flat index:
// index i lives at row i/size, column i%size. Grids never change once built;
// every edit returns a new Grid, so snapshots held by the history stay valid.
//
// # Colours
//
// Cells hold a Color, a normalized "#RRGGBB" string. ParseColor accepts the
// usual hex spellings and normalizes them:
//
//	c, err := grid.ParseColor("#f00") // "#FF0000"
//
// # Drafts
//
// Continuous edits (a drag stroke) work on a Draft, a private mutable copy.
// A Draft is frozen back into a Grid with Draft.Grid:
//
//	d := g.Draft()
//	d.Set(3, grid.Black)
//	d.Set(4, grid.Black)
//	next := d.Grid()
//
// # Flood Fill
//
// Fill repaints the 4-connected region of the start cell's colour:
//
//	filled, err := grid.Fill(g, 0, grid.Black)
//
// When the start cell already has the replacement colour, Fill returns the
// input Grid unchanged.
package grid
