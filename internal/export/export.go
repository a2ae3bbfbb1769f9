// Package export renders grids as images.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/dshills/pixelplay/internal/engine/grid"
)

// ErrInvalidCellSize indicates a non-positive cell size.
var ErrInvalidCellSize = errors.New("invalid cell size")

// Image renders g with one pixel per cell.
func Image(g *grid.Grid) *image.RGBA {
	n := g.Size()
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	for i, c := range g.Cells() {
		row, col := g.RowCol(i)
		img.SetRGBA(col, row, c.RGBA())
	}
	return img
}

// Scaled renders g with each cell drawn as a cellSize×cellSize square.
func Scaled(g *grid.Grid, cellSize int) (*image.RGBA, error) {
	if cellSize < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCellSize, cellSize)
	}
	src := Image(g)
	if cellSize == 1 {
		return src, nil
	}
	side := g.Size() * cellSize
	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// PNG writes g to w as a PNG with cellSize pixels per cell.
func PNG(w io.Writer, g *grid.Grid, cellSize int) error {
	img, err := Scaled(g, cellSize)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WriteFile writes g as a PNG file at path, creating parent directories.
func WriteFile(path string, g *grid.Grid, cellSize int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := PNG(f, g, cellSize); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
