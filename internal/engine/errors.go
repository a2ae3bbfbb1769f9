package engine

import (
	"github.com/dshills/pixelplay/internal/engine/grid"
	"github.com/dshills/pixelplay/internal/engine/session"
)

// Errors returned by engine operations.
var (
	// ErrInvalidSize indicates a canvas size outside [1, grid.MaxSize].
	ErrInvalidSize = grid.ErrInvalidSize

	// ErrIndexOutOfRange indicates a cell index outside the canvas.
	ErrIndexOutOfRange = grid.ErrIndexOutOfRange

	// ErrShapeMismatch indicates loaded cells that do not fill a size×size canvas.
	ErrShapeMismatch = grid.ErrShapeMismatch

	// ErrInvalidColor indicates a colour that is not a hex RGB value.
	ErrInvalidColor = grid.ErrInvalidColor

	// ErrNotDragging indicates a gesture operation with no gesture in progress.
	ErrNotDragging = session.ErrNotDragging
)
