package grid

import "errors"

// Errors returned by grid operations.
var (
	// ErrInvalidSize indicates a grid size outside [1, MaxSize].
	ErrInvalidSize = errors.New("invalid grid size")

	// ErrIndexOutOfRange indicates a cell index outside [0, size*size).
	ErrIndexOutOfRange = errors.New("cell index out of range")

	// ErrShapeMismatch indicates a cell count that does not equal size*size.
	ErrShapeMismatch = errors.New("cell count does not match grid size")

	// ErrInvalidColor indicates a colour that is not a hex RGB value.
	ErrInvalidColor = errors.New("invalid color")
)
