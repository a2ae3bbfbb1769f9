package project

import "errors"

// Errors returned by project stores.
var (
	// ErrNotFound indicates no project matched the lookup.
	ErrNotFound = errors.New("project not found")

	// ErrInvalidProject indicates a record is missing required fields or
	// holds cells that do not form a valid grid.
	ErrInvalidProject = errors.New("invalid project")
)

// IsNotFound reports whether err indicates a missing project.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
