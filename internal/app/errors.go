package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrNoStore indicates an operation needs a project store but none is open.
	ErrNoStore = errors.New("no project store")

	// ErrNoProject indicates an operation needs a loaded project.
	ErrNoProject = errors.New("no project loaded")
)

// InitError represents an error during component initialization.
type InitError struct {
	Component string
	Err       error
}

// Error implements the error interface.
func (e *InitError) Error() string {
	return fmt.Sprintf("failed to initialize %s: %v", e.Component, e.Err)
}

// Unwrap returns the underlying error.
func (e *InitError) Unwrap() error {
	return e.Err
}
