package session

import (
	"errors"

	"github.com/dshills/pixelplay/internal/engine/grid"
)

// ErrNotDragging indicates a gesture edit outside an active gesture.
var ErrNotDragging = errors.New("no gesture in progress")

// State is the gesture state.
type State int

const (
	// StateIdle means no gesture is in progress.
	StateIdle State = iota
	// StateDragging means a gesture is accumulating edits.
	StateDragging
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Session holds the working copy of an in-progress gesture.
type Session struct {
	state State
	draft *grid.Draft
	edits int
}

// New creates an idle session.
func New() *Session {
	return &Session{}
}

// State returns the current gesture state.
func (s *Session) State() State {
	return s.state
}

// Active returns true while a gesture is in progress.
func (s *Session) Active() bool {
	return s.state == StateDragging
}

// Begin starts a gesture on a working copy of base.
// Returns false if a gesture is already in progress; the call is then ignored.
func (s *Session) Begin(base *grid.Grid) bool {
	if s.state == StateDragging {
		return false
	}
	s.state = StateDragging
	s.draft = base.Draft()
	s.edits = 0
	return true
}

// Apply paints one cell of the working copy.
func (s *Session) Apply(index int, c grid.Color) error {
	if s.state != StateDragging {
		return ErrNotDragging
	}
	if err := s.draft.Set(index, c); err != nil {
		return err
	}
	s.edits++
	return nil
}

// Fill flood-fills the working copy and returns the number of painted cells.
func (s *Session) Fill(index int, c grid.Color) (int, error) {
	if s.state != StateDragging {
		return 0, ErrNotDragging
	}
	n, err := s.draft.Fill(index, c)
	if err != nil {
		return 0, err
	}
	s.edits++
	return n, nil
}

// Preview returns a frozen copy of the working grid, or nil when idle.
func (s *Session) Preview() *grid.Grid {
	if s.state != StateDragging {
		return nil
	}
	return s.draft.Grid()
}

// Edits returns the number of edits applied in the current gesture.
func (s *Session) Edits() int {
	return s.edits
}

// End finishes the gesture and returns the working grid.
// changed is false when the gesture left the grid structurally equal to the
// grid it started from, or when no gesture was in progress.
func (s *Session) End() (result *grid.Grid, changed bool) {
	if s.state != StateDragging {
		return nil, false
	}
	d := s.draft
	s.reset()

	if !d.Changed() {
		return d.Base(), false
	}
	return d.Grid(), true
}

// Cancel abandons the gesture without producing a result.
func (s *Session) Cancel() {
	s.reset()
}

func (s *Session) reset() {
	s.state = StateIdle
	s.draft = nil
	s.edits = 0
}
