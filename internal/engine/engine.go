package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/dshills/pixelplay/internal/engine/grid"
	"github.com/dshills/pixelplay/internal/engine/history"
	"github.com/dshills/pixelplay/internal/engine/session"
)

// Re-export commonly used types for convenience.
type (
	// Grid is an immutable canvas snapshot.
	Grid = grid.Grid

	// Color is a normalized "#RRGGBB" cell colour.
	Color = grid.Color

	// Tool selects how cell edits are applied.
	Tool = session.Tool

	// EntryInfo describes one history entry.
	EntryInfo = history.EntryInfo
)

// Re-export constants.
const (
	ToolDraw  = session.ToolDraw
	ToolErase = session.ToolErase
	ToolFill  = session.ToolFill
)

// History labels.
const (
	labelDraw   = "Draw"
	labelErase  = "Erase"
	labelFill   = "Fill"
	labelStroke = "Stroke"
	labelResize = "Resize"
	labelClear  = "Clear"
	labelLoad   = "Load"
)

// Engine is the main facade for the pixel editing engine.
// It combines the canvas, gesture session, tool selection and undo/redo
// history into one API. Every editing call returns the grid that should be
// rendered next.
//
// All operations are serialized and can be called from multiple goroutines.
type Engine struct {
	mu sync.Mutex

	// Core components
	log     *history.Log
	session *session.Session

	// Selection
	tool  session.Tool
	color grid.Color

	// Configuration
	size       int
	background grid.Color
	maxHistory int
	logger     *slog.Logger
}

// New creates a new Engine with a blank canvas.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		tool:       session.ToolDraw,
		color:      DefaultColor,
		size:       DefaultSize,
		background: DefaultBackground,
		maxHistory: DefaultMaxHistory,
		logger:     slog.New(slog.DiscardHandler),
	}

	// Apply options to get configuration
	for _, opt := range opts {
		opt(e)
	}

	var err error
	if e.background, err = grid.ParseColor(string(e.background)); err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	if e.color, err = grid.ParseColor(string(e.color)); err != nil {
		return nil, fmt.Errorf("color: %w", err)
	}

	blank, err := grid.New(e.size, e.background)
	if err != nil {
		return nil, err
	}

	e.session = session.New()
	e.log = history.NewLog(blank, history.WithMaxEntries(e.maxHistory))
	e.logger = e.logger.With("component", "engine")

	return e, nil
}

// ============================================================================
// Read Operations
// ============================================================================

// Current returns the grid to render: the working copy while a gesture is in
// progress, otherwise the committed state under the history cursor.
func (e *Engine) Current() *grid.Grid {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentLocked()
}

// Committed returns the state under the history cursor, ignoring any
// in-progress gesture.
func (e *Engine) Committed() *grid.Grid {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.log.Current()
}

// Size returns the side length of the canvas.
func (e *Engine) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.log.Current().Size()
}

// Background returns the background colour.
func (e *Engine) Background() grid.Color {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.background
}

// Dragging returns true while a gesture is in progress.
func (e *Engine) Dragging() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Active()
}

// ============================================================================
// Tool Selection
// ============================================================================

// Tool returns the selected tool.
func (e *Engine) Tool() session.Tool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tool
}

// SetTool selects a tool. History is not affected.
func (e *Engine) SetTool(t session.Tool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tool = t
}

// Color returns the selected drawing colour.
func (e *Engine) Color() grid.Color {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.color
}

// SetColor selects the drawing colour. History is not affected.
func (e *Engine) SetColor(c grid.Color) error {
	n, err := grid.ParseColor(string(c))
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.color = n
	return nil
}

// ============================================================================
// Editing
// ============================================================================

// BeginGesture starts a drag gesture. Ignored if one is already in progress.
func (e *Engine) BeginGesture() *grid.Grid {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Begin(e.log.Current()) {
		e.logger.Debug("gesture started")
	}
	return e.currentLocked()
}

// EndGesture finishes a drag gesture. The working copy is committed as one
// history entry if it differs from the committed state, and dropped otherwise.
func (e *Engine) EndGesture() *grid.Grid {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.endGestureLocked(labelStroke)
	return e.currentLocked()
}

// EditCell applies tool at index.
//
// Draw paints c and Erase paints the background colour. During a gesture these
// accumulate on the working copy; outside a gesture each call is a discrete
// edit committing at most one entry. Fill flood-fills: during a gesture it
// fills the working copy and ends the gesture, otherwise it behaves as FillAt.
func (e *Engine) EditCell(index int, tool session.Tool, c grid.Color) (*grid.Grid, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.editCellLocked(index, tool, c)
}

func (e *Engine) editCellLocked(index int, tool session.Tool, c grid.Color) (*grid.Grid, error) {
	color, err := e.resolveLocked(tool, c)
	if err != nil {
		return e.currentLocked(), err
	}

	if tool == session.ToolFill {
		if e.session.Active() {
			if _, err := e.session.Fill(index, color); err != nil {
				return e.currentLocked(), err
			}
			e.endGestureLocked(labelFill)
			return e.currentLocked(), nil
		}
		return e.fillLocked(index, color)
	}

	if e.session.Active() {
		if err := e.session.Apply(index, color); err != nil {
			return e.currentLocked(), err
		}
		return e.currentLocked(), nil
	}

	next, err := e.log.Current().Set(index, color)
	if err != nil {
		return e.currentLocked(), err
	}
	label := labelDraw
	if tool == session.ToolErase {
		label = labelErase
	}
	e.commitLocked(next, label)
	return e.currentLocked(), nil
}

// Apply applies the selected tool and colour at index.
func (e *Engine) Apply(index int) (*grid.Grid, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.editCellLocked(index, e.tool, e.color)
}

// FillAt flood-fills the region containing index with c as one atomic edit.
// A gesture in progress is ended first unless index is out of range, in which
// case nothing changes.
func (e *Engine) FillAt(index int, c grid.Color) (*grid.Grid, error) {
	color, err := grid.ParseColor(string(c))
	if err != nil {
		return e.Current(), err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.log.Current().At(index); err != nil {
		return e.currentLocked(), err
	}
	e.endGestureLocked(labelStroke)
	return e.fillLocked(index, color)
}

// ============================================================================
// Undo/Redo
// ============================================================================

// Undo moves back one history entry. A gesture in progress is discarded.
// At the oldest entry this is a no-op.
func (e *Engine) Undo() *grid.Grid {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.session.Cancel()
	if e.log.Undo() {
		e.logger.Debug("undo", "cursor", e.log.Cursor(), "entries", e.log.Len())
	}
	return e.log.Current()
}

// Redo moves forward one history entry. A gesture in progress is discarded.
// At the newest entry this is a no-op.
func (e *Engine) Redo() *grid.Grid {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.session.Cancel()
	if e.log.Redo() {
		e.logger.Debug("redo", "cursor", e.log.Cursor(), "entries", e.log.Len())
	}
	return e.log.Current()
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.log.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.log.CanRedo()
}

// HistoryLen returns the number of history entries.
func (e *Engine) HistoryLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.log.Len()
}

// History returns info about every history entry, oldest first.
func (e *Engine) History() []EntryInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.log.Entries()
}

// ============================================================================
// Canvas Reset
// ============================================================================

// Resize replaces the canvas with a blank size×size grid and resets history.
// On error the engine is unchanged.
func (e *Engine) Resize(size int) (*grid.Grid, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	blank, err := grid.New(size, e.background)
	if err != nil {
		return e.currentLocked(), err
	}
	e.resetLocked(blank, labelResize)
	return blank, nil
}

// Clear replaces the canvas with a blank grid of the same size and resets
// history.
func (e *Engine) Clear() *grid.Grid {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Size is already validated, so this cannot fail.
	blank, _ := grid.New(e.log.Current().Size(), e.background)
	e.resetLocked(blank, labelClear)
	return blank
}

// LoadState replaces the canvas with externally supplied cells and resets
// history. Colours are normalized. If the cells do not form a size×size grid
// or contain an invalid colour the engine is unchanged.
func (e *Engine) LoadState(size int, cells []grid.Color) (*grid.Grid, error) {
	normalized := make([]grid.Color, len(cells))
	for i, c := range cells {
		n, err := grid.ParseColor(string(c))
		if err != nil {
			return e.Current(), fmt.Errorf("cell %d: %w", i, err)
		}
		normalized[i] = n
	}

	loaded, err := grid.FromCells(size, normalized)
	if err != nil {
		return e.Current(), err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked(loaded, labelLoad)
	return loaded, nil
}

// ============================================================================
// Internal
// ============================================================================

func (e *Engine) currentLocked() *grid.Grid {
	if preview := e.session.Preview(); preview != nil {
		return preview
	}
	return e.log.Current()
}

// resolveLocked returns the effective colour for tool.
func (e *Engine) resolveLocked(tool session.Tool, c grid.Color) (grid.Color, error) {
	switch tool {
	case session.ToolErase:
		return e.background, nil
	case session.ToolDraw, session.ToolFill:
		return grid.ParseColor(string(c))
	default:
		return "", fmt.Errorf("unknown tool %d", tool)
	}
}

func (e *Engine) fillLocked(index int, color grid.Color) (*grid.Grid, error) {
	filled, err := grid.Fill(e.log.Current(), index, color)
	if err != nil {
		return e.currentLocked(), err
	}
	e.commitLocked(filled, labelFill)
	return e.currentLocked(), nil
}

func (e *Engine) endGestureLocked(label string) {
	result, changed := e.session.End()
	if !changed {
		return
	}
	e.commitLocked(result, label)
}

// commitLocked appends next to history unless it equals the committed state.
func (e *Engine) commitLocked(next *grid.Grid, label string) {
	if next.Equal(e.log.Current()) {
		return
	}
	e.log.Commit(next, label)
	e.logger.Debug("commit", "label", label, "cursor", e.log.Cursor(), "entries", e.log.Len())
}

func (e *Engine) resetLocked(g *grid.Grid, label string) {
	e.session.Cancel()
	e.log.ResetTo(g, label)
	e.logger.Debug("history reset", "label", label, "size", g.Size())
}
