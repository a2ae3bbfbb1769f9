// Package engine provides the pixel editing engine for Pixelplay.
//
// The engine package serves as the main facade, combining the canvas grid,
// gesture tracking, tool selection and undo/redo history into a single API
// suitable for driving from any front-end.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - grid: immutable size×size colour raster and flood fill
//   - history: linear snapshot log with undo/redo cursor
//   - session: drag gesture state machine and tool selector
//
// # Basic Usage
//
//	e, _ := engine.New(engine.WithSize(16))
//
//	// Discrete click: one history entry
//	e.EditCell(0, engine.ToolDraw, grid.Black)
//
//	// Drag stroke: many edits, one history entry
//	e.BeginGesture()
//	e.EditCell(1, engine.ToolDraw, grid.Black)
//	e.EditCell(2, engine.ToolDraw, grid.Black)
//	e.EndGesture()
//
//	// Flood fill: always atomic
//	e.FillAt(5, grid.Red)
//
//	e.Undo()
//	e.Redo()
//
// Every editing call returns the grid to render next. While a gesture is in
// progress that is the uncommitted working copy.
//
// # History Resets
//
// Resize, Clear and LoadState replace the canvas and reset history to a
// single entry; earlier states are dropped rather than kept as undo targets.
//
// # Error Handling
//
// Failed operations leave the engine unchanged and return one of:
//
//   - ErrInvalidSize: canvas size outside [1, grid.MaxSize]
//   - ErrIndexOutOfRange: cell index outside the canvas
//   - ErrShapeMismatch: loaded cells do not fill a size×size canvas
//   - ErrInvalidColor: malformed colour
package engine
