// Package history provides linear undo/redo over grid snapshots.
//
// The history is a Log of immutable grid snapshots with a cursor marking the
// current state:
//
//	log := history.NewLog(initial)
//
//	log.Commit(next, "Draw")  // append, cursor moves to the new entry
//	log.Undo()                // cursor back one entry
//	log.Redo()                // cursor forward again
//
// # Branch Truncation
//
// Committing while the cursor is not at the newest entry discards every entry
// after the cursor. The undone future is gone; there is no redo tree.
//
// # Resetting
//
// ResetTo replaces the whole log with a single entry. Loading a project,
// clearing the canvas and resizing all reset the log.
//
// # Bounded Logs
//
// A Log is unbounded by default. WithMaxEntries caps its length by evicting
// the oldest entries; the entry under the cursor is never evicted.
package history
