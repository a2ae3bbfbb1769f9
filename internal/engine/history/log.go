package history

import (
	"time"

	"github.com/dshills/pixelplay/internal/engine/grid"
)

// entry wraps a snapshot with metadata.
type entry struct {
	grid      *grid.Grid
	label     string
	timestamp time.Time
}

// EntryInfo provides read-only info about a history entry.
// Used for displaying the history to users.
type EntryInfo struct {
	Label     string    // Human-readable description of the edit
	Timestamp time.Time // When the entry was committed
	Current   bool      // Entry is under the cursor
}

// Option configures a Log.
type Option func(*Log)

// WithMaxEntries bounds the number of retained entries.
// Zero or negative means unbounded.
func WithMaxEntries(max int) Option {
	return func(l *Log) {
		if max > 0 {
			l.maxEntries = max
		}
	}
}

// WithClock sets the time source used to stamp entries.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

// Log is an ordered sequence of grid snapshots with a cursor.
// It always holds at least one entry, and entries[cursor] is the current state.
//
// A Log is not safe for concurrent use.
type Log struct {
	entries []entry
	cursor  int

	// Configuration
	maxEntries int
	now        func() time.Time
}

// NewLog creates a log seeded with initial as its only entry.
func NewLog(initial *grid.Grid, opts ...Option) *Log {
	l := &Log{now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	l.entries = []entry{{grid: initial, label: "Initial", timestamp: l.now()}}
	return l
}

// Commit appends g after the cursor and makes it current.
// Entries after the cursor (the redo branch) are discarded.
func (l *Log) Commit(g *grid.Grid, label string) {
	l.entries = append(l.entries[:l.cursor+1], entry{
		grid:      g,
		label:     label,
		timestamp: l.now(),
	})
	l.cursor = len(l.entries) - 1

	// Enforce max entries
	if l.maxEntries > 0 && len(l.entries) > l.maxEntries {
		excess := len(l.entries) - l.maxEntries
		if excess > l.cursor {
			excess = l.cursor
		}
		// Copy so evicted snapshots are not kept alive by the backing array.
		kept := make([]entry, len(l.entries)-excess)
		copy(kept, l.entries[excess:])
		l.entries = kept
		l.cursor -= excess
	}
}

// Undo moves the cursor back one entry.
// Returns false, leaving the log untouched, if already at the oldest entry.
func (l *Log) Undo() bool {
	if l.cursor == 0 {
		return false
	}
	l.cursor--
	return true
}

// Redo moves the cursor forward one entry.
// Returns false if there is nothing to redo.
func (l *Log) Redo() bool {
	if l.cursor >= len(l.entries)-1 {
		return false
	}
	l.cursor++
	return true
}

// Current returns the snapshot under the cursor.
func (l *Log) Current() *grid.Grid {
	return l.entries[l.cursor].grid
}

// ResetTo discards all history and seeds the log with g.
func (l *Log) ResetTo(g *grid.Grid, label string) {
	l.entries = []entry{{grid: g, label: label, timestamp: l.now()}}
	l.cursor = 0
}

// CanUndo returns true if undo is available.
func (l *Log) CanUndo() bool {
	return l.cursor > 0
}

// CanRedo returns true if redo is available.
func (l *Log) CanRedo() bool {
	return l.cursor < len(l.entries)-1
}

// Cursor returns the index of the current entry.
func (l *Log) Cursor() int {
	return l.cursor
}

// Len returns the number of entries in the log.
func (l *Log) Len() int {
	return len(l.entries)
}

// At returns the snapshot at position i, or nil if i is out of range.
func (l *Log) At(i int) *grid.Grid {
	if i < 0 || i >= len(l.entries) {
		return nil
	}
	return l.entries[i].grid
}

// MaxEntries returns the configured bound, or 0 if unbounded.
func (l *Log) MaxEntries() int {
	return l.maxEntries
}

// Entries returns info about every entry, oldest first.
func (l *Log) Entries() []EntryInfo {
	result := make([]EntryInfo, len(l.entries))
	for i, e := range l.entries {
		result[i] = EntryInfo{
			Label:     e.label,
			Timestamp: e.timestamp,
			Current:   i == l.cursor,
		}
	}
	return result
}

// PeekUndo returns info about the entry Undo would move to.
func (l *Log) PeekUndo() (EntryInfo, bool) {
	if !l.CanUndo() {
		return EntryInfo{}, false
	}
	e := l.entries[l.cursor-1]
	return EntryInfo{Label: e.label, Timestamp: e.timestamp}, true
}

// PeekRedo returns info about the entry Redo would move to.
func (l *Log) PeekRedo() (EntryInfo, bool) {
	if !l.CanRedo() {
		return EntryInfo{}, false
	}
	e := l.entries[l.cursor+1]
	return EntryInfo{Label: e.label, Timestamp: e.timestamp}, true
}
