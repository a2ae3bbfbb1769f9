package history

import (
	"testing"
	"time"

	"github.com/dshills/pixelplay/internal/engine/grid"
)

// Helper to create a uniform test grid
func newTestGrid(t *testing.T, c grid.Color) *grid.Grid {
	t.Helper()
	g, err := grid.New(2, c)
	if err != nil {
		t.Fatalf("grid.New failed: %v", err)
	}
	return g
}

func TestNewLog(t *testing.T) {
	s0 := newTestGrid(t, grid.White)
	l := NewLog(s0)

	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
	if l.Cursor() != 0 {
		t.Errorf("Cursor() = %d, want 0", l.Cursor())
	}
	if l.Current() != s0 {
		t.Error("Current() should be the seed grid")
	}
	if l.CanUndo() || l.CanRedo() {
		t.Error("fresh log should have nothing to undo or redo")
	}
}

func TestCommit(t *testing.T) {
	l := NewLog(newTestGrid(t, grid.White))
	s1 := newTestGrid(t, grid.Black)

	l.Commit(s1, "Fill")

	if l.Len() != 2 || l.Cursor() != 1 {
		t.Errorf("Len()=%d Cursor()=%d, want 2 and 1", l.Len(), l.Cursor())
	}
	if l.Current() != s1 {
		t.Error("Current() should be the committed grid")
	}
	if !l.CanUndo() {
		t.Error("should be able to undo after commit")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s0 := newTestGrid(t, grid.White)
	s1 := newTestGrid(t, grid.Black)
	l := NewLog(s0)
	l.Commit(s1, "Draw")

	if !l.Undo() {
		t.Fatal("Undo() returned false")
	}
	if l.Current() != s0 {
		t.Error("undo should restore the previous state")
	}
	if !l.Redo() {
		t.Fatal("Redo() returned false")
	}
	if !l.Current().Equal(s1) {
		t.Error("redo should restore the committed state")
	}
}

func TestUndoAtStartIsNoop(t *testing.T) {
	s0 := newTestGrid(t, grid.White)
	l := NewLog(s0)

	if l.Undo() {
		t.Error("Undo() on a fresh log should return false")
	}
	if l.Cursor() != 0 || l.Current() != s0 {
		t.Error("cursor must stay pinned at 0")
	}
}

func TestRedoAtEndIsNoop(t *testing.T) {
	l := NewLog(newTestGrid(t, grid.White))
	l.Commit(newTestGrid(t, grid.Black), "Draw")

	if l.Redo() {
		t.Error("Redo() at the newest entry should return false")
	}
	if l.Cursor() != 1 {
		t.Errorf("Cursor() = %d, want 1", l.Cursor())
	}
}

func TestCommitAfterUndoTruncatesRedo(t *testing.T) {
	s0 := newTestGrid(t, grid.White)
	s1 := newTestGrid(t, grid.Black)
	s2 := newTestGrid(t, grid.Red)

	l := NewLog(s0)
	l.Commit(s1, "one")
	l.Undo()
	l.Commit(s2, "two")

	if l.CanRedo() {
		t.Error("redo branch should be discarded")
	}
	if l.Redo() {
		t.Error("Redo() should be a no-op")
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
	if l.Current() != s2 {
		t.Error("Current() should be s2")
	}
	l.Undo()
	if l.Current() != s0 {
		t.Error("undo from s2 should reach s0; s1 must be unreachable")
	}
}

func TestResetTo(t *testing.T) {
	l := NewLog(newTestGrid(t, grid.White))
	l.Commit(newTestGrid(t, grid.Black), "a")
	l.Commit(newTestGrid(t, grid.Red), "b")
	l.Undo()

	fresh := newTestGrid(t, grid.Blue)
	l.ResetTo(fresh, "Load")

	if l.Len() != 1 || l.Cursor() != 0 {
		t.Errorf("Len()=%d Cursor()=%d, want 1 and 0", l.Len(), l.Cursor())
	}
	if l.Current() != fresh {
		t.Error("Current() should be the reset grid")
	}
	if l.CanUndo() || l.CanRedo() {
		t.Error("reset log should have nothing to undo or redo")
	}
}

func TestMaxEntriesEvictsOldest(t *testing.T) {
	colors := []grid.Color{grid.White, grid.Black, grid.Red, grid.Green, grid.Blue}
	l := NewLog(newTestGrid(t, colors[0]), WithMaxEntries(3))

	for _, c := range colors[1:] {
		l.Commit(newTestGrid(t, c), string(c))
	}

	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}
	if l.Cursor() != 2 {
		t.Errorf("Cursor() = %d, want 2", l.Cursor())
	}
	if c, _ := l.Current().At(0); c != grid.Blue {
		t.Errorf("current colour = %s, want %s", c, grid.Blue)
	}
	if c, _ := l.At(0).At(0); c != grid.Red {
		t.Errorf("oldest kept colour = %s, want %s", c, grid.Red)
	}

	l.Undo()
	l.Undo()
	if l.Undo() {
		t.Error("evicted entries must not be reachable")
	}
}

func TestMaxEntriesOne(t *testing.T) {
	l := NewLog(newTestGrid(t, grid.White), WithMaxEntries(1))
	s1 := newTestGrid(t, grid.Black)
	l.Commit(s1, "Draw")

	if l.Len() != 1 || l.Current() != s1 {
		t.Error("a single-entry log must keep the newest state")
	}
}

func TestEntries(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	l := NewLog(newTestGrid(t, grid.White), WithClock(func() time.Time { return now }))
	l.Commit(newTestGrid(t, grid.Black), "Draw stroke")
	l.Commit(newTestGrid(t, grid.Red), "Fill")
	l.Undo()

	entries := l.Entries()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	wantLabels := []string{"Initial", "Draw stroke", "Fill"}
	for i, e := range entries {
		if e.Label != wantLabels[i] {
			t.Errorf("entry %d label = %q, want %q", i, e.Label, wantLabels[i])
		}
		if !e.Timestamp.Equal(now) {
			t.Errorf("entry %d timestamp = %v, want %v", i, e.Timestamp, now)
		}
		if e.Current != (i == 1) {
			t.Errorf("entry %d Current = %v", i, e.Current)
		}
	}

	if info, ok := l.PeekUndo(); !ok || info.Label != "Initial" {
		t.Errorf("PeekUndo() = %+v, %v", info, ok)
	}
	if info, ok := l.PeekRedo(); !ok || info.Label != "Fill" {
		t.Errorf("PeekRedo() = %+v, %v", info, ok)
	}
}

func TestAtOutOfRange(t *testing.T) {
	l := NewLog(newTestGrid(t, grid.White))
	if l.At(-1) != nil || l.At(1) != nil {
		t.Error("At() out of range should return nil")
	}
}
