package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/dshills/pixelplay/internal/engine"
	"github.com/dshills/pixelplay/internal/export"
	"github.com/dshills/pixelplay/internal/generate"
	"github.com/dshills/pixelplay/internal/project"
)

func (a *App) setTool(t engine.Tool) {
	a.engine.SetTool(t)
	a.setStatus("tool: " + t.String())
}

func (a *App) selectPalette(i int) {
	palette := a.Palette()
	if i < 0 || i >= len(palette) {
		return
	}
	if err := a.engine.SetColor(palette[i]); err != nil {
		a.fail("select colour", err)
		return
	}
	if a.engine.Tool() == engine.ToolErase {
		a.engine.SetTool(engine.ToolDraw)
	}
	a.setStatus("colour: " + palette[i].String())
}

func (a *App) undo() {
	if !a.engine.CanUndo() {
		a.setStatus("nothing to undo")
		return
	}
	a.engine.Undo()
	a.setStatus("undo")
}

func (a *App) redo() {
	if !a.engine.CanRedo() {
		a.setStatus("nothing to redo")
		return
	}
	a.engine.Redo()
	a.setStatus("redo")
}

// stepSize moves to the next larger (dir > 0) or smaller configured size.
func (a *App) stepSize(dir int) {
	a.mu.Lock()
	sizes := a.sizes
	a.mu.Unlock()

	cur := a.engine.Size()
	next := 0
	if dir > 0 {
		for _, s := range sizes {
			if s > cur {
				next = s
				break
			}
		}
	} else {
		for i := len(sizes) - 1; i >= 0; i-- {
			if sizes[i] < cur {
				next = sizes[i]
				break
			}
		}
	}
	if next == 0 {
		a.setStatus(fmt.Sprintf("no other size (%dx%d)", cur, cur))
		return
	}
	if _, err := a.engine.Resize(next); err != nil {
		a.fail("resize", err)
		return
	}
	a.setStatus(fmt.Sprintf("resized to %dx%d", next, next))
}

func (a *App) randomize() {
	g, err := generate.Random(a.engine.Size(), a.Palette(), a.rng)
	if err != nil {
		a.fail("random", err)
		return
	}
	if _, err := a.engine.LoadState(g.Size(), g.Cells()); err != nil {
		a.fail("random", err)
		return
	}
	a.setStatus("random canvas")
}

func (a *App) save() {
	if a.store == nil {
		a.setStatus("no project store configured")
		return
	}
	g := a.engine.Committed()
	now := a.now()

	p := a.Project()
	if p == nil {
		p = project.New(a.name, a.owner, g, now)
	} else {
		p = p.Clone()
		p.Update(g, now)
	}
	if err := a.store.Save(a.ctx, p); err != nil {
		a.fail("save", err)
		return
	}
	a.setProject(p)
	a.setStatus("saved " + p.Name)
	a.logger.Info("project saved", "id", p.ID, "name", p.Name, "size", p.Size)
}

func (a *App) export() {
	path := filepath.Join(a.exportDir, fileName(a.name)+".png")
	if err := export.WriteFile(path, a.engine.Committed(), a.cellSize); err != nil {
		a.fail("export", err)
		return
	}
	a.setStatus("exported " + path)
	a.logger.Info("exported png", "path", path)
}

// fileName turns a project name into a safe file name.
func fileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			return r
		case unicode.IsSpace(r):
			return '-'
		default:
			return -1
		}
	}, strings.TrimSpace(name))
	if name == "" {
		return DefaultProjectName
	}
	return name
}
