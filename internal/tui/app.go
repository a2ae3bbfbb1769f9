package tui

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/pixelplay/internal/engine"
	"github.com/dshills/pixelplay/internal/engine/grid"
	"github.com/dshills/pixelplay/internal/project"
)

// DefaultProjectName names projects saved without a name.
const DefaultProjectName = "untitled"

// dragMode tracks what the held mouse button is doing.
type dragMode int

const (
	dragNone dragMode = iota
	dragPaint
	// dragHeld ignores motion until release: after a fill, or after the
	// pointer left the canvas mid-stroke.
	dragHeld
)

// App runs the editor on a tcell screen.
type App struct {
	screen tcell.Screen
	engine *engine.Engine
	store  project.Store
	logger *slog.Logger

	// mu guards the fields shared with Reconfigure and the accessors.
	mu      sync.Mutex
	palette []grid.Color
	sizes   []int
	project *project.Project
	status  string

	owner     string
	name      string
	exportDir string
	cellSize  int

	ctx  context.Context
	now  func() time.Time
	rng  *rand.Rand
	drag dragMode
}

// Option configures an App.
type Option func(*App)

// WithStore enables saving projects.
func WithStore(s project.Store) Option {
	return func(a *App) { a.store = s }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithPalette sets the quick-select colours.
func WithPalette(p []grid.Color) Option {
	return func(a *App) { a.palette = slices.Clone(p) }
}

// WithSizes sets the canvas sizes cycled by + and -.
func WithSizes(sizes []int) Option {
	return func(a *App) { a.sizes = normalizeSizes(sizes) }
}

// WithOwner sets the owner of saved projects.
func WithOwner(owner string) Option {
	return func(a *App) { a.owner = owner }
}

// WithProjectName sets the name used when saving a new project.
func WithProjectName(name string) Option {
	return func(a *App) {
		if name != "" {
			a.name = name
		}
	}
}

// WithProject continues editing p; saves update it in place.
func WithProject(p *project.Project) Option {
	return func(a *App) {
		a.project = p
		if p != nil {
			a.name = p.Name
		}
	}
}

// WithExport sets where x writes PNGs and the pixels per cell.
func WithExport(dir string, cellSize int) Option {
	return func(a *App) {
		a.exportDir = dir
		if cellSize > 0 {
			a.cellSize = cellSize
		}
	}
}

// WithClock sets the time source for project timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithRand sets the source for random canvases.
func WithRand(r *rand.Rand) Option {
	return func(a *App) { a.rng = r }
}

// New creates an App drawing eng on screen.
func New(screen tcell.Screen, eng *engine.Engine, opts ...Option) *App {
	a := &App{
		screen:    screen,
		engine:    eng,
		logger:    slog.New(slog.DiscardHandler),
		palette:   []grid.Color{grid.Black, grid.White},
		sizes:     []int{eng.Size()},
		owner:     "anonymous",
		name:      DefaultProjectName,
		exportDir: ".",
		cellSize:  10,
		ctx:       context.Background(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Reconfigure replaces the palette and size list, typically after a config
// reload, and asks the event loop to redraw.
func (a *App) Reconfigure(palette []grid.Color, sizes []int) {
	a.mu.Lock()
	if len(palette) > 0 {
		a.palette = slices.Clone(palette)
	}
	if len(sizes) > 0 {
		a.sizes = normalizeSizes(sizes)
	}
	a.mu.Unlock()

	a.logger.Info("configuration reloaded", "palette", len(palette), "sizes", sizes)
	a.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Palette returns the current quick-select colours.
func (a *App) Palette() []grid.Color {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.palette)
}

// Status returns the last status message.
func (a *App) Status() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *App) setStatus(s string) {
	a.mu.Lock()
	a.status = s
	a.mu.Unlock()
}

// Project returns the project being edited, or nil before the first save.
func (a *App) Project() *project.Project {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.project
}

func (a *App) setProject(p *project.Project) {
	a.mu.Lock()
	a.project = p
	a.mu.Unlock()
}

// Run initializes the screen and processes events until the user quits or
// ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer a.screen.Fini()
	a.screen.EnableMouse()
	a.ctx = ctx

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			a.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	a.logger.Info("editor started", "size", a.engine.Size(), "owner", a.owner)
	for {
		a.Draw()
		ev := a.screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return nil
		}
		if a.HandleEvent(ev) {
			a.logger.Info("editor stopped")
			return nil
		}
	}
}

// HandleEvent applies one event and reports whether the app should quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return false
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	pressed := buttons&(tcell.Button1|tcell.Button2) != 0
	index, onCanvas := a.cellAt(x, y)

	if !pressed {
		if a.drag == dragPaint {
			a.engine.EndGesture()
		}
		a.drag = dragNone
		return
	}

	if !onCanvas {
		switch a.drag {
		case dragPaint:
			a.engine.EndGesture()
			a.drag = dragHeld
		case dragNone:
			if i, ok := a.swatchAt(x, y); ok {
				a.selectPalette(i)
			}
			a.drag = dragHeld
		}
		return
	}

	tool := a.engine.Tool()
	if buttons&tcell.Button2 != 0 {
		tool = engine.ToolErase
	}
	color := a.engine.Color()

	switch a.drag {
	case dragNone:
		if tool == engine.ToolFill {
			if _, err := a.engine.FillAt(index, color); err != nil {
				a.fail("fill", err)
			}
			a.drag = dragHeld
			return
		}
		a.engine.BeginGesture()
		a.drag = dragPaint
		a.edit(index, tool, color)
	case dragPaint:
		a.edit(index, tool, color)
	}
}

func (a *App) edit(index int, tool engine.Tool, color grid.Color) {
	if _, err := a.engine.EditCell(index, tool, color); err != nil {
		a.fail("edit", err)
	}
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch {
	case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
		return true
	case isCtrl(ev, tcell.KeyCtrlZ, 'z'):
		a.undo()
		return false
	case isCtrl(ev, tcell.KeyCtrlY, 'y'):
		a.redo()
		return false
	case ev.Key() != tcell.KeyRune:
		return false
	}

	switch r := ev.Rune(); r {
	case 'q':
		return true
	case 'd':
		a.setTool(engine.ToolDraw)
	case 'e':
		a.setTool(engine.ToolErase)
	case 'f':
		a.setTool(engine.ToolFill)
	case 'u':
		a.undo()
	case 'r':
		a.redo()
	case 'c':
		a.engine.Clear()
		a.setStatus("cleared")
	case '+', '=':
		a.stepSize(1)
	case '-', '_':
		a.stepSize(-1)
	case 'g':
		a.randomize()
	case 's':
		a.save()
	case 'x':
		a.export()
	default:
		if r >= '1' && r <= '9' {
			a.selectPalette(int(r - '1'))
		}
	}
	return false
}

func isCtrl(ev *tcell.EventKey, key tcell.Key, r rune) bool {
	if ev.Key() == key {
		return true
	}
	return ev.Key() == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl != 0 && ev.Rune() == r
}

func (a *App) fail(op string, err error) {
	a.setStatus(fmt.Sprintf("%s failed: %v", op, err))
	a.logger.Warn(op+" failed", "error", err)
}

func normalizeSizes(sizes []int) []int {
	out := make([]int, 0, len(sizes))
	for _, s := range sizes {
		if s > 0 {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
