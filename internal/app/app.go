// Package app wires configuration, logging, the project store and the pixel
// engine together and runs the terminal editor or a one-shot command.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/pixelplay/internal/config"
	"github.com/dshills/pixelplay/internal/engine"
	"github.com/dshills/pixelplay/internal/export"
	"github.com/dshills/pixelplay/internal/project"
	"github.com/dshills/pixelplay/internal/tui"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty means config.DefaultPath.
	ConfigPath string

	// Owner overrides the configured project owner.
	Owner string

	// Project names the project to open. A missing project is created on
	// first save.
	Project string

	// Script is a Lua generator run to produce the initial canvas.
	Script string

	// LogLevel overrides the configured log level.
	LogLevel string
}

// Application holds the initialized components.
type Application struct {
	mu sync.Mutex

	opts       Options
	configPath string
	config     *config.Config
	logger     *slog.Logger
	logCloser  io.Closer
	store      project.Store
	engine     *engine.Engine
	project    *project.Project
	closed     bool
}

// New creates and bootstraps an Application.
func New(ctx context.Context, opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := newBootstrapper(app).bootstrap(ctx); err != nil {
		return nil, err
	}
	return app, nil
}

// Config returns the loaded configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Engine returns the pixel engine.
func (app *Application) Engine() *engine.Engine {
	return app.engine
}

// Project returns the project opened at startup, or nil.
func (app *Application) Project() *project.Project {
	return app.project
}

// Logger returns the application logger.
func (app *Application) Logger() *slog.Logger {
	return app.logger
}

// Run starts the editor on screen and blocks until it exits. The config
// file is watched while the editor runs.
func (app *Application) Run(ctx context.Context, screen tcell.Screen) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	name := app.opts.Project
	if name == "" {
		name = tui.DefaultProjectName
	}
	ui := tui.New(screen, app.engine,
		tui.WithStore(app.store),
		tui.WithLogger(app.logger.With("component", "tui")),
		tui.WithPalette(app.config.PaletteColors()),
		tui.WithSizes(app.config.Canvas.Sizes),
		tui.WithOwner(app.config.Owner),
		tui.WithProjectName(name),
		tui.WithProject(app.project),
		tui.WithExport(config.ExpandPath(app.config.Export.Dir), app.config.Export.CellSize),
	)

	var wg sync.WaitGroup
	if _, err := os.Stat(app.configPath); err == nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := config.Watch(ctx, app.configPath, func(cfg *config.Config) {
				ui.Reconfigure(cfg.PaletteColors(), cfg.Canvas.Sizes)
			})
			if err != nil {
				app.logger.Warn("config watch failed", "path", app.configPath, "error", err)
			}
		}()
	}

	err := ui.Run(ctx)
	cancel()
	wg.Wait()
	return err
}

// ListProjects writes the owner's projects to w, newest first.
func (app *Application) ListProjects(ctx context.Context, w io.Writer) error {
	if app.store == nil {
		return ErrNoStore
	}
	projects, err := app.store.List(ctx, app.config.Owner)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}
	if len(projects) == 0 {
		fmt.Fprintf(w, "No projects for %s\n", app.config.Owner)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tUPDATED\tID")
	for _, p := range projects {
		fmt.Fprintf(tw, "%s\t%dx%d\t%s\t%s\n",
			p.Name, p.Size, p.Size, p.Updated().Format(time.DateTime), p.ID)
	}
	return tw.Flush()
}

// Export writes the current canvas to path as a PNG.
func (app *Application) Export(path string) error {
	if err := export.WriteFile(path, app.engine.Committed(), app.config.Export.CellSize); err != nil {
		return err
	}
	app.logger.Info("exported png", "path", path)
	return nil
}

// Shutdown releases the store and the log file. It is safe to call more
// than once.
func (app *Application) Shutdown() error {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.closed {
		return nil
	}
	app.closed = true

	var errs []error
	if app.store != nil {
		if err := app.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}
	if app.logCloser != nil {
		if err := app.logCloser.Close(); err != nil && !errors.Is(err, fs.ErrClosed) {
			errs = append(errs, fmt.Errorf("close log: %w", err))
		}
	}
	return errors.Join(errs...)
}
