package app

import (
	"context"
	"errors"

	"github.com/dshills/pixelplay/internal/config"
	"github.com/dshills/pixelplay/internal/engine"
	"github.com/dshills/pixelplay/internal/generate"
	"github.com/dshills/pixelplay/internal/logging"
	"github.com/dshills/pixelplay/internal/project"
	"github.com/dshills/pixelplay/internal/project/docstore"
	"github.com/dshills/pixelplay/internal/project/sqlstore"
)

// bootstrapper handles component initialization with cleanup on failure.
type bootstrapper struct {
	app *Application
}

func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{app: app}
}

// bootstrap initializes all components in dependency order.
// On failure, it releases what was already opened.
func (b *bootstrapper) bootstrap(ctx context.Context) error {
	steps := []func(context.Context) error{
		b.initConfig,
		b.initLogging,
		b.initStore,
		b.initEngine,
		b.initCanvas,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			b.app.Shutdown()
			return err
		}
	}
	return nil
}

func (b *bootstrapper) initConfig(context.Context) error {
	path := b.app.opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if b.app.opts.Owner != "" {
		cfg.Owner = b.app.opts.Owner
	}
	if b.app.opts.LogLevel != "" {
		cfg.Log.Level = b.app.opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	b.app.configPath = path
	b.app.config = cfg
	return nil
}

func (b *bootstrapper) initLogging(context.Context) error {
	cfg := b.app.config.Log
	logger, closer, err := logging.New(logging.Config{
		Level:     cfg.Level,
		Format:    cfg.Format,
		FilePath:  config.ExpandPath(cfg.Path),
		Component: "pixelplay",
	})
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	b.app.logger = logger
	b.app.logCloser = closer
	logger.Debug("configuration loaded", "path", b.app.configPath, "owner", b.app.config.Owner)
	return nil
}

func (b *bootstrapper) initStore(context.Context) error {
	cfg := b.app.config.Store
	path := config.ExpandPath(cfg.Path)
	logger := b.app.logger.With("component", "store")

	var (
		store project.Store
		err   error
	)
	switch cfg.Driver {
	case config.DriverJSON:
		store, err = docstore.Open(path, docstore.WithLogger(logger))
	default:
		store, err = sqlstore.Open(path, sqlstore.WithLogger(logger))
	}
	if err != nil {
		return &InitError{Component: "store", Err: err}
	}
	b.app.store = store
	return nil
}

func (b *bootstrapper) initEngine(context.Context) error {
	cfg := b.app.config
	eng, err := engine.New(
		engine.WithSize(cfg.Canvas.Size),
		engine.WithBackground(engine.Color(cfg.Canvas.Background)),
		engine.WithColor(engine.Color(cfg.Canvas.Color)),
		engine.WithMaxHistory(cfg.History.MaxEntries),
		engine.WithLogger(b.app.logger.With("component", "engine")),
	)
	if err != nil {
		return &InitError{Component: "engine", Err: err}
	}
	b.app.engine = eng
	return nil
}

// initCanvas loads the named project and then runs the generator script,
// if either was requested.
func (b *bootstrapper) initCanvas(ctx context.Context) error {
	app := b.app

	if name := app.opts.Project; name != "" {
		p, err := app.store.FindByName(ctx, app.config.Owner, name)
		switch {
		case errors.Is(err, project.ErrNotFound):
			app.logger.Info("new project", "name", name)
		case err != nil:
			return &InitError{Component: "project", Err: err}
		default:
			if _, err := app.engine.LoadState(p.Size, p.Cells); err != nil {
				return &InitError{Component: "project", Err: err}
			}
			app.project = p
			app.logger.Info("project loaded", "name", p.Name, "id", p.ID, "size", p.Size)
		}
	}

	if path := app.opts.Script; path != "" {
		script, err := generate.LoadScriptFile(path,
			generate.WithPalette(app.config.PaletteColors()),
			generate.WithBackground(app.engine.Background()),
		)
		if err != nil {
			return &InitError{Component: "script", Err: err}
		}
		defer script.Close()

		g, err := script.Generate(ctx, app.engine.Size())
		if err != nil {
			return &InitError{Component: "script", Err: err}
		}
		if _, err := app.engine.LoadState(g.Size(), g.Cells()); err != nil {
			return &InitError{Component: "script", Err: err}
		}
		app.logger.Info("canvas generated", "script", path, "size", g.Size())
	}
	return nil
}

