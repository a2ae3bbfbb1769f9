package engine

import (
	"log/slog"

	"github.com/dshills/pixelplay/internal/engine/grid"
	"github.com/dshills/pixelplay/internal/engine/session"
)

// Default configuration values.
const (
	DefaultSize       = 16
	DefaultBackground = grid.White
	DefaultColor      = grid.Black
	DefaultMaxHistory = 0 // unbounded
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithSize sets the initial canvas size.
func WithSize(size int) Option {
	return func(e *Engine) {
		e.size = size
	}
}

// WithBackground sets the background colour used for blank canvases and
// by the erase tool.
func WithBackground(c grid.Color) Option {
	return func(e *Engine) {
		e.background = c
	}
}

// WithColor sets the initial drawing colour.
func WithColor(c grid.Color) Option {
	return func(e *Engine) {
		e.color = c
	}
}

// WithTool sets the initially selected tool.
func WithTool(t session.Tool) Option {
	return func(e *Engine) {
		e.tool = t
	}
}

// WithMaxHistory bounds the number of history entries kept.
// Zero means unbounded.
func WithMaxHistory(max int) Option {
	return func(e *Engine) {
		if max >= 0 {
			e.maxHistory = max
		}
	}
}

// WithLogger sets the logger used for engine diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
