// Package logging provides structured logging with slog for Pixelplay.
//
// The terminal front-end owns the screen, so logs normally go to a file:
//
//	logger, closer, err := logging.New(logging.Config{
//	    Level:    "debug",
//	    Format:   "json",
//	    FilePath: "/tmp/pixelplay.log",
//	})
//	defer closer.Close()
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Format names.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the logging configuration.
type Config struct {
	// Level is the minimum level: debug, info, warn or error.
	Level string

	// Format is the output format: text or json.
	Format string

	// FilePath is the log file. Empty means Output is used instead.
	FilePath string

	// Output is the writer used when FilePath is empty.
	// Defaults to io.Discard.
	Output io.Writer

	// Component is attached to every record when set.
	Component string
}

// ParseLevel parses a level name.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", s)
	}
}

// New creates a logger from cfg. The returned closer releases the log file,
// if one was opened, and is never nil.
func New(cfg Config) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = io.Discard
	var closer io.Closer = nopCloser{}
	switch {
	case cfg.FilePath != "":
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	case cfg.Output != nil:
		w = cfg.Output
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	case FormatText, "":
		handler = slog.NewTextHandler(w, opts)
	default:
		closer.Close()
		return nil, nil, fmt.Errorf("invalid log format %q (must be text or json)", cfg.Format)
	}

	if cfg.Component != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("component", cfg.Component)})
	}

	return slog.New(handler), closer, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
