package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/dshills/pixelplay/internal/engine/grid"
	"github.com/dshills/pixelplay/internal/logging"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverJSON   = "json"
)

// Config is the complete Pixelplay configuration.
type Config struct {
	// Owner is the default project owner.
	Owner string `toml:"owner" yaml:"owner"`

	Canvas  CanvasConfig  `toml:"canvas" yaml:"canvas"`
	History HistoryConfig `toml:"history" yaml:"history"`
	Store   StoreConfig   `toml:"store" yaml:"store"`
	Log     LogConfig     `toml:"log" yaml:"log"`
	Export  ExportConfig  `toml:"export" yaml:"export"`

	// Palette lists the quick-select colours.
	Palette []string `toml:"palette" yaml:"palette"`
}

// CanvasConfig configures new canvases.
type CanvasConfig struct {
	Size       int    `toml:"size" yaml:"size"`
	Sizes      []int  `toml:"sizes" yaml:"sizes"`
	Background string `toml:"background" yaml:"background"`
	Color      string `toml:"color" yaml:"color"`
}

// HistoryConfig configures undo history.
type HistoryConfig struct {
	// MaxEntries bounds the history length; 0 means unbounded.
	MaxEntries int `toml:"max_entries" yaml:"max_entries"`
}

// StoreConfig selects the project store.
type StoreConfig struct {
	Driver string `toml:"driver" yaml:"driver"`
	Path   string `toml:"path" yaml:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	Path   string `toml:"path" yaml:"path"`
}

// ExportConfig configures image export.
type ExportConfig struct {
	CellSize int    `toml:"cell_size" yaml:"cell_size"`
	Dir      string `toml:"dir" yaml:"dir"`
}

// DefaultPalette is the eight-colour palette used for quick selection and
// random canvases.
var DefaultPalette = []string{
	"#FF0000", "#00FF00", "#0000FF", "#FFFF00",
	"#00FFFF", "#FF00FF", "#FFFFFF", "#000000",
}

// Default returns the built-in configuration.
func Default() *Config {
	dataDir := DataDir()
	return &Config{
		Owner: defaultOwner(),
		Canvas: CanvasConfig{
			Size:       16,
			Sizes:      []int{16, 32},
			Background: "#FFFFFF",
			Color:      "#000000",
		},
		Store: StoreConfig{
			Driver: DriverSQLite,
			Path:   filepath.Join(dataDir, "projects.db"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatText,
			Path:   filepath.Join(dataDir, "pixelplay.log"),
		},
		Export: ExportConfig{
			CellSize: 10,
			Dir:      ".",
		},
		Palette: slices.Clone(DefaultPalette),
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "pixelplay", "config.toml")
}

// DataDir returns the directory for projects and logs.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "pixelplay")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "pixelplay")
}

func defaultOwner() string {
	for _, env := range []string{"USER", "USERNAME"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return "anonymous"
}

// ApplyEnv overrides fields from PIXELPLAY_* variables found via lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("PIXELPLAY_OWNER"); ok {
		c.Owner = v
	}
	if v, ok := lookup("PIXELPLAY_SIZE"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("PIXELPLAY_SIZE: %w", err)
		}
		c.Canvas.Size = n
	}
	if v, ok := lookup("PIXELPLAY_STORE_DRIVER"); ok {
		c.Store.Driver = v
	}
	if v, ok := lookup("PIXELPLAY_STORE_PATH"); ok {
		c.Store.Path = v
	}
	if v, ok := lookup("PIXELPLAY_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	return nil
}

// Validate checks every field and returns ValidationErrors on failure.
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(c.Owner) == "" {
		add("owner", "must not be empty")
	}
	if c.Canvas.Size < 1 || c.Canvas.Size > grid.MaxSize {
		add("canvas.size", "must be in [1, %d], got %d", grid.MaxSize, c.Canvas.Size)
	}
	for _, s := range c.Canvas.Sizes {
		if s < 1 || s > grid.MaxSize {
			add("canvas.sizes", "must be in [1, %d], got %d", grid.MaxSize, s)
		}
	}
	if _, err := grid.ParseColor(c.Canvas.Background); err != nil {
		add("canvas.background", "%v", err)
	}
	if _, err := grid.ParseColor(c.Canvas.Color); err != nil {
		add("canvas.color", "%v", err)
	}
	if c.History.MaxEntries < 0 {
		add("history.max_entries", "must not be negative")
	}
	switch c.Store.Driver {
	case DriverSQLite, DriverJSON:
	default:
		add("store.driver", "must be %q or %q, got %q", DriverSQLite, DriverJSON, c.Store.Driver)
	}
	if c.Store.Path == "" {
		add("store.path", "must not be empty")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("log.level", "%v", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case logging.FormatText, logging.FormatJSON, "":
	default:
		add("log.format", "must be text or json, got %q", c.Log.Format)
	}
	if c.Export.CellSize < 1 {
		add("export.cell_size", "must be at least 1, got %d", c.Export.CellSize)
	}
	if len(c.Palette) == 0 {
		add("palette", "must contain at least one colour")
	}
	for i, p := range c.Palette {
		if _, err := grid.ParseColor(p); err != nil {
			add(fmt.Sprintf("palette[%d]", i), "%v", err)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PaletteColors returns the palette as normalized colours.
// Call Validate first; invalid entries are skipped.
func (c *Config) PaletteColors() []grid.Color {
	out := make([]grid.Color, 0, len(c.Palette))
	for _, p := range c.Palette {
		if col, err := grid.ParseColor(p); err == nil {
			out = append(out, col)
		}
	}
	return out
}

// ExpandPath resolves a leading "~/" against the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
