package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

// =============================================================================
// Defaults
// =============================================================================

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 16, cfg.Canvas.Size)
	assert.Equal(t, []int{16, 32}, cfg.Canvas.Sizes)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, 10, cfg.Export.CellSize)
	assert.Len(t, cfg.Palette, 8)
	assert.Len(t, cfg.PaletteColors(), 8)
}

func TestDefaultPaletteNotShared(t *testing.T) {
	cfg := Default()
	cfg.Palette[0] = "#123456"
	assert.Equal(t, "#FF0000", DefaultPalette[0])
}

// =============================================================================
// File loading
// =============================================================================

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.LoadFile(filepath.Join(t.TempDir(), "nope.toml")))
	assert.Equal(t, Default().Canvas, cfg.Canvas)
}

func TestDecodeTOML(t *testing.T) {
	data := []byte(`
owner = "ada"
palette = ["#000", "#fff"]

[canvas]
size = 32

[store]
driver = "json"
path = "/tmp/projects.json"

[history]
max_entries = 50
`)
	cfg := Default()
	require.NoError(t, cfg.Decode("config.toml", data))

	assert.Equal(t, "ada", cfg.Owner)
	assert.Equal(t, 32, cfg.Canvas.Size)
	assert.Equal(t, "#FFFFFF", cfg.Canvas.Background, "unset fields keep defaults")
	assert.Equal(t, DriverJSON, cfg.Store.Driver)
	assert.Equal(t, 50, cfg.History.MaxEntries)
	assert.Equal(t, []string{"#000", "#fff"}, cfg.Palette)
	require.NoError(t, cfg.Validate())
}

func TestDecodeYAML(t *testing.T) {
	data := []byte(`
owner: grace
canvas:
  size: 8
  color: "#FF0000"
export:
  cell_size: 4
`)
	cfg := Default()
	require.NoError(t, cfg.Decode("config.yaml", data))

	assert.Equal(t, "grace", cfg.Owner)
	assert.Equal(t, 8, cfg.Canvas.Size)
	assert.Equal(t, "#FF0000", cfg.Canvas.Color)
	assert.Equal(t, 4, cfg.Export.CellSize)
}

func TestDecodeEmptyYAML(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Decode("config.yml", nil))
	assert.Equal(t, 16, cfg.Canvas.Size)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{"bad toml", "c.toml", "[canvas\nsize = 1"},
		{"unknown toml key", "c.toml", "colour = 1"},
		{"bad yaml", "c.yaml", "canvas: [1, 2"},
		{"unknown yaml key", "c.yaml", "colour: 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Default().Decode(tt.file, []byte(tt.data))
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.file, perr.Path)
		})
	}
}

func TestDecodeUnsupportedFormat(t *testing.T) {
	err := Default().Decode("config.ini", []byte("x=1"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := Default()
	cfg.Owner = "linus"
	cfg.Canvas.Size = 24
	require.NoError(t, cfg.Save(path))

	loaded := Default()
	require.NoError(t, loaded.LoadFile(path))
	assert.Equal(t, cfg, loaded)
}

// =============================================================================
// Environment and validation
// =============================================================================

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"PIXELPLAY_OWNER":        "env-owner",
		"PIXELPLAY_SIZE":         " 12 ",
		"PIXELPLAY_STORE_DRIVER": "json",
		"PIXELPLAY_STORE_PATH":   "/tmp/x.json",
		"PIXELPLAY_LOG_LEVEL":    "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, "env-owner", cfg.Owner)
	assert.Equal(t, 12, cfg.Canvas.Size)
	assert.Equal(t, DriverJSON, cfg.Store.Driver)
	assert.Equal(t, "/tmp/x.json", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestApplyEnvBadSize(t *testing.T) {
	err := Default().ApplyEnv(envMap(map[string]string{"PIXELPLAY_SIZE": "big"}))
	assert.Error(t, err)
}

func TestApplyEnvNothingSet(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(noEnv))
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty owner", func(c *Config) { c.Owner = " " }, "owner"},
		{"zero size", func(c *Config) { c.Canvas.Size = 0 }, "canvas.size"},
		{"bad sizes", func(c *Config) { c.Canvas.Sizes = []int{8, -1} }, "canvas.sizes"},
		{"oversize", func(c *Config) { c.Canvas.Size = 1 << 20 }, "canvas.size"},
		{"bad background", func(c *Config) { c.Canvas.Background = "white" }, "canvas.background"},
		{"bad color", func(c *Config) { c.Canvas.Color = "#12" }, "canvas.color"},
		{"negative history", func(c *Config) { c.History.MaxEntries = -1 }, "history.max_entries"},
		{"bad driver", func(c *Config) { c.Store.Driver = "redis" }, "store.driver"},
		{"empty store path", func(c *Config) { c.Store.Path = "" }, "store.path"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad cell size", func(c *Config) { c.Export.CellSize = 0 }, "export.cell_size"},
		{"empty palette", func(c *Config) { c.Palette = nil }, "palette"},
		{"bad palette entry", func(c *Config) { c.Palette = []string{"#000", "nope"} }, "palette[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrValidationFailed)

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestLoadAppliesEnvAndValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[canvas]\nsize = 20\n"), 0o644))
	t.Setenv("PIXELPLAY_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Canvas.Size)
	assert.Equal(t, "warn", cfg.Log.Level)

	t.Setenv("PIXELPLAY_STORE_DRIVER", "mongo")
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x.db"), ExpandPath("~/x.db"))
	assert.Equal(t, "/abs/x.db", ExpandPath("/abs/x.db"))
}

// =============================================================================
// Watcher
// =============================================================================

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[canvas]\nsize = 16\n"), 0o644))

	w, err := NewWatcher(path, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got *Config
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx, func(cfg *Config, err error) {
			if err != nil {
				return
			}
			mu.Lock()
			got = cfg
			mu.Unlock()
		})
	}()

	require.NoError(t, os.WriteFile(path, []byte("[canvas]\nsize = 48\n"), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return got != nil && got.Canvas.Size == 48
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	w, err := NewWatcher(path, WithDebounce(0))
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, path, w.Path())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	calls := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0o644)
	}()
	w.Run(ctx, func(*Config, error) { calls++ })
	assert.Zero(t, calls)
}
