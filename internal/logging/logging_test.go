package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewTextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Config{Level: "warn", Output: &buf, Component: "test"})
	require.NoError(t, err)
	defer closer.Close()

	logger.Info("hidden")
	logger.Warn("shown", "cells", 4)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "cells=4")
	assert.Contains(t, out, "component=test")
}

func TestNewJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Config{Level: "debug", Format: "json", Output: &buf})
	require.NoError(t, err)

	logger.Debug("commit", "label", "Fill")

	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record))
	assert.Equal(t, "commit", record["msg"])
	assert.Equal(t, "Fill", record["label"])
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pixelplay.log")
	logger, closer, err := New(Config{FilePath: path})
	require.NoError(t, err)

	logger.Info("saved project", "id", "abc")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "saved project"))
}

func TestNewInvalid(t *testing.T) {
	_, _, err := New(Config{Level: "nope"})
	assert.Error(t, err)

	_, _, err = New(Config{Format: "xml"})
	assert.Error(t, err)
}
