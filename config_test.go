package wires

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		path := writeFile(t, "wires.yaml", "max_depth: 20\nlog_level: debug\n")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, Config{MaxDepth: 20, LogLevel: "debug"}, cfg)
	})

	t.Run("toml", func(t *testing.T) {
		path := writeFile(t, "wires.toml", "max_depth = 7\n")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.MaxDepth)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("defaults", func(t *testing.T) {
		path := writeFile(t, "wires.yml", "")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Contains(t, err.Error(), "config load failed")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, "wires.json", "{}")

		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "config parse failed")
	})

	t.Run("malformed", func(t *testing.T) {
		path := writeFile(t, "wires.toml", "max_depth = [\n")

		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "config parse failed")
	})

	t.Run("invalid values", func(t *testing.T) {
		path := writeFile(t, "wires.yaml", "max_depth: -3\n")

		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "max_depth must be positive")
	})
}

func TestDecodeConfig(t *testing.T) {
	cfg, err := DecodeConfig(map[string]any{
		"max_depth": "12",
		"log_level": "warn",
	})
	require.NoError(t, err)
	assert.Equal(t, Config{MaxDepth: 12, LogLevel: "warn"}, cfg)

	_, err = DecodeConfig(map[string]any{"log_level": "loud"})
	assert.Error(t, err)
}
