package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
	assert.Equal(t, "/chat", cfg.Backend.ChatPath)
	assert.Zero(t, cfg.Backend.Timeout)
}

func TestLoadFromMissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Backend, cfg.Backend)

	_, err = os.Stat(path)
	assert.NoError(t, err, "default config should be written")
	assert.NoError(t, cfg.DefaultsWriteError())
}

func TestLoadFromUnwritableDirKeepsDefaults(t *testing.T) {
	// a regular file where the config directory should be
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	cfg, err := LoadFrom(filepath.Join(blocker, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Backend, cfg.Backend)

	werr := cfg.DefaultsWriteError()
	require.Error(t, werr)
	assert.Contains(t, werr.Error(), "failed to write default config")
}

func TestLoadFromPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
backend:
  base_url: https://luat.example.vn
  timeout: 45s
generation:
  defaults:
    top_k: 8
    semantic_weight: 0.3
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "https://luat.example.vn", cfg.Backend.BaseURL)
	assert.Equal(t, "/chat", cfg.Backend.ChatPath)
	assert.Equal(t, 45*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 8, cfg.Generation.Defaults.TopK)
	assert.Equal(t, 0.3, cfg.Generation.Defaults.SemanticWeight)
	assert.Equal(t, "gpt-4o-mini", cfg.Generation.Defaults.Model)
}

func TestLoadFromRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "relative base url", yaml: "backend:\n  base_url: localhost:8000\n"},
		{name: "chat path without slash", yaml: "backend:\n  chat_path: chat\n"},
		{name: "alpha out of range", yaml: "generation:\n  defaults:\n    semantic_weight: 1.5\n"},
		{name: "top k zero", yaml: "generation:\n  defaults:\n    top_k: 0\n"},
		{name: "unknown log level", yaml: "logging:\n  level: shouting\n"},
		{name: "unknown style", yaml: "generation:\n  defaults:\n    response_style: poetic\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0644))

			_, err := LoadFrom(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Generation.Defaults.Model = "vinallama-7b-chat"
	cfg.Backend.Timeout = 2 * time.Minute

	require.NoError(t, SaveTo(cfg, path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestModelChoicesDeduplicates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generation.Defaults.Model = "gpt-4o"
	cfg.Generation.Models = []string{"gpt-4o-mini", "gpt-4o", " ", "gpt-4o-mini"}

	assert.Equal(t, []string{"gpt-4o", "gpt-4o-mini"}, cfg.ModelChoices())
}
