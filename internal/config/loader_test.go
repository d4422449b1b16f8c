package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tissues.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestEmbeddedDefaultMatchesDefault(t *testing.T) {
	cfg, err := parse(defaultYAML)
	require.NoError(t, err)
	assert.Equal(t, Default().Game, cfg.Game)
	assert.Equal(t, Default().Messages.BatchSize, cfg.Messages.BatchSize)
	assert.Equal(t, Default().Messages.BacklogThreshold, cfg.Messages.BacklogThreshold)
}

func TestLoadCustomPathPartialOverride(t *testing.T) {
	path := writeFile(t, `
game:
  speed_seconds: 60
messages:
  provider: openai
  model: gpt-4o-mini
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Game.SpeedSeconds)
	assert.Equal(t, 10, cfg.Game.InitialBatch, "unset fields keep defaults")
	assert.Equal(t, ProviderOpenAI, cfg.Messages.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Messages.Model)
}

func TestLoadCustomPathMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadCustomPathInvalid(t *testing.T) {
	path := writeFile(t, `
game:
  initial_batch: 3
  low_water: 4
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "low_water")
}

func writeUserConfig(t *testing.T, content string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".tissues")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
}

func TestLoadUserConfig(t *testing.T) {
	writeUserConfig(t, "game:\n  speed_seconds: 45\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.Game.SpeedSeconds)
}

func TestLoadUserConfigInvalid(t *testing.T) {
	writeUserConfig(t, "game:\n  speed_seconds: -1\n")

	cfg, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.yaml")
	assert.Equal(t, Default(), cfg)

	writeUserConfig(t, "game: [not, a, map\n")
	_, err = Load("")
	require.Error(t, err, "malformed YAML should not fall back silently")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"default", func(c *Config) {}, true},
		{"zero initial batch", func(c *Config) { c.Game.InitialBatch = 0 }, false},
		{"zero refill", func(c *Config) { c.Game.RefillBatch = 0 }, false},
		{"negative low water", func(c *Config) { c.Game.LowWater = -1 }, false},
		{"zero speed", func(c *Config) { c.Game.SpeedSeconds = 0 }, false},
		{"unknown provider", func(c *Config) { c.Messages.Provider = "gemini" }, false},
		{"empty provider", func(c *Config) { c.Messages.Provider = "" }, true},
		{"zero batch size", func(c *Config) { c.Messages.BatchSize = 0 }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSettings(t *testing.T) {
	cfg := Default()
	cfg.Game.SpeedSeconds = 45
	cfg.Messages.BatchSize = 8
	cfg.Messages.TimeoutSeconds = 3

	s := cfg.Settings()
	assert.Equal(t, 10, s.InitialBatch)
	assert.Equal(t, 4, s.LowWater)
	assert.Equal(t, 5, s.RefillBatch)
	assert.Equal(t, 45, s.SpeedDuration)
	assert.Equal(t, 8, s.BacklogRequest)
	assert.Equal(t, 5, s.BacklogThreshold)
	assert.Equal(t, 3*time.Second, s.RequestTimeout)
	assert.Equal(t, time.Second, s.TickInterval)
}
