package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/layout"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"BEAMSHEET_STORE", "BEAMSHEET_MODEL", "BEAMSHEET_SELECTION_FILE", "BEAMSHEET_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "frames.db", cfg.Paths.Store)
	assert.Equal(t, 500*time.Millisecond, cfg.GetPollInterval())
	assert.True(t, cfg.Layout.KeepTemplateSheet)
	assert.Equal(t, layout.DefaultOptions(), cfg.LayoutOptions())
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "beamsheet.yaml")
	data := `
paths:
  store: data/tower.db
session:
  poll_interval: 250ms
layout:
  keep_template_sheet: false
  header_tint: ""
  fields:
    label: {row: 4, col: 1}
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "data/tower.db", cfg.Paths.Store)
	assert.Equal(t, "beam_selection_temp.json", cfg.Paths.Grouping, "unset keys keep their defaults")
	assert.Equal(t, 250*time.Millisecond, cfg.GetPollInterval())
	assert.False(t, cfg.Layout.KeepTemplateSheet)
	assert.False(t, cfg.LayoutOptions().HeaderTint)
	assert.Equal(t, layout.Offset{Row: 4, Col: 1}, cfg.Layout.Fields.Label)
	assert.Equal(t, layout.Offset{Row: 2, Col: 3}, cfg.Layout.Fields.Order)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("paths: [unclosed"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BEAMSHEET_STORE", "/tmp/env.db")
	t.Setenv("BEAMSHEET_LOG_LEVEL", "warn")
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.Paths.Store)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestSaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "beamsheet.yaml")
	cfg := DefaultConfig()
	cfg.Paths.Model = "tower.yaml"
	cfg.Layout.TemplateSheet = "Sablon"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty store", func(c *Config) { c.Paths.Store = "" }},
		{"empty grouping", func(c *Config) { c.Paths.Grouping = "" }},
		{"bad interval", func(c *Config) { c.Session.PollInterval = "soon" }},
		{"zero interval", func(c *Config) { c.Session.PollInterval = "0s" }},
		{"bad tint", func(c *Config) { c.Layout.HeaderTint = "blue" }},
		{"shared field", func(c *Config) { c.Layout.Fields.Story = c.Layout.Fields.Label }},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
