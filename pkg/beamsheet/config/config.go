// Package config loads the beamsheet YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"time"

	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/layout"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "beamsheet.yaml"

// Config holds all beamsheet configuration.
type Config struct {
	// File locations
	Paths PathsConfig `yaml:"paths"`

	// Selection session
	Session SessionConfig `yaml:"session"`

	// Report layout
	Layout LayoutConfig `yaml:"layout"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// PathsConfig locates the files the tool reads and writes.
type PathsConfig struct {
	Store         string `yaml:"store"`          // record store (SQLite)
	Grouping      string `yaml:"grouping"`       // grouping document (JSON)
	Model         string `yaml:"model"`          // offline model snapshot (YAML)
	SelectionFile string `yaml:"selection_file"` // live selection side file for the offline model
	Template      string `yaml:"template"`       // report template workbook
	Output        string `yaml:"output"`         // generated report
}

// SessionConfig configures the selection session.
type SessionConfig struct {
	PollInterval string `yaml:"poll_interval"`
}

// LayoutConfig configures report generation.
type LayoutConfig struct {
	TemplateSheet     string              `yaml:"template_sheet"` // empty: first sheet
	KeepTemplateSheet bool                `yaml:"keep_template_sheet"`
	HeaderTint        string              `yaml:"header_tint"` // empty disables the tint
	PrintArea         bool                `yaml:"print_area"`
	Fields            layout.FieldOffsets `yaml:"fields"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`   // empty: stderr
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			Store:    "frames.db",
			Grouping: "beam_selection_temp.json",
			Model:    "model.yaml",
			Template: "template.xlsx",
			Output:   "report.xlsx",
		},
		Session: SessionConfig{
			PollInterval: "500ms",
		},
		Layout: LayoutConfig{
			KeepTemplateSheet: true,
			HeaderTint:        layout.DefaultHeaderTint,
			PrintArea:         true,
			Fields:            layout.DefaultFieldOffsets(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("BEAMSHEET_STORE"); path != "" {
		c.Paths.Store = path
	}
	if path := os.Getenv("BEAMSHEET_MODEL"); path != "" {
		c.Paths.Model = path
	}
	if path := os.Getenv("BEAMSHEET_SELECTION_FILE"); path != "" {
		c.Paths.SelectionFile = path
	}
	if level := os.Getenv("BEAMSHEET_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// GetPollInterval returns the session poll interval as a duration.
func (c *Config) GetPollInterval() time.Duration {
	d, err := time.ParseDuration(c.Session.PollInterval)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// LayoutOptions returns the layout engine options.
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{
		Fields:     c.Layout.Fields,
		HeaderTint: c.Layout.HeaderTint != "",
		PrintArea:  c.Layout.PrintArea,
	}
}

// ValidLevels lists the supported log levels.
var ValidLevels = []string{"debug", "info", "warn", "error"}

// ValidFormats lists the supported log formats.
var ValidFormats = []string{"json", "console"}

var tintPattern = regexp.MustCompile(`^#?[0-9A-Fa-f]{6}$`)

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Paths.Store == "" {
		return fmt.Errorf("store path not configured")
	}
	if c.Paths.Grouping == "" {
		return fmt.Errorf("grouping document path not configured")
	}
	if d, err := time.ParseDuration(c.Session.PollInterval); err != nil || d <= 0 {
		return fmt.Errorf("invalid poll interval: %q", c.Session.PollInterval)
	}
	if c.Layout.HeaderTint != "" && !tintPattern.MatchString(c.Layout.HeaderTint) {
		return fmt.Errorf("invalid header tint: %q (want #RRGGBB)", c.Layout.HeaderTint)
	}
	if err := layout.ValidateFields(c.Layout.Fields); err != nil {
		return fmt.Errorf("invalid layout fields: %w", err)
	}
	if !slices.Contains(ValidLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}
	if !slices.Contains(ValidFormats, c.Logging.Format) {
		return fmt.Errorf("invalid log format: %s (valid: %v)", c.Logging.Format, ValidFormats)
	}
	return nil
}
