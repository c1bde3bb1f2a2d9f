// Package config loads bpmnlayout settings from TOML or YAML files.
//
// Every field has a default, so a missing file is the same as an empty one.
// Files are decoded over [Default], validated, and then overridden by
// command-line flags in the CLI.
//
//	[layout]
//	spacing_factor = 2.0
//	routing = "orthogonal"
//
//	[cache]
//	backend = "sqlite"
//
//	[server]
//	addr = ":9090"
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bpmnlayout/pkg/cache"
	"github.com/matzehuels/bpmnlayout/pkg/layout"
	"github.com/matzehuels/bpmnlayout/pkg/pipeline"
)

// Config is the full configuration.
type Config struct {
	Layout LayoutConfig  `toml:"layout" yaml:"layout"`
	Cache  cache.Options `toml:"cache" yaml:"cache"`
	Server ServerConfig  `toml:"server" yaml:"server"`
	Log    LogConfig     `toml:"log" yaml:"log"`
}

// LayoutConfig holds layout defaults.
type LayoutConfig struct {
	SpacingFactor float64       `toml:"spacing_factor" yaml:"spacing_factor" validate:"gte=0,lte=10"`
	Graphviz      bool          `toml:"graphviz" yaml:"graphviz"`
	Routing       string        `toml:"routing" yaml:"routing" validate:"omitempty,oneof=straight orthogonal"`
	Sweeps        int           `toml:"sweeps" yaml:"sweeps" validate:"gte=0,lte=100"`
	CycleLimit    int           `toml:"cycle_limit" yaml:"cycle_limit" validate:"gte=0"`
	Timeout       time.Duration `toml:"timeout" yaml:"timeout" validate:"gte=0"`
}

// ServerConfig holds HTTP service settings.
type ServerConfig struct {
	Addr         string        `toml:"addr" yaml:"addr" validate:"required,hostname_port"`
	ReadTimeout  time.Duration `toml:"read_timeout" yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `toml:"write_timeout" yaml:"write_timeout" validate:"gte=0"`
	MaxBodyBytes int64         `toml:"max_body_bytes" yaml:"max_body_bytes" validate:"gt=0"`
	Metrics      bool          `toml:"metrics" yaml:"metrics"`
	Tracing      bool          `toml:"tracing" yaml:"tracing"`
	KeyPrefix    string        `toml:"key_prefix" yaml:"key_prefix"` // Cache key scope
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `toml:"format" yaml:"format" validate:"omitempty,oneof=text json logfmt"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			SpacingFactor: layout.DefaultSpacingFactor,
			Routing:       string(layout.RouteStraight),
			Timeout:       layout.DefaultTimeout,
		},
		Cache: cache.Options{
			Backend: cache.BackendFile,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			MaxBodyBytes: 10 << 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns the per-user config file location,
// $XDG_CONFIG_HOME/bpmnlayout/config.toml on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bpmnlayout", "config.toml"), nil
}

// NewLogger builds a logger writing to w at the configured level and format.
func (c LogConfig) NewLogger(w io.Writer) *log.Logger {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		level = log.InfoLevel
	}
	opts := log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	}
	switch strings.ToLower(c.Format) {
	case "json":
		opts.Formatter = log.JSONFormatter
	case "logfmt":
		opts.Formatter = log.LogfmtFormatter
	}
	return log.NewWithOptions(w, opts)
}

// PipelineOptions returns pipeline options seeded from the layout section.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		SpacingFactor: c.Layout.SpacingFactor,
		Graphviz:      c.Layout.Graphviz,
		Routing:       c.Layout.Routing,
		Sweeps:        c.Layout.Sweeps,
		CycleLimit:    c.Layout.CycleLimit,
		Timeout:       c.Layout.Timeout,
	}
}
