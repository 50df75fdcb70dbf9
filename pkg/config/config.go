// Package config loads the converter's YAML configuration file.
//
// The file supplies defaults; command-line flags that are set explicitly
// take precedence over it.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sdf-lwm2m/converter-go/pkg/convert"
	"github.com/sdf-lwm2m/converter-go/pkg/sdf"
)

// Config is the content of a configuration file.
type Config struct {
	Workers  int    `yaml:"workers"`  // batch worker count; 0 means GOMAXPROCS
	Validate string `yaml:"validate"` // SDF JSON Schema path; empty disables validation
	Strict   bool   `yaml:"strict"`
	EventLog string `yaml:"eventLog"` // CBOR event log path
	LogLevel string `yaml:"logLevel"` // debug, info, warn or error

	// Written into generated SDF documents.
	Info             *InfoConfig       `yaml:"info"`
	Namespace        map[string]string `yaml:"namespace"`
	DefaultNamespace string            `yaml:"defaultNamespace"`
}

// InfoConfig is the SDF info block.
type InfoConfig struct {
	Title     string `yaml:"title"`
	Version   string `yaml:"version"`
	Modified  string `yaml:"modified"`
	Copyright string `yaml:"copyright"`
	License   string `yaml:"license"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{LogLevel: "info"}
}

// Parse parses a configuration from YAML bytes. Unset fields keep their
// defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads a configuration file. Relative paths inside it are resolved
// against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	cfg.Validate = resolve(dir, cfg.Validate)
	cfg.EventLog = resolve(dir, cfg.EventLog)
	return cfg, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Check reports invalid field values.
func (c *Config) Check() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the configured slog level.
func (c *Config) Level() slog.Level {
	l, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// Options returns the translation options the configuration describes.
func (c *Config) Options() convert.Options {
	opts := convert.Options{
		Namespace:        c.Namespace,
		DefaultNamespace: c.DefaultNamespace,
	}
	if c.Info != nil {
		opts.Info = &sdf.Info{
			Title:     c.Info.Title,
			Version:   c.Info.Version,
			Modified:  c.Info.Modified,
			Copyright: c.Info.Copyright,
			License:   c.Info.License,
		}
	}
	return opts
}

// ParseLevel parses a log level name. The empty string means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
	}
}
