// Package config loads gfa tool settings from a YAML file.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/gfakit/core/gfa"
	"github.com/FocuswithJustin/gfakit/internal/logging"
)

// Config is the contents of a gfakit.yaml file.
type Config struct {
	Parse  ParseConfig  `yaml:"parse"`
	Intern InternConfig `yaml:"intern"`
	Log    LogConfig    `yaml:"log"`
	Store  StoreConfig  `yaml:"store"`
}

// ParseConfig controls how GFA lines are read.
type ParseConfig struct {
	StrictTags bool   `yaml:"strict_tags"`
	OnError    string `yaml:"on_error"` // "abort" or "skip"
	KeepOrder  bool   `yaml:"keep_order"`
}

// InternConfig controls name map translation.
type InternConfig struct {
	CheckHash bool `yaml:"check_hash"`
}

// LogConfig selects the log level and format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StoreConfig locates the name map catalog.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// Error policies accepted by ParseConfig.OnError.
const (
	OnErrorAbort = "abort"
	OnErrorSkip  = "skip"
)

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Parse: ParseConfig{
			StrictTags: true,
			OnError:    OnErrorAbort,
			KeepOrder:  true,
		},
		Intern: InternConfig{CheckHash: true},
		Log:    LogConfig{Level: "info", Format: "text"},
		Store:  StoreConfig{Path: DefaultStorePath()},
	}
}

// DefaultStorePath returns the catalog path under the user cache directory,
// or a path in the working directory when there is none.
func DefaultStorePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "gfakit-maps.db"
	}
	return filepath.Join(dir, "gfakit", "maps.db")
}

// Load reads path over the defaults. An empty path returns Default.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.Parse.OnError {
	case OnErrorAbort, OnErrorSkip:
	default:
		return fmt.Errorf("parse.on_error must be %q or %q, got %q", OnErrorAbort, OnErrorSkip, c.Parse.OnError)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("log.format: %w", err)
	}
	return nil
}

// ParseOptions converts the parse settings to parser options.
func (c *Config) ParseOptions() gfa.Options {
	opts := gfa.Options{
		Tags:      gfa.TagPermissive,
		OnError:   gfa.AbortOnError,
		KeepOrder: c.Parse.KeepOrder,
	}
	if c.Parse.StrictTags {
		opts.Tags = gfa.TagStrict
	}
	if c.Parse.OnError == OnErrorSkip {
		opts.OnError = gfa.SkipOnError
	}
	return opts
}

// InitLogging configures the global logger from the log settings, writing
// to stderr.
func (c *Config) InitLogging() error {
	return c.InitLoggingTo(os.Stderr)
}

// InitLoggingTo is InitLogging with an explicit destination.
func (c *Config) InitLoggingTo(w io.Writer) error {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(c.Log.Format)
	if err != nil {
		return err
	}
	logging.InitLoggerTo(w, level, format)
	return nil
}
