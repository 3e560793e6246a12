// Package config loads jsample settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arnodel/jsonsample/extract"
	"github.com/arnodel/jsonsample/sample"
)

var (
	ErrInvalidChunkSize   = errors.New("chunk_size must be positive")
	ErrInvalidSearchLimit = errors.New("search_limit must be positive")
	ErrInvalidMaxBuffer   = errors.New("max_buffer must be at least search_limit")
	ErrInvalidLogLevel    = errors.New("log_level must be one of: debug, info, warn, error")
	ErrInvalidCap         = errors.New("sample caps must be at least 1")
	ErrEmptyField         = errors.New("field names must not be empty")
	ErrInvalidVerifyLimit = errors.New("verify limit must be at least 1")
)

// Config holds every setting of the tool.  Keys absent from a file keep their
// default value.
type Config struct {
	ChunkSize   int    `yaml:"chunk_size"`
	SearchLimit int    `yaml:"search_limit"`
	MaxBuffer   int    `yaml:"max_buffer"`
	LogLevel    string `yaml:"log_level"`

	Sample SampleConfig `yaml:"sample"`
	Verify VerifyConfig `yaml:"verify"`
}

type SampleConfig struct {
	NodesField  string `yaml:"nodes_field"`
	LinksField  string `yaml:"links_field"`
	MaxNodes    int    `yaml:"max_nodes"`
	MaxLinks    int    `yaml:"max_links"`
	IDField     string `yaml:"id_field"`
	SourceField string `yaml:"source_field"`
	TargetField string `yaml:"target_field"`
}

type VerifyConfig struct {
	Limit int `yaml:"limit"`
}

// Default returns the built-in settings.
func Default() *Config {
	s := sample.DefaultConfig()
	return &Config{
		ChunkSize:   extract.DefaultChunkSize,
		SearchLimit: extract.DefaultSearchLimit,
		MaxBuffer:   extract.DefaultMaxBuffer,
		LogLevel:    "info",
		Sample: SampleConfig{
			NodesField:  s.NodesField,
			LinksField:  s.LinksField,
			MaxNodes:    s.MaxNodes,
			MaxLinks:    s.MaxLinks,
			IDField:     s.IDField,
			SourceField: s.SourceField,
			TargetField: s.TargetField,
		},
		Verify: VerifyConfig{Limit: 1000},
	}
}

// Load reads the file at path over the defaults.  An empty path gives the
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ChunkSize < 1 {
		return ErrInvalidChunkSize
	}
	if c.SearchLimit < 1 {
		return ErrInvalidSearchLimit
	}
	if c.MaxBuffer < c.SearchLimit {
		return ErrInvalidMaxBuffer
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	s := c.Sample
	if s.MaxNodes < 1 || s.MaxLinks < 1 {
		return ErrInvalidCap
	}
	for _, f := range []string{s.NodesField, s.LinksField, s.IDField, s.SourceField, s.TargetField} {
		if f == "" {
			return ErrEmptyField
		}
	}
	if c.Verify.Limit < 1 {
		return ErrInvalidVerifyLimit
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w, got %q", ErrInvalidLogLevel, c.LogLevel)
}

// Limits returns the extraction limits.
func (c *Config) Limits() extract.Limits {
	return extract.Limits{
		ChunkSize:   c.ChunkSize,
		SearchLimit: c.SearchLimit,
		MaxBuffer:   c.MaxBuffer,
	}
}

// Layout returns the sampling layout and caps.
func (c *Config) Layout() sample.Config {
	return sample.Config{
		NodesField:  c.Sample.NodesField,
		LinksField:  c.Sample.LinksField,
		MaxNodes:    c.Sample.MaxNodes,
		MaxLinks:    c.Sample.MaxLinks,
		IDField:     c.Sample.IDField,
		SourceField: c.Sample.SourceField,
		TargetField: c.Sample.TargetField,
	}
}
