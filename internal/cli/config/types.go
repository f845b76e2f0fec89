// Package config provides configuration management for the leapiqr CLI.
//
// Configuration is layered with koanf: built-in defaults, then leapiqr.yaml,
// then LEAPIQR_* environment variables, then explicitly set flags.
package config

import (
	"github.com/leapstack-labs/leapiqr/pkg/adapter"
	"github.com/leapstack-labs/leapiqr/pkg/outlier"
)

// Default configuration values.
const (
	DefaultSourceType = "file"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultMethod     = "linear"
)

// ConfigFileNames are searched, in order, in the working directory.
var ConfigFileNames = []string{"leapiqr.yaml", "leapiqr.yml"}

// Connection holds the settings needed to open an adapter.
type Connection struct {
	Type     string            `koanf:"type"`
	Path     string            `koanf:"path"`
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	Database string            `koanf:"database"`
	User     string            `koanf:"user"`
	Password string            `koanf:"password"`
	Schema   string            `koanf:"schema"`
	Options  map[string]string `koanf:"options"`
}

// AdapterConfig converts the connection settings into an adapter configuration.
func (c Connection) AdapterConfig() adapter.Config {
	return adapter.Config{
		Type:     c.Type,
		Path:     c.Path,
		Host:     c.Host,
		Port:     c.Port,
		Database: c.Database,
		Username: c.User,
		Password: c.Password,
		Schema:   c.Schema,
		Options:  c.Options,
	}
}

func (c Connection) hasSettings() bool {
	return c.Path != "" || c.Host != "" || c.Port != 0 || c.Database != "" ||
		c.User != "" || c.Password != "" || c.Schema != "" || len(c.Options) > 0
}

// SourceConfig describes where the dataset is read from.
type SourceConfig struct {
	Connection `koanf:",squash"`
	// From is a file path, a table name or a query, depending on Type.
	From string `koanf:"from"`
}

// SinkConfig describes where the three result datasets are written.
// An empty target skips that result.
type SinkConfig struct {
	// Type defaults to the source type. Sinks without connection settings of
	// their own share the source's when the types match.
	Connection  `koanf:",squash"`
	Outliers    string `koanf:"outliers"`
	NonOutliers string `koanf:"non_outliers"`
	Capped      string `koanf:"capped"`
}

// Any reports whether at least one sink target is set.
func (s SinkConfig) Any() bool {
	return s.Outliers != "" || s.NonOutliers != "" || s.Capped != ""
}

// Config holds all CLI configuration options.
type Config struct {
	Column       string                `koanf:"column"`
	Multiplier   float64               `koanf:"multiplier"`
	Method       outlier.Interpolation `koanf:"method"`
	Verbose      bool                  `koanf:"verbose"`
	OutputFormat string                `koanf:"output"`
	Source       SourceConfig          `koanf:"source"`
	Sinks        SinkConfig            `koanf:"sinks"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// SinkType returns the adapter type used for sinks.
func (c *Config) SinkType() string {
	if c.Sinks.Type != "" {
		return c.Sinks.Type
	}
	return c.Source.Type
}

// SinkAdapterConfig returns the adapter configuration for sinks. Sinks of the
// same type as the source reuse its connection settings.
func (c *Config) SinkAdapterConfig() adapter.Config {
	typ := c.SinkType()
	if typ == c.Source.Type && !c.Sinks.hasSettings() {
		return c.Source.AdapterConfig()
	}
	conn := c.Sinks.Connection
	conn.Type = typ
	return conn.AdapterConfig()
}

// OutlierOptions returns the processor options described by the config.
func (c *Config) OutlierOptions() outlier.Options {
	return outlier.Options{Multiplier: c.Multiplier, Method: c.Method}
}

// Default returns the configuration used when nothing else is given.
func Default() *Config {
	return &Config{
		Multiplier:   outlier.DefaultMultiplier,
		Method:       outlier.Linear,
		OutputFormat: DefaultOutput,
		Source:       SourceConfig{Connection: Connection{Type: DefaultSourceType}},
	}
}
