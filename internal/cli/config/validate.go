package config

import (
	"fmt"
	"math"
	"slices"

	"github.com/leapstack-labs/leapiqr/pkg/adapter"
)

// OutputFormats lists the accepted values of the output setting.
var OutputFormats = []string{"auto", "text", "markdown", "json", "yaml"}

// Validate checks if the configuration is valid.
// The column is checked separately by RequireColumn since it may come from
// a positional argument.
func (c *Config) Validate() error {
	if math.IsNaN(c.Multiplier) || math.IsInf(c.Multiplier, 0) || c.Multiplier <= 0 {
		return fmt.Errorf("multiplier must be a positive number, got %v", c.Multiplier)
	}
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (expected one of: auto, text, markdown, json, yaml)", c.OutputFormat)
	}
	if c.Source.Type == "" {
		return fmt.Errorf("source.type is required")
	}
	if !adapter.IsRegistered(c.Source.Type) {
		return &adapter.UnknownAdapterError{Type: c.Source.Type, Available: adapter.ListAdapters()}
	}
	if c.Source.From == "" {
		return fmt.Errorf("source.from is required\nHint: set source.from in leapiqr.yaml or pass --source")
	}
	if c.Sinks.Any() && !adapter.IsRegistered(c.SinkType()) {
		return &adapter.UnknownAdapterError{Type: c.SinkType(), Available: adapter.ListAdapters()}
	}
	return nil
}

// RequireColumn returns an error when no column has been selected.
func (c *Config) RequireColumn() error {
	if c.Column == "" {
		return fmt.Errorf("no column selected\nHint: pass the column as an argument, use --column, or set column in leapiqr.yaml")
	}
	return nil
}
