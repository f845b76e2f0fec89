package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapiqr/internal/testutil"
	"github.com/leapstack-labs/leapiqr/pkg/adapter"
	"github.com/leapstack-labs/leapiqr/pkg/outlier"

	// Import adapter packages to ensure adapters are registered via init()
	_ "github.com/leapstack-labs/leapiqr/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapiqr/pkg/adapters/file"
	_ "github.com/leapstack-labs/leapiqr/pkg/adapters/sqlite"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leapiqr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func processFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "config file")
	flags.String("column", "", "column")
	flags.Float64("multiplier", 0, "multiplier")
	flags.String("method", "", "method")
	flags.String("source", "", "source")
	flags.String("source-type", "", "source type")
	flags.String("capped", "", "capped sink")
	flags.Int("show", 0, "rows to show")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "", cfg.File)
	assert.Equal(t, outlier.DefaultMultiplier, cfg.Multiplier)
	assert.Equal(t, outlier.Linear, cfg.Method)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultSourceType, cfg.Source.Type)
	assert.False(t, cfg.Sinks.Any())
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `column: price
multiplier: 3
method: midpoint
output: json
source:
  type: sqlite
  path: listings.db
  from: SELECT * FROM listings
  options:
    busy_timeout: "5000"
sinks:
  outliers: outliers
  non_outliers: clean
  capped: capped
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "price", cfg.Column)
	assert.Equal(t, 3.0, cfg.Multiplier)
	assert.Equal(t, outlier.Midpoint, cfg.Method)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "sqlite", cfg.Source.Type)
	assert.Equal(t, "listings.db", cfg.Source.Path)
	assert.Equal(t, "SELECT * FROM listings", cfg.Source.From)
	assert.Equal(t, map[string]string{"busy_timeout": "5000"}, cfg.Source.Options)
	assert.Equal(t, "clean", cfg.Sinks.NonOutliers)
	assert.Equal(t, "sqlite", cfg.SinkType())
	assert.Equal(t, "listings.db", cfg.SinkAdapterConfig().Path, "sinks share the source connection")

	require.NoError(t, cfg.Validate())
	require.NoError(t, cfg.RequireColumn())
}

func TestLoadConfig_FindsFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leapiqr.yml"), []byte("column: rent\n"), 0o600))
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "leapiqr.yml", cfg.File)
	assert.Equal(t, "rent", cfg.Column)
}

func TestLoadConfig_InvalidMethod(t *testing.T) {
	path := writeConfig(t, "method: cubic\n")
	_, err := LoadConfig(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to decode config")
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	path := writeConfig(t, "column: from_file\nmultiplier: 2\n")

	t.Setenv("LEAPIQR_COLUMN", "from_env")
	t.Setenv("LEAPIQR_MULTIPLIER", "2.5")

	flags := processFlags()
	require.NoError(t, flags.Set("column", "from_flag"))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "from_flag", cfg.Column, "flag value should override config file and env var")
	assert.Equal(t, 2.5, cfg.Multiplier, "env var should override config file")
}

func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	path := writeConfig(t, "column: from_file\n")
	t.Setenv("LEAPIQR_COLUMN", "from_env")

	cfg, err := LoadConfig(path, processFlags())
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.Column, "env var should be used when flag is not set")
}

func TestLoadConfig_FlagMapping(t *testing.T) {
	t.Chdir(t.TempDir())

	flags := processFlags()
	require.NoError(t, flags.Set("source", "data/listings.csv"))
	require.NoError(t, flags.Set("source-type", "file"))
	require.NoError(t, flags.Set("capped", "out/capped.csv"))
	require.NoError(t, flags.Set("method", "nearest"))
	require.NoError(t, flags.Set("multiplier", "3"))
	require.NoError(t, flags.Set("show", "5"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "data/listings.csv", cfg.Source.From)
	assert.Equal(t, "file", cfg.Source.Type)
	assert.Equal(t, "out/capped.csv", cfg.Sinks.Capped)
	assert.Equal(t, outlier.Nearest, cfg.Method)
	assert.Equal(t, 3.0, cfg.Multiplier)
}

func TestLoadConfig_NestedEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LEAPIQR_SOURCE__TYPE", "duckdb")
	t.Setenv("LEAPIQR_SOURCE__FROM", "listings")
	t.Setenv("LEAPIQR_SOURCE__PORT", "5433")
	t.Setenv("LEAPIQR_SINKS__NON_OUTLIERS", "clean.csv")
	t.Setenv("LEAPIQR_SINKS__TYPE", "file")
	t.Setenv("LEAPIQR_METHOD", "empirical")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "duckdb", cfg.Source.Type)
	assert.Equal(t, "listings", cfg.Source.From)
	assert.Equal(t, 5433, cfg.Source.Port)
	assert.Equal(t, "clean.csv", cfg.Sinks.NonOutliers)
	assert.Equal(t, outlier.Empirical, cfg.Method)
	assert.Equal(t, adapter.Config{Type: "file"}, cfg.SinkAdapterConfig())
}

func TestLoadConfig_ExpandsSecrets(t *testing.T) {
	t.Setenv("TEST_PG_PASSWORD", "s3cret")
	path := writeConfig(t, `source:
  type: postgres
  password: ${TEST_PG_PASSWORD}
  user: ${UNSET_TEST_USER}
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Source.Password)
	assert.Equal(t, "${UNSET_TEST_USER}", cfg.Source.User)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR_ONE", "value_one")
	t.Setenv("TEST_VAR_TWO", "value_two")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single variable",
			input:    "${TEST_VAR_ONE}",
			expected: "value_one",
		},
		{
			name:     "multiple variables",
			input:    "${TEST_VAR_ONE}/${TEST_VAR_TWO}",
			expected: "value_one/value_two",
		},
		{
			name:     "unset variable stays as-is",
			input:    "${UNSET_VARIABLE}",
			expected: "${UNSET_VARIABLE}",
		},
		{
			name:     "no variables",
			input:    "plain string",
			expected: "plain string",
		},
		{
			name:     "mixed set and unset",
			input:    "${TEST_VAR_ONE}:${UNSET_VAR}",
			expected: "value_one:${UNSET_VAR}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Source.From = "listings.csv"
		return cfg
	}

	tests := []struct {
		name      string
		mutate    func(c *Config)
		errSubstr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "zero multiplier", mutate: func(c *Config) { c.Multiplier = 0 }, errSubstr: "multiplier must be a positive number"},
		{name: "negative multiplier", mutate: func(c *Config) { c.Multiplier = -1 }, errSubstr: "multiplier must be a positive number"},
		{name: "bad output", mutate: func(c *Config) { c.OutputFormat = "xml" }, errSubstr: "invalid output format"},
		{name: "no source type", mutate: func(c *Config) { c.Source.Type = "" }, errSubstr: "source.type is required"},
		{name: "unknown source type", mutate: func(c *Config) { c.Source.Type = "mysql" }, errSubstr: "unknown adapter type"},
		{name: "no source", mutate: func(c *Config) { c.Source.From = "" }, errSubstr: "source.from is required"},
		{
			name: "unknown sink type",
			mutate: func(c *Config) {
				c.Sinks.Type = "oracle"
				c.Sinks.Capped = "capped"
			},
			errSubstr: "unknown adapter type",
		},
		{
			name:   "unknown sink type without sinks",
			mutate: func(c *Config) { c.Sinks.Type = "oracle" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestConfig_UnknownSourceErrorListsAvailable(t *testing.T) {
	cfg := Default()
	cfg.Source.Type = "mysql"
	cfg.Source.From = "t"

	var unknown *adapter.UnknownAdapterError
	require.ErrorAs(t, cfg.Validate(), &unknown)
	assert.Contains(t, unknown.Available, "duckdb")
	assert.Contains(t, unknown.Available, "file")
}

func TestConfig_RequireColumn(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.RequireColumn())
	cfg.Column = "price"
	assert.NoError(t, cfg.RequireColumn())
}

func TestConfig_SinkAdapterConfig(t *testing.T) {
	cfg := Default()
	cfg.Source.Type = "duckdb"
	cfg.Source.Path = "warehouse.duckdb"

	assert.Equal(t, "warehouse.duckdb", cfg.SinkAdapterConfig().Path)

	cfg.Sinks.Path = "results.duckdb"
	assert.Equal(t, adapter.Config{Type: "duckdb", Path: "results.duckdb"}, cfg.SinkAdapterConfig())

	cfg.Sinks = SinkConfig{Connection: Connection{Type: "sqlite", Path: "out.db"}}
	assert.Equal(t, adapter.Config{Type: "sqlite", Path: "out.db"}, cfg.SinkAdapterConfig())
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := testutil.NewTestLogger(t)
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))

	cfg := Default()
	cfg.Column = "price"
	assert.Same(t, cfg, FromContext(WithConfig(context.Background(), cfg)))
}
