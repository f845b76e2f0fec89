// Package duckdb provides a DuckDB database adapter for leapiqr.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-gota/gota/series"
	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/leapstack-labs/leapiqr/pkg/adapter"
)

// Dialect describes DuckDB for the base SQL adapter.
var Dialect = &adapter.Dialect{
	Name:          "duckdb",
	DefaultSchema: "",
	Placeholder:   adapter.QuestionPlaceholder,
	Types: map[series.Type]string{
		series.Int:    "BIGINT",
		series.Float:  "DOUBLE",
		series.String: "VARCHAR",
		series.Bool:   "BOOLEAN",
	},
	ScanValue: scanValue,
}

// scanValue reads DECIMAL columns as floats.
func scanValue(v any) any {
	if d, ok := v.(goduckdb.Decimal); ok {
		return d.Float64()
	}
	return v
}

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger, Dialect: Dialect},
	}
}

// Connect establishes a connection to DuckDB.
// An empty path (or ":memory:") opens an in-memory database.
//
// Options are applied to the session: "extensions" is a comma-separated list
// of extensions to install and load, every other key becomes a SET statement.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == ":memory:" {
		path = ""
	}

	a.Logger.Debug("opening duckdb", slog.String("path", cfg.Path))

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}
	// settings are per connection
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	a.DB = db
	a.Cfg = cfg

	for _, stmt := range sessionStatements(cfg.Options) {
		if err := a.Exec(ctx, stmt); err != nil {
			_ = a.Close()
			a.DB = nil
			return fmt.Errorf("failed to configure duckdb session: %w", err)
		}
	}
	return nil
}

// sessionStatements turns adapter options into INSTALL/LOAD/SET statements,
// extensions first, settings sorted by name.
func sessionStatements(opts map[string]string) []string {
	var stmts []string
	if exts, ok := opts["extensions"]; ok {
		for _, ext := range strings.Split(exts, ",") {
			ext = strings.TrimSpace(ext)
			if ext == "" {
				continue
			}
			stmts = append(stmts, "INSTALL "+ext, "LOAD "+ext)
		}
	}

	keys := make([]string, 0, len(opts))
	for k := range opts {
		if k != "extensions" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		stmts = append(stmts, fmt.Sprintf("SET %s = '%s'", k, strings.ReplaceAll(opts[k], "'", "''")))
	}
	return stmts
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
