// Package sqlite provides a SQLite database adapter for leapiqr, backed by
// the pure Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"

	"github.com/go-gota/gota/series"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/leapstack-labs/leapiqr/pkg/adapter"
)

// Dialect describes SQLite for the base SQL adapter.
var Dialect = &adapter.Dialect{
	Name:        "sqlite",
	Placeholder: adapter.QuestionPlaceholder,
	Types: map[series.Type]string{
		series.Int:    "INTEGER",
		series.Float:  "REAL",
		series.String: "TEXT",
		series.Bool:   "INTEGER",
	},
}

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger, Dialect: Dialect},
	}
}

// Connect opens the database file at cfg.Path, creating it if needed.
// Each entry of cfg.Options is applied as a PRAGMA.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	if cfg.Path == "" {
		return fmt.Errorf("sqlite adapter requires a database path (use :memory: for a temporary database)")
	}

	a.Logger.Debug("opening sqlite", slog.String("path", cfg.Path))

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// one connection keeps :memory: databases and pragmas consistent
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite: %w", err)
	}

	a.DB = db
	a.Cfg = cfg

	for _, stmt := range pragmas(cfg.Options) {
		if err := a.Exec(ctx, stmt); err != nil {
			_ = a.Close()
			a.DB = nil
			return fmt.Errorf("failed to configure sqlite: %w", err)
		}
	}
	return nil
}

func pragmas(opts map[string]string) []string {
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	stmts := make([]string, 0, len(keys))
	for _, k := range keys {
		stmts = append(stmts, fmt.Sprintf("PRAGMA %s = %s", k, opts[k]))
	}
	return stmts
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
