// Package postgres provides a PostgreSQL database adapter for leapiqr.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/leapstack-labs/leapiqr/pkg/adapter"
)

// Dialect describes PostgreSQL for the base SQL adapter.
var Dialect = &adapter.Dialect{
	Name:          "postgres",
	DefaultSchema: "public",
	Placeholder:   adapter.DollarPlaceholder,
	Types: map[series.Type]string{
		series.Int:    "BIGINT",
		series.Float:  "DOUBLE PRECISION",
		series.String: "TEXT",
		series.Bool:   "BOOLEAN",
	},
}

// Adapter implements the adapter.Adapter interface for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger, Dialect: Dialect},
	}
}

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := buildPostgresDSN(cfg)

	a.Logger.Debug("connecting to postgres", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// buildPostgresDSN constructs a PostgreSQL connection string.
// Options other than sslmode are appended as extra key=value pairs.
func buildPostgresDSN(cfg adapter.Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if mode, ok := cfg.Options["sslmode"]; ok {
		sslmode = mode
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		dsnValue(host), port, dsnValue(cfg.Database), dsnValue(sslmode))

	if cfg.Username != "" {
		dsn += " user=" + dsnValue(cfg.Username)
	}
	if cfg.Password != "" {
		dsn += " password=" + dsnValue(cfg.Password)
	}

	keys := make([]string, 0, len(cfg.Options))
	for k := range cfg.Options {
		if k != "sslmode" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		dsn += " " + k + "=" + dsnValue(cfg.Options[k])
	}

	return dsn
}

// dsnValue quotes a keyword/value connection string value when needed.
func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// Write replaces target with df, loading the rows with COPY FROM STDIN.
func (a *Adapter) Write(ctx context.Context, target string, df dataframe.DataFrame) error {
	if a.DB == nil {
		return fmt.Errorf("database connection not established")
	}
	if df.Err != nil {
		return fmt.Errorf("invalid dataset: %w", df.Err)
	}

	schema := a.Cfg.Schema
	if schema == "" {
		schema = Dialect.DefaultSchema
	}
	schema, name := adapter.ParseQualifiedName(target, schema)
	table := a.QualifiedTable(target)

	conn, err := a.DB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to get connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	err = conn.Raw(func(driverConn any) error {
		pgxConn := driverConn.(*stdlib.Conn).Conn()

		tx, err := pgxConn.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("failed to drop %s: %w", table, err)
		}
		if _, err := tx.Exec(ctx, a.CreateTableSQL(table, df)); err != nil {
			return fmt.Errorf("failed to create %s: %w", table, err)
		}

		n, err := tx.CopyFrom(ctx, pgx.Identifier{schema, name}, df.Names(), pgx.CopyFromRows(rowValues(df)))
		if err != nil {
			return fmt.Errorf("failed to copy rows into %s: %w", table, err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit: %w", err)
		}
		a.Logger.Debug("dataset written", slog.String("table", table), slog.Int64("rows", n))
		return nil
	})
	return err
}

// rowValues returns the cells of df row by row.
func rowValues(df dataframe.DataFrame) [][]any {
	names := df.Names()
	cols := make([]series.Series, len(names))
	for i, name := range names {
		cols[i] = df.Col(name)
	}
	rows := make([][]any, df.Nrow())
	for r := range rows {
		row := make([]any, len(cols))
		for i, s := range cols {
			row[i] = adapter.Cell(s, r)
		}
		rows[r] = row
	}
	return rows
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
