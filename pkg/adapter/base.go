package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var errNotConnected = errors.New("database connection not established")

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Exec, Load and Write implementations.
type BaseSQLAdapter struct {
	DB      *sql.DB
	Cfg     Config
	Logger  *slog.Logger
	Dialect *Dialect
}

func (b *BaseSQLAdapter) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

func (b *BaseSQLAdapter) dialect() *Dialect {
	if b.Dialect == nil {
		return Standard
	}
	return b.Dialect
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		b.logger().Debug("closing database connection")
		return b.DB.Close()
	}
	return nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string) error {
	if b.DB == nil {
		return errNotConnected
	}
	_, err := b.DB.ExecContext(ctx, sqlStr)
	if err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// QualifiedTable returns the quoted, schema-qualified form of a table reference.
func (b *BaseSQLAdapter) QualifiedTable(table string) string {
	fallback := b.Cfg.Schema
	if fallback == "" {
		fallback = b.dialect().DefaultSchema
	}
	schema, name := ParseQualifiedName(table, fallback)
	if schema == "" {
		return QuoteIdent(name)
	}
	return QuoteIdent(schema) + "." + QuoteIdent(name)
}

// SelectQuery returns the query used to load source: the source itself when
// it is a query, otherwise a full scan of the named table.
func (b *BaseSQLAdapter) SelectQuery(source string) string {
	if IsQuery(source) {
		return source
	}
	return "SELECT * FROM " + b.QualifiedTable(strings.TrimSpace(source))
}

// Load reads a table or the result of a query into a dataset.
func (b *BaseSQLAdapter) Load(ctx context.Context, source string) (dataframe.DataFrame, error) {
	if b.DB == nil {
		return dataframe.DataFrame{}, errNotConnected
	}
	if strings.TrimSpace(source) == "" {
		return dataframe.DataFrame{}, fmt.Errorf("no table or query given")
	}

	query := b.SelectQuery(source)
	b.logger().Debug("loading dataset", slog.String("query", query))

	rows, err := b.DB.QueryContext(ctx, query)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	df, err := ScanFrame(rows, b.dialect().ScanValue)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to load %s: %w", source, err)
	}
	b.logger().Debug("dataset loaded", slog.Int("rows", df.Nrow()), slog.Int("columns", df.Ncol()))
	return df, nil
}

// CreateTableSQL returns the CREATE TABLE statement matching the columns of df.
// table must already be quoted.
func (b *BaseSQLAdapter) CreateTableSQL(table string, df dataframe.DataFrame) string {
	d := b.dialect()
	types := df.Types()
	colDefs := make([]string, len(types))
	for i, name := range df.Names() {
		colDefs[i] = QuoteIdent(name) + " " + d.ColumnType(types[i])
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(colDefs, ", "))
}

// Write replaces target with the contents of df in a single transaction.
func (b *BaseSQLAdapter) Write(ctx context.Context, target string, df dataframe.DataFrame) error {
	if b.DB == nil {
		return errNotConnected
	}
	if df.Err != nil {
		return fmt.Errorf("invalid dataset: %w", df.Err)
	}

	d := b.dialect()
	table := b.QualifiedTable(target)
	names := df.Names()
	quoted := make([]string, len(names))
	params := make([]string, len(names))
	for i, name := range names {
		quoted[i] = QuoteIdent(name)
		params[i] = d.FormatPlaceholder(i + 1)
	}

	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("failed to drop %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, b.CreateTableSQL(table, df)); err != nil {
		return fmt.Errorf("failed to create %s: %w", table, err)
	}

	if df.Nrow() > 0 {
		//nolint:gosec // identifiers are quoted, values are bound
		insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(quoted, ", "), strings.Join(params, ", "))
		stmt, err := tx.PrepareContext(ctx, insertSQL)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		cols := make([]series.Series, len(names))
		for i, name := range names {
			cols[i] = df.Col(name)
		}
		args := make([]any, len(cols))
		for row := 0; row < df.Nrow(); row++ {
			for i, s := range cols {
				args[i] = Cell(s, row)
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("failed to insert row %d into %s: %w", row, table, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	b.logger().Debug("dataset written", slog.String("table", table), slog.Int("rows", df.Nrow()))
	return nil
}
