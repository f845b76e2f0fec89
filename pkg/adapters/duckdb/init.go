package duckdb

import (
	"log/slog"

	"github.com/leapstack-labs/leapiqr/pkg/adapter"
)

// Info describes the duckdb adapter type.
var Info = adapter.Info{
	Name:        "duckdb",
	Description: "DuckDB database file, in-memory when path is empty",
	Targets:     "table name or query (read_csv_auto, read_parquet, ...)",
}

func init() {
	adapter.Register(Info, func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
