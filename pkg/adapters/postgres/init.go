package postgres

import (
	"log/slog"

	"github.com/leapstack-labs/leapiqr/pkg/adapter"
)

// Info describes the postgres adapter type.
var Info = adapter.Info{
	Name:        "postgres",
	Description: "PostgreSQL server, rows written with COPY",
	Targets:     "[schema.]table name or query",
}

func init() {
	adapter.Register(Info, func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
