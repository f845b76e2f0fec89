package sqlite

import (
	"log/slog"

	"github.com/leapstack-labs/leapiqr/pkg/adapter"
)

// Info describes the sqlite adapter type.
var Info = adapter.Info{
	Name:        "sqlite",
	Description: "SQLite database file",
	Targets:     "table name or query",
}

func init() {
	adapter.Register(Info, func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
