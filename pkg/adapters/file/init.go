package file

import (
	"log/slog"

	"github.com/leapstack-labs/leapiqr/pkg/adapter"
)

// Info describes the file adapter type.
var Info = adapter.Info{
	Name:        "file",
	Description: "CSV and JSON files, path is an optional base directory",
	Targets:     "file path ending in .csv or .json",
}

func init() {
	adapter.Register(Info, func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
