// Package adapter defines how leapiqr reads datasets from, and writes them
// to, a storage backend.
//
// Concrete adapters live in pkg/adapters/ subdirectories and register
// themselves in init(). Import them with a blank identifier to make them
// available through NewAdapter.
package adapter

import (
	"context"

	"github.com/go-gota/gota/dataframe"
)

// Config holds the connection settings of an adapter.
// Fields that do not apply to a backend are ignored by it.
type Config struct {
	Type     string
	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string
	Options  map[string]string
}

// Adapter is implemented by every storage backend.
type Adapter interface {
	// Connect opens the backend using cfg.
	Connect(ctx context.Context, cfg Config) error

	// Close releases the backend's resources.
	Close() error

	// Load reads a dataset. The meaning of source depends on the backend:
	// a file path, a table name or a query.
	Load(ctx context.Context, source string) (dataframe.DataFrame, error)

	// Write stores df under target, replacing whatever was there.
	Write(ctx context.Context, target string, df dataframe.DataFrame) error
}
