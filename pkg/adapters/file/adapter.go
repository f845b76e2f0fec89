// Package file provides an adapter that reads and writes datasets as CSV or
// JSON files.
package file

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"github.com/leapstack-labs/leapiqr/pkg/adapter"
)

// Format is a supported file format.
type Format string

// Supported formats, selected by file extension.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Adapter implements adapter.Adapter over the local filesystem.
// Config.Path, when set, is the base directory for relative paths.
type Adapter struct {
	Logger  *slog.Logger
	baseDir string
}

// New creates a new file adapter.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{Logger: logger}
}

// Connect records the base directory. It fails if the directory does not exist.
func (a *Adapter) Connect(_ context.Context, cfg adapter.Config) error {
	if cfg.Path != "" {
		info, err := os.Stat(cfg.Path)
		if err != nil {
			return fmt.Errorf("invalid base directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("base directory %s is not a directory", cfg.Path)
		}
	}
	a.baseDir = cfg.Path
	return nil
}

// Close is a no-op.
func (a *Adapter) Close() error {
	return nil
}

// DetectFormat returns the format implied by the extension of path.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported file extension %q for %s (expected .csv or .json)", filepath.Ext(path), path)
	}
}

func (a *Adapter) resolve(path string) string {
	if a.baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(a.baseDir, path)
}

// Load reads the dataset stored at source.
func (a *Adapter) Load(_ context.Context, source string) (dataframe.DataFrame, error) {
	format, err := DetectFormat(source)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	path := a.resolve(source)
	a.Logger.Debug("reading file", slog.String("path", path), slog.String("format", string(format)))

	f, err := os.Open(path) //nolint:gosec // path is user-provided by design
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var records [][]string
	switch format {
	case FormatJSON:
		records, err = adapter.ReadJSONRecords(f)
	default:
		records, err = csv.NewReader(f).ReadAll()
	}
	var df dataframe.DataFrame
	if err == nil {
		df, err = adapter.FrameFromRecords(records, nil)
	}
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	a.Logger.Debug("file loaded", slog.String("path", path), slog.Int("rows", df.Nrow()))
	return df, nil
}

// Write stores df at target, creating parent directories as needed.
func (a *Adapter) Write(_ context.Context, target string, df dataframe.DataFrame) error {
	if df.Err != nil {
		return fmt.Errorf("invalid dataset: %w", df.Err)
	}
	format, err := DetectFormat(target)
	if err != nil {
		return err
	}
	path := a.resolve(target)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	f, err := os.Create(path) //nolint:gosec // path is user-provided by design
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		err = enc.Encode(adapter.Rows(df))
	default:
		w := csv.NewWriter(f)
		err = w.WriteAll(adapter.Records(df))
	}
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	a.Logger.Debug("file written", slog.String("path", path), slog.Int("rows", df.Nrow()))
	return nil
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
