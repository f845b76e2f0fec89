package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapiqr/internal/cli/config"
	"github.com/leapstack-labs/leapiqr/internal/cli/output"
	"github.com/leapstack-labs/leapiqr/pkg/adapter"

	// Register the built-in adapters.
	_ "github.com/leapstack-labs/leapiqr/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapiqr/pkg/adapters/file"
	_ "github.com/leapstack-labs/leapiqr/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapiqr/pkg/adapters/sqlite"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the config and logger
// stored in the command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// applyColumnArg lets a positional column argument override the configured one
// and checks the configuration.
func (c *CommandContext) applyColumnArg(args []string) error {
	if len(args) > 0 && args[0] != "" {
		c.Cfg.Column = args[0]
	}
	if err := c.Cfg.Validate(); err != nil {
		return err
	}
	return c.Cfg.RequireColumn()
}

// openAdapter creates and connects an adapter.
// The caller must close the returned adapter.
func openAdapter(ctx context.Context, cfg adapter.Config, logger *slog.Logger) (adapter.Adapter, error) {
	adp, err := adapter.NewAdapter(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := adp.Connect(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Type, err)
	}
	return adp, nil
}

// loadSource opens the source adapter and loads the configured dataset.
// The returned adapter stays open so sinks can reuse it.
func (c *CommandContext) loadSource(ctx context.Context) (adapter.Adapter, dataframe.DataFrame, error) {
	src := c.Cfg.Source
	adp, err := openAdapter(ctx, src.AdapterConfig(), c.Logger)
	if err != nil {
		return nil, dataframe.DataFrame{}, err
	}

	df, err := adp.Load(ctx, src.From)
	if err != nil {
		_ = adp.Close()
		return nil, dataframe.DataFrame{}, fmt.Errorf("failed to load source %s: %w", src.From, err)
	}

	c.Logger.Info("source loaded",
		slog.String("type", src.Type),
		slog.String("from", src.From),
		slog.Int("rows", df.Nrow()),
		slog.Int("columns", df.Ncol()))
	return adp, df, nil
}
