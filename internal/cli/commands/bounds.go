package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapiqr/internal/cli/output"
	"github.com/leapstack-labs/leapiqr/pkg/outlier"
)

// BoundsSummary is the machine-readable result of the bounds command.
type BoundsSummary struct {
	Column     string         `json:"column" yaml:"column"`
	Method     string         `json:"method" yaml:"method"`
	Multiplier float64        `json:"multiplier" yaml:"multiplier"`
	Bounds     outlier.Bounds `json:"bounds" yaml:"bounds"`
}

// NewBoundsCommand creates the bounds command.
func NewBoundsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bounds [column]",
		Short: "Compute the IQR fences of one column",
		Long: `Load the source dataset and print the quartiles and IQR fences of one numeric
column. Nothing is written.`,
		Example: `  leapiqr bounds price --source listings.csv
  leapiqr bounds price --method midpoint --multiplier 3 -o yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBounds,
	}

	addSourceFlags(cmd)
	addAnalysisFlags(cmd)

	return cmd
}

func runBounds(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cc := NewCommandContext(cmd)
	if err := cc.applyColumnArg(args); err != nil {
		return err
	}

	proc, err := outlier.New(cc.Cfg.OutlierOptions())
	if err != nil {
		return err
	}

	src, df, err := cc.loadSource(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	b, err := proc.Bounds(df, cc.Cfg.Column)
	if err != nil {
		return err
	}

	opts := proc.Options()
	s := BoundsSummary{
		Column:     cc.Cfg.Column,
		Method:     opts.Method.String(),
		Multiplier: opts.Multiplier,
		Bounds:     b,
	}

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(s)
	case output.ModeYAML:
		return r.YAML(s)
	}
	renderBounds(r, s.Column, s.Method, s.Multiplier, s.Bounds)
	return nil
}
