package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapiqr/pkg/adapter"
	"github.com/leapstack-labs/leapiqr/pkg/outlier"
)

// Flags are only applied to the configuration when set explicitly, so their
// defaults here are placeholders for help output.

func addSourceFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("source", "", "File path, table name or query to load")
	f.String("source-type", "", "Source adapter type (default: file)")
	f.String("source-path", "", "Database file or base directory of the source")
	f.String("column", "", "Column to process")

	_ = cmd.RegisterFlagCompletionFunc("source-type", completeAdapterTypes)
}

func addAnalysisFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64("multiplier", outlier.DefaultMultiplier, "IQR multiplier used for the fences")
	f.String("method", outlier.Linear.String(), "Quartile interpolation method")

	_ = cmd.RegisterFlagCompletionFunc("method", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for _, m := range outlier.Interpolations() {
			names = append(names, m.String())
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

func addSinkFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("outliers", "", "Target for the outlier rows")
	f.String("non-outliers", "", "Target for the non-outlier rows")
	f.String("capped", "", "Target for the capped dataset")
	f.String("sink-type", "", "Sink adapter type (default: source type)")
	f.String("sink-path", "", "Database file or base directory of the sinks")

	_ = cmd.RegisterFlagCompletionFunc("sink-type", completeAdapterTypes)
}

func completeAdapterTypes(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return adapter.ListAdapters(), cobra.ShellCompDirectiveNoFileComp
}
