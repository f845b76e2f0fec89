package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapiqr/internal/cli/output"
	"github.com/leapstack-labs/leapiqr/pkg/adapter"
)

// NewAdaptersCommand creates the adapters command.
func NewAdaptersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "adapters",
		Short: "List available adapters",
		Long:  `List the adapter types that can be used for source.type and sinks.type.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := NewCommandContext(cmd).Renderer
			infos := adapter.Adapters()

			switch r.EffectiveMode() {
			case output.ModeJSON:
				return r.JSON(infos)
			case output.ModeYAML:
				return r.YAML(infos)
			}

			rows := make([][]string, len(infos))
			for i, info := range infos {
				rows[i] = []string{info.Name, info.Description, info.Targets}
			}
			r.Table([]string{"type", "description", "source / target"}, rows)
			return nil
		},
	}
}
