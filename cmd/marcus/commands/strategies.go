package commands

import (
	"github.com/spf13/cobra"

	"github.com/wonny/marcus/internal/strategy"
)

// strategiesCmd lists the strategies
var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List available strategies",
	RunE: func(cmd *cobra.Command, args []string) error {
		PrintStrategies(cmd.OutOrStdout(), strategy.NewRegistry().All())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
}
