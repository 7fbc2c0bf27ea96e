package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/marcus/internal/universe"
	"github.com/wonny/marcus/pkg/config"
)

// universeCmd prints the configured markets and categories
var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "Show markets, categories and tickers",
	Long: `Prints the screening universe. Set UNIVERSE_FILE to use a custom YAML file.

Example:
  go run ./cmd/marcus universe --market US`,
	RunE: runUniverse,
}

var universeMarket string

func init() {
	rootCmd.AddCommand(universeCmd)

	universeCmd.Flags().StringVarP(&universeMarket, "market", "m", "", "show a single market")
}

func runUniverse(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	u, err := universe.Load(cfg.UniverseFile)
	if err != nil {
		return err
	}

	markets := u.Markets
	if universeMarket != "" {
		m, ok := u.Market(universeMarket)
		if !ok {
			return fmt.Errorf("unknown market %q", universeMarket)
		}
		markets = []universe.Market{*m}
	}

	PrintUniverse(cmd.OutOrStdout(), markets)
	return nil
}
