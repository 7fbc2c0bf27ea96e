package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "marcus",
	Short: "Marcus - stock screener for long-term and swing investors",
	Long: `Marcus stock screener

Ranks a market universe under one of four investor strategies:
buy_hold (Buffett), dividends (Barsi), value (Graham), swing_trade.

Usage:
  go run ./cmd/marcus [command]

Examples:
  go run ./cmd/marcus screen --strategy dividends --market BR
  go run ./cmd/marcus screen --strategy graham --tickers "PETR4,VALE3,ITUB4"
  go run ./cmd/marcus strategies
  go run ./cmd/marcus serve --port 8089`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
