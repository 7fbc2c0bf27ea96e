package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/marcus/internal/analysis"
	"github.com/wonny/marcus/internal/report"
	"github.com/wonny/marcus/internal/universe"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Rank a universe under one strategy",
	Long: `Fetches every ticker of the selected universe one at a time,
scores it under the chosen strategy and prints the ranked list.

Example:
  go run ./cmd/marcus screen --strategy buy_hold --market BR --category blue_chips
  go run ./cmd/marcus screen --strategy swing --market US --limit 5
  go run ./cmd/marcus screen --strategy barsi --sector Utilities --csv out.csv`,
	RunE: runScreen,
}

var (
	screenStrategy   string
	screenMarket     string
	screenCategories []string
	screenSectors    []string
	screenTickers    string
	screenLimit      int
	screenMinScore   int
	screenCSV        string
)

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().StringVarP(&screenStrategy, "strategy", "s", "buy_hold", "strategy or alias (buffett, barsi, graham, swing)")
	screenCmd.Flags().StringVarP(&screenMarket, "market", "m", analysis.DefaultMarket, "market id (BR, US)")
	screenCmd.Flags().StringSliceVarP(&screenCategories, "category", "c", nil, "universe categories (default: all)")
	screenCmd.Flags().StringSliceVar(&screenSectors, "sector", nil, "keep only these sectors")
	screenCmd.Flags().StringVarP(&screenTickers, "tickers", "t", "", "custom ticker list, replaces the universe")
	screenCmd.Flags().IntVarP(&screenLimit, "limit", "n", analysis.DefaultMaxResults, "maximum results (1-50)")
	screenCmd.Flags().IntVar(&screenMinScore, "min-score", 0, "minimum score (0 = strategy default)")
	screenCmd.Flags().StringVar(&screenCSV, "csv", "", "write results to this CSV file")
}

func runScreen(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req := analysis.Request{
		Strategy:      screenStrategy,
		Market:        screenMarket,
		Categories:    screenCategories,
		Sectors:       screenSectors,
		CustomTickers: universe.ParseTickers(screenTickers),
		MaxResults:    screenLimit,
		MinScore:      screenMinScore,
	}

	out := cmd.OutOrStdout()
	PrintHeader(out, "Screening", req)

	rep, err := a.service.Run(ctx, req, func(done, total int, ticker string) {
		PrintProgress(out, ticker, done, total)
	})
	if err != nil {
		if ctx.Err() != nil {
			PrintWarning(out, "Screening cancelled")
		}
		return err
	}

	PrintReport(out, rep)

	if screenCSV != "" {
		if err := writeCSVFile(screenCSV, rep); err != nil {
			return err
		}
		PrintSuccess(out, fmt.Sprintf("CSV written to %s", screenCSV))
	}
	return nil
}

func writeCSVFile(path string, rep *report.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := report.WriteCSV(f, rep.Results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
