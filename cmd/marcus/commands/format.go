package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wonny/marcus/internal/analysis"
	"github.com/wonny/marcus/internal/contracts"
	"github.com/wonny/marcus/internal/report"
	"github.com/wonny/marcus/internal/strategy"
	"github.com/wonny/marcus/internal/universe"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	highScoreStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
	midScoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	lowScoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	buySignalStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
	sellSignalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
)

const (
	doubleSeparator = "═══════════════════════════════════════════════════════════"
	separator       = "───────────────────────────────────────────────────────────"
)

// result table columns
var (
	columns = []string{"#", "Ticker", "Name", "Sector", "Price", "Score", "Signal"}
	widths  = []int{3, 10, 24, 20, 14, 5, 9}
)

// PrintHeader prints a formatted run header
func PrintHeader(w io.Writer, title string, req analysis.Request) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, doubleSeparator)
	fmt.Fprintf(w, "  %s\n", titleStyle.Render(title))
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "  Strategy  : %s\n", req.Strategy)
	fmt.Fprintf(w, "  Market    : %s\n", req.Market)
	if len(req.CustomTickers) > 0 {
		fmt.Fprintf(w, "  Tickers   : %s\n", strings.Join(req.CustomTickers, ", "))
	} else if len(req.Categories) > 0 {
		fmt.Fprintf(w, "  Categories: %s\n", strings.Join(req.Categories, ", "))
	}
	if len(req.Sectors) > 0 {
		fmt.Fprintf(w, "  Sectors   : %s\n", strings.Join(req.Sectors, ", "))
	}
	fmt.Fprintln(w, separator)
}

// PrintProgress prints a progress step with counter
// Example: [Screen] PETR4.SA [3/40]
func PrintProgress(w io.Writer, ticker string, current, total int) {
	fmt.Fprintf(w, "%s %s [%d/%d]\n", mutedStyle.Render("[Screen]"), ticker, current, total)
}

// PrintReport prints the ranked table and the summary
func PrintReport(w io.Writer, rep *report.Report) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, doubleSeparator)
	fmt.Fprintf(w, "  %s\n", titleStyle.Render(fmt.Sprintf("%s  ·  %s", rep.StrategyTitle, rep.Market)))
	fmt.Fprintln(w, doubleSeparator)

	if rep.NoMatches {
		PrintWarning(w, "No matches: no ticker met the strategy criteria")
		printSkipped(w, rep.Skipped)
		return
	}

	printTableHeader(w)
	for _, r := range rep.Results {
		printResultRow(w, r)
	}

	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "  Results     : %d of %d evaluated (universe %d)\n", rep.Summary.Count, rep.Evaluated, rep.Universe)
	fmt.Fprintf(w, "  Avg score   : %.1f\n", rep.Summary.AverageScore)
	fmt.Fprintf(w, "  Top sector  : %s\n", rep.Summary.TopSector)
	printSkipped(w, rep.Skipped)
	fmt.Fprintln(w, doubleSeparator)
}

func printTableHeader(w io.Writer) {
	cells := make([]string, len(columns))
	for i, col := range columns {
		cells[i] = headerStyle.Width(widths[i]).Render(col)
	}
	fmt.Fprintln(w, strings.Join(cells, "  "))
	fmt.Fprintln(w, separator)
}

func printResultRow(w io.Writer, r contracts.ScoredResult) {
	cells := []string{
		lipgloss.NewStyle().Width(widths[0]).Render(fmt.Sprintf("%d", r.Rank)),
		lipgloss.NewStyle().Width(widths[1]).Render(r.Ticker),
		lipgloss.NewStyle().Width(widths[2]).Render(truncate(r.DisplayName, widths[2])),
		lipgloss.NewStyle().Width(widths[3]).Render(truncate(r.Sector, widths[3])),
		lipgloss.NewStyle().Width(widths[4]).Render(r.FormattedPrice),
		scoreStyle(r.Score).Width(widths[5]).Render(fmt.Sprintf("%d", r.Score)),
		signalStyle(r).Width(widths[6]).Render(r.SignalString()),
	}
	fmt.Fprintln(w, strings.Join(cells, "  "))

	for _, reason := range r.TopReasons(contracts.MaxDisplayedReasons) {
		fmt.Fprintf(w, "     %s %s\n", mutedStyle.Render("•"), reason)
	}
}

func printSkipped(w io.Writer, skipped []string) {
	if len(skipped) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s\n", mutedStyle.Render(fmt.Sprintf("Skipped (%d): %s", len(skipped), strings.Join(skipped, ", "))))
}

func scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 70:
		return highScoreStyle
	case score >= 45:
		return midScoreStyle
	default:
		return lowScoreStyle
	}
}

func signalStyle(r contracts.ScoredResult) lipgloss.Style {
	switch {
	case r.HasSignal(contracts.SignalBuy):
		return buySignalStyle
	case r.HasSignal(contracts.SignalSell):
		return sellSignalStyle
	default:
		return mutedStyle
	}
}

// PrintStrategies prints the strategy list
func PrintStrategies(w io.Writer, defs []strategy.Definition) {
	fmt.Fprintln(w, doubleSeparator)
	for _, d := range defs {
		fmt.Fprintf(w, "  %s  %s\n", headerStyle.Render(string(d.Name)), d.Title)
		fmt.Fprintf(w, "      %s\n", d.Description)
		fmt.Fprintf(w, "      %s\n", mutedStyle.Render(fmt.Sprintf("min score %d", d.MinScore)))
	}
	fmt.Fprintln(w, doubleSeparator)
}

// PrintUniverse prints markets with their categories
func PrintUniverse(w io.Writer, markets []universe.Market) {
	for _, m := range markets {
		fmt.Fprintln(w, doubleSeparator)
		fmt.Fprintf(w, "  %s  %s (%s)\n", titleStyle.Render(m.ID), m.Name, m.Currency)
		fmt.Fprintln(w, separator)
		for _, c := range m.Categories {
			fmt.Fprintf(w, "  %s %s\n", headerStyle.Render(c.ID), mutedStyle.Render(fmt.Sprintf("(%d)", len(c.Tickers))))
			fmt.Fprintf(w, "      %s\n", strings.Join(c.Tickers, ", "))
		}
	}
	fmt.Fprintln(w, doubleSeparator)
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "⚠️  %s\n", message)
	fmt.Fprintln(w)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintf(w, "✅ %s\n", message)
}

// truncate shortens s to n runes with an ellipsis
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
