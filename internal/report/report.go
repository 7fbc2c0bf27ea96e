// Package report turns ranked results into summary statistics and exports.
package report

import (
	"time"

	"github.com/montanaflynn/stats"

	"github.com/wonny/marcus/internal/contracts"
)

// Summary holds the aggregate figures shown above the result list
type Summary struct {
	Count        int     `json:"count"`
	AverageScore float64 `json:"average_score"`
	TopSector    string  `json:"top_sector"`
}

// Report is the full outcome of one analysis run
// ⭐ SSOT: presentation 계층(CLI, API, CSV)에 전달되는 유일한 결과 형태
type Report struct {
	Strategy      contracts.StrategyName   `json:"strategy"`
	StrategyTitle string                   `json:"strategy_title"`
	Market        string                   `json:"market"`
	Universe      int                      `json:"universe"`
	Evaluated     int                      `json:"evaluated"`
	Skipped       []string                 `json:"skipped"`
	Results       []contracts.ScoredResult `json:"results"`
	Summary       Summary                  `json:"summary"`
	NoMatches     bool                     `json:"no_matches"`
	GeneratedAt   time.Time                `json:"generated_at"`
}

// New builds a report around already ranked results
func New(strategy contracts.StrategyName, results []contracts.ScoredResult) *Report {
	if results == nil {
		results = []contracts.ScoredResult{}
	}
	return &Report{
		Strategy:  strategy,
		Skipped:   []string{},
		Results:   results,
		Summary:   Summarize(results),
		NoMatches: len(results) == 0,
	}
}

// Summarize computes count, mean score and the modal sector.
// Sector ties go to the sector seen first in rank order.
func Summarize(results []contracts.ScoredResult) Summary {
	if len(results) == 0 {
		return Summary{}
	}

	scores := make(stats.Float64Data, len(results))
	for i, r := range results {
		scores[i] = float64(r.Score)
	}
	mean, err := stats.Mean(scores)
	if err != nil {
		mean = 0
	}

	return Summary{
		Count:        len(results),
		AverageScore: mean,
		TopSector:    topSector(results),
	}
}

func topSector(results []contracts.ScoredResult) string {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, r := range results {
		sector := r.Sector
		if sector == "" {
			sector = contracts.Unknown
		}
		if counts[sector] == 0 {
			order = append(order, sector)
		}
		counts[sector]++
	}

	best := ""
	for _, s := range order {
		if best == "" || counts[s] > counts[best] {
			best = s
		}
	}
	return best
}
