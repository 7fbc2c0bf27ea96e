package selection

import (
	"strings"

	"github.com/wonny/marcus/internal/contracts"
	"github.com/wonny/marcus/pkg/logger"
)

// Screener applies post-scoring filters chosen by the user
// ⭐ SSOT: 섹터/시가총액 필터는 여기서만
type Screener struct {
	logger *logger.Logger
}

// ScreenerConfig defines the filter conditions. Zero values disable a filter.
type ScreenerConfig struct {
	// Sectors keeps only results in one of these sectors (case-insensitive)
	Sectors []string

	// MinMarketCap drops companies below this size; unknown (0) caps pass
	MinMarketCap int64
}

// NewScreener creates a new screener
func NewScreener(logger *logger.Logger) *Screener {
	return &Screener{
		logger: logger,
	}
}

// Screen filters ranked results and keeps their order. Ranks are reassigned.
func (s *Screener) Screen(results []contracts.ScoredResult, cfg ScreenerConfig) []contracts.ScoredResult {
	sectors := make(map[string]bool, len(cfg.Sectors))
	for _, sec := range cfg.Sectors {
		if sec = strings.ToLower(strings.TrimSpace(sec)); sec != "" {
			sectors[sec] = true
		}
	}

	if len(sectors) == 0 && cfg.MinMarketCap <= 0 {
		return results
	}

	passed := make([]contracts.ScoredResult, 0, len(results))
	filtered := make(map[string]int) // Filter name -> count

	for _, r := range results {
		if reason := s.checkConditions(r, sectors, cfg); reason != "" {
			filtered[reason]++
			continue
		}
		passed = append(passed, r)
	}

	for i := range passed {
		passed[i].Rank = i + 1
	}

	s.logger.WithFields(map[string]interface{}{
		"total_input":  len(results),
		"passed":       len(passed),
		"filtered_out": len(results) - len(passed),
		"filters":      filtered,
	}).Info("Screening completed")

	return passed
}

// checkConditions returns the name of the first failing filter, or ""
func (s *Screener) checkConditions(r contracts.ScoredResult, sectors map[string]bool, cfg ScreenerConfig) string {
	if len(sectors) > 0 && !sectors[strings.ToLower(r.Sector)] {
		return "sector"
	}

	if cfg.MinMarketCap > 0 && r.Quote.MarketCap > 0 && r.Quote.MarketCap < cfg.MinMarketCap {
		return "market_cap"
	}

	return ""
}
