package strategy

import (
	"fmt"
	"strings"

	"github.com/wonny/marcus/internal/contracts"
)

// perennialSectors are matched as case-insensitive substrings so both
// "Financial Services" and "Financials" qualify
var perennialSectors = []string{"financial", "utilities", "energy", "communication"}

// DividendScorer rewards reliable income payers
type DividendScorer struct{}

// Score evaluates yield, payout, ROE, sector and beta
func (DividendScorer) Score(q contracts.Quote) Evaluation {
	var e Evaluation

	if dy, ok := contracts.Value(q.DividendYield); ok {
		if dy > 0.06 {
			e.add(30, fmt.Sprintf("High dividend yield: %s", pct(dy)))
		} else if dy > 0.04 {
			e.add(20, fmt.Sprintf("Good dividend yield: %s", pct(dy)))
		}
	}

	if payout, ok := contracts.Positive(q.PayoutRatio); ok {
		if payout < 0.60 {
			e.add(25, fmt.Sprintf("Sustainable payout: %s", pct(payout)))
		} else if payout < 0.80 {
			e.add(15, fmt.Sprintf("Moderate payout: %s", pct(payout)))
		}
	}

	if roe, ok := contracts.Value(q.ROE); ok && roe > 0.12 {
		e.add(20, fmt.Sprintf("Solid ROE: %s", pct(roe)))
	}

	if perennialSector(q.Sector) {
		e.add(15, fmt.Sprintf("Perennial sector: %s", q.Sector))
	}

	if q.Beta < 1.2 {
		e.add(10, fmt.Sprintf("Low volatility (beta %.2f)", q.Beta))
	}

	return e
}

func perennialSector(sector string) bool {
	s := strings.ToLower(sector)
	for _, p := range perennialSectors {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
