package strategy

import (
	"fmt"

	"github.com/wonny/marcus/internal/contracts"
)

// defensiveSectors are the sectors Buy & Hold rewards for resilience
var defensiveSectors = map[string]bool{
	"Utilities":          true,
	"Consumer Defensive": true,
	"Consumer Staples":   true,
	"Healthcare":         true,
	"Health Care":        true,
}

// BuyHoldScorer rewards quality businesses at reasonable prices
type BuyHoldScorer struct{}

// Score evaluates ROE, P/B, P/E, leverage, growth and sector
func (BuyHoldScorer) Score(q contracts.Quote) Evaluation {
	var e Evaluation

	// ROE
	if roe, ok := contracts.Value(q.ROE); ok {
		if roe > 0.15 {
			e.add(25, fmt.Sprintf("Excellent ROE: %s", pct(roe)))
		} else if roe > 0.10 {
			e.add(15, fmt.Sprintf("Good ROE: %s", pct(roe)))
		}
	}

	// P/B
	if pb, ok := contracts.Positive(q.PBRatio); ok {
		if pb < 1.5 {
			e.add(20, fmt.Sprintf("Attractive P/B: %.2f", pb))
		} else if pb < 2.0 {
			e.add(10, fmt.Sprintf("Fair P/B: %.2f", pb))
		}
	}

	// P/E
	if pe, ok := contracts.Positive(q.PERatio); ok {
		if pe < 15 {
			e.add(20, fmt.Sprintf("Attractive P/E: %.1f", pe))
		} else if pe < 25 {
			e.add(10, fmt.Sprintf("Fair P/E: %.1f", pe))
		}
	}

	if lowDebt(q) {
		e.add(15, fmt.Sprintf("Low debt/equity: %.1f", *q.DebtToEquity))
	}

	if growth, ok := contracts.Value(q.RevenueGrowth); ok && growth > 0.05 {
		e.add(10, fmt.Sprintf("Revenue growing: %s", pct(growth)))
	}

	if defensiveSectors[q.Sector] {
		e.add(10, fmt.Sprintf("Defensive sector: %s", q.Sector))
	}

	return e
}

// lowDebt is shared by Buy & Hold and Value. D/E is in provider units
// (percent style), negative means negative equity and never qualifies.
func lowDebt(q contracts.Quote) bool {
	de, ok := contracts.Value(q.DebtToEquity)
	return ok && de >= 0 && de < 50
}
