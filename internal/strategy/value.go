package strategy

import (
	"fmt"
	"math"

	"github.com/wonny/marcus/internal/contracts"
)

// grahamConstant is 15 (max P/E) x 1.5 (max P/B)
const grahamConstant = 22.5

// ValueScorer applies Graham's defensive-investor criteria
type ValueScorer struct{}

// Score evaluates P/E, P/B, the Graham number, leverage and deep discount to book
func (ValueScorer) Score(q contracts.Quote) Evaluation {
	var e Evaluation

	pe, peOK := contracts.Positive(q.PERatio)
	pb, pbOK := contracts.Positive(q.PBRatio)

	if peOK {
		if pe < 10 {
			e.add(30, fmt.Sprintf("Very low P/E: %.1f", pe))
		} else if pe < 15 {
			e.add(20, fmt.Sprintf("Low P/E: %.1f", pe))
		}
	}

	if pbOK {
		if pb < 1 {
			e.add(25, fmt.Sprintf("Trading below book: P/B %.2f", pb))
		} else if pb < 1.5 {
			e.add(15, fmt.Sprintf("Low P/B: %.2f", pb))
		}
	}

	if g, ok := GrahamRatio(q); ok && g > 1 {
		e.add(20, fmt.Sprintf("Graham number positive (%.2f)", g))
	}

	if lowDebt(q) {
		e.add(15, fmt.Sprintf("Low debt/equity: %.1f", *q.DebtToEquity))
	}

	if pbOK && pb < 0.8 {
		e.add(10, fmt.Sprintf("Deep discount to book: P/B %.2f", pb))
	}

	return e
}

// GrahamRatio is sqrt(22.5 / (P/E * P/B)). Values above 1 mean the price sits
// under the Graham number. ok is false unless both ratios are present and positive.
func GrahamRatio(q contracts.Quote) (float64, bool) {
	pe, peOK := contracts.Positive(q.PERatio)
	pb, pbOK := contracts.Positive(q.PBRatio)
	if !peOK || !pbOK {
		return 0, false
	}
	product := pe * pb
	if math.IsInf(product, 0) || math.IsNaN(product) {
		return 0, false
	}
	return math.Sqrt(grahamConstant / product), true
}
