package strategy

import (
	"fmt"

	"github.com/wonny/marcus/internal/contracts"
)

// SwingScorer reads technical setups from RSI, range position, momentum and volatility
type SwingScorer struct{}

// Score evaluates the technical fields. Signals are attached alongside points;
// an overbought RSI tags SELL without scoring.
func (SwingScorer) Score(q contracts.Quote) Evaluation {
	var e Evaluation

	// RSI zones
	switch rsi := q.RSI; {
	case rsi >= 30 && rsi <= 40:
		e.add(25, fmt.Sprintf("RSI near oversold: %.1f", rsi))
		e.signal(contracts.SignalBuy)
	case rsi >= 60 && rsi <= 70:
		e.add(15, fmt.Sprintf("RSI strong: %.1f", rsi))
		e.signal(contracts.SignalWatch)
	case rsi > 70:
		e.Reasons = append(e.Reasons, fmt.Sprintf("RSI overbought: %.1f", rsi))
		e.signal(contracts.SignalSell)
	}

	// 52-week range position
	if pos, ok := q.RangePosition(); ok {
		if pos < 0.3 {
			e.add(20, fmt.Sprintf("Near 52-week low (%.0f%% of range)", pos*100))
			e.signal(contracts.SignalBuy)
		} else if pos > 0.8 {
			e.add(10, fmt.Sprintf("Near 52-week high (%.0f%% of range)", pos*100))
			e.signal(contracts.SignalSell)
		}
	}

	if mom, ok := contracts.Value(q.Momentum1Y); ok && mom > 20 {
		e.add(15, fmt.Sprintf("Strong 1y momentum: %+.1f%%", mom))
	}

	if vol, ok := contracts.Value(q.Volatility); ok && vol > 0.2 && vol < 0.6 {
		e.add(10, fmt.Sprintf("Tradable volatility: %s", pct(vol)))
	}

	return e
}
