package indicators

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/wonny/marcus/internal/contracts"
	"github.com/wonny/marcus/pkg/logger"
)

const (
	// TradingDaysPerYear is the sample count treated as one year of history
	TradingDaysPerYear = 252

	// DefaultRSIPeriod is the standard RSI lookback
	DefaultRSIPeriod = 14
)

// MomentumMode selects how 1-year momentum is measured
type MomentumMode string

const (
	// MomentumStrict requires a full year (252 closes) and compares against the close 252 samples back
	MomentumStrict MomentumMode = "strict"
	// MomentumWindow compares the last close with the first close of whatever window is available
	MomentumWindow MomentumMode = "window"
)

// ParseMomentumMode resolves a config value; empty means strict.
func ParseMomentumMode(s string) (MomentumMode, error) {
	switch MomentumMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MomentumStrict:
		return MomentumStrict, nil
	case MomentumWindow:
		return MomentumWindow, nil
	default:
		return "", fmt.Errorf("unknown momentum mode %q (valid: strict, window)", s)
	}
}

// Calculator derives technical fields from a close-price series
// ⭐ SSOT: 기술적 지표 계산은 여기서만
type Calculator struct {
	rsiPeriod    int
	momentumMode MomentumMode
	logger       *logger.Logger
}

// NewCalculator creates a new indicator calculator
func NewCalculator(mode MomentumMode, log *logger.Logger) *Calculator {
	if mode == "" {
		mode = MomentumStrict
	}
	return &Calculator{
		rsiPeriod:    DefaultRSIPeriod,
		momentumMode: mode,
		logger:       log,
	}
}

// Apply returns a copy of q with RSI, volatility and momentum populated.
// Provider-sourced fields are left as they are.
func (c *Calculator) Apply(q contracts.Quote, closes []float64) contracts.Quote {
	out := q

	out.RSI = RSI(closes, c.rsiPeriod)
	out.Volatility = nil
	out.Momentum1Y = nil

	if vol, ok := AnnualizedVolatility(closes); ok {
		out.Volatility = &vol
	}
	if mom, ok := Momentum(closes, c.momentumMode); ok {
		out.Momentum1Y = &mom
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":     q.Ticker,
		"samples":    len(closes),
		"rsi":        out.RSI,
		"volatility": out.Volatility,
		"momentum":   out.Momentum1Y,
	}).Debug("Calculated technical indicators")

	return out
}

// RSI calculates the relative strength index over the most recent period deltas.
// Gains and losses are averaged with a simple mean.
//
// Fewer than period+1 closes yields the neutral 50. When the mean loss is zero
// the result is 100 if there was any gain and 50 for a flat series.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return contracts.DefaultRSI
	}

	window := closes[len(closes)-period-1:]
	var gains, losses float64
	for i := 1; i < len(window); i++ {
		change := window[i] - window[i-1]
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		if avgGain > 0 {
			return 100.0
		}
		return contracts.DefaultRSI
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// DailyReturns converts closes into simple daily returns (fractions).
func DailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev <= 0 {
			continue
		}
		returns = append(returns, closes[i]/prev-1)
	}
	return returns
}

// AnnualizedVolatility is the standard deviation of the trailing year of daily
// returns scaled by sqrt(252). ok is false with less than one year of closes.
func AnnualizedVolatility(closes []float64) (float64, bool) {
	if len(closes) < TradingDaysPerYear {
		return 0, false
	}

	returns := DailyReturns(closes)
	if len(returns) > TradingDaysPerYear {
		returns = returns[len(returns)-TradingDaysPerYear:]
	}
	if len(returns) < 2 {
		return 0, false
	}

	return stat.StdDev(returns, nil) * math.Sqrt(TradingDaysPerYear), true
}

// Momentum returns the 1-year price change as a percentage.
func Momentum(closes []float64, mode MomentumMode) (float64, bool) {
	var past float64

	switch mode {
	case MomentumWindow:
		if len(closes) < 2 {
			return 0, false
		}
		past = closes[0]
	default:
		if len(closes) < TradingDaysPerYear {
			return 0, false
		}
		past = closes[len(closes)-TradingDaysPerYear]
	}

	if past <= 0 {
		return 0, false
	}

	last := closes[len(closes)-1]
	return (last/past - 1) * 100, true
}
