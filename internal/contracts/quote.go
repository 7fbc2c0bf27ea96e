package contracts

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Unknown is the display sentinel for missing name/sector strings.
// It is a valid value, never an error.
const Unknown = "N/A"

// Quote neutral defaults used when the provider or history cannot supply a value.
const (
	DefaultBeta = 1.0
	DefaultRSI  = 50.0 // 중립
)

// Quote is the normalized per-ticker record consumed by every strategy scorer
// ⭐ SSOT: provider → scorer 데이터 계약
//
// Units are fixed at this boundary and scorers never rescale:
//   - ROE, DividendYield, PayoutRatio, RevenueGrowth, Volatility are fractions (0.15 = 15%)
//   - Momentum1Y is a percentage (25.0 = +25%)
//   - DebtToEquity is the raw provider number (Yahoo reports 45.3 for 45.3%)
//
// Optional metrics are nil when the provider had nothing meaningful; a nil
// value never satisfies a threshold rule.
type Quote struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Market   string `json:"market,omitempty"`
	Currency string `json:"currency,omitempty"`

	CurrentPrice float64 `json:"current_price"`
	MarketCap    int64   `json:"market_cap"` // 0 = unknown

	PERatio       *float64 `json:"pe_ratio,omitempty"`
	PBRatio       *float64 `json:"pb_ratio,omitempty"`
	ROE           *float64 `json:"roe,omitempty"`
	DividendYield *float64 `json:"dividend_yield,omitempty"`
	PayoutRatio   *float64 `json:"payout_ratio,omitempty"`
	RevenueGrowth *float64 `json:"revenue_growth,omitempty"`
	DebtToEquity  *float64 `json:"debt_to_equity,omitempty"`

	Beta             float64 `json:"beta"`
	FiftyTwoWeekHigh float64 `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  float64 `json:"fifty_two_week_low"`

	// Technical fields, filled by the indicators package
	RSI        float64  `json:"rsi"`
	Volatility *float64 `json:"volatility,omitempty"`
	Momentum1Y *float64 `json:"momentum_1y,omitempty"`

	FetchedAt time.Time `json:"fetched_at"`
}

var (
	// ErrEmptyTicker is returned for a quote without identifier
	ErrEmptyTicker = errors.New("quote has empty ticker")
	// ErrNonPositivePrice marks a quote that cannot be scored
	ErrNonPositivePrice = errors.New("quote price must be positive")
)

// NewQuote returns a quote carrying the neutral defaults.
func NewQuote(ticker string) Quote {
	return Quote{
		Ticker: ticker,
		Name:   Unknown,
		Sector: Unknown,
		Beta:   DefaultBeta,
		RSI:    DefaultRSI,
	}
}

// Validate checks that the quote may enter the scoring pipeline.
// A quote that fails here is treated as absent, not as a zero score.
func (q *Quote) Validate() error {
	if strings.TrimSpace(q.Ticker) == "" {
		return ErrEmptyTicker
	}
	if q.CurrentPrice <= 0 {
		return fmt.Errorf("%s: %w", q.Ticker, ErrNonPositivePrice)
	}
	return nil
}

// Scorable reports whether the quote passes Validate.
func (q *Quote) Scorable() bool {
	return q.Validate() == nil
}

// RangePosition returns where the current price sits inside the 52-week range
// (0 = at the low, 1 = at the high). ok is false when the range is unusable.
func (q *Quote) RangePosition() (float64, bool) {
	if q.FiftyTwoWeekHigh <= 0 || q.FiftyTwoWeekLow <= 0 {
		return 0, false
	}
	span := q.FiftyTwoWeekHigh - q.FiftyTwoWeekLow
	if span <= 0 {
		return 0, false
	}
	return (q.CurrentPrice - q.FiftyTwoWeekLow) / span, true
}

// DisplayName returns the name, falling back to the ticker.
func (q *Quote) DisplayName() string {
	if q.Name == "" || q.Name == Unknown {
		return q.Ticker
	}
	return q.Name
}

// SectorOrUnknown never returns an empty string.
func (q *Quote) SectorOrUnknown() string {
	if strings.TrimSpace(q.Sector) == "" {
		return Unknown
	}
	return q.Sector
}

// Float returns a pointer to v. Providers use it for optional metrics.
func Float(v float64) *float64 {
	return &v
}

// Positive returns the value behind p when it is present and > 0.
// Ratio rules of the form 0 < x < limit go through this.
func Positive(p *float64) (float64, bool) {
	if p == nil || *p <= 0 {
		return 0, false
	}
	return *p, true
}

// Value returns the value behind p and whether it is present.
func Value(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

// PricePoint is a single daily close from the provider history
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Closes extracts close prices in chronological order, skipping non-positive values.
func Closes(points []PricePoint) []float64 {
	closes := make([]float64, 0, len(points))
	for _, p := range points {
		if p.Close > 0 {
			closes = append(closes, p.Close)
		}
	}
	return closes
}
