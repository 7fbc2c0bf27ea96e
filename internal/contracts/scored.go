package contracts

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Signal is a swing-trade tag attached to a scored result
type Signal string

const (
	SignalBuy   Signal = "BUY"
	SignalSell  Signal = "SELL"
	SignalWatch Signal = "WATCH"
)

// MaxDisplayedReasons caps the reasons shown by presentation layers
const MaxDisplayedReasons = 3

// ScoredResult represents one (ticker, strategy) evaluation passed to the ranker
// ⭐ SSOT: scorer → ranker → presentation 전달
type ScoredResult struct {
	Ticker         string   `json:"ticker"`
	DisplayName    string   `json:"display_name"`
	Sector         string   `json:"sector"`
	FormattedPrice string   `json:"formatted_price"`
	Score          int      `json:"score"`   // 0 ~ 100
	Reasons        []string `json:"reasons"` // all computed reasons, rule order
	Signals        []Signal `json:"signals,omitempty"`
	Rank           int      `json:"rank"` // 1-based, set by the ranker

	Quote Quote `json:"quote"`
}

// TopReasons returns at most n reasons for display
func (r *ScoredResult) TopReasons(n int) []string {
	if n <= 0 || len(r.Reasons) <= n {
		return r.Reasons
	}
	return r.Reasons[:n]
}

// HasSignal checks whether the given tag is present
func (r *ScoredResult) HasSignal(s Signal) bool {
	for _, sig := range r.Signals {
		if sig == s {
			return true
		}
	}
	return false
}

// HasTradeSignal reports a BUY or SELL tag. WATCH does not count.
func (r *ScoredResult) HasTradeSignal() bool {
	return r.HasSignal(SignalBuy) || r.HasSignal(SignalSell)
}

// SignalString joins signals for tabular output
func (r *ScoredResult) SignalString() string {
	parts := make([]string, len(r.Signals))
	for i, s := range r.Signals {
		parts[i] = string(s)
	}
	return strings.Join(parts, ",")
}

// NewScoredResult builds the display shell of a result from its quote.
func NewScoredResult(q Quote, score int, reasons []string, signals []Signal) ScoredResult {
	if reasons == nil {
		reasons = []string{}
	}
	return ScoredResult{
		Ticker:         q.Ticker,
		DisplayName:    q.DisplayName(),
		Sector:         q.SectorOrUnknown(),
		FormattedPrice: FormatPrice(q.Currency, q.CurrentPrice),
		Score:          score,
		Reasons:        reasons,
		Signals:        signals,
		Quote:          q,
	}
}

// FormatPrice renders a price with two decimals and an optional currency prefix.
func FormatPrice(currency string, price float64) string {
	s := decimal.NewFromFloat(price).StringFixed(2)
	if currency == "" {
		return s
	}
	return currency + " " + s
}
