package contracts

import (
	"context"
	"errors"
	"time"
)

// ErrNoData is returned by providers when a ticker has no usable data.
// It is permanent: callers do not retry it.
var ErrNoData = errors.New("no data for ticker")

// HistoryPeriod is a provider range string such as "1y" or "2y"
type HistoryPeriod string

const (
	HistoryOneYear HistoryPeriod = "1y"
	HistoryTwoYear HistoryPeriod = "2y"
)

// Duration converts the period to a lookback window. Unknown values fall back to one year.
func (p HistoryPeriod) Duration() time.Duration {
	switch p {
	case "6mo":
		return 183 * 24 * time.Hour
	case HistoryTwoYear:
		return 2 * 365 * 24 * time.Hour
	case "5y":
		return 5 * 365 * 24 * time.Hour
	default:
		return 366 * 24 * time.Hour
	}
}

// MarketDataProvider fetches raw data for one ticker
// ⭐ SSOT: 외부 시세 제공자 인터페이스
//
// FetchQuote returns a quote normalized to the Quote unit conventions.
// FetchHistory returns daily closes in chronological order.
type MarketDataProvider interface {
	FetchQuote(ctx context.Context, ticker string) (*Quote, error)
	FetchHistory(ctx context.Context, ticker string, period HistoryPeriod) ([]PricePoint, error)
}

// Enricher fills metrics the primary provider left absent.
// It must not overwrite values that are already present.
type Enricher interface {
	Supports(ticker string) bool
	Enrich(ctx context.Context, q *Quote) error
}

// QuoteSource yields fully populated quotes for the ranking pipeline.
// ok is false when the ticker must be skipped (fetch failure, invalid data).
type QuoteSource interface {
	Quote(ctx context.Context, ticker string) (Quote, bool)
}

// ProgressFunc is called after each ticker is processed
type ProgressFunc func(done, total int, ticker string)
