package yahoo

import (
	"context"
	"fmt"
	"math"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/equity"

	"github.com/wonny/marcus/internal/contracts"
	"github.com/wonny/marcus/pkg/httputil"
	"github.com/wonny/marcus/pkg/logger"
)

// barIter is the part of chart.Iter the client reads
type barIter interface {
	Next() bool
	Bar() *finance.ChartBar
	Err() error
}

// Client fetches quotes and daily history from Yahoo Finance
// ⭐ SSOT: Yahoo Finance 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string

	getEquity func(symbol string) (*finance.Equity, error)
	getChart  func(params *chart.Params) barIter
	now       func() time.Time
}

// NewClient creates a new Yahoo Finance client.
// baseURL serves the quoteSummary endpoint (e.g. https://query2.finance.yahoo.com).
func NewClient(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
		getEquity:  equity.Get,
		getChart:   func(p *chart.Params) barIter { return chart.Get(p) },
		now:        time.Now,
	}
}

// FetchQuote combines the equity quote (price, multiples, range) with
// quoteSummary modules (sector, profitability, leverage, payout, beta).
// A failing summary leaves those metrics absent; a failing equity call fails the quote.
func (c *Client) FetchQuote(ctx context.Context, ticker string) (*contracts.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	eq, err := c.getEquity(ticker)
	if err != nil {
		return nil, fmt.Errorf("yahoo equity %s: %w", ticker, err)
	}
	if eq == nil {
		return nil, fmt.Errorf("yahoo equity %s: %w", ticker, contracts.ErrNoData)
	}

	q := fromEquity(ticker, eq)

	summary, err := c.fetchSummary(ctx, ticker)
	if err != nil {
		c.logger.WithError(err).WithField("ticker", ticker).Warn("quoteSummary unavailable, fundamentals partial")
	} else {
		summary.apply(&q)
	}

	return &q, nil
}

// FetchHistory returns daily closes over the period in chronological order
func (c *Client) FetchHistory(ctx context.Context, ticker string, period contracts.HistoryPeriod) ([]contracts.PricePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	end := c.now()
	start := end.Add(-period.Duration())

	points, err := readBars(c.getChart(chartParams(ticker, start, end)))
	if err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", ticker, err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: %w", ticker, contracts.ErrNoData)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"period": string(period),
		"bars":   len(points),
	}).Debug("Fetched price history")

	return points, nil
}

// fromEquity maps the equity payload into the quote conventions.
// Zero or non-finite multiples mean "not meaningful" and stay absent.
func fromEquity(ticker string, eq *finance.Equity) contracts.Quote {
	q := contracts.NewQuote(ticker)

	switch {
	case eq.LongName != "":
		q.Name = eq.LongName
	case eq.ShortName != "":
		q.Name = eq.ShortName
	}

	q.Currency = eq.CurrencyID
	q.CurrentPrice = eq.RegularMarketPrice
	q.MarketCap = eq.MarketCap
	q.FiftyTwoWeekHigh = eq.FiftyTwoWeekHigh
	q.FiftyTwoWeekLow = eq.FiftyTwoWeekLow

	q.PERatio = meaningful(eq.TrailingPE)
	q.PBRatio = meaningful(eq.PriceToBook)
	q.DividendYield = meaningful(eq.TrailingAnnualDividendYield)

	return q
}

func meaningful(v float64) *float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return contracts.Float(v)
}
