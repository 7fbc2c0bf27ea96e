package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/marcus/internal/contracts"
	"github.com/wonny/marcus/pkg/config"
	"github.com/wonny/marcus/pkg/httputil"
	"github.com/wonny/marcus/pkg/logger"
)

const summaryJSON = `{
  "quoteSummary": {
    "result": [{
      "assetProfile": {"sector": "Healthcare", "industry": "Drug Manufacturers"},
      "financialData": {
        "returnOnEquity": {"raw": 0.18, "fmt": "18.00%"},
        "debtToEquity": {"raw": 30.2, "fmt": "30.20"},
        "revenueGrowth": {"raw": 0.08, "fmt": "8.00%"}
      },
      "summaryDetail": {
        "payoutRatio": {"raw": 0.45, "fmt": "45.00%"},
        "beta": {"raw": 0.55, "fmt": "0.55"},
        "dividendYield": {},
        "trailingPE": {"raw": 15.2, "fmt": "15.20"}
      },
      "defaultKeyStatistics": {"priceToBook": {"raw": 5.1, "fmt": "5.10"}}
    }],
    "error": null
  }
}`

type fakeIter struct {
	bars []*finance.ChartBar
	pos  int
	err  error
}

func (f *fakeIter) Next() bool {
	if f.pos >= len(f.bars) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeIter) Bar() *finance.ChartBar { return f.bars[f.pos-1] }
func (f *fakeIter) Err() error             { return f.err }

func bar(ts int, price float64) *finance.ChartBar {
	return &finance.ChartBar{Timestamp: ts, Close: decimal.NewFromFloat(price)}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.Default()
	hc := httputil.New(cfg, logger.NewNop()).DisableRetry()
	return NewClient(hc, server.URL, logger.NewNop())
}

func testEquity() *finance.Equity {
	eq := &finance.Equity{}
	eq.ShortName = "Johnson & Johnson"
	eq.CurrencyID = "USD"
	eq.RegularMarketPrice = 155.2
	eq.FiftyTwoWeekHigh = 175
	eq.FiftyTwoWeekLow = 143
	eq.TrailingPE = 12
	eq.PriceToBook = 0
	eq.MarketCap = 373_000_000_000
	return eq
}

func TestFetchQuote(t *testing.T) {
	var path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(summaryJSON))
	})
	c.getEquity = func(symbol string) (*finance.Equity, error) {
		assert.Equal(t, "JNJ", symbol)
		return testEquity(), nil
	}

	q, err := c.FetchQuote(context.Background(), "JNJ")
	require.NoError(t, err)

	assert.Equal(t, "/v10/finance/quoteSummary/JNJ", path)
	assert.Equal(t, "Johnson & Johnson", q.Name)
	assert.Equal(t, "Healthcare", q.Sector)
	assert.Equal(t, 155.2, q.CurrentPrice)
	assert.Equal(t, int64(373_000_000_000), q.MarketCap)
	assert.Equal(t, 0.55, q.Beta)

	require.NotNil(t, q.ROE)
	assert.Equal(t, 0.18, *q.ROE)
	require.NotNil(t, q.DebtToEquity)
	assert.Equal(t, 30.2, *q.DebtToEquity)
	require.NotNil(t, q.RevenueGrowth)
	assert.Equal(t, 0.08, *q.RevenueGrowth)
	require.NotNil(t, q.PayoutRatio)
	assert.Equal(t, 0.45, *q.PayoutRatio)

	// equity P/E wins, summary fills the missing P/B
	require.NotNil(t, q.PERatio)
	assert.Equal(t, 12.0, *q.PERatio)
	require.NotNil(t, q.PBRatio)
	assert.Equal(t, 5.1, *q.PBRatio)

	// {} in the summary means absent, not zero
	assert.Nil(t, q.DividendYield)
}

func TestFetchQuote_SummaryFailureKeepsEquityFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	c.getEquity = func(string) (*finance.Equity, error) { return testEquity(), nil }

	q, err := c.FetchQuote(context.Background(), "JNJ")
	require.NoError(t, err)
	assert.Equal(t, contracts.Unknown, q.Sector)
	assert.Equal(t, contracts.DefaultBeta, q.Beta)
	assert.Nil(t, q.ROE)
	assert.Nil(t, q.PBRatio)
}

func TestFetchQuote_EquityErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	c.getEquity = func(string) (*finance.Equity, error) { return nil, nil }
	_, err := c.FetchQuote(context.Background(), "NOPE")
	assert.ErrorIs(t, err, contracts.ErrNoData)

	c.getEquity = func(string) (*finance.Equity, error) { return nil, errors.New("remote-error") }
	_, err = c.FetchQuote(context.Background(), "NOPE")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, contracts.ErrNoData))
}

func TestFetchQuote_SummaryError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"Quote not found"}}}`))
	})

	_, err := c.fetchSummary(context.Background(), "XXXX")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Quote not found"))
}

func TestFromEquity_NameFallbacks(t *testing.T) {
	eq := &finance.Equity{}
	q := fromEquity("ABEV3.SA", eq)
	assert.Equal(t, contracts.Unknown, q.Name)
	assert.Equal(t, "ABEV3.SA", q.DisplayName())

	eq.LongName = "Ambev S.A."
	eq.ShortName = "AMBEV S/A ON"
	assert.Equal(t, "Ambev S.A.", fromEquity("ABEV3.SA", eq).Name)
}

func TestFetchHistory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	var params *chart.Params
	c.getChart = func(p *chart.Params) barIter {
		params = p
		return &fakeIter{bars: []*finance.ChartBar{
			bar(1700000000, 10.5),
			bar(1700086400, 0), // missing close
			bar(1700172800, 11.25),
		}}
	}

	points, err := c.FetchHistory(context.Background(), "AAPL", contracts.HistoryOneYear)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 10.5, points[0].Close)
	assert.Equal(t, 11.25, points[1].Close)
	assert.True(t, points[0].Date.Before(points[1].Date))
	assert.Equal(t, "AAPL", params.Symbol)
}

func TestFetchHistory_Errors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	c.getChart = func(*chart.Params) barIter { return &fakeIter{} }
	_, err := c.FetchHistory(context.Background(), "AAPL", contracts.HistoryOneYear)
	assert.ErrorIs(t, err, contracts.ErrNoData)

	c.getChart = func(*chart.Params) barIter { return &fakeIter{err: errors.New("rate limited")} }
	_, err = c.FetchHistory(context.Background(), "AAPL", contracts.HistoryOneYear)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.FetchHistory(ctx, "AAPL", contracts.HistoryOneYear)
	assert.ErrorIs(t, err, context.Canceled)
}
