package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/wonny/marcus/internal/contracts"
)

const summaryModules = "assetProfile,financialData,summaryDetail,defaultKeyStatistics"

// rawValue is Yahoo's {"raw": 0.15, "fmt": "15.00%"} wrapper. Missing values come as {}.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []summaryResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type summaryResult struct {
	AssetProfile struct {
		Sector   string `json:"sector"`
		Industry string `json:"industry"`
	} `json:"assetProfile"`

	FinancialData struct {
		ReturnOnEquity rawValue `json:"returnOnEquity"`
		DebtToEquity   rawValue `json:"debtToEquity"`
		RevenueGrowth  rawValue `json:"revenueGrowth"`
	} `json:"financialData"`

	SummaryDetail struct {
		PayoutRatio   rawValue `json:"payoutRatio"`
		Beta          rawValue `json:"beta"`
		DividendYield rawValue `json:"dividendYield"`
		TrailingPE    rawValue `json:"trailingPE"`
	} `json:"summaryDetail"`

	DefaultKeyStatistics struct {
		PriceToBook rawValue `json:"priceToBook"`
	} `json:"defaultKeyStatistics"`
}

// fetchSummary calls /v10/finance/quoteSummary/{ticker}
func (c *Client) fetchSummary(ctx context.Context, ticker string) (*summaryResult, error) {
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		strings.TrimRight(c.baseURL, "/"), url.PathEscape(ticker), url.QueryEscape(summaryModules))

	var resp summaryResponse
	if err := c.httpClient.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	if e := resp.QuoteSummary.Error; e != nil {
		return nil, fmt.Errorf("quoteSummary %s: %s", e.Code, e.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, errors.New("quoteSummary returned no result")
	}

	return &resp.QuoteSummary.Result[0], nil
}

// apply fills the quote. Summary values win for fields it owns; equity
// values are kept where the summary has nothing.
func (s *summaryResult) apply(q *contracts.Quote) {
	if sector := strings.TrimSpace(s.AssetProfile.Sector); sector != "" {
		q.Sector = sector
	}

	// fractions as delivered (0.15 = 15%)
	q.ROE = s.FinancialData.ReturnOnEquity.Raw
	q.RevenueGrowth = s.FinancialData.RevenueGrowth.Raw
	q.PayoutRatio = s.SummaryDetail.PayoutRatio.Raw

	// provider units (45.3 = 45.3%)
	q.DebtToEquity = s.FinancialData.DebtToEquity.Raw

	if beta := s.SummaryDetail.Beta.Raw; beta != nil && *beta != 0 {
		q.Beta = *beta
	}

	if dy := s.SummaryDetail.DividendYield.Raw; dy != nil {
		q.DividendYield = dy
	}
	if q.PERatio == nil {
		q.PERatio = positiveRaw(s.SummaryDetail.TrailingPE)
	}
	if q.PBRatio == nil {
		q.PBRatio = positiveRaw(s.DefaultKeyStatistics.PriceToBook)
	}
}

func positiveRaw(v rawValue) *float64 {
	if v.Raw == nil || *v.Raw == 0 {
		return nil
	}
	return v.Raw
}
