package analysis

import (
	"fmt"
	"strings"
)

// Result limits
const (
	DefaultMaxResults = 10
	MaxResultsLimit   = 50
	DefaultMarket     = "BR"
)

// Request is one screening run as configured by the user
type Request struct {
	Strategy      string   `json:"strategy"`
	Market        string   `json:"market"`
	Categories    []string `json:"categories,omitempty"`
	Sectors       []string `json:"sectors,omitempty"`
	CustomTickers []string `json:"custom_tickers,omitempty"`
	MaxResults    int      `json:"max_results"`
	MinScore      int      `json:"min_score"` // 0 = strategy floor
}

// ValidationError 요청 검증 실패
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Normalize applies defaults, trims list entries and checks bounds
func (r Request) Normalize() (Request, error) {
	r.Strategy = strings.TrimSpace(r.Strategy)
	if r.Strategy == "" {
		return r, ValidationError{"strategy", "required"}
	}

	r.Market = strings.ToUpper(strings.TrimSpace(r.Market))
	if r.Market == "" {
		r.Market = DefaultMarket
	}

	r.Categories = clean(r.Categories)
	r.Sectors = clean(r.Sectors)
	r.CustomTickers = clean(r.CustomTickers)

	if r.MaxResults == 0 {
		r.MaxResults = DefaultMaxResults
	}
	if r.MaxResults < 1 || r.MaxResults > MaxResultsLimit {
		return r, ValidationError{"max_results", fmt.Sprintf("must be between 1 and %d", MaxResultsLimit)}
	}

	if r.MinScore < 0 || r.MinScore > 100 {
		return r, ValidationError{"min_score", "must be between 0 and 100"}
	}

	return r, nil
}

func clean(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
