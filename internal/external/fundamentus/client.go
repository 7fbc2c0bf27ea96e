package fundamentus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/wonny/marcus/internal/contracts"
	"github.com/wonny/marcus/pkg/httputil"
	"github.com/wonny/marcus/pkg/logger"
)

// Suffix marks B3 tickers on Yahoo
const Suffix = ".SA"

// Client reads fundamentals from fundamentus.com.br detail pages
// ⭐ SSOT: Fundamentus 스크래핑은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Fundamentus client
func NewClient(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Supports reports B3 tickers
func (c *Client) Supports(ticker string) bool {
	return strings.HasSuffix(strings.ToUpper(ticker), Suffix)
}

// Enrich fills metrics Yahoo left absent. Present values are never overwritten.
func (c *Client) Enrich(ctx context.Context, q *contracts.Quote) error {
	papel := strings.TrimSuffix(strings.ToUpper(q.Ticker), Suffix)

	page, err := c.fetchHTML(ctx, papel)
	if err != nil {
		return err
	}

	f, err := parseDetails(page)
	if err != nil {
		return fmt.Errorf("fundamentus %s: %w", papel, err)
	}

	filled := f.fill(q)

	c.logger.WithFields(map[string]interface{}{
		"ticker": q.Ticker,
		"filled": filled,
	}).Debug("Fundamentus enrichment applied")

	return nil
}

// fetchHTML downloads the detail page and decodes it to UTF-8.
// The charset comes from Content-Type or the page's meta tag; without either
// the HTML default (windows-1252, a superset of ISO-8859-1) applies.
func (c *Client) fetchHTML(ctx context.Context, papel string) (string, error) {
	fullURL := fmt.Sprintf("%s/detalhes.php?papel=%s", c.baseURL, url.QueryEscape(papel))

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("failed to detect page charset: %w", err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), nil
}
