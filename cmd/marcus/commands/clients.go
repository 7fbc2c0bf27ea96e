package commands

import (
	"github.com/wonny/marcus/pkg/config"
	"github.com/wonny/marcus/pkg/httputil"
	"github.com/wonny/marcus/pkg/logger"
	"github.com/wonny/marcus/pkg/redis"
)

// newYahooHTTP builds the client for quoteSummary calls.
// The fetcher already retries whole quotes, so HTTP-level retry stays off.
func newYahooHTTP(cfg *config.Config, log *logger.Logger, limiter *redis.RateLimiter) *httputil.Client {
	return httputil.New(cfg, log).
		DisableRetry().
		WithHeader("Accept", "application/json").
		WithRateLimiter(limiter, redis.YahooRateLimit)
}

// newFundamentusHTTP builds the client for fundamentus pages.
// Enrichment is outside the fetcher retry loop, so it retries on its own with
// the same attempt budget (FETCH_MAX_RETRIES counts total attempts).
func newFundamentusHTTP(cfg *config.Config, log *logger.Logger, limiter *redis.RateLimiter) *httputil.Client {
	retries := cfg.Fetch.MaxRetries - 1
	if retries < 0 {
		retries = 0
	}
	return httputil.NewWithTimeout(cfg, log, cfg.Fundamentus.Timeout).
		WithRetry(retries, cfg.Fetch.MinDelay).
		WithHeader("Accept", "text/html").
		WithHeader("Accept-Language", "pt-BR,pt;q=0.9").
		WithRateLimiter(limiter, redis.FundamentusRateLimit)
}
