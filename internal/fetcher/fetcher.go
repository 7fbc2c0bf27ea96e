package fetcher

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/marcus/internal/contracts"
	"github.com/wonny/marcus/internal/indicators"
	"github.com/wonny/marcus/internal/session"
	"github.com/wonny/marcus/pkg/config"
	"github.com/wonny/marcus/pkg/logger"
	"github.com/wonny/marcus/pkg/redis"
)

// ErrInvalidPrice marks a provider quote that cannot be scored
var ErrInvalidPrice = errors.New("invalid price")

// Sleeper waits for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// Policy is the per-ticker fetch policy
type Policy struct {
	MaxAttempts   int           // total attempts per call, at least 1
	MinDelay      time.Duration // backoff = rand(MinDelay, MaxDelay) * attempt
	MaxDelay      time.Duration
	HistoryPeriod contracts.HistoryPeriod
}

// PolicyFromConfig maps the FETCH_* settings
func PolicyFromConfig(cfg config.FetchConfig) Policy {
	return Policy{
		MaxAttempts:   cfg.MaxRetries,
		MinDelay:      cfg.MinDelay,
		MaxDelay:      cfg.MaxDelay,
		HistoryPeriod: contracts.HistoryPeriod(cfg.HistoryPeriod),
	}
}

// Cache is the cross-run quote store. *redis.Cache satisfies it.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Fetcher turns provider calls into complete quotes
// ⭐ SSOT: 외부 시세 호출 정책 (재시도, 백오프, 스로틀, 캐시)은 여기서만
type Fetcher struct {
	provider  contracts.MarketDataProvider
	enrichers []contracts.Enricher
	calc      *indicators.Calculator
	limiter   *rate.Limiter
	policy    Policy
	logger    *logger.Logger

	cache    Cache // optional, cross-run
	cacheTTL time.Duration

	sleep  Sleeper
	jitter func() float64 // [0, 1)
	now    func() time.Time
}

// New creates a fetcher. The limiter spaces every provider call.
func New(provider contracts.MarketDataProvider, calc *indicators.Calculator, limiter *rate.Limiter, policy Policy, log *logger.Logger) *Fetcher {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.HistoryPeriod == "" {
		policy.HistoryPeriod = contracts.HistoryTwoYear
	}
	return &Fetcher{
		provider: provider,
		calc:     calc,
		limiter:  limiter,
		policy:   policy,
		logger:   log,
		sleep:    sleepContext,
		jitter:   rand.Float64,
		now:      time.Now,
	}
}

// NewLimiter builds the token bucket from config
func NewLimiter(cfg config.FetchConfig) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst)
}

// WithEnrichers adds fallback sources for absent fundamentals
func (f *Fetcher) WithEnrichers(enrichers ...contracts.Enricher) *Fetcher {
	f.enrichers = append(f.enrichers, enrichers...)
	return f
}

// WithCache enables the cross-run cache. ttl <= 0 uses redis.TTLMedium.
func (f *Fetcher) WithCache(cache Cache, ttl time.Duration) *Fetcher {
	if ttl <= 0 {
		ttl = redis.TTLMedium
	}
	f.cache = cache
	f.cacheTTL = ttl
	return f
}

// WithSleeper replaces the backoff sleep
func (f *Fetcher) WithSleeper(s Sleeper) *Fetcher {
	f.sleep = s
	return f
}

// WithJitter replaces the random source used for backoff
func (f *Fetcher) WithJitter(fn func() float64) *Fetcher {
	f.jitter = fn
	return f
}

// Session binds the fetcher to one run's cache
func (f *Fetcher) Session(cache *session.Cache) contracts.QuoteSource {
	return &sessionSource{fetcher: f, cache: cache}
}

// sessionSource implements contracts.QuoteSource for a single run
type sessionSource struct {
	fetcher *Fetcher
	cache   *session.Cache
}

// Quote returns the cached outcome or fetches once. Failures are logged and
// remembered; the ticker is then absent for the rest of the session.
func (s *sessionSource) Quote(ctx context.Context, ticker string) (contracts.Quote, bool) {
	if q, ok, found := s.cache.Get(ticker); found {
		return q, ok
	}

	q, err := s.fetcher.Fetch(ctx, ticker)
	if err != nil {
		s.fetcher.logger.WithError(err).WithField("ticker", ticker).Warn("Ticker excluded: fetch failed")
		s.cache.PutMiss(ticker)
		return contracts.Quote{}, false
	}

	s.cache.Put(ticker, q)
	return q, true
}

// Fetch builds a complete quote: provider quote, enrichment, history, indicators
func (f *Fetcher) Fetch(ctx context.Context, ticker string) (contracts.Quote, error) {
	var cached contracts.Quote
	if f.cache != nil {
		found, err := f.cache.Get(ctx, redis.QuoteKey(ticker), &cached)
		if err != nil {
			f.logger.WithError(err).WithField("ticker", ticker).Warn("Quote cache read failed")
		}
		if found {
			return cached, nil
		}
	}

	quote, err := retry(ctx, f, "quote", ticker, func(ctx context.Context) (*contracts.Quote, error) {
		return f.provider.FetchQuote(ctx, ticker)
	})
	if err != nil {
		return contracts.Quote{}, err
	}
	if quote == nil {
		return contracts.Quote{}, fmt.Errorf("%s: %w", ticker, contracts.ErrNoData)
	}
	if quote.CurrentPrice <= 0 {
		return contracts.Quote{}, fmt.Errorf("%s: %w: %v", ticker, ErrInvalidPrice, quote.CurrentPrice)
	}

	q := *quote
	if q.Ticker == "" {
		q.Ticker = ticker
	}

	for _, e := range f.enrichers {
		if !e.Supports(ticker) {
			continue
		}
		if err := e.Enrich(ctx, &q); err != nil {
			f.logger.WithError(err).WithField("ticker", ticker).Warn("Enrichment failed")
		}
	}

	closes := contracts.Closes(f.history(ctx, ticker))
	q = f.calc.Apply(q, closes)
	q.FetchedAt = f.now()

	if f.cache != nil {
		if err := f.cache.Set(ctx, redis.QuoteKey(ticker), q, f.cacheTTL); err != nil {
			f.logger.WithError(err).WithField("ticker", ticker).Warn("Quote cache write failed")
		}
	}

	return q, nil
}

// history never fails the quote: without history the indicators fall back
// to their neutral defaults
func (f *Fetcher) history(ctx context.Context, ticker string) []contracts.PricePoint {
	key := redis.HistoryKey(ticker, string(f.policy.HistoryPeriod))

	var points []contracts.PricePoint
	if f.cache != nil {
		found, err := f.cache.Get(ctx, key, &points)
		if err != nil {
			f.logger.WithError(err).WithField("ticker", ticker).Warn("History cache read failed")
		}
		if found {
			return points
		}
	}

	points, err := retry(ctx, f, "history", ticker, func(ctx context.Context) ([]contracts.PricePoint, error) {
		return f.provider.FetchHistory(ctx, ticker, f.policy.HistoryPeriod)
	})
	if err != nil {
		f.logger.WithError(err).WithField("ticker", ticker).Warn("History unavailable, using neutral indicators")
		return nil
	}

	if f.cache != nil && len(points) > 0 {
		if err := f.cache.Set(ctx, key, points, redis.TTLDaily); err != nil {
			f.logger.WithError(err).WithField("ticker", ticker).Warn("History cache write failed")
		}
	}
	return points
}

// retry runs fn up to MaxAttempts times. Every attempt waits for the limiter;
// failed attempts back off by rand(min, max) * attempt. ErrNoData and context
// errors stop immediately.
func retry[T any](ctx context.Context, f *Fetcher, op, ticker string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= f.policy.MaxAttempts; attempt++ {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				return zero, fmt.Errorf("rate limit wait failed: %w", err)
			}
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if errors.Is(err, contracts.ErrNoData) || ctx.Err() != nil {
			break
		}
		if attempt == f.policy.MaxAttempts {
			break
		}

		delay := f.backoff(attempt)
		f.logger.WithFields(map[string]interface{}{
			"ticker":  ticker,
			"op":      op,
			"attempt": attempt,
			"delay":   delay.String(),
			"error":   err.Error(),
		}).Warn("Fetch failed, retrying")

		if err := f.sleep(ctx, delay); err != nil {
			return zero, err
		}
	}

	return zero, fmt.Errorf("%s %s failed after retries: %w", op, ticker, lastErr)
}

// backoff returns rand(MinDelay, MaxDelay) scaled by the attempt number
func (f *Fetcher) backoff(attempt int) time.Duration {
	span := f.policy.MaxDelay - f.policy.MinDelay
	base := f.policy.MinDelay + time.Duration(f.jitter()*float64(span))
	return base * time.Duration(attempt)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
