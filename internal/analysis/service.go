// Package analysis runs one screening request end to end.
package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/wonny/marcus/internal/contracts"
	"github.com/wonny/marcus/internal/report"
	"github.com/wonny/marcus/internal/selection"
	"github.com/wonny/marcus/internal/session"
	"github.com/wonny/marcus/internal/strategy"
	"github.com/wonny/marcus/internal/universe"
	"github.com/wonny/marcus/pkg/logger"
)

// SourceFactory binds a quote source to a per-run cache.
// *fetcher.Fetcher satisfies it.
type SourceFactory interface {
	Session(cache *session.Cache) contracts.QuoteSource
}

// Service wires universe, fetcher, ranker and screener
// ⭐ SSOT: 분석 실행 순서는 여기서만
type Service struct {
	universe *universe.Universe
	registry *strategy.Registry
	sources  SourceFactory
	screener *selection.Screener
	logger   *logger.Logger
	now      func() time.Time
}

// NewService creates a new analysis service
func NewService(u *universe.Universe, registry *strategy.Registry, sources SourceFactory, log *logger.Logger) *Service {
	return &Service{
		universe: u,
		registry: registry,
		sources:  sources,
		screener: selection.NewScreener(log),
		logger:   log,
		now:      time.Now,
	}
}

// Universe returns the configured markets
func (s *Service) Universe() *universe.Universe {
	return s.universe
}

// Strategies returns every registered strategy
func (s *Service) Strategies() []strategy.Definition {
	return s.registry.All()
}

// Run validates the request, ranks the universe and builds the report.
// An empty result is a report with NoMatches set, not an error.
func (s *Service) Run(ctx context.Context, req Request, progress contracts.ProgressFunc) (*report.Report, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	def, err := s.registry.Resolve(req.Strategy)
	if err != nil {
		return nil, ValidationError{"strategy", err.Error()}
	}

	tickers, err := s.universe.Build(req.Market, req.Categories, req.CustomTickers)
	if err != nil {
		var uerr universe.ValidationError
		if errors.As(err, &uerr) {
			return nil, ValidationError{uerr.Field, uerr.Message}
		}
		return nil, err
	}
	market, _ := s.universe.Market(req.Market)

	s.logger.WithFields(map[string]interface{}{
		"strategy": def.Name,
		"market":   market.ID,
		"tickers":  len(tickers),
		"sectors":  req.Sectors,
	}).Info("Analysis started")

	// A fresh session cache per run
	ranker := selection.NewRanker(s.sources.Session(session.NewCache()), s.logger)

	opts := selection.RankOptions{
		MinScore:   req.MinScore,
		MaxResults: req.MaxResults,
		Progress:   progress,
	}
	// Sector filtering happens after scoring, so truncate afterwards
	if len(req.Sectors) > 0 {
		opts.MaxResults = 0
	}

	ranking, err := ranker.Rank(ctx, def, tickers, opts)
	if err != nil {
		return nil, err
	}

	results := s.screener.Screen(ranking.Results, selection.ScreenerConfig{Sectors: req.Sectors})
	if len(results) > req.MaxResults {
		results = results[:req.MaxResults]
	}

	for i := range results {
		results[i].Quote.Market = market.ID
		if results[i].Quote.Currency == "" {
			results[i].FormattedPrice = contracts.FormatPrice(market.Currency, results[i].Quote.CurrentPrice)
		}
	}

	rep := report.New(def.Name, results)
	rep.StrategyTitle = def.Title
	rep.Market = market.ID
	rep.Universe = len(tickers)
	rep.Evaluated = ranking.Evaluated
	rep.Skipped = ranking.Skipped
	rep.GeneratedAt = s.now()

	s.logger.WithFields(map[string]interface{}{
		"strategy":   def.Name,
		"results":    rep.Summary.Count,
		"avg_score":  rep.Summary.AverageScore,
		"top_sector": rep.Summary.TopSector,
		"skipped":    len(rep.Skipped),
	}).Info("Analysis completed")

	return rep, nil
}
