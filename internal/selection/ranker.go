package selection

import (
	"context"
	"sort"

	"github.com/wonny/marcus/internal/contracts"
	"github.com/wonny/marcus/internal/strategy"
	"github.com/wonny/marcus/pkg/logger"
)

// Ranker applies one strategy across a ticker universe
// ⭐ SSOT: 랭킹 로직은 여기서만
type Ranker struct {
	source contracts.QuoteSource
	logger *logger.Logger
}

// RankOptions are the already-validated run parameters
type RankOptions struct {
	MinScore   int // > 0 replaces the strategy floor
	MaxResults int // <= 0 means no truncation
	Progress   contracts.ProgressFunc
}

// Ranking is the outcome of one run
type Ranking struct {
	Strategy contracts.StrategyName   `json:"strategy"`
	Results  []contracts.ScoredResult `json:"results"`

	Evaluated int      `json:"evaluated"` // quotes that reached the scorer
	Qualified int      `json:"qualified"` // passed the inclusion rule, before truncation
	Skipped   []string `json:"skipped"`   // tickers without a usable quote
}

// NewRanker creates a new ranker
func NewRanker(source contracts.QuoteSource, logger *logger.Logger) *Ranker {
	return &Ranker{
		source: source,
		logger: logger,
	}
}

// Rank fetches, scores and orders the universe.
// Tickers are processed one at a time in universe order; cancellation is
// checked between tickers. Ties keep universe order.
func (r *Ranker) Rank(ctx context.Context, def strategy.Definition, universe []string, opts RankOptions) (*Ranking, error) {
	ranking := &Ranking{
		Strategy: def.Name,
		Results:  make([]contracts.ScoredResult, 0),
		Skipped:  make([]string, 0),
	}

	for i, ticker := range universe {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r.rankOne(ctx, def, ticker, opts.MinScore, ranking)

		if opts.Progress != nil {
			opts.Progress(i+1, len(universe), ticker)
		}
	}

	// cancellation during the last fetch
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ranking.Qualified = len(ranking.Results)

	// Sort by score (descending), stable for deterministic ties
	sort.SliceStable(ranking.Results, func(i, j int) bool {
		return ranking.Results[i].Score > ranking.Results[j].Score
	})

	if opts.MaxResults > 0 && len(ranking.Results) > opts.MaxResults {
		ranking.Results = ranking.Results[:opts.MaxResults]
	}

	// Assign ranks
	for i := range ranking.Results {
		ranking.Results[i].Rank = i + 1
	}

	fields := map[string]interface{}{
		"strategy":  def.Name,
		"universe":  len(universe),
		"evaluated": ranking.Evaluated,
		"qualified": ranking.Qualified,
		"returned":  len(ranking.Results),
		"skipped":   len(ranking.Skipped),
	}
	if len(ranking.Results) > 0 {
		fields["top_ticker"] = ranking.Results[0].Ticker
		fields["top_score"] = ranking.Results[0].Score
	}
	r.logger.WithFields(fields).Info("Ranking completed")

	return ranking, nil
}

func (r *Ranker) rankOne(ctx context.Context, def strategy.Definition, ticker string, minScore int, ranking *Ranking) {
	quote, ok := r.source.Quote(ctx, ticker)
	if !ok {
		ranking.Skipped = append(ranking.Skipped, ticker)
		return
	}

	// price <= 0 never reaches a scorer
	if err := quote.Validate(); err != nil {
		r.logger.WithError(err).WithField("ticker", ticker).Warn("Quote rejected")
		ranking.Skipped = append(ranking.Skipped, ticker)
		return
	}

	ranking.Evaluated++
	eval := def.Evaluate(quote)
	included := def.Include(eval, minScore)

	r.logger.WithFields(map[string]interface{}{
		"ticker":   ticker,
		"strategy": def.Name,
		"score":    eval.Score,
		"signals":  eval.Signals,
		"included": included,
	}).Debug("Ticker scored")

	if !included {
		return
	}

	ranking.Results = append(ranking.Results, contracts.NewScoredResult(quote, eval.Score, eval.Reasons, eval.Signals))
}
