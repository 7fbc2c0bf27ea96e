package strategy

import (
	"fmt"

	"github.com/wonny/marcus/internal/contracts"
)

// MaxScore is the upper bound of every scorer
const MaxScore = 100

// Evaluation is the output of one scorer for one quote
type Evaluation struct {
	Score   int
	Reasons []string // rule order
	Signals []contracts.Signal
}

// add applies one satisfied rule
func (e *Evaluation) add(points int, reason string) {
	e.Score += points
	e.Reasons = append(e.Reasons, reason)
}

// signal appends a tag once
func (e *Evaluation) signal(s contracts.Signal) {
	for _, existing := range e.Signals {
		if existing == s {
			return
		}
	}
	e.Signals = append(e.Signals, s)
}

// HasTradeSignal reports a BUY or SELL tag
func (e Evaluation) HasTradeSignal() bool {
	for _, s := range e.Signals {
		if s == contracts.SignalBuy || s == contracts.SignalSell {
			return true
		}
	}
	return false
}

func (e Evaluation) clamped() Evaluation {
	if e.Score > MaxScore {
		e.Score = MaxScore
	}
	if e.Score < 0 {
		e.Score = 0
	}
	if e.Reasons == nil {
		e.Reasons = []string{}
	}
	return e
}

// Scorer maps a quote to a score. Implementations are pure: the same quote
// always yields the same evaluation and nothing is mutated.
type Scorer interface {
	Score(q contracts.Quote) Evaluation
}

// Definition binds a scorer to its name and inclusion rule
// ⭐ SSOT: 전략별 최소 점수와 포함 규칙은 여기서만
type Definition struct {
	Name        contracts.StrategyName
	Title       string
	Description string
	MinScore    int
	Scorer      Scorer

	// IncludeOnSignal admits results carrying BUY or SELL regardless of score
	IncludeOnSignal bool
}

// Evaluate runs the scorer and clamps the score into [0, 100]
func (d Definition) Evaluate(q contracts.Quote) Evaluation {
	return d.Scorer.Score(q).clamped()
}

// Include reports whether an evaluation makes it into the results.
// A positive minScore replaces the strategy floor.
func (d Definition) Include(e Evaluation, minScore int) bool {
	floor := d.MinScore
	if minScore > 0 {
		floor = minScore
	}
	if d.IncludeOnSignal && e.HasTradeSignal() {
		return true
	}
	return e.Score >= floor
}

// Registry holds the available strategies in display order
type Registry struct {
	defs  []Definition
	index map[contracts.StrategyName]int
}

// NewRegistry creates a registry with the four built-in strategies
func NewRegistry() *Registry {
	r := &Registry{index: make(map[contracts.StrategyName]int)}
	r.register(Definition{
		Name:        contracts.StrategyBuyHold,
		Title:       "Buy & Hold (Buffett)",
		Description: "Quality compounders: high ROE, fair multiples, low debt, growing revenue",
		MinScore:    50,
		Scorer:      BuyHoldScorer{},
	})
	r.register(Definition{
		Name:        contracts.StrategyDividends,
		Title:       "Dividends (Barsi)",
		Description: "Steady income: high yield, sustainable payout, perennial sectors",
		MinScore:    45,
		Scorer:      DividendScorer{},
	})
	r.register(Definition{
		Name:        contracts.StrategyValue,
		Title:       "Value (Graham)",
		Description: "Cheap on earnings and book value with a margin of safety",
		MinScore:    40,
		Scorer:      ValueScorer{},
	})
	r.register(Definition{
		Name:            contracts.StrategySwing,
		Title:           "Swing Trade",
		Description:     "Technical setups: RSI zones, 52-week range position, momentum",
		MinScore:        35,
		Scorer:          SwingScorer{},
		IncludeOnSignal: true,
	})
	return r
}

func (r *Registry) register(d Definition) {
	r.index[d.Name] = len(r.defs)
	r.defs = append(r.defs, d)
}

// Lookup returns the definition for a canonical name
func (r *Registry) Lookup(name contracts.StrategyName) (Definition, bool) {
	i, ok := r.index[name]
	if !ok {
		return Definition{}, false
	}
	return r.defs[i], true
}

// Resolve accepts a canonical name or alias
func (r *Registry) Resolve(s string) (Definition, error) {
	name, err := contracts.ParseStrategy(s)
	if err != nil {
		return Definition{}, err
	}
	def, ok := r.Lookup(name)
	if !ok {
		return Definition{}, fmt.Errorf("strategy %s is not registered", name)
	}
	return def, nil
}

// All returns every definition in display order
func (r *Registry) All() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

func pct(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}
