package contracts

import (
	"fmt"
	"strings"
)

// StrategyName identifies one of the investor rule sets
type StrategyName string

const (
	StrategyBuyHold   StrategyName = "buy_hold"    // Buffett
	StrategyDividends StrategyName = "dividends"   // Barsi
	StrategyValue     StrategyName = "value"       // Graham
	StrategySwing     StrategyName = "swing_trade" // technical
)

// strategyAliases maps accepted user input to canonical names
var strategyAliases = map[string]StrategyName{
	"buy_hold":    StrategyBuyHold,
	"buy-hold":    StrategyBuyHold,
	"buyhold":     StrategyBuyHold,
	"buffett":     StrategyBuyHold,
	"dividends":   StrategyDividends,
	"dividend":    StrategyDividends,
	"barsi":       StrategyDividends,
	"value":       StrategyValue,
	"graham":      StrategyValue,
	"swing_trade": StrategySwing,
	"swing-trade": StrategySwing,
	"swing":       StrategySwing,
}

// AllStrategies returns the canonical names in display order
func AllStrategies() []StrategyName {
	return []StrategyName{
		StrategyBuyHold,
		StrategyDividends,
		StrategyValue,
		StrategySwing,
	}
}

// ParseStrategy resolves a canonical name or alias (case-insensitive)
func ParseStrategy(s string) (StrategyName, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if name, ok := strategyAliases[key]; ok {
		return name, nil
	}
	return "", fmt.Errorf("unknown strategy %q (valid: buy_hold, dividends, value, swing_trade)", s)
}

func (s StrategyName) String() string {
	return string(s)
}
