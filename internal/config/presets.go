package config

import (
	"github.com/rpgo/withdrawal-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// stocks/etf/cash percentages
type presetMix struct {
	key, name         string
	stocks, etf, cash int64
}

var presets = []presetMix{
	{"aggressive", "Aggressive (70% stocks, 20% ETFs, 10% cash)", 70, 20, 10},
	{"balanced_growth", "Balanced Growth (50% stocks, 30% ETFs, 20% cash)", 50, 30, 20},
	{"balanced_equal", "Balanced Equal (33% stocks, 33% ETFs, 33% cash)", 33, 33, 34},
	{"moderate", "Moderate (20% stocks, 30% ETFs, 50% cash)", 20, 30, 50},
	{"conservative", "Conservative (10% stocks, 20% ETFs, 70% cash)", 10, 20, 70},
	{"bonds_and_cash", "Bonds & Cash (0% stocks, 50% ETFs, 50% cash)", 0, 50, 50},
	{"mostly_cash", "Mostly Cash (0% stocks, 20% ETFs, 80% cash)", 0, 20, 80},
	{"cash_only", "Cash Only (0% stocks, 0% ETFs, 100% cash)", 0, 0, 100},
}

// DefaultStrategies returns the built-in allocation presets. Zero weights are
// omitted from the allocation.
func DefaultStrategies() []domain.Strategy {
	strategies := make([]domain.Strategy, 0, len(presets))
	for _, p := range presets {
		alloc := domain.Allocation{}
		for class, pct := range map[domain.AssetClass]int64{domain.Stocks: p.stocks, domain.ETF: p.etf, domain.Cash: p.cash} {
			if pct > 0 {
				alloc[class] = decimal.New(pct, -2)
			}
		}
		strategies = append(strategies, domain.Strategy{Key: p.key, Name: p.name, Allocation: alloc})
	}
	return strategies
}

// MergeStrategies appends custom strategies to base; a custom strategy with an
// existing key replaces it in place.
func MergeStrategies(base, custom []domain.Strategy) []domain.Strategy {
	merged := make([]domain.Strategy, 0, len(base)+len(custom))
	index := make(map[string]int, len(base)+len(custom))
	for _, s := range append(append([]domain.Strategy{}, base...), custom...) {
		if i, ok := index[s.Key]; ok {
			merged[i] = s
			continue
		}
		index[s.Key] = len(merged)
		merged = append(merged, s)
	}
	return merged
}
