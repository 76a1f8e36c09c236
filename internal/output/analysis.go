package output

import (
	"sort"

	"github.com/rpgo/withdrawal-simulator/internal/calculation"
	"github.com/rpgo/withdrawal-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// Ranking is one strategy's standing in a comparison, ordered by final value.
type Ranking struct {
	Rank             int
	Key              string
	Name             string
	FinalValue       decimal.Decimal
	Change           decimal.Decimal // final value minus start capital
	PercentageChange decimal.Decimal
	YearsLasted      int
	Health           domain.HealthTier
}

// RankStrategies orders strategies by final value, then by years lasted.
// Equal strategies keep their selection order.
func RankStrategies(results *domain.StrategyComparison) []Ranking {
	start := results.Scenario.StartCapital
	ranks := make([]Ranking, 0, len(results.Results))
	for _, r := range results.Results {
		change := r.Summary.FinalValue.Sub(start)
		pct := decimal.Zero
		if !start.IsZero() {
			pct = change.Div(start).Mul(decimalHundred)
		}
		ranks = append(ranks, Ranking{
			Key:              r.Strategy.Key,
			Name:             displayName(r.Strategy),
			FinalValue:       r.Summary.FinalValue,
			Change:           change,
			PercentageChange: pct,
			YearsLasted:      r.Summary.YearsLasted,
			Health:           r.Summary.Health,
		})
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		if !ranks[i].FinalValue.Equal(ranks[j].FinalValue) {
			return ranks[i].FinalValue.GreaterThan(ranks[j].FinalValue)
		}
		return ranks[i].YearsLasted > ranks[j].YearsLasted
	})
	for i := range ranks {
		ranks[i].Rank = i + 1
	}
	return ranks
}

// Crossover records one strategy's value overtaking another's.
type Crossover struct {
	Leader     string // ahead before the crossover
	Challenger string // ahead after it
	calculation.CrossoverResult
}

// FindCrossovers checks every ordered pair of strategies and returns the first
// crossover of each pair, in selection order.
func FindCrossovers(results *domain.StrategyComparison) []Crossover {
	var out []Crossover
	for i := range results.Results {
		for j := range results.Results {
			if i == j {
				continue
			}
			a, b := results.Results[i], results.Results[j]
			res, err := calculation.CalculateCrossover(&a.Projection, &b.Projection)
			if err != nil || res == nil {
				continue
			}
			out = append(out, Crossover{Leader: a.Strategy.Key, Challenger: b.Strategy.Key, CrossoverResult: *res})
		}
	}
	return out
}

func displayName(s domain.Strategy) string {
	if s.Name != "" {
		return s.Name
	}
	return s.Key
}
