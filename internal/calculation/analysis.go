package calculation

import (
	"github.com/rpgo/withdrawal-simulator/internal/domain"
)

// Recommend picks the best strategy on final value, longevity and drawdown.
// Ties keep the earlier strategy.
func Recommend(results []domain.StrategyResult) domain.Recommendation {
	var rec domain.Recommendation
	if len(results) == 0 {
		return rec
	}

	bestValue, bestLongevity, lowestDrawdown := 0, 0, 0
	for i := 1; i < len(results); i++ {
		s := results[i].Summary
		if s.FinalValue.GreaterThan(results[bestValue].Summary.FinalValue) {
			bestValue = i
		}
		if s.YearsLasted > results[bestLongevity].Summary.YearsLasted ||
			(s.YearsLasted == results[bestLongevity].Summary.YearsLasted && s.FinalValue.GreaterThan(results[bestLongevity].Summary.FinalValue)) {
			bestLongevity = i
		}
		if s.MaxDrawdown.LessThan(results[lowestDrawdown].Summary.MaxDrawdown) {
			lowestDrawdown = i
		}
	}

	rec.BestForFinalValue = results[bestValue].Strategy.Key
	rec.BestForLongevity = results[bestLongevity].Strategy.Key
	rec.LowestDrawdown = results[lowestDrawdown].Strategy.Key
	return rec
}
