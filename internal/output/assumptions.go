package output

import "github.com/rpgo/withdrawal-simulator/internal/domain"

// assumptionsFor returns the assumptions recorded on the comparison, or
// derives them from its scenario when none were recorded.
func assumptionsFor(results *domain.StrategyComparison) []string {
	if len(results.Assumptions) > 0 {
		return results.Assumptions
	}
	return results.Scenario.GenerateAssumptions()
}
