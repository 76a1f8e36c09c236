package calculation

import (
	"context"
	"fmt"

	"github.com/rpgo/withdrawal-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	two                 = decimal.NewFromInt(2)
	withdrawalTolerance = decimal.New(1, -2) // one cent
)

const maxBisectIterations = 100

// CalculateSustainableWithdrawal finds, by bisection, the largest initial
// withdrawal (to the cent) for which the strategy still holds value at the
// end of the scenario window. The scenario's escalation setting is kept.
func (ce *CalculationEngine) CalculateSustainableWithdrawal(scenario *domain.Scenario, strategy domain.Strategy) (decimal.Decimal, *domain.Summary, error) {
	survives := func(amount decimal.Decimal) (bool, error) {
		req := scenario.Request(strategy.Allocation)
		req.Withdrawal.Amount = amount
		proj, err := Simulate(ce.Returns, req)
		if err != nil {
			return false, err
		}
		return proj.Len() > 0 && proj.Trajectory[proj.Len()-1].IsPositive(), nil
	}

	ok, err := survives(decimal.Zero)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("strategy %s: %w", strategy.Key, err)
	}
	if !ok {
		// Not even a zero withdrawal survives the window.
		summary, err := ce.summaryAt(scenario, strategy, decimal.Zero)
		if err != nil {
			return decimal.Zero, nil, err
		}
		return decimal.Zero, &summary, nil
	}

	// Grow the upper bound until it fails.
	minAmount := decimal.Zero
	maxAmount := decimal.Max(scenario.StartCapital, decimal.NewFromInt(1))
	for i := 0; i < maxBisectIterations; i++ {
		ok, err = survives(maxAmount)
		if err != nil {
			return decimal.Zero, nil, err
		}
		if !ok {
			break
		}
		minAmount = maxAmount
		maxAmount = maxAmount.Mul(two)
	}

	for i := 0; i < maxBisectIterations && maxAmount.Sub(minAmount).GreaterThan(withdrawalTolerance); i++ {
		mid := minAmount.Add(maxAmount).Div(two)
		ok, err = survives(mid)
		if err != nil {
			return decimal.Zero, nil, err
		}
		if ok {
			minAmount = mid
		} else {
			maxAmount = mid
		}
	}

	amount := minAmount.RoundFloor(2)
	summary, err := ce.summaryAt(scenario, strategy, amount)
	if err != nil {
		return decimal.Zero, nil, err
	}
	ce.logger().Debugf("strategy %s: sustainable withdrawal %s", strategy.Key, amount.StringFixed(2))
	return amount, &summary, nil
}

func (ce *CalculationEngine) summaryAt(scenario *domain.Scenario, strategy domain.Strategy, amount decimal.Decimal) (domain.Summary, error) {
	req := scenario.Request(strategy.Allocation)
	req.Withdrawal.Amount = amount
	proj, err := Simulate(ce.Returns, req)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("strategy %s: %w", strategy.Key, err)
	}
	return Summarize(proj, req.Withdrawal, scenario.StartCapital), nil
}

// CalculateSustainableWithdrawals runs CalculateSustainableWithdrawal for
// every strategy selected by the configuration.
func (ce *CalculationEngine) CalculateSustainableWithdrawals(ctx context.Context, config *domain.Configuration) (*SustainableWithdrawalAnalysis, error) {
	analysis := &SustainableWithdrawalAnalysis{
		StartCapital: config.Scenario.StartCapital,
		Escalate:     config.Scenario.Withdrawal.Escalate,
		Results:      make([]SustainableWithdrawalResult, 0, len(config.Scenario.Strategies)),
	}

	for _, key := range config.Scenario.Strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		strategy, ok := config.StrategyByKey(key)
		if !ok {
			return nil, fmt.Errorf("unknown strategy %q", key)
		}
		amount, summary, err := ce.CalculateSustainableWithdrawal(&config.Scenario, strategy)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate sustainable withdrawal for strategy %s: %w", key, err)
		}

		rate := decimal.Zero
		if config.Scenario.StartCapital.IsPositive() {
			rate = amount.Div(config.Scenario.StartCapital)
		}
		analysis.Results = append(analysis.Results, SustainableWithdrawalResult{
			Strategy:         key,
			MaxWithdrawal:    amount,
			InitialRate:      rate,
			FinalValue:       summary.FinalValue,
			CurrentVsMaxDiff: amount.Sub(config.Scenario.Withdrawal.Amount),
		})
	}
	return analysis, nil
}

// SustainableWithdrawalAnalysis contains the results of the sustainable withdrawal search
type SustainableWithdrawalAnalysis struct {
	StartCapital decimal.Decimal               `json:"start_capital"`
	Escalate     bool                          `json:"escalate"`
	Results      []SustainableWithdrawalResult `json:"results"`
}

// SustainableWithdrawalResult contains the search result for a single strategy
type SustainableWithdrawalResult struct {
	Strategy         string          `json:"strategy"`
	MaxWithdrawal    decimal.Decimal `json:"max_withdrawal"`
	InitialRate      decimal.Decimal `json:"initial_rate"` // MaxWithdrawal / start capital
	FinalValue       decimal.Decimal `json:"final_value"`
	CurrentVsMaxDiff decimal.Decimal `json:"current_vs_max_diff"` // headroom over the configured withdrawal
}

// CrossoverResult describes the point where projection B's value overtakes projection A's.
type CrossoverResult struct {
	// 0-based index of the year in which the crossover completes
	YearIndex int `json:"year_index"`

	// Calendar year (fractional) when the values are equal (e.g., 2008.5)
	CalendarYear float64 `json:"calendar_year"`

	// Fraction (0..1) of the year between YearIndex-1 and YearIndex where crossover happens
	Fraction decimal.Decimal `json:"fraction_of_year"`

	// Interpolated portfolio value at the crossover
	Value decimal.Decimal `json:"value"`

	// Explicit month and year for convenience (month: 1..12)
	Month int `json:"month"`
	Year  int `json:"year"`
}

// CalculateCrossover finds the first year in which projection B's value moves
// above projection A's, interpolating linearly within that year. Projections
// must share a start year. If B never overtakes A, returns nil, nil.
func CalculateCrossover(projA, projB *domain.Projection) (*CrossoverResult, error) {
	if projA == nil || projB == nil || projA.Len() == 0 || projB.Len() == 0 {
		return nil, fmt.Errorf("one or both projections are empty")
	}
	if projA.StartYear != projB.StartYear {
		return nil, fmt.Errorf("projections start in different years (%d, %d)", projA.StartYear, projB.StartYear)
	}

	n := projA.Len()
	if projB.Len() < n {
		n = projB.Len()
	}

	for i := 1; i < n; i++ {
		prevDiff := projB.Trajectory[i-1].Sub(projA.Trajectory[i-1])
		currDiff := projB.Trajectory[i].Sub(projA.Trajectory[i])
		if prevDiff.IsPositive() || !currDiff.IsPositive() {
			continue
		}

		// diff(t) = prevDiff + t*(currDiff - prevDiff); solve diff(t) = 0
		t := prevDiff.Neg().Div(currDiff.Sub(prevDiff))
		prevA := projA.Trajectory[i-1]
		value := prevA.Add(projA.Trajectory[i].Sub(prevA).Mul(t))

		prevYear := projA.StartYear + i - 1
		month := int(t.InexactFloat64() * 12)
		if month < 1 {
			month = 1
		}
		if month > 12 {
			month = 12
		}

		return &CrossoverResult{
			YearIndex:    i,
			CalendarYear: float64(prevYear) + t.InexactFloat64(),
			Fraction:     t,
			Value:        value,
			Month:        month,
			Year:         prevYear,
		}, nil
	}

	return nil, nil
}
