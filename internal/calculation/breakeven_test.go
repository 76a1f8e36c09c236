package calculation

import (
	"context"
	"math"
	"testing"

	"github.com/rpgo/withdrawal-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projection(start int, values ...string) *domain.Projection {
	p := &domain.Projection{StartYear: start, EndYear: start + len(values) - 1}
	for _, v := range values {
		p.Trajectory = append(p.Trajectory, d(v))
		p.Returns = append(p.Returns, decimal.Zero)
	}
	return p
}

func finalValue(t *testing.T, src ReturnSource, scenario *domain.Scenario, alloc domain.Allocation, amount decimal.Decimal) decimal.Decimal {
	t.Helper()
	req := scenario.Request(alloc)
	req.Withdrawal.Amount = amount
	proj, err := Simulate(src, req)
	require.NoError(t, err)
	return proj.Trajectory[proj.Len()-1]
}

func TestCalculateSustainableWithdrawal_FlatCash(t *testing.T) {
	// 1023*1.021*1.018 = W*(1.021*1.018 + 1.018 + 1)  =>  W ~ 347.7763
	scenario := &domain.Scenario{
		StartYear:    2000,
		EndYear:      2002,
		StartCapital: d("1000"),
		Withdrawal:   domain.WithdrawalPolicy{Amount: d("100")},
	}
	strategy := domain.Strategy{Key: "cash_only", Allocation: domain.Allocation{domain.Cash: d("1")}}

	engine := NewCalculationEngine(testReturns())
	amount, summary, err := engine.CalculateSustainableWithdrawal(scenario, strategy)
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.InDelta(t, 347.77, amount.InexactFloat64(), 0.011)
	assert.True(t, summary.FinalValue.IsPositive())
	assert.Equal(t, 3, summary.YearsLasted)
	assert.Equal(t, domain.HealthCritical, summary.Health)
	assert.True(t, scenario.Withdrawal.Amount.Equal(d("100")), "scenario must not be mutated")
}

func TestCalculateSustainableWithdrawal_ZeroCapital(t *testing.T) {
	scenario := &domain.Scenario{StartYear: 2000, EndYear: 2002, StartCapital: decimal.Zero}
	strategy := domain.Strategy{Key: "cash_only", Allocation: domain.Allocation{domain.Cash: d("1")}}

	amount, summary, err := NewCalculationEngine(testReturns()).CalculateSustainableWithdrawal(scenario, strategy)
	require.NoError(t, err)
	assert.True(t, amount.IsZero())
	assert.False(t, summary.Survived())
}

func TestCalculateSustainableWithdrawal_InvalidScenario(t *testing.T) {
	strategy := domain.Strategy{Key: "cash_only", Allocation: domain.Allocation{domain.Cash: d("1")}}
	engine := NewCalculationEngine(testReturns())

	for _, scenario := range []*domain.Scenario{
		{StartYear: 2000, EndYear: 2002, StartCapital: d("-1")},
		{StartYear: math.MinInt, EndYear: 0, StartCapital: d("1000")},
	} {
		amount, summary, err := engine.CalculateSustainableWithdrawal(scenario, strategy)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.ErrorContains(t, err, "strategy cash_only")
		assert.Nil(t, summary)
		assert.True(t, amount.IsZero())
	}
}

func TestCalculateSustainableWithdrawals_EveryStrategyIsTight(t *testing.T) {
	config := comparisonConfig()
	engine := NewCalculationEngine(testReturns())

	analysis, err := engine.CalculateSustainableWithdrawals(context.Background(), config)
	require.NoError(t, err)
	require.Len(t, analysis.Results, 3)
	assert.True(t, analysis.Escalate)

	for i, key := range config.Scenario.Strategies {
		res := analysis.Results[i]
		assert.Equal(t, key, res.Strategy)
		assert.True(t, res.MaxWithdrawal.IsPositive(), key)
		assert.True(t, res.InitialRate.Equal(res.MaxWithdrawal.Div(d("1000"))), key)
		assert.True(t, res.CurrentVsMaxDiff.Equal(res.MaxWithdrawal.Sub(d("100"))), key)

		strategy, _ := config.StrategyByKey(key)
		assert.True(t, finalValue(t, engine.Returns, &config.Scenario, strategy.Allocation, res.MaxWithdrawal).IsPositive(), key)
		assert.False(t, finalValue(t, engine.Returns, &config.Scenario, strategy.Allocation, res.MaxWithdrawal.Add(d("0.02"))).IsPositive(), key)
	}

	// Cash is the only class with positive returns in the window.
	assert.True(t, analysis.Results[1].MaxWithdrawal.GreaterThan(analysis.Results[0].MaxWithdrawal))
}

func TestCalculateSustainableWithdrawals_Errors(t *testing.T) {
	engine := NewCalculationEngine(testReturns())

	config := comparisonConfig()
	config.Scenario.Strategies = []string{"missing"}
	_, err := engine.CalculateSustainableWithdrawals(context.Background(), config)
	assert.ErrorContains(t, err, `unknown strategy "missing"`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.CalculateSustainableWithdrawals(ctx, comparisonConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCalculateCrossover_Interpolation(t *testing.T) {
	res, err := CalculateCrossover(projection(2000, "100", "80"), projection(2000, "90", "90"))
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, 1, res.YearIndex)
	assert.Equal(t, 2000, res.Year)
	assert.Equal(t, 6, res.Month)
	assert.InDelta(t, 2000.5, res.CalendarYear, 1e-9)
	assert.True(t, res.Fraction.Equal(d("0.5")))
	assert.True(t, res.Value.Equal(d("90")))
}

func TestCalculateCrossover_FromTie(t *testing.T) {
	res, err := CalculateCrossover(projection(2000, "50", "60", "70"), projection(2000, "50", "65", "60"))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.YearIndex)
	assert.True(t, res.Fraction.IsZero())
	assert.Equal(t, 1, res.Month)
}

func TestCalculateCrossover_NoneAndErrors(t *testing.T) {
	res, err := CalculateCrossover(projection(2000, "100", "120"), projection(2000, "90", "110"))
	require.NoError(t, err)
	assert.Nil(t, res)

	// B ahead from the start is not a crossover.
	res, err = CalculateCrossover(projection(2000, "90", "110"), projection(2000, "100", "120"))
	require.NoError(t, err)
	assert.Nil(t, res)

	_, err = CalculateCrossover(projection(2000), projection(2000, "1"))
	assert.Error(t, err)
	_, err = CalculateCrossover(projection(2000, "1"), projection(2001, "1"))
	assert.ErrorContains(t, err, "different years")
}
