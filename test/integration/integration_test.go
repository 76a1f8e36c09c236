package integration

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/withdrawal-simulator/internal/calculation"
	"github.com/rpgo/withdrawal-simulator/internal/config"
	"github.com/rpgo/withdrawal-simulator/internal/domain"
)

func runConfig(t *testing.T, path string) *domain.StrategyComparison {
	t.Helper()
	cfg, err := config.NewInputParser().LoadFromFile(path)
	require.NoError(t, err)

	data, err := calculation.LoadDefaultData()
	require.NoError(t, err)

	results, err := calculation.NewCalculationEngine(data).RunScenario(context.Background(), cfg)
	require.NoError(t, err)
	return results
}

func TestEndToEndCalculation(t *testing.T) {
	results := runConfig(t, "../testdata/example_config.yaml")

	require.Len(t, results.Results, 4)
	assert.Equal(t, "GBP", results.Currency)

	expected := map[string]struct {
		final  string
		first  string
		health domain.HealthTier
	}{
		"moderate":        {"346937.10", "173600.00", domain.HealthStrong},
		"cash_only":       {"144075.83", "170880.00", domain.HealthWeakened},
		"aggressive":      {"686513.17", "175198.00", domain.HealthStrong},
		"stocks_and_cash": {"325078.90", "172648.00", domain.HealthStrong},
	}
	for _, r := range results.Results {
		want, ok := expected[r.Strategy.Key]
		require.True(t, ok, r.Strategy.Key)
		assert.Len(t, r.Projection.Trajectory, 21)
		assert.Equal(t, want.first, r.Projection.Trajectory[0].StringFixed(2), r.Strategy.Key)
		assert.Equal(t, want.final, r.Summary.FinalValue.StringFixed(2), r.Strategy.Key)
		assert.Equal(t, "38674.98", r.Summary.TotalWithdrawn.StringFixed(2), r.Strategy.Key)
		assert.Equal(t, 21, r.Summary.YearsLasted)
		assert.Equal(t, 1, r.Summary.Success)
		assert.Equal(t, want.health, r.Summary.Health, r.Strategy.Key)
	}

	assert.Equal(t, domain.Recommendation{
		BestForFinalValue: "aggressive",
		BestForLongevity:  "aggressive",
		LowestDrawdown:    "stocks_and_cash",
	}, results.Recommendation)
}

func TestShockScenario(t *testing.T) {
	results := runConfig(t, "../testdata/shock_config.yaml")
	require.Len(t, results.Results, 2)

	aggressive, ok := results.Result("aggressive")
	require.True(t, ok)
	cash, ok := results.Result("cash_only")
	require.True(t, ok)

	values := func(ds []decimal.Decimal) []string {
		out := make([]string, len(ds))
		for i, d := range ds {
			out[i] = d.StringFixed(2)
		}
		return out
	}
	assert.Equal(t, []string{"96410.00", "66939.49", "73833.53", "75387.59", "68616.41", "70099.19"}, values(aggressive.Projection.Trajectory))
	assert.Equal(t, []string{"93100.00", "85658.60", "78086.89", "70399.24", "62610.44", "54735.66"}, values(cash.Projection.Trajectory))
	assert.Contains(t, results.Assumptions, "Market shock of -30.0% in year 2008 (bonds 50%, REITs 80%, cash unaffected)")
}

func TestConfigurationValidation(t *testing.T) {
	parser := config.NewInputParser()

	cfg, err := parser.LoadFromFile("../testdata/example_config.yaml")
	require.NoError(t, err)
	assert.NoError(t, parser.ValidateConfiguration(cfg))

	cfg.Scenario.Strategies = append(cfg.Scenario.Strategies, "missing")
	assert.Error(t, parser.ValidateConfiguration(cfg))
}
