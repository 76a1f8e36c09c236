package calculation

import (
	"errors"
	"math"
	"testing"

	"github.com/rpgo/withdrawal-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testReturns() StaticReturns {
	return StaticReturns{}.
		Set(domain.Cash, 2000, d("0.023")).
		Set(domain.Cash, 2001, d("0.021")).
		Set(domain.Cash, 2002, d("0.018")).
		Set(domain.Stocks, 2000, d("-0.10")).
		Set(domain.Stocks, 2001, d("-0.13")).
		Set(domain.Stocks, 2002, d("-0.23")).
		Set(domain.Stocks, 2008, d("-0.37")).
		Set(domain.Bonds, 2000, d("0.08")).
		Set(domain.Bonds, 2001, d("0.06")).
		Set(domain.REIT, 2000, d("0.10"))
}

func request(start, end int, capital, withdrawal string, escalate bool, alloc domain.Allocation) domain.SimulationRequest {
	return domain.SimulationRequest{
		StartYear:    start,
		EndYear:      end,
		StartCapital: d(capital),
		Withdrawal:   domain.WithdrawalPolicy{Amount: d(withdrawal), Escalate: escalate},
		Allocation:   alloc,
	}
}

func assertDecimals(t *testing.T, expected []string, actual []decimal.Decimal) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i, e := range expected {
		assert.True(t, actual[i].Equal(d(e)), "index %d: expected %s, got %s", i, e, actual[i])
	}
}

func TestSimulate_CashCompoundsWithoutWithdrawal(t *testing.T) {
	req := request(2000, 2002, "100000", "0", false, domain.Allocation{domain.Cash: d("1.0")})

	proj, err := Simulate(testReturns(), req)
	require.NoError(t, err)

	assertDecimals(t, []string{"102300", "104448.3", "106328.3694"}, proj.Trajectory)
	assertDecimals(t, []string{"0.023", "0.021", "0.018"}, proj.Returns)
	assert.Equal(t, 2000, proj.StartYear)
	assert.Equal(t, 2002, proj.EndYear)
}

func TestSimulate_SingleYearCrash(t *testing.T) {
	req := request(2008, 2008, "1000", "0", false, domain.Allocation{domain.Stocks: d("1.0")})

	proj, err := Simulate(testReturns(), req)
	require.NoError(t, err)

	assertDecimals(t, []string{"630"}, proj.Trajectory)
}

func TestSimulate_ClampFiresWhenWithdrawalExceedsValue(t *testing.T) {
	req := request(2000, 2000, "100", "200", false, domain.Allocation{domain.Cash: d("1.0")})

	proj, err := Simulate(testReturns(), req)
	require.NoError(t, err)

	assertDecimals(t, []string{"0"}, proj.Trajectory)
	summary := Summarize(proj, req.Withdrawal, req.StartCapital)
	assert.Equal(t, 1, summary.YearsLasted)
	assert.Equal(t, 0, summary.Success)
}

func TestSimulate_ShockDampensFixedIncome(t *testing.T) {
	alloc := domain.Allocation{domain.Stocks: d("0.5"), domain.Bonds: d("0.5")}
	base := request(2000, 2001, "1000", "0", false, alloc)

	shocked := base
	shocked.Shock = &domain.MarketShock{YearIndex: 0, Severity: d("-0.3")}

	plain, err := Simulate(testReturns(), base)
	require.NoError(t, err)
	hit, err := Simulate(testReturns(), shocked)
	require.NoError(t, err)

	// Year 0: stocks -0.10*0.7 = -0.07, bonds 0.08*0.35 = 0.028.
	expected := d("0.5").Mul(d("-0.07")).Add(d("0.5").Mul(d("0.028")))
	assert.True(t, hit.Returns[0].Equal(expected), "expected %s, got %s", expected, hit.Returns[0])
	assert.True(t, plain.Returns[0].Equal(d("-0.01")), "got %s", plain.Returns[0])

	// Fixed income keeps half the shock multiplier of the growth component.
	stockFactor := domain.MarketShock{Severity: d("-0.3")}.Factor(domain.Stocks)
	bondFactor := domain.MarketShock{Severity: d("-0.3")}.Factor(domain.Bonds)
	assert.True(t, bondFactor.Equal(stockFactor.Div(d("2"))))

	// Year 1 is unaffected.
	assert.True(t, hit.Returns[1].Equal(plain.Returns[1]))
}

func TestSimulate_ShockSensitivityPerClass(t *testing.T) {
	testCases := []struct {
		class    domain.AssetClass
		expected string
	}{
		{domain.Stocks, "-0.05"}, // -0.10 * 0.5
		{domain.Bonds, "0.02"},   // 0.08 * 0.5 * 0.5
		{domain.REIT, "0.04"},    // 0.10 * 0.5 * 0.8
		{domain.Cash, "0.023"},   // untouched
	}

	for _, tc := range testCases {
		t.Run(string(tc.class), func(t *testing.T) {
			req := request(2000, 2000, "1000", "0", false, domain.Allocation{tc.class: d("1")})
			req.Shock = &domain.MarketShock{YearIndex: 0, Severity: d("-0.5")}

			proj, err := Simulate(testReturns(), req)
			require.NoError(t, err)
			assert.True(t, proj.Returns[0].Equal(d(tc.expected)), "got %s", proj.Returns[0])
		})
	}
}

func TestSimulate_ShockOutsideWindowHasNoEffect(t *testing.T) {
	req := request(2000, 2002, "1000", "0", false, domain.Allocation{domain.Stocks: d("1")})
	plain, err := Simulate(testReturns(), req)
	require.NoError(t, err)

	req.Shock = &domain.MarketShock{YearIndex: 10, Severity: d("-0.9")}
	shocked, err := Simulate(testReturns(), req)
	require.NoError(t, err)

	assertDecimals(t, []string{plain.Trajectory[0].String(), plain.Trajectory[1].String(), plain.Trajectory[2].String()}, shocked.Trajectory)
}

func TestSimulate_ExhaustionPadsWithZeros(t *testing.T) {
	req := request(2000, 2005, "1000", "600", true, domain.Allocation{domain.Cash: d("1")})

	proj, err := Simulate(testReturns(), req)
	require.NoError(t, err)

	// 1000*1.023-600 = 423; 423*1.021-612 < 0.
	assertDecimals(t, []string{"423", "0", "0", "0", "0", "0"}, proj.Trajectory)
	assert.Len(t, proj.Returns, 6)
	for _, r := range proj.Returns[2:] {
		assert.True(t, r.IsZero())
	}
	assert.True(t, proj.Returns[1].Equal(d("0.021")))
}

func TestSimulate_UnknownYearsAndClassesReturnZero(t *testing.T) {
	req := request(1900, 1902, "500", "0", false, domain.Allocation{domain.AssetClass("gold"): d("1"), domain.Cash: d("0")})

	proj, err := Simulate(testReturns(), req)
	require.NoError(t, err)

	assertDecimals(t, []string{"500", "500", "500"}, proj.Trajectory)
}

func TestSimulate_ZeroCapitalZeroWithdrawal(t *testing.T) {
	req := request(2000, 2002, "0", "0", false, domain.Allocation{domain.Cash: d("1")})

	proj, err := Simulate(testReturns(), req)
	require.NoError(t, err)
	assertDecimals(t, []string{"0", "0", "0"}, proj.Trajectory)

	summary := Summarize(proj, req.Withdrawal, req.StartCapital)
	assert.True(t, summary.MaxDrawdown.IsZero())
	assert.Equal(t, 1, summary.YearsLasted)
	assert.Equal(t, 0, summary.Success)
	assert.True(t, summary.TotalWithdrawn.IsZero())
}

func TestSimulate_InvariantsOnHistoricalData(t *testing.T) {
	hdm, err := LoadDefaultData()
	require.NoError(t, err)

	allocations := []domain.Allocation{
		{domain.Stocks: d("0.7"), domain.ETF: d("0.2"), domain.Cash: d("0.1")},
		{domain.Stocks: d("0.2"), domain.ETF: d("0.3"), domain.Cash: d("0.5")},
		{domain.Cash: d("1")},
	}
	withdrawals := []string{"0", "1500", "9000", "40000"}

	for _, alloc := range allocations {
		for _, w := range withdrawals {
			for start := 1990; start <= 2020; start += 5 {
				req := request(start, 2025, "170000", w, true, alloc)
				req.Shock = &domain.MarketShock{YearIndex: 2, Severity: d("-0.3")}
				proj, err := Simulate(hdm, req)
				require.NoError(t, err)

				require.Len(t, proj.Trajectory, 2025-start+1)
				require.Len(t, proj.Returns, 2025-start+1)
				exhausted := false
				for _, v := range proj.Trajectory {
					assert.False(t, v.IsNegative())
					if exhausted {
						assert.True(t, v.IsZero())
					}
					if v.IsZero() {
						exhausted = true
					}
				}

				summary := Summarize(proj, req.Withdrawal, req.StartCapital)
				assert.False(t, summary.MaxDrawdown.IsNegative())
				assert.True(t, summary.MaxDrawdown.LessThanOrEqual(d("1")))
			}
		}
	}
}

func TestSimulate_NoWithdrawalNonNegativeReturnsIsMonotonic(t *testing.T) {
	hdm, err := LoadDefaultData()
	require.NoError(t, err)

	req := request(1990, 2025, "1000", "0", false, domain.Allocation{domain.Cash: d("1")})
	proj, err := Simulate(hdm, req)
	require.NoError(t, err)

	for i := 1; i < proj.Len(); i++ {
		assert.True(t, proj.Trajectory[i].GreaterThanOrEqual(proj.Trajectory[i-1]), "year %d decreased", proj.StartYear+i)
	}
	summary := Summarize(proj, req.Withdrawal, req.StartCapital)
	assert.True(t, summary.MaxDrawdown.IsZero())
}

func TestSimulate_InvalidInput(t *testing.T) {
	cash := domain.Allocation{domain.Cash: d("1")}
	testCases := []struct {
		name string
		req  domain.SimulationRequest
	}{
		{"negative capital", request(2000, 2001, "-1", "0", false, cash)},
		{"negative withdrawal", request(2000, 2001, "100", "-5", false, cash)},
		{"reversed window", request(2002, 2001, "100", "0", false, cash)},
		{"window wider than int", request(math.MinInt, 0, "100", "0", false, cash)},
		{"whole int range", request(math.MinInt, math.MaxInt, "100", "0", false, cash)},
		{"window too long", request(1, 2_000_000_000, "100", "0", false, cash)},
		{"empty allocation", request(2000, 2001, "100", "0", false, domain.Allocation{})},
		{"negative weight", request(2000, 2001, "100", "0", false, domain.Allocation{domain.Cash: d("-0.1")})},
		{"negative shock index", func() domain.SimulationRequest {
			r := request(2000, 2001, "100", "0", false, cash)
			r.Shock = &domain.MarketShock{YearIndex: -1, Severity: d("-0.3")}
			return r
		}()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Simulate(testReturns(), tc.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput), "unexpected error: %v", err)
		})
	}

	_, err := Simulate(nil, request(2000, 2001, "100", "0", false, cash))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSimulate_WindowAtIntBounds(t *testing.T) {
	cash := domain.Allocation{domain.Cash: d("1")}

	proj, err := Simulate(testReturns(), request(math.MaxInt, math.MaxInt, "100", "0", false, cash))
	require.NoError(t, err)
	assertDecimals(t, []string{"100"}, proj.Trajectory)
	assert.Equal(t, []int{math.MaxInt}, proj.Years())

	proj, err = Simulate(testReturns(), request(math.MaxInt-1, math.MaxInt, "100", "0", false, cash))
	require.NoError(t, err)
	assertDecimals(t, []string{"100", "100"}, proj.Trajectory)

	proj, err = Simulate(testReturns(), request(math.MinInt, math.MinInt+2, "100", "0", false, cash))
	require.NoError(t, err)
	assert.Len(t, proj.Trajectory, 3)

	start := 2000
	proj, err = Simulate(testReturns(), request(start, start+domain.MaxWindowYears-1, "100", "0", false, cash))
	require.NoError(t, err)
	assert.Len(t, proj.Trajectory, domain.MaxWindowYears)
}
