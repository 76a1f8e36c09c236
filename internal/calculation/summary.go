package calculation

import (
	"github.com/rpgo/withdrawal-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	hundred         = decimal.NewFromInt(100)
	strongMultiple  = decimal.NewFromFloat(1.5)
	healthyMultiple = decimal.NewFromInt(1)
	weakMultiple    = decimal.NewFromFloat(0.5)
)

// Summarize derives the summary statistics of a completed projection.
func Summarize(proj *domain.Projection, policy domain.WithdrawalPolicy, startCapital decimal.Decimal) domain.Summary {
	var trajectory, returns []decimal.Decimal
	if proj != nil {
		trajectory, returns = proj.Trajectory, proj.Returns
	}

	summary := domain.Summary{FinalValue: decimal.Zero}
	if len(trajectory) > 0 {
		summary.FinalValue = trajectory[len(trajectory)-1]
	}

	summary.TotalWithdrawn = totalWithdrawn(trajectory, policy)
	summary.MaxDrawdown = maxDrawdown(trajectory)
	summary.MaxDrawdownPercent = summary.MaxDrawdown.Mul(hundred)
	summary.Volatility = populationStdDev(returns)
	summary.YearsLasted = yearsLasted(proj, summary.FinalValue)
	if summary.FinalValue.IsPositive() {
		summary.Success = 1
	}
	summary.Health = ClassifyHealth(summary.FinalValue, startCapital)

	return summary
}

// totalWithdrawn replays the withdrawal schedule and stops counting only once
// two consecutive years are zero. A single trailing zero year is still
// counted as a full withdrawal.
func totalWithdrawn(trajectory []decimal.Decimal, policy domain.WithdrawalPolicy) decimal.Decimal {
	total := decimal.Zero
	for i := range trajectory {
		if i > 0 && trajectory[i].IsZero() && trajectory[i-1].IsZero() {
			break
		}
		total = total.Add(policy.Amount)
		policy = policy.Next()
	}
	return total
}

// maxDrawdown returns the largest peak-to-trough decline as a fraction.
// Drawdown is zero while the running peak is not positive.
func maxDrawdown(trajectory []decimal.Decimal) decimal.Decimal {
	var peak decimal.Decimal
	hasPeak := false
	worst := decimal.Zero

	for _, v := range trajectory {
		if !hasPeak || v.GreaterThan(peak) {
			peak = v
			hasPeak = true
		}
		if !peak.IsPositive() {
			continue
		}
		if dd := peak.Sub(v).Div(peak); dd.GreaterThan(worst) {
			worst = dd
		}
	}
	return worst
}

// yearsLasted is the full window when the portfolio survived, otherwise the
// 1-based year of the first zero value.
func yearsLasted(proj *domain.Projection, final decimal.Decimal) int {
	if proj == nil {
		return 0
	}
	if final.IsPositive() {
		return proj.Len()
	}
	if at := proj.ExhaustedAt(); at > 0 {
		return at
	}
	return proj.Len()
}

// ClassifyHealth buckets a final value against multiples of the starting
// capital. Boundaries are strict.
func ClassifyHealth(final, startCapital decimal.Decimal) domain.HealthTier {
	switch {
	case final.GreaterThan(startCapital.Mul(strongMultiple)):
		return domain.HealthStrong
	case final.GreaterThan(startCapital.Mul(healthyMultiple)):
		return domain.HealthHealthy
	case final.GreaterThan(startCapital.Mul(weakMultiple)):
		return domain.HealthWeakened
	default:
		return domain.HealthCritical
	}
}
