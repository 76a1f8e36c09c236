package calculation

import (
	"github.com/rpgo/withdrawal-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Simulate runs the year-by-year withdrawal recurrence over the requested
// window. Each year the blended return is applied, the withdrawal is taken,
// and the value is floored at zero. Once the value reaches zero the remaining
// years are padded with zeros: exhaustion is permanent.
func Simulate(src ReturnSource, req domain.SimulationRequest) (*domain.Projection, error) {
	if src == nil {
		return nil, invalidInput("return source is required")
	}
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	n := req.WindowLength()
	proj := &domain.Projection{
		StartYear:  req.StartYear,
		EndYear:    req.EndYear,
		Trajectory: make([]decimal.Decimal, 0, n),
		Returns:    make([]decimal.Decimal, 0, n),
	}

	classes := req.Allocation.Classes()
	value := req.StartCapital
	policy := req.Withdrawal

	for i := 0; i < n; i++ {
		year := req.StartYear + i
		var shock *domain.MarketShock
		if req.Shock != nil && i == req.Shock.YearIndex {
			shock = req.Shock
		}
		blended := blendedReturn(src, req.Allocation, classes, year, shock)

		// Growth first, withdrawal at year end.
		value = value.Mul(one.Add(blended)).Sub(policy.Amount)
		if value.IsNegative() {
			value = decimal.Zero
		}

		proj.Trajectory = append(proj.Trajectory, value)
		proj.Returns = append(proj.Returns, blended)

		// Escalation applies even in the year the portfolio runs dry.
		policy = policy.Next()

		if value.IsZero() {
			for len(proj.Trajectory) < n {
				proj.Trajectory = append(proj.Trajectory, decimal.Zero)
				proj.Returns = append(proj.Returns, decimal.Zero)
			}
			break
		}
	}

	return proj, nil
}

// blendedReturn is the allocation-weighted sum of the year's class returns,
// with the shock multiplier applied per class when shock is non-nil.
func blendedReturn(src ReturnSource, allocation domain.Allocation, classes []domain.AssetClass, year int, shock *domain.MarketShock) decimal.Decimal {
	blended := decimal.Zero
	for _, class := range classes {
		r := src.Return(class, year)
		if shock != nil {
			r = r.Mul(shock.Factor(class))
		}
		blended = blended.Add(allocation.Weight(class).Mul(r))
	}
	return blended
}
