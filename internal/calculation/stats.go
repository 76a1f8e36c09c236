package calculation

import (
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// meanOf returns the arithmetic mean, zero for an empty slice.
func meanOf(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(decimal.Zero, values...).Div(decimal.NewFromInt(int64(len(values))))
}

// populationStdDev returns the population (biased) standard deviation,
// zero for an empty slice.
func populationStdDev(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	floats := make([]float64, len(values))
	for i, v := range values {
		floats[i] = v.InexactFloat64()
	}
	variance := stat.PopVariance(floats, nil)
	if variance <= 0 || math.IsNaN(variance) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(math.Sqrt(variance))
}
