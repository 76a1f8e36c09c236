package calculation

import (
	"github.com/rpgo/withdrawal-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// ReturnSource maps (asset class, year) to a real annual return. It must be
// total: unknown classes and years return zero.
type ReturnSource interface {
	Return(class domain.AssetClass, year int) decimal.Decimal
}

// StaticReturns is an in-memory ReturnSource keyed by class then year.
type StaticReturns map[domain.AssetClass]map[int]decimal.Decimal

// Return implements ReturnSource.
func (s StaticReturns) Return(class domain.AssetClass, year int) decimal.Decimal {
	if byYear, ok := s[class]; ok {
		if v, ok := byYear[year]; ok {
			return v
		}
	}
	return decimal.Zero
}

// Set records a return and returns the receiver for chaining.
func (s StaticReturns) Set(class domain.AssetClass, year int, r decimal.Decimal) StaticReturns {
	if s[class] == nil {
		s[class] = make(map[int]decimal.Decimal)
	}
	s[class][year] = r
	return s
}
