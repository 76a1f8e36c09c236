package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// AssetClass identifies a series of historical returns.
type AssetClass string

const (
	Stocks AssetClass = "stocks"
	ETF    AssetClass = "etf" // diversified dividend fund
	Bonds  AssetClass = "bonds"
	REIT   AssetClass = "reit"
	Cash   AssetClass = "cash"
)

// KnownAssetClasses lists the built-in classes in display order.
var KnownAssetClasses = []AssetClass{Stocks, ETF, Bonds, REIT, Cash}

var (
	fullSensitivity      = decimal.NewFromInt(1)
	fixedIncomeDampening = decimal.NewFromFloat(0.5)
	realEstateDampening  = decimal.NewFromFloat(0.8)
)

// ShockSensitivity returns how much of a market shock reaches this class and
// whether the class is affected at all. Cash is never shocked; unknown classes
// are treated as growth assets.
func (ac AssetClass) ShockSensitivity() (decimal.Decimal, bool) {
	switch ac {
	case Cash:
		return decimal.Zero, false
	case Bonds:
		return fixedIncomeDampening, true
	case REIT:
		return realEstateDampening, true
	default:
		return fullSensitivity, true
	}
}

// Allocation maps asset classes to portfolio weights. Weights are used as
// given: they are not normalised and need not sum to 1.
type Allocation map[AssetClass]decimal.Decimal

// Weight returns the weight of a class, zero when absent.
func (a Allocation) Weight(ac AssetClass) decimal.Decimal {
	if w, ok := a[ac]; ok {
		return w
	}
	return decimal.Zero
}

// Classes returns the allocated classes in lexical order.
func (a Allocation) Classes() []AssetClass {
	classes := make([]AssetClass, 0, len(a))
	for ac := range a {
		classes = append(classes, ac)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	return classes
}

// Total returns the sum of all weights.
func (a Allocation) Total() decimal.Decimal {
	total := decimal.Zero
	for _, w := range a {
		total = total.Add(w)
	}
	return total
}

// EscalationRate is the fixed annual increase applied to escalating withdrawals.
var EscalationRate = decimal.NewFromFloat(0.02)

var escalationFactor = decimal.NewFromInt(1).Add(EscalationRate)

// WithdrawalPolicy is the amount taken at the end of each simulated year.
type WithdrawalPolicy struct {
	Amount   decimal.Decimal `yaml:"amount" json:"amount"`
	Escalate bool            `yaml:"escalate" json:"escalate"`
}

// Next returns the policy that applies the following year.
func (wp WithdrawalPolicy) Next() WithdrawalPolicy {
	if !wp.Escalate {
		return wp
	}
	return WithdrawalPolicy{Amount: wp.Amount.Mul(escalationFactor), Escalate: true}
}

// MarketShock is a one-off return adjustment in a single simulated year.
// YearIndex is zero-based from the first simulated year; Severity is the
// fractional adjustment (e.g. -0.3).
type MarketShock struct {
	YearIndex int             `yaml:"year_index" json:"year_index"`
	Severity  decimal.Decimal `yaml:"severity" json:"severity"`
}

// Factor returns the multiplier applied to a class's return in the shocked year.
func (ms MarketShock) Factor(ac AssetClass) decimal.Decimal {
	sensitivity, affected := ac.ShockSensitivity()
	if !affected {
		return fullSensitivity
	}
	return decimal.NewFromInt(1).Add(ms.Severity).Mul(sensitivity)
}
