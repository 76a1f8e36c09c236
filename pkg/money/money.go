package money

import (
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is a decimal amount that can be displayed in a currency.
type Money struct {
	decimal.Decimal
}

// String returns the amount with two decimal places
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Display formats the amount in the given ISO 4217 currency, e.g. "£1,500.00".
// Unknown currencies fall back to "<CODE> 1500.00".
func (m Money) Display(currency string) string {
	code := strings.ToUpper(currency)
	cur := gomoney.GetCurrency(code)
	if cur == nil {
		return strings.TrimSpace(code + " " + m.String())
	}
	minor := m.Decimal.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}

// Format formats a decimal amount in the given currency.
func Format(amount decimal.Decimal, currency string) string {
	return Money{amount}.Display(currency)
}

// KnownCurrency reports whether currency is a recognised ISO 4217 code.
func KnownCurrency(currency string) bool {
	return gomoney.GetCurrency(strings.ToUpper(currency)) != nil
}
