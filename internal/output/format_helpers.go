package output

import (
	"strconv"

	"github.com/rpgo/withdrawal-simulator/internal/domain"
	"github.com/rpgo/withdrawal-simulator/pkg/money"
	"github.com/shopspring/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// FormatCurrency formats a decimal in the given ISO 4217 currency, e.g. "£1,500.00".
func FormatCurrency(amount decimal.Decimal, currency string) string {
	return money.Format(amount, currency)
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatReturn formats a fractional return (0.023) as a percentage ("2.30%").
func FormatReturn(r decimal.Decimal) string { return FormatPercentage(r.Mul(decimalHundred)) }

// currencyOf returns the display currency of a comparison.
func currencyOf(results *domain.StrategyComparison) string {
	if results.Currency == "" {
		return domain.DefaultCurrency
	}
	return results.Currency
}

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }
