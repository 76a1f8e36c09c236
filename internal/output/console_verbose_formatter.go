package output

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/rpgo/withdrawal-simulator/internal/domain"
)

// ConsoleVerboseFormatter renders assumptions, per-strategy statistics and the
// year-by-year path of every strategy.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console-verbose" }

func (c ConsoleVerboseFormatter) Extension() string { return "txt" }

func (c ConsoleVerboseFormatter) Format(results *domain.StrategyComparison) ([]byte, error) {
	var buf bytes.Buffer
	cur := currencyOf(results)

	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintln(&buf, "DETAILED HISTORICAL WITHDRAWAL ANALYSIS")
	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	if results.RunID != "" {
		fmt.Fprintf(&buf, "Run: %s  Generated: %s\n", results.RunID, results.GeneratedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range assumptionsFor(results) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	for i, r := range results.Results {
		s := r.Summary
		fmt.Fprintf(&buf, "STRATEGY %d: %s (%s)\n", i+1, displayName(r.Strategy), r.Strategy.Key)
		fmt.Fprintln(&buf, strings.Repeat("-", 50))
		fmt.Fprintf(&buf, "Allocation:      %s\n", formatAllocation(r.Strategy.Allocation))
		fmt.Fprintf(&buf, "Final value:     %s\n", FormatCurrency(s.FinalValue, cur))
		fmt.Fprintf(&buf, "Total withdrawn: %s\n", FormatCurrency(s.TotalWithdrawn, cur))
		fmt.Fprintf(&buf, "Max drawdown:    %s\n", FormatPercentage(s.MaxDrawdownPercent))
		fmt.Fprintf(&buf, "Volatility:      %s\n", FormatReturn(s.Volatility))
		fmt.Fprintf(&buf, "Years lasted:    %d of %d\n", s.YearsLasted, r.Projection.Len())
		fmt.Fprintf(&buf, "Health:          %s\n", s.Health)
		fmt.Fprintln(&buf)

		tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "Year\tReturn\tValue\t")
		for _, p := range r.Projection.Points() {
			fmt.Fprintf(tw, "%d\t%s\t%s\t\n", p.Year, FormatReturn(p.Return), FormatCurrency(p.Value, cur))
		}
		if err := tw.Flush(); err != nil {
			return nil, err
		}
		fmt.Fprintln(&buf)
	}

	if crossovers := FindCrossovers(results); len(crossovers) > 0 {
		fmt.Fprintln(&buf, "CROSSOVERS")
		fmt.Fprintln(&buf, strings.Repeat("-", 50))
		for _, c := range crossovers {
			fmt.Fprintf(&buf, "%s overtakes %s in %d (month %d) at %s\n",
				c.Challenger, c.Leader, c.Year, c.Month, FormatCurrency(c.Value, cur))
		}
		fmt.Fprintln(&buf)
	}

	rec := results.Recommendation
	if rec.BestForFinalValue != "" {
		fmt.Fprintln(&buf, "RECOMMENDATION")
		fmt.Fprintln(&buf, strings.Repeat("-", 50))
		fmt.Fprintf(&buf, "Best final value: %s\n", rec.BestForFinalValue)
		fmt.Fprintf(&buf, "Longest lasting:  %s\n", rec.BestForLongevity)
		fmt.Fprintf(&buf, "Lowest drawdown:  %s\n", rec.LowestDrawdown)
	}
	return buf.Bytes(), nil
}

func formatAllocation(a domain.Allocation) string {
	parts := make([]string, 0, len(a))
	for _, class := range a.Classes() {
		parts = append(parts, fmt.Sprintf("%s %s", class, FormatPercentage(a[class].Mul(decimalHundred))))
	}
	return strings.Join(parts, ", ")
}
