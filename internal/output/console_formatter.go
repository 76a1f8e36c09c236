package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/rpgo/withdrawal-simulator/internal/domain"
)

// ConsoleFormatter provides a concise console summary table via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(results *domain.StrategyComparison) ([]byte, error) {
	var buf bytes.Buffer
	cur := currencyOf(results)
	s := results.Scenario

	fmt.Fprintln(&buf, "WITHDRAWAL STRATEGY COMPARISON")
	fmt.Fprintln(&buf, "================================")
	if s.Name != "" {
		fmt.Fprintf(&buf, "Scenario: %s\n", s.Name)
	}
	fmt.Fprintf(&buf, "Window: %d-%d  Start capital: %s  Withdrawal: %s\n",
		s.StartYear, s.EndYear, FormatCurrency(s.StartCapital, cur), FormatCurrency(s.Withdrawal.Amount, cur))
	fmt.Fprintln(&buf)

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Rank\tStrategy\tFinal value\tChange\tLasted\tHealth")
	for _, r := range RankStrategies(results) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n",
			r.Rank, r.Name, FormatCurrency(r.FinalValue, cur), FormatPercentage(r.PercentageChange), r.YearsLasted, r.Health)
	}
	if err := tw.Flush(); err != nil {
		return nil, err
	}

	rec := results.Recommendation
	if rec.BestForFinalValue != "" {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Best final value: %s\n", rec.BestForFinalValue)
		fmt.Fprintf(&buf, "Longest lasting:  %s\n", rec.BestForLongevity)
		fmt.Fprintf(&buf, "Lowest drawdown:  %s\n", rec.LowestDrawdown)
	}
	return buf.Bytes(), nil
}
