package output

import (
	"bytes"
	"encoding/csv"
	"sort"

	"github.com/rpgo/withdrawal-simulator/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per strategy).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(results *domain.StrategyComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Strategy", "Name", "FinalValue", "TotalWithdrawn", "MaxDrawdownPercent", "Volatility", "YearsLasted", "Success", "Health"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	rows := append([]domain.StrategyResult(nil), results.Results...)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Strategy.Key < rows[j].Strategy.Key })
	for _, r := range rows {
		s := r.Summary
		row := []string{
			r.Strategy.Key,
			displayName(r.Strategy),
			s.FinalValue.StringFixed(2),
			s.TotalWithdrawn.StringFixed(2),
			s.MaxDrawdownPercent.StringFixed(2),
			s.Volatility.StringFixed(6),
			intToString(s.YearsLasted),
			boolToString(s.Survived()),
			string(s.Health),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
