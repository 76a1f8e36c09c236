package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/withdrawal-simulator/internal/domain"
)

// CSVTrajectoryExporter writes one row per simulated year with a value column
// per strategy, in selection order.
type CSVTrajectoryExporter struct{}

func (c CSVTrajectoryExporter) Name() string { return "trajectory-csv" }

func (c CSVTrajectoryExporter) Extension() string { return "csv" }

func (c CSVTrajectoryExporter) Format(results *domain.StrategyComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Year"}
	for _, r := range results.Results {
		header = append(header, r.Strategy.Key)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	years := 0
	for _, r := range results.Results {
		if n := r.Projection.Len(); n > years {
			years = n
		}
	}
	for i := 0; i < years; i++ {
		row := []string{intToString(results.Scenario.StartYear + i)}
		for _, r := range results.Results {
			value := ""
			if i < r.Projection.Len() {
				value = r.Projection.Trajectory[i].StringFixed(2)
			}
			row = append(row, value)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
