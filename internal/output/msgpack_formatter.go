package output

import (
	"time"

	"github.com/rpgo/withdrawal-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"
)

// MsgpackFormatter encodes a compact binary comparison for other programs.
// Decimals are flattened to float64.
type MsgpackFormatter struct{}

func (m MsgpackFormatter) Name() string { return "msgpack" }

// PackedComparison is the msgpack wire shape.
type PackedComparison struct {
	RunID       string           `msgpack:"run_id"`
	GeneratedAt string           `msgpack:"generated_at"`
	Currency    string           `msgpack:"currency"`
	StartYear   int              `msgpack:"start_year"`
	EndYear     int              `msgpack:"end_year"`
	Results     []PackedStrategy `msgpack:"results"`
}

// PackedStrategy is one strategy's record inside a PackedComparison.
type PackedStrategy struct {
	Key                string    `msgpack:"key"`
	Name               string    `msgpack:"name"`
	FinalValue         float64   `msgpack:"final_value"`
	TotalWithdrawn     float64   `msgpack:"total_withdrawn"`
	MaxDrawdownPercent float64   `msgpack:"max_drawdown_percent"`
	Volatility         float64   `msgpack:"volatility"`
	YearsLasted        int       `msgpack:"years_lasted"`
	Success            int       `msgpack:"success"`
	Health             string    `msgpack:"health"`
	Trajectory         []float64 `msgpack:"trajectory"`
	Returns            []float64 `msgpack:"returns"`
}

func (m MsgpackFormatter) Format(results *domain.StrategyComparison) ([]byte, error) {
	packed := PackedComparison{
		RunID:       results.RunID,
		GeneratedAt: results.GeneratedAt.UTC().Format(time.RFC3339),
		Currency:    currencyOf(results),
		StartYear:   results.Scenario.StartYear,
		EndYear:     results.Scenario.EndYear,
		Results:     make([]PackedStrategy, 0, len(results.Results)),
	}
	for _, r := range results.Results {
		s := r.Summary
		packed.Results = append(packed.Results, PackedStrategy{
			Key:                r.Strategy.Key,
			Name:               displayName(r.Strategy),
			FinalValue:         s.FinalValue.InexactFloat64(),
			TotalWithdrawn:     s.TotalWithdrawn.InexactFloat64(),
			MaxDrawdownPercent: s.MaxDrawdownPercent.InexactFloat64(),
			Volatility:         s.Volatility.InexactFloat64(),
			YearsLasted:        s.YearsLasted,
			Success:            s.Success,
			Health:             string(s.Health),
			Trajectory:         floats(r.Projection.Trajectory),
			Returns:            floats(r.Projection.Returns),
		})
	}
	return msgpack.Marshal(&packed)
}

func floats(ds []decimal.Decimal) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		out[i] = d.InexactFloat64()
	}
	return out
}
