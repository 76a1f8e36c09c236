package output

import (
	"encoding/json"

	"github.com/rpgo/withdrawal-simulator/internal/domain"
)

// JSONFormatter serializes the strategy comparison as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(results *domain.StrategyComparison) ([]byte, error) {
	return json.MarshalIndent(results, "", "  ")
}
