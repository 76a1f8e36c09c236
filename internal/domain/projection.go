package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SimulationRequest carries every input of a single historical-path simulation.
type SimulationRequest struct {
	StartYear    int              `json:"start_year"`
	EndYear      int              `json:"end_year"`
	StartCapital decimal.Decimal  `json:"start_capital"`
	Withdrawal   WithdrawalPolicy `json:"withdrawal"`
	Allocation   Allocation       `json:"allocation"`
	Shock        *MarketShock     `json:"shock,omitempty"`
}

// MaxWindowYears bounds the length of a simulated window.
const MaxWindowYears = 1000

// WindowSpan returns the inclusive number of years from start to end. It
// reports false when end precedes start or the window exceeds MaxWindowYears.
func WindowSpan(start, end int) (int, bool) {
	if start > end {
		return 0, false
	}
	// exact for start <= end, even across the whole int range
	diff := uint64(end) - uint64(start)
	if diff >= MaxWindowYears {
		return 0, false
	}
	return int(diff) + 1, true
}

// WindowLength returns the number of simulated years (inclusive window), or 0
// for a window WindowSpan rejects.
func (r SimulationRequest) WindowLength() int {
	n, _ := WindowSpan(r.StartYear, r.EndYear)
	return n
}

// Projection is the output of one simulation run: end-of-year portfolio values
// and the blended return applied in each year. Both series always have the
// length of the requested window; years after exhaustion hold zero.
type Projection struct {
	StartYear  int               `json:"start_year"`
	EndYear    int               `json:"end_year"`
	Trajectory []decimal.Decimal `json:"trajectory"`
	Returns    []decimal.Decimal `json:"returns"`
}

// YearPoint is one charting sample of a projection.
type YearPoint struct {
	Year   int             `json:"year"`
	Value  decimal.Decimal `json:"value"`
	Return decimal.Decimal `json:"return"`
}

// Len returns the number of simulated years.
func (p *Projection) Len() int {
	return len(p.Trajectory)
}

// Years returns the calendar year of every trajectory entry.
func (p *Projection) Years() []int {
	years := make([]int, len(p.Trajectory))
	for i := range years {
		years[i] = p.StartYear + i
	}
	return years
}

// Points zips years, values and returns for time-series rendering.
func (p *Projection) Points() []YearPoint {
	points := make([]YearPoint, len(p.Trajectory))
	for i, v := range p.Trajectory {
		points[i] = YearPoint{Year: p.StartYear + i, Value: v}
		if i < len(p.Returns) {
			points[i].Return = p.Returns[i]
		}
	}
	return points
}

// ExhaustedAt returns the 1-based index of the first zero value, or 0 if the
// portfolio never reached zero.
func (p *Projection) ExhaustedAt() int {
	for i, v := range p.Trajectory {
		if v.IsZero() {
			return i + 1
		}
	}
	return 0
}

// HealthTier buckets a final value against the starting capital.
type HealthTier string

const (
	HealthStrong   HealthTier = "strong"   // final > 1.5x start
	HealthHealthy  HealthTier = "healthy"  // final > 1.0x start
	HealthWeakened HealthTier = "weakened" // final > 0.5x start
	HealthCritical HealthTier = "critical"
)

// Summary holds the derived statistics of one projection.
type Summary struct {
	FinalValue         decimal.Decimal `json:"final_value"`
	TotalWithdrawn     decimal.Decimal `json:"total_withdrawn"`
	MaxDrawdown        decimal.Decimal `json:"max_drawdown"` // fraction in [0, 1]
	MaxDrawdownPercent decimal.Decimal `json:"max_drawdown_percent"`
	Volatility         decimal.Decimal `json:"volatility"`
	YearsLasted        int             `json:"years_lasted"`
	Success            int             `json:"success"` // 1 if the portfolio survived the window
	Health             HealthTier      `json:"health"`
}

// Survived reports whether the portfolio still held value at the end of the window.
func (s Summary) Survived() bool {
	return s.Success == 1
}

// StrategyResult pairs a strategy with its projection and summary.
type StrategyResult struct {
	Strategy   Strategy   `json:"strategy"`
	Projection Projection `json:"projection"`
	Summary    Summary    `json:"summary"`
}

// StrategyComparison is the outcome of running one scenario against several strategies.
type StrategyComparison struct {
	RunID          string           `json:"run_id"`
	GeneratedAt    time.Time        `json:"generated_at"`
	Currency       string           `json:"currency"`
	Scenario       Scenario         `json:"scenario"`
	Results        []StrategyResult `json:"results"`
	Recommendation Recommendation   `json:"recommendation"`
	Assumptions    []string         `json:"assumptions"`
}

// Recommendation names the strongest strategy on each headline metric.
type Recommendation struct {
	BestForFinalValue string `json:"best_for_final_value"`
	BestForLongevity  string `json:"best_for_longevity"`
	LowestDrawdown    string `json:"lowest_drawdown"`
}

// Result returns the result for a strategy key, if present.
func (c *StrategyComparison) Result(key string) (StrategyResult, bool) {
	for _, r := range c.Results {
		if r.Strategy.Key == key {
			return r, true
		}
	}
	return StrategyResult{}, false
}
