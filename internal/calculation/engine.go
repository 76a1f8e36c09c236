package calculation

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rpgo/withdrawal-simulator/internal/domain"
	"golang.org/x/sync/errgroup"
)

// CalculationEngine runs scenarios against a return source.
type CalculationEngine struct {
	Returns ReturnSource
	Workers int // concurrent strategy runs; 0 means GOMAXPROCS
	Debug   bool
	Logger  Logger
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine(returns ReturnSource) *CalculationEngine {
	return &CalculationEngine{
		Returns: returns,
		Logger:  NopLogger{},
	}
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

func (ce *CalculationEngine) logger() Logger {
	if ce.Logger == nil {
		return NopLogger{}
	}
	return ce.Logger
}

// RunStrategy simulates and summarizes one strategy under a scenario.
func (ce *CalculationEngine) RunStrategy(ctx context.Context, scenario *domain.Scenario, strategy domain.Strategy) (*domain.StrategyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if total := strategy.Allocation.Total(); !total.Equal(one) {
		ce.logger().Warnf("strategy %s: weights sum to %s, exposure is scaled", strategy.Key, total.String())
	}

	req := scenario.Request(strategy.Allocation)
	proj, err := Simulate(ce.Returns, req)
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", strategy.Key, err)
	}
	summary := Summarize(proj, scenario.Withdrawal, scenario.StartCapital)

	if ce.Debug {
		for _, p := range proj.Points() {
			ce.logger().Debugf("%s %d: return=%s value=%s", strategy.Key, p.Year, p.Return.StringFixed(4), p.Value.StringFixed(2))
		}
	}
	ce.logger().Infof("strategy %s: final=%s lasted=%d/%d drawdown=%s%%",
		strategy.Key, summary.FinalValue.StringFixed(2), summary.YearsLasted, proj.Len(), summary.MaxDrawdownPercent.StringFixed(2))

	return &domain.StrategyResult{
		Strategy:   strategy,
		Projection: *proj,
		Summary:    summary,
	}, nil
}

// RunScenario runs every strategy selected by the scenario and compares them.
// Strategies run concurrently; results keep the selection order.
func (ce *CalculationEngine) RunScenario(ctx context.Context, config *domain.Configuration) (*domain.StrategyComparison, error) {
	scenario := config.Scenario
	if len(scenario.Strategies) == 0 {
		return nil, invalidInput("no strategies selected")
	}

	strategies := make([]domain.Strategy, len(scenario.Strategies))
	for i, key := range scenario.Strategies {
		s, ok := config.StrategyByKey(key)
		if !ok {
			return nil, fmt.Errorf("unknown strategy %q", key)
		}
		strategies[i] = s
	}

	results := make([]domain.StrategyResult, len(strategies))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ce.workers())
	for i, strategy := range strategies {
		i, strategy := i, strategy
		g.Go(func() error {
			res, err := ce.RunStrategy(gctx, &scenario, strategy)
			if err != nil {
				return err
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("RunScenario failed: %w", err)
	}

	currency := config.Data.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	return &domain.StrategyComparison{
		RunID:          runIDFunc(),
		GeneratedAt:    nowFunc(),
		Currency:       currency,
		Scenario:       scenario,
		Results:        results,
		Recommendation: Recommend(results),
		Assumptions:    scenario.GenerateAssumptions(),
	}, nil
}

func (ce *CalculationEngine) workers() int {
	if ce.Workers > 0 {
		return ce.Workers
	}
	return runtime.GOMAXPROCS(0)
}
