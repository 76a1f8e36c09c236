package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Strategy is a named allocation that can be compared against others.
type Strategy struct {
	Key        string     `yaml:"key" json:"key"`
	Name       string     `yaml:"name" json:"name"`
	Allocation Allocation `yaml:"allocation" json:"allocation"`
}

// Scenario describes the historical window and withdrawal plan shared by
// every strategy in a comparison.
type Scenario struct {
	Name         string           `yaml:"name" json:"name"`
	StartYear    int              `yaml:"start_year" json:"start_year"`
	EndYear      int              `yaml:"end_year" json:"end_year"`
	StartCapital decimal.Decimal  `yaml:"start_capital" json:"start_capital"`
	Withdrawal   WithdrawalPolicy `yaml:"withdrawal" json:"withdrawal"`
	Shock        *MarketShock     `yaml:"shock,omitempty" json:"shock,omitempty"`
	Strategies   []string         `yaml:"strategies" json:"strategies"`
}

// Request builds the simulation request for one allocation.
func (s *Scenario) Request(allocation Allocation) SimulationRequest {
	return SimulationRequest{
		StartYear:    s.StartYear,
		EndYear:      s.EndYear,
		StartCapital: s.StartCapital,
		Withdrawal:   s.Withdrawal,
		Allocation:   allocation,
		Shock:        s.Shock,
	}
}

// DefaultCurrency is the display currency used when none is configured.
const DefaultCurrency = "GBP"

// DataSettings selects the return dataset and display currency.
type DataSettings struct {
	Dir      string `yaml:"dir,omitempty" json:"dir,omitempty"`
	Currency string `yaml:"currency,omitempty" json:"currency,omitempty"`
}

// Configuration is the complete on-disk input.
type Configuration struct {
	Scenario   Scenario     `yaml:"scenario" json:"scenario"`
	Strategies []Strategy   `yaml:"strategies,omitempty" json:"strategies,omitempty"`
	Data       DataSettings `yaml:"data" json:"data"`
}

// StrategyByKey finds a strategy among the configured ones.
func (c *Configuration) StrategyByKey(key string) (Strategy, bool) {
	for _, s := range c.Strategies {
		if s.Key == key {
			return s, true
		}
	}
	return Strategy{}, false
}

// GenerateAssumptions creates the assumptions list from the scenario values.
func (s *Scenario) GenerateAssumptions() []string {
	assumptions := []string{
		fmt.Sprintf("Historical window: %d-%d (%d years)", s.StartYear, s.EndYear, s.windowYears()),
		"Returns are real (inflation-adjusted) annual returns; missing years count as 0%",
		"Withdrawals are taken at year end, after growth",
	}
	if s.Withdrawal.Escalate {
		assumptions = append(assumptions, fmt.Sprintf("Withdrawal escalates by %.1f%% annually", EscalationRate.Mul(decimal.NewFromInt(100)).InexactFloat64()))
	} else {
		assumptions = append(assumptions, "Withdrawal held flat in nominal terms")
	}
	if s.Shock != nil {
		assumptions = append(assumptions, fmt.Sprintf("Market shock of %.1f%% in year %d (bonds 50%%, REITs 80%%, cash unaffected)",
			s.Shock.Severity.Mul(decimal.NewFromInt(100)).InexactFloat64(), s.StartYear+s.Shock.YearIndex))
	}
	return assumptions
}

func (s *Scenario) windowYears() int {
	n, _ := WindowSpan(s.StartYear, s.EndYear)
	return n
}
