package config

import (
	"fmt"
	"os"

	"github.com/rpgo/withdrawal-simulator/internal/domain"
	"github.com/rpgo/withdrawal-simulator/pkg/money"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultCurrency is used for display when the configuration names none.
const DefaultCurrency = domain.DefaultCurrency

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes YAML, merges the strategy presets and validates the result.
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ip.ApplyDefaults(&config)

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ApplyDefaults merges the presets into the configured strategies and fills
// in the display currency. A configured strategy replaces a preset with the
// same key.
func (ip *InputParser) ApplyDefaults(config *domain.Configuration) {
	config.Strategies = MergeStrategies(DefaultStrategies(), config.Strategies)
	if config.Data.Currency == "" {
		config.Data.Currency = DefaultCurrency
	}
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ip.validateScenario(&config.Scenario); err != nil {
		return fmt.Errorf("scenario validation failed: %w", err)
	}

	seen := make(map[string]bool, len(config.Strategies))
	for i, strategy := range config.Strategies {
		if err := ip.validateStrategy(&strategy); err != nil {
			return fmt.Errorf("strategy %d validation failed: %w", i, err)
		}
		if seen[strategy.Key] {
			return fmt.Errorf("duplicate strategy key %q", strategy.Key)
		}
		seen[strategy.Key] = true
	}

	for _, key := range config.Scenario.Strategies {
		if !seen[key] {
			return fmt.Errorf("unknown strategy %q", key)
		}
	}

	if config.Data.Currency != "" {
		if err := ValidateCurrency(config.Data.Currency); err != nil {
			return err
		}
	}

	return nil
}

// ValidateCurrency rejects codes that are not ISO 4217 currencies.
func ValidateCurrency(code string) error {
	if !money.KnownCurrency(code) {
		return fmt.Errorf("unknown currency %q", code)
	}
	return nil
}

// validateScenario validates the shared historical window and withdrawal plan
func (ip *InputParser) validateScenario(scenario *domain.Scenario) error {
	if scenario.StartYear == 0 || scenario.EndYear == 0 {
		return fmt.Errorf("start_year and end_year are required")
	}
	if scenario.StartYear > scenario.EndYear {
		return fmt.Errorf("start year %d is after end year %d", scenario.StartYear, scenario.EndYear)
	}
	if _, ok := domain.WindowSpan(scenario.StartYear, scenario.EndYear); !ok {
		return fmt.Errorf("window %d-%d is longer than %d years", scenario.StartYear, scenario.EndYear, domain.MaxWindowYears)
	}
	if scenario.StartCapital.LessThan(decimal.Zero) {
		return fmt.Errorf("start capital cannot be negative")
	}
	if scenario.Withdrawal.Amount.LessThan(decimal.Zero) {
		return fmt.Errorf("withdrawal amount cannot be negative")
	}
	if scenario.Shock != nil && scenario.Shock.YearIndex < 0 {
		return fmt.Errorf("shock year index cannot be negative")
	}
	if len(scenario.Strategies) == 0 {
		return fmt.Errorf("at least one strategy must be selected")
	}
	return nil
}

// validateStrategy validates a single strategy definition
func (ip *InputParser) validateStrategy(strategy *domain.Strategy) error {
	if strategy.Key == "" {
		return fmt.Errorf("strategy key is required")
	}
	if len(strategy.Allocation) == 0 {
		return fmt.Errorf("strategy %s has an empty allocation", strategy.Key)
	}
	for _, class := range strategy.Allocation.Classes() {
		if strategy.Allocation[class].LessThan(decimal.Zero) {
			return fmt.Errorf("strategy %s: weight for %s cannot be negative", strategy.Key, class)
		}
	}
	return nil
}

// SaveConfiguration writes a configuration as YAML.
func (ip *InputParser) SaveConfiguration(config *domain.Configuration, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// CreateExampleConfiguration creates an example configuration file
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	return &domain.Configuration{
		Scenario: domain.Scenario{
			Name:         "Retirement from 2005",
			StartYear:    2005,
			EndYear:      2025,
			StartCapital: decimal.NewFromInt(170000),
			Withdrawal: domain.WithdrawalPolicy{
				Amount:   decimal.NewFromInt(1500),
				Escalate: true,
			},
			Strategies: []string{"moderate", "cash_only"},
		},
		Strategies: []domain.Strategy{
			{
				Key:  "stocks_and_cash",
				Name: "Stocks and cash",
				Allocation: domain.Allocation{
					domain.Stocks: decimal.NewFromFloat(0.4),
					domain.Cash:   decimal.NewFromFloat(0.6),
				},
			},
		},
		Data: domain.DataSettings{Currency: DefaultCurrency},
	}
}
