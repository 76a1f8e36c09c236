package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rpgo/withdrawal-simulator/internal/calculation"
	"github.com/rpgo/withdrawal-simulator/internal/config"
	"github.com/rpgo/withdrawal-simulator/internal/output"
)

type runOptions struct {
	format     string
	outputDir  string
	strategies []string
	currency   string
	workers    int
	debug      bool
}

func newRunCmd(a *app) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run <config.yaml>",
		Short: "Compare the strategies selected in a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", "console",
		fmt.Sprintf("output format: %s, or all with --output-dir", strings.Join(output.AvailableFormatterNames(), ", ")))
	flags.StringVarP(&opts.outputDir, "output-dir", "o", "", "write timestamped report files to this directory instead of stdout")
	flags.StringSliceVarP(&opts.strategies, "strategies", "s", nil, "override the selected strategy keys")
	flags.StringVar(&opts.currency, "currency", "", "display currency (ISO 4217), overrides the configuration")
	flags.IntVar(&opts.workers, "workers", 0, "strategies simulated concurrently (0 = one per CPU)")
	flags.BoolVar(&opts.debug, "debug", false, "log every simulated year")
	return cmd
}

func (a *app) run(cmd *cobra.Command, path string, opts *runOptions) error {
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile(path)
	if err != nil {
		return err
	}

	if len(opts.strategies) > 0 {
		cfg.Scenario.Strategies = opts.strategies
	}
	if opts.currency != "" {
		cfg.Data.Currency = strings.ToUpper(opts.currency)
	}
	if len(opts.strategies) > 0 || opts.currency != "" {
		if err := parser.ValidateConfiguration(cfg); err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	dataDir := cfg.Data.Dir
	if cmd.Flags().Changed("data-dir") {
		dataDir = a.settings.DataDir
	}
	data, err := a.loadData(dataDir)
	if err != nil {
		return err
	}

	engine := calculation.NewCalculationEngine(data)
	engine.Workers = opts.workers
	engine.Debug = opts.debug
	engine.SetLogger(calculation.NewZerologAdapter(a.log))

	comparison, err := engine.RunScenario(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if opts.outputDir == "" {
		return output.Render(cmd.OutOrStdout(), comparison, opts.format)
	}
	files, err := output.GenerateReport(comparison, opts.format, opts.outputDir)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintln(cmd.OutOrStdout(), f)
	}
	return nil
}
