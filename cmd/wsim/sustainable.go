package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rpgo/withdrawal-simulator/internal/calculation"
	"github.com/rpgo/withdrawal-simulator/internal/config"
	"github.com/rpgo/withdrawal-simulator/internal/output"
)

func newSustainableCmd(a *app) *cobra.Command {
	var (
		asJSON   bool
		currency string
	)
	cmd := &cobra.Command{
		Use:   "sustainable <config.yaml>",
		Short: "Find the largest initial withdrawal each selected strategy survives",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			if currency != "" {
				cfg.Data.Currency = strings.ToUpper(currency)
				if err := config.ValidateCurrency(cfg.Data.Currency); err != nil {
					return err
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
			engine.SetLogger(calculation.NewZerologAdapter(a.log))
			analysis, err := engine.CalculateSustainableWithdrawals(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(analysis)
			}

			fmt.Fprintf(out, "%d-%d, start capital %s, withdrawal %s\n\n",
				cfg.Scenario.StartYear, cfg.Scenario.EndYear,
				output.FormatCurrency(cfg.Scenario.StartCapital, cfg.Data.Currency),
				output.FormatCurrency(cfg.Scenario.Withdrawal.Amount, cfg.Data.Currency))
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "STRATEGY\tMAX WITHDRAWAL\tINITIAL RATE\tHEADROOM\tFINAL VALUE")
			for _, r := range analysis.Results {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Strategy,
					output.FormatCurrency(r.MaxWithdrawal, cfg.Data.Currency),
					output.FormatReturn(r.InitialRate),
					output.FormatCurrency(r.CurrentVsMaxDiff, cfg.Data.Currency),
					output.FormatCurrency(r.FinalValue, cfg.Data.Currency))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the analysis as JSON")
	cmd.Flags().StringVar(&currency, "currency", "", "display currency (ISO 4217), overrides the configuration")
	return cmd
}
