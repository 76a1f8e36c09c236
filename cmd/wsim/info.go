package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rpgo/withdrawal-simulator/internal/config"
	"github.com/rpgo/withdrawal-simulator/internal/domain"
)

func newStrategiesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "strategies [config.yaml]",
		Short: "List the built-in strategies, plus any defined in a configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strategies := config.DefaultStrategies()
			if len(args) == 1 {
				cfg, err := config.NewInputParser().LoadFromFile(args[0])
				if err != nil {
					return err
				}
				strategies = cfg.Strategies
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tNAME\tALLOCATION")
			for _, s := range strategies {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Key, s.Name, allocationString(s.Allocation))
			}
			return tw.Flush()
		},
	}
}

func allocationString(a domain.Allocation) string {
	parts := make([]string, 0, len(a))
	for _, class := range a.Classes() {
		parts = append(parts, fmt.Sprintf("%s=%s", class, a[class].String()))
	}
	return strings.Join(parts, " ")
}

func newDataCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "data",
		Short: "Describe the historical return dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hdm, err := a.loadData("")
			if err != nil {
				return err
			}
			minYear, maxYear, err := hdm.GetAvailableYears()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Years: %d-%d\n\n", minYear, maxYear)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CLASS\tYEARS\tMEAN\tSTDDEV\tMIN\tMAX")
			for _, class := range hdm.Classes() {
				ds := hdm.Datasets[class]
				st := ds.Statistics
				fmt.Fprintf(tw, "%s\t%d-%d\t%s\t%s\t%s\t%s\n", class, ds.MinYear, ds.MaxYear,
					st.Mean.StringFixed(4), st.StdDev.StringFixed(4), st.Min.StringFixed(4), st.Max.StringFixed(4))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			issues, err := hdm.ValidateDataQuality()
			if err != nil {
				return err
			}
			for _, issue := range issues {
				fmt.Fprintf(out, "warning: %s\n", issue)
			}
			return nil
		},
	}
}

func newExampleConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "example-config [file]",
		Short: "Write an example configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "example_config.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			parser := config.NewInputParser()
			if err := parser.SaveConfiguration(parser.CreateExampleConfiguration(), path); err != nil {
				return err
			}
			a.log.Info().Str("path", path).Msg("example configuration written")
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
