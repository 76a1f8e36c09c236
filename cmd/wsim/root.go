package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rpgo/withdrawal-simulator/internal/calculation"
	"github.com/rpgo/withdrawal-simulator/internal/config"
	"github.com/rpgo/withdrawal-simulator/pkg/logger"
)

// app carries the settings shared by every subcommand.
type app struct {
	settings config.Settings
	log      zerolog.Logger

	logLevel string
	pretty   bool
	dataDir  string
}

func newRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "wsim",
		Short:         "Historical withdrawal simulator",
		Long:          "Replays historical annual returns against portfolio allocations under a yearly withdrawal schedule and compares the outcomes.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (env WSIM_LOG_LEVEL)")
	flags.BoolVar(&a.pretty, "log-pretty", false, "human readable log output (env WSIM_LOG_PRETTY)")
	flags.StringVar(&a.dataDir, "data-dir", "", "directory of <class>.csv return files; empty uses the built-in data (env WSIM_DATA_DIR)")

	root.AddCommand(
		newRunCmd(a),
		newSustainableCmd(a),
		newStrategiesCmd(a),
		newDataCmd(a),
		newExampleConfigCmd(a),
		newServeCmd(a),
	)
	return root
}

// setup resolves settings with flags taking precedence over the environment.
func (a *app) setup(cmd *cobra.Command) error {
	a.settings = config.LoadSettings()
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		a.settings.LogLevel = a.logLevel
	}
	if flags.Changed("log-pretty") {
		a.settings.Pretty = a.pretty
	}
	if flags.Changed("data-dir") {
		a.settings.DataDir = a.dataDir
	}

	a.log = logger.New(logger.Config{
		Level:  a.settings.LogLevel,
		Pretty: a.settings.Pretty,
		Out:    cmd.ErrOrStderr(),
	})
	logger.SetGlobalLogger(a.log)
	return nil
}

// loadData loads the return dataset from dir, falling back to the configured
// data directory and then to the built-in data.
func (a *app) loadData(dir string) (*calculation.HistoricalDataManager, error) {
	if dir == "" {
		dir = a.settings.DataDir
	}
	hdm := calculation.NewHistoricalDataManager(dir)
	if err := hdm.LoadAllData(); err != nil {
		return nil, fmt.Errorf("failed to load historical data: %w", err)
	}

	source := dir
	if source == "" {
		source = "built-in"
	}
	minYear, maxYear, _ := hdm.GetAvailableYears()
	a.log.Debug().Str("source", source).Int("classes", len(hdm.Datasets)).Int("from", minYear).Int("to", maxYear).Msg("historical data loaded")

	issues, err := hdm.ValidateDataQuality()
	if err != nil {
		return nil, err
	}
	for _, issue := range issues {
		a.log.Warn().Msg(issue)
	}
	return hdm, nil
}
