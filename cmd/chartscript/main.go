package main

import (
	"fmt"
	"os"

	"github.com/raykavin/chartscript/pkg/config"
	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/feed"
	"github.com/raykavin/chartscript/pkg/logger"
	"github.com/spf13/cobra"
)

// Command line flags
var (
	configFile string
)

// app is what every command starts from
type app struct {
	cfg *config.Config
	log logger.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	// Create root command
	rootCmd := &cobra.Command{
		Use:     "chartscript",
		Short:   "Render indicator scripts over OHLCV data",
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file (e.g. ./chartscript.yaml)")

	// Add commands
	rootCmd.AddCommand(buildRenderCmd())
	rootCmd.AddCommand(buildEventsCmd())
	rootCmd.AddCommand(buildProfileCmd())
	rootCmd.AddCommand(buildToolsCmd())

	return rootCmd
}

// bindings maps configuration keys to the flag names of a command
type bindings map[string]string

// setup loads the configuration with the changed flags of cmd taking
// precedence, then builds the logger
func setup(cmd *cobra.Command, flags bindings) (*app, error) {
	v := config.New()
	for key, name := range flags {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}

	cfg, err := config.Read(v, configFile)
	if err != nil {
		return nil, err
	}

	log, err := config.NewLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, log: log}, nil
}

// feedFlags registers the candle source flags shared by the commands
func feedFlags(cmd *cobra.Command) bindings {
	cmd.Flags().StringP("input", "i", "", "OHLCV CSV file (e.g. ./btc-1h.csv)")
	cmd.Flags().StringP("symbol", "s", "", "Instrument symbol (e.g. BTCUSDT)")
	cmd.Flags().StringP("timeframe", "t", "", "Resample to timeframe (e.g. 4h)")
	cmd.Flags().String("source-timeframe", "", "Timeframe of the CSV file, inferred when empty")
	cmd.Flags().String("window", "", "Keep only the last window of data (e.g. 30d)")
	cmd.Flags().Bool("heikin-ashi", false, "Convert the candles to Heikin-Ashi")
	cmd.Flags().StringArrayP("indicators", "n", nil, "Indicator, repeatable (e.g. -n sma:9,21 -n rsi:14)")

	return bindings{
		"feed.file":             "input",
		"feed.symbol":           "symbol",
		"feed.timeframe":        "timeframe",
		"feed.source_timeframe": "source-timeframe",
		"feed.window":           "window",
		"feed.heikin_ashi":      "heikin-ashi",
		"indicators":            "indicators",
	}
}

func (a *app) loadData() (*core.Dataframe, error) {
	if a.cfg.Feed.File == "" {
		return nil, fmt.Errorf("no input file: use --input or feed.file")
	}

	df, err := feed.Load(feed.Source{
		Symbol:     a.cfg.Feed.Symbol,
		File:       a.cfg.Feed.File,
		Timeframe:  a.cfg.Feed.SourceTimeframe,
		HeikinAshi: a.cfg.Feed.HeikinAshi,
	}, a.cfg.Feed.Timeframe, a.cfg.Feed.Window)
	if err != nil {
		return nil, err
	}

	a.log.WithFields(map[string]any{
		"symbol": df.Symbol,
		"bars":   df.Len(),
		"from":   df.TimeAt(0),
		"to":     df.TimeAt(df.LastIndex()),
	}).Info("data loaded")
	return df, nil
}

func merge(sets ...bindings) bindings {
	out := bindings{}
	for _, set := range sets {
		for key, name := range set {
			out[key] = name
		}
	}
	return out
}
