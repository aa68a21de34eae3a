package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rustyeddy/fxbot/backtest"
	"github.com/rustyeddy/fxbot/market"
	"github.com/rustyeddy/fxbot/messages"
	"github.com/spf13/cobra"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Grid-search stop and target distances over historical candles",
	Long: `Optimize runs one independent backtest per (stop, target) combination.

Each run writes its trades to its own SQLite ledger under the results
directory; the run id in the file name is time-sortable. Results are
summarized and ranked by net return once every run has finished.

Example:
  fxbot optimize -c data/eurusd_m5.csv -i EUR_USD --stops 10,20,30 --takes 20,30,40`,
	RunE: runOptimize,
}

var (
	optCandlesPath string
	optInstrument  string
	optSide        string
	optUnits       float64
	optStake       float64
	optCash        float64
	optStops       string
	optTakes       string
	optOutDir      string
	optWorkers     int
	optCurrency    string
)

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().StringVarP(&optCandlesPath, "candles", "c", "", "path to candle CSV (required)")
	optimizeCmd.Flags().StringVarP(&optInstrument, "instrument", "i", "EUR_USD", "instrument to trade")
	optimizeCmd.Flags().StringVar(&optSide, "side", "BUY", "bracket side (BUY or SELL)")
	optimizeCmd.Flags().Float64VarP(&optUnits, "units", "u", 10_000, "order units")
	optimizeCmd.Flags().Float64Var(&optStake, "risk", 100, "cash staked per trade")
	optimizeCmd.Flags().Float64Var(&optCash, "cash", 10_000, "starting cash per run")
	optimizeCmd.Flags().StringVar(&optStops, "stops", "10,20,30", "stop distances in pips, comma separated")
	optimizeCmd.Flags().StringVar(&optTakes, "takes", "15,30,45", "target distances in pips, comma separated")
	optimizeCmd.Flags().StringVarP(&optOutDir, "out", "o", "./opt-results", "results directory")
	optimizeCmd.Flags().IntVar(&optWorkers, "workers", 4, "parallel runs")
	optimizeCmd.Flags().StringVar(&optCurrency, "currency", "EUR", "account currency")

	optimizeCmd.MarkFlagRequired("candles")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	side := market.Side(optSide)
	if !side.Valid() {
		return fmt.Errorf("bad side %q (want BUY or SELL)", optSide)
	}

	stops, err := parsePipsList(optStops)
	if err != nil {
		return fmt.Errorf("stops: %w", err)
	}
	takes, err := parsePipsList(optTakes)
	if err != nil {
		return fmt.Errorf("takes: %w", err)
	}

	candles, err := market.LoadCandlesCSV(optCandlesPath)
	if err != nil {
		return fmt.Errorf("load candles: %w", err)
	}
	if len(candles) == 0 {
		return fmt.Errorf("no candles in %s", optCandlesPath)
	}

	pips := market.DefaultPips()
	pipUnits, err := pips.Units(optInstrument)
	if err != nil {
		return err
	}

	opt := &backtest.Optimizer{
		Instrument: optInstrument,
		Language:   messages.LangENUS,
		Currency:   optCurrency,
		Pips:       pips,
		Cash:       optCash,
		OutDir:     optOutDir,
		Workers:    optWorkers,
	}

	variants := backtest.Grid(stops, takes)
	fmt.Printf("Optimizing %s %s: %d variants over %d candles (%d workers)\n\n",
		optInstrument, side, len(variants), len(candles), optWorkers)

	results, err := opt.Run(context.Background(), candles, variants, func(v backtest.Variant) backtest.Strategy {
		return &backtest.OpenOnceStrategy{
			Instrument: optInstrument,
			Side:       side,
			Units:      optUnits,
			Stake:      optStake,
			StopPips:   v.StopPips,
			TakePips:   v.TakePips,
			PipUnits:   pipUnits,
		}
	})
	if err != nil {
		return fmt.Errorf("optimize: %w", err)
	}

	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("  %-20s FAILED: %v\n", r.Variant, r.Err)
			continue
		}
		fmt.Printf("  %-20s trades %3d  win rate %.3f  net %8.2f %s  (%s)\n",
			r.Variant, r.Summary.Trades, r.Summary.WinRate(),
			r.Summary.Net(), optCurrency, r.DBPath)
	}

	if best, ok := backtest.Best(results); ok {
		fmt.Printf("\nBest: %s with net %.2f %s\n", best.Variant, best.Summary.Net(), optCurrency)
	}
	return nil
}

func parsePipsList(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q: %w", part, err)
		}
		if v <= 0 {
			return nil, fmt.Errorf("pips must be positive, got %v", v)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	return out, nil
}
