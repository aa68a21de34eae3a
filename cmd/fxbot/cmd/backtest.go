package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/fxbot/backtest"
	"github.com/rustyeddy/fxbot/journal"
	"github.com/rustyeddy/fxbot/market"
	"github.com/rustyeddy/fxbot/messages"
	"github.com/rustyeddy/fxbot/reconcile"
	"github.com/spf13/cobra"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Backtest a bracket strategy over historical candles",
	Long: `Backtest replays historical candles through the simulated bracket broker.

Every simulated fill goes through the same reconciliation path as a live
trade, so the resulting ledger rows have the same shape as live ones.
Positions still open at the last bar are force-closed with interpolated P&L
and tagged canceled.

Example:
  fxbot backtest -c data/eurusd_m5.csv -i EUR_USD --stop-pips 20 --take-pips 30`,
	RunE: runBacktestCmd,
}

var (
	btCandlesPath string
	btDBPath      string
	btInstrument  string
	btSide        string
	btUnits       float64
	btStake       float64
	btCash        float64
	btStopPips    float64
	btTakePips    float64
	btCurrency    string
	btLanguage    string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btCandlesPath, "candles", "c", "", "path to candle CSV (time,open,high,low,close[,volume]) (required)")
	backtestCmd.Flags().StringVarP(&btDBPath, "db", "d", "./backtest.db", "path to SQLite trade ledger")
	backtestCmd.Flags().StringVarP(&btInstrument, "instrument", "i", "EUR_USD", "instrument to trade")
	backtestCmd.Flags().StringVar(&btSide, "side", "BUY", "bracket side (BUY or SELL)")
	backtestCmd.Flags().Float64VarP(&btUnits, "units", "u", 10_000, "order units")
	backtestCmd.Flags().Float64Var(&btStake, "risk", 100, "cash staked per trade")
	backtestCmd.Flags().Float64Var(&btCash, "cash", 10_000, "starting cash")
	backtestCmd.Flags().Float64Var(&btStopPips, "stop-pips", 20, "stop loss distance in pips")
	backtestCmd.Flags().Float64Var(&btTakePips, "take-pips", 30, "take profit distance in pips")
	backtestCmd.Flags().StringVar(&btCurrency, "currency", "EUR", "account currency")
	backtestCmd.Flags().StringVar(&btLanguage, "language", messages.LangENUS, "message language (EN-US or ES-ES)")

	backtestCmd.MarkFlagRequired("candles")
}

func runBacktestCmd(cmd *cobra.Command, args []string) error {
	side := market.Side(btSide)
	if !side.Valid() {
		return fmt.Errorf("bad side %q (want BUY or SELL)", btSide)
	}
	if btStopPips <= 0 || btTakePips <= 0 {
		return fmt.Errorf("stop-pips and take-pips must be positive")
	}

	candles, err := market.LoadCandlesCSV(btCandlesPath)
	if err != nil {
		return fmt.Errorf("load candles: %w", err)
	}
	if len(candles) == 0 {
		return fmt.Errorf("no candles in %s", btCandlesPath)
	}

	pips := market.DefaultPips()
	pipUnits, err := pips.Units(btInstrument)
	if err != nil {
		return err
	}

	ledger, err := journal.NewSQLite(btDBPath)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer ledger.Close()

	rc := reconcile.New(reconcile.Config{
		Account:         "Backtest",
		Language:        btLanguage,
		Currency:        btCurrency,
		Pips:            pips,
		ProfitRiskRatio: btTakePips / btStopPips,
	}, ledger, nil)

	eng := backtest.NewEngine(rc, btCash)
	strat := &backtest.OpenOnceStrategy{
		Instrument: btInstrument,
		Side:       side,
		Units:      btUnits,
		Stake:      btStake,
		StopPips:   btStopPips,
		TakePips:   btTakePips,
		PipUnits:   pipUnits,
	}

	fmt.Printf("Backtesting %s %s over %d candles\n", btInstrument, side, len(candles))
	fmt.Printf("  Ledger: %s\n\n", btDBPath)

	msgs, err := eng.Run(context.Background(), btInstrument, candles, strat)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	for _, m := range msgs {
		fmt.Println(m)
	}

	start := candles[0].Time
	end := candles[len(candles)-1].Time.Add(24 * time.Hour)
	recs, err := ledger.TradesBetween(start, end)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	fmt.Println()
	fmt.Print(backtest.Summarize(recs).Report(btInstrument, btCurrency))
	fmt.Printf("Final cash: %.2f %s\n", eng.Cash(), btCurrency)

	return nil
}
