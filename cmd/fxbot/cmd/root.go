package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fxbot",
	Short: "An FX trading bot with bracket orders and a durable trade ledger",
	Long: `Fxbot trades bracket orders (entry, stop loss, take profit) against the
OANDA v20 API and records every completed trade in a SQLite ledger.

It provides tools for:
  - Running the live bot against a practice or brokerage account
  - Backtesting strategies over historical candles
  - Optimizing stop and target distances over a parameter grid
  - Querying the trade ledger
  - Trade and summary notifications over Telegram and text-to-speech`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Credentials may live in a .env file; absence is fine.
	_ = godotenv.Load()
}
