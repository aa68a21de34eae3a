package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rustyeddy/fxbot/journal"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the trade ledger",
	Long: `Query and display trade records from the SQLite ledger.

Subcommands:
  trade  - Get details of a specific trade by ID
  today  - List trades closed today
  day    - List trades closed on a specific day
  range  - List trades closed in a date range

Examples:
  fxbot journal trade 42
  fxbot journal today
  fxbot journal day 2026-08-28
  fxbot journal range 2026-08-01 2026-09-01 --csv report.csv`,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <trade-id>",
	Short: "Get details of a specific trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrade,
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List trades closed today",
	Args:  cobra.NoArgs,
	RunE:  runJournalToday,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades closed on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var journalRangeCmd = &cobra.Command{
	Use:   "range <YYYY-MM-DD> <YYYY-MM-DD>",
	Short: "List trades closed in [start, end)",
	Args:  cobra.ExactArgs(2),
	RunE:  runJournalRange,
}

var (
	journalDBPath  string
	journalCSVPath string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTradeCmd)
	journalCmd.AddCommand(journalTodayCmd)
	journalCmd.AddCommand(journalDayCmd)
	journalCmd.AddCommand(journalRangeCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./trades.db", "path to SQLite ledger")
	journalCmd.PersistentFlags().StringVar(&journalCSVPath, "csv", "", "also write the result as CSV to this file")
}

func runJournalTrade(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("bad trade id %q: %w", args[0], err)
	}

	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	rec, err := j.GetTrade(id)
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	fmt.Println(journal.FormatTradeOrg(rec))
	return maybeWriteCSV([]journal.TradeRecord{rec})
}

func runJournalToday(cmd *cobra.Command, args []string) error {
	return listDay(time.Now().UTC())
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	day, err := time.Parse("2006-01-02", args[0])
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	return listDay(day)
}

func listDay(day time.Time) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	recs, err := j.TradesByDay(day)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	fmt.Println(journal.FormatTradesOrg(recs))
	return maybeWriteCSV(recs)
}

func runJournalRange(cmd *cobra.Command, args []string) error {
	start, err := time.Parse("2006-01-02", args[0])
	if err != nil {
		return fmt.Errorf("start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", args[1])
	if err != nil {
		return fmt.Errorf("end date: %w", err)
	}

	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	recs, err := j.TradesBetween(start, end)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	fmt.Println(journal.FormatTradesOrg(recs))
	return maybeWriteCSV(recs)
}

func maybeWriteCSV(recs []journal.TradeRecord) error {
	if journalCSVPath == "" {
		return nil
	}
	f, err := os.Create(journalCSVPath)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	if err := journal.WriteCSV(f, recs); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	fmt.Printf("Wrote %d trades to %s\n", len(recs), journalCSVPath)
	return nil
}
