// journal/csv.go
package journal

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// csvHeader matches the trades table column order; exports are stable for
// downstream tabular tooling.
var csvHeader = []string{
	"id", "instrument", "account", "entry_time", "exit_time", "duration",
	"side", "size", "entry_price", "exit_price", "trade_pips",
	"stop_loss_pips", "take_profit_pips", "canceled", "profit",
}

// WriteCSV writes records to w, header first.
func WriteCSV(w io.Writer, recs []TradeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, t := range recs {
		row := []string{
			strconv.FormatInt(t.ID, 10),
			t.Instrument,
			t.Account,
			t.EntryTime.UTC().Format(time.RFC3339),
			t.ExitTime.UTC().Format(time.RFC3339),
			strconv.FormatInt(t.Duration, 10),
			t.Side,
			strconv.FormatFloat(t.Size, 'f', -1, 64),
			strconv.FormatFloat(t.EntryPrice, 'f', -1, 64),
			strconv.FormatFloat(t.ExitPrice, 'f', -1, 64),
			strconv.FormatFloat(t.Pips, 'f', 2, 64),
			strconv.FormatFloat(t.StopPips, 'f', 2, 64),
			strconv.FormatFloat(t.TakePips, 'f', 2, 64),
			strconv.FormatBool(t.Canceled),
			strconv.FormatFloat(t.Profit, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
