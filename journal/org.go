package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatTradeOrg renders a TradeRecord as an Org-mode block suitable for
// pasting into a trading journal. Structured facts live in a PROPERTIES
// drawer for easy search; the narrative headings are left blank.
func FormatTradeOrg(t TradeRecord) string {
	heading := fmt.Sprintf("** Trade: %s %s (%d)", t.Instrument, t.Side, t.ID)
	entry := t.EntryTime.UTC().Format(time.RFC3339)
	exit := t.ExitTime.UTC().Format(time.RFC3339)

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ID: %d\n", t.ID))
	b.WriteString(fmt.Sprintf(":INSTRUMENT: %s\n", t.Instrument))
	b.WriteString(fmt.Sprintf(":ACCOUNT: %s\n", t.Account))
	b.WriteString(fmt.Sprintf(":SIDE: %s\n", t.Side))
	b.WriteString(fmt.Sprintf(":SIZE: %.0f\n", t.Size))
	b.WriteString(fmt.Sprintf(":ENTRY_PRICE: %.5f\n", t.EntryPrice))
	b.WriteString(fmt.Sprintf(":EXIT_PRICE: %.5f\n", t.ExitPrice))
	b.WriteString(fmt.Sprintf(":ENTRY_TIME: %s\n", entry))
	b.WriteString(fmt.Sprintf(":EXIT_TIME: %s\n", exit))
	b.WriteString(fmt.Sprintf(":PIPS: %.1f\n", t.Pips))
	b.WriteString(fmt.Sprintf(":PROFIT: %.2f\n", t.Profit))
	b.WriteString(fmt.Sprintf(":CANCELED: %t\n", t.Canceled))
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []TradeRecord) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}
