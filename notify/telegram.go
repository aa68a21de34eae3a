package notify

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rustyeddy/fxbot/journal"
)

// Report frequencies. PerTrade sends a message for every closed trade;
// Daily and Weekly only respond to the summary calls.
const (
	FreqPerTrade = "Trade"
	FreqDaily    = "Daily"
	FreqWeekly   = "Weekly"
)

// Telegram posts messages to a chat via the Bot API. All sends are
// best-effort; errors are logged and dropped.
type Telegram struct {
	Token     string
	ChatID    string
	Frequency string
	Currency  string
	Ledger    journal.Ledger
	HTTP      *http.Client

	baseURL string // overridable in tests
}

func NewTelegram(token, chatID, frequency, currency string, ledger journal.Ledger) *Telegram {
	return &Telegram{
		Token:     token,
		ChatID:    chatID,
		Frequency: frequency,
		Currency:  currency,
		Ledger:    ledger,
		HTTP:      &http.Client{Timeout: 10 * time.Second},
		baseURL:   "https://api.telegram.org",
	}
}

// Check verifies the bot token with getMe. A failure means the bot is
// misconfigured; the run command refuses to start on it.
func (t *Telegram) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/bot%s/getMe", t.baseURL, t.Token), nil)
	if err != nil {
		return err
	}
	resp, err := t.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		return fmt.Errorf("telegram getMe: http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return nil
}

func (t *Telegram) send(text string) {
	v := url.Values{}
	v.Set("chat_id", t.ChatID)
	v.Set("text", text)

	resp, err := t.HTTP.PostForm(
		fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.Token), v)
	if err != nil {
		log.Printf("telegram: send failed: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("telegram: send failed: http %d", resp.StatusCode)
	}
}

func (t *Telegram) Say(msg string) {
	t.send(msg)
}

// NotifyTrade sends a per-trade report when the configured frequency asks
// for one. Ledger lookup failures degrade to a no-op.
func (t *Telegram) NotifyTrade(id int64) {
	if t.Frequency != FreqPerTrade || t.Ledger == nil {
		return
	}
	rec, err := t.Ledger.GetTrade(id)
	if err != nil {
		log.Printf("telegram: trade %d not available: %v", id, err)
		return
	}
	t.send(tradeReport(rec, t.Currency))
}

func tradeReport(rec journal.TradeRecord, currency string) string {
	outcome := "earned"
	if rec.Profit < 0 {
		outcome = "lost"
	}
	return fmt.Sprintf(
		"Trade %d closed\n%s %s x %.0f\nEntry %.5f -> Exit %.5f (%.1f pips)\nDuration %s\n%.2f %s %s",
		rec.ID, rec.Side, rec.Instrument, rec.Size,
		rec.EntryPrice, rec.ExitPrice, rec.Pips,
		(time.Duration(rec.Duration) * time.Second).String(),
		abs(rec.Profit), currency, outcome,
	)
}

// DailyReport summarizes the trades closed on the given day. A Weekly
// frequency suppresses it; Trade and Daily both get the daily summary.
func (t *Telegram) DailyReport(day time.Time) error {
	if t.Ledger == nil || t.Frequency == FreqWeekly {
		return nil
	}
	recs, err := t.Ledger.TradesByDay(day)
	if err != nil {
		return err
	}
	t.send(summaryReport(fmt.Sprintf("Report %s", day.Format("2006-01-02")), recs, t.Currency))
	return nil
}

// WeeklyReport summarizes the trades closed during [monday, friday].
func (t *Telegram) WeeklyReport(monday, friday time.Time) error {
	if t.Ledger == nil {
		return nil
	}
	recs, err := t.Ledger.TradesBetween(monday, friday.Add(24*time.Hour))
	if err != nil {
		return err
	}
	title := fmt.Sprintf("Weekly report %s - %s",
		monday.Format("2006-01-02"), friday.Format("2006-01-02"))
	t.send(summaryReport(title, recs, t.Currency))
	return nil
}

func summaryReport(title string, recs []journal.TradeRecord, currency string) string {
	var wins int
	var total float64
	for _, r := range recs {
		if r.Profit >= 0 {
			wins++
		}
		total += r.Profit
	}
	return fmt.Sprintf("%s\nTrades: %d\nWins: %d  Losses: %d\nNet: %.2f %s",
		title, len(recs), wins, len(recs)-wins, total, currency)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
