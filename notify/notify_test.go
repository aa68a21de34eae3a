package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rustyeddy/fxbot/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	said   []string
	trades []int64
}

func (s *captureSink) Say(msg string)       { s.said = append(s.said, msg) }
func (s *captureSink) NotifyTrade(id int64) { s.trades = append(s.trades, id) }

func TestMultiFansOut(t *testing.T) {
	t.Parallel()

	a, b := &captureSink{}, &captureSink{}
	m := Multi{a, b, Noop{}}

	m.Say("hello")
	m.NotifyTrade(7)

	assert.Equal(t, []string{"hello"}, a.said)
	assert.Equal(t, []string{"hello"}, b.said)
	assert.Equal(t, []int64{7}, a.trades)
	assert.Equal(t, []int64{7}, b.trades)
}

type fakeLedger struct {
	journal.Ledger
	trade journal.TradeRecord
}

func (f *fakeLedger) GetTrade(id int64) (journal.TradeRecord, error) {
	if id != f.trade.ID {
		return journal.TradeRecord{}, journal.ErrNotFound
	}
	return f.trade, nil
}

func newTestTelegram(t *testing.T, ledger journal.Ledger, frequency string) (*Telegram, *[]url.Values) {
	t.Helper()

	var sent []url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		sent = append(sent, r.PostForm)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	tg := NewTelegram("token", "chat42", frequency, "EUR", ledger)
	tg.baseURL = srv.URL
	return tg, &sent
}

func TestTelegramCheck(t *testing.T) {
	t.Parallel()

	tg, _ := newTestTelegram(t, nil, FreqPerTrade)
	assert.NoError(t, tg.Check(context.Background()))

	bad := NewTelegram("token", "chat", FreqPerTrade, "EUR", nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)
	bad.baseURL = srv.URL
	assert.Error(t, bad.Check(context.Background()))
}

func TestTelegramSay(t *testing.T) {
	t.Parallel()

	tg, sent := newTestTelegram(t, nil, FreqPerTrade)
	tg.Say("position opened")

	require.Len(t, *sent, 1)
	assert.Equal(t, "chat42", (*sent)[0].Get("chat_id"))
	assert.Equal(t, "position opened", (*sent)[0].Get("text"))
}

func TestTelegramNotifyTrade(t *testing.T) {
	t.Parallel()

	ledger := &fakeLedger{trade: journal.TradeRecord{
		ID: 7, Instrument: "EUR_USD", Side: "BUY", Size: 4000,
		EntryPrice: 1.1500, ExitPrice: 1.1530, Pips: 30,
		Duration: 2700, Profit: 12,
	}}

	tg, sent := newTestTelegram(t, ledger, FreqPerTrade)
	tg.NotifyTrade(7)

	require.Len(t, *sent, 1)
	text := (*sent)[0].Get("text")
	assert.Contains(t, text, "Trade 7 closed")
	assert.Contains(t, text, "BUY EUR_USD x 4000")
	assert.Contains(t, text, "12.00 EUR earned")

	// missing trades degrade to a no-op
	tg.NotifyTrade(99)
	assert.Len(t, *sent, 1)
}

func TestTelegramNotifyTradeRespectsFrequency(t *testing.T) {
	t.Parallel()

	ledger := &fakeLedger{trade: journal.TradeRecord{ID: 7}}
	tg, sent := newTestTelegram(t, ledger, FreqDaily)

	tg.NotifyTrade(7)
	assert.Empty(t, *sent)
}

func TestSummaryReport(t *testing.T) {
	t.Parallel()

	recs := []journal.TradeRecord{
		{Profit: 12}, {Profit: -8}, {Profit: 5},
	}
	out := summaryReport("Report 2026-08-28", recs, "EUR")

	assert.Contains(t, out, "Report 2026-08-28")
	assert.Contains(t, out, "Trades: 3")
	assert.Contains(t, out, "Wins: 2  Losses: 1")
	assert.Contains(t, out, "Net: 9.00 EUR")
}

func TestTradeReportLoss(t *testing.T) {
	t.Parallel()

	out := tradeReport(journal.TradeRecord{
		ID: 3, Instrument: "USD_JPY", Side: "SELL", Size: 2000,
		EntryPrice: 157.25, ExitPrice: 157.45, Pips: 20,
		Duration: int64((95 * time.Minute).Seconds()), Profit: -8,
	}, "EUR")

	assert.Contains(t, out, "Trade 3 closed")
	assert.Contains(t, out, "8.00 EUR lost")
	assert.Contains(t, out, "1h35m0s")
}

func TestNewTTSVoices(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"-v", "en-us"}, NewTTS("EN-US").Args)
	assert.Equal(t, []string{"-v", "es"}, NewTTS("ES-ES").Args)
	assert.Equal(t, "espeak-ng", NewTTS("EN-US").Command)
}
