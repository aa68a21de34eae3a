package backtest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/fxbot/journal"
	"github.com/rustyeddy/fxbot/market"
	"github.com/rustyeddy/fxbot/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) (*Engine, *journal.SQLite) {
	t.Helper()

	led, err := journal.NewSQLite(filepath.Join(t.TempDir(), "bt.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = led.Close() })

	rc := reconcile.New(reconcile.Config{
		Account:         "Backtest",
		Language:        "EN-US",
		Currency:        "EUR",
		ProfitRiskRatio: 1.5,
	}, led, nil)

	return NewEngine(rc, 1000), led
}

func openTestBracket(t *testing.T, e *Engine) {
	t.Helper()

	msg, err := e.OpenBracket("EUR_USD", market.Buy, 4000, 10, 1.1500, 1.1480, 1.1530, t0)
	require.NoError(t, err)
	require.NotEmpty(t, msg)
	require.True(t, e.HasOpen("EUR_USD", market.Buy))
}

func bar(low, high, close float64, at time.Time) market.Candle {
	return market.Candle{Open: close, High: high, Low: low, Close: close, Time: at}
}

func TestOpenBracketRefusesSecond(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t)
	openTestBracket(t, e)

	_, err := e.OpenBracket("EUR_USD", market.Buy, 4000, 10, 1.1505, 1.1485, 1.1535, t0)
	assert.Error(t, err)
}

func TestOnBarTakeProfit(t *testing.T) {
	t.Parallel()

	e, led := newTestEngine(t)
	openTestBracket(t, e)

	msgs, err := e.OnBar("EUR_USD", bar(1.1505, 1.1535, 1.1530, t0.Add(5*time.Minute)))
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "TAKE PROFIT")

	assert.Equal(t, 1015.0, e.Cash())
	assert.False(t, e.HasOpen("EUR_USD", market.Buy))

	rec, err := led.GetTrade(1)
	require.NoError(t, err)
	assert.Equal(t, 15.0, rec.Profit)
	assert.Equal(t, 1.1530, rec.ExitPrice)
}

func TestOnBarStopLoss(t *testing.T) {
	t.Parallel()

	e, led := newTestEngine(t)
	openTestBracket(t, e)

	msgs, err := e.OnBar("EUR_USD", bar(1.1470, 1.1510, 1.1475, t0.Add(5*time.Minute)))
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "STOP LOSS")

	assert.Equal(t, 990.0, e.Cash())

	rec, err := led.GetTrade(1)
	require.NoError(t, err)
	assert.Equal(t, -10.0, rec.Profit)
	assert.Equal(t, 1.1480, rec.ExitPrice)
}

func TestOnBarStopWinsWhenBarSpansBoth(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t)
	openTestBracket(t, e)

	msgs, err := e.OnBar("EUR_USD", bar(1.1470, 1.1540, 1.1520, t0.Add(5*time.Minute)))
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "STOP LOSS")
	assert.Equal(t, 990.0, e.Cash())
}

func TestOnBarNoTouchKeepsPosition(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t)
	openTestBracket(t, e)

	msgs, err := e.OnBar("EUR_USD", bar(1.1490, 1.1520, 1.1510, t0.Add(5*time.Minute)))
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.True(t, e.HasOpen("EUR_USD", market.Buy))
	assert.Equal(t, 1000.0, e.Cash())
}

func TestCloseSessionInterpolates(t *testing.T) {
	t.Parallel()

	e, led := newTestEngine(t)
	openTestBracket(t, e)

	// entry 1.1500, target 1.1530, last close 1.1520: two thirds of the
	// way to the target at ratio 1.5 on a 10 stake
	msgs, err := e.CloseSession(t0.Add(time.Hour), map[string]float64{"EUR_USD": 1.1520})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "canceled")

	assert.InDelta(t, 1010.0, e.Cash(), 1e-6)
	assert.False(t, e.HasOpen("EUR_USD", market.Buy))

	rec, err := led.GetTrade(1)
	require.NoError(t, err)
	assert.True(t, rec.Canceled)
	assert.Equal(t, 1.1520, rec.ExitPrice)
}

func TestRunWithOpenOnceStrategy(t *testing.T) {
	t.Parallel()

	e, led := newTestEngine(t)

	strat := &OpenOnceStrategy{
		Instrument: "EUR_USD",
		Side:       market.Buy,
		Units:      4000,
		Stake:      10,
		StopPips:   20,
		TakePips:   30,
		PipUnits:   1e4,
	}

	candles := []market.Candle{
		bar(1.1495, 1.1505, 1.1500, t0),
		bar(1.1500, 1.1520, 1.1515, t0.Add(5*time.Minute)),
		bar(1.1510, 1.1535, 1.1530, t0.Add(10*time.Minute)),
	}

	msgs, err := e.Run(context.Background(), "EUR_USD", candles, strat)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "TAKE PROFIT")
	assert.Equal(t, 1015.0, e.Cash())

	rec, err := led.GetTrade(1)
	require.NoError(t, err)
	assert.Equal(t, "BUY", rec.Side)
	assert.Equal(t, 15.0, rec.Profit)
}
