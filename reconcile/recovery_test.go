package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/rustyeddy/fxbot/broker"
	"github.com/rustyeddy/fxbot/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves canned broker state for recovery tests.
type fakeSource struct {
	pending []broker.PendingOrder
	txs     map[string]broker.TransactionEvent

	txCalls int
}

func (f *fakeSource) PendingOrders(ctx context.Context) ([]broker.PendingOrder, error) {
	return f.pending, nil
}

func (f *fakeSource) Transaction(ctx context.Context, id string) (broker.TransactionEvent, error) {
	f.txCalls++
	tx, ok := f.txs[id]
	if !ok {
		return broker.TransactionEvent{}, errors.New("no such transaction")
	}
	return tx, nil
}

func (f *fakeSource) CloseTrade(ctx context.Context, tradeID string) error { return nil }

func newFakeSource() *fakeSource {
	return &fakeSource{
		pending: []broker.PendingOrder{
			{ID: "101", Type: broker.OrderStopLoss, TradeID: "2", Instrument: "EUR_USD", Price: 1.1480, Time: t0},
			{ID: "102", Type: broker.OrderTakeProfit, TradeID: "2", Instrument: "EUR_USD", Price: 1.1530, Time: t0},
		},
		txs: map[string]broker.TransactionEvent{
			"2": {
				Type: broker.TxOrderFill, Reason: broker.ReasonMarketOrder,
				ID: "2", Instrument: "EUR_USD", Units: 4000, Price: 1.1500, Time: t0,
			},
		},
	}
}

func TestRecoverRebuildsPosition(t *testing.T) {
	t.Parallel()

	rc, led := newTestReconciler(t, nil)
	src := newFakeSource()

	require.NoError(t, rc.Recover(context.Background(), src))

	assert.True(t, rc.HasOpen("EUR_USD", market.Buy))
	entry := rc.Registry().Leg("EUR_USD", market.Buy, Entry)
	assert.Equal(t, "2", entry.ID)
	assert.Equal(t, 1.1500, entry.Price)

	stop := rc.Registry().Leg("EUR_USD", market.Buy, StopLoss)
	assert.Equal(t, LegPending, stop.State)
	assert.Equal(t, 1.1480, stop.Price)

	target := rc.Registry().Leg("EUR_USD", market.Buy, TakeProfit)
	assert.Equal(t, LegPending, target.State)
	assert.Equal(t, 1.1530, target.Price)

	// a recovered position closes exactly like one opened in-process
	msg, err := rc.HandleTransaction(broker.TransactionEvent{
		Type: broker.TxOrderFill, Reason: broker.ReasonTakeProfit,
		ID: "103", TradesClosed: []string{"2"},
		Instrument: "EUR_USD", Units: -4000, Price: 1.1530, PL: 12, Time: t0,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, msg)

	rec, err := led.GetTrade(2)
	require.NoError(t, err)
	assert.Equal(t, 12.0, rec.Profit)
}

func TestRecoverIsIdempotent(t *testing.T) {
	t.Parallel()

	rc, _ := newTestReconciler(t, nil)
	src := newFakeSource()

	require.NoError(t, rc.Recover(context.Background(), src))
	entry := rc.Registry().Leg("EUR_USD", market.Buy, Entry)

	require.NoError(t, rc.Recover(context.Background(), src))

	// known ids resolve locally, so no second entry fetch happens
	assert.Equal(t, 1, src.txCalls)
	assert.Equal(t, entry, rc.Registry().Leg("EUR_USD", market.Buy, Entry))
	assert.True(t, rc.HasOpen("EUR_USD", market.Buy))
}

func TestRecoverSkipsUnresolvedEntries(t *testing.T) {
	t.Parallel()

	rc, _ := newTestReconciler(t, nil)
	src := newFakeSource()
	src.pending = append(src.pending, broker.PendingOrder{
		ID: "201", Type: broker.OrderStopLoss, TradeID: "9", Instrument: "GBP_USD", Price: 1.2500, Time: t0,
	})

	require.NoError(t, rc.Recover(context.Background(), src))

	// the order whose entry cannot be fetched contributes nothing
	assert.False(t, rc.HasOpen("GBP_USD", market.Buy))
	assert.False(t, rc.HasOpen("GBP_USD", market.Sell))
	assert.True(t, rc.HasOpen("EUR_USD", market.Buy))
}

func TestRecoverIgnoresOrdersWithoutTrade(t *testing.T) {
	t.Parallel()

	rc, _ := newTestReconciler(t, nil)
	src := &fakeSource{
		pending: []broker.PendingOrder{
			{ID: "301", Type: "LIMIT", TradeID: "", Instrument: "EUR_USD", Price: 1.1400, Time: t0},
		},
	}

	require.NoError(t, rc.Recover(context.Background(), src))
	assert.False(t, rc.HasOpen("EUR_USD", market.Buy))
	assert.Zero(t, src.txCalls)
}
