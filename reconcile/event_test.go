package reconcile

import (
	"testing"

	"github.com/rustyeddy/fxbot/broker"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		txType   string
		reason   string
		expected Transition
	}{
		{"entry_submitted", broker.TxMarketOrder, broker.ReasonClientOrder, EntrySubmitted},
		{"entry_rejected_stop", broker.TxOrderCancel, "STOP_LOSS_ON_FILL_LOSS", EntryRejected},
		{"entry_rejected_take", broker.TxOrderCancel, "TAKE_PROFIT_ON_FILL_LOSS", EntryRejected},
		{"entry_rejected_liquidity", broker.TxOrderCancel, "INSUFFICIENT_LIQUIDITY", EntryRejected},
		{"entry_filled", broker.TxOrderFill, broker.ReasonMarketOrder, EntryFilled},
		{"stop_registered", broker.TxStopLossOrder, broker.ReasonOnFill, StopRegistered},
		{"stop_replaced", broker.TxStopLossOrder, broker.ReasonReplacement, StopReplaced},
		{"target_registered", broker.TxTakeProfitOrder, broker.ReasonOnFill, TargetRegistered},
		{"target_replaced", broker.TxTakeProfitOrder, broker.ReasonReplacement, TargetReplaced},
		{"stop_filled", broker.TxOrderFill, broker.ReasonStopLoss, StopFilled},
		{"target_filled", broker.TxOrderFill, broker.ReasonTakeProfit, TargetFilled},
		{"closeout", broker.TxOrderFill, "MARKET_ORDER_POSITION_CLOSEOUT", Canceled},
		{"trade_close", broker.TxOrderFill, "MARKET_ORDER_TRADE_CLOSE", Canceled},
		{"unknown_type", "DAILY_FINANCING", "", Unknown},
		{"unknown_reason", broker.TxOrderFill, "LIMIT_ORDER", Unknown},
		{"cancel_other_reason", broker.TxOrderCancel, "CLIENT_REQUEST", Unknown},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Classify(broker.TransactionEvent{Type: tt.txType, Reason: tt.reason})
			assert.Equal(t, tt.expected, got)
		})
	}
}
