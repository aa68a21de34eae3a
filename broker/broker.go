package broker

import (
	"context"
	"time"
)

// Transaction types as reported by the broker.
const (
	TxMarketOrder     = "MARKET_ORDER"
	TxOrderFill       = "ORDER_FILL"
	TxOrderCancel     = "ORDER_CANCEL"
	TxStopLossOrder   = "STOP_LOSS_ORDER"
	TxTakeProfitOrder = "TAKE_PROFIT_ORDER"
)

// Transaction reasons the reconciler classifies on.
const (
	ReasonClientOrder = "CLIENT_ORDER"
	ReasonMarketOrder = "MARKET_ORDER"
	ReasonOnFill      = "ON_FILL"
	ReasonReplacement = "REPLACEMENT"
	ReasonStopLoss    = "STOP_LOSS_ORDER"
	ReasonTakeProfit  = "TAKE_PROFIT_ORDER"
)

// RejectReasons are ORDER_CANCEL reasons that mean the entry never filled.
var RejectReasons = map[string]bool{
	"STOP_LOSS_ON_FILL_LOSS":   true,
	"TAKE_PROFIT_ON_FILL_LOSS": true,
	"INSUFFICIENT_LIQUIDITY":   true,
}

// CancelReasons are ORDER_FILL reasons that close a position externally
// rather than by hitting its stop or target.
var CancelReasons = map[string]bool{
	"MARKET_ORDER_POSITION_CLOSEOUT": true,
	"MARKET_ORDER_TRADE_CLOSE":       true,
}

// TransactionEvent is one normalized broker notification. Fields that do not
// apply to a given (Type, Reason) pair are left zero.
type TransactionEvent struct {
	Type   string
	Reason string

	ID      string // transaction's own id
	OrderID string // originating order id (cancel/reject events)
	TradeID string // protected trade id (stop/target registration events)

	// TradesClosed lists the ids of trades closed by a closing fill.
	TradesClosed []string

	Instrument string
	Units      float64
	Price      float64
	PL         float64
	Time       time.Time
}

// ClosedTradeID returns the first closed-trade id or "".
func (e TransactionEvent) ClosedTradeID() string {
	if len(e.TradesClosed) == 0 {
		return ""
	}
	return e.TradesClosed[0]
}

// PendingOrder is one broker-side order awaiting execution, as returned by
// the pending-orders query during recovery.
type PendingOrder struct {
	ID         string
	Type       string // "STOP_LOSS" or "TAKE_PROFIT"
	TradeID    string // entry trade this order protects
	Instrument string
	Price      float64
	Time       time.Time
}

const (
	OrderStopLoss   = "STOP_LOSS"
	OrderTakeProfit = "TAKE_PROFIT"
)

// TransactionSource is the authoritative broker state consulted during
// recovery and manual closes. The HTTP transport behind it handles its own
// retries; the core treats each call as one shot.
type TransactionSource interface {
	PendingOrders(ctx context.Context) ([]PendingOrder, error)
	Transaction(ctx context.Context, id string) (TransactionEvent, error)
	CloseTrade(ctx context.Context, tradeID string) error
}

// PricingSource exposes current closeout prices for an instrument.
type PricingSource interface {
	Bid(ctx context.Context, instrument string) (float64, error)
	Ask(ctx context.Context, instrument string) (float64, error)
}
