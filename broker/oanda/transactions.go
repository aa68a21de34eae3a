package oanda

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rustyeddy/fxbot/broker"
)

// apiTransaction mirrors the wire shape of a v20 transaction. Numeric fields
// arrive as strings.
type apiTransaction struct {
	Type         string `json:"type"`
	Reason       string `json:"reason"`
	ID           string `json:"id"`
	OrderID      string `json:"orderID"`
	TradeID      string `json:"tradeID"`
	Instrument   string `json:"instrument"`
	Units        string `json:"units"`
	Price        string `json:"price"`
	PL           string `json:"pl"`
	Time         string `json:"time"`
	TradesClosed []struct {
		TradeID string `json:"tradeID"`
	} `json:"tradesClosed"`
}

func (tx apiTransaction) event() broker.TransactionEvent {
	ev := broker.TransactionEvent{
		Type:       tx.Type,
		Reason:     tx.Reason,
		ID:         tx.ID,
		OrderID:    tx.OrderID,
		TradeID:    tx.TradeID,
		Instrument: tx.Instrument,
		Units:      parseFloat(tx.Units),
		Price:      parseFloat(tx.Price),
		PL:         parseFloat(tx.PL),
	}
	if t, err := parseTime(tx.Time); err == nil {
		ev.Time = t
	}
	for _, tc := range tx.TradesClosed {
		ev.TradesClosed = append(ev.TradesClosed, tc.TradeID)
	}
	return ev
}

// Transaction fetches a single transaction by id.
func (c *Client) Transaction(ctx context.Context, id string) (broker.TransactionEvent, error) {
	path := fmt.Sprintf("/v3/accounts/%s/transactions/%s", c.AccountID, id)
	body, err := c.Get(ctx, path, nil)
	if err != nil {
		return broker.TransactionEvent{}, err
	}
	defer body.Close()

	var resp struct {
		Transaction apiTransaction `json:"transaction"`
	}
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return broker.TransactionEvent{}, fmt.Errorf("oanda: decode transaction: %w", err)
	}
	return resp.Transaction.event(), nil
}

// PendingOrders lists all broker-side orders awaiting execution.
func (c *Client) PendingOrders(ctx context.Context) ([]broker.PendingOrder, error) {
	path := fmt.Sprintf("/v3/accounts/%s/pendingOrders", c.AccountID)
	body, err := c.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp struct {
		Orders []struct {
			ID         string `json:"id"`
			Type       string `json:"type"`
			TradeID    string `json:"tradeID"`
			Instrument string `json:"instrument"`
			Price      string `json:"price"`
			CreateTime string `json:"createTime"`
		} `json:"orders"`
	}
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("oanda: decode pending orders: %w", err)
	}

	out := make([]broker.PendingOrder, 0, len(resp.Orders))
	for _, o := range resp.Orders {
		po := broker.PendingOrder{
			ID:         o.ID,
			Type:       o.Type,
			TradeID:    o.TradeID,
			Instrument: o.Instrument,
			Price:      parseFloat(o.Price),
		}
		if t, err := parseTime(o.CreateTime); err == nil {
			po.Time = t
		}
		out = append(out, po)
	}
	return out, nil
}

// CloseTrade asks the broker to close an open trade at market.
func (c *Client) CloseTrade(ctx context.Context, tradeID string) error {
	path := fmt.Sprintf("/v3/accounts/%s/trades/%s/close", c.AccountID, tradeID)
	body, err := c.do(ctx, http.MethodPut, path, nil, []byte(`{"units":"ALL"}`))
	if err != nil {
		return err
	}
	return body.Close()
}
