package reconcile

import (
	"context"

	"github.com/rustyeddy/fxbot/broker"
	"github.com/rustyeddy/fxbot/market"
)

// Recover rebuilds in-flight position state from the broker's authoritative
// pending-order list after a restart. For each pending order it resolves the
// originating entry transaction, rehydrates the entry leg, and attaches the
// stop or target leg the pending order represents.
//
// Recovery only reopens positions; it never closes one or emits a trade
// record. It is idempotent: a second pass over the same pending orders finds
// every id already known and every leg already set. A pending order whose
// entry transaction cannot be fetched yet is skipped on this pass.
func (rc *Reconciler) Recover(ctx context.Context, src broker.TransactionSource) error {
	pending, err := src.PendingOrders(ctx)
	if err != nil {
		return err
	}

	for _, po := range pending {
		if po.TradeID == "" {
			continue
		}

		ref, known := rc.trades.Lookup(po.TradeID)
		if !known {
			tx, err := src.Transaction(ctx, po.TradeID)
			if err != nil || tx.Instrument == "" {
				rc.debugf("recovery: entry %s unresolved, skipping this pass", po.TradeID)
				continue
			}

			side := market.SideOfUnits(tx.Units)
			if !rc.registry.HasOpen(tx.Instrument, side) {
				rc.registry.SetLeg(tx.Instrument, side, Entry,
					FilledLeg(po.TradeID, tx.Units, tx.Price, tx.Time, 0))
				rc.registry.markOpen(tx.Instrument, side)
			}
			rc.trades.Add(po.TradeID, tx.Instrument, side)
			ref, _ = rc.trades.Lookup(po.TradeID)
		}

		var role Role
		switch po.Type {
		case broker.OrderStopLoss:
			role = StopLoss
		case broker.OrderTakeProfit:
			role = TakeProfit
		default:
			continue
		}

		if rc.registry.Leg(ref.Instrument, ref.Side, role).Empty() {
			rc.registry.SetLeg(ref.Instrument, ref.Side, role, PendingLeg(po.Price, po.Time))
		}
	}

	return nil
}
