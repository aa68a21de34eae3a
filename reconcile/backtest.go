package reconcile

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rustyeddy/fxbot/market"
)

// Simulated-broker order statuses and kinds. Together they substitute for
// the live (type, reason) pairs: a Completed Market order is an entry fill,
// an Accepted Stop/Limit registers a leg, a Completed Stop/Limit closes the
// position, and Expired is the forced session-close exit.
type SimStatus string

const (
	SimSubmitted SimStatus = "Submitted"
	SimAccepted  SimStatus = "Accepted"
	SimCompleted SimStatus = "Completed"
	SimCanceled  SimStatus = "Canceled"
	SimExpired   SimStatus = "Expired"
)

type SimKind string

const (
	SimMarket SimKind = "Market"
	SimStop   SimKind = "Stop"
	SimLimit  SimKind = "Limit"
)

// SimOrder is one order-status change from the simulated broker.
type SimOrder struct {
	Instrument    string
	Side          market.Side
	Status        SimStatus
	Kind          SimKind
	Units         float64 // position size, unsigned
	CreatedPrice  float64
	ExecutedPrice float64
	Time          time.Time
}

// SimResult reports the outcome of one simulated order event. PL is the
// engine-computed account-currency result, nonzero only when Closed.
type SimResult struct {
	Message string
	PL      float64
	Closed  bool
}

// HandleSimOrder processes one simulated order-status change. The caller
// supplies the cash risked on the trade (stake, lost in full when the stop
// executes) and the last bar close, which prices the Expired forced exit.
// Trade records produced here carry the same shape as live ones; the only
// divergence is the Expired interpolation, a backtest-only approximation.
func (rc *Reconciler) HandleSimOrder(o SimOrder, stake, lastClose float64) (SimResult, error) {
	switch {
	case o.Status == SimCompleted && o.Kind == SimMarket:
		return SimResult{Message: rc.simEntryFilled(o)}, nil

	case o.Status == SimAccepted && o.Kind == SimStop:
		rc.simRegisterLeg(o, StopLoss)
		return SimResult{}, nil

	case o.Status == SimAccepted && o.Kind == SimLimit:
		rc.simRegisterLeg(o, TakeProfit)
		return SimResult{}, nil

	case o.Status == SimCompleted && o.Kind == SimStop:
		return rc.simClose(o, StopLoss, o.ExecutedPrice, -stake)

	case o.Status == SimCompleted && o.Kind == SimLimit:
		return rc.simClose(o, TakeProfit, o.ExecutedPrice, stake*rc.cfg.ProfitRiskRatio)

	case o.Status == SimExpired:
		return rc.simExpired(o, stake, lastClose)
	}

	return SimResult{}, nil
}

func (rc *Reconciler) simEntryFilled(o SimOrder) string {
	if rc.registry.HasOpen(o.Instrument, o.Side) {
		rc.debugf("sim entry ignored: %s %s already open", o.Instrument, o.Side)
		return ""
	}

	rc.seq++
	units := o.Units
	if o.Side == market.Sell {
		units = -units
	}
	rc.registry.SetLeg(o.Instrument, o.Side, Entry,
		FilledLeg(strconv.FormatInt(rc.seq, 10), units, o.ExecutedPrice, o.Time, 0))
	rc.registry.markOpen(o.Instrument, o.Side)

	return rc.msg.OrderPlaced(o.Side, o.Units, market.SpokenName(o.Instrument), o.ExecutedPrice, "")
}

func (rc *Reconciler) simRegisterLeg(o SimOrder, role Role) {
	rc.registry.SetLeg(o.Instrument, o.Side, role, PendingLeg(o.CreatedPrice, o.Time))
}

func (rc *Reconciler) simClose(o SimOrder, exitRole Role, exitPrice, pl float64) (SimResult, error) {
	entry := rc.registry.Leg(o.Instrument, o.Side, Entry)
	if !entry.Filled() {
		return SimResult{}, nil
	}

	exit := FilledLeg("", 0, exitPrice, o.Time, pl)
	rc.registry.SetLeg(o.Instrument, o.Side, exitRole, exit)

	rec, err := rc.buildRecord(o.Instrument, o.Side, exitRole, entry, exit, pl)
	if err != nil {
		return SimResult{}, err
	}
	if err := rc.ledger.SaveTrade(rec); err != nil {
		return SimResult{}, fmt.Errorf("save trade %d: %w", rec.ID, err)
	}

	rc.registry.Reset(o.Instrument, o.Side)

	spoken := market.SpokenName(o.Instrument)
	var msg string
	switch exitRole {
	case StopLoss:
		msg = rc.msg.StopCompleted(o.Side, spoken, pl, "")
	case TakeProfit:
		msg = rc.msg.TargetCompleted(o.Side, spoken, pl, "")
	default:
		msg = rc.msg.OrderCanceled(o.Side, spoken, pl, "")
	}
	rc.sink.Say(msg)
	rc.sink.NotifyTrade(rec.ID)

	return SimResult{Message: msg, PL: pl, Closed: true}, nil
}

// simExpired handles the forced session-close exit: P&L is linearly
// interpolated between entry and last close relative to the stop/target
// distance. This has no live-mode equivalent.
func (rc *Reconciler) simExpired(o SimOrder, stake, lastClose float64) (SimResult, error) {
	entry := rc.registry.Leg(o.Instrument, o.Side, Entry)
	if !entry.Filled() {
		return SimResult{}, nil
	}

	stop := rc.registry.Leg(o.Instrument, o.Side, StopLoss)
	target := rc.registry.Leg(o.Instrument, o.Side, TakeProfit)

	var pl float64
	if o.Side == market.Buy {
		if lastClose >= entry.Price {
			if d := target.Price - entry.Price; d != 0 {
				pl = (lastClose - entry.Price) / d * stake * rc.cfg.ProfitRiskRatio
			}
		} else {
			if d := entry.Price - stop.Price; d != 0 {
				pl = -(entry.Price - lastClose) / d * stake
			}
		}
	} else {
		if lastClose <= entry.Price {
			if d := entry.Price - target.Price; d != 0 {
				pl = (entry.Price - lastClose) / d * stake * rc.cfg.ProfitRiskRatio
			}
		} else {
			if d := stop.Price - entry.Price; d != 0 {
				pl = -(lastClose - entry.Price) / d * stake
			}
		}
	}

	return rc.simClose(o, Cancel, lastClose, pl)
}
