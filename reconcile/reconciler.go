package reconcile

import (
	"fmt"
	"log"
	"math"
	"strconv"

	"github.com/rustyeddy/fxbot/broker"
	"github.com/rustyeddy/fxbot/journal"
	"github.com/rustyeddy/fxbot/market"
	"github.com/rustyeddy/fxbot/messages"
	"github.com/rustyeddy/fxbot/notify"
)

// Config carries the per-account parameters the reconciler needs.
type Config struct {
	Account         string // "Demo" or "Brokerage"
	Language        string
	Currency        string
	Pips            market.PipTable
	ProfitRiskRatio float64 // backtest-mode take-profit multiple of risk
	Debug           bool
}

// Reconciler consumes broker (or simulated-broker) events one at a time,
// mutates the order-leg registry, and finalizes closed trades into the
// ledger. Events arrive on a single loop; no internal locking.
type Reconciler struct {
	cfg      Config
	registry *Registry
	trades   TradesRegistry
	ledger   journal.Ledger
	msg      *messages.Messages
	sink     notify.Sink
	seq      int64 // synthetic trade ids, backtest mode
}

func New(cfg Config, ledger journal.Ledger, sink notify.Sink) *Reconciler {
	if cfg.Pips == nil {
		cfg.Pips = market.DefaultPips()
	}
	if sink == nil {
		sink = notify.Noop{}
	}
	return &Reconciler{
		cfg:      cfg,
		registry: NewRegistry(),
		trades:   NewTradesRegistry(),
		ledger:   ledger,
		msg:      messages.New(cfg.Language, cfg.Currency),
		sink:     sink,
	}
}

// HasOpen reports whether a position is open for (instrument, side). The
// strategy layer gates new signal evaluation on this.
func (rc *Reconciler) HasOpen(instrument string, side market.Side) bool {
	return rc.registry.HasOpen(instrument, side)
}

// Registry exposes the order-leg registry, mainly for recovery inspection.
func (rc *Reconciler) Registry() *Registry { return rc.registry }

func (rc *Reconciler) debugf(format string, args ...any) {
	if rc.cfg.Debug {
		log.Printf("reconcile: "+format, args...)
	}
}

// HandleTransaction processes one live broker notification to completion.
// It returns a human-readable status string, or "" for events that do not
// concern any tracked position (explicitly not an error). The error return
// is reserved for ledger failures.
func (rc *Reconciler) HandleTransaction(ev broker.TransactionEvent) (string, error) {
	switch Classify(ev) {
	case EntrySubmitted:
		return rc.entrySubmitted(ev), nil
	case EntryRejected:
		return rc.entryRejected(ev), nil
	case EntryFilled:
		return rc.entryFilled(ev), nil
	case StopRegistered:
		return rc.registerLeg(ev, StopLoss), nil
	case TargetRegistered:
		return rc.registerLeg(ev, TakeProfit), nil
	case StopReplaced:
		return rc.replaceLeg(ev, StopLoss), nil
	case TargetReplaced:
		return rc.replaceLeg(ev, TakeProfit), nil
	case StopFilled:
		return rc.closePosition(ev, StopLoss)
	case TargetFilled:
		return rc.closePosition(ev, TakeProfit)
	case Canceled:
		return rc.closePosition(ev, Cancel)
	default:
		return "", nil
	}
}

func (rc *Reconciler) entrySubmitted(ev broker.TransactionEvent) string {
	side := market.SideOfUnits(ev.Units)
	rc.trades.Add(ev.ID, ev.Instrument, side)
	return rc.msg.OrderSubmitted(side, int(ev.Units), market.SpokenName(ev.Instrument), ev.ID)
}

func (rc *Reconciler) entryRejected(ev broker.TransactionEvent) string {
	ref, ok := rc.trades.Lookup(ev.OrderID)
	if !ok {
		return ""
	}
	rc.trades.Remove(ev.OrderID)
	return rc.msg.OrderRejected(ref.Side, market.SpokenName(ref.Instrument), ev.OrderID)
}

func (rc *Reconciler) entryFilled(ev broker.TransactionEvent) string {
	side := market.SideOfUnits(ev.Units)

	// A second entry fill while a position is open would clobber the live
	// stop/target legs; refuse it and leave the open position untouched.
	if rc.registry.HasOpen(ev.Instrument, side) {
		rc.debugf("entry fill %s ignored: %s %s already open", ev.ID, ev.Instrument, side)
		return ""
	}

	// A fresh fill supersedes stale references from canceled trades on the
	// same instrument.
	rc.trades.PurgeInstrument(ev.Instrument)

	rc.registry.SetLeg(ev.Instrument, side, Entry,
		FilledLeg(ev.ID, ev.Units, ev.Price, ev.Time, 0))
	rc.registry.markOpen(ev.Instrument, side)
	rc.trades.Add(ev.ID, ev.Instrument, side)

	msg := rc.msg.OrderPlaced(side, ev.Units, market.SpokenName(ev.Instrument), ev.Price, ev.ID)
	rc.sink.Say(msg)
	return msg
}

func (rc *Reconciler) registerLeg(ev broker.TransactionEvent, role Role) string {
	ref, ok := rc.trades.Lookup(ev.TradeID)
	if !ok {
		return ""
	}
	rc.registry.SetLeg(ref.Instrument, ref.Side, role, PendingLeg(ev.Price, ev.Time))
	if role == StopLoss {
		return rc.msg.StopAccepted(ref.Instrument, ev.TradeID)
	}
	return rc.msg.TargetAccepted(ref.Instrument, ev.TradeID)
}

func (rc *Reconciler) replaceLeg(ev broker.TransactionEvent, role Role) string {
	ref, ok := rc.trades.Lookup(ev.TradeID)
	if !ok {
		return ""
	}
	// Replacement touches price and time only; the role and fill state of
	// the leg never change, and the position stays open.
	leg := rc.registry.Leg(ref.Instrument, ref.Side, role)
	if leg.Empty() {
		leg = PendingLeg(ev.Price, ev.Time)
	} else {
		leg.Price = ev.Price
		leg.Time = ev.Time
	}
	rc.registry.SetLeg(ref.Instrument, ref.Side, role, leg)
	if role == StopLoss {
		return rc.msg.StopReplaced(ref.Instrument, ev.TradeID)
	}
	return rc.msg.TargetReplaced(ref.Instrument, ev.TradeID)
}

// closePosition finalizes an exit fill: it writes the exit leg, persists the
// trade record, resets the slot, and only then notifies. Events whose closed
// trade id does not match the recorded entry id are stale or cross-talk for
// another historical trade and are silently ignored.
func (rc *Reconciler) closePosition(ev broker.TransactionEvent, exitRole Role) (string, error) {
	closedID := ev.ClosedTradeID()
	if closedID == "" {
		return "", nil
	}

	// Closing a BUY arrives as a SELL fill and vice versa.
	side := market.SideOfUnits(ev.Units).Opposite()

	entry := rc.registry.Leg(ev.Instrument, side, Entry)
	if !entry.Filled() || entry.ID != closedID {
		rc.debugf("close event for trade %s ignored: not the open %s %s entry",
			closedID, ev.Instrument, side)
		return "", nil
	}

	exit := FilledLeg(ev.ID, ev.Units, ev.Price, ev.Time, ev.PL)
	rc.registry.SetLeg(ev.Instrument, side, exitRole, exit)

	rec, err := rc.buildRecord(ev.Instrument, side, exitRole, entry, exit, ev.PL)
	if err != nil {
		return "", err
	}
	if err := rc.ledger.SaveTrade(rec); err != nil {
		return "", fmt.Errorf("save trade %d: %w", rec.ID, err)
	}

	rc.registry.Reset(ev.Instrument, side)
	rc.trades.Remove(closedID)

	spoken := market.SpokenName(ev.Instrument)
	var msg string
	switch exitRole {
	case StopLoss:
		msg = rc.msg.StopCompleted(side, spoken, ev.PL, closedID)
	case TakeProfit:
		msg = rc.msg.TargetCompleted(side, spoken, ev.PL, closedID)
	default:
		msg = rc.msg.OrderCanceled(side, spoken, ev.PL, closedID)
	}

	// Notification is a side effect only: after the record is durable, and
	// never allowed to fail the transition.
	rc.sink.Say(msg)
	rc.sink.NotifyTrade(rec.ID)
	return msg, nil
}

// buildRecord derives the normalized trade record from the entry and exit
// legs. Distances use the stop/target prices registered on the position;
// a leg that never registered contributes a zero distance.
func (rc *Reconciler) buildRecord(
	instrument string, side market.Side, exitRole Role,
	entry, exit Leg, pl float64,
) (journal.TradeRecord, error) {
	units, err := rc.cfg.Pips.Units(instrument)
	if err != nil {
		return journal.TradeRecord{}, err
	}

	id, err := strconv.ParseInt(entry.ID, 10, 64)
	if err != nil {
		return journal.TradeRecord{}, fmt.Errorf("non-numeric entry id %q: %w", entry.ID, err)
	}

	var stopPips, takePips float64
	if stop := rc.registry.Leg(instrument, side, StopLoss); !stop.Empty() {
		stopPips = math.Abs(entry.Price-stop.Price) * units
	}
	if target := rc.registry.Leg(instrument, side, TakeProfit); !target.Empty() {
		takePips = math.Abs(entry.Price-target.Price) * units
	}

	return journal.TradeRecord{
		ID:         id,
		Instrument: instrument,
		Account:    rc.cfg.Account,
		EntryTime:  entry.Time,
		ExitTime:   exit.Time,
		Duration:   int64(exit.Time.Sub(entry.Time).Seconds()),
		Side:       string(side),
		Size:       entry.Units,
		EntryPrice: entry.Price,
		ExitPrice:  exit.Price,
		Pips:       (exit.Price - entry.Price) * units,
		StopPips:   stopPips,
		TakePips:   takePips,
		Canceled:   exitRole == Cancel,
		Profit:     math.Round(pl*100) / 100,
	}, nil
}
