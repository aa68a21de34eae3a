package reconcile

import (
	"github.com/rustyeddy/fxbot/broker"
)

// Transition is the classification of one broker event. Every event maps to
// exactly one transition; anything unrecognized is Unknown and produces no
// state change.
type Transition int

const (
	Unknown Transition = iota
	EntrySubmitted
	EntryRejected
	EntryFilled
	StopRegistered
	TargetRegistered
	StopReplaced
	TargetReplaced
	StopFilled
	TargetFilled
	Canceled
)

// Classify maps a transaction's (type, reason) pair to its transition.
func Classify(ev broker.TransactionEvent) Transition {
	switch ev.Type {
	case broker.TxMarketOrder:
		if ev.Reason == broker.ReasonClientOrder {
			return EntrySubmitted
		}

	case broker.TxOrderCancel:
		if broker.RejectReasons[ev.Reason] {
			return EntryRejected
		}

	case broker.TxOrderFill:
		switch {
		case ev.Reason == broker.ReasonMarketOrder:
			return EntryFilled
		case ev.Reason == broker.ReasonStopLoss:
			return StopFilled
		case ev.Reason == broker.ReasonTakeProfit:
			return TargetFilled
		case broker.CancelReasons[ev.Reason]:
			return Canceled
		}

	case broker.TxStopLossOrder:
		switch ev.Reason {
		case broker.ReasonOnFill:
			return StopRegistered
		case broker.ReasonReplacement:
			return StopReplaced
		}

	case broker.TxTakeProfitOrder:
		switch ev.Reason {
		case broker.ReasonOnFill:
			return TargetRegistered
		case broker.ReasonReplacement:
			return TargetReplaced
		}
	}

	return Unknown
}
