// Package reconcile tracks the lifecycle of three-legged bracket orders and
// reconciles asynchronous broker events into closed trade records.
package reconcile

import "time"

// Role identifies one leg of a bracket order. Cancel is a virtual role used
// when a position closes by external cancellation instead of hitting its
// stop or target.
type Role string

const (
	Entry      Role = "MK"
	StopLoss   Role = "SL"
	TakeProfit Role = "TK"
	Cancel     Role = "CANCEL"
)

type LegState int

const (
	// LegEmpty: no order exists for this role yet.
	LegEmpty LegState = iota
	// LegPending: the order is registered broker-side but has not executed.
	LegPending
	// LegFilled: the order executed; price, time and units are final.
	LegFilled
)

// Leg is one order leg. The state tag makes "not yet filled" an explicit
// case instead of a zeroed sentinel.
type Leg struct {
	State LegState
	ID    string // broker-assigned id, filled legs in live mode only
	Units float64
	Price float64
	Time  time.Time
	PL    float64 // broker-reported realized P&L, exit legs only
}

func PendingLeg(price float64, t time.Time) Leg {
	return Leg{State: LegPending, Price: price, Time: t}
}

func FilledLeg(id string, units, price float64, t time.Time, pl float64) Leg {
	return Leg{State: LegFilled, ID: id, Units: units, Price: price, Time: t, PL: pl}
}

func (l Leg) Empty() bool  { return l.State == LegEmpty }
func (l Leg) Filled() bool { return l.State == LegFilled }
