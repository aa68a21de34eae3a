package reconcile

import (
	"github.com/rustyeddy/fxbot/market"
)

// Key identifies a position slot. The registry enforces at most one open
// position per key.
type Key struct {
	Instrument string
	Side       market.Side
}

// Position holds the mutable per-slot state. One Position exists per Key at
// any time; it is reset and reused across trades, never reallocated.
type Position struct {
	Entry  Leg
	Stop   Leg
	Target Leg
	Cancel Leg
	open   bool
}

func (p *Position) leg(role Role) *Leg {
	switch role {
	case Entry:
		return &p.Entry
	case StopLoss:
		return &p.Stop
	case TakeProfit:
		return &p.Target
	default:
		return &p.Cancel
	}
}

// Registry is the order-leg registry: direct field access only, no
// algorithm. Correctness rests on the reconciler calling it at the right
// points. Single event-loop ownership, so no locking.
type Registry struct {
	positions map[Key]*Position
}

func NewRegistry() *Registry {
	return &Registry{positions: make(map[Key]*Position)}
}

func (r *Registry) position(instrument string, side market.Side) *Position {
	k := Key{Instrument: instrument, Side: side}
	p, ok := r.positions[k]
	if !ok {
		p = &Position{}
		r.positions[k] = p
	}
	return p
}

// HasOpen reports whether the slot holds a filled entry that has not closed.
func (r *Registry) HasOpen(instrument string, side market.Side) bool {
	p, ok := r.positions[Key{Instrument: instrument, Side: side}]
	return ok && p.open && p.Entry.Filled()
}

// SetLeg writes a leg. Idempotent; last write wins.
func (r *Registry) SetLeg(instrument string, side market.Side, role Role, leg Leg) {
	*r.position(instrument, side).leg(role) = leg
}

// Leg returns a copy of the stored leg for the role.
func (r *Registry) Leg(instrument string, side market.Side, role Role) Leg {
	return *r.position(instrument, side).leg(role)
}

// Reset clears all legs, leaving an empty slot ready for reuse. Called
// exactly once per completed or rejected position.
func (r *Registry) Reset(instrument string, side market.Side) {
	p := r.position(instrument, side)
	*p = Position{}
}

func (r *Registry) markOpen(instrument string, side market.Side) {
	r.position(instrument, side).open = true
}

// tradeRef resolves a broker trade/order id back to its position slot.
type tradeRef struct {
	Instrument string
	Side       market.Side
}

// TradesRegistry is the transient id -> (instrument, side) correlation map.
// Entries are added on submission and removed when a position closes or is
// confirmed rejected.
type TradesRegistry map[string]tradeRef

func NewTradesRegistry() TradesRegistry {
	return make(TradesRegistry)
}

func (t TradesRegistry) Add(id, instrument string, side market.Side) {
	t[id] = tradeRef{Instrument: instrument, Side: side}
}

func (t TradesRegistry) Lookup(id string) (tradeRef, bool) {
	ref, ok := t[id]
	return ref, ok
}

func (t TradesRegistry) Remove(id string) {
	delete(t, id)
}

// PurgeInstrument drops every entry for the instrument. Used when a fresh
// entry fill supersedes stale references from canceled trades.
func (t TradesRegistry) PurgeInstrument(instrument string) {
	for id, ref := range t {
		if ref.Instrument == instrument {
			delete(t, id)
		}
	}
}
