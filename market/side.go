package market

// Side is the direction of a position. A position is uniquely identified by
// (instrument, side); at most one may be open per pair at a time.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// SideOfUnits derives the side from the sign of an order's units.
func SideOfUnits(units float64) Side {
	if units > 0 {
		return Buy
	}
	return Sell
}

// Opposite returns the side that closes this one. A fill that closes a BUY
// arrives as a SELL and vice versa.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

func (s Side) Valid() bool {
	return s == Buy || s == Sell
}
