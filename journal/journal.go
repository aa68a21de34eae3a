// journal/journal.go
package journal

import (
	"errors"
	"time"
)

// ErrNotFound is returned by lookups for an id with no stored trade.
// It is an ordinary condition, not a storage failure.
var ErrNotFound = errors.New("journal: trade not found")

// TradeRecord is one completed bracket trade. Records are written exactly
// once when a position closes and never mutated afterwards.
type TradeRecord struct {
	ID         int64
	Instrument string
	Account    string // "Demo" or "Brokerage"
	EntryTime  time.Time
	ExitTime   time.Time
	Duration   int64  // seconds
	Side       string // "BUY" or "SELL"
	Size       float64
	EntryPrice float64
	ExitPrice  float64
	Pips       float64 // (exit - entry) * pip units
	StopPips   float64 // stop distance in pips, non-negative
	TakePips   float64 // target distance in pips, non-negative
	Canceled   bool
	Profit     float64 // account currency, 2-decimal rounding
}

// Ledger is the durable store of closed trades.
type Ledger interface {
	SaveTrade(TradeRecord) error
	GetTrade(id int64) (TradeRecord, error)
	RemoveTrade(id int64) error
	TradesByDay(day time.Time) ([]TradeRecord, error)
	TradesBetween(start, end time.Time) ([]TradeRecord, error)
	Close() error
}
