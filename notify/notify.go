// Package notify delivers trade notifications to external sinks. Delivery
// is best-effort: sink failures are logged and swallowed, never returned to
// the event-processing path.
package notify

// Sink receives formatted notification strings and closed-trade ids.
type Sink interface {
	// Say delivers a human-readable message.
	Say(msg string)
	// NotifyTrade reports that the trade with the given ledger id closed.
	NotifyTrade(id int64)
}

// Noop discards everything.
type Noop struct{}

func (Noop) Say(string)        {}
func (Noop) NotifyTrade(int64) {}

// Multi fans out to several sinks.
type Multi []Sink

func (m Multi) Say(msg string) {
	for _, s := range m {
		s.Say(msg)
	}
}

func (m Multi) NotifyTrade(id int64) {
	for _, s := range m {
		s.NotifyTrade(id)
	}
}
