package backtest

import (
	"context"
	"fmt"

	"github.com/rustyeddy/fxbot/market"
)

// OpenOnceStrategy opens a single bracket the first time it sees a bar for
// the configured instrument. It's meant as a wiring test.
type OpenOnceStrategy struct {
	Instrument string
	Side       market.Side
	Units      float64
	Stake      float64
	StopPips   float64
	TakePips   float64
	PipUnits   float64

	opened bool
}

func (s *OpenOnceStrategy) OnBar(ctx context.Context, e *Engine, instrument string, c market.Candle) error {
	if s.opened {
		return nil
	}
	if instrument != s.Instrument {
		return nil
	}
	if s.Units == 0 {
		return fmt.Errorf("open-once: units must be non-zero")
	}
	if s.PipUnits == 0 {
		return fmt.Errorf("open-once: pip units must be non-zero")
	}

	entry := c.Close
	stopDist := s.StopPips / s.PipUnits
	takeDist := s.TakePips / s.PipUnits

	var stop, take float64
	if s.Side == market.Buy {
		stop, take = entry-stopDist, entry+takeDist
	} else {
		stop, take = entry+stopDist, entry-takeDist
	}

	_, err := e.OpenBracket(instrument, s.Side, s.Units, s.Stake, entry, stop, take, c.Time)
	if err != nil {
		return err
	}
	s.opened = true
	return nil
}
