// Package backtest simulates a bracket-order broker over historical bars
// and feeds the resulting order-status changes through the reconciler, so
// backtest trade records carry the same shape as live ones.
package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/fxbot/market"
	"github.com/rustyeddy/fxbot/reconcile"
)

// bracket is one simulated in-flight bracket order.
type bracket struct {
	instrument string
	side       market.Side
	units      float64
	stake      float64 // cash risked, lost in full at the stop
	entry      float64
	stop       float64
	take       float64
}

type Engine struct {
	rc       *reconcile.Reconciler
	cash     float64
	brackets map[reconcile.Key]*bracket
}

func NewEngine(rc *reconcile.Reconciler, startingCash float64) *Engine {
	return &Engine{
		rc:       rc,
		cash:     startingCash,
		brackets: make(map[reconcile.Key]*bracket),
	}
}

func (e *Engine) Cash() float64 { return e.cash }

// HasOpen mirrors the reconciler's open-position gate.
func (e *Engine) HasOpen(instrument string, side market.Side) bool {
	return e.rc.HasOpen(instrument, side)
}

// OpenBracket fills a market entry at fillPrice and registers the stop and
// target legs at their created prices. stake is the cash lost if the stop
// executes.
func (e *Engine) OpenBracket(
	instrument string, side market.Side,
	units, stake, fillPrice, stopPrice, takePrice float64,
	t time.Time,
) (string, error) {
	if e.rc.HasOpen(instrument, side) {
		return "", fmt.Errorf("backtest: %s %s already open", instrument, side)
	}

	res, err := e.rc.HandleSimOrder(reconcile.SimOrder{
		Instrument:    instrument,
		Side:          side,
		Status:        reconcile.SimCompleted,
		Kind:          reconcile.SimMarket,
		Units:         units,
		ExecutedPrice: fillPrice,
		Time:          t,
	}, stake, 0)
	if err != nil {
		return "", err
	}

	for _, leg := range []struct {
		kind  reconcile.SimKind
		price float64
	}{
		{reconcile.SimStop, stopPrice},
		{reconcile.SimLimit, takePrice},
	} {
		if _, err := e.rc.HandleSimOrder(reconcile.SimOrder{
			Instrument:   instrument,
			Side:         side,
			Status:       reconcile.SimAccepted,
			Kind:         leg.kind,
			Units:        units,
			CreatedPrice: leg.price,
			Time:         t,
		}, stake, 0); err != nil {
			return "", err
		}
	}

	e.brackets[reconcile.Key{Instrument: instrument, Side: side}] = &bracket{
		instrument: instrument,
		side:       side,
		units:      units,
		stake:      stake,
		entry:      fillPrice,
		stop:       stopPrice,
		take:       takePrice,
	}

	return res.Message, nil
}

// checkExit returns the executed kind and price if the bar touches the stop
// or target. The stop wins when a bar spans both.
func (b *bracket) checkExit(c market.Candle) (reconcile.SimKind, float64, bool) {
	if b.side == market.Buy {
		// long: stop hit if low <= stop, take hit if high >= take
		if c.Low <= b.stop {
			return reconcile.SimStop, b.stop, true
		}
		if c.High >= b.take {
			return reconcile.SimLimit, b.take, true
		}
	} else {
		// short: stop hit if high >= stop, take hit if low <= take
		if c.High >= b.stop {
			return reconcile.SimStop, b.stop, true
		}
		if c.Low <= b.take {
			return reconcile.SimLimit, b.take, true
		}
	}
	return "", 0, false
}

// OnBar advances every bracket on the instrument by one bar, executing any
// stop or target it touches. Returned messages describe closed trades.
func (e *Engine) OnBar(instrument string, c market.Candle) ([]string, error) {
	var msgs []string

	for _, side := range []market.Side{market.Buy, market.Sell} {
		key := reconcile.Key{Instrument: instrument, Side: side}
		b, ok := e.brackets[key]
		if !ok {
			continue
		}

		kind, price, hit := b.checkExit(c)
		if !hit {
			continue
		}

		res, err := e.rc.HandleSimOrder(reconcile.SimOrder{
			Instrument:    instrument,
			Side:          side,
			Status:        reconcile.SimCompleted,
			Kind:          kind,
			Units:         b.units,
			ExecutedPrice: price,
			Time:          c.Time,
		}, b.stake, c.Close)
		if err != nil {
			return msgs, err
		}
		if res.Closed {
			e.cash += res.PL
			delete(e.brackets, key)
		}
		if res.Message != "" {
			msgs = append(msgs, res.Message)
		}
	}

	return msgs, nil
}

// CloseSession force-exits every open bracket at the session's last close.
// The reconciler interpolates the P&L and tags the records canceled.
func (e *Engine) CloseSession(t time.Time, lastClose map[string]float64) ([]string, error) {
	var msgs []string

	for key, b := range e.brackets {
		close, ok := lastClose[b.instrument]
		if !ok {
			close = b.entry
		}

		res, err := e.rc.HandleSimOrder(reconcile.SimOrder{
			Instrument: b.instrument,
			Side:       b.side,
			Status:     reconcile.SimExpired,
			Units:      b.units,
			Time:       t,
		}, b.stake, close)
		if err != nil {
			return msgs, err
		}
		if res.Closed {
			e.cash += res.PL
			delete(e.brackets, key)
		}
		if res.Message != "" {
			msgs = append(msgs, res.Message)
		}
	}

	return msgs, nil
}

// Strategy is the minimal interface a backtest strategy must implement.
// It is called once per bar, after exits for that bar have been applied.
type Strategy interface {
	OnBar(ctx context.Context, e *Engine, instrument string, c market.Candle) error
}

// Run replays candles through the engine and strategy, then force-closes
// anything still open at the last bar.
func (e *Engine) Run(ctx context.Context, instrument string, candles []market.Candle, strat Strategy) ([]string, error) {
	var msgs []string

	for _, c := range candles {
		select {
		case <-ctx.Done():
			return msgs, ctx.Err()
		default:
		}

		closed, err := e.OnBar(instrument, c)
		if err != nil {
			return msgs, err
		}
		msgs = append(msgs, closed...)

		if err := strat.OnBar(ctx, e, instrument, c); err != nil {
			return msgs, err
		}
	}

	if len(candles) > 0 {
		last := candles[len(candles)-1]
		closed, err := e.CloseSession(last.Time, map[string]float64{instrument: last.Close})
		if err != nil {
			return msgs, err
		}
		msgs = append(msgs, closed...)
	}

	return msgs, nil
}
