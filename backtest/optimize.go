package backtest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rustyeddy/fxbot/journal"
	"github.com/rustyeddy/fxbot/market"
	"github.com/rustyeddy/fxbot/pkg/id"
	"github.com/rustyeddy/fxbot/reconcile"
)

// Variant is one point of the optimization grid: the stop and target
// distances, in pips, a strategy should use.
type Variant struct {
	StopPips float64
	TakePips float64
}

// ProfitRiskRatio is the target distance expressed as a multiple of the
// stop distance.
func (v Variant) ProfitRiskRatio() float64 {
	if v.StopPips == 0 {
		return 0
	}
	return v.TakePips / v.StopPips
}

func (v Variant) String() string {
	return fmt.Sprintf("SL %.1f / TK %.1f", v.StopPips, v.TakePips)
}

// Grid builds the cross product of the stop and target distances.
func Grid(stops, takes []float64) []Variant {
	var out []Variant
	for _, s := range stops {
		for _, t := range takes {
			out = append(out, Variant{StopPips: s, TakePips: t})
		}
	}
	return out
}

// RunResult is the outcome of one optimizer run. DBPath points at the
// run's own trade ledger, kept for later inspection.
type RunResult struct {
	RunID   string
	Variant Variant
	Summary Summary
	DBPath  string
	Err     error
}

// Optimizer replays the same candles once per variant, each run against a
// private ledger, and collects the summaries. Runs are independent, so
// they execute on a small worker pool.
type Optimizer struct {
	Instrument string
	Language   string
	Currency   string
	Pips       market.PipTable
	Cash       float64
	OutDir     string
	Workers    int
}

// Run executes every variant and returns one result per variant, in grid
// order. newStrategy builds a fresh strategy for each run; strategies must
// not be shared between runs.
func (o *Optimizer) Run(
	ctx context.Context,
	candles []market.Candle,
	variants []Variant,
	newStrategy func(Variant) Strategy,
) ([]RunResult, error) {
	if len(variants) == 0 {
		return nil, fmt.Errorf("optimize: no variants")
	}
	if err := os.MkdirAll(o.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("optimize: results dir: %w", err)
	}

	workers := o.Workers
	if workers <= 0 {
		workers = 4
	}
	if workers > len(variants) {
		workers = len(variants)
	}

	results := make([]RunResult, len(variants))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = o.runOne(ctx, candles, variants[i], newStrategy)
			}
		}()
	}

	for i := range variants {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			// variants from i on were never dispatched; mark them failed
			// so Best never mistakes them for net-zero runs
			for j := i; j < len(variants); j++ {
				results[j] = RunResult{Variant: variants[j], Err: ctx.Err()}
			}
			return results, ctx.Err()
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return results, nil
}

func (o *Optimizer) runOne(
	ctx context.Context,
	candles []market.Candle,
	v Variant,
	newStrategy func(Variant) Strategy,
) RunResult {
	runID := id.New()
	res := RunResult{
		RunID:   runID,
		Variant: v,
		DBPath:  filepath.Join(o.OutDir, fmt.Sprintf("run-%s.db", runID)),
	}

	ledger, err := journal.NewSQLite(res.DBPath)
	if err != nil {
		res.Err = err
		return res
	}
	defer ledger.Close()

	rc := reconcile.New(reconcile.Config{
		Account:         "Backtest",
		Language:        o.Language,
		Currency:        o.Currency,
		Pips:            o.Pips,
		ProfitRiskRatio: v.ProfitRiskRatio(),
	}, ledger, nil)

	eng := NewEngine(rc, o.Cash)
	if _, err := eng.Run(ctx, o.Instrument, candles, newStrategy(v)); err != nil {
		res.Err = err
		return res
	}

	recs, err := ledger.TradesBetween(time.Unix(0, 0), time.Now().UTC().AddDate(100, 0, 0))
	if err != nil {
		res.Err = err
		return res
	}
	res.Summary = Summarize(recs)
	return res
}

// Best returns the completed run with the highest net return. The second
// value is false when every run failed.
func Best(results []RunResult) (RunResult, bool) {
	var best RunResult
	found := false
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if !found || r.Summary.Net() > best.Summary.Net() {
			best, found = r, true
		}
	}
	return best, found
}
