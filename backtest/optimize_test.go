package backtest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/fxbot/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid(t *testing.T) {
	t.Parallel()

	variants := Grid([]float64{10, 20}, []float64{15, 30, 45})
	require.Len(t, variants, 6)
	assert.Equal(t, Variant{StopPips: 10, TakePips: 15}, variants[0])
	assert.Equal(t, Variant{StopPips: 20, TakePips: 45}, variants[5])
}

func TestVariantProfitRiskRatio(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.5, Variant{StopPips: 20, TakePips: 30}.ProfitRiskRatio())
	assert.Zero(t, Variant{TakePips: 30}.ProfitRiskRatio())
}

func TestOptimizerRun(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	candles := []market.Candle{
		{Open: 1.1500, High: 1.1505, Low: 1.1495, Close: 1.1500, Time: start},
		{Open: 1.1500, High: 1.1600, Low: 1.1495, Close: 1.1590, Time: start.Add(5 * time.Minute)},
	}

	outDir := filepath.Join(t.TempDir(), "results")
	opt := &Optimizer{
		Instrument: "EUR_USD",
		Language:   "EN-US",
		Currency:   "EUR",
		Cash:       1000,
		OutDir:     outDir,
		Workers:    2,
	}

	variants := Grid([]float64{10}, []float64{20, 40})
	results, err := opt.Run(context.Background(), candles, variants, func(v Variant) Strategy {
		return &OpenOnceStrategy{
			Instrument: "EUR_USD",
			Side:       market.Buy,
			Units:      4000,
			Stake:      10,
			StopPips:   v.StopPips,
			TakePips:   v.TakePips,
			PipUnits:   1e4,
		}
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		require.NoError(t, r.Err)
		assert.NotEmpty(t, r.RunID)
		assert.Equal(t, 1, r.Summary.Trades)
		assert.Equal(t, 1, r.Summary.Won)

		// every run keeps its own ledger file
		_, err := os.Stat(r.DBPath)
		assert.NoError(t, err)
	}

	// the wider target earns a larger multiple of the same stake
	assert.InDelta(t, 20.0, results[0].Summary.Net(), 0.01)
	assert.InDelta(t, 40.0, results[1].Summary.Net(), 0.01)

	best, ok := Best(results)
	require.True(t, ok)
	assert.Equal(t, variants[1], best.Variant)
}

func TestOptimizerRunCanceled(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	candles := []market.Candle{
		{Open: 1.1500, High: 1.1505, Low: 1.1495, Close: 1.1500, Time: start},
	}

	opt := &Optimizer{
		Instrument: "EUR_USD",
		Language:   "EN-US",
		Currency:   "EUR",
		Cash:       1000,
		OutDir:     t.TempDir(),
		Workers:    2,
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	variants := Grid([]float64{10, 20}, []float64{20, 40})
	results, err := opt.Run(ctx, candles, variants, func(v Variant) Strategy {
		return &OpenOnceStrategy{Instrument: "EUR_USD", Side: market.Buy}
	})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, len(variants))

	// undispatched variants are stamped failed, not left as net-zero runs
	for _, r := range results {
		assert.Error(t, r.Err)
	}
	_, ok := Best(results)
	assert.False(t, ok)
}

func TestOptimizerRunNoVariants(t *testing.T) {
	t.Parallel()

	opt := &Optimizer{OutDir: t.TempDir()}
	_, err := opt.Run(context.Background(), nil, nil, nil)
	assert.Error(t, err)
}
