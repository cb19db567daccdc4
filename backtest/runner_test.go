package backtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/marketsim/journal"
	"github.com/rustyeddy/marketsim/market"
	"github.com/rustyeddy/marketsim/sim"
	"github.com/rustyeddy/marketsim/strategies"
)

// openOnce enters a single long on the first bar and holds.
type openOnce struct {
	barCount     int
	liquidations int
	opened       bool
}

func (s *openOnce) Name() string { return "open-once" }

func (s *openOnce) OnBar(strategies.Snapshot) []sim.OrderIntent {
	s.barCount++
	if s.opened {
		return nil
	}
	s.opened = true
	return []sim.OrderIntent{sim.OpenIntent{Side: sim.Long, Size: 1, StopPct: -1, TargetPct: -1, TrailPct: -1}}
}

func (s *openOnce) OnLiquidation(strategies.Snapshot, sim.LiquidationEvent) {
	s.liquidations++
}

// recordingJournal captures everything in memory.
type recordingJournal struct {
	trades []journal.TradeRecord
	equity []journal.EquitySnapshot
}

func (r *recordingJournal) RecordTrade(t journal.TradeRecord) error {
	r.trades = append(r.trades, t)
	return nil
}

func (r *recordingJournal) RecordEquity(e journal.EquitySnapshot) error {
	r.equity = append(r.equity, e)
	return nil
}

func (r *recordingJournal) Close() error { return nil }

func flatBars(n int, close float64) []market.Bar {
	bars := make([]market.Bar, n)
	for i := range bars {
		bars[i] = market.Bar{Index: i, Open: close, High: close + 1, Low: close - 1, Close: close, Volume: 1e6}
	}
	return bars
}

func spotEngine(t *testing.T) *sim.Engine {
	t.Helper()
	e, err := sim.NewEngine(sim.Config{Mode: sim.Spot, StartBalance: 10000})
	require.NoError(t, err)
	return e
}

func TestRunnerValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, err := (&Runner{}).Run(ctx)
	assert.Error(t, err)

	_, err = (&Runner{Engine: spotEngine(t)}).Run(ctx)
	assert.Error(t, err)

	_, err = (&Runner{Engine: spotEngine(t), Source: NewSliceSource(nil)}).Run(ctx)
	assert.Error(t, err)
}

func TestRunnerDrivesStrategyEachBar(t *testing.T) {
	t.Parallel()

	strat := &openOnce{}
	r := &Runner{
		Engine:   spotEngine(t),
		Source:   NewSliceSource(flatBars(25, 100)),
		Strategy: strat,
	}
	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25, strat.barCount)
	assert.Equal(t, 25, res.Bars)
	// Position opened on bar 0 stays open without CloseEnd.
	assert.Zero(t, res.Trades)
	assert.InDelta(t, 1.0, res.Exposure, 1e-9)
}

func TestRunnerCloseEndReconciles(t *testing.T) {
	t.Parallel()

	r := &Runner{
		Engine:   spotEngine(t),
		Source:   NewSliceSource(flatBars(10, 100)),
		Strategy: &openOnce{},
		Options:  Options{CloseEnd: true},
	}
	res, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Trades)
	assert.InDelta(t, 10000+res.NetProfit, res.Balance, 1e-9)
	assert.InDelta(t, res.Balance, res.Equity, 1e-9)
}

func TestRunnerCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{
		Engine:   spotEngine(t),
		Source:   NewSliceSource(flatBars(10, 100)),
		Strategy: &openOnce{},
	}
	_, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunnerJournals(t *testing.T) {
	t.Parallel()

	jnl := &recordingJournal{}
	r := &Runner{
		Engine:   spotEngine(t),
		Source:   NewSliceSource(flatBars(5, 100)),
		Strategy: &openOnce{},
		Options:  Options{CloseEnd: true, Journal: jnl},
	}
	_, err := r.Run(context.Background())
	require.NoError(t, err)

	// One equity row per bar plus the close-end flush.
	assert.Len(t, jnl.equity, 6)
	require.Len(t, jnl.trades, 1)
	assert.Equal(t, "signal", jnl.trades[0].Reason)
}

func TestRunnerLiquidationCallback(t *testing.T) {
	t.Parallel()

	eng, err := sim.NewEngine(sim.Config{
		Mode:            sim.Futures,
		Leverage:        10,
		MaintenanceRate: 0.005,
		StartBalance:    10000,
	})
	require.NoError(t, err)

	bars := flatBars(3, 100)
	bars[2].Low = 80 // through the liquidation price
	bars[2].Close = 85

	strat := &openOnce{}
	r := &Runner{Engine: eng, Source: NewSliceSource(bars), Strategy: strat}
	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, strat.liquidations)
	assert.Equal(t, 1, res.Liquidations)
	assert.Equal(t, 1, res.Losses)
}

func TestRunnerDeterministicOverSimulator(t *testing.T) {
	t.Parallel()

	run := func() Result {
		ms, err := market.NewSimulator(market.Config{
			Seed:       7,
			StartPrice: 100,
			BaseVol:    0.02,
			SwitchProb: 0.05,
			TickSize:   0.01,
		})
		if err != nil {
			t.Fatal(err)
		}
		eng, err := sim.NewEngine(sim.Config{
			Mode:            sim.Futures,
			Leverage:        5,
			TakerFee:        0.0004,
			Slippage:        0.0005,
			MaintenanceRate: 0.005,
			StartBalance:    10000,
		})
		if err != nil {
			t.Fatal(err)
		}
		r := &Runner{
			Engine:   eng,
			Source:   NewSimSource(ms, 500),
			Strategy: strategies.NewSMACross(strategies.SMACrossDefaults()),
			Options:  Options{CloseEnd: true},
		}
		res, err := r.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		return res
	}

	a, b := run(), run()
	assert.Equal(t, a, b, "same seed and strategy must reproduce the result exactly")
}

func TestMaxDrawdown(t *testing.T) {
	t.Parallel()

	assert.Zero(t, maxDrawdown(nil))
	assert.Zero(t, maxDrawdown([]float64{100, 110, 120}))
	assert.InDelta(t, 0.25, maxDrawdown([]float64{100, 120, 90, 115}), 1e-9)
}
