//go:build blackbox

// Package blackbox drives the whole stack the way the CLI does: config file
// in, journal artifacts out. These tests run with -tags blackbox.
package blackbox

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/marketsim/backtest"
	"github.com/rustyeddy/marketsim/config"
	"github.com/rustyeddy/marketsim/journal"
	"github.com/rustyeddy/marketsim/market"
	"github.com/rustyeddy/marketsim/sim"
	"github.com/rustyeddy/marketsim/strategies"
)

const basicConfig = `
market:
  source: regime
  seed: 42
  start_price: 100
  volatility_percent: 2
  switch_percent: 5
  tick_size: 0.01
trading:
  mode: futures
  leverage: 10
  balance: 10000
  taker_fee_percent: 0.04
  slippage_percent: 0.05
  maintenance_percent: 0.5
  stop_percent: 2
  target_percent: 4
strategy:
  name: sma-cross
run:
  bars: 1500
  close_end: true
`

func runFromConfig(t *testing.T, cfg *config.Config, jnl journal.Journal) backtest.Result {
	t.Helper()

	ms, err := market.NewSimulator(cfg.MarketConfig())
	require.NoError(t, err)
	engine, err := sim.NewEngine(cfg.EngineConfig())
	require.NoError(t, err)
	strat, err := strategies.ByName(cfg.Strategy.Name)
	require.NoError(t, err)

	r := &backtest.Runner{
		Engine:   engine,
		Source:   backtest.NewSimSource(ms, cfg.Run.Bars),
		Strategy: strat,
		Options:  backtest.Options{CloseEnd: cfg.Run.CloseEnd, Journal: jnl},
	}
	res, err := r.Run(context.Background())
	require.NoError(t, err)
	return res
}

func loadBasicConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "basic.yaml")
	require.NoError(t, os.WriteFile(path, []byte(basicConfig), 0644))
	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	return cfg
}

func TestFullRunIsDeterministic(t *testing.T) {
	cfg := loadBasicConfig(t)

	a := runFromConfig(t, cfg, nil)
	b := runFromConfig(t, cfg, nil)
	assert.Equal(t, a, b)
}

func TestDifferentSeedsDiverge(t *testing.T) {
	cfg := loadBasicConfig(t)
	a := runFromConfig(t, cfg, nil)

	cfg.Market.Seed = 43
	b := runFromConfig(t, cfg, nil)
	assert.NotEqual(t, a, b)
}

func TestFullRunAccountingCloses(t *testing.T) {
	cfg := loadBasicConfig(t)
	res := runFromConfig(t, cfg, nil)

	// With CloseEnd everything is flat, so balance and equity agree and the
	// balance reconciles against the ledger.
	assert.InDelta(t, res.Balance, res.Equity, 1e-6)
	assert.InDelta(t, 10000+res.NetProfit, res.Balance, 1e-6)
	assert.Greater(t, res.Trades, 0, "1500 bars of crossover trading should close trades")
}

func TestSQLiteJournalArtifact(t *testing.T) {
	cfg := loadBasicConfig(t)
	dbPath := filepath.Join(t.TempDir(), "run.db")

	jnl, err := journal.NewSQLite(dbPath)
	require.NoError(t, err)
	res := runFromConfig(t, cfg, jnl)
	require.NoError(t, jnl.Close())

	verify, err := journal.NewSQLite(dbPath)
	require.NoError(t, err)
	defer verify.Close()

	trades, err := verify.ListTradesClosedBetween(0, cfg.Run.Bars)
	require.NoError(t, err)
	assert.Len(t, trades, res.Trades)

	curve, err := verify.EquityCurve()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(curve), cfg.Run.Bars)
	last := curve[len(curve)-1]
	assert.InDelta(t, res.Equity, last.Equity, 1e-6)
}

func TestFlowSourceEndToEnd(t *testing.T) {
	fs, err := market.NewFlowSimulator(market.FlowConfig{
		Seed:        7,
		StartPrice:  100,
		TickSize:    0.01,
		BaseVol:     0.01,
		OrderRate:   40,
		BookDepth:   24,
		QtyPerLevel: 60,
	})
	require.NoError(t, err)

	engine, err := sim.NewEngine(sim.Config{Mode: sim.Spot, StartBalance: 10000})
	require.NoError(t, err)

	r := &backtest.Runner{
		Engine:   engine,
		Source:   backtest.NewFlowSource(fs, 500),
		Strategy: strategies.NewMeanRevert(strategies.MeanRevertDefaults()),
		Options:  backtest.Options{CloseEnd: true},
	}
	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 500, res.Bars)
	assert.InDelta(t, res.Balance, res.Equity, 1e-6)
}
