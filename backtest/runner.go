package backtest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rustyeddy/marketsim/journal"
	"github.com/rustyeddy/marketsim/market"
	"github.com/rustyeddy/marketsim/sim"
	"github.com/rustyeddy/marketsim/strategies"
)

// Options controls runner behavior outside the per-bar loop.
type Options struct {
	// CloseEnd flattens all open positions on the final bar so the result
	// reconciles against the trade ledger alone.
	CloseEnd bool

	// Journal receives trades and equity snapshots as they happen. Nil
	// disables journaling.
	Journal journal.Journal

	// Logger defaults to zap.NewNop when nil.
	Logger *zap.Logger
}

// Runner drives one engine over one bar source with one strategy. A runner
// is single-use; parallel sweeps build one runner per simulation instance.
type Runner struct {
	Engine   *sim.Engine
	Source   BarSource
	Strategy strategies.Strategy
	Options  Options
}

// Run executes the per-bar loop until the source is exhausted or ctx is
// cancelled. Cancellation is cooperative: the bar in progress completes
// before the loop observes it.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.Engine == nil {
		return Result{}, fmt.Errorf("backtest: engine is required")
	}
	if r.Source == nil {
		return Result{}, fmt.Errorf("backtest: bar source is required")
	}
	if r.Strategy == nil {
		return Result{}, fmt.Errorf("backtest: strategy is required")
	}

	log := r.Options.Logger
	if log == nil {
		log = zap.NewNop()
	}
	jnl := r.Options.Journal

	var (
		history  []market.Bar
		lastBar  market.Bar
		recorded int
		bars     int
	)

	for {
		select {
		case <-ctx.Done():
			return r.result(bars), ctx.Err()
		default:
		}

		bar, ok := r.Source.Next()
		if !ok {
			break
		}
		bars++
		lastBar = bar
		history = append(history, bar)

		events := r.Engine.UpdateBar(bar)
		snap := r.snapshot(bar, history)
		for _, ev := range events {
			log.Debug("liquidation",
				zap.Int("bar", ev.Bar),
				zap.String("position", ev.PositionID),
				zap.Float64("price", ev.Price),
				zap.Float64("loss", ev.Loss))
			r.Strategy.OnLiquidation(snap, ev)
		}

		intents := r.Strategy.OnBar(snap)
		r.Engine.Submit(intents...)
		r.Engine.Flush(bar)
		r.Engine.Commit(bar)

		if jnl != nil {
			if err := r.record(jnl, bar, &recorded); err != nil {
				return r.result(bars), err
			}
		}
	}

	if r.Options.CloseEnd && bars > 0 {
		r.Engine.CloseAll(lastBar, sim.Signal)
		if jnl != nil {
			if err := r.record(jnl, lastBar, &recorded); err != nil {
				return r.result(bars), err
			}
		}
	}

	res := r.result(bars)
	log.Info("run complete",
		zap.String("strategy", r.Strategy.Name()),
		zap.Int("bars", res.Bars),
		zap.Int("trades", res.Trades),
		zap.Float64("win_rate", res.WinRate),
		zap.Float64("balance", res.Balance),
		zap.Float64("max_drawdown", res.MaxDrawdown))
	return res, nil
}

func (r *Runner) snapshot(bar market.Bar, history []market.Bar) strategies.Snapshot {
	return strategies.Snapshot{
		Bar:           bar,
		History:       history,
		Positions:     r.Engine.OpenPositions(),
		Trades:        r.Engine.ClosedTrades(),
		Equity:        r.Engine.Equity(),
		EquityHistory: r.Engine.EquityHistory(),
		Balance:       r.Engine.Balance(),
		FeesPaid:      r.Engine.FeesPaid(),
	}
}

// record flushes ledger entries past the recorded watermark plus the bar's
// equity snapshot.
func (r *Runner) record(jnl journal.Journal, bar market.Bar, recorded *int) error {
	trades := r.Engine.ClosedTrades()
	for ; *recorded < len(trades); *recorded++ {
		if err := jnl.RecordTrade(journal.FromClosedTrade(trades[*recorded])); err != nil {
			return err
		}
	}
	return jnl.RecordEquity(journal.EquitySnapshot{
		Bar:     bar.Index,
		Balance: r.Engine.Balance(),
		Equity:  r.Engine.Equity(),
		Fees:    r.Engine.FeesPaid(),
	})
}
