// Package strategies contains bar-driven strategies for the simulation
// engine, plus the read-only snapshot contract they are called with.
package strategies

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/marketsim/market"
	"github.com/rustyeddy/marketsim/sim"
)

// Snapshot is the read-only view of engine and market state a strategy
// receives each bar. Slices are shared with the caller and must not be
// mutated.
type Snapshot struct {
	Bar           market.Bar
	History       []market.Bar
	Positions     []sim.Position
	Trades        []sim.ClosedTrade
	Equity        float64
	EquityHistory []float64
	Balance       float64
	FeesPaid      float64
}

// Strategy is the per-bar decision interface. OnBar returns zero or more
// order intents to execute against the current bar's close. OnLiquidation is
// invoked before OnBar for every liquidation the bar produced.
type Strategy interface {
	Name() string
	OnBar(snap Snapshot) []sim.OrderIntent
	OnLiquidation(snap Snapshot, ev sim.LiquidationEvent)
}

// ByName constructs a strategy from its registry name with default
// parameters. Strategies needing tuning are constructed directly.
func ByName(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none":
		return Noop{}, nil
	case "sma-cross", "smacross":
		return NewSMACross(SMACrossDefaults()), nil
	case "mean-revert", "meanrevert":
		return NewMeanRevert(MeanRevertDefaults()), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: noop, sma-cross, mean-revert)", name)
	}
}
