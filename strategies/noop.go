package strategies

import "github.com/rustyeddy/marketsim/sim"

// Noop never trades. Useful for measuring simulator-only behavior.
type Noop struct{}

func (Noop) Name() string { return "noop" }

func (Noop) OnBar(Snapshot) []sim.OrderIntent { return nil }

func (Noop) OnLiquidation(Snapshot, sim.LiquidationEvent) {}
