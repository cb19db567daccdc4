package strategies

import (
	"github.com/rustyeddy/marketsim/indicators"
	"github.com/rustyeddy/marketsim/sim"
)

// SMACrossConfig tunes the moving-average crossover strategy.
type SMACrossConfig struct {
	FastPeriod int
	SlowPeriod int

	// Size is the base position size in units per entry.
	Size float64

	// StopPct / TargetPct / TrailPct are fractional trigger distances passed
	// through to the engine. Zero inherits the engine defaults.
	StopPct   float64
	TargetPct float64
	TrailPct  float64

	// MaxPyramids caps how many entries may stack in the same direction.
	MaxPyramids int
}

// SMACrossDefaults returns a workable parameter set for hourly-scale bars.
func SMACrossDefaults() SMACrossConfig {
	return SMACrossConfig{
		FastPeriod:  10,
		SlowPeriod:  30,
		Size:        1,
		StopPct:     0.02,
		TargetPct:   0.04,
		MaxPyramids: 1,
	}
}

// SMACross trades fast/slow moving-average crossovers: it enters on a cross,
// reverses on the opposite cross, and stacks up to MaxPyramids entries while
// the trend persists. A liquidation resets the pyramid count so the strategy
// does not immediately re-lever into the move that just wiped it out.
type SMACross struct {
	cfg  SMACrossConfig
	fast *indicators.SimpleMA
	slow *indicators.SimpleMA

	lastDiff     float64
	haveLastDiff bool
	pyramids     int
	dir          sim.Side
}

func NewSMACross(cfg SMACrossConfig) *SMACross {
	if cfg.MaxPyramids < 1 {
		cfg.MaxPyramids = 1
	}
	return &SMACross{
		cfg:  cfg,
		fast: indicators.NewMA(cfg.FastPeriod),
		slow: indicators.NewMA(cfg.SlowPeriod),
	}
}

func (s *SMACross) Name() string { return "sma-cross" }

func (s *SMACross) OnLiquidation(_ Snapshot, ev sim.LiquidationEvent) {
	if ev.Side == s.dir {
		s.pyramids = 0
		s.dir = 0
	}
}

func (s *SMACross) OnBar(snap Snapshot) []sim.OrderIntent {
	s.fast.Update(snap.Bar)
	s.slow.Update(snap.Bar)
	if !s.fast.Ready() || !s.slow.Ready() {
		return nil
	}

	diff := s.fast.Value() - s.slow.Value()
	if !s.haveLastDiff {
		s.lastDiff = diff
		s.haveLastDiff = true
		return nil
	}
	crossedUp := s.lastDiff <= 0 && diff > 0
	crossedDown := s.lastDiff >= 0 && diff < 0
	s.lastDiff = diff

	// Engine exits (stops, targets, liquidations) can leave our direction
	// state stale; resync from the snapshot.
	if len(snap.Positions) == 0 {
		s.pyramids = 0
		s.dir = 0
	}

	open := func(side sim.Side) []sim.OrderIntent {
		var intents []sim.OrderIntent
		if s.dir != 0 && s.dir != side {
			intents = append(intents, sim.CloseIntent{Side: s.dir})
			s.pyramids = 0
		}
		s.dir = side
		s.pyramids++
		return append(intents, sim.OpenIntent{
			Side:      side,
			Size:      s.cfg.Size,
			StopPct:   s.cfg.StopPct,
			TargetPct: s.cfg.TargetPct,
			TrailPct:  s.cfg.TrailPct,
		})
	}

	switch {
	case crossedUp && (s.dir != sim.Long || s.pyramids < s.cfg.MaxPyramids):
		return open(sim.Long)
	case crossedDown && (s.dir != sim.Short || s.pyramids < s.cfg.MaxPyramids):
		return open(sim.Short)
	}
	return nil
}
