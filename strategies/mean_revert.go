package strategies

import (
	"github.com/rustyeddy/marketsim/indicators"
	"github.com/rustyeddy/marketsim/risk"
	"github.com/rustyeddy/marketsim/sim"
)

// MeanRevertConfig tunes the band mean-reversion strategy.
type MeanRevertConfig struct {
	Period int

	// Band is the entry distance from the mean in realized-vol multiples.
	Band float64

	// StopPct is the fractional stop distance; sizing risks Sizer.RiskPct of
	// equity against it.
	StopPct   float64
	TargetPct float64

	// BaselineVol anchors the volatility damping ratio.
	BaselineVol float64

	Sizer risk.Sizer
}

// MeanRevertDefaults returns a workable parameter set.
func MeanRevertDefaults() MeanRevertConfig {
	return MeanRevertConfig{
		Period:      20,
		Band:        2.0,
		StopPct:     0.03,
		TargetPct:   0.02,
		BaselineVol: 0.01,
		Sizer: risk.Sizer{
			RiskPct:     0.01,
			VolK:        1,
			KellyCapPct: 0.25,
		},
	}
}

// MeanRevert fades moves beyond a volatility band around a moving average:
// long when price stretches below the band, short above it, flat once price
// crosses back through the mean. Sizing runs through the risk package, so
// drawdowns throttle it and a tripped halt flattens everything.
type MeanRevert struct {
	cfg    MeanRevertConfig
	mean   *indicators.SimpleMA
	vol    *indicators.RealizedVol
	halted bool
}

func NewMeanRevert(cfg MeanRevertConfig) *MeanRevert {
	if cfg.Band <= 0 {
		cfg.Band = 2.0
	}
	return &MeanRevert{
		cfg:  cfg,
		mean: indicators.NewMA(cfg.Period),
		vol:  indicators.NewRealizedVol(cfg.Period),
	}
}

func (m *MeanRevert) Name() string { return "mean-revert" }

func (m *MeanRevert) OnLiquidation(Snapshot, sim.LiquidationEvent) {}

func (m *MeanRevert) OnBar(snap Snapshot) []sim.OrderIntent {
	m.mean.Update(snap.Bar)
	m.vol.Update(snap.Bar)
	if m.halted {
		return nil
	}
	if !m.mean.Ready() || !m.vol.Ready() {
		return nil
	}

	px := snap.Bar.Close
	mean := m.mean.Value()
	vol := m.vol.Value()
	band := m.cfg.Band * vol * mean

	// Flat-side management: exit once price mean-reverts through the mean.
	for _, p := range snap.Positions {
		if (p.Side == sim.Long && px >= mean) || (p.Side == sim.Short && px <= mean) {
			return []sim.OrderIntent{sim.CloseIntent{Side: p.Side}}
		}
	}
	if len(snap.Positions) > 0 {
		return nil
	}

	var side sim.Side
	switch {
	case px < mean-band:
		side = sim.Long
	case px > mean+band:
		side = sim.Short
	default:
		return nil
	}

	volRatio := 1.0
	if m.cfg.BaselineVol > 0 {
		volRatio = vol / m.cfg.BaselineVol
	}
	size, halt := m.cfg.Sizer.Size(
		risk.Account{Equity: snap.Equity, EquityHistory: snap.EquityHistory},
		tradeStats(snap.Trades),
		px,
		px*m.cfg.StopPct,
		volRatio,
	)
	if halt {
		m.halted = true
		return []sim.OrderIntent{sim.CloseIntent{}}
	}
	if size <= 0 {
		return nil
	}
	return []sim.OrderIntent{sim.OpenIntent{
		Side:      side,
		Size:      size,
		StopPct:   m.cfg.StopPct,
		TargetPct: m.cfg.TargetPct,
	}}
}

// tradeStats condenses the closed-trade ledger into the win-rate / payoff
// sample the Kelly bound consumes.
func tradeStats(trades []sim.ClosedTrade) risk.TradeStats {
	if len(trades) == 0 {
		return risk.TradeStats{}
	}
	var wins, losses int
	var winSum, lossSum float64
	for _, tr := range trades {
		if tr.Net > 0 {
			wins++
			winSum += tr.Net
		} else {
			losses++
			lossSum -= tr.Net
		}
	}
	stats := risk.TradeStats{
		WinRate: float64(wins) / float64(len(trades)),
	}
	if wins > 0 {
		stats.AvgWin = winSum / float64(wins)
	}
	if losses > 0 {
		stats.AvgLoss = lossSum / float64(losses)
	}
	return stats
}
