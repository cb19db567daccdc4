package backtest

import "github.com/rustyeddy/marketsim/market"

// BarSource yields bars one at a time. Implementations must be deterministic
// and return ok=false at end of data.
type BarSource interface {
	Next() (b market.Bar, ok bool)
}

// SliceSource replays a fixed bar slice.
type SliceSource struct {
	bars []market.Bar
	idx  int
}

func NewSliceSource(bars []market.Bar) *SliceSource {
	return &SliceSource{bars: bars}
}

func (s *SliceSource) Next() (market.Bar, bool) {
	if s.idx >= len(s.bars) {
		return market.Bar{}, false
	}
	b := s.bars[s.idx]
	s.idx++
	return b, true
}

// SimSource adapts a regime simulator into a bounded bar source.
type SimSource struct {
	sim  *market.Simulator
	n    int
	done int
}

// NewSimSource caps the simulator at n bars.
func NewSimSource(sim *market.Simulator, n int) *SimSource {
	return &SimSource{sim: sim, n: n}
}

func (s *SimSource) Next() (market.Bar, bool) {
	if s.done >= s.n {
		return market.Bar{}, false
	}
	s.done++
	return s.sim.Next(), true
}

// FlowSource adapts an order-flow simulator into a bounded bar source.
type FlowSource struct {
	sim  *market.FlowSimulator
	n    int
	done int
}

// NewFlowSource caps the flow simulator at n bars.
func NewFlowSource(sim *market.FlowSimulator, n int) *FlowSource {
	return &FlowSource{sim: sim, n: n}
}

func (s *FlowSource) Next() (market.Bar, bool) {
	if s.done >= s.n {
		return market.Bar{}, false
	}
	s.done++
	return s.sim.Next(), true
}
