package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThrottleSteps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		drawdown float64
		mult     float64
		halt     bool
	}{
		{0.00, 1.00, false},
		{0.09, 1.00, false},
		{0.10, 0.75, false},
		{0.11, 0.75, false},
		{0.16, 0.50, false},
		{0.21, 0.25, false},
		{0.22, 0.25, false},
		{0.23, 0.00, true},
		{0.50, 0.00, true},
	}
	for _, tt := range tests {
		mult, halt := Throttle(tt.drawdown)
		assert.Equal(t, tt.mult, mult, "drawdown %.2f", tt.drawdown)
		assert.Equal(t, tt.halt, halt, "drawdown %.2f", tt.drawdown)
	}
}

func TestThrottleMonotone(t *testing.T) {
	t.Parallel()

	prev := 2.0
	for dd := 0.0; dd <= 0.40; dd += 0.005 {
		mult, halt := Throttle(dd)
		if halt {
			mult = 0
		}
		assert.LessOrEqual(t, mult, prev, "throttle rose at drawdown %.3f", dd)
		prev = mult
	}
}

func TestDrawdown(t *testing.T) {
	t.Parallel()

	assert.Zero(t, Drawdown(nil))
	assert.Zero(t, Drawdown([]float64{100}))
	assert.InDelta(t, 0.10, Drawdown([]float64{100, 110, 99}), 1e-9)
	// Recovery above the peak means zero drawdown.
	assert.Zero(t, Drawdown([]float64{100, 90, 120}))
	// The peak is historical, not the first sample.
	assert.InDelta(t, 0.25, Drawdown([]float64{50, 200, 150}), 1e-9)
}

func TestKelly(t *testing.T) {
	t.Parallel()

	// 60% win rate at 1:1 payoff => f = 0.2.
	assert.InDelta(t, 0.2, Kelly(0.6, 10, 10), 1e-9)
	// Negative edge clamps to zero.
	assert.Zero(t, Kelly(0.4, 10, 10))
	// Degenerate samples are zero, not infinite.
	assert.Zero(t, Kelly(0.6, 10, 0))
	assert.Zero(t, Kelly(0, 10, 10))
	assert.Zero(t, Kelly(1.2, 10, 10))
}

func TestKellyCap(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.05, KellyCap(0.6, 10, 10, 0.05), 1e-9)
	assert.InDelta(t, 0.2, KellyCap(0.6, 10, 10, 0.5), 1e-9)
	assert.Zero(t, KellyCap(0.6, 10, 10, 0))
}

func TestVolScalar(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, VolScalar(0.5, 1))
	assert.Equal(t, 1.0, VolScalar(1.0, 1))
	assert.InDelta(t, 0.5, VolScalar(2.0, 1), 1e-9)
	assert.InDelta(t, 0.25, VolScalar(2.0, 2), 1e-9)
	// Disabled damping.
	assert.Equal(t, 1.0, VolScalar(5.0, 0))
}

func TestSizerSize(t *testing.T) {
	t.Parallel()

	s := Sizer{RiskPct: 0.01, VolK: 1}
	acct := Account{Equity: 10000, EquityHistory: []float64{10000}}

	// equity * riskPct / stopDistance = 10000 * 0.01 / 2 = 50 units.
	size, halt := s.Size(acct, TradeStats{}, 100, 2, 1)
	assert.False(t, halt)
	assert.InDelta(t, 50.0, size, 1e-9)

	// 11% drawdown throttles to 75%.
	dd := Account{Equity: 8900, EquityHistory: []float64{10000, 8900}}
	size, halt = s.Size(dd, TradeStats{}, 100, 2, 1)
	assert.False(t, halt)
	assert.InDelta(t, 8900*0.01*0.75/2, size, 1e-9)

	// Past the halt threshold nothing trades.
	halted := Account{Equity: 7000, EquityHistory: []float64{10000, 7000}}
	size, halt = s.Size(halted, TradeStats{}, 100, 2, 1)
	assert.True(t, halt)
	assert.Zero(t, size)
}

func TestSizerKellyBound(t *testing.T) {
	t.Parallel()

	s := Sizer{RiskPct: 0.05, KellyCapPct: 0.10}
	acct := Account{Equity: 10000, EquityHistory: []float64{10000}}
	stats := TradeStats{WinRate: 0.9, AvgWin: 20, AvgLoss: 10}

	// Unbounded size would be 10000*0.05/1 = 500 units = 50000 notional;
	// the Kelly bound caps notional at 10% of equity => 10 units.
	size, halt := s.Size(acct, stats, 100, 1, 1)
	assert.False(t, halt)
	assert.InDelta(t, 10.0, size, 1e-9)
}

func TestSizerDegenerateInputs(t *testing.T) {
	t.Parallel()

	s := Sizer{RiskPct: 0.01}
	size, halt := s.Size(Account{}, TradeStats{}, 100, 2, 1)
	assert.Zero(t, size)
	assert.False(t, halt)

	size, _ = s.Size(Account{Equity: 100}, TradeStats{}, 100, 0, 1)
	assert.Zero(t, size)
}
