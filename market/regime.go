package market

import "github.com/rustyeddy/marketsim/prng"

// Regime labels the stochastic mode a bar was generated under. Downstream
// consumers use it for diagnostics only; it carries no execution semantics.
type Regime uint8

const (
	Bull Regime = iota
	Bear
	Sideways
	Swing
	Breakout
	Crash

	numRegimes = int(Crash) + 1
)

func (r Regime) String() string {
	switch r {
	case Bull:
		return "bull"
	case Bear:
		return "bear"
	case Sideways:
		return "sideways"
	case Swing:
		return "swing"
	case Breakout:
		return "breakout"
	case Crash:
		return "crash"
	}
	return "unknown"
}

// regimeParams hold the per-regime process parameters. Drift and jump
// magnitudes are per-tick fractions; VolMult scales the baseline volatility;
// MeanRev pulls toward the anchor price set at regime entry.
type regimeParams struct {
	Drift       float64
	VolMult     float64
	MeanRev     float64
	SwingAmp    float64
	SwingPeriod int
	DurMin      int
	DurMax      int
	JumpProb    float64
}

var regimeTable = [numRegimes]regimeParams{
	Bull:     {Drift: 0.0010, VolMult: 1.0, MeanRev: 0.02, DurMin: 40, DurMax: 120, JumpProb: 0.002},
	Bear:     {Drift: -0.0010, VolMult: 1.2, MeanRev: 0.02, DurMin: 40, DurMax: 120, JumpProb: 0.004},
	Sideways: {Drift: 0, VolMult: 0.6, MeanRev: 0.15, DurMin: 60, DurMax: 180, JumpProb: 0.001},
	Swing:    {Drift: 0, VolMult: 0.8, MeanRev: 0.05, SwingAmp: 0.004, SwingPeriod: 32, DurMin: 60, DurMax: 150, JumpProb: 0.001},
	Breakout: {Drift: 0.0025, VolMult: 1.8, MeanRev: 0, DurMin: 15, DurMax: 50, JumpProb: 0.02},
	Crash:    {Drift: -0.0045, VolMult: 2.5, MeanRev: 0, DurMin: 10, DurMax: 40, JumpProb: 0.05},
}

// transitions is the regime transition probability matrix; row r gives the
// distribution of the next regime when leaving regime r. Rows sum to 1.
var transitions = [numRegimes][numRegimes]float64{
	Bull:     {0.30, 0.10, 0.25, 0.15, 0.15, 0.05},
	Bear:     {0.15, 0.25, 0.25, 0.15, 0.10, 0.10},
	Sideways: {0.25, 0.15, 0.25, 0.20, 0.10, 0.05},
	Swing:    {0.20, 0.15, 0.25, 0.25, 0.10, 0.05},
	Breakout: {0.30, 0.15, 0.20, 0.10, 0.15, 0.10},
	Crash:    {0.20, 0.30, 0.20, 0.10, 0.10, 0.10},
}

// sampleTransition draws the next regime from the current regime's row by
// cumulative probability.
func sampleTransition(rng *prng.Source, from Regime) Regime {
	u := rng.Float64()
	acc := 0.0
	for r := 0; r < numRegimes; r++ {
		acc += transitions[from][r]
		if u < acc {
			return Regime(r)
		}
	}
	return Regime(numRegimes - 1)
}

// sampleDuration draws a duration budget, in ticks, uniformly from the
// regime's range.
func sampleDuration(rng *prng.Source, r Regime) int {
	p := regimeTable[r]
	if p.DurMax <= p.DurMin {
		return p.DurMin
	}
	return p.DurMin + rng.IntN(p.DurMax-p.DurMin+1)
}
