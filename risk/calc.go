// Package risk provides stateless position-sizing helpers. Every function is
// a pure computation over account snapshots supplied by the caller; the
// package keeps no history of its own, so strategies and engine pre-trade
// checks can share it freely across independent simulation instances.
package risk

import "math"

// Drawdown returns the fractional decline of the last equity sample from the
// running peak of the series. An empty or non-positive series reports zero.
func Drawdown(equityHistory []float64) float64 {
	if len(equityHistory) == 0 {
		return 0
	}
	peak := equityHistory[0]
	for _, eq := range equityHistory {
		if eq > peak {
			peak = eq
		}
	}
	if peak <= 0 {
		return 0
	}
	last := equityHistory[len(equityHistory)-1]
	dd := (peak - last) / peak
	if dd < 0 {
		return 0
	}
	return dd
}

// Kelly computes the Kelly fraction for a win-rate / payoff-ratio estimate:
// (winRate*R - lossRate) / R with R = avgWin/avgLoss. Degenerate inputs
// (no losses observed, zero payoff) return zero rather than infinity so a
// short trade sample cannot blow up sizing.
func Kelly(winRate, avgWin, avgLoss float64) float64 {
	if winRate <= 0 || winRate > 1 || avgWin <= 0 || avgLoss <= 0 {
		return 0
	}
	r := avgWin / avgLoss
	k := (winRate*r - (1 - winRate)) / r
	if k < 0 || math.IsNaN(k) || math.IsInf(k, 0) {
		return 0
	}
	return k
}

// KellyCap clamps the Kelly fraction to [0, cap]. It is meant as an upper
// bound on notional exposure, never as the primary sizing signal: small
// trade samples make the raw estimate far too noisy to size on directly.
func KellyCap(winRate, avgWin, avgLoss, cap float64) float64 {
	if cap <= 0 {
		return 0
	}
	k := Kelly(winRate, avgWin, avgLoss)
	if k > cap {
		return cap
	}
	return k
}

// VolScalar dampens size as realized volatility runs above baseline:
// min(1, 1/max(1, volRatio*k)). At or below baseline the scalar is 1; it
// shrinks hyperbolically beyond that.
func VolScalar(volRatio, k float64) float64 {
	if volRatio <= 0 || k <= 0 {
		return 1
	}
	d := volRatio * k
	if d <= 1 {
		return 1
	}
	return 1 / d
}
