// Package market generates reproducible OHLCV bar sequences from a
// regime-switching stochastic process, either by direct synthesis or by
// driving an order book with simulated order flow.
package market

import "math"

// Bar is one OHLCV candle plus order-flow metadata. Bars are immutable once
// appended to a simulator's history.
type Bar struct {
	Index  int
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	BestBid   float64
	BestAsk   float64
	Spread    float64
	Imbalance float64 // buy vs sell flow in [-1, 1]

	Regime Regime
}

// Valid reports whether the bar satisfies the OHLC invariants:
// low <= min(open, close), high >= max(open, close), low > 0.
func (b Bar) Valid() bool {
	lo := math.Min(b.Open, b.Close)
	hi := math.Max(b.Open, b.Close)
	return b.Low > 0 && b.Low <= lo+1e-12 && b.High >= hi-1e-12
}

// Return is the bar's close-over-open return.
func (b Bar) Return() float64 {
	if b.Open == 0 {
		return 0
	}
	return b.Close/b.Open - 1
}

// Mid returns the quote midpoint, falling back to the close when no quote
// metadata was recorded.
func (b Bar) Mid() float64 {
	if b.BestBid > 0 && b.BestAsk > 0 {
		return (b.BestBid + b.BestAsk) / 2
	}
	return b.Close
}
