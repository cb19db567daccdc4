package sim

import "math"

// Execution cost model: fills move away from the reference price by the
// configured slippage plus an optional square-root market-impact term.
// Buys pay up, sells receive down.

// impactCost returns the impact fraction for an order of the given notional
// against the bar's traded notional. Degenerate volume yields zero impact
// rather than NaN.
func impactCost(coeff, orderNotional, barNotional float64) float64 {
	if coeff <= 0 || orderNotional <= 0 || barNotional <= 0 {
		return 0
	}
	v := coeff * math.Sqrt(orderNotional/barNotional)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// fillPrice applies slippage and impact to a reference price for an order
// that buys (isBuy) or sells.
func fillPrice(ref float64, isBuy bool, slippage, impact float64) float64 {
	adj := slippage + impact
	if isBuy {
		return ref * (1 + adj)
	}
	return ref * (1 - adj)
}

// entryFillPrice is the fill price for opening a position of the given side.
func entryFillPrice(ref float64, side Side, slippage, impact float64) float64 {
	return fillPrice(ref, side == Long, slippage, impact)
}

// exitFillPrice is the fill price for closing a position of the given side:
// longs sell out, shorts buy back.
func exitFillPrice(ref float64, side Side, slippage, impact float64) float64 {
	return fillPrice(ref, side == Short, slippage, impact)
}
