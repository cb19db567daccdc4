package risk

// Sizer bundles the sizing parameters a strategy carries between bars. The
// zero value is unusable; construct one with explicit fields.
type Sizer struct {
	// RiskPct is the fraction of equity put at risk per trade (0.01 == 1%).
	RiskPct float64

	// VolK steepens the volatility damping; 0 disables it.
	VolK float64

	// KellyCapPct bounds notional exposure as a fraction of equity via the
	// capped Kelly estimate; 0 disables the bound.
	KellyCapPct float64
}

// Account is the read-only equity snapshot sizing decisions run against.
type Account struct {
	Equity        float64
	EquityHistory []float64
}

// TradeStats summarizes the closed-trade sample used for the Kelly bound.
// Zero values mean "no sample yet" and leave the bound inactive.
type TradeStats struct {
	WinRate float64
	AvgWin  float64
	AvgLoss float64
}

// Size computes the position size in units for an entry at price with the
// given absolute stop distance. volRatio is realized vs. baseline
// volatility. A true halt means the drawdown throttle has tripped: the
// caller must flatten everything and stop trading.
func (s Sizer) Size(acct Account, stats TradeStats, price, stopDistance, volRatio float64) (size float64, halt bool) {
	if acct.Equity <= 0 || price <= 0 || stopDistance <= 0 {
		return 0, false
	}

	mult, halt := Throttle(Drawdown(acct.EquityHistory))
	if halt {
		return 0, true
	}

	size = acct.Equity * s.RiskPct * mult * VolScalar(volRatio, s.VolK) / stopDistance

	// The Kelly bound caps notional, never raises it.
	if s.KellyCapPct > 0 && stats.AvgLoss > 0 {
		k := KellyCap(stats.WinRate, stats.AvgWin, stats.AvgLoss, s.KellyCapPct)
		maxSize := acct.Equity * k / price
		if size > maxSize {
			size = maxSize
		}
	}
	return size, false
}
