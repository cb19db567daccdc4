package backtest

import "github.com/rustyeddy/marketsim/sim"

// Result summarizes a completed run.
type Result struct {
	Bars         int
	Trades       int
	Wins         int
	Losses       int
	Liquidations int
	WinRate      float64

	Balance   float64
	Equity    float64
	Fees      float64
	NetProfit float64

	// MaxDrawdown is the largest peak-to-trough equity decline as a
	// fraction of the peak.
	MaxDrawdown float64

	// Exposure is the fraction of bars with at least one open position.
	Exposure float64
}

func (r *Runner) result(bars int) Result {
	res := Result{
		Bars:    bars,
		Balance: r.Engine.Balance(),
		Equity:  r.Engine.Equity(),
		Fees:    r.Engine.FeesPaid(),
	}

	for _, tr := range r.Engine.ClosedTrades() {
		res.Trades++
		res.NetProfit += tr.Net
		switch {
		case tr.Reason == sim.Liquidation:
			res.Liquidations++
			res.Losses++
		case tr.Net > 0:
			res.Wins++
		default:
			res.Losses++
		}
	}
	if res.Trades > 0 {
		res.WinRate = float64(res.Wins) / float64(res.Trades)
	}

	res.MaxDrawdown = maxDrawdown(r.Engine.EquityHistory())

	exposed, total := r.Engine.Exposure()
	if total > 0 {
		res.Exposure = float64(exposed) / float64(total)
	}
	return res
}

func maxDrawdown(equity []float64) float64 {
	var peak, maxDD float64
	for _, eq := range equity {
		if eq > peak {
			peak = eq
		}
		if peak > 0 {
			if dd := (peak - eq) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}
