package sim

import "github.com/rustyeddy/marketsim/market"

// Position is one open leveraged position. Owned exclusively by the Engine:
// created on a filled entry, mutated every bar (watermark, unrealized P&L),
// destroyed on exit.
type Position struct {
	ID         string
	Side       Side
	EntryPrice float64
	Size       float64 // base-asset units
	Notional   float64 // at entry
	Margin     float64 // posted at entry
	EntryFee   float64

	StopPct   float64
	TargetPct float64
	TrailPct  float64

	Watermark  float64 // highest high (long) / lowest low (short) since entry
	EntryBar   int
	Unrealized float64 // recomputed every bar at the close
}

// StopPrice returns the stop-loss trigger price, or 0 when no stop is set.
func (p *Position) StopPrice() float64 {
	if p.StopPct <= 0 {
		return 0
	}
	return p.EntryPrice * (1 - float64(p.Side)*p.StopPct)
}

// TargetPrice returns the take-profit trigger price, or 0 when unset.
func (p *Position) TargetPrice() float64 {
	if p.TargetPct <= 0 {
		return 0
	}
	return p.EntryPrice * (1 + float64(p.Side)*p.TargetPct)
}

// TrailPrice returns the trailing-stop trigger derived from the watermark,
// or 0 when no trail is set.
func (p *Position) TrailPrice() float64 {
	if p.TrailPct <= 0 {
		return 0
	}
	return p.Watermark * (1 - float64(p.Side)*p.TrailPct)
}

// LiquidationPrice is the forced-exit price for the given leverage and
// maintenance rate. Spot positions (leverage <= 1) do not liquidate.
func (p *Position) LiquidationPrice(leverage, maintenanceRate float64) float64 {
	if leverage <= 1 {
		return 0
	}
	return p.EntryPrice * (1 - float64(p.Side)*(1/leverage-maintenanceRate))
}

// updateWatermark advances the trailing watermark against the bar extremes.
func (p *Position) updateWatermark(bar market.Bar) {
	if p.Side == Long {
		if bar.High > p.Watermark {
			p.Watermark = bar.High
		}
		return
	}
	if bar.Low < p.Watermark {
		p.Watermark = bar.Low
	}
}

// markToMarket recomputes unrealized P&L at the given price.
func (p *Position) markToMarket(price float64) {
	p.Unrealized = float64(p.Side) * (price - p.EntryPrice) * p.Size
}

// adverse reports whether the bar breached the given trigger price on the
// losing side for this position: the low for longs, the high for shorts.
func (p *Position) adverse(bar market.Bar, trigger float64) bool {
	if trigger <= 0 {
		return false
	}
	if p.Side == Long {
		return bar.Low <= trigger
	}
	return bar.High >= trigger
}

// favorable reports whether the bar reached the given trigger price on the
// winning side: the high for longs, the low for shorts.
func (p *Position) favorable(bar market.Bar, trigger float64) bool {
	if trigger <= 0 {
		return false
	}
	if p.Side == Long {
		return bar.High >= trigger
	}
	return bar.Low <= trigger
}

// ClosedTrade is the immutable record materialized when a position exits.
type ClosedTrade struct {
	ID         string
	Side       Side
	EntryPrice float64
	ExitPrice  float64
	Size       float64
	Pnl        float64 // gross price P&L (liquidation: exactly -margin)
	Fees       float64 // entry + exit fees charged to the account
	Net        float64 // Pnl - Fees
	EntryBar   int
	ExitBar    int
	Reason     ExitReason
}
