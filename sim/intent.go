// Package sim is the position and trading engine: it turns strategy order
// intents into position state changes under leverage, fees, slippage and
// forced liquidation, and tracks account equity bar by bar.
package sim

// Side is the direction of a position or entry intent.
type Side int8

const (
	Long  Side = +1
	Short Side = -1
)

func (s Side) String() string {
	if s == Long {
		return "long"
	}
	return "short"
}

// ExitReason is the closed set of ways a position leaves the book.
type ExitReason uint8

const (
	StopLoss ExitReason = iota
	TakeProfit
	TrailingStop
	Signal
	Liquidation
)

func (r ExitReason) String() string {
	switch r {
	case StopLoss:
		return "stop_loss"
	case TakeProfit:
		return "take_profit"
	case TrailingStop:
		return "trailing_stop"
	case Signal:
		return "signal"
	case Liquidation:
		return "liquidation"
	}
	return "unknown"
}

// OrderIntent is a tagged variant: either an OpenIntent or a CloseIntent.
// Strategies submit intents; the engine flushes them against the current
// bar's close.
type OrderIntent interface {
	orderIntent()
}

// OpenIntent requests a new position. Size is in base-asset units; zero Size
// drops the intent. Zero stop/target/trail distances fall back to the engine
// defaults; negative distances disable the respective trigger.
type OpenIntent struct {
	Side      Side
	Size      float64
	StopPct   float64 // stop-loss distance as a fraction of entry
	TargetPct float64 // take-profit distance as a fraction of entry
	TrailPct  float64 // trailing-stop distance from the watermark
}

func (OpenIntent) orderIntent() {}

// CloseIntent requests closing positions at the current bar's close. A
// non-empty PositionID closes that position; otherwise all positions with
// the given Side are closed, or every position when Side is zero.
type CloseIntent struct {
	PositionID string
	Side       Side
}

func (CloseIntent) orderIntent() {}
