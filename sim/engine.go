package sim

import (
	"fmt"
	"math"

	"github.com/rustyeddy/marketsim/id"
	"github.com/rustyeddy/marketsim/market"
)

// Mode selects spot or futures margining.
type Mode uint8

const (
	Spot Mode = iota
	Futures
)

func (m Mode) String() string {
	if m == Futures {
		return "futures"
	}
	return "spot"
}

// Config holds the trading engine parameters. Percent-like values are
// fractions (0.0004 == 4bps).
type Config struct {
	Mode            Mode
	Leverage        float64
	TakerFee        float64
	MakerFee        float64
	Slippage        float64
	ImpactCoeff     float64 // 0 disables the square-root impact term
	MaintenanceRate float64
	StartBalance    float64

	// Defaults applied to OpenIntents that leave distances at zero.
	DefaultStopPct   float64
	DefaultTargetPct float64
	DefaultTrailPct  float64

	// PartialFillRatio scales entry fills, modeling finite top-of-book
	// depth. Zero means fill in full.
	PartialFillRatio float64
}

// Validate rejects configurations at construction rather than deep inside
// the per-bar loop.
func (c Config) Validate() error {
	if c.StartBalance <= 0 {
		return fmt.Errorf("sim: start balance must be positive, got %g", c.StartBalance)
	}
	if c.Mode == Futures && c.Leverage < 1 {
		return fmt.Errorf("sim: futures leverage must be >= 1, got %g", c.Leverage)
	}
	if c.TakerFee < 0 || c.TakerFee >= 1 || c.MakerFee < 0 || c.MakerFee >= 1 {
		return fmt.Errorf("sim: fee rates must be in [0,1)")
	}
	if c.Slippage < 0 || c.Slippage >= 1 {
		return fmt.Errorf("sim: slippage must be in [0,1), got %g", c.Slippage)
	}
	if c.MaintenanceRate < 0 || c.MaintenanceRate >= 1 {
		return fmt.Errorf("sim: maintenance rate must be in [0,1), got %g", c.MaintenanceRate)
	}
	if c.PartialFillRatio < 0 || c.PartialFillRatio > 1 {
		return fmt.Errorf("sim: partial fill ratio must be in [0,1], got %g", c.PartialFillRatio)
	}
	return nil
}

// LiquidationEvent is the first-class output emitted when a position is
// force-closed. It is not an error; callers surface it to strategies so they
// can reset pyramiding state.
type LiquidationEvent struct {
	PositionID string
	Side       Side
	Price      float64
	Loss       float64 // equals the position's posted margin exactly
	Bar        int
}

// Engine is the position and account lifecycle engine. Single-threaded by
// design: one bar is fully processed before the next begins, and independent
// simulation instances share no state.
type Engine struct {
	cfg Config

	balance  float64
	feesPaid float64

	// positions is an ordered slice, not a map, so per-bar processing is
	// deterministic across runs.
	positions []*Position
	closed    []ClosedTrade
	pending   []OrderIntent

	equity        float64
	equityHistory []float64
	exposedBars   int
	totalBars     int
}

// NewEngine validates cfg and returns an engine holding the start balance.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:     cfg,
		balance: cfg.StartBalance,
		equity:  cfg.StartBalance,
	}, nil
}

// Submit queues order intents for the next Flush. Invalid intents are
// dropped there, silently: an unaffordable or zero-size order is a normal
// occurrence for a strategy, not an exceptional condition.
func (e *Engine) Submit(intents ...OrderIntent) {
	e.pending = append(e.pending, intents...)
}

// UpdateBar applies per-bar risk transitions to every open position in a
// fixed priority order: trailing watermark update, stop-loss, take-profit,
// trailing stop, liquidation. At most one exit fires per position per bar.
// The returned liquidation events, if any, must be surfaced to the strategy
// before its regular per-bar callback.
func (e *Engine) UpdateBar(bar market.Bar) []LiquidationEvent {
	var events []LiquidationEvent
	survivors := e.positions[:0]

	for _, p := range e.positions {
		p.updateWatermark(bar)

		switch {
		case p.adverse(bar, p.StopPrice()):
			e.closeAt(p, p.StopPrice(), bar.Index, StopLoss)
		case p.favorable(bar, p.TargetPrice()):
			e.closeAt(p, p.TargetPrice(), bar.Index, TakeProfit)
		case p.adverse(bar, p.TrailPrice()):
			e.closeAt(p, p.TrailPrice(), bar.Index, TrailingStop)
		case e.cfg.Mode == Futures && p.adverse(bar, p.LiquidationPrice(e.cfg.Leverage, e.cfg.MaintenanceRate)):
			events = append(events, e.liquidate(p, bar.Index))
		default:
			p.markToMarket(bar.Close)
			survivors = append(survivors, p)
		}
	}

	e.positions = survivors
	e.recomputeEquity()
	return events
}

// Flush executes the queued intents against the current bar's close price
// and clears the queue.
func (e *Engine) Flush(bar market.Bar) {
	for _, intent := range e.pending {
		switch it := intent.(type) {
		case OpenIntent:
			e.executeOpen(it, bar)
		case CloseIntent:
			e.executeClose(it, bar)
		}
	}
	e.pending = e.pending[:0]
}

// Commit finalizes the bar: positions are marked at the close, equity is
// recomputed and sampled into the history, and exposure counters advance.
func (e *Engine) Commit(bar market.Bar) {
	for _, p := range e.positions {
		p.markToMarket(bar.Close)
	}
	e.recomputeEquity()
	e.equityHistory = append(e.equityHistory, e.equity)
	e.totalBars++
	if len(e.positions) > 0 {
		e.exposedBars++
	}
}

// CloseAll closes every open position at the bar's close with the given
// reason. Used by callers that flatten at the end of a run.
func (e *Engine) CloseAll(bar market.Bar, reason ExitReason) {
	for _, p := range append([]*Position(nil), e.positions...) {
		imp := impactCost(e.cfg.ImpactCoeff, p.Size*bar.Close, bar.Volume*bar.Close)
		e.closeAt(p, exitFillPrice(bar.Close, p.Side, e.cfg.Slippage, imp), bar.Index, reason)
	}
	e.positions = e.positions[:0]
	e.recomputeEquity()
}

func (e *Engine) executeOpen(it OpenIntent, bar market.Bar) {
	size := it.Size
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return
	}
	if it.Side != Long && it.Side != Short {
		return
	}
	if e.cfg.PartialFillRatio > 0 && e.cfg.PartialFillRatio < 1 {
		size *= e.cfg.PartialFillRatio
	}

	ref := bar.Close
	imp := impactCost(e.cfg.ImpactCoeff, size*ref, bar.Volume*ref)
	px := entryFillPrice(ref, it.Side, e.cfg.Slippage, imp)
	if px <= 0 || math.IsNaN(px) {
		return
	}

	marginFactor := 1.0
	if e.cfg.Mode == Futures && e.cfg.Leverage > 1 {
		marginFactor = 1 / e.cfg.Leverage
	}

	notional := size * px
	margin := notional * marginFactor
	fee := notional * e.cfg.TakerFee

	// Resize down to the maximum affordable size rather than rejecting.
	if margin+fee > e.balance {
		maxNotional := e.balance / (marginFactor + e.cfg.TakerFee)
		size = maxNotional / px
		if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
			return
		}
		notional = size * px
		margin = notional * marginFactor
		fee = notional * e.cfg.TakerFee
	}

	e.balance -= margin + fee
	e.feesPaid += fee

	p := &Position{
		ID:         id.New(),
		Side:       it.Side,
		EntryPrice: px,
		Size:       size,
		Notional:   notional,
		Margin:     margin,
		EntryFee:   fee,
		StopPct:    distanceOrDefault(it.StopPct, e.cfg.DefaultStopPct),
		TargetPct:  distanceOrDefault(it.TargetPct, e.cfg.DefaultTargetPct),
		TrailPct:   distanceOrDefault(it.TrailPct, e.cfg.DefaultTrailPct),
		Watermark:  px,
		EntryBar:   bar.Index,
	}
	p.markToMarket(bar.Close)
	e.positions = append(e.positions, p)
}

// distanceOrDefault resolves a trigger distance: zero inherits the engine
// default, negative disables the trigger.
func distanceOrDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	if v < 0 {
		return 0
	}
	return v
}

func (e *Engine) executeClose(it CloseIntent, bar market.Bar) {
	survivors := e.positions[:0]
	for _, p := range e.positions {
		match := false
		if it.PositionID != "" {
			match = p.ID == it.PositionID
		} else {
			match = it.Side == 0 || p.Side == it.Side
		}
		if !match {
			survivors = append(survivors, p)
			continue
		}
		imp := impactCost(e.cfg.ImpactCoeff, p.Size*bar.Close, bar.Volume*bar.Close)
		e.closeAt(p, exitFillPrice(bar.Close, p.Side, e.cfg.Slippage, imp), bar.Index, Signal)
	}
	e.positions = survivors
}

// closeAt realizes a position exit at the given price: margin is released,
// gross P&L settles to the balance, and the exit fee is charged on the exit
// notional.
func (e *Engine) closeAt(p *Position, exitPx float64, barIndex int, reason ExitReason) {
	pnl := float64(p.Side) * (exitPx - p.EntryPrice) * p.Size
	exitFee := p.Size * exitPx * e.cfg.TakerFee

	e.balance += p.Margin + pnl - exitFee
	e.feesPaid += exitFee

	e.closed = append(e.closed, ClosedTrade{
		ID:         p.ID,
		Side:       p.Side,
		EntryPrice: p.EntryPrice,
		ExitPrice:  exitPx,
		Size:       p.Size,
		Pnl:        pnl,
		Fees:       p.EntryFee + exitFee,
		Net:        pnl - p.EntryFee - exitFee,
		EntryBar:   p.EntryBar,
		ExitBar:    barIndex,
		Reason:     reason,
	})
}

// liquidate force-closes a position at its liquidation price. The realized
// loss is exactly the posted margin: the margin is not released, no exit fee
// is charged, and the event is reported as a first-class output.
func (e *Engine) liquidate(p *Position, barIndex int) LiquidationEvent {
	liqPx := p.LiquidationPrice(e.cfg.Leverage, e.cfg.MaintenanceRate)

	e.closed = append(e.closed, ClosedTrade{
		ID:         p.ID,
		Side:       p.Side,
		EntryPrice: p.EntryPrice,
		ExitPrice:  liqPx,
		Size:       p.Size,
		Pnl:        -p.Margin,
		Fees:       p.EntryFee,
		Net:        -p.Margin - p.EntryFee,
		EntryBar:   p.EntryBar,
		ExitBar:    barIndex,
		Reason:     Liquidation,
	})

	return LiquidationEvent{
		PositionID: p.ID,
		Side:       p.Side,
		Price:      liqPx,
		Loss:       p.Margin,
		Bar:        barIndex,
	}
}

// recomputeEquity derives equity as balance + margin in use + unrealized
// P&L across open positions.
func (e *Engine) recomputeEquity() {
	eq := e.balance
	for _, p := range e.positions {
		eq += p.Margin + p.Unrealized
	}
	e.equity = eq
}

// Balance returns the free cash balance.
func (e *Engine) Balance() float64 { return e.balance }

// Equity returns balance + margin in use + unrealized P&L.
func (e *Engine) Equity() float64 { return e.equity }

// FeesPaid returns cumulative fees charged so far.
func (e *Engine) FeesPaid() float64 { return e.feesPaid }

// OpenPositions returns copies of the open positions in deterministic
// (entry) order.
func (e *Engine) OpenPositions() []Position {
	out := make([]Position, len(e.positions))
	for i, p := range e.positions {
		out[i] = *p
	}
	return out
}

// ClosedTrades returns the closed-trade ledger.
func (e *Engine) ClosedTrades() []ClosedTrade { return e.closed }

// EquityHistory returns one equity sample per committed bar.
func (e *Engine) EquityHistory() []float64 { return e.equityHistory }

// Exposure returns (bars with at least one open position, total bars).
func (e *Engine) Exposure() (exposed, total int) {
	return e.exposedBars, e.totalBars
}
