package market

import (
	"fmt"
	"math"

	"github.com/rustyeddy/marketsim/book"
	"github.com/rustyeddy/marketsim/prng"
)

// FlowConfig parameterizes the order-flow-driven simulator.
type FlowConfig struct {
	Seed       int64
	StartPrice float64
	TickSize   float64
	BaseVol    float64 // classifier scale, per-bar

	OrderRate     float64 // market orders per bar (buy+sell combined)
	LiquidityRate float64 // liquidity-add events per bar

	MinOrderSize float64 // Pareto minimum
	ParetoAlpha  float64 // Pareto shape
	MaxOrderSize float64 // Pareto upper bound

	BookDepth   int     // levels seeded/replenished either side
	QtyPerLevel float64 // resting size per seeded level
}

// Validate rejects configurations the arrival process cannot run with.
func (c FlowConfig) Validate() error {
	if c.StartPrice <= 0 {
		return fmt.Errorf("market: start price must be positive, got %g", c.StartPrice)
	}
	if c.TickSize <= 0 {
		return fmt.Errorf("market: tick size must be positive, got %g", c.TickSize)
	}
	if c.BaseVol <= 0 {
		return fmt.Errorf("market: base volatility must be positive, got %g", c.BaseVol)
	}
	if c.OrderRate <= 0 {
		return fmt.Errorf("market: order arrival rate must be positive, got %g", c.OrderRate)
	}
	if c.LiquidityRate < 0 {
		return fmt.Errorf("market: liquidity rate must not be negative, got %g", c.LiquidityRate)
	}
	if c.MinOrderSize <= 0 || c.ParetoAlpha <= 0 {
		return fmt.Errorf("market: order size distribution requires positive min size and alpha")
	}
	if c.BookDepth <= 0 || c.QtyPerLevel <= 0 {
		return fmt.Errorf("market: book depth and level quantity must be positive")
	}
	return nil
}

// FlowSimulator emits a Poisson-like stream of market orders and
// liquidity-add events into an order book and aggregates the resulting trade
// prints into bars. The regime label is classified post hoc from order-flow
// imbalance, realized return, and relative spread rather than prescribed.
type FlowSimulator struct {
	cfg FlowConfig
	rng *prng.Source
	ob  *book.Book

	idx           int
	prevClose     float64
	prevImbalance float64
	history       []Bar
}

// NewFlowSimulator validates cfg, builds the book, and seeds initial
// liquidity either side of the start price. An unset order-size
// distribution defaults to bounded Pareto(0.5, 1.5) capped at 50.
func NewFlowSimulator(cfg FlowConfig) (*FlowSimulator, error) {
	if cfg.MinOrderSize == 0 && cfg.ParetoAlpha == 0 && cfg.MaxOrderSize == 0 {
		cfg.MinOrderSize = 0.5
		cfg.ParetoAlpha = 1.5
		cfg.MaxOrderSize = 50
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ob, err := book.New(cfg.TickSize, cfg.StartPrice)
	if err != nil {
		return nil, err
	}
	ob.AddLiquidity(book.Buy, cfg.BookDepth, cfg.QtyPerLevel)
	ob.AddLiquidity(book.Sell, cfg.BookDepth, cfg.QtyPerLevel)

	return &FlowSimulator{
		cfg:       cfg,
		rng:       prng.New(cfg.Seed),
		ob:        ob,
		prevClose: cfg.StartPrice,
	}, nil
}

// Book exposes the underlying order book for inspection.
func (f *FlowSimulator) Book() *book.Book { return f.ob }

// History returns the appended bar history (read-only for callers).
func (f *FlowSimulator) History() []Bar { return f.history }

// Next simulates one bar of order flow and returns the aggregated bar.
func (f *FlowSimulator) Next() Bar {
	rate := f.cfg.OrderRate + f.cfg.LiquidityRate
	liqShare := f.cfg.LiquidityRate / rate

	var (
		open, high, low, last float64
		volume                float64
		buyVol, sellVol       float64
	)

	// Events arrive over one bar of unit length with exponential
	// inter-arrival times.
	for t := f.rng.ExpFloat64() / rate; t < 1; t += f.rng.ExpFloat64() / rate {
		if f.rng.Float64() < liqShare {
			side := book.Buy
			if f.rng.Float64() < 0.5 {
				side = book.Sell
			}
			f.ob.AddLiquidity(side, 1+f.rng.IntN(f.cfg.BookDepth), f.cfg.QtyPerLevel)
			continue
		}

		// Buy/sell tilt persists with the previous bar's imbalance, which
		// gives the flow a momentum flavor.
		side := book.Buy
		if f.rng.Float64() >= 0.5+0.2*f.prevImbalance {
			side = book.Sell
		}
		size := f.rng.Pareto(f.cfg.MinOrderSize, f.cfg.ParetoAlpha, f.cfg.MaxOrderSize)

		ex := f.ob.MarketOrder(side, size)
		for _, fill := range ex.Fills {
			if open == 0 {
				open, high, low = fill.Price, fill.Price, fill.Price
			}
			high = math.Max(high, fill.Price)
			low = math.Min(low, fill.Price)
			last = fill.Price
			volume += fill.Size
			if side == book.Buy {
				buyVol += fill.Size
			} else {
				sellVol += fill.Size
			}
		}
	}

	// Book maintenance between bars: hold the spread near a few ticks and
	// bound the number of resting levels around the last trade.
	f.ob.TightenSpread(4, f.cfg.QtyPerLevel/2)
	f.ob.Prune(f.ob.LastTrade(), 40*f.cfg.BookDepth)

	if volume == 0 {
		// No prints this bar: synthesize a flat bar at the prior close.
		open, high, low, last = f.prevClose, f.prevClose, f.prevClose, f.prevClose
	}

	bid, ask := f.ob.TopOfBook()
	mid := (bid + ask) / 2

	imbalance := 0.0
	if total := buyVol + sellVol; total > 0 {
		imbalance = (buyVol - sellVol) / total
	}
	ret := 0.0
	if f.prevClose > 0 {
		ret = last/f.prevClose - 1
	}
	relSpread := 0.0
	if mid > 0 {
		relSpread = (ask - bid) / mid
	}

	bar := Bar{
		Index:     f.idx,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     last,
		Volume:    volume,
		BestBid:   bid,
		BestAsk:   ask,
		Spread:    ask - bid,
		Imbalance: imbalance,
		Regime:    classifyRegime(ret, imbalance, relSpread, f.cfg.BaseVol),
	}

	f.prevClose = last
	f.prevImbalance = imbalance
	f.idx++
	f.history = append(f.history, bar)
	return bar
}

// Run advances n bars and returns the bars generated by this call.
func (f *FlowSimulator) Run(n int) []Bar {
	start := len(f.history)
	for i := 0; i < n; i++ {
		f.Next()
	}
	return f.history[start:]
}

// classifyRegime labels a bar after the fact from its realized return,
// order-flow imbalance, and relative spread.
func classifyRegime(ret, imbalance, relSpread, baseVol float64) Regime {
	switch {
	case ret < -3*baseVol:
		return Crash
	case math.Abs(ret) > 2*baseVol && math.Abs(imbalance) > 0.4:
		return Breakout
	case ret > 0.5*baseVol && imbalance > 0:
		return Bull
	case ret < -0.5*baseVol && imbalance < 0:
		return Bear
	case ret*imbalance < 0 || relSpread > 4*baseVol:
		// Price moving against the flow, or a stretched spread: reverting.
		return Swing
	default:
		return Sideways
	}
}
