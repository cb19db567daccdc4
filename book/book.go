// Package book implements a two-sided limit order book over discrete price
// levels with price-priority matching.
//
// Levels aggregate resting quantity; there is no per-order identity or time
// priority within a level. The book is single-threaded: each simulation
// instance owns its own Book and calls it once per micro-event.
package book

import (
	"fmt"
	"math"
	"sort"
)

// Side identifies the aggressing side of an order.
type Side int8

const (
	Buy  Side = +1
	Sell Side = -1
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// Fill is a single (price, size) execution against one level.
type Fill struct {
	Price float64
	Size  float64
}

// Execution summarizes the outcome of a market or marketable-limit order.
type Execution struct {
	Filled    float64
	AvgPrice  float64
	Remaining float64
	Fills     []Fill
}

// ladder holds one side of the book: tick-indexed quantities plus a sorted
// key slice for best-first traversal. Keys are prices in whole ticks.
type ladder struct {
	qty  map[int64]float64
	keys []int64 // ascending
}

func newLadder() *ladder {
	return &ladder{qty: make(map[int64]float64)}
}

func (l *ladder) add(key int64, q float64) {
	if q <= 0 {
		return
	}
	if _, ok := l.qty[key]; !ok {
		i := sort.Search(len(l.keys), func(i int) bool { return l.keys[i] >= key })
		l.keys = append(l.keys, 0)
		copy(l.keys[i+1:], l.keys[i:])
		l.keys[i] = key
	}
	l.qty[key] += q
}

func (l *ladder) remove(key int64) {
	if _, ok := l.qty[key]; !ok {
		return
	}
	delete(l.qty, key)
	i := sort.Search(len(l.keys), func(i int) bool { return l.keys[i] >= key })
	if i < len(l.keys) && l.keys[i] == key {
		l.keys = append(l.keys[:i], l.keys[i+1:]...)
	}
}

func (l *ladder) empty() bool { return len(l.keys) == 0 }

func (l *ladder) min() int64 { return l.keys[0] }
func (l *ladder) max() int64 { return l.keys[len(l.keys)-1] }

// Book is the order book engine. Prices are quantized to the tick size on
// the way in; all stored prices are whole multiples of the tick.
type Book struct {
	tick      float64
	bids      *ladder
	asks      *ladder
	lastTrade float64
}

// New constructs a book with the given tick size and an initial reference
// price used as the last-trade fallback before any execution happens.
func New(tickSize, refPrice float64) (*Book, error) {
	if tickSize <= 0 {
		return nil, fmt.Errorf("book: tick size must be positive, got %g", tickSize)
	}
	if refPrice <= 0 {
		return nil, fmt.Errorf("book: reference price must be positive, got %g", refPrice)
	}
	return &Book{
		tick:      tickSize,
		bids:      newLadder(),
		asks:      newLadder(),
		lastTrade: refPrice,
	}, nil
}

// Tick returns the configured tick size.
func (b *Book) Tick() float64 { return b.tick }

// LastTrade returns the most recent execution price, or the initial
// reference price if nothing has traded yet.
func (b *Book) LastTrade() float64 { return b.lastTrade }

// Quantize rounds a price to the nearest tick.
func (b *Book) Quantize(price float64) float64 {
	return float64(b.key(price)) * b.tick
}

func (b *Book) key(price float64) int64 {
	return int64(math.Round(price / b.tick))
}

func (b *Book) price(key int64) float64 {
	return float64(key) * b.tick
}

// BestBid returns the highest resting bid price, if any.
func (b *Book) BestBid() (float64, bool) {
	if b.bids.empty() {
		return 0, false
	}
	return b.price(b.bids.max()), true
}

// BestAsk returns the lowest resting ask price, if any.
func (b *Book) BestAsk() (float64, bool) {
	if b.asks.empty() {
		return 0, false
	}
	return b.price(b.asks.min()), true
}

// TopOfBook returns a bid/ask quote that is always defined: an empty side is
// synthesized one tick around the last trade price so callers never observe
// an undefined spread.
func (b *Book) TopOfBook() (bid, ask float64) {
	bid, haveBid := b.BestBid()
	ask, haveAsk := b.BestAsk()
	if !haveBid {
		bid = b.Quantize(b.lastTrade) - b.tick
	}
	if !haveAsk {
		ask = b.Quantize(b.lastTrade) + b.tick
	}
	if bid >= ask {
		mid := b.Quantize((bid + ask) / 2)
		bid, ask = mid-b.tick, mid+b.tick
	}
	return bid, ask
}

// MarketOrder walks opposing levels from the best price outward, consuming
// resting quantity until qty is filled or the side is exhausted. Drained
// levels are removed and the last-trade price is updated per fill.
func (b *Book) MarketOrder(side Side, qty float64) Execution {
	ex := Execution{Remaining: qty}
	if qty <= 0 {
		ex.Remaining = 0
		return ex
	}

	opposing := b.asks
	if side == Sell {
		opposing = b.bids
	}

	notional := 0.0
	for ex.Remaining > 0 && !opposing.empty() {
		var key int64
		if side == Buy {
			key = opposing.min()
		} else {
			key = opposing.max()
		}
		px := b.price(key)
		avail := opposing.qty[key]

		take := math.Min(avail, ex.Remaining)
		ex.Fills = append(ex.Fills, Fill{Price: px, Size: take})
		ex.Filled += take
		ex.Remaining -= take
		notional += take * px
		b.lastTrade = px

		if take >= avail {
			opposing.remove(key)
		} else {
			opposing.qty[key] = avail - take
		}
	}

	if ex.Filled > 0 {
		ex.AvgPrice = notional / ex.Filled
	}
	return ex
}

// LimitOrder places a limit order. A price that crosses the opposing best is
// executed immediately as a market order (marketable-limit semantics); any
// remainder, and any non-crossing order, rests at the quantized limit price.
func (b *Book) LimitOrder(side Side, price, qty float64) Execution {
	if qty <= 0 || price <= 0 {
		return Execution{}
	}
	key := b.key(price)

	crosses := false
	if side == Buy {
		if ask, ok := b.BestAsk(); ok && b.price(key) >= ask {
			crosses = true
		}
	} else {
		if bid, ok := b.BestBid(); ok && b.price(key) <= bid {
			crosses = true
		}
	}

	ex := Execution{Remaining: qty}
	if crosses {
		ex = b.MarketOrder(side, qty)
	}
	if ex.Remaining > 0 {
		b.rest(side, key, ex.Remaining)
		ex.Remaining = 0
	}
	return ex
}

// rest adds quantity at the given level, clipping the price inside the
// opposing best so the book never crosses itself.
func (b *Book) rest(side Side, key int64, qty float64) {
	if side == Buy {
		if !b.asks.empty() && key >= b.asks.min() {
			key = b.asks.min() - 1
		}
		if key <= 0 {
			return
		}
		b.bids.add(key, qty)
		return
	}
	if !b.bids.empty() && key <= b.bids.max() {
		key = b.bids.max() + 1
	}
	b.asks.add(key, qty)
}

// QtyAt reports the resting quantity at a price, for inspection and tests.
func (b *Book) QtyAt(side Side, price float64) float64 {
	l := b.bids
	if side == Sell {
		l = b.asks
	}
	return l.qty[b.key(price)]
}

// Levels reports the number of populated levels on one side.
func (b *Book) Levels(side Side) int {
	if side == Buy {
		return len(b.bids.keys)
	}
	return len(b.asks.keys)
}
