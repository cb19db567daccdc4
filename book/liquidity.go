package book

// Maintenance operations used by the market simulator to keep the synthetic
// book liquid: replenish drained sides, hold the spread near a target width,
// and bound the number of resting levels.

// AddLiquidity places resting size on one side at 1..levels tick increments
// away from the touch, with size decaying further from the touch. When the
// side is empty the touch is synthesized from TopOfBook, so a fully drained
// side recovers around the last trade price.
func (b *Book) AddLiquidity(side Side, levels int, qtyPerLevel float64) {
	if levels <= 0 || qtyPerLevel <= 0 {
		return
	}

	bid, ask := b.TopOfBook()
	var touch int64
	if side == Buy {
		touch = b.key(bid) + 1 // first placement lands on the touch itself
	} else {
		touch = b.key(ask) - 1
	}

	for i := 1; i <= levels; i++ {
		// Linear decay from full size at the touch to half size at the
		// outermost level.
		q := qtyPerLevel * (1 - 0.5*float64(i-1)/float64(levels))
		if side == Buy {
			b.rest(Buy, touch-int64(i), q)
		} else {
			b.rest(Sell, touch+int64(i), q)
		}
	}
}

// TightenSpread injects quotes one tick inside the current touch on both
// sides until the spread is at most targetTicks wide. A book missing a side
// is first reseeded via AddLiquidity.
func (b *Book) TightenSpread(targetTicks int, qty float64) {
	if targetTicks < 1 || qty <= 0 {
		return
	}

	if b.bids.empty() {
		b.AddLiquidity(Buy, 1, qty)
	}
	if b.asks.empty() {
		b.AddLiquidity(Sell, 1, qty)
	}

	for i := 0; i < 1024; i++ {
		spread := b.asks.min() - b.bids.max()
		if spread <= int64(targetTicks) {
			return
		}
		// Step the thinner side inward first so quoting pressure is
		// roughly symmetric.
		if b.bids.qty[b.bids.max()] <= b.asks.qty[b.asks.min()] {
			b.bids.add(b.bids.max()+1, qty)
		} else {
			b.asks.add(b.asks.min()-1, qty)
		}
	}
}

// Prune evicts levels farther than keepLevels ticks from the reference
// price, bounding memory and clearing stale quotes after large moves.
func (b *Book) Prune(refPrice float64, keepLevels int) {
	if keepLevels <= 0 || refPrice <= 0 {
		return
	}
	ref := b.key(refPrice)
	lo, hi := ref-int64(keepLevels), ref+int64(keepLevels)

	for _, l := range []*ladder{b.bids, b.asks} {
		// Collect first: remove mutates the key slice.
		var evict []int64
		for _, k := range l.keys {
			if k < lo || k > hi {
				evict = append(evict, k)
			}
		}
		for _, k := range evict {
			l.remove(k)
		}
	}
}
