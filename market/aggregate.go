package market

// Aggregate rolls base-timeframe bars into higher-timeframe bars by
// bucketing on index: first open, max high, min low, last close, summed
// volume. Quote metadata and the regime label are taken from the last base
// bar of each bucket. A trailing partial bucket is emitted as-is.
func Aggregate(bars []Bar, factor int) []Bar {
	if factor <= 1 || len(bars) == 0 {
		return bars
	}

	out := make([]Bar, 0, (len(bars)+factor-1)/factor)
	for start := 0; start < len(bars); start += factor {
		end := start + factor
		if end > len(bars) {
			end = len(bars)
		}
		bucket := bars[start:end]

		agg := bucket[0]
		agg.Index = start / factor
		for _, b := range bucket[1:] {
			if b.High > agg.High {
				agg.High = b.High
			}
			if b.Low < agg.Low {
				agg.Low = b.Low
			}
			agg.Volume += b.Volume
		}
		last := bucket[len(bucket)-1]
		agg.Close = last.Close
		agg.BestBid = last.BestBid
		agg.BestAsk = last.BestAsk
		agg.Spread = last.Spread
		agg.Imbalance = last.Imbalance
		agg.Regime = last.Regime

		out = append(out, agg)
	}
	return out
}
