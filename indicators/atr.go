package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/marketsim/market"
)

func trueRange(cur, prev market.Bar) float64 {
	a := cur.High - cur.Low
	b := math.Abs(cur.High - prev.Close)
	c := math.Abs(cur.Low - prev.Close)
	return math.Max(a, math.Max(b, c))
}

// ATR is a streaming Average True Range indicator using Wilder smoothing.
type ATR struct {
	period    int
	atr       float64
	count     int
	warmupSum float64
	prev      market.Bar
	hasPrev   bool
}

// NewATR creates an Average True Range indicator with the given period.
func NewATR(period int) *ATR {
	return &ATR{period: period}
}

func (a *ATR) Name() string {
	return fmt.Sprintf("ATR(%d)", a.period)
}

// Warmup needs one extra bar: the first bar only establishes prev close.
func (a *ATR) Warmup() int {
	return a.period + 1
}

func (a *ATR) Reset() {
	a.atr = 0
	a.count = 0
	a.warmupSum = 0
	a.hasPrev = false
}

func (a *ATR) Update(b market.Bar) {
	if !a.hasPrev {
		a.prev = b
		a.hasPrev = true
		return
	}
	tr := trueRange(b, a.prev)
	a.prev = b

	if a.count < a.period {
		a.warmupSum += tr
		a.count++
		if a.count == a.period {
			a.atr = a.warmupSum / float64(a.period)
		}
		return
	}
	a.atr = (a.atr*float64(a.period-1) + tr) / float64(a.period)
}

func (a *ATR) Ready() bool {
	return a.count >= a.period
}

func (a *ATR) Value() float64 {
	if !a.Ready() {
		return 0
	}
	return a.atr
}

// RealizedVol is a streaming standard deviation of bar-close log returns,
// used as the realized-volatility input to sizing decisions.
type RealizedVol struct {
	period  int
	returns []float64
	prev    float64
	hasPrev bool
}

// NewRealizedVol creates a realized volatility indicator over the given
// return window.
func NewRealizedVol(period int) *RealizedVol {
	return &RealizedVol{
		period:  period,
		returns: make([]float64, 0, period),
	}
}

func (v *RealizedVol) Name() string {
	return fmt.Sprintf("RVOL(%d)", v.period)
}

func (v *RealizedVol) Warmup() int {
	return v.period + 1
}

func (v *RealizedVol) Reset() {
	v.returns = v.returns[:0]
	v.hasPrev = false
}

func (v *RealizedVol) Update(b market.Bar) {
	if !v.hasPrev {
		v.prev = b.Close
		v.hasPrev = true
		return
	}
	if v.prev > 0 && b.Close > 0 {
		v.returns = append(v.returns, math.Log(b.Close/v.prev))
	}
	v.prev = b.Close
	if len(v.returns) > v.period {
		v.returns = v.returns[1:]
	}
}

func (v *RealizedVol) Ready() bool {
	return len(v.returns) >= v.period
}

func (v *RealizedVol) Value() float64 {
	if !v.Ready() {
		return 0
	}
	var mean float64
	for _, r := range v.returns {
		mean += r
	}
	mean /= float64(len(v.returns))

	var ss float64
	for _, r := range v.returns {
		d := r - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(v.returns)))
}
