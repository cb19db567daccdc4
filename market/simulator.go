package market

import (
	"fmt"
	"math"

	"github.com/rustyeddy/marketsim/prng"
)

// Config holds the synthetic simulator parameters. Percent-like values are
// fractions (0.02 == 2%).
type Config struct {
	Seed       int64
	StartPrice float64
	BaseVol    float64 // baseline per-tick volatility
	DriftBias  float64 // constant drift added to every regime
	SwitchProb float64 // per-tick probability of an early regime switch
	Momentum   float64 // fraction of the previous return carried forward
	TickSize   float64 // used for quote metadata synthesis
}

// Validate rejects configurations that would corrupt the process math.
func (c Config) Validate() error {
	if c.StartPrice <= 0 {
		return fmt.Errorf("market: start price must be positive, got %g", c.StartPrice)
	}
	if c.BaseVol <= 0 {
		return fmt.Errorf("market: base volatility must be positive, got %g", c.BaseVol)
	}
	if c.SwitchProb < 0 || c.SwitchProb >= 1 {
		return fmt.Errorf("market: switch probability must be in [0,1), got %g", c.SwitchProb)
	}
	if c.Momentum < 0 || c.Momentum >= 1 {
		return fmt.Errorf("market: momentum must be in [0,1), got %g", c.Momentum)
	}
	if c.TickSize < 0 {
		return fmt.Errorf("market: tick size must not be negative, got %g", c.TickSize)
	}
	return nil
}

// GARCH-like volatility recursion coefficients:
// sigma = a*sigmaPrev + b*|prevReturn| + c*targetVol.
const (
	volPersist  = 0.70
	volReact    = 0.15
	volBaseline = 0.15

	// Hard cap on a single tick's return, keeping close > 0 and the tails
	// plausible even in crash regimes.
	maxTickReturn = 0.35
)

// Simulator produces a deterministic, seed-reproducible bar sequence from a
// regime-switching process with volatility clustering. One tick yields one
// base-timeframe bar.
type Simulator struct {
	cfg Config
	rng *prng.Source

	price  float64
	anchor float64

	regime       Regime
	regimeAge    int
	regimeBudget int

	sigma      float64
	prevReturn float64

	idx     int
	history []Bar
}

// NewSimulator validates cfg and constructs a simulator positioned before
// the first tick.
func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Momentum == 0 {
		cfg.Momentum = 0.15
	}

	rng := prng.New(cfg.Seed)
	s := &Simulator{
		cfg:    cfg,
		rng:    rng,
		price:  cfg.StartPrice,
		anchor: cfg.StartPrice,
		regime: Sideways,
		sigma:  cfg.BaseVol,
	}
	s.regimeBudget = sampleDuration(rng, s.regime)
	return s, nil
}

// Regime returns the current regime label.
func (s *Simulator) Regime() Regime { return s.regime }

// History returns the appended bar history. The slice is shared; callers
// must treat it as read-only.
func (s *Simulator) History() []Bar { return s.history }

// Next advances the process one tick and returns the resulting bar.
func (s *Simulator) Next() Bar {
	s.maybeSwitchRegime()
	p := regimeTable[s.regime]

	targetVol := s.cfg.BaseVol * p.VolMult
	s.sigma = volPersist*s.sigma + volReact*math.Abs(s.prevReturn) + volBaseline*targetVol

	ret := p.Drift + s.cfg.DriftBias
	if s.price > 0 {
		ret += p.MeanRev * (s.anchor - s.price) / s.price
	}
	if p.SwingAmp > 0 && p.SwingPeriod > 0 {
		ret += p.SwingAmp * math.Sin(2*math.Pi*float64(s.regimeAge)/float64(p.SwingPeriod))
	}
	ret += s.cfg.Momentum * s.prevReturn
	ret += s.rng.NormFloat64() * s.sigma
	if s.rng.Float64() < p.JumpProb {
		jump := s.rng.NormFloat64() * s.sigma * 4
		if s.regime == Crash && jump > 0 {
			jump = -jump
		}
		ret += jump
	}
	ret = clamp(ret, -maxTickReturn, maxTickReturn)

	bar := s.synthesizeBar(ret)

	s.price = bar.Close
	s.prevReturn = ret
	s.regimeAge++
	s.idx++
	s.history = append(s.history, bar)
	return bar
}

// Run advances n ticks and returns the bars generated by this call.
func (s *Simulator) Run(n int) []Bar {
	start := len(s.history)
	for i := 0; i < n; i++ {
		s.Next()
	}
	return s.history[start:]
}

func (s *Simulator) maybeSwitchRegime() {
	if s.regimeAge < s.regimeBudget && s.rng.Float64() >= s.cfg.SwitchProb {
		return
	}
	s.regime = sampleTransition(s.rng, s.regime)
	s.regimeAge = 0
	s.regimeBudget = sampleDuration(s.rng, s.regime)
	s.anchor = s.price
}

// synthesizeBar derives OHLCV and quote metadata from the tick return.
func (s *Simulator) synthesizeBar(ret float64) Bar {
	open := s.price
	close := open * (1 + ret)
	body := math.Abs(close - open)

	// Asymmetric wick noise scaled to sigma and the realized body, capped
	// to keep tails sane.
	wickCap := open*s.sigma*2.5 + body
	upWick := math.Min(math.Abs(s.rng.NormFloat64())*0.4*s.sigma*open+0.2*body, wickCap)
	downWick := math.Min(math.Abs(s.rng.NormFloat64())*0.4*s.sigma*open+0.2*body, wickCap)
	if s.regime == Crash && s.rng.Float64() < 0.12 {
		downWick *= 2.5
	}

	high := math.Max(open, close) + upWick
	low := math.Min(open, close) - downWick
	if low <= 0 {
		low = math.Min(open, close) * 0.1
	}

	relMove := math.Abs(ret) / math.Max(s.sigma, 1e-9)
	volume := 1000 * (0.5 + s.rng.Float64()) * (1 + math.Min(relMove, 5))

	halfSpread := close * s.sigma * 0.05
	if s.cfg.TickSize > 0 && halfSpread < s.cfg.TickSize {
		halfSpread = s.cfg.TickSize
	}

	return Bar{
		Index:     s.idx,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    volume,
		BestBid:   close - halfSpread,
		BestAsk:   close + halfSpread,
		Spread:    2 * halfSpread,
		Imbalance: clamp(ret/math.Max(2*s.sigma, 1e-9), -1, 1),
		Regime:    s.regime,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
