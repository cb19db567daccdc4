package risk

// Drawdown throttle steps. Full size below 10% drawdown, then stepped cuts,
// then a hard halt above 22%.
const (
	throttleStep1 = 0.10
	throttleStep2 = 0.15
	throttleStep3 = 0.20
	throttleHalt  = 0.22
)

// Throttle maps the current drawdown to a size multiplier. When halt is true
// the caller must flatten everything and stop trading; the multiplier is
// zero in that case.
func Throttle(drawdown float64) (mult float64, halt bool) {
	switch {
	case drawdown > throttleHalt:
		return 0, true
	case drawdown >= throttleStep3:
		return 0.25, false
	case drawdown >= throttleStep2:
		return 0.50, false
	case drawdown >= throttleStep1:
		return 0.75, false
	default:
		return 1.0, false
	}
}
