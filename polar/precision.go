package polar

import (
	"math"

	"github.com/shopspring/decimal"
)

// Number of decimal digits kept on every projected coordinate.
const precision = 11

// round rounds v half-up (away from zero) to the given number of decimal
// places, working on the shortest decimal representation of v rather than
// its exact binary value. A result of zero keeps the sign of v.
func round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}

	f, _ := decimal.NewFromFloat(v).Round(precision).Float64()
	if f == 0 {
		return math.Copysign(0, v)
	}
	return f
}
