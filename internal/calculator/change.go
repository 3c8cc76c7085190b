package calculator

import (
	"math"

	"github.com/shopspring/decimal"
)

// PercentChangeFrom returns (current-reference)/reference as a fraction, or 0
// when the reference is zero.
func PercentChangeFrom(current, reference float64) float64 {
	if reference == 0 {
		return 0
	}
	return (current - reference) / reference
}

// Round2 rounds half away from zero to 2 decimals. NaN and infinities pass through.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
