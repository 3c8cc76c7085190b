package calculator

import (
	"math"

	"EquityScreener/internal/model"
)

// PivotLevels derives classic floor-trader pivots from the prior session's
// high, low and close. Returns false if any of them is not a number.
func PivotLevels(prev model.Bar) (model.PivotLevels, bool) {
	h, l, c := prev.High, prev.Low, prev.Close
	for _, v := range []float64{h, l, c} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return model.PivotLevels{}, false
		}
	}
	if h < l || c <= 0 {
		return model.PivotLevels{}, false
	}

	pp := (h + l + c) / 3
	return model.PivotLevels{
		Pivot: model.Some(Round2(pp)),
		R1:    model.Some(Round2(2*pp - l)),
		S1:    model.Some(Round2(2*pp - h)),
		R2:    model.Some(Round2(pp + (h - l))),
		S2:    model.Some(Round2(pp - (h - l))),
		R3:    model.Some(Round2(h + 2*(pp-l))),
		S3:    model.Some(Round2(l - 2*(h-pp))),
	}, true
}
