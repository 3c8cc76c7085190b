package calculator

import (
	"github.com/markcheno/go-talib"

	"EquityScreener/internal/model"
)

// MovingAverage returns the arithmetic mean of the closes of the most recent
// period bars, rounded to 2 decimals. It reports false when fewer than period
// bars exist or any close in that window is not a number.
func MovingAverage(bars []model.Bar, period int) (float64, bool) {
	if period <= 0 || len(bars) < period {
		return 0, false
	}
	closes := validCloses(bars[len(bars)-period:])
	if len(closes) < period {
		return 0, false
	}
	series := smaSeries(closes, period)
	return Round2(series[len(series)-1]), true
}

// smaSeries returns talib's SMA series aligned with closes; entries before
// index period-1 are zero. Callers guarantee len(closes) >= period.
func smaSeries(closes []float64, period int) []float64 {
	return talib.Sma(closes, period)
}

func validCloses(bars []model.Bar) []float64 {
	closes := make([]float64, 0, len(bars))
	for _, b := range bars {
		if b.Valid() {
			closes = append(closes, b.Close)
		}
	}
	return closes
}

func allValid(bars []model.Bar) bool {
	for _, b := range bars {
		if !b.Valid() {
			return false
		}
	}
	return true
}
