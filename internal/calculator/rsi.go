package calculator

import (
	"EquityScreener/internal/model"
)

// RelativeStrengthIndex computes the Wilder-smoothed RSI over the given period.
// Requires at least period+1 bars with numeric closes.
func RelativeStrengthIndex(bars []model.Bar, period int) (float64, bool) {
	if period <= 0 || len(bars) < period+1 || !allValid(bars) {
		return 0, false
	}

	closes := model.Closes(bars)

	// Seed averages over the first `period` changes
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	// Wilder smoothing for remaining bars
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100.0, true
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), true
}
