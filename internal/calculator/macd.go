package calculator

import (
	"EquityScreener/internal/model"
)

// Default MACD periods.
const (
	MACDShort  = 12
	MACDLong   = 26
	MACDSignal = 9
)

// MACDComponent selects one scalar of a MACD computation.
type MACDComponent byte

const (
	ComponentLine      MACDComponent = 'M'
	ComponentSignal    MACDComponent = 'S'
	ComponentHistogram MACDComponent = 'H'
)

// MACDResult holds the three MACD scalars, each rounded to 2 decimals.
type MACDResult struct {
	Line      float64
	Signal    float64
	Histogram float64
}

// Component returns the selected scalar.
func (r MACDResult) Component(c MACDComponent) (float64, bool) {
	switch c {
	case ComponentLine:
		return r.Line, true
	case ComponentSignal:
		return r.Signal, true
	case ComponentHistogram:
		return r.Histogram, true
	default:
		return 0, false
	}
}

// ComputeMACD builds the MACD line from the difference of two simple moving
// averages. Over the trailing max(short,long)+signal bars it takes the
// short-minus-long difference at each of the last signal positions: the line
// is the last difference, the signal line their mean.
func ComputeMACD(bars []model.Bar, short, long, signal int) (MACDResult, bool) {
	if short <= 0 || long <= 0 || signal <= 0 {
		return MACDResult{}, false
	}
	lookback := max(short, long)
	need := lookback + signal
	if len(bars) < need {
		return MACDResult{}, false
	}
	window := bars[len(bars)-need:]
	if !allValid(window) {
		return MACDResult{}, false
	}

	closes := model.Closes(window)
	shortSMA := smaSeries(closes, short)
	longSMA := smaSeries(closes, long)

	var sum, last float64
	for i := need - signal; i < need; i++ {
		last = shortSMA[i] - longSMA[i]
		sum += last
	}

	line := Round2(last)
	sig := Round2(sum / float64(signal))
	return MACDResult{
		Line:      line,
		Signal:    sig,
		Histogram: Round2(line - sig),
	}, true
}

// MACD returns one component of ComputeMACD.
func MACD(bars []model.Bar, short, long, signal int, component MACDComponent) (float64, bool) {
	res, ok := ComputeMACD(bars, short, long, signal)
	if !ok {
		return 0, false
	}
	return res.Component(component)
}

// DefaultMACD computes MACD with the standard 12/26/9 periods.
func DefaultMACD(bars []model.Bar) (MACDResult, bool) {
	return ComputeMACD(bars, MACDShort, MACDLong, MACDSignal)
}
