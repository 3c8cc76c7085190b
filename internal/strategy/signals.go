package strategy

import (
	"fmt"
	"math"
	"strconv"

	"EquityScreener/internal/calculator"
	"EquityScreener/internal/model"
)

const (
	rsiPeriod = 14
	// pivotProximity is the fraction of the reference price within which a
	// pivot level counts as near. The bound is inclusive.
	pivotProximity = 0.02
	proximityEps   = 1e-12
)

// scorecard accumulates a point budget and the reasons behind it.
type scorecard struct {
	score   float64
	reasons []string
}

func (s *scorecard) add(points float64, reason string) {
	s.score += points
	s.reasons = append(s.reasons, reason)
}

// sessionSignals are the price/volume primitives shared by the day and swing scorers.
type sessionSignals struct {
	price      float64
	pch        model.Num
	relVol     float64
	rsi        model.Num
	volatility model.Num
	near       model.Level
	hasNear    bool
}

func readSessionSignals(rec model.EquityRecord, live bool) sessionSignals {
	price := rec.Price(live)
	near, ok := nearestPivot(price, rec.Pivots)
	return sessionSignals{
		price:      price,
		pch:        rec.ChangePercent(live),
		relVol:     rec.RelativeVolume(),
		rsi:        resolveRSI(rec),
		volatility: rec.Volatility(live),
		near:       near,
		hasNear:    ok,
	}
}

// resolveRSI prefers the feed RSI and falls back to RSI(14) over bar history.
func resolveRSI(rec model.EquityRecord) model.Num {
	if v := rec.RSIValue(); v.Valid {
		return v
	}
	if rsi, ok := calculator.RelativeStrengthIndex(rec.Bars, rsiPeriod); ok {
		return model.Some(rsi)
	}
	return model.Num{}
}

// nearestPivot returns the first level, in scan order, within pivotProximity
// of price. Zero and absent levels are skipped.
func nearestPivot(price float64, pivots *model.PivotLevels) (model.Level, bool) {
	if price <= 0 {
		return model.Level{}, false
	}
	for _, lv := range pivots.Levels() {
		if !lv.Value.Valid || lv.Value.V == 0 {
			continue
		}
		if math.Abs(price-lv.Value.V)/price <= pivotProximity+proximityEps {
			return lv, true
		}
	}
	return model.Level{}, false
}

func rounded(n model.Num) model.Num {
	if !n.Valid {
		return n
	}
	return model.Some(calculator.Round2(n.V))
}

func num(v float64, ok bool) model.Num {
	if !ok {
		return model.Num{}
	}
	return model.Some(v)
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(calculator.Round2(v), 'f', -1, 64)
}

func fmtPoints(p float64) string {
	return fmt.Sprintf("%+g", p)
}
