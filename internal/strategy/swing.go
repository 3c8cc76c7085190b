package strategy

import (
	"fmt"

	"EquityScreener/internal/calculator"
	"EquityScreener/internal/model"
)

// Swing trade metric names beyond the day trade set.
const (
	MetricSMA20       = "sma20"
	MetricSMA50       = "sma50"
	MetricMACD        = "macd"
	MetricMACDSignal  = "macd_signal"
	MetricChange1W    = "chg_1w_pct"
	MetricChange1M    = "chg_1m_pct"
	MetricPrice1Month = "p1m"
	MetricPrice3Month = "p3m"
)

// ScoreSwingTrade layers trend, multi-timeframe momentum, pivot reaction and
// MACD confirmation over the day trade primitives. Points come from the swing
// weight table; opts.SwingWeights overrides individual entries.
func ScoreSwingTrade(u model.Universe, opts Options) ([]model.Candidate, error) {
	w, err := MergeWeights(opts.SwingWeights)
	if err != nil {
		return nil, err
	}
	out := make([]model.Candidate, 0, len(u))
	for _, sym := range u.Symbols() {
		rec := u[sym]
		if !rec.Eligible(opts.Live) {
			continue
		}
		out = append(out, scoreSwing(sym, rec, opts.Live, w))
	}
	return out, nil
}

func scoreSwing(symbol string, rec model.EquityRecord, live bool, w Weights) model.Candidate {
	sig := readSessionSignals(rec, live)
	card := &scorecard{}
	apply := func(name, reason string) {
		card.add(w[name], fmt.Sprintf("%s (%s)", reason, fmtPoints(w[name])))
	}

	switch {
	case sig.pch.Above(2):
		apply(WeightPchPositive, fmt.Sprintf("Up %s%% today", fmtFloat(sig.pch.V)))
	case sig.pch.Below(-2):
		apply(WeightPchNegative, fmt.Sprintf("Down %s%% today", fmtFloat(sig.pch.V)))
	}

	switch {
	case sig.relVol > 2:
		apply(WeightRelVolHigh, fmt.Sprintf("Relative volume %sx", fmtFloat(sig.relVol)))
	case sig.relVol > 1:
		apply(WeightRelVolMedium, fmt.Sprintf("Relative volume %sx", fmtFloat(sig.relVol)))
	}

	switch {
	case sig.rsi.Below(30):
		apply(WeightRSIOversold, fmt.Sprintf("RSI %s oversold", fmtFloat(sig.rsi.V)))
	case sig.rsi.Above(70):
		apply(WeightRSIOverbought, fmt.Sprintf("RSI %s overbought", fmtFloat(sig.rsi.V)))
	}

	if sig.volatility.Above(5) {
		apply(WeightVolatilityHigh, fmt.Sprintf("Circuit range %s%%", fmtFloat(sig.volatility.V)))
	}

	// Trend
	sma20, ok20 := calculator.MovingAverage(rec.Bars, 20)
	sma50, ok50 := calculator.MovingAverage(rec.Bars, 50)
	if ok20 && ok50 {
		switch {
		case sma20 > sma50:
			apply(WeightTrendBullish, fmt.Sprintf("SMA20 %s above SMA50 %s", fmtFloat(sma20), fmtFloat(sma50)))
		case sma20 < sma50:
			apply(WeightTrendBearish, fmt.Sprintf("SMA20 %s below SMA50 %s", fmtFloat(sma20), fmtFloat(sma50)))
		}
	}

	// Multi-timeframe momentum
	chg1w := snapshotChange(sig.price, rec.Price1Week)
	if chg1w.Above(3) {
		apply(WeightMomentumWeek, fmt.Sprintf("Up %s%% over 1 week", fmtFloat(chg1w.V)))
	}
	chg1m := snapshotChange(sig.price, rec.Price1Month)
	if chg1m.Above(5) {
		apply(WeightMomentumMonth, fmt.Sprintf("Up %s%% over 1 month", fmtFloat(chg1m.V)))
	}

	// Pivot reaction
	nearLevel := ""
	if sig.hasNear {
		nearLevel = sig.near.Name
		apply(WeightPivotNear, fmt.Sprintf("Near %s (%s)", sig.near.Name, sig.near.Value))
		switch nearLevel {
		case "S1", "S2":
			if sig.rsi.Below(35) {
				apply(WeightPivotSupportBounce, fmt.Sprintf("Oversold at support %s", nearLevel))
			}
		case "R1", "R2":
			if sig.rsi.Above(65) {
				apply(WeightPivotResistanceReject, fmt.Sprintf("Overbought at resistance %s", nearLevel))
			}
		}
	}

	macd, okMACD := calculator.DefaultMACD(rec.Bars)
	if okMACD && macd.Line > macd.Signal {
		apply(WeightMACDBullish, fmt.Sprintf("MACD %s above signal %s", fmtFloat(macd.Line), fmtFloat(macd.Signal)))
	}

	return model.Candidate{
		Symbol:    symbol,
		Name:      rec.Name,
		Strategy:  model.StrategySwing,
		Price:     sig.price,
		Score:     card.score,
		NearLevel: nearLevel,
		Reasons:   card.reasons,
		Metrics: []model.Metric{
			{Name: MetricPch, Value: sig.pch},
			{Name: MetricRSI, Value: rounded(sig.rsi)},
			{Name: MetricRelVol, Value: rounded(model.Some(sig.relVol))},
			{Name: MetricVolatility, Value: rounded(sig.volatility)},
			{Name: MetricSMA20, Value: num(sma20, ok20)},
			{Name: MetricSMA50, Value: num(sma50, ok50)},
			{Name: MetricMACD, Value: num(macd.Line, okMACD)},
			{Name: MetricMACDSignal, Value: num(macd.Signal, okMACD)},
			{Name: MetricChange1W, Value: rounded(chg1w)},
			{Name: MetricChange1M, Value: rounded(chg1m)},
			{Name: MetricPrice1Month, Value: rec.Price1Month},
			{Name: MetricPrice3Month, Value: rec.Price3Month},
		},
	}
}

// snapshotChange is the percent change of price against a historical
// snapshot, absent when the snapshot is missing or zero.
func snapshotChange(price float64, snapshot model.Num) model.Num {
	if !snapshot.Valid || snapshot.V == 0 {
		return model.Num{}
	}
	return model.Some(calculator.PercentChangeFrom(price, snapshot.V) * 100)
}
