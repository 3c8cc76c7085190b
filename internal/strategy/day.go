package strategy

import (
	"fmt"

	"EquityScreener/internal/model"
)

// Day trade metric names.
const (
	MetricPch        = "pch"
	MetricVolume     = "volume"
	MetricRelVol     = "rel_vol"
	MetricRSI        = "rsi"
	MetricVolatility = "volatility_pct"
)

// ScoreDayTrade scores intraday momentum, volume, RSI, circuit volatility and
// pivot proximity. Every eligible record is returned, including zero scores.
func ScoreDayTrade(u model.Universe, opts Options) ([]model.Candidate, error) {
	out := make([]model.Candidate, 0, len(u))
	for _, sym := range u.Symbols() {
		rec := u[sym]
		if !rec.Eligible(opts.Live) {
			continue
		}
		out = append(out, scoreDay(sym, rec, opts.Live))
	}
	return out, nil
}

func scoreDay(symbol string, rec model.EquityRecord, live bool) model.Candidate {
	sig := readSessionSignals(rec, live)
	card := &scorecard{}

	// Momentum
	switch {
	case sig.pch.Above(2):
		card.add(2, fmt.Sprintf("Strong up move %s%%", fmtFloat(sig.pch.V)))
	case sig.pch.Below(-2):
		card.add(1, fmt.Sprintf("Heavy drop %s%%, possible bounce", fmtFloat(sig.pch.V)))
	}

	// Volume
	switch {
	case sig.relVol > 2:
		card.add(2, fmt.Sprintf("Volume %sx monthly average", fmtFloat(sig.relVol)))
	case sig.relVol > 1:
		card.add(1, fmt.Sprintf("Volume above average (%sx)", fmtFloat(sig.relVol)))
	}

	// RSI
	switch {
	case sig.rsi.Below(30):
		card.add(2, fmt.Sprintf("RSI %s oversold", fmtFloat(sig.rsi.V)))
	case sig.rsi.Above(70):
		card.add(1, fmt.Sprintf("RSI %s overbought, breakout", fmtFloat(sig.rsi.V)))
	}

	// Volatility
	if sig.volatility.Above(5) {
		card.add(1, fmt.Sprintf("Circuit range %s%% of price", fmtFloat(sig.volatility.V)))
	}

	// Pivot proximity: one bonus at most
	nearLevel := ""
	if sig.hasNear {
		nearLevel = sig.near.Name
		card.add(1, fmt.Sprintf("Near %s (%s)", sig.near.Name, sig.near.Value))
	}

	return model.Candidate{
		Symbol:    symbol,
		Name:      rec.Name,
		Strategy:  model.StrategyDay,
		Price:     sig.price,
		Score:     card.score,
		NearLevel: nearLevel,
		Reasons:   card.reasons,
		Metrics: []model.Metric{
			{Name: MetricPch, Value: sig.pch},
			{Name: MetricVolume, Value: rec.Volume},
			{Name: MetricRelVol, Value: rounded(model.Some(sig.relVol))},
			{Name: MetricRSI, Value: rounded(sig.rsi)},
			{Name: MetricVolatility, Value: rounded(sig.volatility)},
		},
	}
}
