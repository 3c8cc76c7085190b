package strategy

import (
	"fmt"

	"EquityScreener/internal/calculator"
	"EquityScreener/internal/model"
)

// StrongMinScore is the inclusion gate for the fundamentally strong screen.
const StrongMinScore = 7

// ScoreFundamentallyStrong combines fundamental strength with RSI, MACD and
// SMA50 confirmation. Only candidates reaching StrongMinScore are kept.
func ScoreFundamentallyStrong(u model.Universe, opts Options) ([]model.Candidate, error) {
	out := make([]model.Candidate, 0)
	for _, sym := range u.Symbols() {
		rec := u[sym]
		if !rec.Eligible(opts.Live) || !rec.EPS.Above(0) {
			continue
		}
		c := scoreStrong(sym, rec, opts.Live)
		if c.Score < StrongMinScore {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func scoreStrong(symbol string, rec model.EquityRecord, live bool) model.Candidate {
	price := rec.Price(live)
	pe := rec.PERatio(live)
	fcf := rec.FreeCashFlow()
	rsi := resolveRSI(rec)
	card := &scorecard{}

	// Profitability
	switch {
	case rec.ROE.Above(15):
		card.add(1.5, fmt.Sprintf("ROE %s%% excellent", fmtFloat(rec.ROE.V)))
	case rec.ROE.Above(10):
		card.add(1, fmt.Sprintf("ROE %s%% good", fmtFloat(rec.ROE.V)))
	}
	if rec.ROCE.Above(12) {
		card.add(1, fmt.Sprintf("ROCE %s%%", fmtFloat(rec.ROCE.V)))
	}
	if rec.NetProfitMargin.Above(10) {
		card.add(1, "Net margin above 10%")
	}
	if rec.OperatingMargin.Above(15) {
		card.add(0.5, "Operating margin above 15%")
	}
	if rec.PAT.Above(0) {
		card.add(0.5, "PAT positive")
	}
	if rec.SalesGrowth1Y.Above(10) {
		card.add(1, fmt.Sprintf("Sales growth %s%%", fmtFloat(rec.SalesGrowth1Y.V)))
	}

	// Valuation
	if pe.Valid && pe.V > 0 {
		switch {
		case pe.V < 5:
			card.add(0.5, fmt.Sprintf("Very low PE %s, possible value trap", fmtFloat(pe.V)))
		case pe.V <= 15:
			card.add(1.5, fmt.Sprintf("Attractive PE %s", fmtFloat(pe.V)))
		case pe.V <= 25:
			card.add(0.5, fmt.Sprintf("Fair PE %s", fmtFloat(pe.V)))
		}
	}
	if rec.PB.Valid && rec.PB.V > 0 && rec.PB.V < 1.5 {
		card.add(1, fmt.Sprintf("Low PB %s", fmtFloat(rec.PB.V)))
	}
	if rec.DividendYield.Above(4) {
		card.add(1, fmt.Sprintf("Dividend yield %s%%", fmtFloat(rec.DividendYield.V)))
	}
	if rec.DividendCover.Above(1.5) {
		card.add(0.5, "Dividend covered")
	}

	// Balance sheet
	switch {
	case rec.DebtToEquity.Below(0.5):
		card.add(1.5, fmt.Sprintf("Very low Debt/Equity %s", fmtFloat(rec.DebtToEquity.V)))
	case rec.DebtToEquity.Below(1):
		card.add(1, fmt.Sprintf("Low Debt/Equity %s", fmtFloat(rec.DebtToEquity.V)))
	}
	if rec.InterestCover.Above(4) {
		card.add(1, "Strong interest cover")
	}
	if rec.CurrentRatio.Above(1.5) {
		card.add(0.5, "Healthy current ratio")
	}
	if fcf.Above(0) {
		card.add(1, "Positive Free Cash Flow")
	}

	// Technical confirmation
	switch {
	case rsi.Valid && rsi.V >= 40 && rsi.V <= 65:
		card.add(1, fmt.Sprintf("RSI %s in healthy zone", fmtFloat(rsi.V)))
	case rsi.Below(30):
		card.add(0.5, fmt.Sprintf("RSI %s oversold", fmtFloat(rsi.V)))
	}
	macd, okMACD := calculator.DefaultMACD(rec.Bars)
	if okMACD && macd.Line > macd.Signal {
		card.add(1, "MACD above signal")
	}
	sma50, ok50 := calculator.MovingAverage(rec.Bars, 50)
	if ok50 && price > sma50 {
		card.add(0.5, fmt.Sprintf("Price above SMA50 %s", fmtFloat(sma50)))
	}

	return model.Candidate{
		Symbol:   symbol,
		Name:     rec.Name,
		Strategy: model.StrategyStrong,
		Price:    price,
		Score:    card.score,
		Reasons:  card.reasons,
		Metrics: []model.Metric{
			{Name: MetricEPS, Value: rec.EPS},
			{Name: MetricROE, Value: rec.ROE},
			{Name: MetricROCE, Value: rec.ROCE},
			{Name: MetricPERatio, Value: rounded(pe)},
			{Name: MetricPBR, Value: rec.PB},
			{Name: MetricDebtEquity, Value: rec.DebtToEquity},
			{Name: MetricRSI, Value: rounded(rsi)},
			{Name: MetricMACD, Value: num(macd.Line, okMACD)},
			{Name: MetricMACDSignal, Value: num(macd.Signal, okMACD)},
			{Name: MetricSMA50, Value: num(sma50, ok50)},
		},
	}
}
