package strategy

import (
	"fmt"

	"EquityScreener/internal/model"
)

// Fundamental metric names.
const (
	MetricEPS           = "eps"
	MetricROE           = "roe"
	MetricROA           = "roa"
	MetricROCE          = "roce"
	MetricPAT           = "pat"
	MetricPER           = "per"
	MetricPBR           = "pbr"
	MetricDividendYield = "dy"
	MetricDebtEquity    = "debt_equity"
	MetricIntCover      = "int_cover"
	MetricCurrentRatio  = "current_ratio"
	MetricQuickRatio    = "quick_ratio"
	MetricFCF           = "fcf"
)

// ScoreLongTerm accumulates integer points over profitability, valuation,
// balance sheet, cash flow and growth rules.
func ScoreLongTerm(u model.Universe, opts Options) ([]model.Candidate, error) {
	out := make([]model.Candidate, 0, len(u))
	for _, sym := range u.Symbols() {
		rec := u[sym]
		if !rec.Eligible(opts.Live) {
			continue
		}
		out = append(out, scoreLongTerm(sym, rec, opts.Live))
	}
	return out, nil
}

func scoreLongTerm(symbol string, rec model.EquityRecord, live bool) model.Candidate {
	price := rec.Price(live)
	per := rec.PERatio(live)
	fcf := rec.FreeCashFlow()
	card := &scorecard{}

	// Profitability
	if rec.EPS.Above(0) {
		card.add(2, "EPS positive")
	}
	if rec.ROE.Above(12) {
		card.add(2, fmt.Sprintf("ROE %s%% strong", fmtFloat(rec.ROE.V)))
	}
	if rec.ROA.Above(6) {
		card.add(1, fmt.Sprintf("ROA %s%% healthy", fmtFloat(rec.ROA.V)))
	}
	if rec.ROCE.Above(10) {
		card.add(1, fmt.Sprintf("ROCE %s%% good", fmtFloat(rec.ROCE.V)))
	}
	if rec.PAT.Above(0) {
		card.add(1, "PAT positive")
	}
	if rec.NetProfitMargin.Above(8) {
		card.add(1, "High Net Profit Margin")
	}
	if rec.OperatingMargin.Above(12) {
		card.add(1, "High Operating Margin")
	}

	// Valuation
	if per.Within(5, 15) {
		card.add(2, fmt.Sprintf("Reasonable PE %s", fmtFloat(per.V)))
	}
	if rec.PB.Below(2) {
		card.add(1, fmt.Sprintf("Cheap PB %s", fmtFloat(rec.PB.V)))
	}
	if rec.PS.Below(2) {
		card.add(1, "Good PS ratio")
	}
	if rec.BookValue.Above(price) {
		card.add(2, "Price below Book Value")
	}
	if rec.DividendYield.Above(3) {
		card.add(1, fmt.Sprintf("Attractive Dividend Yield %s%%", fmtFloat(rec.DividendYield.V)))
	}
	if rec.DividendCover.Above(2) {
		card.add(1, "Dividend well covered")
	}

	// Balance sheet
	if rec.DebtToEquity.Below(1) {
		card.add(2, fmt.Sprintf("Low Debt/Equity %s", fmtFloat(rec.DebtToEquity.V)))
	}
	if rec.InterestCover.Above(3) {
		card.add(1, "Comfortable Interest Cover")
	}
	if rec.CurrentRatio.Above(1.5) {
		card.add(1, "Healthy Current Ratio")
	}
	if rec.QuickRatio.Above(1) {
		card.add(1, "Healthy Quick Ratio")
	}

	// Cash flow
	if fcf.Above(0) {
		card.add(2, "Positive Free Cash Flow")
	}

	// Growth
	if rec.Sales.Above(0) {
		card.add(1, "Sales positive")
	}
	if rec.SalesGrowth1Y.Above(5) {
		card.add(1, fmt.Sprintf("Sales growth %s%%", fmtFloat(rec.SalesGrowth1Y.V)))
	}

	return model.Candidate{
		Symbol:   symbol,
		Name:     rec.Name,
		Strategy: model.StrategyLongTerm,
		Price:    price,
		Score:    card.score,
		Reasons:  card.reasons,
		Metrics: []model.Metric{
			{Name: MetricEPS, Value: rec.EPS},
			{Name: MetricROE, Value: rec.ROE},
			{Name: MetricROA, Value: rec.ROA},
			{Name: MetricPAT, Value: rec.PAT},
			{Name: MetricPER, Value: rounded(per)},
			{Name: MetricPBR, Value: rec.PB},
			{Name: MetricDividendYield, Value: rec.DividendYield},
			{Name: MetricDebtEquity, Value: rec.DebtToEquity},
			{Name: MetricIntCover, Value: rec.InterestCover},
			{Name: MetricCurrentRatio, Value: rec.CurrentRatio},
			{Name: MetricQuickRatio, Value: rec.QuickRatio},
			{Name: MetricFCF, Value: fcf},
		},
	}
}
