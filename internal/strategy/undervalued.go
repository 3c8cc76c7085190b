package strategy

import (
	"fmt"

	"EquityScreener/internal/model"
)

// Value metric names.
const (
	MetricPERatio   = "pe_ratio"
	MetricBookValue = "book_value"
)

// ScoreUndervalued is a light value screen over earning companies. Records
// without positive EPS and candidates scoring zero or less are left out.
func ScoreUndervalued(u model.Universe, opts Options) ([]model.Candidate, error) {
	out := make([]model.Candidate, 0, len(u))
	for _, sym := range u.Symbols() {
		rec := u[sym]
		if !rec.Eligible(opts.Live) || !rec.EPS.Above(0) {
			continue
		}
		c := scoreUndervalued(sym, rec, opts.Live)
		if c.Score <= 0 {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func scoreUndervalued(symbol string, rec model.EquityRecord, live bool) model.Candidate {
	price := rec.Price(live)
	pe := model.Some(price / rec.EPS.V)
	card := &scorecard{}

	if pe.Below(10) {
		card.add(2, fmt.Sprintf("Low PE %s", fmtFloat(pe.V)))
	}
	if rec.ROE.Above(10) {
		card.add(1, fmt.Sprintf("ROE %s%%", fmtFloat(rec.ROE.V)))
	}
	if rec.PAT.Above(0) {
		card.add(1, "PAT positive")
	}
	if rec.BookValue.Above(price) {
		card.add(2, "Price below Book Value")
	}

	return model.Candidate{
		Symbol:   symbol,
		Name:     rec.Name,
		Strategy: model.StrategyUndervalued,
		Price:    price,
		Score:    card.score,
		Reasons:  card.reasons,
		Metrics: []model.Metric{
			{Name: MetricEPS, Value: rec.EPS},
			{Name: MetricROE, Value: rec.ROE},
			{Name: MetricPAT, Value: rec.PAT},
			{Name: MetricPERatio, Value: rounded(pe)},
			{Name: MetricBookValue, Value: rec.BookValue},
		},
	}
}
