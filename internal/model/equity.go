package model

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
)

// CorruptRSIMagnitude marks RSI values the feed is known to emit when broken.
const CorruptRSIMagnitude = 1000

// PivotLevels holds prior-session support and resistance levels.
type PivotLevels struct {
	Pivot Num `json:"pp"`
	R1    Num `json:"r1"`
	R2    Num `json:"r2"`
	R3    Num `json:"r3"`
	S1    Num `json:"s1"`
	S2    Num `json:"s2"`
	S3    Num `json:"s3"`
}

// Level is one named pivot level.
type Level struct {
	Name  string
	Value Num
}

// Levels returns the levels in scan order: Pivot, R1, R2, R3, S1, S2, S3.
func (p *PivotLevels) Levels() []Level {
	if p == nil {
		return nil
	}
	return []Level{
		{"Pivot", p.Pivot},
		{"R1", p.R1},
		{"R2", p.R2},
		{"R3", p.R3},
		{"S1", p.S1},
		{"S2", p.S2},
		{"S3", p.S3},
	}
}

// EquityRecord is one symbol's state for a screening run. JSON tags follow the
// merged feed keys.
type EquityRecord struct {
	Symbol string `json:"symbol"`
	Name   string `json:"nm"`

	// Pricing
	LastClose      Num `json:"ldcp"`
	CurrentClose   Num `json:"cp"`
	PercentChange  Num `json:"pch"`
	Volume         Num `json:"v"`
	MonthAvgVolume Num `json:"vm"`
	UpperCircuit   Num `json:"uc"`
	LowerCircuit   Num `json:"lc"`
	RSI            Num `json:"rsi"`

	// Momentum snapshots
	Price1Week  Num `json:"p1w"`
	Price1Month Num `json:"p1m"`
	Price3Month Num `json:"p3m"`

	// Fundamentals
	EPS               Num `json:"eps"`
	PAT               Num `json:"pat"`
	SharesOutstanding Num `json:"sh"`
	DividendPerShare  Num `json:"dps"`
	Assets            Num `json:"as"`
	ROE               Num `json:"roe"`
	ROA               Num `json:"roa"`
	ROCE              Num `json:"roce"`
	BookValue         Num `json:"bval"`
	PE                Num `json:"per"`
	PB                Num `json:"pbr"`
	PS                Num `json:"psr"`
	DividendYield     Num `json:"divy"`
	DividendCover     Num `json:"divc"`
	NetProfitMargin   Num `json:"npm"`
	OperatingMargin   Num `json:"opm"`
	DebtToEquity      Num `json:"grat"`
	InterestCover     Num `json:"intc"`
	CurrentRatio      Num `json:"curr"`
	QuickRatio        Num `json:"qr"`
	OperatingProfit   Num `json:"opp"`
	Capex             Num `json:"ppeq"`
	Sales             Num `json:"sales"`
	SalesGrowth1Y     Num `json:"%chg1y"`

	Pivots *PivotLevels `json:"pp"`
	Bars   []Bar        `json:"bars"`
}

// UnmarshalJSON decodes a feed record without letting one malformed field
// drop it: non-object pivots read as none, non-list bars as no history and a
// numeric name as its text.
func (r *EquityRecord) UnmarshalJSON(data []byte) error {
	type plain EquityRecord
	aux := struct {
		*plain
		Symbol json.RawMessage `json:"symbol"`
		Name   json.RawMessage `json:"nm"`
		Pivots json.RawMessage `json:"pp"`
		Bars   json.RawMessage `json:"bars"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Symbol = textValue(aux.Symbol)
	r.Name = textValue(aux.Name)
	r.Pivots = nil
	if isObject(aux.Pivots) {
		var p PivotLevels
		if err := json.Unmarshal(aux.Pivots, &p); err == nil {
			r.Pivots = &p
		}
	}
	r.Bars = nil
	if trimmed := bytes.TrimSpace(aux.Bars); len(trimmed) > 0 && trimmed[0] == '[' {
		var bars []Bar
		if err := json.Unmarshal(trimmed, &bars); err == nil {
			r.Bars = bars
		}
	}
	return nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// textValue reads a JSON string, or the literal text of a number.
func textValue(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	if _, err := strconv.ParseFloat(string(trimmed), 64); err == nil {
		return string(trimmed)
	}
	return ""
}

// Price returns the reference price: the prior close, or the current session
// close when live is set. Absent prices read as 0, which makes the record
// ineligible.
func (r EquityRecord) Price(live bool) float64 {
	if live {
		return r.CurrentClose.Or(0)
	}
	return r.LastClose.Or(0)
}

// Eligible reports whether the record has a strictly positive reference price.
func (r EquityRecord) Eligible(live bool) bool {
	return r.Price(live) > 0
}

// ChangePercent is the session percent change. Live reads derive it from the
// current close against the prior close when both are known.
func (r EquityRecord) ChangePercent(live bool) Num {
	if live && r.CurrentClose.Valid && r.LastClose.Above(0) {
		return Some((r.CurrentClose.V - r.LastClose.V) / r.LastClose.V * 100)
	}
	return r.PercentChange
}

// RSIValue returns the feed RSI unless it is absent or a corrupt sentinel.
func (r EquityRecord) RSIValue() Num {
	if !r.RSI.Valid || math.Abs(r.RSI.V) >= CorruptRSIMagnitude {
		return Num{}
	}
	return r.RSI
}

// RelativeVolume is today's volume over the monthly average, 0 without an average.
func (r EquityRecord) RelativeVolume() float64 {
	avg := r.MonthAvgVolume.Or(0)
	if avg == 0 {
		return 0
	}
	return r.Volume.Or(0) / avg
}

// Volatility is the circuit band width as a percentage of the reference price.
// Absent unless both circuit limits are reported.
func (r EquityRecord) Volatility(live bool) Num {
	price := r.Price(live)
	if price <= 0 || !r.UpperCircuit.Valid || !r.LowerCircuit.Valid {
		return Num{}
	}
	return Some((r.UpperCircuit.V - r.LowerCircuit.V) / price * 100)
}

// PERatio prefers a ratio recomputed from the live price; otherwise the feed
// ratio, falling back to price/EPS.
func (r EquityRecord) PERatio(live bool) Num {
	price := r.Price(live)
	earning := r.EPS.Above(0) && price > 0
	if live && earning {
		return Some(price / r.EPS.V)
	}
	if r.PE.Valid {
		return r.PE
	}
	if earning {
		return Some(price / r.EPS.V)
	}
	return Num{}
}

// FreeCashFlow approximates FCF as operating profit minus property/equipment capex.
func (r EquityRecord) FreeCashFlow() Num {
	if !r.OperatingProfit.Valid && !r.Capex.Valid {
		return Num{}
	}
	return Some(r.OperatingProfit.Or(0) - r.Capex.Or(0))
}

// Universe maps symbol to record for one screening run.
type Universe map[string]EquityRecord

// Symbols returns the symbols in sorted order.
func (u Universe) Symbols() []string {
	symbols := make([]string, 0, len(u))
	for s := range u {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}
