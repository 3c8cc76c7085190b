package model

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestNum_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in    string
		want  float64
		valid bool
	}{
		{`12.5`, 12.5, true},
		{`0`, 0, true},
		{`"1,250.75"`, 1250.75, true},
		{`"12%"`, 12, true},
		{`null`, 0, false},
		{`"N/A"`, 0, false},
		{`true`, 0, false},
		{`{"x":1}`, 0, false},
	}
	for _, tt := range tests {
		var n Num
		if err := json.Unmarshal([]byte(tt.in), &n); err != nil {
			t.Errorf("%s: unexpected error %v", tt.in, err)
			continue
		}
		if n.Valid != tt.valid || n.V != tt.want {
			t.Errorf("%s: got %+v, want %v valid=%v", tt.in, n, tt.want, tt.valid)
		}
	}
}

func TestNum_Helpers(t *testing.T) {
	var absent Num
	if absent.Above(-1) || absent.Below(1) || absent.Within(-1, 1) {
		t.Error("absent values must never satisfy a comparison")
	}
	if absent.Or(7) != 7 || absent.String() != "-" {
		t.Error("unexpected absent defaults")
	}
	zero := Some(0)
	if !zero.Below(1) || zero.Or(7) != 0 {
		t.Error("zero must stay distinct from absent")
	}
	if Some(5).Within(5, 15) || !Some(5.1).Within(5, 15) {
		t.Error("Within bounds are exclusive")
	}
	b, _ := json.Marshal(absent)
	if string(b) != "null" {
		t.Errorf("expected null, got %s", b)
	}
}

func TestBar_UnmarshalJSON(t *testing.T) {
	var bars []Bar
	raw := `[[1700000000, 1, 2, 0.5, 1.5, 1000],
		{"t":"2024-03-01","o":1,"h":2,"l":1,"c":"x","v":null},
		[1700000000000, 1, 2, 0.5, 1.75],
		"junk"]`
	if err := json.Unmarshal([]byte(raw), &bars); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 4 {
		t.Fatalf("expected 4 bars, got %d", len(bars))
	}
	if bars[0].Close != 1.5 || bars[0].Volume != 1000 || !bars[0].Time.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("unexpected array bar %+v", bars[0])
	}
	if !math.IsNaN(bars[1].Close) || bars[1].Valid() {
		t.Errorf("expected non-numeric close to decode as NaN, got %v", bars[1].Close)
	}
	if bars[1].Time.Format("2006-01-02") != "2024-03-01" {
		t.Errorf("unexpected date %v", bars[1].Time)
	}
	if !bars[2].Time.Equal(time.UnixMilli(1700000000000)) || bars[2].Volume != 0 {
		t.Errorf("unexpected millisecond bar %+v", bars[2])
	}
	if bars[3].Valid() || !math.IsNaN(bars[3].High) {
		t.Errorf("expected non-bar entry to decode as NaN, got %+v", bars[3])
	}
}

func TestEquityRecord_Decode(t *testing.T) {
	raw := `{"nm":"Alpha","ldcp":"100","cp":102,"pch":1.5,"rsi":2500,"per":null,
		"pp":{"pp":101,"r1":103},"bars":[[1,1,1,1,1,1]]}`
	var rec EquityRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Price(false) != 100 || rec.Price(true) != 102 {
		t.Errorf("unexpected prices %v %v", rec.Price(false), rec.Price(true))
	}
	if rec.RSIValue().Valid {
		t.Error("corrupt RSI must read as absent")
	}
	levels := rec.Pivots.Levels()
	if len(levels) != 7 || levels[0].Name != "Pivot" || levels[0].Value.V != 101 || levels[1].Value.V != 103 {
		t.Errorf("unexpected levels %+v", levels)
	}
	if levels[2].Value.Valid {
		t.Error("unreported level must be absent")
	}
	if len(rec.Bars) != 1 {
		t.Errorf("expected 1 bar, got %d", len(rec.Bars))
	}
}

func TestEquityRecord_DecodeMalformedFields(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty string pivots", `{"ldcp":100,"eps":5,"pp":""}`},
		{"zero pivots", `{"ldcp":100,"eps":5,"pp":0}`},
		{"false pivots", `{"ldcp":100,"eps":5,"pp":false}`},
		{"text pivots", `{"ldcp":100,"eps":5,"pp":"n/a"}`},
		{"text bar entry", `{"ldcp":100,"eps":5,"bars":[[1,1,1,1,2,1],"junk"]}`},
		{"bars not a list", `{"ldcp":100,"eps":5,"bars":"none"}`},
		{"numeric name", `{"ldcp":100,"eps":5,"nm":123}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec EquityRecord
			if err := json.Unmarshal([]byte(tt.raw), &rec); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Price(false) != 100 || rec.EPS != Some(5) {
				t.Errorf("lost fields: price %v eps %v", rec.Price(false), rec.EPS)
			}
			if rec.Pivots != nil {
				t.Errorf("expected no pivots, got %+v", rec.Pivots)
			}
		})
	}

	var rec EquityRecord
	if err := json.Unmarshal([]byte(`{"nm":123,"bars":[[1,1,1,1,2,1],"junk"]}`), &rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Name != "123" {
		t.Errorf("expected name 123, got %q", rec.Name)
	}
	if len(rec.Bars) != 2 || !rec.Bars[0].Valid() || rec.Bars[1].Valid() {
		t.Errorf("unexpected bars %+v", rec.Bars)
	}
}

func TestEquityRecord_Accessors(t *testing.T) {
	rec := EquityRecord{
		LastClose:      Some(50),
		CurrentClose:   Some(55),
		PercentChange:  Some(1),
		Volume:         Some(300),
		MonthAvgVolume: Some(100),
		UpperCircuit:   Some(55),
		EPS:            Some(5),
		PE:             Some(8),
	}
	if !rec.Eligible(false) || (EquityRecord{}).Eligible(false) {
		t.Error("eligibility must follow the reference price")
	}
	if got := rec.ChangePercent(false); got.V != 1 {
		t.Errorf("expected feed change, got %v", got)
	}
	if got := rec.ChangePercent(true); got.V != 10 {
		t.Errorf("expected derived live change 10, got %v", got)
	}
	if rec.RelativeVolume() != 3 {
		t.Errorf("expected relative volume 3, got %v", rec.RelativeVolume())
	}
	if rec.Volatility(false).Valid {
		t.Error("volatility needs both circuit limits")
	}
	rec.LowerCircuit = Some(45)
	if got := rec.Volatility(false); got.V != 20 {
		t.Errorf("expected volatility 20, got %v", got)
	}
	if got := rec.PERatio(false); got.V != 8 {
		t.Errorf("expected feed P/E, got %v", got)
	}
	if got := rec.PERatio(true); got.V != 11 {
		t.Errorf("expected live P/E 11, got %v", got)
	}
	rec.PE = Num{}
	if got := rec.PERatio(false); got.V != 10 {
		t.Errorf("expected derived P/E 10, got %v", got)
	}
	if rec.FreeCashFlow().Valid {
		t.Error("FCF needs operating profit or capex")
	}
	rec.Capex = Some(4)
	if got := rec.FreeCashFlow(); got.V != -4 {
		t.Errorf("expected FCF -4, got %v", got)
	}
	var nilPivots *PivotLevels
	if nilPivots.Levels() != nil {
		t.Error("nil pivots must yield no levels")
	}
}

func TestUniverse_Symbols(t *testing.T) {
	u := Universe{"ZED": {}, "ABC": {}, "MID": {}}
	got := u.Symbols()
	if len(got) != 3 || got[0] != "ABC" || got[1] != "MID" || got[2] != "ZED" {
		t.Errorf("expected sorted symbols, got %v", got)
	}
}

func TestCandidate_MarshalJSON(t *testing.T) {
	c := Candidate{
		Symbol:  "ABC",
		Score:   2.5,
		Metrics: []Metric{{Name: "rsi", Value: Some(31)}, {Name: "per", Value: Num{}}},
	}
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["rsi"] != 31.0 || out["per"] != nil || out["score"] != 2.5 || out["near_level"] != nil {
		t.Errorf("unexpected JSON %s", b)
	}
	if _, ok := out["reasons"].([]any); !ok {
		t.Errorf("expected reasons array, got %s", b)
	}
}
