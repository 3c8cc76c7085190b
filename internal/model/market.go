package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Bar is one OHLCV observation. Prices the feed did not report as numbers are
// NaN so indicators can tell them apart from real zeros.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Bar field positions in the array form [ts, open, high, low, close, volume].
const (
	barTime = iota
	barOpen
	barHigh
	barLow
	barClose
	barVolume
)

// UnmarshalJSON accepts the positional array form and the {"t","o","h","l","c","v"} object form.
// Any other value decodes to a bar with a NaN close.
func (b *Bar) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || (trimmed[0] != '[' && trimmed[0] != '{') {
		*b = invalidBar()
		return nil
	}
	if trimmed[0] == '[' {
		var fields []json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return fmt.Errorf("decode bar: %w", err)
		}
		at := func(i int) json.RawMessage {
			if i < len(fields) {
				return fields[i]
			}
			return nil
		}
		*b = Bar{
			Time:   parseBarTime(at(barTime)),
			Open:   priceOrNaN(at(barOpen)),
			High:   priceOrNaN(at(barHigh)),
			Low:    priceOrNaN(at(barLow)),
			Close:  priceOrNaN(at(barClose)),
			Volume: numOrZero(at(barVolume)),
		}
		return nil
	}

	var obj struct {
		T json.RawMessage `json:"t"`
		O json.RawMessage `json:"o"`
		H json.RawMessage `json:"h"`
		L json.RawMessage `json:"l"`
		C json.RawMessage `json:"c"`
		V json.RawMessage `json:"v"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return fmt.Errorf("decode bar: %w", err)
	}
	*b = Bar{
		Time:   parseBarTime(obj.T),
		Open:   priceOrNaN(obj.O),
		High:   priceOrNaN(obj.H),
		Low:    priceOrNaN(obj.L),
		Close:  priceOrNaN(obj.C),
		Volume: numOrZero(obj.V),
	}
	return nil
}

func invalidBar() Bar {
	nan := math.NaN()
	return Bar{Open: nan, High: nan, Low: nan, Close: nan}
}

// Valid reports whether the close is a usable number.
func (b Bar) Valid() bool {
	return !math.IsNaN(b.Close) && !math.IsInf(b.Close, 0)
}

func priceOrNaN(raw json.RawMessage) float64 {
	var n Num
	if raw != nil {
		_ = n.UnmarshalJSON(raw)
	}
	if !n.Valid {
		return math.NaN()
	}
	return n.V
}

func numOrZero(raw json.RawMessage) float64 {
	var n Num
	if raw != nil {
		_ = n.UnmarshalJSON(raw)
	}
	return n.Or(0)
}

// parseBarTime reads unix seconds, unix milliseconds or a date string.
func parseBarTime(raw json.RawMessage) time.Time {
	if raw == nil {
		return time.Time{}
	}
	var n Num
	_ = n.UnmarshalJSON(raw)
	if n.Valid {
		ts := int64(n.V)
		if ts > 1e12 {
			return time.UnixMilli(ts).UTC()
		}
		return time.Unix(ts, 0).UTC()
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}
	}
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Closes extracts closing prices in bar order.
func Closes(bars []Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
