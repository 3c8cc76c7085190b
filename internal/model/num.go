package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Num is an optional feed number. The zero value means the feed omitted the
// field, which is distinct from a reported zero.
type Num struct {
	V     float64
	Valid bool
}

// Some wraps a present value.
func Some(v float64) Num { return Num{V: v, Valid: true} }

// Get returns the value and whether it was present.
func (n Num) Get() (float64, bool) { return n.V, n.Valid }

// Or returns the value, or def when absent.
func (n Num) Or(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.V
}

// Above reports whether the value is present and strictly greater than x.
func (n Num) Above(x float64) bool { return n.Valid && n.V > x }

// Below reports whether the value is present and strictly less than x.
func (n Num) Below(x float64) bool { return n.Valid && n.V < x }

// Within reports whether the value is present and lo < v < hi.
func (n Num) Within(lo, hi float64) bool { return n.Valid && n.V > lo && n.V < hi }

// UnmarshalJSON accepts numbers, numeric strings ("1,250.5", "12%") and null.
// Anything else decodes to an absent value instead of failing the record.
func (n *Num) UnmarshalJSON(data []byte) error {
	*n = Num{}
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return nil
		}
		s = strings.TrimSpace(str)
		s = strings.TrimSuffix(s, "%")
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*n = Some(v)
	return nil
}

// MarshalJSON writes null for absent values.
func (n Num) MarshalJSON() ([]byte, error) {
	if !n.Valid || math.IsNaN(n.V) || math.IsInf(n.V, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.V, 'f', -1, 64)), nil
}

// String formats the value the way reasons and tables print it.
func (n Num) String() string {
	if !n.Valid {
		return "-"
	}
	return strconv.FormatFloat(n.V, 'f', -1, 64)
}
