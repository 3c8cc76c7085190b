package model

import (
	"encoding/json"
	"time"
)

// Strategy names a screening strategy.
type Strategy string

const (
	StrategyDay         Strategy = "day"
	StrategySwing       Strategy = "swing"
	StrategyLongTerm    Strategy = "long"
	StrategyUndervalued Strategy = "undervalued"
	StrategyStrong      Strategy = "strong"
)

// AllStrategies lists the strategies in menu order.
var AllStrategies = []Strategy{StrategyDay, StrategySwing, StrategyLongTerm, StrategyUndervalued, StrategyStrong}

// Title is the heading used when presenting a strategy's results.
func (s Strategy) Title() string {
	switch s {
	case StrategyDay:
		return "Day Trading Recommendations"
	case StrategySwing:
		return "Swing Trading Recommendations"
	case StrategyLongTerm:
		return "Long Term Investing Recommendations"
	case StrategyUndervalued:
		return "Undervalued Stocks"
	case StrategyStrong:
		return "Fundamentally Strong Stocks"
	default:
		return "Unknown Selection"
	}
}

// Metric is one named strategy-specific output value.
type Metric struct {
	Name  string
	Value Num
}

// Candidate is one scored equity. It is built once by a scorer and not
// modified afterwards.
type Candidate struct {
	Symbol    string
	Name      string
	Strategy  Strategy
	Price     float64
	Score     float64
	NearLevel string
	Reasons   []string
	Metrics   []Metric
}

// Metric returns the named metric, absent if the strategy does not report it.
func (c Candidate) Metric(name string) Num {
	for _, m := range c.Metrics {
		if m.Name == name {
			return m.Value
		}
	}
	return Num{}
}

// MarshalJSON flattens metrics next to the common fields.
func (c Candidate) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Metrics)+7)
	for _, m := range c.Metrics {
		out[m.Name] = m.Value
	}
	out["symbol"] = c.Symbol
	out["name"] = c.Name
	out["strategy"] = c.Strategy
	out["price"] = c.Price
	out["score"] = c.Score
	if c.NearLevel != "" {
		out["near_level"] = c.NearLevel
	} else {
		out["near_level"] = nil
	}
	reasons := c.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	out["reasons"] = reasons
	return json.Marshal(out)
}

// Run is the outcome of screening one universe with one strategy.
type Run struct {
	ID           string
	Strategy     Strategy
	Live         bool
	StartedAt    time.Time
	Duration     time.Duration
	UniverseSize int
	Candidates   []Candidate
}

// Top returns the first n ranked candidates, or all of them when n <= 0.
func (r *Run) Top(n int) []Candidate {
	if n <= 0 || n >= len(r.Candidates) {
		return r.Candidates
	}
	return r.Candidates[:n]
}
