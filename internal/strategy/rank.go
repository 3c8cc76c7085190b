package strategy

import (
	"math"
	"sort"

	"EquityScreener/internal/model"
)

// Key extracts one sort value from a candidate. Larger values rank first.
type Key func(c model.Candidate) float64

// ScoreKey ranks by score.
func ScoreKey(c model.Candidate) float64 { return c.Score }

// PriceKey ranks by reference price.
func PriceKey(c model.Candidate) float64 { return c.Price }

// MetricKey ranks by a named metric. Absent metrics compare as 0.
func MetricKey(name string) Key {
	return func(c model.Candidate) float64 {
		return c.Metric(name).Or(0)
	}
}

// NegatedMetricKey ranks ascending on a named metric. Absent metrics rank last.
func NegatedMetricKey(name string) Key {
	return func(c model.Candidate) float64 {
		v, ok := c.Metric(name).Get()
		if !ok {
			return -math.MaxFloat64
		}
		return -v
	}
}

// RankKeys returns the tie-break tuple for a strategy.
func RankKeys(kind model.Strategy) []Key {
	switch kind {
	case model.StrategyDay:
		return []Key{ScoreKey, MetricKey(MetricRelVol)}
	case model.StrategySwing:
		return []Key{ScoreKey, PriceKey, MetricKey(MetricPrice3Month), MetricKey(MetricPch)}
	case model.StrategyLongTerm, model.StrategyStrong:
		return []Key{ScoreKey, MetricKey(MetricROE), MetricKey(MetricEPS)}
	case model.StrategyUndervalued:
		return []Key{ScoreKey, NegatedMetricKey(MetricPERatio)}
	default:
		return []Key{ScoreKey}
	}
}

// Rank sorts candidates in place, descending and lexicographic over keys.
// Candidates equal on every key keep their input order.
func Rank(cands []model.Candidate, keys ...Key) {
	if len(keys) == 0 {
		keys = []Key{ScoreKey}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		for _, k := range keys {
			a, b := k(cands[i]), k(cands[j])
			if a != b {
				return a > b
			}
		}
		return false
	})
}
