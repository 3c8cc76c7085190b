package strategy

import (
	"errors"
	"fmt"
	"strings"

	"EquityScreener/internal/model"
)

// ErrUnknownStrategy is returned for a strategy name no scorer handles.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Options are the per-call scoring inputs.
type Options struct {
	// Live reads the current session close instead of the prior close.
	Live bool
	// SwingWeights overrides individual swing weights.
	SwingWeights map[string]float64
}

// ScoreFunc scores a universe. Output order is by symbol, before ranking.
type ScoreFunc func(u model.Universe, opts Options) ([]model.Candidate, error)

var scorers = map[model.Strategy]ScoreFunc{
	model.StrategyDay:         ScoreDayTrade,
	model.StrategySwing:       ScoreSwingTrade,
	model.StrategyLongTerm:    ScoreLongTerm,
	model.StrategyUndervalued: ScoreUndervalued,
	model.StrategyStrong:      ScoreFundamentallyStrong,
}

// Scorer returns the scoring function for a strategy.
func Scorer(kind model.Strategy) (ScoreFunc, error) {
	fn, ok := scorers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, kind)
	}
	return fn, nil
}

// ParseStrategy resolves a strategy name or one of its aliases.
func ParseStrategy(name string) (model.Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "day", "day_trade", "daytrade":
		return model.StrategyDay, nil
	case "swing", "swing_trade":
		return model.StrategySwing, nil
	case "long", "long_term", "longterm":
		return model.StrategyLongTerm, nil
	case "undervalued", "value":
		return model.StrategyUndervalued, nil
	case "strong", "fundamental", "fundamentally_strong":
		return model.StrategyStrong, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Screen scores the universe with one strategy and ranks the result.
func Screen(kind model.Strategy, u model.Universe, opts Options) ([]model.Candidate, error) {
	fn, err := Scorer(kind)
	if err != nil {
		return nil, err
	}
	cands, err := fn(u, opts)
	if err != nil {
		return nil, fmt.Errorf("score %s: %w", kind, err)
	}
	Rank(cands, RankKeys(kind)...)
	return cands, nil
}
