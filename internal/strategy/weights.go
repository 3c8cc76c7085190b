package strategy

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Swing weight names.
const (
	WeightPchPositive           = "pch_positive"
	WeightPchNegative           = "pch_negative"
	WeightRelVolHigh            = "rel_vol_high"
	WeightRelVolMedium          = "rel_vol_medium"
	WeightRSIOversold           = "rsi_oversold"
	WeightRSIOverbought         = "rsi_overbought"
	WeightVolatilityHigh        = "volatility_high"
	WeightTrendBullish          = "trend_bullish"
	WeightTrendBearish          = "trend_bearish"
	WeightMomentumWeek          = "momentum_week"
	WeightMomentumMonth         = "momentum_month"
	WeightPivotNear             = "pivot_near"
	WeightPivotSupportBounce    = "pivot_support_bounce"
	WeightPivotResistanceReject = "pivot_resistance_reject"
	WeightMACDBullish           = "macd_bullish"
)

// ErrUnknownWeight is returned when an override names a weight the swing
// scorer does not have.
var ErrUnknownWeight = errors.New("unknown swing weight")

// Weights maps a rule name to the points it adds when it fires.
type Weights map[string]float64

// DefaultSwingWeights returns a fresh copy of the default swing weight table.
func DefaultSwingWeights() Weights {
	return Weights{
		WeightPchPositive:           2,
		WeightPchNegative:           1,
		WeightRelVolHigh:            2,
		WeightRelVolMedium:          1,
		WeightRSIOversold:           2,
		WeightRSIOverbought:         1,
		WeightVolatilityHigh:        1,
		WeightTrendBullish:          2,
		WeightTrendBearish:          -1,
		WeightMomentumWeek:          1,
		WeightMomentumMonth:         1,
		WeightPivotNear:             1,
		WeightPivotSupportBounce:    2,
		WeightPivotResistanceReject: -1,
		WeightMACDBullish:           1,
	}
}

// ValidateWeights checks that every override key names a known weight.
func ValidateWeights(overrides map[string]float64) error {
	defaults := DefaultSwingWeights()
	var unknown []string
	for k := range overrides {
		if _, ok := defaults[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("%w: %s", ErrUnknownWeight, strings.Join(unknown, ", "))
}

// MergeWeights applies overrides on top of the defaults. Keys the overrides
// leave out keep their default value.
func MergeWeights(overrides map[string]float64) (Weights, error) {
	if err := ValidateWeights(overrides); err != nil {
		return nil, err
	}
	w := DefaultSwingWeights()
	for k, v := range overrides {
		w[k] = v
	}
	return w, nil
}
