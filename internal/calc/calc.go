// Package calc holds the pure numeric routines behind the valuation
// chapter: comparable-set statistics, equivalent-area computation and the
// conservative currency rounding used for the published value.
package calc

import (
	"math"
	"sort"
)

// DefaultBalconyCoefficient is the default fractional credit a balcony
// contributes to equivalent area. It is a business constant surfaced
// through configuration; callers pass the effective coefficient in.
const DefaultBalconyCoefficient = 0.5

// DefaultRoundingStep is the default granularity of the published value.
const DefaultRoundingStep = 1000

// Stats is a point-in-time aggregate of a comparable price set.
type Stats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Comparables aggregates a user-selected list of price-per-area values.
// The result is order independent. An empty input is "not computable",
// reported as ok=false rather than a panic, so the document can degrade
// to a placeholder.
func Comparables(values []float64) (Stats, bool) {
	if len(values) == 0 {
		return Stats{}, false
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	var sqDiff float64
	for _, v := range sorted {
		d := v - mean
		sqDiff += d * d
	}
	stdDev := 0.0
	if len(sorted) > 1 {
		stdDev = math.Sqrt(sqDiff / float64(len(sorted)-1))
	}

	return Stats{
		Count:  len(sorted),
		Mean:   mean,
		Median: median(sorted),
		StdDev: stdDev,
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}, true
}

// median expects a sorted slice: the middle value, or the average of the
// two middle values when the count is even.
func median(sorted []float64) float64 {
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// EquivalentArea credits balcony area at the given coefficient on top of
// the built area. The coefficient is always an explicit input; its default
// lives in configuration, not here.
func EquivalentArea(builtArea, balconyArea, balconyCoef float64) float64 {
	return builtArea + balconyArea*balconyCoef
}

// AssetValue prices the equivalent area. A non-positive area is not
// computable.
func AssetValue(equivArea, pricePerSqmEquivalent float64) (float64, bool) {
	if equivArea <= 0 {
		return 0, false
	}
	return equivArea * pricePerSqmEquivalent, true
}

// RoundUpTo rounds a value upward to the next multiple of step, leaving
// exact multiples unchanged. The upward direction is a deliberate
// conservative-disclosure rule; never replace it with round-half-up.
func RoundUpTo(value float64, step int64) int64 {
	if step <= 0 {
		step = DefaultRoundingStep
	}
	n := int64(math.Ceil(value))
	rem := n % step
	if rem == 0 {
		return n
	}
	if n < 0 {
		return n - rem
	}
	return n + step - rem
}
