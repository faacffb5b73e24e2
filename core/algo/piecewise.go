// Package algo holds the small numeric and text helpers the scorers are built from.
package algo

import "math"

// Band assigns Score to any value accepted by Match.
type Band struct {
	Match func(float64) bool
	Score float64
}

// Piecewise returns the score of the first band matching v, or fallback when
// none does. Bands are checked in order, so overlapping bands resolve to the
// earliest one.
func Piecewise(v float64, fallback float64, bands ...Band) float64 {
	for _, b := range bands {
		if b.Match(v) {
			return b.Score
		}
	}
	return fallback
}

// Above matches values strictly greater than t.
func Above(t float64) func(float64) bool {
	return func(v float64) bool { return v > t }
}

// Below matches values strictly less than t.
func Below(t float64) func(float64) bool {
	return func(v float64) bool { return v < t }
}

// Within matches values in the closed interval [lo, hi].
func Within(lo, hi float64) func(float64) bool {
	return func(v float64) bool { return lo <= v && v <= hi }
}

// Equal matches exactly t.
func Equal(t float64) func(float64) bool {
	return func(v float64) bool { return v == t }
}

// Clamp bounds v to [lo, hi]. NaN clamps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// GrowthPct is the percent change from prior to current, with the
// denominator floored at 1 so empty teams do not divide by zero.
func GrowthPct(prior, current int) float64 {
	return float64(current-prior) / math.Max(float64(prior), 1) * 100
}
