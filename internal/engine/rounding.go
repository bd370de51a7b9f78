package engine

import "math"

// RoundToIncrement rounds weight to the nearest multiple of increment,
// half-up. Every prescribed or compared weight goes through this so the
// plan, the log, and the plate calculator all agree on the same number.
func RoundToIncrement(weight, increment float64) float64 {
	if increment <= 0 {
		return weight
	}
	return math.Floor(weight/increment+0.5) * increment
}

// RoundDecimals rounds v half-up to n decimal places.
func RoundDecimals(v float64, n int) float64 {
	scale := math.Pow(10, float64(n))
	return math.Floor(v*scale+0.5) / scale
}
