package analytics

import "math"

// amount coalesces a missing or malformed monetary value to 0.
func amount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func quantity(q int) int {
	if q < 0 {
		return 0
	}
	return q
}
