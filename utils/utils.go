package utils

import "math"

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ClipNonNegative returns v, or zero when v is negative.
func ClipNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 {
	return &v
}
