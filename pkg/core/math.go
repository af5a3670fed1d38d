package core

import "math"

// Epsilon is the machine epsilon for float64, used as the threshold
// below which weights, pdfs and Jacobians are treated as degenerate.
const Epsilon = 2.220446049250313e-16

// SafeSqrt returns sqrt(max(a, 0)), guarding against small negative
// round-off inputs.
func SafeSqrt(a float64) float64 {
	return math.Sqrt(math.Max(a, 0))
}

// SafeAcos returns acos of a clamped to [-1, 1]
func SafeAcos(a float64) float64 {
	return math.Acos(math.Min(1, math.Max(-1, a)))
}

// Sign returns +1 or -1 matching the sign of a. Sign(0) is +1, so the
// result is never zero.
func Sign(a float64) float64 {
	return math.Copysign(1, a)
}

// Lerp linearly interpolates between a and b by t
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp restricts v to the range [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
