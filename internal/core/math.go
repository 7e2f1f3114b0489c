package core

import "math"

// Clamp saturates v into [lo, hi]. NaN collapses to lo.
func Clamp(v, lo, hi float64) float64 {
	if v >= lo && v <= hi {
		return v
	}
	if v > hi {
		return hi
	}
	return lo
}

// Clamp01 saturates v into [0, 1].
func Clamp01(v float64) float64 { return Clamp(v, 0, 1) }

// Lerp interpolates between a and b. Written as a+(b-a)*t so equal
// endpoints reproduce exactly.
func Lerp(a, b, t float64) float64 { return a + (b-a)*t }

// Smoothstep is the cubic Hermite fade t²(3-2t) on an already-clamped t.
func Smoothstep(t float64) float64 { return t * t * (3 - 2*t) }

// Logistic is 1/(1+e^(-k(x-mid))).
func Logistic(x, k, mid float64) float64 {
	return 1 / (1 + math.Exp(-(x-mid)*k))
}
