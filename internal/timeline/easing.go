package timeline

import (
	"math"

	"geopipe/internal/core"
)

func clamp01(x float64) float64 { return core.Clamp01(x) }

// Smootherstep is the quintic ease-in-out, clamped to [0,1].
func Smootherstep(x float64) float64 {
	x = clamp01(x)
	return x * x * x * (x*(x*6-15) + 10)
}

// EaseOutCubic decelerates into 1.
func EaseOutCubic(x float64) float64 {
	x = clamp01(x)
	u := 1 - x
	return 1 - u*u*u
}

// EaseOutExpo snaps in fast and reaches exactly 1 at x=1.
func EaseOutExpo(x float64) float64 {
	x = clamp01(x)
	if x == 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*x)
}

// Window returns stage-offset clamped to [0,1].
func Window(stage, offset float64) float64 { return clamp01(stage - offset) }

// Stagger is the per-cell logistic fade: cells with a larger delay turn on
// later as in sweeps from 0 to 1.
func Stagger(in, delay, k float64) float64 {
	return clamp01(core.Logistic(in, k, delay))
}
