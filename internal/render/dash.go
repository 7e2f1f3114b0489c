package render

import (
	"math"

	"geopipe/internal/core"

	"github.com/golang/geo/r2"
)

// rectRing returns the closed outline of r, clockwise from the top-left
// corner in screen space.
func rectRing(r core.Rect) []r2.Point {
	return []r2.Point{
		{X: r.X, Y: r.Y},
		{X: r.X1(), Y: r.Y},
		{X: r.X1(), Y: r.Y1()},
		{X: r.X, Y: r.Y1()},
		{X: r.X, Y: r.Y},
	}
}

// dashRing splits a closed polyline into the "on" runs of an even dash
// pattern with the given array length and offset, matching SVG
// stroke-dasharray/stroke-dashoffset with a single value.
func dashRing(ring []r2.Point, array, offset float64) [][]r2.Point {
	if len(ring) < 2 {
		return nil
	}
	if array <= 0 || math.IsNaN(array) || math.IsInf(array, 0) {
		return [][]r2.Point{ring}
	}
	cum := make([]float64, len(ring))
	for i := 1; i < len(ring); i++ {
		cum[i] = cum[i-1] + ring[i].Sub(ring[i-1]).Norm()
	}
	total := cum[len(cum)-1]
	period := 2 * array
	start := -math.Mod(offset, period)
	if start > 0 {
		start -= period
	}
	var out [][]r2.Point
	for s := start; s < total; s += period {
		a, b := math.Max(s, 0), math.Min(s+array, total)
		if b-a <= 1e-9 {
			continue
		}
		out = append(out, slice(ring, cum, a, b))
	}
	return out
}

// slice returns the part of ring between arc lengths a and b.
func slice(ring []r2.Point, cum []float64, a, b float64) []r2.Point {
	run := []r2.Point{pointAt(ring, cum, a)}
	for i := 1; i < len(ring)-1; i++ {
		if cum[i] > a && cum[i] < b {
			run = append(run, ring[i])
		}
	}
	return append(run, pointAt(ring, cum, b))
}

func pointAt(ring []r2.Point, cum []float64, s float64) r2.Point {
	for i := 1; i < len(ring); i++ {
		if s <= cum[i] || i == len(ring)-1 {
			seg := cum[i] - cum[i-1]
			if seg <= 0 {
				return ring[i]
			}
			u := core.Clamp01((s - cum[i-1]) / seg)
			return ring[i-1].Add(ring[i].Sub(ring[i-1]).Mul(u))
		}
	}
	return ring[len(ring)-1]
}
