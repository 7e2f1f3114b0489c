// Package palette holds the color ramps and stroke colors of the pipeline
// scene.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"geopipe/internal/core"
)

// ErrInvalidRamp is returned when ramp stops violate ordering or coverage.
var ErrInvalidRamp = errors.New("palette: invalid ramp")

// Stop is a single ramp control point.
type Stop struct {
	T float64
	C color.RGBA
}

// Ramp is a piecewise-linear color function over [0, 1].
type Ramp struct {
	stops []Stop
}

// NewRamp validates the stops and returns a ramp. Positions must start at 0,
// end at 1 and increase strictly.
func NewRamp(stops []Stop) (*Ramp, error) {
	if len(stops) < 2 {
		return nil, fmt.Errorf("%w: need at least two stops, got %d", ErrInvalidRamp, len(stops))
	}
	if stops[0].T != 0 || stops[len(stops)-1].T != 1 {
		return nil, fmt.Errorf("%w: stops must span [0,1]", ErrInvalidRamp)
	}
	for i := 1; i < len(stops); i++ {
		if stops[i].T <= stops[i-1].T {
			return nil, fmt.Errorf("%w: stop %d at %.3f does not follow %.3f", ErrInvalidRamp, i, stops[i].T, stops[i-1].T)
		}
	}
	return &Ramp{stops: append([]Stop(nil), stops...)}, nil
}

// MustRamp is NewRamp for package-level tables.
func MustRamp(stops []Stop) *Ramp {
	r, err := NewRamp(stops)
	if err != nil {
		panic(err)
	}
	return r
}

// Closed reports whether the first and last stop share a color.
func (r *Ramp) Closed() bool { return r.stops[0].C == r.stops[len(r.stops)-1].C }

// At evaluates the ramp at t, clamped to [0, 1].
func (r *Ramp) At(t float64) color.RGBA {
	t = core.Clamp01(t)
	a, b := r.stops[0], r.stops[len(r.stops)-1]
	for i := 0; i < len(r.stops)-1; i++ {
		if t >= r.stops[i].T && t <= r.stops[i+1].T {
			a, b = r.stops[i], r.stops[i+1]
			break
		}
	}
	u := (t - a.T) / math.Max(1e-9, b.T-a.T)
	return color.RGBA{
		R: lerpChannel(a.C.R, b.C.R, u),
		G: lerpChannel(a.C.G, b.C.G, u),
		B: lerpChannel(a.C.B, b.C.B, u),
		A: 255,
	}
}

func lerpChannel(a, b uint8, u float64) uint8 {
	return uint8(math.Round(core.Clamp(core.Lerp(float64(a), float64(b), u), 0, 255)))
}

// Terrain is the warm cream-to-brown ramp for the basemap raster. It closes on
// its starting color so values wrap at 0/1.
var Terrain = MustRamp([]Stop{
	{T: 0.0, C: rgb(235, 230, 218)},
	{T: 0.18, C: rgb(218, 205, 182)},
	{T: 0.38, C: rgb(195, 172, 142)},
	{T: 0.58, C: rgb(168, 142, 112)},
	{T: 0.78, C: rgb(148, 120, 92)},
	{T: 1.0, C: rgb(235, 230, 218)},
})

// Heat runs from deep slate through teal to coral.
var Heat = MustRamp([]Stop{
	{T: 0.0, C: rgb(32, 45, 55)},
	{T: 0.15, C: rgb(40, 62, 72)},
	{T: 0.28, C: rgb(58, 98, 102)},
	{T: 0.40, C: rgb(78, 135, 125)},
	{T: 0.52, C: rgb(115, 162, 148)},
	{T: 0.62, C: rgb(158, 178, 162)},
	{T: 0.72, C: rgb(195, 175, 152)},
	{T: 0.82, C: rgb(208, 148, 105)},
	{T: 0.90, C: rgb(198, 105, 62)},
	{T: 0.96, C: rgb(212, 118, 72)},
	{T: 1.0, C: rgb(225, 155, 115)},
})

const (
	heatSteepness = 8.0
	heatMidpoint  = 0.62
)

// HeatRemap compresses raw field values into a narrow hot band with a
// logistic curve before the heat ramp is applied.
func HeatRemap(v float64) float64 {
	z := core.Logistic(v, heatSteepness, heatMidpoint)
	return core.Clamp01(0.02 + 0.98*z)
}

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 255} }
