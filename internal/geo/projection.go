// Package geo projects geographic coordinates onto the canvas and answers
// land-containment questions against the basemap.
package geo

import (
	"math"

	"geopipe/internal/core"

	"github.com/golang/geo/r2"
)

const (
	degrees = 180 / math.Pi
	radians = math.Pi / 180

	invertEpsilon    = 1e-9
	invertIterations = 25
	// sphereSlack tolerates round-off at the outline when inverting.
	sphereSlack = 1e-6
)

// Projection is the Natural Earth I pseudocylindrical projection scaled and
// translated onto the canvas. Screen y grows downward.
type Projection struct {
	k      float64
	tx, ty float64
}

// NewProjection returns a projection whose sphere outline is fitted inside
// extent, centered, preserving aspect ratio.
func NewProjection(extent core.Rect) *Projection {
	p := &Projection{}
	p.Fit(extent)
	return p
}

// Fit rescales the projection so the whole sphere fits extent.
func (p *Projection) Fit(extent core.Rect) {
	x0, y0, x1, y1 := sphereBounds()
	p.FitBounds(extent, x0, y0, x1, y1)
}

// FitBounds fits raw projected bounds (y up) into extent.
func (p *Projection) FitBounds(extent core.Rect, x0, y0, x1, y1 float64) {
	w, h := x1-x0, y1-y0
	k := math.Min(extent.W/w, extent.H/h)
	p.k = k
	cx, cy := extent.Center()
	p.tx = cx - k*(x0+x1)/2
	p.ty = cy + k*(y0+y1)/2
}

// Project maps lon/lat degrees to canvas coordinates.
func (p *Projection) Project(lon, lat float64) r2.Point {
	x, y := naturalEarth(lon*radians, lat*radians)
	return r2.Point{X: p.tx + p.k*x, Y: p.ty - p.k*y}
}

// Invert maps a canvas point back to lon/lat degrees. ok is false when the
// point lies outside the projected sphere.
func (p *Projection) Invert(pt r2.Point) (lon, lat float64, ok bool) {
	if p.k == 0 {
		return 0, 0, false
	}
	x := (pt.X - p.tx) / p.k
	y := (p.ty - pt.Y) / p.k
	lambda, phi := naturalEarthInvert(x, y)
	if math.IsNaN(lambda) || math.IsNaN(phi) {
		return 0, 0, false
	}
	if math.Abs(phi) > math.Pi/2+sphereSlack || math.Abs(lambda) > math.Pi+sphereSlack {
		return 0, 0, false
	}
	return lambda * degrees, phi * degrees, true
}

func naturalEarth(lambda, phi float64) (float64, float64) {
	phi2 := phi * phi
	phi4 := phi2 * phi2
	x := lambda * (0.8707 - 0.131979*phi2 + phi4*(-0.013791+phi4*(0.003971*phi2-0.001529*phi4)))
	y := phi * (1.007226 + phi2*(0.015085+phi4*(-0.044475+0.028874*phi2-0.005916*phi4)))
	return x, y
}

// naturalEarthInvert solves y for phi with Newton iteration, then divides out
// the longitude scale.
func naturalEarthInvert(x, y float64) (float64, float64) {
	phi := y
	for i := 0; i < invertIterations; i++ {
		phi2 := phi * phi
		phi4 := phi2 * phi2
		f := phi*(1.007226+phi2*(0.015085+phi4*(-0.044475+0.028874*phi2-0.005916*phi4))) - y
		df := 1.007226 + phi2*(0.015085*3+phi4*(-0.044475*7+0.028874*9*phi2-0.005916*11*phi4))
		delta := f / df
		phi -= delta
		if math.Abs(delta) <= invertEpsilon {
			break
		}
	}
	phi2 := phi * phi
	lambda := x / (0.8707 + phi2*(-0.131979+phi2*(-0.013791+phi2*phi2*phi2*(0.003971-0.001529*phi2))))
	return lambda, phi
}

// sphereBounds returns the raw projected extent of the whole sphere (y up).
func sphereBounds() (x0, y0, x1, y1 float64) {
	// Width is widest on the equator, height is set by the poles.
	xMax, _ := naturalEarth(math.Pi, 0)
	_, yMax := naturalEarth(0, math.Pi/2)
	return -xMax, -yMax, xMax, yMax
}
