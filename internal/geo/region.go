package geo

import (
	"math"

	"geopipe/internal/core"
)

// BBox is a lon/lat bounding box in degrees with Lon0 < Lon1 and Lat0 < Lat1.
type BBox struct {
	Lon0, Lat0, Lon1, Lat1 float64
}

// Center returns the box midpoint.
func (b BBox) Center() (lon, lat float64) {
	return (b.Lon0 + b.Lon1) / 2, (b.Lat0 + b.Lat1) / 2
}

// Valid reports whether the box satisfies its ordering invariant.
func (b BBox) Valid() bool { return b.Lon0 < b.Lon1 && b.Lat0 < b.Lat1 }

// Search configures the land-dense region-of-interest scan.
type Search struct {
	Window    BBox
	WidthDeg  float64
	HeightDeg float64
	StepDeg   float64
	SamplesX  int
	SamplesY  int
	PreferLon float64
	PreferLat float64
	LonBias   float64
	LatBias   float64
	BiasFloor float64
	Fallback  BBox
}

// DefaultSearch scans the North American interior.
func DefaultSearch() Search {
	return Search{
		Window:    BBox{Lon0: -126, Lat0: 24, Lon1: -93, Lat1: 50},
		WidthDeg:  30,
		HeightDeg: 18,
		StepDeg:   2,
		SamplesX:  11,
		SamplesY:  7,
		PreferLon: -110,
		PreferLat: 38,
		LonBias:   0.0025,
		LatBias:   0.006,
		BiasFloor: 0.6,
		Fallback:  BBox{Lon0: -125, Lat0: 28, Lon1: -95, Lat1: 46},
	}
}

// LandDensity returns the fraction of an sx×sy sample lattice inside the box
// that falls on land.
func LandDensity(land *Land, b BBox, sx, sy int) float64 {
	sx, sy = max(1, sx), max(1, sy)
	on, total := 0, 0
	for iy := 0; iy < sy; iy++ {
		lat := b.Lat0 + (b.Lat1-b.Lat0)*(float64(iy)+0.5)/float64(sy)
		for ix := 0; ix < sx; ix++ {
			lon := b.Lon0 + (b.Lon1-b.Lon0)*(float64(ix)+0.5)/float64(sx)
			total++
			if land.Contains(lon, lat) {
				on++
			}
		}
	}
	return float64(on) / float64(max(1, total))
}

// PickLandDenseBBox scans candidate boxes (longitude outer loop, latitude
// inner) and keeps the first box with the highest biased land score. It
// returns s.Fallback when the land mask is empty or no box touches land.
func PickLandDenseBBox(land *Land, s Search) BBox {
	if land.Empty() || s.StepDeg <= 0 {
		return s.Fallback
	}
	best := s.Fallback
	bestScore := 0.0
	found := false
	for lon := s.Window.Lon0; lon <= s.Window.Lon1-s.WidthDeg; lon += s.StepDeg {
		for lat := s.Window.Lat0; lat <= s.Window.Lat1-s.HeightDeg; lat += s.StepDeg {
			b := BBox{Lon0: lon, Lat0: lat, Lon1: lon + s.WidthDeg, Lat1: lat + s.HeightDeg}
			score := LandDensity(land, b, s.SamplesX, s.SamplesY) * s.centerBias(b)
			if !found || score > bestScore {
				best, bestScore, found = b, score, true
			}
		}
	}
	if !found || bestScore <= 0 {
		return s.Fallback
	}
	return best
}

func (s Search) centerBias(b BBox) float64 {
	cx, cy := b.Center()
	bias := 1 - s.LonBias*math.Abs(cx-s.PreferLon) - s.LatBias*math.Abs(cy-s.PreferLat)
	return math.Max(s.BiasFloor, bias)
}

// ProjectedRect returns the canvas rectangle spanned by the projected corners
// of b.
func ProjectedRect(b BBox, p *Projection) core.Rect {
	corners := [4][2]float64{{b.Lon0, b.Lat0}, {b.Lon1, b.Lat0}, {b.Lon1, b.Lat1}, {b.Lon0, b.Lat1}}
	x0, y0 := math.Inf(1), math.Inf(1)
	x1, y1 := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		pt := p.Project(c[0], c[1])
		x0, x1 = math.Min(x0, pt.X), math.Max(x1, pt.X)
		y0, y1 = math.Min(y0, pt.Y), math.Max(y1, pt.Y)
	}
	return core.RectFromBounds(x0, y0, x1, y1)
}

// Transform is a uniform scale followed by a translation:
// (x, y) -> (S*x + TX, S*y + TY).
type Transform struct {
	S, TX, TY float64
}

// Identity is the transform that leaves points unchanged.
var Identity = Transform{S: 1}

// Apply maps a point through the transform.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t.S*x + t.TX, t.S*y + t.TY
}

// LerpTransform interpolates each component from a to b.
func LerpTransform(a, b Transform, u float64) Transform {
	return Transform{S: core.Lerp(a.S, b.S, u), TX: core.Lerp(a.TX, b.TX, u), TY: core.Lerp(a.TY, b.TY, u)}
}

// FitRectToFrame returns the transform that scales src uniformly to fit
// inside frame (less pad on each side) and centers it there.
func FitRectToFrame(src, frame core.Rect, pad float64) Transform {
	inner := frame.Inset(pad)
	sx, sy := 1.0, 1.0
	if src.W > 0 {
		sx = inner.W / src.W
	}
	if src.H > 0 {
		sy = inner.H / src.H
	}
	s := math.Min(sx, sy)
	srcCX, srcCY := src.Center()
	frameCX, frameCY := frame.Center()
	return Transform{S: s, TX: frameCX - s*srcCX, TY: frameCY - s*srcCY}
}
