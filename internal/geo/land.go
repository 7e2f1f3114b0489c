package geo

import (
	"github.com/golang/geo/s2"
	geojson "github.com/paulmach/go.geojson"
)

// Land answers spherical point-in-polygon queries against land polygons.
// Edges are great-circle arcs, matching how the basemap was authored.
type Land struct {
	polys []landPolygon
}

type landPolygon struct {
	shell *s2.Loop
	holes []*s2.Loop
	bound s2.Rect
}

// NewLand builds a land mask from Polygon, MultiPolygon and
// GeometryCollection geometries. Other geometry types and degenerate rings
// are skipped, so malformed input degrades to a smaller (possibly empty) mask.
func NewLand(geoms ...*geojson.Geometry) *Land {
	l := &Land{}
	for _, g := range geoms {
		l.add(g)
	}
	return l
}

func (l *Land) add(g *geojson.Geometry) {
	if g == nil {
		return
	}
	switch {
	case g.IsPolygon():
		l.addPolygon(g.Polygon)
	case g.IsMultiPolygon():
		for _, poly := range g.MultiPolygon {
			l.addPolygon(poly)
		}
	case g.IsCollection():
		for _, child := range g.Geometries {
			l.add(child)
		}
	}
}

func (l *Land) addPolygon(rings [][][]float64) {
	if len(rings) == 0 {
		return
	}
	shell := loopFromRing(rings[0])
	if shell == nil {
		return
	}
	p := landPolygon{shell: shell, bound: shell.RectBound()}
	for _, ring := range rings[1:] {
		if hole := loopFromRing(ring); hole != nil {
			p.holes = append(p.holes, hole)
		}
	}
	l.polys = append(l.polys, p)
}

// loopFromRing converts a [lon, lat] ring into a normalized s2 loop. Winding
// order in the source data is ignored: the loop always encloses the smaller
// of the two regions it bounds.
func loopFromRing(ring [][]float64) *s2.Loop {
	pts := make([]s2.Point, 0, len(ring))
	for _, c := range ring {
		if len(c) < 2 {
			continue
		}
		p := s2.PointFromLatLng(s2.LatLngFromDegrees(c[1], c[0]))
		if n := len(pts); n > 0 && pts[n-1] == p {
			continue
		}
		pts = append(pts, p)
	}
	if n := len(pts); n > 1 && pts[0] == pts[n-1] {
		pts = pts[:n-1]
	}
	if len(pts) < 3 {
		return nil
	}
	loop := s2.LoopFromPoints(pts)
	loop.Normalize()
	return loop
}

// Empty reports whether no usable polygon was loaded.
func (l *Land) Empty() bool { return l == nil || len(l.polys) == 0 }

// Len returns the number of polygons in the mask.
func (l *Land) Len() int {
	if l == nil {
		return 0
	}
	return len(l.polys)
}

// Contains reports whether lon/lat (degrees) lies on land.
func (l *Land) Contains(lon, lat float64) bool {
	if l.Empty() {
		return false
	}
	ll := s2.LatLngFromDegrees(lat, lon)
	pt := s2.PointFromLatLng(ll)
	for _, p := range l.polys {
		if !p.bound.ContainsLatLng(ll) {
			continue
		}
		if !p.shell.ContainsPoint(pt) {
			continue
		}
		inHole := false
		for _, h := range p.holes {
			if h.ContainsPoint(pt) {
				inHole = true
				break
			}
		}
		if !inHole {
			return true
		}
	}
	return false
}
