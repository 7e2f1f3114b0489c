package geo

import (
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
	geojson "github.com/paulmach/go.geojson"
)

const graticuleSampleDeg = 2.5

// Graticule10 returns meridians and parallels every 10 degrees as lon/lat
// polylines. Minor meridians stop at ±80°, those on multiples of 90° reach
// the poles.
func Graticule10() [][][]float64 {
	var lines [][][]float64
	for lon := -180.0; lon <= 180; lon += 10 {
		extent := 80.0
		if math.Mod(lon, 90) == 0 {
			extent = 90
		}
		var line [][]float64
		for lat := -extent; lat <= extent+1e-9; lat += graticuleSampleDeg {
			line = append(line, []float64{lon, lat})
		}
		lines = append(lines, line)
	}
	for lat := -80.0; lat <= 80; lat += 10 {
		var line [][]float64
		for lon := -180.0; lon <= 180+1e-9; lon += graticuleSampleDeg {
			line = append(line, []float64{lon, lat})
		}
		lines = append(lines, line)
	}
	return lines
}

// Outlines collects every ring and line string of the geometries as lon/lat
// polylines.
func Outlines(geoms ...*geojson.Geometry) [][][]float64 {
	var out [][][]float64
	for _, g := range geoms {
		if g == nil {
			continue
		}
		switch {
		case g.IsLineString():
			out = append(out, g.LineString)
		case g.IsMultiLineString():
			out = append(out, g.MultiLineString...)
		case g.IsPolygon():
			out = append(out, g.Polygon...)
		case g.IsMultiPolygon():
			for _, poly := range g.MultiPolygon {
				out = append(out, poly...)
			}
		case g.IsCollection():
			out = append(out, Outlines(g.Geometries...)...)
		}
	}
	return out
}

// ProjectLines projects lon/lat polylines onto the canvas. A line is split
// where consecutive points jump across more than half the projected width,
// which only happens when a segment wraps the antimeridian.
func ProjectLines(p *Projection, lines [][][]float64) [][]r2.Point {
	x0, _, x1, _ := sphereBounds()
	maxJump := (x1 - x0) * p.k / 2
	var out [][]r2.Point
	for _, line := range lines {
		var cur []r2.Point
		for _, c := range line {
			if len(c) < 2 {
				continue
			}
			pt := p.Project(c[0], c[1])
			if n := len(cur); n > 0 && math.Abs(pt.X-cur[n-1].X) > maxJump {
				if n > 1 {
					out = append(out, cur)
				}
				cur = nil
			}
			cur = append(cur, pt)
		}
		if len(cur) > 1 {
			out = append(out, cur)
		}
	}
	return out
}

// ProjectRings projects closed lon/lat rings without splitting them, so
// edges that run along the antimeridian close across the pole line.
func ProjectRings(p *Projection, rings [][][]float64) [][]r2.Point {
	var out [][]r2.Point
	for _, ring := range rings {
		pts := make([]r2.Point, 0, len(ring))
		for _, c := range ring {
			if len(c) >= 2 {
				pts = append(pts, p.Project(c[0], c[1]))
			}
		}
		if len(pts) > 2 {
			out = append(out, pts)
		}
	}
	return out
}

// PathData formats polylines as SVG path data with two-decimal coordinates.
// When closed is set every subpath ends with Z.
func PathData(lines [][]r2.Point, closed bool) string {
	var b strings.Builder
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		for i, pt := range line {
			if i == 0 {
				b.WriteString("M ")
			} else {
				b.WriteString(" L ")
			}
			b.WriteString(strconv.FormatFloat(pt.X, 'f', 2, 64))
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(pt.Y, 'f', 2, 64))
		}
		if closed {
			b.WriteString(" Z")
		}
	}
	return b.String()
}
