package geo

import (
	"math"
	"strings"
	"testing"

	"geopipe/internal/core"

	"github.com/golang/geo/r2"
	geojson "github.com/paulmach/go.geojson"
)

var testFrame = core.Rect{X: 80, Y: 70, W: 1440, H: 760}

func square(lon0, lat0, lon1, lat1 float64) [][]float64 {
	return [][]float64{{lon0, lat0}, {lon1, lat0}, {lon1, lat1}, {lon0, lat1}, {lon0, lat0}}
}

func reversed(ring [][]float64) [][]float64 {
	out := make([][]float64, len(ring))
	for i := range ring {
		out[i] = ring[len(ring)-1-i]
	}
	return out
}

func TestProjectInvertRoundTrip(t *testing.T) {
	p := NewProjection(testFrame)
	for lon := -170.0; lon <= 170; lon += 20 {
		for lat := -80.0; lat <= 80; lat += 16 {
			pt := p.Project(lon, lat)
			gotLon, gotLat, ok := p.Invert(pt)
			if !ok {
				t.Fatalf("Invert(Project(%f,%f)) reported off-sphere", lon, lat)
			}
			if math.Abs(gotLon-lon) > 1e-6 || math.Abs(gotLat-lat) > 1e-6 {
				t.Fatalf("round trip (%f,%f) -> (%f,%f)", lon, lat, gotLon, gotLat)
			}
		}
	}
}

func TestProjectionFitsFrame(t *testing.T) {
	p := NewProjection(testFrame)
	left := p.Project(-180, 0)
	right := p.Project(180, 0)
	top := p.Project(0, 90)
	bottom := p.Project(0, -90)
	const eps = 1e-6
	if left.X < testFrame.X-eps || right.X > testFrame.X1()+eps {
		t.Fatalf("horizontal extent [%f,%f] escapes frame", left.X, right.X)
	}
	if top.Y < testFrame.Y-eps || bottom.Y > testFrame.Y1()+eps {
		t.Fatalf("vertical extent [%f,%f] escapes frame", top.Y, bottom.Y)
	}
	touchesX := math.Abs(left.X-testFrame.X) < 1e-6
	touchesY := math.Abs(top.Y-testFrame.Y) < 1e-6
	if !touchesX && !touchesY {
		t.Fatal("fitted sphere should touch at least one pair of frame edges")
	}
	cx, cy := testFrame.Center()
	if c := p.Project(0, 0); math.Abs(c.X-cx) > 1e-6 || math.Abs(c.Y-cy) > 1e-6 {
		t.Fatalf("origin projects to %v, want frame center (%f,%f)", c, cx, cy)
	}
}

func TestInvertOutsideSphere(t *testing.T) {
	p := NewProjection(testFrame)
	for _, pt := range []r2.Point{{X: 0, Y: 0}, {X: 1600, Y: 900}, {X: 82, Y: 72}, {X: 800, Y: 10}} {
		if _, _, ok := p.Invert(pt); ok {
			t.Fatalf("point %v should be off-sphere", pt)
		}
	}
	if _, _, ok := p.Invert(r2.Point{X: 800, Y: 450}); !ok {
		t.Fatal("frame center should be on the sphere")
	}
}

func TestLandContainsIgnoresWinding(t *testing.T) {
	for _, ring := range [][][]float64{square(0, 0, 4, 4), reversed(square(0, 0, 4, 4))} {
		land := NewLand(geojson.NewPolygonGeometry([][][]float64{ring}))
		if land.Empty() {
			t.Fatal("land should hold one polygon")
		}
		if !land.Contains(2, 2) {
			t.Fatal("center of square should be land")
		}
		if land.Contains(6, 2) || land.Contains(-170, -40) {
			t.Fatal("points outside the square should not be land")
		}
	}
}

func TestLandHoles(t *testing.T) {
	poly := [][][]float64{square(0, 0, 10, 10), square(4, 4, 6, 6)}
	land := NewLand(geojson.NewMultiPolygonGeometry(poly))
	if land.Contains(5, 5) {
		t.Fatal("point inside the hole should not be land")
	}
	if !land.Contains(2, 2) {
		t.Fatal("point inside the shell should be land")
	}
}

func TestEmptyLandNeverContains(t *testing.T) {
	land := NewLand(nil, geojson.NewPointGeometry([]float64{1, 1}), geojson.NewPolygonGeometry(nil))
	if !land.Empty() {
		t.Fatal("expected empty land mask")
	}
	if land.Contains(1, 1) {
		t.Fatal("empty land contains nothing")
	}
	if got := PickLandDenseBBox(land, DefaultSearch()); got != DefaultSearch().Fallback {
		t.Fatalf("empty land should fall back, got %+v", got)
	}
}

func TestPickLandDenseBBoxStableAndTieBreaksFirst(t *testing.T) {
	land := NewLand(geojson.NewPolygonGeometry([][][]float64{square(-130, 20, -90, 55)}))
	s := DefaultSearch()
	first := PickLandDenseBBox(land, s)
	for i := 0; i < 3; i++ {
		if again := PickLandDenseBBox(land, s); again != first {
			t.Fatalf("run %d picked %+v, first run %+v", i, again, first)
		}
	}
	want := BBox{Lon0: -126, Lat0: 28, Lon1: -96, Lat1: 46}
	if first != want {
		t.Fatalf("picked %+v, want %+v", first, want)
	}
	if !first.Valid() {
		t.Fatal("picked box must be ordered")
	}
}

func TestPickLandDenseBBoxNoOverlapFallsBack(t *testing.T) {
	land := NewLand(geojson.NewPolygonGeometry([][][]float64{square(100, -10, 110, 0)}))
	if got := PickLandDenseBBox(land, DefaultSearch()); got != DefaultSearch().Fallback {
		t.Fatalf("expected fallback, got %+v", got)
	}
}

func TestLandDensityFraction(t *testing.T) {
	land := NewLand(geojson.NewPolygonGeometry([][][]float64{square(0, -20, 20, 20)}))
	got := LandDensity(land, BBox{Lon0: -10, Lat0: -5, Lon1: 10, Lat1: 5}, 10, 4)
	if math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("half the lattice is on land, got density %f", got)
	}
}

func TestFitRectToFrameCentersAndPreservesAspect(t *testing.T) {
	src := core.Rect{X: 300, Y: 200, W: 200, H: 100}
	frame := core.Rect{X: 0, Y: 0, W: 1000, H: 1000}
	fit := FitRectToFrame(src, frame, 50)
	if math.Abs(fit.S-4.5) > 1e-9 {
		t.Fatalf("scale = %f, want 4.5", fit.S)
	}
	cx, cy := fit.Apply(src.Center())
	if math.Abs(cx-500) > 1e-9 || math.Abs(cy-500) > 1e-9 {
		t.Fatalf("source center maps to (%f,%f), want frame center", cx, cy)
	}
}

func TestProjectedRectCoversCorners(t *testing.T) {
	p := NewProjection(testFrame)
	b := BBox{Lon0: -120, Lat0: 30, Lon1: -100, Lat1: 45}
	r := ProjectedRect(b, p)
	if r.W <= 0 || r.H <= 0 {
		t.Fatalf("degenerate rect %+v", r)
	}
	for _, c := range [][2]float64{{b.Lon0, b.Lat0}, {b.Lon1, b.Lat1}} {
		pt := p.Project(c[0], c[1])
		if pt.X < r.X-1e-9 || pt.X > r.X1()+1e-9 || pt.Y < r.Y-1e-9 || pt.Y > r.Y1()+1e-9 {
			t.Fatalf("corner %v projects outside %+v", c, r)
		}
	}
}

func TestPathDataFormatting(t *testing.T) {
	got := PathData([][]r2.Point{{{X: 1, Y: 2}, {X: 3.456, Y: 4}}}, true)
	if got != "M 1.00 2.00 L 3.46 4.00 Z" {
		t.Fatalf("PathData = %q", got)
	}
}

func TestGraticuleAndProjectLines(t *testing.T) {
	p := NewProjection(testFrame)
	lines := ProjectLines(p, Graticule10())
	if len(lines) != 37+17 {
		t.Fatalf("expected 54 graticule lines, got %d", len(lines))
	}
	if !strings.HasPrefix(PathData(lines[:1], false), "M ") {
		t.Fatal("graticule path should start with a move")
	}
}

func TestProjectRingsKeepsAntimeridianEdges(t *testing.T) {
	p := NewProjection(core.RectFromBounds(80, 70, 1520, 830))
	ring := [][]float64{{170, -85}, {180, -85}, {180, -90}, {-180, -90}, {-180, -85}, {-170, -85}, {170, -85}}
	if got := ProjectRings(p, [][][]float64{ring}); len(got) != 1 || len(got[0]) != len(ring) {
		t.Fatalf("ring should stay whole, got %d parts", len(got))
	}
	if got := ProjectLines(p, [][][]float64{ring}); len(got) < 2 {
		t.Fatalf("open lines should split at the antimeridian, got %d parts", len(got))
	}
}
