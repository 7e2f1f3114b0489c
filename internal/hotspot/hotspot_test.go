package hotspot

import (
	"math"
	"testing"

	"geopipe/internal/core"
	"geopipe/internal/geo"
	"geopipe/internal/hexgrid"
	"geopipe/internal/palette"

	"github.com/golang/geo/r2"
	geojson "github.com/paulmach/go.geojson"
)

func TestThresholdQuantile(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[len(values)-1-i] = float64(i) / 100
	}
	th := Threshold(values, DefaultQuantile)
	if th != 0.92 {
		t.Fatalf("threshold = %v, want 0.92", th)
	}
	hot := 0
	for _, v := range values {
		if v >= th {
			hot++
		}
	}
	frac := float64(hot) / float64(len(values))
	if math.Abs(frac-(1-DefaultQuantile)) > 1.0/float64(len(values)) {
		t.Fatalf("hot fraction %v not within one cell of %v", frac, 1-DefaultQuantile)
	}
	if values[0] != 0.99 {
		t.Fatal("Threshold must not reorder its input")
	}
}

func TestThresholdEdges(t *testing.T) {
	if got := Threshold(nil, 0.92); got != 0.8 {
		t.Fatalf("empty threshold = %v, want 0.8", got)
	}
	if got := Threshold([]float64{0.1, 0.7, 0.3}, 1); got != 0.7 {
		t.Fatalf("q=1 threshold = %v, want max", got)
	}
}

func TestThresholdOnGrid(t *testing.T) {
	spec := hexgrid.Spec{Bounds: core.Rect{W: 200, H: 120}, Radius: 4, SweepTo: 200, SweepWeight: 0.7, JitterScale: 1.7}
	g := hexgrid.Build(spec, func(p r2.Point) float64 { return core.Hash2(p.X*3.1, p.Y*2.3) }, palette.Heat, nil)
	res := Extract(g, DefaultQuantile)
	hot := 0
	for i := range g.Cells {
		if res.IsHot(i) {
			hot++
		}
	}
	n := float64(len(g.Cells))
	if math.Abs(float64(hot)/n-(1-DefaultQuantile)) > 1/n+1e-9 {
		t.Fatalf("hot fraction %v of %d cells, want about %v", float64(hot)/n, len(g.Cells), 1-DefaultQuantile)
	}
	for _, c := range res.Clusters {
		if len(c.Cells) < MinClusterSize {
			t.Fatalf("cluster of %d cells emitted", len(c.Cells))
		}
		for _, id := range c.Cells {
			if !res.Hot[id] {
				t.Fatalf("cold cell %d in cluster", id)
			}
		}
	}
}

func TestClustersDropSmallComponents(t *testing.T) {
	spec := hexgrid.Spec{Bounds: core.Rect{W: 80, H: 80}, Radius: 5, SweepTo: 80, SweepWeight: 1, JitterScale: 1}
	g := hexgrid.Build(spec, func(r2.Point) float64 { return 0 }, palette.Heat, nil)
	center := -1
	for i := range g.Cells {
		if len(g.Neighbors(i)) == 6 {
			center = i
			break
		}
	}
	if center < 0 {
		t.Fatal("no interior cell")
	}
	nb := g.Neighbors(center)

	hot := make([]bool, len(g.Cells))
	hot[center], hot[nb[0]] = true, true
	if got := Clusters(g, hot, MinClusterSize); len(got) != 0 {
		t.Fatalf("pair should be dropped, got %v", got)
	}
	hot[nb[1]] = true
	got := Clusters(g, hot, MinClusterSize)
	if len(got) != 1 || len(got[0]) != 3 {
		t.Fatalf("expected one cluster of three, got %v", got)
	}
}

func square(lon0, lat0, lon1, lat1 float64) [][]float64 {
	return [][]float64{{lon0, lat0}, {lon1, lat0}, {lon1, lat1}, {lon0, lat1}, {lon0, lat0}}
}

func TestAllHotRegionTracesOneLoop(t *testing.T) {
	frame := core.RectFromBounds(80, 70, 1520, 830)
	proj := geo.NewProjection(frame)
	bbox := geo.BBox{Lon0: -100, Lat0: 36, Lon1: -96, Lat1: 40}
	land := geo.NewLand(geojson.NewPolygonGeometry([][][]float64{square(bbox.Lon0, bbox.Lat0, bbox.Lon1, bbox.Lat1)}))
	bounds := geo.ProjectedRect(bbox, proj).Outset(30)

	spec := hexgrid.Spec{Bounds: bounds, Radius: 3, SweepFrom: bounds.X, SweepTo: bounds.X1(), SweepWeight: 0.7, JitterScale: 1.7}
	accept := func(p r2.Point) bool {
		lon, lat, ok := proj.Invert(p)
		return ok && land.Contains(lon, lat)
	}
	g := hexgrid.Build(spec, func(r2.Point) float64 { return 1 }, palette.Heat, accept)
	if len(g.Cells) < MinClusterSize {
		t.Fatalf("region produced only %d cells", len(g.Cells))
	}

	res := Extract(g, DefaultQuantile)
	for i := range g.Cells {
		if !res.IsHot(i) {
			t.Fatalf("cell %d not hot at threshold %v", i, res.Threshold)
		}
	}
	if len(res.Clusters) != 1 || len(res.Clusters[0].Cells) != len(g.Cells) {
		t.Fatalf("expected a single cluster of %d cells, got %d clusters", len(g.Cells), len(res.Clusters))
	}
	loops := res.Loops()
	if len(loops) != 1 {
		t.Fatalf("expected one loop, got %d", len(loops))
	}

	boundaryEdges := 0
	for _, n := range Tally(g.Cells) {
		if n == 1 {
			boundaryEdges++
		}
	}
	if got := len(loops[0]) - 1; got != boundaryEdges {
		t.Fatalf("loop has %d vertices, want %d boundary edges", got, boundaryEdges)
	}
}

func TestLoopsAreClosedOverBoundaryEdges(t *testing.T) {
	spec := hexgrid.Spec{Bounds: core.Rect{W: 160, H: 100}, Radius: 4, SweepTo: 160, SweepWeight: 0.7, JitterScale: 1.7}
	g := hexgrid.Build(spec, func(p r2.Point) float64 {
		dx, dy := p.X-80, p.Y-50
		return 1 - math.Hypot(dx, dy*1.6)/90
	}, palette.Heat, nil)
	res := Extract(g, 0.8)
	if len(res.Clusters) == 0 {
		t.Fatal("expected at least one cluster")
	}
	for _, c := range res.Clusters {
		cells := make([]hexgrid.Cell, len(c.Cells))
		for i, id := range c.Cells {
			cells[i] = g.Cells[id]
		}
		tally := Tally(cells)
		seen := make(map[EdgeKey]bool)
		for _, loop := range c.Loops {
			if KeyOf(loop[0]) != KeyOf(loop[len(loop)-1]) {
				t.Fatalf("loop not closed: %v .. %v", loop[0], loop[len(loop)-1])
			}
			for i := 0; i+1 < len(loop); i++ {
				k := KeyOfEdge(loop[i], loop[i+1])
				if tally[k] != 1 {
					t.Fatalf("loop edge counted %d times", tally[k])
				}
				if seen[k] {
					t.Fatal("boundary edge walked twice")
				}
				seen[k] = true
			}
		}
	}
}

func TestTraceSplitsPinchPoint(t *testing.T) {
	const r = 5.0
	a := hexgrid.Cell{Center: r2.Point{X: 0, Y: 0}, Radius: r, Vertices: hexgrid.Vertices(r2.Point{X: 0, Y: 0}, r)}
	b := hexgrid.Cell{Center: r2.Point{X: 0, Y: 2 * r}, Radius: r, Vertices: hexgrid.Vertices(r2.Point{X: 0, Y: 2 * r}, r)}
	if KeyOf(a.Vertices[2]) != KeyOf(b.Vertices[5]) {
		t.Fatal("test cells must share a corner")
	}
	loops := Trace([]hexgrid.Cell{a, b})
	if len(loops) != 2 {
		t.Fatalf("pinched cells should trace two loops, got %d", len(loops))
	}
	for _, loop := range loops {
		if len(loop) != 7 {
			t.Fatalf("loop has %d points, want 7", len(loop))
		}
		seen := make(map[PointKey]bool)
		for _, p := range loop[:len(loop)-1] {
			if seen[KeyOf(p)] {
				t.Fatal("loop revisits a vertex")
			}
			seen[KeyOf(p)] = true
		}
	}
}

func TestPathData(t *testing.T) {
	loop := []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}}
	want := "M 0.00 0.00 L 1.00 0.00 L 1.00 1.00 L 0.00 0.00 Z"
	if got := PathData([][]r2.Point{loop}); got != want {
		t.Fatalf("PathData = %q, want %q", got, want)
	}
	if PathData(nil) != "" {
		t.Fatal("no loops should render empty path")
	}
}
