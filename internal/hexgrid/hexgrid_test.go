package hexgrid

import (
	"math"
	"testing"

	"geopipe/internal/core"
	"geopipe/internal/palette"

	"github.com/golang/geo/r2"
)

func constant(v float64) Sampler { return func(r2.Point) float64 { return v } }

func testSpec() Spec {
	return Spec{
		Bounds:      core.Rect{X: 0, Y: 0, W: 100, H: 60},
		Radius:      5,
		SweepFrom:   0,
		SweepTo:     100,
		SweepWeight: 0.55,
		JitterScale: 1,
	}
}

func TestBuildSpacing(t *testing.T) {
	g := Build(testSpec(), constant(0.5), palette.Terrain, nil)
	if len(g.Cells) == 0 {
		t.Fatal("expected cells")
	}
	dx := math.Sqrt(3) * 5
	first := g.Cells[0]
	if first.Center.X != -5 || first.Center.Y != -5 {
		t.Fatalf("first center = %v, want (-5,-5)", first.Center)
	}
	for _, c := range g.Cells {
		if c.Row == 1 && c.Col == 0 {
			if math.Abs(c.Center.X-(-5+dx/2)) > 1e-9 || math.Abs(c.Center.Y-2.5) > 1e-9 {
				t.Fatalf("odd row offset wrong: %v", c.Center)
			}
		}
	}
}

func TestBuildCellAttributes(t *testing.T) {
	g := Build(testSpec(), constant(1.4), palette.Terrain, nil)
	want := palette.Terrain.At(1)
	for _, c := range g.Cells {
		if c.Value != 1 {
			t.Fatalf("value should saturate to 1, got %v", c.Value)
		}
		if c.Fill != want {
			t.Fatalf("fill = %v, want %v", c.Fill, want)
		}
		if c.Delay < 0 || c.Delay > 1 {
			t.Fatalf("delay out of range: %v", c.Delay)
		}
		for _, v := range c.Vertices {
			if d := v.Sub(c.Center).Norm(); math.Abs(d-c.Radius) > 1e-9 {
				t.Fatalf("vertex distance %v, want %v", d, c.Radius)
			}
		}
	}
}

func TestBuildAcceptorSkipsButKeepsIndices(t *testing.T) {
	all := Build(testSpec(), constant(0.5), palette.Terrain, nil)
	half := Build(testSpec(), constant(0.5), palette.Terrain, func(p r2.Point) bool { return p.X < 50 })
	if len(half.Cells) == 0 || len(half.Cells) >= len(all.Cells) {
		t.Fatalf("acceptor should drop some cells: %d of %d", len(half.Cells), len(all.Cells))
	}
	for _, c := range half.Cells {
		i, ok := all.Lookup(c.Row, c.Col)
		if !ok {
			t.Fatalf("row/col %d,%d missing from full grid", c.Row, c.Col)
		}
		if all.Cells[i].Center != c.Center {
			t.Fatalf("row/col %d,%d maps to different centers", c.Row, c.Col)
		}
	}
}

func TestNeighborsAreAdjacent(t *testing.T) {
	g := Build(testSpec(), constant(0.5), palette.Terrain, nil)
	want := math.Sqrt(3) * 5
	interior := 0
	for i, c := range g.Cells {
		nb := g.Neighbors(i)
		if len(nb) == 6 {
			interior++
		}
		for _, j := range nb {
			d := g.Cells[j].Center.Sub(c.Center).Norm()
			if math.Abs(d-want) > 1e-9 {
				t.Fatalf("neighbour of %d,%d at distance %v, want %v", c.Row, c.Col, d, want)
			}
		}
	}
	if interior == 0 {
		t.Fatal("expected interior cells with six neighbours")
	}
}

func TestSweepOrdersDelay(t *testing.T) {
	spec := testSpec()
	spec.SweepWeight = 1
	g := Build(spec, constant(0.5), palette.Terrain, nil)
	for _, c := range g.Cells {
		want := core.Clamp01(c.Center.X / 100)
		if math.Abs(c.Delay-want) > 1e-12 {
			t.Fatalf("pure sweep delay = %v, want %v", c.Delay, want)
		}
	}
}

func TestBuildZeroRadius(t *testing.T) {
	spec := testSpec()
	spec.Radius = 0
	if g := Build(spec, constant(0.5), palette.Terrain, nil); len(g.Cells) != 0 {
		t.Fatalf("zero radius should yield no cells, got %d", len(g.Cells))
	}
}
