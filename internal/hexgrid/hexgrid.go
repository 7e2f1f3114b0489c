// Package hexgrid tiles canvas regions with pointy-top hexagons and samples a
// scalar field at each retained cell.
package hexgrid

import (
	"image/color"
	"math"

	"geopipe/internal/core"
	"geopipe/internal/palette"

	"github.com/golang/geo/r2"
)

// Cell is one retained hexagon. Cells are immutable once the grid is built.
type Cell struct {
	Index    int
	Row, Col int
	Center   r2.Point
	Radius   float64
	Value    float64
	Fill     color.RGBA
	Delay    float64
	Vertices [6]r2.Point
}

// Spec controls how a region is tiled.
type Spec struct {
	// Bounds is the region whose centers (plus one radius of slack) are tiled.
	Bounds core.Rect
	Radius float64
	// SweepFrom and SweepTo span the horizontal reveal sweep.
	SweepFrom, SweepTo float64
	// SweepWeight mixes the sweep position against hash jitter.
	SweepWeight float64
	// JitterScale scales centers before hashing so grids decorrelate.
	JitterScale float64
}

// Sampler returns the field value at a canvas point.
type Sampler func(p r2.Point) float64

// Acceptor reports whether a candidate center should become a cell.
type Acceptor func(p r2.Point) bool

// Grid is an immutable set of hex cells with a row/column index.
type Grid struct {
	Spec  Spec
	Cells []Cell
	index map[[2]int]int
}

// Vertices returns the six corners of a pointy-top hexagon, starting at the
// upper-right corner and proceeding clockwise on screen.
func Vertices(center r2.Point, r float64) [6]r2.Point {
	var pts [6]r2.Point
	for k := 0; k < 6; k++ {
		ang := (math.Pi / 180) * (60*float64(k) - 30)
		pts[k] = r2.Point{X: center.X + r*math.Cos(ang), Y: center.Y + r*math.Sin(ang)}
	}
	return pts
}

// Build scans rows of candidate centers across spec.Bounds. Rows are dy=1.5r
// apart, columns dx=r√3 apart, and odd rows shift right by dx/2. Candidates
// rejected by accept are skipped but still consume their row/column index.
func Build(spec Spec, sample Sampler, ramp *palette.Ramp, accept Acceptor) *Grid {
	g := &Grid{Spec: spec, index: make(map[[2]int]int)}
	r := spec.Radius
	if r <= 0 {
		return g
	}
	dx := math.Sqrt(3) * r
	dy := 1.5 * r
	b := spec.Bounds
	span := math.Max(1, spec.SweepTo-spec.SweepFrom)

	row := 0
	for y := b.Y - r; y <= b.Y1()+r; y += dy {
		offset := 0.0
		if row%2 == 1 {
			offset = dx / 2
		}
		col := 0
		for x := b.X - r; x <= b.X1()+r; x += dx {
			c := r2.Point{X: x + offset, Y: y}
			if accept == nil || accept(c) {
				value := core.Clamp01(sample(c))
				sweep := core.Clamp01((c.X - spec.SweepFrom) / span)
				jitter := core.Hash2(c.X*spec.JitterScale, c.Y*spec.JitterScale)
				idx := len(g.Cells)
				g.Cells = append(g.Cells, Cell{
					Index:    idx,
					Row:      row,
					Col:      col,
					Center:   c,
					Radius:   r,
					Value:    value,
					Fill:     ramp.At(value),
					Delay:    core.Clamp01(spec.SweepWeight*sweep + (1-spec.SweepWeight)*jitter),
					Vertices: Vertices(c, r),
				})
				g.index[[2]int{row, col}] = idx
			}
			col++
		}
		row++
	}
	return g
}

// Lookup returns the cell index at row/col.
func (g *Grid) Lookup(row, col int) (int, bool) {
	i, ok := g.index[[2]int{row, col}]
	return i, ok
}

// NeighborCoords returns the six row/col neighbours of a cell in a grid
// whose odd rows are shifted right.
func NeighborCoords(row, col int) [6][2]int {
	if row%2 == 1 {
		return [6][2]int{
			{row, col + 1}, {row, col - 1},
			{row - 1, col + 1}, {row - 1, col},
			{row + 1, col + 1}, {row + 1, col},
		}
	}
	return [6][2]int{
		{row, col + 1}, {row, col - 1},
		{row - 1, col}, {row - 1, col - 1},
		{row + 1, col}, {row + 1, col - 1},
	}
}

// Neighbors returns the indices of the retained neighbours of cell i.
func (g *Grid) Neighbors(i int) []int {
	c := g.Cells[i]
	out := make([]int, 0, 6)
	for _, rc := range NeighborCoords(c.Row, c.Col) {
		if j, ok := g.Lookup(rc[0], rc[1]); ok {
			out = append(out, j)
		}
	}
	return out
}

// Values returns every cell value in cell order.
func (g *Grid) Values() []float64 {
	out := make([]float64, len(g.Cells))
	for i, c := range g.Cells {
		out[i] = c.Value
	}
	return out
}
