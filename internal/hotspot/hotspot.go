// Package hotspot finds connected runs of high-valued hex cells and traces
// their outer boundaries as closed polygons.
package hotspot

import (
	"math"
	"slices"

	"geopipe/internal/geo"
	"geopipe/internal/hexgrid"

	"github.com/golang/geo/r2"
)

const (
	// DefaultQuantile selects the top eight percent of cells.
	DefaultQuantile = 0.92
	// MinClusterSize drops specks smaller than this many cells.
	MinClusterSize = 3
	// fallbackThreshold applies when there are no cells to rank.
	fallbackThreshold = 0.8
)

// Threshold returns the value at quantile q of values sorted ascending.
func Threshold(values []float64, q float64) float64 {
	if len(values) == 0 {
		return fallbackThreshold
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	idx := int(math.Floor(float64(len(sorted)) * q))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// Cluster is a connected group of hot cells with its traced outlines.
type Cluster struct {
	Cells []int
	Loops [][]r2.Point
}

// Result is the full hotspot extraction for one grid.
type Result struct {
	Threshold float64
	Hot       []bool
	Clusters  []Cluster
}

// IsHot reports whether cell i met the threshold.
func (r *Result) IsHot(i int) bool { return i >= 0 && i < len(r.Hot) && r.Hot[i] }

// Loops returns every traced loop across all clusters.
func (r *Result) Loops() [][]r2.Point {
	var out [][]r2.Point
	for _, c := range r.Clusters {
		out = append(out, c.Loops...)
	}
	return out
}

// PathData renders every loop as one SVG path.
func (r *Result) PathData() string { return PathData(r.Loops()) }

// Extract thresholds the grid at quantile q, clusters hot cells and traces
// each cluster's boundary.
func Extract(g *hexgrid.Grid, q float64) *Result {
	threshold := Threshold(g.Values(), q)
	res := &Result{Threshold: threshold, Hot: HotMask(g, threshold)}
	for _, comp := range Clusters(g, res.Hot, MinClusterSize) {
		cells := make([]hexgrid.Cell, len(comp))
		for i, id := range comp {
			cells[i] = g.Cells[id]
		}
		res.Clusters = append(res.Clusters, Cluster{Cells: comp, Loops: Trace(cells)})
	}
	return res
}

// HotMask flags cells whose value is at or above threshold.
func HotMask(g *hexgrid.Grid, threshold float64) []bool {
	mask := make([]bool, len(g.Cells))
	for i, c := range g.Cells {
		mask[i] = c.Value >= threshold
	}
	return mask
}

// Clusters flood-fills the hot cells over hex adjacency and keeps components
// of at least minSize cells.
func Clusters(g *hexgrid.Grid, hot []bool, minSize int) [][]int {
	visited := make([]bool, len(g.Cells))
	var out [][]int
	for i := range g.Cells {
		if !hot[i] || visited[i] {
			continue
		}
		visited[i] = true
		stack := []int{i}
		var comp []int
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, id)
			for _, nb := range g.Neighbors(id) {
				if !hot[nb] || visited[nb] {
					continue
				}
				visited[nb] = true
				stack = append(stack, nb)
			}
		}
		if len(comp) >= minSize {
			out = append(out, comp)
		}
	}
	return out
}

// PathData formats closed loops as SVG path data.
func PathData(loops [][]r2.Point) string { return geo.PathData(loops, true) }
