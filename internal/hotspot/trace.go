package hotspot

import (
	"math"

	"geopipe/internal/hexgrid"

	"github.com/golang/geo/r2"
)

// PointKey is a vertex rounded to hundredths of a pixel.
type PointKey [2]int64

// KeyOf rounds p to its PointKey.
func KeyOf(p r2.Point) PointKey {
	return PointKey{int64(math.Round(p.X * 100)), int64(math.Round(p.Y * 100))}
}

// EdgeKey identifies an undirected edge independent of orientation.
type EdgeKey [2]PointKey

// KeyOfEdge returns the orientation-free key of segment ab.
func KeyOfEdge(a, b r2.Point) EdgeKey {
	ka, kb := KeyOf(a), KeyOf(b)
	if kb[0] < ka[0] || (kb[0] == ka[0] && kb[1] < ka[1]) {
		ka, kb = kb, ka
	}
	return EdgeKey{ka, kb}
}

type segment struct{ a, b r2.Point }

// Tally counts how many cells contribute each undirected edge.
func Tally(cells []hexgrid.Cell) map[EdgeKey]int {
	counts := make(map[EdgeKey]int, len(cells)*6)
	for _, c := range cells {
		for i := 0; i < 6; i++ {
			counts[KeyOfEdge(c.Vertices[i], c.Vertices[(i+1)%6])]++
		}
	}
	return counts
}

// boundary returns edges used by exactly one cell, oriented as that cell
// winds them, in first-seen order.
func boundary(cells []hexgrid.Cell) []segment {
	counts := Tally(cells)
	var out []segment
	for _, c := range cells {
		for i := 0; i < 6; i++ {
			a, b := c.Vertices[i], c.Vertices[(i+1)%6]
			if counts[KeyOfEdge(a, b)] == 1 {
				out = append(out, segment{a, b})
			}
		}
	}
	return out
}

// Trace walks the boundary edges of cells into closed loops. At vertices
// with several unused outgoing edges the walk takes the straightest
// continuation. A walk that revisits a vertex is split there, so cells that
// touch only at a corner produce separate simple rings. Every returned loop
// repeats its first point at the end and has at least four points.
func Trace(cells []hexgrid.Cell) [][]r2.Point {
	edges := boundary(cells)
	if len(edges) == 0 {
		return nil
	}
	out := make(map[PointKey][]int)
	for i, e := range edges {
		k := KeyOf(e.a)
		out[k] = append(out[k], i)
	}
	used := make([]bool, len(edges))

	var loops [][]r2.Point
	for start := range edges {
		if used[start] {
			continue
		}
		used[start] = true
		a, b := edges[start].a, edges[start].b
		walk := []r2.Point{a, b}
		closed := KeyOf(b) == KeyOf(walk[0])
		for !closed {
			next := straightest(edges, used, out[KeyOf(b)], b.Sub(a))
			if next < 0 {
				break
			}
			used[next] = true
			a, b = edges[next].a, edges[next].b
			walk = append(walk, b)
			closed = KeyOf(b) == KeyOf(walk[0])
		}
		if !closed {
			continue
		}
		walk[len(walk)-1] = walk[0]
		for _, ring := range splitRings(walk) {
			if len(ring) >= 4 {
				loops = append(loops, ring)
			}
		}
	}
	return loops
}

func straightest(edges []segment, used []bool, candidates []int, incoming r2.Point) int {
	best, bestScore := -1, math.Inf(-1)
	in := unit(incoming)
	for _, id := range candidates {
		if used[id] {
			continue
		}
		score := in.Dot(unit(edges[id].b.Sub(edges[id].a)))
		if score > bestScore {
			best, bestScore = id, score
		}
	}
	return best
}

func unit(v r2.Point) r2.Point {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Mul(1 / n)
}

// splitRings breaks a closed walk at every revisited vertex into simple
// closed rings.
func splitRings(walk []r2.Point) [][]r2.Point {
	var rings [][]r2.Point
	path := make([]r2.Point, 0, len(walk))
	pos := make(map[PointKey]int, len(walk))
	for _, p := range walk {
		k := KeyOf(p)
		if j, seen := pos[k]; seen {
			ring := append(append([]r2.Point(nil), path[j:]...), p)
			rings = append(rings, ring)
			for _, q := range path[j+1:] {
				delete(pos, KeyOf(q))
			}
			path = path[:j+1]
			continue
		}
		pos[k] = len(path)
		path = append(path, p)
	}
	return rings
}
