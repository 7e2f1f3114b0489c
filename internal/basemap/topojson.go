package basemap

import (
	"encoding/json"
	"fmt"

	geojson "github.com/paulmach/go.geojson"
)

type topology struct {
	Type      string                     `json:"type"`
	Transform *topoTransform             `json:"transform"`
	Arcs      [][][]float64              `json:"arcs"`
	Objects   map[string]json.RawMessage `json:"objects"`
}

type topoTransform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

type topoGeometry struct {
	Type        geojson.GeometryType `json:"type"`
	Arcs        json.RawMessage      `json:"arcs"`
	Coordinates json.RawMessage      `json:"coordinates"`
	Geometries  []topoGeometry       `json:"geometries"`
}

// decodeTopology parses a Topology document and resolves its arcs into
// absolute lon/lat coordinates.
func decodeTopology(data []byte) (*topology, error) {
	var t topology
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if t.Type != "Topology" {
		return nil, fmt.Errorf("%w: type %q is not a Topology", ErrDecode, t.Type)
	}
	if t.Transform != nil {
		for _, arc := range t.Arcs {
			var x, y float64
			for _, p := range arc {
				if len(p) < 2 {
					continue
				}
				x += p[0]
				y += p[1]
				p[0] = x*t.Transform.Scale[0] + t.Transform.Translate[0]
				p[1] = y*t.Transform.Scale[1] + t.Transform.Translate[1]
			}
		}
	}
	return &t, nil
}

func (t *topology) object(name string) (*topoGeometry, error) {
	raw, ok := t.Objects[name]
	if !ok {
		return nil, fmt.Errorf("%w: topology has no object %q", ErrDecode, name)
	}
	var g topoGeometry
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("%w: object %q: %v", ErrDecode, name, err)
	}
	return &g, nil
}

// arc returns arc i as a fresh slice, reversed for negative (one's
// complement) indices.
func (t *topology) arc(i int) [][]float64 {
	rev := i < 0
	if rev {
		i = ^i
	}
	if i >= len(t.Arcs) {
		return nil
	}
	src := t.Arcs[i]
	out := make([][]float64, len(src))
	for k, p := range src {
		if rev {
			out[len(src)-1-k] = p
		} else {
			out[k] = p
		}
	}
	return out
}

// line stitches consecutive arcs, dropping the duplicated joint point.
func (t *topology) line(arcs []int) [][]float64 {
	var pts [][]float64
	for _, a := range arcs {
		seg := t.arc(a)
		if len(pts) > 0 && len(seg) > 0 {
			pts = pts[:len(pts)-1]
		}
		pts = append(pts, seg...)
	}
	return pts
}

func (t *topology) ring(arcs []int) [][]float64 {
	pts := t.line(arcs)
	if len(pts) == 0 {
		return nil
	}
	for len(pts) < 4 {
		pts = append(pts, pts[0])
	}
	return pts
}

// feature converts a topology geometry into an equivalent GeoJSON geometry.
func (t *topology) feature(g *topoGeometry) (*geojson.Geometry, error) {
	switch g.Type {
	case geojson.GeometryCollection:
		children := make([]*geojson.Geometry, 0, len(g.Geometries))
		for i := range g.Geometries {
			c, err := t.feature(&g.Geometries[i])
			if err != nil {
				return nil, err
			}
			if c != nil {
				children = append(children, c)
			}
		}
		return geojson.NewCollectionGeometry(children...), nil
	case geojson.GeometryPolygon:
		var rings [][]int
		if err := unmarshalArcs(g.Arcs, &rings); err != nil {
			return nil, err
		}
		return geojson.NewPolygonGeometry(t.polygon(rings)), nil
	case geojson.GeometryMultiPolygon:
		var polys [][][]int
		if err := unmarshalArcs(g.Arcs, &polys); err != nil {
			return nil, err
		}
		out := make([][][][]float64, 0, len(polys))
		for _, rings := range polys {
			out = append(out, t.polygon(rings))
		}
		return geojson.NewMultiPolygonGeometry(out...), nil
	case geojson.GeometryLineString:
		var arcs []int
		if err := unmarshalArcs(g.Arcs, &arcs); err != nil {
			return nil, err
		}
		return geojson.NewLineStringGeometry(t.line(arcs)), nil
	case geojson.GeometryMultiLineString:
		var lines [][]int
		if err := unmarshalArcs(g.Arcs, &lines); err != nil {
			return nil, err
		}
		out := make([][][]float64, 0, len(lines))
		for _, arcs := range lines {
			out = append(out, t.line(arcs))
		}
		return geojson.NewMultiLineStringGeometry(out...), nil
	case geojson.GeometryPoint, geojson.GeometryMultiPoint, "":
		return nil, nil
	}
	return nil, fmt.Errorf("%w: unsupported geometry type %q", ErrDecode, g.Type)
}

func (t *topology) polygon(rings [][]int) [][][]float64 {
	out := make([][][]float64, 0, len(rings))
	for _, r := range rings {
		if ring := t.ring(r); ring != nil {
			out = append(out, ring)
		}
	}
	return out
}

func unmarshalArcs(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: arcs: %v", ErrDecode, err)
	}
	return nil
}

// polygonArcs lists every arc index referenced by g's polygon rings.
func polygonArcs(g *topoGeometry) ([]int, error) {
	var out []int
	switch g.Type {
	case geojson.GeometryPolygon:
		var rings [][]int
		if err := unmarshalArcs(g.Arcs, &rings); err != nil {
			return nil, err
		}
		for _, r := range rings {
			out = append(out, r...)
		}
	case geojson.GeometryMultiPolygon:
		var polys [][][]int
		if err := unmarshalArcs(g.Arcs, &polys); err != nil {
			return nil, err
		}
		for _, rings := range polys {
			for _, r := range rings {
				out = append(out, r...)
			}
		}
	}
	return out, nil
}

// mesh returns the arcs shared by two different geometries of obj: the
// interior borders between neighbouring countries. Arcs on a single
// geometry's outer edge are excluded.
func (t *topology) mesh(obj *topoGeometry) (*geojson.Geometry, error) {
	var geoms []*topoGeometry
	var collect func(g *topoGeometry)
	collect = func(g *topoGeometry) {
		if g.Type == geojson.GeometryCollection {
			for i := range g.Geometries {
				collect(&g.Geometries[i])
			}
			return
		}
		geoms = append(geoms, g)
	}
	collect(obj)

	owners := make(map[int][]int)
	var order []int
	for gi, g := range geoms {
		arcs, err := polygonArcs(g)
		if err != nil {
			return nil, err
		}
		for _, a := range arcs {
			if a < 0 {
				a = ^a
			}
			if _, seen := owners[a]; !seen {
				order = append(order, a)
			}
			owners[a] = append(owners[a], gi)
		}
	}
	var lines [][][]float64
	for _, a := range order {
		own := owners[a]
		shared := false
		for _, o := range own[1:] {
			if o != own[0] {
				shared = true
				break
			}
		}
		if shared {
			if pts := t.arc(a); len(pts) > 1 {
				lines = append(lines, pts)
			}
		}
	}
	return geojson.NewMultiLineStringGeometry(lines...), nil
}
