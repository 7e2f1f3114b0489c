package pipeline

import (
	"fmt"

	"geopipe/internal/basemap"
	"geopipe/internal/core"
	"geopipe/internal/geo"
	"geopipe/internal/hexgrid"
	"geopipe/internal/hotspot"
	"geopipe/internal/noise"
	"geopipe/internal/palette"
	"geopipe/internal/raster"
	"geopipe/internal/scene"

	"github.com/golang/geo/r2"
)

const (
	coarseSweepWeight = 0.55
	fineSweepWeight   = 0.7
	fineJitterScale   = 1.7
)

// Scene is a built scene plus the intermediate products it was derived from.
type Scene struct {
	Handles    *scene.Handles
	Projection *geo.Projection
	Land       *geo.Land
	Region     geo.BBox
	DEM        *core.Field
	Heat       *core.Field
}

// Stats summarizes a built scene.
type Stats struct {
	LandPolygons int
	CoarseCells  int
	FineCells    int
	Threshold    float64
	Clusters     int
	Loops        int
}

// Stats counts the scene contents.
func (s *Scene) Stats() Stats {
	h := s.Handles
	return Stats{
		LandPolygons: s.Land.Len(),
		CoarseCells:  len(h.Coarse.Cells),
		FineCells:    len(h.Fine.Cells),
		Threshold:    h.Hot.Threshold,
		Clusters:     len(h.Hot.Clusters),
		Loops:        len(h.Hot.Loops()),
	}
}

// Build runs every one-time computation of the scene. The result is
// deterministic for a given config and basemap.
func Build(cfg Config, bm *basemap.Basemap) (*Scene, error) {
	if bm == nil {
		return nil, fmt.Errorf("pipeline: nil basemap")
	}
	if cfg.FieldW < 2 || cfg.FieldH < 2 {
		return nil, fmt.Errorf("pipeline: field size %dx%d too small", cfg.FieldW, cfg.FieldH)
	}
	canvas := scene.Canvas
	frame := scene.Frame
	proj := geo.NewProjection(frame)
	land := geo.NewLand(bm.Land...)

	dem := noise.Generate(cfg.FieldW, cfg.FieldH, cfg.DEMSeed)
	heat := noise.Generate(cfg.FieldW, cfg.FieldH, cfg.HeatSeed).Map(palette.HeatRemap)

	onLand := func(p r2.Point) bool {
		lon, lat, ok := proj.Invert(p)
		return ok && land.Contains(lon, lat)
	}

	coarse := hexgrid.Build(hexgrid.Spec{
		Bounds:      canvas,
		Radius:      cfg.CoarseRadius,
		SweepFrom:   0,
		SweepTo:     canvas.W,
		SweepWeight: coarseSweepWeight,
		JitterScale: 1,
	}, canvasSampler(dem, canvas), palette.Terrain, onLand)

	region := geo.PickLandDenseBBox(land, cfg.Search)
	sel := geo.ProjectedRect(region, proj)
	fineBounds := sel.Outset(cfg.FinePad)
	fine := hexgrid.Build(hexgrid.Spec{
		Bounds:      fineBounds,
		Radius:      cfg.FineRadius,
		SweepFrom:   fineBounds.X,
		SweepTo:     fineBounds.X1(),
		SweepWeight: fineSweepWeight,
		JitterScale: fineJitterScale,
	}, canvasSampler(heat, canvas), palette.Heat, onLand)

	h := &scene.Handles{
		Canvas:        canvas,
		Frame:         frame,
		Graticule:     geo.ProjectLines(proj, geo.Graticule10()),
		Coast:         geo.ProjectRings(proj, geo.Outlines(bm.Land...)),
		Borders:       geo.ProjectLines(proj, geo.Outlines(bm.Borders...)),
		DEM:           raster.Colorize(dem, palette.Terrain, cfg.DEMSeed),
		Shade:         raster.Hillshade(dem),
		Coarse:        coarse,
		Fine:          fine,
		Hot:           hotspot.Extract(fine, cfg.HotQuantile),
		Select:        sel,
		PerimeterBase: sel.Perimeter(),
		ZoomTarget:    geo.FitRectToFrame(sel, frame, cfg.ZoomPad),
		FineBounds:    fineBounds,
	}
	return &Scene{Handles: h, Projection: proj, Land: land, Region: region, DEM: dem, Heat: heat}, nil
}

// canvasSampler reads f as if it were stretched over canvas.
func canvasSampler(f *core.Field, canvas core.Rect) hexgrid.Sampler {
	sx := float64(f.W-1) / canvas.W
	sy := float64(f.H-1) / canvas.H
	return func(p r2.Point) float64 {
		return f.Sample((p.X-canvas.X)*sx, (p.Y-canvas.Y)*sy)
	}
}
