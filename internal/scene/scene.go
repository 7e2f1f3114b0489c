// Package scene holds the precomputed geometry of the animation and derives
// every animated attribute from a stage value.
package scene

import (
	"image"

	"geopipe/internal/core"
	"geopipe/internal/geo"
	"geopipe/internal/hexgrid"
	"geopipe/internal/hotspot"
	"geopipe/internal/timeline"

	"github.com/golang/geo/r2"
)

// Canvas is the fixed drawing surface in canvas units.
var Canvas = core.Rect{W: 1600, H: 900}

// Frame is the inset rectangle the globe is fitted into.
var Frame = core.RectFromBounds(80, 70, 1520, 830)

const (
	// revealSteepness is the logistic slope of the per-cell stagger.
	revealSteepness = 8.0
	// hotSplitMin is the hot blend below which hot and cold cells share opacity.
	hotSplitMin = 0.02
)

// Handles is everything the frame loop reads. It is built once and never
// mutated afterwards.
type Handles struct {
	Canvas core.Rect
	Frame  core.Rect

	Graticule [][]r2.Point
	Coast     [][]r2.Point
	Borders   [][]r2.Point

	DEM   image.Image
	Shade image.Image

	Coarse *hexgrid.Grid
	Fine   *hexgrid.Grid
	Hot    *hotspot.Result

	// Select is the projected region of interest before zooming.
	Select        core.Rect
	PerimeterBase float64
	ZoomTarget    geo.Transform
	FineBounds    core.Rect
}

// State holds the animated attributes for one stage value. Slices are reused
// across calls to Apply.
type State struct {
	Stage float64

	DEMOpacity   float64
	ShadeOpacity float64

	CoarseReveal  core.Rect
	Coarse        []float64
	CoastOpacity  float64
	BorderOpacity float64
	FineReveal    core.Rect
	Fine          []float64
	HotIn         float64
	Viewport      geo.Transform
	Select        core.Rect
	SelectOpacity float64
	SelectGlow    float64
	DashArray     float64
	DashOffset    float64
	HotOutline    float64
	HotGlow       float64
	HotFill       float64
}

// Apply derives every animated attribute of h at stage into st. It has no
// other side effects.
func Apply(h *Handles, stage float64, st *State) {
	demIn := timeline.EaseOutCubic(stage)
	demOut := timeline.EaseOutCubic(timeline.Window(stage, 1))
	demOpacity := demIn * (1 - demOut)
	coarseIn := timeline.EaseOutCubic(timeline.Window(stage, 1))
	selIn := timeline.EaseOutCubic(timeline.Window(stage, 2))
	zoomIn := timeline.Smootherstep(timeline.Window(stage, 3))
	refineIn := timeline.EaseOutCubic(timeline.Window(stage, 4))
	hotIn := timeline.EaseOutCubic(timeline.Window(stage, 5))

	st.Stage = stage
	st.DEMOpacity = demOpacity * 0.92
	st.ShadeOpacity = demOpacity * 0.38

	st.CoarseReveal = core.Rect{W: h.Canvas.W * coarseIn, H: h.Canvas.H}
	coarseAlpha := timeline.Smootherstep(1 - refineIn)
	st.Coarse = resize(st.Coarse, cellCount(h.Coarse))
	if h.Coarse != nil {
		for i, c := range h.Coarse.Cells {
			st.Coarse[i] = timeline.Stagger(coarseIn, c.Delay, revealSteepness) * coarseAlpha
		}
	}
	st.CoastOpacity = coarseIn * coarseAlpha * 0.9
	st.BorderOpacity = coarseIn * coarseAlpha * 0.7

	st.Select = core.LerpRect(h.Select, h.Frame, zoomIn)
	st.DashArray = st.Select.Perimeter()
	st.DashOffset = 0
	if stage < 3 {
		st.DashOffset = h.PerimeterBase * (1 - timeline.EaseOutExpo(selIn))
	}
	st.Viewport = geo.LerpTransform(geo.Identity, h.ZoomTarget, zoomIn)

	fb := h.FineBounds
	st.FineReveal = core.Rect{X: fb.X, W: max(0, fb.W*refineIn), H: h.Canvas.H}
	st.HotIn = hotIn
	st.Fine = resize(st.Fine, cellCount(h.Fine))
	if h.Fine != nil {
		for i, c := range h.Fine.Cells {
			o := timeline.Stagger(refineIn, c.Delay, revealSteepness)
			if hotIn > hotSplitMin {
				if h.Hot != nil && h.Hot.IsHot(i) {
					o *= core.Lerp(1, 1.08, hotIn)
				} else {
					o *= core.Lerp(1, 0.18, hotIn)
				}
			}
			st.Fine[i] = core.Clamp01(o)
		}
	}

	st.HotOutline = hotIn
	st.HotGlow = hotIn * 0.9
	st.HotFill = hotIn * 0.7

	selFade := timeline.Smootherstep(1 - 0.85*hotIn)
	st.SelectOpacity = selIn * selFade
	st.SelectGlow = selIn * selFade * 0.75
}

func cellCount(g *hexgrid.Grid) int {
	if g == nil {
		return 0
	}
	return len(g.Cells)
}

func resize(buf []float64, n int) []float64 {
	if cap(buf) < n {
		return make([]float64, n)
	}
	return buf[:n]
}
