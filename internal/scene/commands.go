package scene

import (
	"image"
	"image/color"

	"geopipe/internal/core"
	"geopipe/internal/geo"
	"geopipe/internal/palette"

	"github.com/golang/geo/r2"
)

// Kind is the primitive a Command draws.
type Kind int

const (
	// KindPath draws Lines, filled or stroked.
	KindPath Kind = iota
	// KindRect fills or strokes Rect.
	KindRect
	// KindImage stretches Image over Rect.
	KindImage
)

// Blend selects how a command composites onto what is below it.
type Blend int

const (
	// BlendNormal is source-over compositing.
	BlendNormal Blend = iota
	// BlendMultiply darkens what is below by the source color.
	BlendMultiply
)

// Group names a layer of the scene.
type Group int

const (
	// GroupBase holds the graticule, coastlines and borders.
	GroupBase Group = iota
	// GroupDEM holds the elevation raster and its hillshade.
	GroupDEM
	// GroupCoarse holds the filled coarse hex cells.
	GroupCoarse
	// GroupCoarseLines redraws coast and borders above the coarse cells.
	GroupCoarseLines
	// GroupFine holds the filled fine hex cells around the selection.
	GroupFine
	// GroupHot holds the hotspot contours and their glow.
	GroupHot
	// GroupOverlay holds the selection rectangle, drawn without the zoom.
	GroupOverlay
)

var groupNames = [...]string{"base", "dem", "coarse", "coarse-lines", "fine", "hot", "overlay"}

func (g Group) String() string {
	if int(g) < len(groupNames) {
		return groupNames[g]
	}
	return "group"
}

// Dash is a single-segment dash pattern.
type Dash struct {
	Array, Offset float64
}

// Command is one retained draw operation. A zero-alpha Fill or Stroke means
// none.
type Command struct {
	Kind   Kind
	Lines  [][]r2.Point
	Closed bool
	Rect   core.Rect
	Image  image.Image
	// ImageKey identifies Image for backends that cache uploads.
	ImageKey string

	Fill          color.RGBA
	FillOpacity   float64
	Stroke        color.RGBA
	StrokeWidth   float64
	StrokeOpacity float64
	Dash          *Dash
	Round         bool

	Opacity float64
	Blend   Blend
	Blur    float64
}

// Layer is a group of commands sharing transform and clipping.
type Layer struct {
	Group Group
	// Viewport layers are drawn through State.Viewport and clipped to the
	// frame; the overlay is drawn in canvas space.
	Viewport bool
	ClipLand bool
	// Reveal, when non-nil, further clips the layer to a rectangle.
	Reveal   *core.Rect
	Commands []Command
}

// minOpacity is the opacity below which a command is not emitted.
const minOpacity = 1.0 / 512

// Commands converts the handles and animated state into an ordered display
// list, bottom layer first. Fully transparent or empty commands are omitted.
func Commands(h *Handles, st *State) []Layer {
	layers := []Layer{
		{Group: GroupBase, Viewport: true},
		{Group: GroupDEM, Viewport: true, ClipLand: true},
		{Group: GroupCoarse, Viewport: true, ClipLand: true, Reveal: &st.CoarseReveal},
		{Group: GroupCoarseLines, Viewport: true},
		{Group: GroupFine, Viewport: true, ClipLand: true, Reveal: &st.FineReveal},
		{Group: GroupHot, Viewport: true},
		{Group: GroupOverlay},
	}
	push := func(g Group, c Command) {
		if c.Opacity < minOpacity || (c.Kind == KindPath && len(c.Lines) == 0) {
			return
		}
		layers[g].Commands = append(layers[g].Commands, c)
	}

	push(GroupBase, lines(h.Graticule, false, palette.Graticule, 0.35, 0.7))
	push(GroupBase, lines(h.Coast, true, palette.Coast, 0.9, 1))
	push(GroupBase, lines(h.Borders, false, palette.Border, 0.4, 0.8))

	if h.DEM != nil {
		push(GroupDEM, Command{Kind: KindImage, Rect: h.Canvas, Image: h.DEM, ImageKey: "dem", Opacity: st.DEMOpacity})
	}
	if h.Shade != nil {
		push(GroupDEM, Command{Kind: KindImage, Rect: h.Canvas, Image: h.Shade, ImageKey: "shade", Opacity: st.ShadeOpacity, Blend: BlendMultiply})
	}

	if h.Coarse != nil {
		for i, c := range h.Coarse.Cells {
			push(GroupCoarse, Command{
				Kind:        KindPath,
				Lines:       [][]r2.Point{c.Vertices[:]},
				Closed:      true,
				Fill:        c.Fill,
				FillOpacity: 1,
				Stroke:      palette.CoarseStroke,
				StrokeWidth: 0.5,
				Opacity:     st.Coarse[i],
			})
		}
	}
	push(GroupCoarseLines, lines(h.Coast, true, palette.Coast, 0.6, st.CoastOpacity))
	push(GroupCoarseLines, lines(h.Borders, false, palette.HexBorder, 0.35, st.BorderOpacity))

	if h.Fine != nil {
		for i, c := range h.Fine.Cells {
			stroke, width := palette.ColdStroke, 0.35
			if h.Hot != nil && h.Hot.IsHot(i) {
				stroke, width = palette.HotStroke, 0.8
			}
			push(GroupFine, Command{
				Kind:        KindPath,
				Lines:       [][]r2.Point{c.Vertices[:]},
				Closed:      true,
				Fill:        c.Fill,
				FillOpacity: 1,
				Stroke:      stroke,
				StrokeWidth: width,
				Opacity:     st.Fine[i],
			})
		}
	}

	if h.Hot != nil {
		loops := h.Hot.Loops()
		push(GroupHot, Command{Kind: KindPath, Lines: loops, Closed: true, Fill: palette.Accent, FillOpacity: 0.1, Opacity: st.HotFill})
		push(GroupHot, Command{Kind: KindPath, Lines: loops, Closed: true, Stroke: palette.AccentGlow, StrokeWidth: 18, StrokeOpacity: 0.18, Round: true, Blur: 6, Opacity: st.HotGlow})
		push(GroupHot, Command{Kind: KindPath, Lines: loops, Closed: true, Stroke: palette.Accent, StrokeWidth: 3.5, Round: true, Opacity: st.HotOutline})
	}

	push(GroupOverlay, Command{Kind: KindRect, Rect: st.Select, Stroke: palette.Accent, StrokeWidth: 16, StrokeOpacity: 0.15, Blur: 4, Opacity: st.SelectGlow})
	push(GroupOverlay, Command{
		Kind:        KindRect,
		Rect:        st.Select,
		Fill:        palette.Accent,
		FillOpacity: 0.06,
		Stroke:      palette.Accent,
		StrokeWidth: 2,
		Dash:        &Dash{Array: st.DashArray, Offset: st.DashOffset},
		Opacity:     st.SelectOpacity,
	})
	return layers
}

func lines(pts [][]r2.Point, closed bool, stroke color.RGBA, width, opacity float64) Command {
	return Command{Kind: KindPath, Lines: pts, Closed: closed, Stroke: stroke, StrokeWidth: width, Opacity: opacity}
}

// PathData formats a command's lines as SVG path data.
func (c Command) PathData() string { return geo.PathData(c.Lines, c.Closed) }
