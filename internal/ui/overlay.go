//go:build ebiten

package ui

import (
	"image/color"

	"geopipe/internal/core"
	"geopipe/internal/geo"
	"geopipe/internal/scene"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Overlay draws optional debugging visuals on top of the scene.
type Overlay struct {
	showRegion   bool
	showVertices bool
	showHot      bool
	pixel        *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay() *Overlay {
	o := &Overlay{}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles overlay layers: 1 region bounds, 2 contour vertices,
// 3 hot cell centers.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showRegion = !o.showRegion
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showVertices = !o.showVertices
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showHot = !o.showHot
	}
}

// Draw renders the enabled layers through the frame's viewport.
func (o *Overlay) Draw(screen *ebiten.Image, h *scene.Handles, st *scene.State) {
	if h == nil || st == nil {
		return
	}
	t := st.Viewport
	if o.showRegion {
		o.strokeRect(screen, h.FineBounds, t, regionColor)
		o.strokeRect(screen, h.Select, t, selectColor)
		o.strokeRect(screen, h.Frame, geo.Identity, frameColor)
	}
	if o.showVertices && h.Hot != nil {
		for _, loop := range h.Hot.Loops() {
			for _, p := range loop {
				x, y := t.Apply(p.X, p.Y)
				o.drawPoint(screen, x, y, 3, vertexColor)
			}
		}
	}
	if o.showHot && h.Hot != nil && h.Fine != nil {
		for i, c := range h.Fine.Cells {
			if h.Hot.IsHot(i) {
				x, y := t.Apply(c.Center.X, c.Center.Y)
				o.drawPoint(screen, x, y, 2, hotColor)
			}
		}
	}
}

func (o *Overlay) strokeRect(screen *ebiten.Image, r core.Rect, t geo.Transform, col color.RGBA) {
	x, y := t.Apply(r.X, r.Y)
	vector.StrokeRect(screen, float32(x), float32(y), float32(r.W*t.S), float32(r.H*t.S), 1, col, false)
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	if o.pixel == nil || size <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

var (
	regionColor = color.RGBA{R: 64, G: 164, B: 223, A: 255}
	selectColor = color.RGBA{R: 255, G: 120, B: 40, A: 255}
	frameColor  = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	vertexColor = color.RGBA{R: 255, G: 230, B: 120, A: 255}
	hotColor    = color.RGBA{R: 255, G: 80, B: 60, A: 255}
)
