//go:build ebiten

package ui

import (
	"image/color"

	"geopipe/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the narration panel to the right of the canvas.
type HUD struct {
	width      int
	panel      *ebiten.Image
	lastHeight int
	pixel      *ebiten.Image
}

// NewHUD constructs a HUD with the given panel width.
func NewHUD(width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{width: width}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	return h
}

// Width returns the panel width in pixels.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Draw paints the panel at offsetX, height pixels tall.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int, info Info) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(panelColor)
	face := basicfont.Face7x13
	cols := (h.width - 2*panelPadding) / glyphWidth

	y := panelPadding + headerBaseline
	if info.Status == "" {
		text.Draw(h.panel, info.Kicker, face, panelPadding, y, accentColor)
		y += lineHeight
		for _, line := range wrap(info.Title, cols) {
			text.Draw(h.panel, line, face, panelPadding, y, titleColor)
			y += lineHeight
		}
		y += lineHeight / 2
		for _, line := range wrap(info.Body, cols) {
			text.Draw(h.panel, line, face, panelPadding, y, bodyColor)
			y += lineHeight
		}
	}

	y += lineHeight
	text.Draw(h.panel, info.StatusLine(), face, panelPadding, y, bodyColor)
	y += progressGap
	h.drawBar(panelPadding, y, h.width-2*panelPadding, progressHeight, info.Progress)
	y += progressHeight + 2*lineHeight

	for _, line := range paramLines(info.Params) {
		if y > height-panelPadding {
			break
		}
		text.Draw(h.panel, line, face, panelPadding, y, dimColor)
		y += lineHeight
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawBar(x, y, w, hgt int, fraction float64) {
	h.drawRect(float64(x), float64(y), float64(w), float64(hgt), trackColor)
	h.drawRect(float64(x), float64(y), float64(w)*core.Clamp01(fraction), float64(hgt), accentColor)
}

func (h *HUD) drawRect(x, y, w, hgt float64, col color.RGBA) {
	if h.pixel == nil || w <= 0 || hgt <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, hgt)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	h.panel.DrawImage(h.pixel, op)
}

var (
	panelColor  = color.RGBA{R: 16, G: 20, B: 26, A: 255}
	accentColor = color.RGBA{R: 214, G: 110, B: 72, A: 255}
	titleColor  = color.RGBA{R: 230, G: 230, B: 236, A: 255}
	bodyColor   = color.RGBA{R: 190, G: 194, B: 204, A: 255}
	dimColor    = color.RGBA{R: 130, G: 136, B: 148, A: 255}
	trackColor  = color.RGBA{R: 40, G: 46, B: 56, A: 255}
)

const (
	panelPadding   = 16
	glyphWidth     = 7
	lineHeight     = 16
	headerBaseline = 18
	progressGap    = 8
	progressHeight = 4
)
