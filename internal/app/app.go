//go:build ebiten

package app

import (
	"time"

	"geopipe/internal/core"
	"geopipe/internal/palette"
	"geopipe/internal/render"
	"geopipe/internal/scene"
	"geopipe/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const hudWidth = 320

// Game adapts a Player to the ebiten.Game interface.
type Game struct {
	player  *Player
	painter *render.Painter
	hud     *ui.HUD
	overlay *ui.Overlay
	params  core.ParameterSnapshot

	paused bool
	frame  Frame
	ready  bool
}

// New constructs a Game around p. The settings src describes are shown in
// the HUD.
func New(p *Player, src core.ParameterProvider) *Game {
	return &Game{
		player:  p,
		painter: render.NewPainter(int(scene.Canvas.W), int(scene.Canvas.H)),
		hud:     ui.NewHUD(hudWidth),
		overlay: ui.NewOverlay(),
		params:  src.Parameters(),
	}
}

// Update handles input and advances the animation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.player.Close()
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.player.Restart(time.Now())
	}
	if g.overlay != nil {
		g.overlay.Update()
	}
	g.frame, g.ready = g.player.Frame(time.Now(), g.paused)
	return nil
}

// Draw renders the current frame and the narration panel.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(palette.Background)
	if g.ready {
		g.painter.Draw(screen, g.frame.Handles, g.frame.State)
		if g.overlay != nil {
			g.overlay.Draw(screen, g.frame.Handles, g.frame.State)
		}
	}
	w, h := g.painter.Size()
	g.hud.Draw(screen, w, h, g.info())
}

func (g *Game) info() ui.Info {
	info := ui.Info{
		Kicker:   g.frame.Phase.Kicker,
		Title:    g.frame.Phase.Title,
		Body:     g.frame.Phase.Body,
		Phase:    g.frame.Stage.Index,
		Phases:   len(g.player.Timeline().Phases),
		Progress: g.frame.Stage.Loop,
		Paused:   g.paused,
		Params:   g.params,
	}
	switch status, err := g.player.Status(); status {
	case StatusLoading:
		info.Status = "loading basemap"
	case StatusFailed, StatusClosed:
		info.Status = err.Error()
	}
	return info
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.painter.Size()
	return w + g.hud.Width(), h
}
