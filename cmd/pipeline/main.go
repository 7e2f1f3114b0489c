//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"geopipe/internal/app"
	"geopipe/internal/basemap"
	"geopipe/internal/timeline"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	pc := cfg.Pipeline()
	tl, err := timeline.Load(pc.Timeline)
	if err != nil {
		log.Fatalf("timeline: %v", err)
	}

	player := app.NewPlayer(tl, cfg.FPS)
	player.OnPhaseChange = func(i int, p timeline.Phase) {
		log.Printf("phase %d: %s", i+1, p.Title)
	}
	player.Start(context.Background(), app.SceneLoader(pc, basemap.NewLoader()))
	defer player.Close()

	game := app.New(player, pc)
	w, h := game.Layout(0, 0)
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}

	ebiten.SetWindowTitle("geopipe")
	ebiten.SetTPS(cfg.FPS)
	ebiten.SetWindowSize(int(float64(w)*cfg.Scale), int(float64(h)*cfg.Scale))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
