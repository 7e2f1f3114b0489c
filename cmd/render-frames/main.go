// Command render-frames builds the scene headlessly and writes SVG frames
// at chosen points of the loop, plus optional PNG dumps of the raster and
// hex layers.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"geopipe/internal/basemap"
	"geopipe/internal/core"
	"geopipe/internal/palette"
	"geopipe/internal/pipeline"
	"geopipe/internal/raster"
	"geopipe/internal/render"
	"geopipe/internal/scene"
	"geopipe/internal/timeline"
)

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

type options struct {
	out       string
	stages    []float64
	times     []float64
	every     int
	layers    bool
	timeout   time.Duration
	overrides map[string]string
}

func main() {
	out := flag.String("out", "frames", "output directory")
	at := flag.String("at", "", "comma-separated stage values to render (0..6)")
	times := flag.String("t", "", "comma-separated loop times in seconds to render")
	every := flag.Int("every", 0, "render this many frames spread evenly over one loop")
	layers := flag.Bool("layers", false, "also dump raster and hex layers as PNG")
	timeout := flag.Duration("timeout", time.Minute, "basemap load timeout")
	countries := flag.String("countries", "", "countries TopoJSON/GeoJSON url or file")
	land := flag.String("land", "", "land TopoJSON/GeoJSON url or file")
	tlPath := flag.String("timeline", "", "YAML timeline override")
	var overrides kvList
	flag.Var(&overrides, "set", "pipeline parameter override in key=value form (repeatable)")
	flag.Parse()

	opts := options{out: *out, every: *every, layers: *layers, timeout: *timeout, overrides: map[string]string{}}
	var err error
	if opts.stages, err = parseList(*at); err != nil {
		log.Fatalf("-at: %v", err)
	}
	if opts.times, err = parseList(*times); err != nil {
		log.Fatalf("-t: %v", err)
	}
	for _, kv := range overrides {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		opts.overrides[parts[0]] = parts[1]
	}
	for key, v := range map[string]string{"countries": *countries, "land": *land, "timeline": *tlPath} {
		if v != "" {
			opts.overrides[key] = v
		}
	}
	if len(opts.stages) == 0 && len(opts.times) == 0 && opts.every <= 0 {
		opts.stages = []float64{0, 1, 2, 3, 4, 5, 6}
	}

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	cfg := pipeline.FromMap(opts.overrides)
	tl, err := timeline.Load(cfg.Timeline)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()
	start := time.Now()
	bm, err := basemap.NewLoader().Load(ctx, cfg.Source())
	if err != nil {
		return err
	}
	sc, err := pipeline.Build(cfg, bm)
	if err != nil {
		return err
	}
	stats := sc.Stats()
	fmt.Printf("Built scene in %s: %d land polygons, region %.0f..%.0f E %.0f..%.0f N\n",
		time.Since(start).Round(time.Millisecond), stats.LandPolygons, sc.Region.Lon0, sc.Region.Lon1, sc.Region.Lat0, sc.Region.Lat1)
	fmt.Printf("Hex cells: coarse %d, fine %d; hotspot threshold %.3f, %d clusters, %d loops\n",
		stats.CoarseCells, stats.FineCells, stats.Threshold, stats.Clusters, stats.Loops)

	if err := os.MkdirAll(opts.out, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", opts.out, err)
	}

	renderer := render.NewSVG()
	var st scene.State
	n := 0
	emit := func(stage timeline.Stage, label string) error {
		scene.Apply(sc.Handles, stage.Value, &st)
		path := filepath.Join(opts.out, fmt.Sprintf("frame-%03d.svg", n))
		n++
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create frame: %w", err)
		}
		if err := renderer.Render(f, sc.Handles, &st); err != nil {
			f.Close()
			return fmt.Errorf("render %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Printf("  %s  %-12s stage %.3f  %s\n", path, label, stage.Value, tl.Phases[min(stage.Index, len(tl.Phases)-1)].Title)
		return nil
	}

	for _, v := range opts.stages {
		if err := emit(stageFromValue(v), "at="+strconv.FormatFloat(v, 'f', -1, 64)); err != nil {
			return err
		}
	}
	for _, sec := range opts.times {
		if err := emit(tl.StageAt(tl.Wrap(sec)), fmt.Sprintf("t=%.2fs", sec)); err != nil {
			return err
		}
	}
	for i := 0; i < opts.every; i++ {
		sec := tl.Period() * float64(i) / float64(opts.every)
		if err := emit(tl.StageAt(sec), fmt.Sprintf("t=%.2fs", sec)); err != nil {
			return err
		}
	}

	if opts.layers {
		return dumpLayers(opts.out, sc)
	}
	return nil
}

func dumpLayers(dir string, sc *pipeline.Scene) error {
	h := sc.Handles
	w, hh := int(h.Canvas.W), int(h.Canvas.H)
	layers := []struct {
		name string
		save func(string) error
	}{
		{"dem.png", func(p string) error { return raster.Save(p, h.DEM) }},
		{"shade.png", func(p string) error { return raster.Save(p, h.Shade) }},
		{"relief.png", func(p string) error { return raster.Save(p, raster.Relief(h.DEM, h.Shade, 0.38/0.92)) }},
		{"coarse.png", func(p string) error { return raster.Save(p, render.CellImage(h.Coarse, w, hh, nil)) }},
		{"fine.png", func(p string) error { return raster.Save(p, render.CellImage(h.Fine, w, hh, nil)) }},
		{"hot.png", func(p string) error { return raster.Save(p, render.MaskImage(h.Fine, w, hh, h.Hot.Hot, palette.Accent)) }},
	}
	for _, l := range layers {
		path := filepath.Join(dir, l.name)
		if err := l.save(path); err != nil {
			return err
		}
		fmt.Printf("  %s\n", path)
	}
	return nil
}

// stageFromValue clamps an explicit stage value and derives its phase.
func stageFromValue(v float64) timeline.Stage {
	v = core.Clamp(v, 0, timeline.PhaseCount-1)
	i := int(v)
	return timeline.Stage{Value: v, Index: i, Progress: v - float64(i)}
}

func parseList(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []float64
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q", part)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("value %q is not finite", part)
		}
		out = append(out, v)
	}
	return out, nil
}
