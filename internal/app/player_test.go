package app

import (
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"geopipe/internal/basemap"
	"geopipe/internal/core"
	"geopipe/internal/hexgrid"
	"geopipe/internal/hotspot"
	"geopipe/internal/palette"
	"geopipe/internal/pipeline"
	"geopipe/internal/scene"
	"geopipe/internal/timeline"

	"github.com/golang/geo/r2"
)

func testScene() *pipeline.Scene {
	sel := core.Rect{X: 300, Y: 200, W: 200, H: 120}
	fine := hexgrid.Build(hexgrid.Spec{Bounds: sel, Radius: 20, SweepFrom: sel.X, SweepTo: sel.X1(), SweepWeight: 0.7, JitterScale: 1.7},
		func(p r2.Point) float64 { return p.X / scene.Canvas.W }, palette.Heat, nil)
	coarse := hexgrid.Build(hexgrid.Spec{Bounds: scene.Canvas, Radius: 80, SweepTo: scene.Canvas.W, SweepWeight: 0.55, JitterScale: 1},
		func(r2.Point) float64 { return 0.5 }, palette.Terrain, nil)
	return &pipeline.Scene{Handles: &scene.Handles{
		Canvas:        scene.Canvas,
		Frame:         scene.Frame,
		Coarse:        coarse,
		Fine:          fine,
		Hot:           hotspot.Extract(fine, 0.8),
		Select:        sel,
		PerimeterBase: sel.Perimeter(),
		FineBounds:    sel,
	}}
}

func loaded(sc *pipeline.Scene, err error) LoadFunc {
	return func(context.Context) (*pipeline.Scene, error) { return sc, err }
}

func TestPlayerReady(t *testing.T) {
	p := NewPlayer(nil, 60)
	var phases []int
	p.OnPhaseChange = func(i int, _ timeline.Phase) { phases = append(phases, i) }
	if _, ok := p.Frame(time.Now(), false); ok {
		t.Fatal("frame before load")
	}
	p.Start(context.Background(), loaded(testScene(), nil))
	p.Wait()
	if st, err := p.Status(); st != StatusReady || err != nil {
		t.Fatalf("status = %v, %v; want ready", st, err)
	}
	t0 := time.Unix(1000, 0)
	f, ok := p.Frame(t0, false)
	if !ok || f.Handles == nil || f.State == nil {
		t.Fatalf("frame not ready: %+v", f)
	}
	if f.Stage.Index != 0 || f.Phase.Title != p.Timeline().Phases[0].Title {
		t.Fatalf("first frame stage = %+v", f.Stage)
	}
	if len(phases) != 1 || phases[0] != 0 {
		t.Fatalf("phase callbacks = %v, want [0]", phases)
	}
	if len(f.State.Fine) != len(f.Handles.Fine.Cells) {
		t.Fatalf("state has %d fine opacities for %d cells", len(f.State.Fine), len(f.Handles.Fine.Cells))
	}
}

func TestPlayerLoadFailure(t *testing.T) {
	cause := errors.New("boom")
	p := NewPlayer(nil, 60)
	p.Start(context.Background(), loaded(nil, cause))
	p.Wait()
	st, err := p.Status()
	if st != StatusFailed {
		t.Fatalf("status = %v, want failed", st)
	}
	if !errors.Is(err, ErrLoadFailed) || !errors.Is(err, cause) {
		t.Fatalf("err = %v, want ErrLoadFailed wrapping cause", err)
	}
	if _, ok := p.Frame(time.Now(), false); ok {
		t.Fatal("failed player produced a frame")
	}
	p.Start(context.Background(), loaded(testScene(), nil))
	p.Wait()
	if st, _ := p.Status(); st != StatusFailed {
		t.Fatalf("restart changed terminal state to %v", st)
	}
}

func TestPlayerEmptySceneFails(t *testing.T) {
	p := NewPlayer(nil, 60)
	p.Start(context.Background(), loaded(nil, nil))
	p.Wait()
	if st, err := p.Status(); st != StatusFailed || !errors.Is(err, ErrLoadFailed) {
		t.Fatalf("status = %v, %v", st, err)
	}
}

func TestPlayerCloseDiscardsLateResult(t *testing.T) {
	release := make(chan struct{})
	p := NewPlayer(nil, 60)
	p.Start(context.Background(), func(context.Context) (*pipeline.Scene, error) {
		<-release
		return testScene(), nil
	})
	p.Close()
	close(release)
	p.Wait()
	st, err := p.Status()
	if st != StatusClosed || !errors.Is(err, ErrClosed) {
		t.Fatalf("status = %v, %v; want closed", st, err)
	}
	if p.Scene() != nil {
		t.Fatal("late scene was kept")
	}
	if _, ok := p.Frame(time.Now(), false); ok {
		t.Fatal("closed player produced a frame")
	}
	p.Close()
}

func TestPlayerCloseCancelsLoad(t *testing.T) {
	p := NewPlayer(nil, 60)
	p.Start(context.Background(), func(ctx context.Context) (*pipeline.Scene, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	p.Close()
	p.Wait()
	if st, _ := p.Status(); st != StatusClosed {
		t.Fatalf("status = %v, want closed", st)
	}
}

func TestPlayerPacing(t *testing.T) {
	p := NewPlayer(nil, 10)
	p.Start(context.Background(), loaded(testScene(), nil))
	p.Wait()
	t0 := time.Unix(1000, 0)
	first, _ := p.Frame(t0, false)
	early, _ := p.Frame(t0.Add(2*time.Second/100), false)
	if early.Stage != first.Stage {
		t.Fatalf("redraw above the target rate advanced the stage: %+v", early.Stage)
	}
	later, _ := p.Frame(t0.Add(1500*time.Millisecond), false)
	if later.Stage.Value <= first.Stage.Value {
		t.Fatalf("stage did not advance: %v -> %v", first.Stage.Value, later.Stage.Value)
	}
}

func TestPlayerPauseFreezesState(t *testing.T) {
	p := NewPlayer(nil, 1000)
	p.Start(context.Background(), loaded(testScene(), nil))
	p.Wait()
	t0 := time.Unix(1000, 0)
	p.Frame(t0, false)
	run, _ := p.Frame(t0.Add(3*time.Second), false)
	value := run.Stage.Value
	paused, _ := p.Frame(t0.Add(10*time.Second), true)
	if !paused.Paused || paused.Stage.Value != value {
		t.Fatalf("paused frame moved: %v -> %v", value, paused.Stage.Value)
	}
	resumed, _ := p.Frame(t0.Add(10*time.Second+time.Millisecond*5), false)
	if resumed.Stage.Value < value || resumed.Stage.Value-value > 0.05 {
		t.Fatalf("resume jumped from %v to %v", value, resumed.Stage.Value)
	}
}

func TestPlayerPauseBetweenSteps(t *testing.T) {
	p := NewPlayer(nil, 10)
	p.Start(context.Background(), loaded(testScene(), nil))
	p.Wait()
	t0 := time.Unix(1000, 0)
	p.Frame(t0, false)
	p.Frame(t0.Add(2*time.Second), false)
	run, _ := p.Frame(t0.Add(2020*time.Millisecond), false)
	skipped, _ := p.Frame(t0.Add(2040*time.Millisecond), true)
	if !skipped.Paused || skipped.Stage != run.Stage {
		t.Fatalf("paced redraw = %+v, want paused copy of %+v", skipped, run.Stage)
	}
	p.Frame(t0.Add(6*time.Second), true)
	resumed, _ := p.Frame(t0.Add(6200*time.Millisecond), false)
	if d := resumed.Stage.Value - run.Stage.Value; d < 0 || d > 0.05 {
		t.Fatalf("pause recorded late: stage moved %v while paused", d)
	}
}

const squareFC = `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},
"geometry":{"type":"Polygon","coordinates":[[[-125,25],[-90,25],[-90,50],[-125,50],[-125,25]]]}}]}`

func TestSceneLoaderFromFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "land.json")
	if err := os.WriteFile(path, []byte(squareFC), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := pipeline.DefaultConfig()
	cfg.FieldW, cfg.FieldH = 160, 90
	cfg.Countries, cfg.Land = path, path
	p := NewPlayer(nil, 60)
	p.Start(context.Background(), SceneLoader(cfg, basemap.NewLoader()))
	p.Wait()
	if st, err := p.Status(); st != StatusReady {
		t.Fatalf("status = %v, %v", st, err)
	}
	if p.Scene().Stats().FineCells == 0 {
		t.Fatal("loaded scene has no fine cells")
	}

	cfg.Land = filepath.Join(dir, "missing.json")
	q := NewPlayer(nil, 60)
	q.Start(context.Background(), SceneLoader(cfg, basemap.NewLoader()))
	q.Wait()
	if st, err := q.Status(); st != StatusFailed || !errors.Is(err, basemap.ErrFetch) {
		t.Fatalf("missing file: status = %v, %v", st, err)
	}
}

func TestConfigBind(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.Bind(fs)
	args := []string{"-fps", "30", "-set", "hot_quantile=0.8", "-set", "bogus", "-set", "land=a.json", "-land", "b.json"}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.FPS != 30 {
		t.Fatalf("fps = %d", cfg.FPS)
	}
	pc := cfg.Pipeline()
	if pc.HotQuantile != 0.8 {
		t.Fatalf("hot quantile = %v", pc.HotQuantile)
	}
	if pc.Land != "b.json" {
		t.Fatalf("land = %q, want flag to win", pc.Land)
	}
	if pc.Countries != basemap.DefaultCountriesURL {
		t.Fatalf("countries = %q", pc.Countries)
	}
}
