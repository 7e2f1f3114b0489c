package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"geopipe/internal/basemap"
	"geopipe/internal/core"
	"geopipe/internal/pipeline"
	"geopipe/internal/scene"
	"geopipe/internal/timeline"
)

var (
	// ErrLoadFailed marks the terminal state entered when the scene could
	// not be loaded. No retry is attempted.
	ErrLoadFailed = errors.New("app: scene load failed")
	// ErrClosed is reported after the player has been torn down.
	ErrClosed = errors.New("app: player closed")
)

// Status is the lifecycle state of a Player.
type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusFailed
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	case StatusClosed:
		return "closed"
	}
	return "unknown"
}

// LoadFunc produces the scene a Player animates.
type LoadFunc func(ctx context.Context) (*pipeline.Scene, error)

// SceneLoader fetches the basemap named by cfg and builds the scene from it.
func SceneLoader(cfg pipeline.Config, l *basemap.Loader) LoadFunc {
	return func(ctx context.Context) (*pipeline.Scene, error) {
		bm, err := l.Load(ctx, cfg.Source())
		if err != nil {
			return nil, err
		}
		return pipeline.Build(cfg, bm)
	}
}

// Frame is everything a backend needs to draw one frame.
type Frame struct {
	Handles *scene.Handles
	State   *scene.State
	Stage   timeline.Stage
	Phase   timeline.Phase
	Paused  bool
}

// Player owns the scene lifecycle: an asynchronous one-shot load, then a
// paced per-frame stage computation. It is driven from a single redraw loop;
// only the load goroutine runs concurrently with it.
type Player struct {
	// OnPhaseChange and OnProgress are handed to the timeline controller
	// once the scene is ready.
	OnPhaseChange func(index int, phase timeline.Phase)
	OnProgress    func(fraction float64)

	tl   *timeline.Timeline
	step *core.FixedStep

	mu     sync.Mutex
	status Status
	err    error
	scene  *pipeline.Scene
	cancel context.CancelFunc
	done   chan struct{}

	ctrl  *timeline.Controller
	state scene.State
	frame Frame
}

// NewPlayer returns a player for tl redrawing at fps frames per second.
func NewPlayer(tl *timeline.Timeline, fps int) *Player {
	if tl == nil {
		tl = timeline.Default()
	}
	done := make(chan struct{})
	close(done)
	return &Player{tl: tl, step: core.NewFixedStep(fps), done: done}
}

// Start begins loading in the background. Calling Start again, or after
// Close, has no effect.
func (p *Player) Start(ctx context.Context, load LoadFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil || p.status == StatusClosed {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		sc, err := load(ctx)
		p.finish(sc, err)
	}(p.done)
}

func (p *Player) finish(sc *pipeline.Scene, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status != StatusLoading {
		return
	}
	switch {
	case err != nil:
		p.status = StatusFailed
		p.err = fmt.Errorf("%w: %w", ErrLoadFailed, err)
	case sc == nil || sc.Handles == nil:
		p.status = StatusFailed
		p.err = fmt.Errorf("%w: empty scene", ErrLoadFailed)
	default:
		p.status = StatusReady
		p.scene = sc
	}
}

// Wait blocks until the load started by Start has finished.
func (p *Player) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	<-done
}

// Status returns the lifecycle state and, when failed or closed, the error.
func (p *Player) Status() (Status, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status, p.err
}

// Scene returns the loaded scene, or nil before it is ready.
func (p *Player) Scene() *pipeline.Scene {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status != StatusReady {
		return nil
	}
	return p.scene
}

// Timeline returns the timeline being played.
func (p *Player) Timeline() *timeline.Timeline { return p.tl }

// Frame advances the animation to now and returns the frame to draw. ok is
// false until the scene is ready. Redraws beyond the target rate return the
// previous frame with only its paused flag updated.
func (p *Player) Frame(now time.Time, paused bool) (f Frame, ok bool) {
	sc := p.Scene()
	if sc == nil {
		return Frame{}, false
	}
	created := p.ctrl == nil
	if created {
		p.ctrl = timeline.NewController(p.tl, now)
		p.ctrl.OnPhaseChange = p.OnPhaseChange
		p.ctrl.OnProgress = p.OnProgress
	}
	// Every redraw reaches the clock. Only scene evaluation is paced.
	stage := p.ctrl.Frame(now, paused)
	if !p.step.ShouldStep(now) && !created {
		p.frame.Paused = paused
		return p.frame, true
	}
	if !paused || p.frame.State == nil {
		scene.Apply(sc.Handles, stage.Value, &p.state)
	}
	p.frame = Frame{Handles: sc.Handles, State: &p.state, Stage: stage, Paused: paused}
	if stage.Index < len(p.tl.Phases) {
		p.frame.Phase = p.tl.Phases[stage.Index]
	}
	return p.frame, true
}

// Restart rewinds the loop to its first phase.
func (p *Player) Restart(now time.Time) {
	if p.ctrl != nil {
		p.ctrl.Restart(now)
	}
}

// Close cancels any pending load and discards its result. Close is
// idempotent.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status == StatusClosed {
		return
	}
	if p.cancel != nil {
		p.cancel()
	}
	p.status = StatusClosed
	p.err = ErrClosed
	p.scene = nil
}
