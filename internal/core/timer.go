package core

import "time"

// FixedStep helps run redraws at a steady frames-per-second rate when the
// host loop ticks faster than the requested rate.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given FPS.
func NewFixedStep(fps int) *FixedStep {
	if fps <= 0 {
		fps = 60
	}
	fs := &FixedStep{}
	fs.SetFPS(fps)
	fs.accumulator = fs.step
	return fs
}

// SetFPS changes the frame rate. It is safe to call from the main loop.
func (f *FixedStep) SetFPS(fps int) {
	if fps <= 0 {
		fps = 60
	}
	f.step = time.Second / time.Duration(fps)
}

// ShouldStep reports whether a frame is due at now. Time that accrues while
// the host stalls is capped at one frame so a long hitch never produces a
// burst of catch-up frames.
func (f *FixedStep) ShouldStep(now time.Time) bool {
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		if f.accumulator > f.step {
			f.accumulator = f.step
		}
		return true
	}
	return false
}
