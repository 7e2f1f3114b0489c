package timeline

import "time"

// Clock measures elapsed animation time and freezes while paused. Resuming
// shifts the origin forward by the paused span, so the animation continues
// exactly where it stopped. Pause and Resume are idempotent.
type Clock struct {
	origin   time.Time
	pausedAt time.Time
	paused   bool
}

// NewClock starts a clock at now.
func NewClock(now time.Time) *Clock {
	return &Clock{origin: now}
}

// Reset restarts the clock at now, clearing any pause.
func (c *Clock) Reset(now time.Time) {
	c.origin = now
	c.paused = false
	c.pausedAt = time.Time{}
}

// Pause freezes elapsed time at now.
func (c *Clock) Pause(now time.Time) {
	if c.paused {
		return
	}
	c.paused = true
	c.pausedAt = now
}

// Resume unfreezes the clock at now.
func (c *Clock) Resume(now time.Time) {
	if !c.paused {
		return
	}
	c.origin = c.origin.Add(now.Sub(c.pausedAt))
	c.paused = false
}

// Paused reports whether the clock is frozen.
func (c *Clock) Paused() bool { return c.paused }

// Elapsed returns running time up to now, excluding paused spans.
func (c *Clock) Elapsed(now time.Time) time.Duration {
	if c.paused {
		now = c.pausedAt
	}
	if now.Before(c.origin) {
		return 0
	}
	return now.Sub(c.origin)
}
