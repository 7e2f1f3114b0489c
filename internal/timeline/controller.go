package timeline

import "time"

// Controller advances a timeline once per display frame and notifies the
// host about phase changes and loop progress.
type Controller struct {
	tl    *Timeline
	clock *Clock

	// OnPhaseChange fires once each time the phase index changes.
	OnPhaseChange func(index int, phase Phase)
	// OnProgress fires every unpaused frame with the loop fraction.
	OnProgress func(fraction float64)

	lastPhase int
	current   Stage
}

// NewController starts a controller whose loop begins at now.
func NewController(tl *Timeline, now time.Time) *Controller {
	if tl == nil {
		tl = Default()
	}
	return &Controller{tl: tl, clock: NewClock(now), lastPhase: -1}
}

// Stage returns the stage computed by the last unpaused frame.
func (c *Controller) Stage() Stage { return c.current }

// Paused reports whether the last frame was paused.
func (c *Controller) Paused() bool { return c.clock.Paused() }

// Restart rewinds the loop to its start at now. The next frame reports
// phase 0 again.
func (c *Controller) Restart(now time.Time) {
	c.clock.Reset(now)
	c.lastPhase = -1
	c.current = Stage{}
}

// Frame advances to now. A paused frame freezes the clock and returns the
// previous stage without notifying.
func (c *Controller) Frame(now time.Time, paused bool) Stage {
	if paused {
		c.clock.Pause(now)
		return c.current
	}
	c.clock.Resume(now)
	loopT := c.tl.Wrap(c.clock.Elapsed(now).Seconds())
	c.current = c.tl.StageAt(loopT)
	if c.current.Index != c.lastPhase {
		c.lastPhase = c.current.Index
		if c.OnPhaseChange != nil && c.current.Index < len(c.tl.Phases) {
			c.OnPhaseChange(c.current.Index, c.tl.Phases[c.current.Index])
		}
	}
	if c.OnProgress != nil {
		c.OnProgress(c.current.Loop)
	}
	return c.current
}
