package timeline

import "math"

// Stage is the timeline position at one instant.
type Stage struct {
	// Value is phase index plus progress through that phase.
	Value float64
	// Index is the current phase.
	Index int
	// Progress is the fraction of the current phase elapsed.
	Progress float64
	// Loop is the fraction of the whole period elapsed.
	Loop float64
}

// Wrap folds elapsed seconds into [0, Period).
func (tl *Timeline) Wrap(elapsed float64) float64 {
	period := tl.Period()
	if period <= 0 || elapsed < 0 {
		return 0
	}
	return math.Mod(elapsed, period)
}

// StageAt maps loop time in seconds to a Stage. During the leading hold the
// stage is pinned at phase 0 with no progress; past the last phase it stays
// on the last phase fully complete.
func (tl *Timeline) StageAt(loopT float64) Stage {
	period := tl.Period()
	loop := 0.0
	if period > 0 {
		loop = clamp01(loopT / period)
	}
	last := len(tl.Phases) - 1
	if last < 0 {
		return Stage{Loop: loop}
	}
	t := loopT - tl.HoldStart
	if t < 0 {
		return Stage{Loop: loop}
	}
	acc := 0.0
	for i, p := range tl.Phases {
		if t < acc+p.Duration {
			u := (t - acc) / math.Max(1e-9, p.Duration)
			return Stage{Value: float64(i) + u, Index: i, Progress: u, Loop: loop}
		}
		acc += p.Duration
	}
	return Stage{Value: float64(last), Index: last, Progress: 1, Loop: loop}
}
