// Package timeline maps wall-clock time onto the looping seven-phase stage
// value that drives every animated attribute.
package timeline

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// PhaseCount is the number of phases the scene choreography expects.
const PhaseCount = 7

// ErrInvalidTimeline reports a timeline that cannot drive the scene.
var ErrInvalidTimeline = errors.New("timeline: invalid timeline")

// Phase is one captioned step of the loop.
type Phase struct {
	Kicker   string  `yaml:"kicker"`
	Title    string  `yaml:"title"`
	Body     string  `yaml:"body"`
	Duration float64 `yaml:"duration"`
}

// Timeline is an ordered list of phases framed by a leading and trailing hold,
// all in seconds.
type Timeline struct {
	Phases    []Phase `yaml:"phases"`
	HoldStart float64 `yaml:"hold_start"`
	HoldEnd   float64 `yaml:"hold_end"`
}

// Default returns the stock seven-phase timeline.
func Default() *Timeline {
	return &Timeline{
		HoldStart: 1.2,
		HoldEnd:   1.0,
		Phases: []Phase{
			{Kicker: "Data Integration", Title: "Global geological basemap", Body: "Coastlines, borders, and terrain establish the spatial foundation for analysis.", Duration: 3.0},
			{Kicker: "Data Integration", Title: "Raster data overlay", Body: "Geophysical datasets are integrated and clipped to land boundaries.", Duration: 2.8},
			{Kicker: "Feature Engineering", Title: "H3 hexagonal tiling", Body: "Coarse hex cells sample the data to create a discrete spatial feature grid.", Duration: 3.0},
			{Kicker: "Deep Learning", Title: "Region of interest", Body: "Target areas are identified for focused, higher-fidelity analysis.", Duration: 2.8},
			{Kicker: "Deep Learning", Title: "Zoom and enhance", Body: "The model focuses on promising regions with increased spatial resolution.", Duration: 3.2},
			{Kicker: "Deep Learning", Title: "Probability heatmap", Body: "Neural networks generate granular probability estimates across the region.", Duration: 3.4},
			{Kicker: "Predictions", Title: "Target identification", Body: "High-probability zones are merged into actionable exploration targets.", Duration: 3.6},
		},
	}
}

// Period is the loop length: holds plus every phase duration.
func (tl *Timeline) Period() float64 {
	total := tl.HoldStart + tl.HoldEnd
	for _, p := range tl.Phases {
		total += p.Duration
	}
	return total
}

// Validate checks the phase count and that all durations are usable.
func (tl *Timeline) Validate() error {
	if len(tl.Phases) != PhaseCount {
		return fmt.Errorf("%w: %d phases, want %d", ErrInvalidTimeline, len(tl.Phases), PhaseCount)
	}
	for i, p := range tl.Phases {
		if !(p.Duration > 0) || math.IsInf(p.Duration, 0) {
			return fmt.Errorf("%w: phase %d duration %v", ErrInvalidTimeline, i, p.Duration)
		}
	}
	if !(tl.HoldStart >= 0) || !(tl.HoldEnd >= 0) {
		return fmt.Errorf("%w: negative hold", ErrInvalidTimeline)
	}
	return nil
}

// Parse decodes a YAML timeline over the defaults. Phases listed in the
// document replace the default phase at the same position field by field;
// empty labels and zero durations keep the default.
func Parse(data []byte) (*Timeline, error) {
	var doc struct {
		Phases    []Phase  `yaml:"phases"`
		HoldStart *float64 `yaml:"hold_start"`
		HoldEnd   *float64 `yaml:"hold_end"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeline, err)
	}
	tl := Default()
	if doc.HoldStart != nil {
		tl.HoldStart = *doc.HoldStart
	}
	if doc.HoldEnd != nil {
		tl.HoldEnd = *doc.HoldEnd
	}
	if len(doc.Phases) > PhaseCount {
		return nil, fmt.Errorf("%w: %d phases, want at most %d", ErrInvalidTimeline, len(doc.Phases), PhaseCount)
	}
	for i, p := range doc.Phases {
		dst := &tl.Phases[i]
		if p.Kicker != "" {
			dst.Kicker = p.Kicker
		}
		if p.Title != "" {
			dst.Title = p.Title
		}
		if p.Body != "" {
			dst.Body = p.Body
		}
		if p.Duration != 0 {
			dst.Duration = p.Duration
		}
	}
	if err := tl.Validate(); err != nil {
		return nil, err
	}
	return tl, nil
}

// Load reads a YAML timeline file. An empty path returns the defaults.
func Load(path string) (*Timeline, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timeline: %w", err)
	}
	tl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tl, nil
}
