package ui

import (
	"fmt"
	"strings"

	"geopipe/internal/core"
)

// Info is what the HUD shows for one frame.
type Info struct {
	Kicker string
	Title  string
	Body   string
	// Phase is the current phase index out of Phases.
	Phase, Phases int
	// Progress is the loop fraction in [0,1].
	Progress float64
	// Status replaces the phase text while loading or after a failure.
	Status string
	Paused bool
	Params core.ParameterSnapshot
}

// StatusLine summarizes the playback state.
func (i Info) StatusLine() string {
	switch {
	case i.Status != "":
		return i.Status
	case i.Paused:
		if seed, ok := i.Params.Lookup("dem_seed"); ok {
			return fmt.Sprintf("paused  %d/%d  seed %s", i.Phase+1, i.Phases, seed.Value)
		}
		return fmt.Sprintf("paused  %d/%d", i.Phase+1, i.Phases)
	default:
		return fmt.Sprintf("phase %d/%d  %3.0f%%", i.Phase+1, i.Phases, 100*core.Clamp01(i.Progress))
	}
}

// wrap breaks s into lines of at most width runes, splitting on spaces.
// Words longer than width get a line of their own.
func wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	var line strings.Builder
	n := 0
	for _, word := range strings.Fields(s) {
		w := len([]rune(word))
		if n > 0 && n+1+w > width {
			lines = append(lines, line.String())
			line.Reset()
			n = 0
		}
		if n > 0 {
			line.WriteByte(' ')
			n++
		}
		line.WriteString(word)
		n += w
	}
	if n > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// paramLines formats a snapshot as "label  value" rows under group headers.
func paramLines(s core.ParameterSnapshot) []string {
	var out []string
	for _, g := range s.Groups {
		out = append(out, strings.ToUpper(g.Name))
		for _, p := range g.Params {
			out = append(out, fmt.Sprintf("  %-14s %s", p.Label, p.Value))
		}
	}
	return out
}
