package app

import (
	"flag"
	"strings"

	"geopipe/internal/pipeline"
)

// Config represents the command-line parameters of the viewer.
type Config struct {
	FPS       int
	Scale     float64
	Countries string
	Land      string
	Timeline  string
	Overrides kvList
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{FPS: 60, Scale: 1}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.FPS, "fps", c.FPS, "redraws per second")
	fs.Float64Var(&c.Scale, "scale", c.Scale, "window scale multiplier")
	fs.StringVar(&c.Countries, "countries", c.Countries, "countries TopoJSON/GeoJSON url or file (default world-atlas)")
	fs.StringVar(&c.Land, "land", c.Land, "land TopoJSON/GeoJSON url or file (default world-atlas)")
	fs.StringVar(&c.Timeline, "timeline", c.Timeline, "YAML file overriding phase labels and durations")
	fs.Var(&c.Overrides, "set", "pipeline parameter override in key=value form (repeatable)")
}

// Pipeline resolves the pipeline configuration from the overrides and the
// source flags. Flags win over -set entries for the same key.
func (c *Config) Pipeline() pipeline.Config {
	m := c.Overrides.Map()
	for key, v := range map[string]string{"countries": c.Countries, "land": c.Land, "timeline": c.Timeline} {
		if v != "" {
			m[key] = v
		}
	}
	return pipeline.FromMap(m)
}

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

// Map returns the well-formed key=value entries, later entries winning.
func (l kvList) Map() map[string]string {
	m := make(map[string]string, len(l))
	for _, kv := range l {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		m[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return m
}
