// Package pipeline assembles the scene: fields, rasters, basemap geometry,
// both hex grids and the hotspot outlines.
package pipeline

import (
	"strconv"

	"geopipe/internal/basemap"
	"geopipe/internal/core"
	"geopipe/internal/geo"
)

// Config holds every tunable of the scene build.
type Config struct {
	FieldW int
	FieldH int

	DEMSeed  int64
	HeatSeed int64

	CoarseRadius float64
	FineRadius   float64
	FinePad      float64
	ZoomPad      float64
	HotQuantile  float64

	Search geo.Search

	Countries string
	Land      string
	Timeline  string
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	src := basemap.DefaultSource()
	return Config{
		FieldW:       1300,
		FieldH:       730,
		DEMSeed:      1337,
		HeatSeed:     4242,
		CoarseRadius: 7.2,
		FineRadius:   3.0,
		FinePad:      30,
		ZoomPad:      18,
		HotQuantile:  0.92,
		Search:       geo.DefaultSearch(),
		Countries:    src.Countries,
		Land:         src.Land,
	}
}

// Source returns the basemap source named by the config.
func (c Config) Source() basemap.Source {
	return basemap.Source{Countries: c.Countries, Land: c.Land}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unparsable or out-of-range values keep the default.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["field_w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 1 {
			c.FieldW = parsed
		}
	}
	if v, ok := cfg["field_h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 1 {
			c.FieldH = parsed
		}
	}
	if v, ok := cfg["dem_seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.DEMSeed = parsed
		}
	}
	if v, ok := cfg["heat_seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.HeatSeed = parsed
		}
	}
	if v, ok := cfg["coarse_radius"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 1 {
			c.CoarseRadius = parsed
		}
	}
	if v, ok := cfg["fine_radius"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 1 {
			c.FineRadius = parsed
		}
	}
	if v, ok := cfg["fine_pad"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.FinePad = parsed
		}
	}
	if v, ok := cfg["zoom_pad"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.ZoomPad = parsed
		}
	}
	if v, ok := cfg["hot_quantile"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.HotQuantile = parsed
		}
	}
	if v, ok := cfg["box_w"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Search.WidthDeg = parsed
		}
	}
	if v, ok := cfg["box_h"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Search.HeightDeg = parsed
		}
	}
	if v, ok := cfg["box_step"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Search.StepDeg = parsed
		}
	}
	window := c.Search.Window
	for key, dst := range map[string]*float64{
		"search_lon0": &window.Lon0,
		"search_lat0": &window.Lat0,
		"search_lon1": &window.Lon1,
		"search_lat1": &window.Lat1,
	} {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = parsed
			}
		}
	}
	if window.Valid() {
		c.Search.Window = window
	}
	if v, ok := cfg["countries"]; ok && v != "" {
		c.Countries = v
	}
	if v, ok := cfg["land"]; ok && v != "" {
		c.Land = v
	}
	if v, ok := cfg["timeline"]; ok {
		c.Timeline = v
	}
	return c
}

// Parameters describes the config for display.
func (c Config) Parameters() core.ParameterSnapshot {
	w := c.Search.Window
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Fields",
			Params: []core.Parameter{
				core.IntParam("field_w", "Field width", c.FieldW),
				core.IntParam("field_h", "Field height", c.FieldH),
				core.Int64Param("dem_seed", "Terrain seed", c.DEMSeed),
				core.Int64Param("heat_seed", "Heat seed", c.HeatSeed),
			},
		},
		{
			Name: "Grids",
			Params: []core.Parameter{
				core.FloatParam("coarse_radius", "Coarse radius", c.CoarseRadius),
				core.FloatParam("fine_radius", "Fine radius", c.FineRadius),
				core.FloatParam("fine_pad", "Fine padding", c.FinePad),
				core.FloatParam("hot_quantile", "Hot quantile", c.HotQuantile),
			},
		},
		{
			Name: "Region search",
			Params: []core.Parameter{
				core.FloatParam("search_lon0", "West", w.Lon0),
				core.FloatParam("search_lon1", "East", w.Lon1),
				core.FloatParam("search_lat0", "South", w.Lat0),
				core.FloatParam("search_lat1", "North", w.Lat1),
				core.FloatParam("box_w", "Box width", c.Search.WidthDeg),
				core.FloatParam("box_h", "Box height", c.Search.HeightDeg),
			},
		},
		{
			Name: "Sources",
			Params: []core.Parameter{
				core.StringParam("countries", "Countries", c.Countries),
				core.StringParam("land", "Land", c.Land),
				core.StringParam("timeline", "Timeline", c.Timeline),
			},
		},
	}}
}
