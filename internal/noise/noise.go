// Package noise synthesizes smooth pseudo-random scalar fields from layered
// value noise. Every field is a pure function of its dimensions and seed.
package noise

import (
	"math"

	"geopipe/internal/core"
)

// Octave describes one value-noise layer of a fractal sum.
type Octave struct {
	Cell       float64
	Amplitude  float64
	SeedOffset int64
}

// Octaves is the layer stack used for terrain-like fields, coarse to fine.
var Octaves = []Octave{
	{Cell: 320, Amplitude: 1.0, SeedOffset: 11},
	{Cell: 180, Amplitude: 0.7, SeedOffset: 23},
	{Cell: 110, Amplitude: 0.48, SeedOffset: 37},
	{Cell: 70, Amplitude: 0.3, SeedOffset: 51},
	{Cell: 42, Amplitude: 0.18, SeedOffset: 67},
	{Cell: 26, Amplitude: 0.1, SeedOffset: 83},
}

const (
	// GrainCell is the lattice spacing of the texture grain layer.
	GrainCell = 14
	// GrainSeedOffset separates the grain lattice from the field's own seed.
	GrainSeedOffset = 999

	contrast = 1.35
	// latticePad keeps interpolation inside the generated lattice.
	latticePad = 2
)

// ValueNoise renders a single lattice of seeded uniform values, interpolated
// with smoothstep weights, at the given cell size.
func ValueNoise(w, h int, cell float64, seed int64) *core.Field {
	out := core.NewField(w, h)
	if cell <= 0 {
		cell = 1
	}
	gx := int(math.Ceil(float64(out.W)/cell)) + latticePad
	gy := int(math.Ceil(float64(out.H)/cell)) + latticePad
	lattice := make([]float32, gx*gy)
	core.NewRNG(seed).FillUniform(lattice)

	vals := out.Values()
	for y := 0; y < out.H; y++ {
		fy := float64(y) / cell
		j := int(fy)
		wy := core.Smoothstep(fy - float64(j))
		for x := 0; x < out.W; x++ {
			fx := float64(x) / cell
			i := int(fx)
			wx := core.Smoothstep(fx - float64(i))

			v00 := float64(lattice[j*gx+i])
			v10 := float64(lattice[j*gx+i+1])
			v01 := float64(lattice[(j+1)*gx+i])
			v11 := float64(lattice[(j+1)*gx+i+1])
			top := v00*(1-wx) + v10*wx
			bottom := v01*(1-wx) + v11*wx
			vals[y*out.W+x] = float32(top*(1-wy) + bottom*wy)
		}
	}
	return out
}

// Generate sums the octave stack, normalizes by total amplitude and applies a
// contrast curve that pushes values away from mid-gray.
func Generate(w, h int, seed int64) *core.Field {
	return GenerateOctaves(w, h, seed, Octaves)
}

// GenerateOctaves is Generate with an explicit layer stack.
func GenerateOctaves(w, h int, seed int64, octaves []Octave) *core.Field {
	out := core.NewField(w, h)
	accum := make([]float64, out.W*out.H)
	ampSum := 0.0
	for _, o := range octaves {
		layer := ValueNoise(out.W, out.H, o.Cell, seed+o.SeedOffset).Values()
		ampSum += o.Amplitude
		for k, v := range layer {
			accum[k] += float64(v) * o.Amplitude
		}
	}
	if ampSum <= 0 {
		ampSum = 1
	}
	vals := out.Values()
	for k, v := range accum {
		vals[k] = float32(shape(v / ampSum))
	}
	return out
}

// Grain returns the fine texture layer blended in at colorization time.
func Grain(w, h int, seed int64) *core.Field {
	return ValueNoise(w, h, GrainCell, seed+GrainSeedOffset)
}

func shape(v float64) float64 {
	v = (v-0.5)*contrast + 0.5
	return core.Smoothstep(core.Clamp01(v))
}
