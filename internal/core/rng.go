package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// FillUniform fills buf with uniform values in [0, 1).
func (r *RNG) FillUniform(buf []float32) {
	for i := range buf {
		buf[i] = float32(r.r.Float64())
	}
}

// Hash2 maps a 2D coordinate to a pseudo-random value in [0, 1). The input is
// quantized to tenths so nearby points hash identically across runs.
func Hash2(x, y float64) float64 {
	h := int32(floorInt(x*10))*374761393 ^ int32(floorInt(y*10))*668265263
	h = (h ^ (h >> 13)) * 1274126177
	return float64(uint32(h^(h>>16))) / 4294967296
}

func floorInt(v float64) int64 {
	i := int64(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return i
}
