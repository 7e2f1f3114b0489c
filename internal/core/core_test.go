package core

import (
	"math"
	"testing"
	"time"
)

func TestFieldSampleConstantIsExact(t *testing.T) {
	f := NewField(7, 5)
	f.Fill(1)
	for _, p := range [][2]float64{{0, 0}, {0.3, 0.7}, {3.1, 2.9}, {5.999, 3.5}, {-4, 100}} {
		if got := f.Sample(p[0], p[1]); got != 1 {
			t.Fatalf("Sample(%v) on constant field = %v, want exactly 1", p, got)
		}
	}
}

func TestFieldSampleInterpolatesAndClamps(t *testing.T) {
	f := NewField(2, 1)
	f.Values()[0] = 0
	f.Values()[1] = 1
	if got := f.Sample(0.25, 0); math.Abs(got-0.25) > 1e-9 {
		t.Fatalf("expected 0.25 at quarter point, got %f", got)
	}
	if got := f.Sample(-3, 0); got != 0 {
		t.Fatalf("expected left edge clamp 0, got %f", got)
	}
	if got := f.Sample(9, 0); got != 1 {
		t.Fatalf("expected right edge clamp 1, got %f", got)
	}
}

func TestClampHandlesNaN(t *testing.T) {
	if got := Clamp01(math.NaN()); got != 0 {
		t.Fatalf("Clamp01(NaN) = %v, want 0", got)
	}
	if got := Clamp01(2); got != 1 {
		t.Fatalf("Clamp01(2) = %v, want 1", got)
	}
}

func TestHash2DeterministicAndBounded(t *testing.T) {
	for x := -50.0; x < 1700; x += 37.3 {
		for y := -20.0; y < 920; y += 41.1 {
			a := Hash2(x, y)
			if a != Hash2(x, y) {
				t.Fatalf("Hash2(%f,%f) not deterministic", x, y)
			}
			if a < 0 || a >= 1 {
				t.Fatalf("Hash2(%f,%f) = %f out of [0,1)", x, y, a)
			}
		}
	}
	if Hash2(10, 20) == Hash2(20, 10) {
		t.Fatal("Hash2 should not be symmetric for these inputs")
	}
}

func TestRNGDeterministic(t *testing.T) {
	a := make([]float32, 64)
	b := make([]float32, 64)
	NewRNG(7).FillUniform(a)
	NewRNG(7).FillUniform(b)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("index %d differs: %f vs %f", i, a[i], b[i])
		}
	}
}

func TestFixedStepPacesFrames(t *testing.T) {
	fs := NewFixedStep(10)
	start := time.Unix(100, 0)
	if !fs.ShouldStep(start) {
		t.Fatal("first call should step immediately")
	}
	if fs.ShouldStep(start.Add(50 * time.Millisecond)) {
		t.Fatal("half a frame later should not step")
	}
	if !fs.ShouldStep(start.Add(100 * time.Millisecond)) {
		t.Fatal("one frame later should step")
	}
	// A long stall yields at most two frames of catch-up.
	later := start.Add(5 * time.Second)
	steps := 0
	for i := 0; i < 5; i++ {
		if fs.ShouldStep(later) {
			steps++
		}
	}
	if steps > 2 {
		t.Fatalf("stall produced %d catch-up frames", steps)
	}
}

func TestLerpRect(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	b := Rect{X: 10, Y: 20, W: 30, H: 40}
	mid := LerpRect(a, b, 0.5)
	if mid != (Rect{X: 5, Y: 10, W: 20, H: 25}) {
		t.Fatalf("unexpected midpoint rect %+v", mid)
	}
}
