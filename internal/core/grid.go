package core

// Field stores a 2D grid of scalar samples in row-major order. Values are
// expected to lie in [0, 1]; producers clamp before storing.
type Field struct {
	W, H int
	data []float32
}

// NewField allocates a zeroed field with the given dimensions.
func NewField(w, h int) *Field {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Field{W: w, H: h, data: make([]float32, w*h)}
}

// Values exposes the backing slice so producers can fill it directly.
func (f *Field) Values() []float32 { return f.data }

// Index returns the linear slice index for coordinates (x, y).
func (f *Field) Index(x, y int) int { return y*f.W + x }

// At returns the sample at (x, y) with coordinates clamped to the grid.
func (f *Field) At(x, y int) float64 {
	x = clampInt(x, 0, f.W-1)
	y = clampInt(y, 0, f.H-1)
	return float64(f.data[y*f.W+x])
}

// Sample bilinearly interpolates the field at fractional grid coordinates.
// Coordinates outside the grid saturate to the nearest edge.
func (f *Field) Sample(fx, fy float64) float64 {
	fx = Clamp(fx, 0, float64(f.W-1))
	fy = Clamp(fy, 0, float64(f.H-1))
	x0, y0 := int(fx), int(fy)
	x1 := min(f.W-1, x0+1)
	y1 := min(f.H-1, y0+1)
	tx, ty := fx-float64(x0), fy-float64(y0)

	a := Lerp(f.At(x0, y0), f.At(x1, y0), tx)
	b := Lerp(f.At(x0, y1), f.At(x1, y1), tx)
	return Lerp(a, b, ty)
}

// Map returns a new field with fn applied to every sample.
func (f *Field) Map(fn func(float64) float64) *Field {
	out := &Field{W: f.W, H: f.H, data: make([]float32, len(f.data))}
	for i, v := range f.data {
		out.data[i] = float32(fn(float64(v)))
	}
	return out
}

// Fill sets every sample to v.
func (f *Field) Fill(v float64) {
	for i := range f.data {
		f.data[i] = float32(v)
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
