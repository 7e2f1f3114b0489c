package core

// Rect is an axis-aligned rectangle in canvas coordinates.
type Rect struct {
	X, Y, W, H float64
}

// RectFromBounds builds a Rect from min/max corners.
func RectFromBounds(x0, y0, x1, y1 float64) Rect {
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// X1 returns the right edge.
func (r Rect) X1() float64 { return r.X + r.W }

// Y1 returns the bottom edge.
func (r Rect) Y1() float64 { return r.Y + r.H }

// Center returns the rectangle midpoint.
func (r Rect) Center() (float64, float64) { return r.X + r.W/2, r.Y + r.H/2 }

// Inset shrinks the rectangle by pad on every side.
func (r Rect) Inset(pad float64) Rect {
	return Rect{X: r.X + pad, Y: r.Y + pad, W: r.W - 2*pad, H: r.H - 2*pad}
}

// Outset grows the rectangle by pad on every side.
func (r Rect) Outset(pad float64) Rect { return r.Inset(-pad) }

// Perimeter returns 2(w+h).
func (r Rect) Perimeter() float64 { return 2 * (r.W + r.H) }

// LerpRect interpolates every component of a towards b.
func LerpRect(a, b Rect, t float64) Rect {
	return Rect{
		X: Lerp(a.X, b.X, t),
		Y: Lerp(a.Y, b.Y, t),
		W: Lerp(a.W, b.W, t),
		H: Lerp(a.H, b.H, t),
	}
}
