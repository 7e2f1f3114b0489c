package palette

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Stroke colors of the scene layers, specified in HSL.
var (
	Graticule    = hsl(200, 0.12, 0.32)
	Coast        = hsl(170, 0.30, 0.42)
	Border       = hsl(200, 0.12, 0.36)
	HexBorder    = hsl(200, 0.12, 0.32)
	CoarseStroke = hsl(170, 0.28, 0.38)
	Accent       = hsl(16, 0.60, 0.52)
	AccentGlow   = hsl(16, 0.55, 0.50)
	HotStroke    = hsl(16, 0.55, 0.65)
	ColdStroke   = hsl(200, 0.12, 0.28)
	Background   = hsl(210, 0.20, 0.11)
)

func hsl(h, s, l float64) color.RGBA {
	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}
