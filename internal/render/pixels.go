package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"geopipe/internal/core"
	"geopipe/internal/hexgrid"

	"github.com/golang/geo/r2"
	"golang.org/x/image/vector"
)

// CellImage paints the cells of g as filled hexagons onto a transparent w×h
// image in canvas coordinates. alpha scales each cell's opacity; a nil alpha
// paints every cell opaque.
func CellImage(g *hexgrid.Grid, w, h int, alpha []float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if g == nil {
		return img
	}
	var z vector.Rasterizer
	for i, c := range g.Cells {
		a := 1.0
		if alpha != nil && i < len(alpha) {
			a = alpha[i]
		}
		fillPolygon(img, &z, c.Vertices[:], c.Fill, a)
	}
	return img
}

// MaskImage paints cells flagged in mask with c, leaving the rest
// transparent.
func MaskImage(g *hexgrid.Grid, w, h int, mask []bool, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if g == nil {
		return img
	}
	var z vector.Rasterizer
	for i, cell := range g.Cells {
		if i < len(mask) && mask[i] {
			fillPolygon(img, &z, cell.Vertices[:], c, 1)
		}
	}
	return img
}

// fillPolygon rasterizes poly into a coverage mask over its bounding box and
// composites c at the given opacity through it.
func fillPolygon(dst draw.Image, z *vector.Rasterizer, poly []r2.Point, c color.RGBA, alpha float64) {
	sa := core.Clamp01(alpha) * float64(c.A) / 255
	if sa <= 0 || len(poly) < 3 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range poly {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	x0, y0 := int(math.Floor(minX)), int(math.Floor(minY))
	r := image.Rect(x0, y0, int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1)
	if !r.Overlaps(dst.Bounds()) {
		return
	}
	z.Reset(r.Dx(), r.Dy())
	z.MoveTo(float32(poly[0].X)-float32(x0), float32(poly[0].Y)-float32(y0))
	for _, p := range poly[1:] {
		z.LineTo(float32(p.X)-float32(x0), float32(p.Y)-float32(y0))
	}
	z.ClosePath()
	mask := image.NewAlpha(image.Rect(0, 0, r.Dx(), r.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(255*sa + 0.5)
	draw.DrawMask(dst, r, image.NewUniform(n), image.Point{}, mask, image.Point{}, draw.Over)
}
