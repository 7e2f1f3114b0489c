//go:build ebiten

package render

import (
	"image"
	"image/color"
	"math"

	"geopipe/internal/core"
	"geopipe/internal/geo"
	"geopipe/internal/raster"
	"geopipe/internal/scene"

	"github.com/golang/geo/r2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// reliefStrength is the shade opacity relative to the terrain opacity at
// which the hillshade is baked into the terrain raster.
const reliefStrength = 0.38 / 0.92

// maxVertices flushes a triangle batch before 16-bit indices overflow.
const maxVertices = 1 << 15

// Painter draws scene display lists with ebiten. Land clipping goes through
// an offscreen layer masked with the projected coastline; blend modes the
// GPU path lacks are baked into the uploaded rasters.
type Painter struct {
	w, h  int
	layer *ebiten.Image
	mask  *ebiten.Image
	white *ebiten.Image

	handles *scene.Handles
	images  map[string]*ebiten.Image

	vs []ebiten.Vertex
	is []uint16
}

// NewPainter allocates a painter for a w×h canvas.
func NewPainter(w, h int) *Painter {
	p := &Painter{w: w, h: h, images: make(map[string]*ebiten.Image)}
	p.layer = ebiten.NewImage(w, h)
	p.mask = ebiten.NewImage(w, h)
	p.white = ebiten.NewImage(3, 3)
	p.white.Fill(color.White)
	return p
}

// Size returns the canvas dimensions.
func (p *Painter) Size() (int, int) { return p.w, p.h }

// Draw paints one frame of h at the animated state st onto dst.
func (p *Painter) Draw(dst *ebiten.Image, h *scene.Handles, st *scene.State) {
	if h == nil || st == nil {
		return
	}
	if p.handles != h {
		for _, img := range p.images {
			img.Dispose()
		}
		clear(p.images)
		p.handles = h
	}
	t := st.Viewport
	frame := toRectangle(transformRect(h.Frame, t)).Intersect(dst.Bounds())
	target := dst.SubImage(frame).(*ebiten.Image)

	landDrawn := false
	for _, l := range scene.Commands(h, st) {
		if !l.Viewport {
			p.drawLayer(dst, l, geo.Identity)
			continue
		}
		if !l.ClipLand && l.Reveal == nil {
			p.drawLayer(target, l, t)
			continue
		}
		if len(l.Commands) == 0 {
			continue
		}
		p.layer.Clear()
		p.drawLayer(p.layer, l, t)
		if l.ClipLand {
			if !landDrawn {
				p.drawLand(h.Coast, t)
				landDrawn = true
			}
			op := &ebiten.DrawImageOptions{}
			op.Blend = ebiten.BlendDestinationIn
			p.layer.DrawImage(p.mask, op)
		}
		src := p.layer
		op := &ebiten.DrawImageOptions{}
		if l.Reveal != nil {
			r := toRectangle(transformRect(*l.Reveal, t)).Intersect(p.layer.Bounds())
			if r.Empty() {
				continue
			}
			src = p.layer.SubImage(r).(*ebiten.Image)
			op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
		}
		target.DrawImage(src, op)
	}
}

func (p *Painter) drawLayer(dst *ebiten.Image, l scene.Layer, t geo.Transform) {
	for _, c := range l.Commands {
		switch c.Kind {
		case scene.KindImage:
			p.drawImage(dst, c, t)
		case scene.KindRect:
			ring := transformLine(rectRing(c.Rect), t)
			if c.Fill.A > 0 {
				p.fill(dst, [][]r2.Point{ring}, c.Fill, c.FillOpacity*c.Opacity)
			}
			lines := [][]r2.Point{ring}
			if c.Dash != nil {
				lines = dashRing(ring, c.Dash.Array*t.S, c.Dash.Offset*t.S)
			}
			p.stroke(dst, lines, false, c)
		default:
			lines := make([][]r2.Point, len(c.Lines))
			for i, line := range c.Lines {
				lines[i] = transformLine(line, t)
			}
			if c.Fill.A > 0 {
				p.fill(dst, lines, c.Fill, c.FillOpacity*c.Opacity)
			}
			p.stroke(dst, lines, c.Closed, c)
		}
	}
}

func (p *Painter) drawImage(dst *ebiten.Image, c scene.Command, t geo.Transform) {
	if c.Blend == scene.BlendMultiply || c.Image == nil {
		return
	}
	img, ok := p.images[c.ImageKey]
	if !ok || c.ImageKey == "" {
		src := c.Image
		if p.handles.Shade != nil {
			src = raster.Relief(src, p.handles.Shade, reliefStrength)
		}
		img = ebiten.NewImageFromImage(src)
		if c.ImageKey != "" {
			p.images[c.ImageKey] = img
		}
	}
	b := img.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Scale(c.Rect.W/float64(b.Dx()), c.Rect.H/float64(b.Dy()))
	op.GeoM.Translate(c.Rect.X, c.Rect.Y)
	op.GeoM.Scale(t.S, t.S)
	op.GeoM.Translate(t.TX, t.TY)
	op.ColorScale.ScaleAlpha(float32(core.Clamp01(c.Opacity)))
	dst.DrawImage(img, op)
}

func (p *Painter) drawLand(coast [][]r2.Point, t geo.Transform) {
	p.mask.Clear()
	var path vector.Path
	for _, ring := range coast {
		if len(ring) < 3 {
			continue
		}
		ring = transformLine(ring, t)
		path.MoveTo(float32(ring[0].X), float32(ring[0].Y))
		for _, pt := range ring[1:] {
			path.LineTo(float32(pt.X), float32(pt.Y))
		}
		path.Close()
	}
	p.vs, p.is = path.AppendVerticesAndIndicesForFilling(p.vs[:0], p.is[:0])
	p.flush(p.mask, color.RGBA{R: 255, G: 255, B: 255, A: 255}, 1, ebiten.EvenOdd)
}

func (p *Painter) fill(dst *ebiten.Image, lines [][]r2.Point, c color.RGBA, opacity float64) {
	if opacity <= 0 {
		return
	}
	var path vector.Path
	for _, line := range lines {
		if len(line) < 3 {
			continue
		}
		path.MoveTo(float32(line[0].X), float32(line[0].Y))
		for _, pt := range line[1:] {
			path.LineTo(float32(pt.X), float32(pt.Y))
		}
		path.Close()
	}
	p.vs, p.is = path.AppendVerticesAndIndicesForFilling(p.vs[:0], p.is[:0])
	p.flush(dst, c, opacity, ebiten.EvenOdd)
}

// stroke outlines lines. Blurred strokes are widened instead of filtered.
func (p *Painter) stroke(dst *ebiten.Image, lines [][]r2.Point, closed bool, c scene.Command) {
	if c.Stroke.A == 0 || c.StrokeWidth <= 0 {
		return
	}
	opacity := c.Opacity
	if c.StrokeOpacity > 0 {
		opacity *= c.StrokeOpacity
	}
	if opacity <= 0 {
		return
	}
	opts := &vector.StrokeOptions{Width: float32(c.StrokeWidth + c.Blur), MiterLimit: 4}
	if c.Round {
		opts.LineJoin = vector.LineJoinRound
		opts.LineCap = vector.LineCapRound
	}
	p.vs, p.is = p.vs[:0], p.is[:0]
	for _, line := range lines {
		if len(line) < 2 {
			continue
		}
		var path vector.Path
		path.MoveTo(float32(line[0].X), float32(line[0].Y))
		for _, pt := range line[1:] {
			path.LineTo(float32(pt.X), float32(pt.Y))
		}
		if closed {
			path.Close()
		}
		p.vs, p.is = path.AppendVerticesAndIndicesForStroke(p.vs, p.is, opts)
		if len(p.vs) > maxVertices {
			p.flush(dst, c.Stroke, opacity, ebiten.FillAll)
			p.vs, p.is = p.vs[:0], p.is[:0]
		}
	}
	p.flush(dst, c.Stroke, opacity, ebiten.FillAll)
}

// flush draws the pending triangles in a solid color.
func (p *Painter) flush(dst *ebiten.Image, c color.RGBA, opacity float64, rule ebiten.FillRule) {
	if len(p.is) == 0 {
		return
	}
	a := float32(core.Clamp01(opacity)) * float32(c.A) / 255
	for i := range p.vs {
		p.vs[i].SrcX = 1
		p.vs[i].SrcY = 1
		p.vs[i].ColorR = float32(c.R) / 255
		p.vs[i].ColorG = float32(c.G) / 255
		p.vs[i].ColorB = float32(c.B) / 255
		p.vs[i].ColorA = a
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true, FillRule: rule}
	dst.DrawTriangles(p.vs, p.is, p.white, op)
}

func transformLine(line []r2.Point, t geo.Transform) []r2.Point {
	out := make([]r2.Point, len(line))
	for i, pt := range line {
		x, y := t.Apply(pt.X, pt.Y)
		out[i] = r2.Point{X: x, Y: y}
	}
	return out
}

func transformRect(r core.Rect, t geo.Transform) core.Rect {
	x, y := t.Apply(r.X, r.Y)
	return core.Rect{X: x, Y: y, W: r.W * t.S, H: r.H * t.S}
}

func toRectangle(r core.Rect) image.Rectangle {
	return image.Rect(int(math.Floor(r.X)), int(math.Floor(r.Y)), int(math.Ceil(r.X1())), int(math.Ceil(r.Y1())))
}
