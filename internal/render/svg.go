// Package render draws scene display lists onto concrete surfaces.
package render

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"geopipe/internal/core"
	"geopipe/internal/geo"
	"geopipe/internal/palette"
	"geopipe/internal/raster"
	"geopipe/internal/scene"

	svg "github.com/ajstarks/svgo"
)

const (
	clipFrame  = "clip-frame"
	clipLand   = "clip-land"
	clipCoarse = "clip-hex-reveal"
	clipFine   = "clip-hex-hi-reveal"
)

// SVG renders frames as standalone SVG documents. Raster layers are
// embedded as PNG data URLs, encoded once per image key.
type SVG struct {
	images map[string]string
}

// NewSVG returns an SVG renderer with an empty image cache.
func NewSVG() *SVG {
	return &SVG{images: make(map[string]string)}
}

// Render writes one frame of h at the animated state st.
func (r *SVG) Render(w io.Writer, h *scene.Handles, st *scene.State) error {
	layers := scene.Commands(h, st)
	bw := bufio.NewWriter(w)
	canvas := svg.New(bw)
	canvas.Start(int(h.Canvas.W), int(h.Canvas.H), fmt.Sprintf(`viewBox="0 0 %s %s"`, num(h.Canvas.W), num(h.Canvas.H)))
	canvas.Path(rectPath(h.Canvas), "fill:"+palette.Hex(palette.Background))

	canvas.Def()
	clip(canvas, clipFrame, rectPath(h.Frame))
	clip(canvas, clipLand, geo.PathData(h.Coast, true))
	clip(canvas, clipCoarse, rectPath(st.CoarseReveal))
	clip(canvas, clipFine, rectPath(st.FineReveal))
	canvas.DefEnd()

	vp := st.Viewport
	canvas.Group(
		fmt.Sprintf(`transform="translate(%s,%s) scale(%s)"`, num(vp.TX), num(vp.TY), num(vp.S)),
		clipRef(clipFrame),
	)
	for _, l := range layers {
		if l.Viewport {
			if err := r.layer(canvas, l); err != nil {
				return err
			}
		}
	}
	canvas.Gend()
	for _, l := range layers {
		if !l.Viewport {
			if err := r.layer(canvas, l); err != nil {
				return err
			}
		}
	}
	canvas.End()
	return bw.Flush()
}

func (r *SVG) layer(canvas *svg.SVG, l scene.Layer) error {
	attrs := []string{fmt.Sprintf(`id="g-%s"`, l.Group)}
	if l.ClipLand {
		attrs = append(attrs, clipRef(clipLand))
	}
	canvas.Group(attrs...)
	if l.Reveal != nil {
		id := clipCoarse
		if l.Group == scene.GroupFine {
			id = clipFine
		}
		canvas.Group(clipRef(id))
	}
	for _, c := range l.Commands {
		if err := r.command(canvas, c); err != nil {
			return err
		}
	}
	if l.Reveal != nil {
		canvas.Gend()
	}
	canvas.Gend()
	return nil
}

func (r *SVG) command(canvas *svg.SVG, c scene.Command) error {
	switch c.Kind {
	case scene.KindImage:
		href, err := r.dataURL(c)
		if err != nil {
			return err
		}
		canvas.Image(int(c.Rect.X), int(c.Rect.Y), int(c.Rect.W), int(c.Rect.H), href,
			`preserveAspectRatio="none"`, style(c))
	case scene.KindRect:
		canvas.Path(rectPath(c.Rect), style(c))
	default:
		canvas.Path(c.PathData(), style(c))
	}
	return nil
}

func (r *SVG) dataURL(c scene.Command) (string, error) {
	if href, ok := r.images[c.ImageKey]; ok && c.ImageKey != "" {
		return href, nil
	}
	href, err := raster.DataURL(c.Image)
	if err != nil {
		return "", fmt.Errorf("encode %s layer: %w", c.ImageKey, err)
	}
	if c.ImageKey != "" {
		r.images[c.ImageKey] = href
	}
	return href, nil
}

func clip(canvas *svg.SVG, id, d string) {
	canvas.ClipPath(fmt.Sprintf(`id="%s"`, id), `clipPathUnits="userSpaceOnUse"`)
	canvas.Path(d)
	canvas.ClipEnd()
}

func clipRef(id string) string { return fmt.Sprintf(`clip-path="url(#%s)"`, id) }

// style renders a command's paint attributes as an inline CSS declaration.
func style(c scene.Command) string {
	var b strings.Builder
	decl := func(k, v string) {
		if b.Len() > 0 {
			b.WriteByte(';')
		}
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(v)
	}
	if c.Kind != scene.KindImage {
		if c.Fill.A > 0 {
			decl("fill", palette.Hex(c.Fill))
			if c.FillOpacity < 1 {
				decl("fill-opacity", num(c.FillOpacity))
			}
		} else {
			decl("fill", "none")
		}
		if c.Stroke.A > 0 && c.StrokeWidth > 0 {
			decl("stroke", palette.Hex(c.Stroke))
			decl("stroke-width", num(c.StrokeWidth))
			if c.StrokeOpacity > 0 && c.StrokeOpacity < 1 {
				decl("stroke-opacity", num(c.StrokeOpacity))
			}
			decl("vector-effect", "non-scaling-stroke")
		}
		if c.Dash != nil {
			decl("stroke-dasharray", num(c.Dash.Array))
			decl("stroke-dashoffset", num(c.Dash.Offset))
		}
		if c.Round {
			decl("stroke-linejoin", "round")
			decl("stroke-linecap", "round")
		}
	}
	decl("opacity", num(core.Clamp01(c.Opacity)))
	if c.Blend == scene.BlendMultiply {
		decl("mix-blend-mode", "multiply")
	}
	if c.Blur > 0 {
		decl("filter", "blur("+num(c.Blur)+"px)")
	}
	return b.String()
}

func rectPath(r core.Rect) string {
	return fmt.Sprintf("M %s %s H %s V %s H %s Z", num(r.X), num(r.Y), num(r.X1()), num(r.Y1()), num(r.X))
}

// num formats v with at most three decimals.
func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
