// Package raster turns scalar fields into the color and hillshade images that
// form the terrain layer of the scene.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"geopipe/internal/core"
	"geopipe/internal/noise"
	"geopipe/internal/palette"

	"github.com/anthonynsimon/bild/blend"
)

const (
	grainAmplitude = 0.06

	reliefExaggeration = 2.7
	shadeGamma         = 1.1
	shadeFloor         = 0.62
	shadeRange         = 0.32
)

// Light is the unit vector pointing toward the illumination source, from the
// upper left and above.
var Light = lightVector(-0.85, -0.55, 0.75)

// Colorize maps every field sample through the ramp after perturbing it with
// a small grain-noise offset drawn from grainSeed.
func Colorize(field *core.Field, ramp *palette.Ramp, grainSeed int64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, field.W, field.H))
	grain := noise.Grain(field.W, field.H, grainSeed).Values()
	vals := field.Values()
	for i, v := range vals {
		t := core.Clamp01(float64(v) + (float64(grain[i])-0.5)*grainAmplitude)
		c := ramp.At(t)
		base := i * 4
		img.Pix[base+0] = c.R
		img.Pix[base+1] = c.G
		img.Pix[base+2] = c.B
		img.Pix[base+3] = 255
	}
	return img
}

// Hillshade lights the field as a height map. Output luminance stays within
// roughly 62%..94% so the image can be multiplied over a color layer.
func Hillshade(field *core.Field) *image.Gray {
	w, h := field.W, field.H
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dzdx := (field.At(x+1, y) - field.At(x-1, y)) * reliefExaggeration
			dzdy := (field.At(x, y+1) - field.At(x, y-1)) * reliefExaggeration
			nx, ny, nz := normalize(-dzdx, -dzdy, 1)
			shade := math.Max(0, nx*Light[0]+ny*Light[1]+nz*Light[2])
			shade = math.Pow(shade, shadeGamma)
			g := math.Round((shadeFloor + shade*shadeRange) * 255)
			img.Pix[y*img.Stride+x] = uint8(core.Clamp(g, 0, 255))
		}
	}
	return img
}

// Relief flattens the hillshade onto the color layer with a multiply blend at
// the given strength, for backends that cannot blend layers at draw time.
func Relief(colorLayer image.Image, shade image.Image, strength float64) *image.RGBA {
	white := image.NewRGBA(shade.Bounds())
	draw.Draw(white, white.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	softened := blend.Opacity(white, shade, core.Clamp01(strength))
	return blend.Multiply(colorLayer, softened)
}

func lightVector(x, y, z float64) [3]float64 {
	nx, ny, nz := normalize(x, y, z)
	return [3]float64{nx, ny, nz}
}

func normalize(x, y, z float64) (float64, float64, float64) {
	l := math.Sqrt(x*x + y*y + z*z)
	if l == 0 {
		return 0, 0, 1
	}
	return x / l, y / l, z / l
}
