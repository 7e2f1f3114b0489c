package raster

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"

	"geopipe/internal/core"
	"geopipe/internal/noise"
	"geopipe/internal/palette"
)

func TestHillshadeStaysInBand(t *testing.T) {
	field := noise.Generate(120, 80, 3)
	shade := Hillshade(field)
	lo, hi := uint8(255), uint8(0)
	for _, g := range shade.Pix {
		lo = min(lo, g)
		hi = max(hi, g)
	}
	if lo < 158 || hi > 240 {
		t.Fatalf("hillshade range [%d,%d] escapes the 62%%..94%% band", lo, hi)
	}
}

func TestHillshadeFlatFieldIsUniform(t *testing.T) {
	field := core.NewField(16, 16)
	field.Fill(0.5)
	shade := Hillshade(field)
	first := shade.Pix[0]
	for i, g := range shade.Pix {
		if g != first {
			t.Fatalf("pixel %d = %d differs from %d on flat input", i, g, first)
		}
	}
}

func TestColorizeDeterministicAndOpaque(t *testing.T) {
	field := noise.Generate(40, 30, 11)
	a := Colorize(field, palette.Terrain, 11)
	b := Colorize(field, palette.Terrain, 11)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatal("Colorize should be deterministic for a fixed grain seed")
	}
	for i := 3; i < len(a.Pix); i += 4 {
		if a.Pix[i] != 255 {
			t.Fatalf("alpha at byte %d = %d, want opaque", i, a.Pix[i])
		}
	}
}

func TestReliefDarkensColor(t *testing.T) {
	field := noise.Generate(32, 32, 5)
	col := Colorize(field, palette.Terrain, 5)
	relief := Relief(col, Hillshade(field), 0.38)
	if relief.Bounds() != col.Bounds() {
		t.Fatalf("relief bounds %v, want %v", relief.Bounds(), col.Bounds())
	}
	for i := 0; i < len(col.Pix); i += 4 {
		if relief.Pix[i] > col.Pix[i]+1 {
			t.Fatalf("multiply blend brightened byte %d: %d > %d", i, relief.Pix[i], col.Pix[i])
		}
	}
}

func TestDataURLRoundTrip(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 3))
	url, err := DataURL(img)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Fatalf("unexpected data url prefix %q", url[:24])
	}
	raw, err := EncodePNG(img)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("png decode: %v", err)
	}
	if decoded.Bounds().Dx() != 4 || decoded.Bounds().Dy() != 3 {
		t.Fatalf("decoded bounds %v", decoded.Bounds())
	}
}
