package raster

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/imgio"
)

// EncodePNG returns the PNG bytes of img.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, img); err != nil {
		return nil, fmt.Errorf("raster: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURL embeds img as a base64 PNG data URL.
func DataURL(img image.Image) (string, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Save writes img as a PNG file.
func Save(path string, img image.Image) error {
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("raster: save %s: %w", path, err)
	}
	return nil
}
