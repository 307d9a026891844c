// Package imageio loads and saves raster buffers as standard image files.
//
// Supported formats are PNG, JPEG and BMP. Decoding normalizes every color
// model to 3-channel 8-bit RGB and drops any alpha channel before the
// buffer reaches the transform layer.
package imageio

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/nfnt/resize"

	"github.com/pixveil/pixveil/raster"
)

// jpegQuality is used for all JPEG output.
const jpegQuality = 95

// Load decodes an image file into an RGB buffer. The format is detected
// from the file contents, not the extension.
func Load(path string) (*raster.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return raster.FromImage(img)
}

// Save encodes the buffer to path. The encoder is chosen by extension:
// .jpg/.jpeg and .bmp are honored, anything else is written as PNG.
func Save(path string, b *raster.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating image file: %w", err)
	}

	img := b.Image()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	case ".bmp":
		err = bmp.Encode(f, img)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing image file: %w", err)
	}
	return nil
}

// Preview returns a copy of the buffer scaled to fit within maxDim on its
// longer side, preserving aspect ratio. Buffers already within bounds are
// returned as an unscaled copy.
func Preview(b *raster.Buffer, maxDim int) (*raster.Buffer, error) {
	if maxDim < 1 {
		return nil, fmt.Errorf("invalid preview dimension %d", maxDim)
	}
	if b.W <= maxDim && b.H <= maxDim {
		return b.Clone(), nil
	}
	scaled := resize.Thumbnail(uint(maxDim), uint(maxDim), b.Image(), resize.Lanczos3)
	return raster.FromImage(scaled)
}
