// Package raster provides the fixed-layout RGB pixel buffer that the
// transform and package layers operate on.
//
// A Buffer is always height x width x 3 channels of 8-bit samples, stored
// row-major. Any source alpha channel is dropped during conversion from a
// standard image; transforms never mutate a Buffer in place.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
)

// Channels is the fixed channel count of every Buffer (RGB, no alpha).
const Channels = 3

// Buffer is a height x width x 3 array of 8-bit color samples.
// Pix holds the samples row-major: Pix[(y*W+x)*3+c].
type Buffer struct {
	H, W int
	Pix  []uint8
}

// New allocates a zeroed Buffer of the given dimensions.
func New(h, w int) (*Buffer, error) {
	if h < 1 || w < 1 {
		return nil, fmt.Errorf("invalid buffer dimensions %dx%d", h, w)
	}
	return &Buffer{H: h, W: w, Pix: make([]uint8, h*w*Channels)}, nil
}

// FromPix wraps an existing sample slice as a Buffer. The slice is not
// copied; it must hold exactly h*w*3 samples.
func FromPix(h, w int, pix []uint8) (*Buffer, error) {
	if h < 1 || w < 1 {
		return nil, fmt.Errorf("invalid buffer dimensions %dx%d", h, w)
	}
	if len(pix) != h*w*Channels {
		return nil, fmt.Errorf("pixel data length %d does not match %dx%dx%d", len(pix), h, w, Channels)
	}
	return &Buffer{H: h, W: w, Pix: pix}, nil
}

// At returns the sample at row y, column x, channel c.
func (b *Buffer) At(y, x, c int) uint8 {
	return b.Pix[(y*b.W+x)*Channels+c]
}

// Set stores the sample at row y, column x, channel c.
func (b *Buffer) Set(y, x, c int, v uint8) {
	b.Pix[(y*b.W+x)*Channels+c] = v
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{H: b.H, W: b.W, Pix: pix}
}

// Equal reports whether two buffers have identical dimensions and samples.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.H == o.H && b.W == o.W && bytes.Equal(b.Pix, o.Pix)
}

// FromImage converts any image to an RGB Buffer. Color models are
// normalized to non-premultiplied 8-bit RGB and alpha is discarded.
func FromImage(img image.Image) (*Buffer, error) {
	bounds := img.Bounds()
	h, w := bounds.Dy(), bounds.Dx()
	out, err := New(h, w)
	if err != nil {
		return nil, fmt.Errorf("cannot convert %dx%d image: %w", w, h, err)
	}

	// Fast path for the decoders we register, which produce *image.NRGBA.
	if src, ok := img.(*image.NRGBA); ok {
		i := 0
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			row := src.Pix[(y-bounds.Min.Y)*src.Stride:]
			for x := 0; x < w; x++ {
				out.Pix[i] = row[x*4]
				out.Pix[i+1] = row[x*4+1]
				out.Pix[i+2] = row[x*4+2]
				i += 3
			}
		}
		return out, nil
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.Pix[i] = c.R
			out.Pix[i+1] = c.G
			out.Pix[i+2] = c.B
			i += 3
		}
	}
	return out, nil
}

// Image returns the buffer as an opaque *image.NRGBA for encoding.
func (b *Buffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.W, b.H))
	i := 0
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			o := y*img.Stride + x*4
			img.Pix[o] = b.Pix[i]
			img.Pix[o+1] = b.Pix[i+1]
			img.Pix[o+2] = b.Pix[i+2]
			img.Pix[o+3] = 0xff
			i += 3
		}
	}
	return img
}
