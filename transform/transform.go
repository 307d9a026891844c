// Package transform implements the catalog of reversible pixel transforms.
//
// Every transform in the catalog is pure (the input buffer is never
// mutated), total over valid buffers, and self-inverse: applying the same
// method twice restores the original samples exactly.
package transform

import (
	"errors"
	"fmt"

	"github.com/pixveil/pixveil/raster"
)

// Method identifies a transform in the catalog.
type Method int

const (
	// Mirror reverses the pixel columns of every row (horizontal flip).
	// Its wire name is "xor" for compatibility with existing packages,
	// a misnomer inherited from the original naming scheme.
	Mirror Method = iota

	// Invert replaces every sample v with 255-v.
	Invert
)

// ErrUnknownMethod is returned when a method name or value is not in the
// catalog. Unknown methods are an error, never a silent identity copy.
var ErrUnknownMethod = errors.New("unknown transform method")

// String returns the wire name of the method as stored in packages.
func (m Method) String() string {
	switch m {
	case Mirror:
		return "xor"
	case Invert:
		return "invert"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Inverse returns the method that reverses m. All catalog methods are
// currently self-inverse, so Inverse returns m itself; callers should still
// reverse through Inverse so future paired transforms slot in unchanged.
func (m Method) Inverse() Method {
	return m
}

// ParseMethod maps a wire name to its Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "xor":
		return Mirror, nil
	case "invert":
		return Invert, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// Methods returns the wire names of all catalog methods.
func Methods() []string {
	return []string{Mirror.String(), Invert.String()}
}

// Apply runs the named transform over the buffer and returns a new buffer.
// The input is never modified. An out-of-catalog method yields
// ErrUnknownMethod.
func Apply(b *raster.Buffer, m Method) (*raster.Buffer, error) {
	switch m {
	case Mirror:
		return mirror(b), nil
	case Invert:
		return invert(b), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMethod, m)
	}
}

func invert(b *raster.Buffer) *raster.Buffer {
	out := b.Clone()
	for i, v := range out.Pix {
		out.Pix[i] = 255 - v
	}
	return out
}

func mirror(b *raster.Buffer) *raster.Buffer {
	out := b.Clone()
	rowLen := b.W * raster.Channels
	for y := 0; y < b.H; y++ {
		row := b.Pix[y*rowLen : (y+1)*rowLen]
		dst := out.Pix[y*rowLen : (y+1)*rowLen]
		for x := 0; x < b.W; x++ {
			src := (b.W - 1 - x) * raster.Channels
			copy(dst[x*raster.Channels:x*raster.Channels+raster.Channels], row[src:src+raster.Channels])
		}
	}
	return out
}
