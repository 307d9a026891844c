package imageio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pixveil/pixveil/raster"
)

func gradient(t *testing.T, h, w int) *raster.Buffer {
	t.Helper()
	b, err := raster.New(h, w)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.Set(y, x, 0, uint8(x*255/max(w-1, 1)))
			b.Set(y, x, 1, uint8(y*255/max(h-1, 1)))
			b.Set(y, x, 2, 128)
		}
	}
	return b
}

func writeJunk(path string) error {
	return os.WriteFile(path, []byte("not an image at all"), 0o644)
}

func TestSaveLoadLossless(t *testing.T) {
	// PNG and BMP are lossless, so the buffer must survive bit-exact.
	for _, ext := range []string{".png", ".bmp"} {
		t.Run(strings.TrimPrefix(ext, "."), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "img"+ext)
			in := gradient(t, 5, 9)

			if err := Save(path, in); err != nil {
				t.Fatal(err)
			}
			out, err := Load(path)
			if err != nil {
				t.Fatal(err)
			}
			if !out.Equal(in) {
				t.Errorf("%s round trip altered pixel data", ext)
			}
		})
	}
}

func TestSaveLoadJPEG(t *testing.T) {
	// JPEG is lossy; only shape survives exactly.
	path := filepath.Join(t.TempDir(), "img.jpg")
	in := gradient(t, 8, 8)

	if err := Save(path, in); err != nil {
		t.Fatal(err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if out.H != in.H || out.W != in.W {
		t.Errorf("JPEG round trip shape = %dx%d, want %dx%d", out.H, out.W, in.H, in.W)
	}
}

func TestSaveDefaultsToPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noext")
	in := gradient(t, 2, 2)
	if err := Save(path, in); err != nil {
		t.Fatal(err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("default output did not decode as an image: %v", err)
	}
	if !out.Equal(in) {
		t.Error("default PNG output is not lossless")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.png")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestLoadNotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.png")
	if err := writeJunk(path); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected decode error for non-image bytes")
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name         string
		h, w, maxDim int
		wantH, wantW int
	}{
		{"Landscape scaled down", 200, 400, 100, 50, 100},
		{"Portrait scaled down", 400, 200, 100, 100, 50},
		{"Within bounds untouched", 50, 80, 100, 50, 80},
		{"Exact fit untouched", 100, 100, 100, 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := gradient(t, tt.h, tt.w)
			out, err := Preview(in, tt.maxDim)
			if err != nil {
				t.Fatal(err)
			}
			if out.H != tt.wantH || out.W != tt.wantW {
				t.Errorf("preview shape = %dx%d, want %dx%d", out.H, out.W, tt.wantH, tt.wantW)
			}
		})
	}
}

func TestPreviewDoesNotAliasInput(t *testing.T) {
	in := gradient(t, 4, 4)
	out, err := Preview(in, 100)
	if err != nil {
		t.Fatal(err)
	}
	out.Set(0, 0, 0, ^out.At(0, 0, 0))
	if in.At(0, 0, 0) == out.At(0, 0, 0) {
		t.Error("preview shares storage with its input")
	}
}

func TestPreviewInvalidDimension(t *testing.T) {
	if _, err := Preview(gradient(t, 2, 2), 0); err == nil {
		t.Error("expected error for a non-positive preview dimension")
	}
}
