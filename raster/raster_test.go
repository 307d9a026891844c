package raster

import (
	"image"
	"image/color"
	"testing"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		h, w    int
		wantErr bool
	}{
		{"1x1 is the smallest valid buffer", 1, 1, false},
		{"Regular buffer", 4, 7, false},
		{"Zero height", 0, 5, true},
		{"Zero width", 5, 0, true},
		{"Negative dimension", -1, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(tt.h, tt.w)
			if tt.wantErr {
				if err == nil {
					t.Errorf("New(%d, %d) expected error but got none", tt.h, tt.w)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%d, %d) unexpected error: %v", tt.h, tt.w, err)
			}
			if len(b.Pix) != tt.h*tt.w*Channels {
				t.Errorf("New(%d, %d) allocated %d samples, want %d", tt.h, tt.w, len(b.Pix), tt.h*tt.w*Channels)
			}
		})
	}
}

func TestFromPixLengthMismatch(t *testing.T) {
	if _, err := FromPix(2, 2, make([]uint8, 11)); err == nil {
		t.Error("FromPix with short slice expected error but got none")
	}
	if _, err := FromPix(2, 2, make([]uint8, 12)); err != nil {
		t.Errorf("FromPix with exact slice unexpected error: %v", err)
	}
}

func TestAtSetRoundTrip(t *testing.T) {
	b, err := New(3, 5)
	if err != nil {
		t.Fatal(err)
	}
	b.Set(2, 4, 1, 0xAB)
	if got := b.At(2, 4, 1); got != 0xAB {
		t.Errorf("At(2,4,1) = %d, want 171", got)
	}
	if got := b.Pix[(2*5+4)*3+1]; got != 0xAB {
		t.Errorf("backing slice sample = %d, want 171", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b, _ := New(2, 2)
	b.Set(0, 0, 0, 7)
	c := b.Clone()
	c.Set(0, 0, 0, 99)
	if b.At(0, 0, 0) != 7 {
		t.Error("mutating a clone changed the original buffer")
	}
	if !b.Equal(b.Clone()) {
		t.Error("clone should compare equal to its source")
	}
}

func TestEqual(t *testing.T) {
	a, _ := New(2, 3)
	b, _ := New(2, 3)
	if !a.Equal(b) {
		t.Error("identical buffers should be equal")
	}
	b.Set(1, 2, 0, 1)
	if a.Equal(b) {
		t.Error("buffers with different samples should not be equal")
	}
	c, _ := New(3, 2)
	if a.Equal(c) {
		t.Error("buffers with different shapes should not be equal")
	}
}

func TestFromImageDropsAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 0})
	img.SetNRGBA(1, 0, color.NRGBA{R: 40, G: 50, B: 60, A: 128})

	b, err := FromImage(img)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint8{10, 20, 30, 40, 50, 60}
	for i, v := range want {
		if b.Pix[i] != v {
			t.Errorf("Pix[%d] = %d, want %d (alpha must be dropped, not composited)", i, b.Pix[i], v)
		}
	}
}

func TestFromImageNonZeroOrigin(t *testing.T) {
	img := image.NewNRGBA(image.Rect(3, 3, 5, 4))
	img.SetNRGBA(3, 3, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	img.SetNRGBA(4, 3, color.NRGBA{R: 4, G: 5, B: 6, A: 255})

	b, err := FromImage(img)
	if err != nil {
		t.Fatal(err)
	}
	if b.H != 1 || b.W != 2 {
		t.Fatalf("buffer shape = %dx%d, want 1x2", b.H, b.W)
	}
	if b.At(0, 0, 0) != 1 || b.At(0, 1, 2) != 6 {
		t.Error("samples not translated from non-zero image origin")
	}
}

func TestImageRoundTrip(t *testing.T) {
	b, _ := New(2, 2)
	for i := range b.Pix {
		b.Pix[i] = uint8(i * 17)
	}
	back, err := FromImage(b.Image())
	if err != nil {
		t.Fatal(err)
	}
	if !b.Equal(back) {
		t.Error("Buffer -> image -> Buffer round trip altered samples")
	}
}
