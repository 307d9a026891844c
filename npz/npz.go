// Package npz reads and writes the package container: a compressed ZIP
// archive bundling transformed pixel data with the transform name and the
// derived seed, byte-compatible with numpy's savez_compressed format.
//
// An archive holds exactly three members:
//
//	data.npy    uint8 array of shape (H, W, 3) - the pixel buffer
//	method.npy  single text element - the transform wire name
//	seed.npy    single uint64 element - the seed, widened from 32 bits
//
// Unmarshal validates structure only; it does not check that the method
// names a known transform. That check belongs to the caller, before it
// attempts to reverse the transform.
package npz

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/mattetti/filebuffer"

	"github.com/pixveil/pixveil/raster"
)

// Archive member names, fixed by the wire format.
const (
	dataMember   = "data.npy"
	methodMember = "method.npy"
	seedMember   = "seed.npy"
)

// ErrMalformedPackage is wrapped by every structural decode failure:
// truncated archives, missing members, and dtype or shape mismatches.
var ErrMalformedPackage = errors.New("malformed package")

// Package bundles a transformed pixel buffer with the metadata needed to
// reverse it later: the transform wire name and the derived seed.
type Package struct {
	Data   *raster.Buffer
	Method string
	Seed   uint32
}

// Marshal serializes the package to container bytes. Compression is
// lossless deflate; the stored samples are bit-identical to Data.Pix.
func Marshal(p *Package) ([]byte, error) {
	if p.Data == nil {
		return nil, fmt.Errorf("package has no pixel data")
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	methodData, methodLen := encodeUTF32(p.Method)
	if methodLen == 0 {
		// numpy never emits a zero-width text dtype; an empty string is
		// stored as one NUL-padded <U1 element.
		methodData, methodLen = make([]byte, 4), 1
	}
	var seedData [8]byte
	binary.LittleEndian.PutUint64(seedData[:], uint64(p.Seed))

	members := []struct {
		name  string
		descr string
		shape []int
		data  []byte
	}{
		{dataMember, "|u1", []int{p.Data.H, p.Data.W, raster.Channels}, p.Data.Pix},
		{methodMember, fmt.Sprintf("<U%d", methodLen), []int{1}, methodData},
		{seedMember, "<u8", []int{1}, seedData[:]},
	}
	for _, m := range members {
		w, err := zw.Create(m.name)
		if err != nil {
			return nil, fmt.Errorf("creating member %s: %w", m.name, err)
		}
		if err := writeNPY(w, m.descr, m.shape, m.data); err != nil {
			return nil, fmt.Errorf("writing member %s: %w", m.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing archive: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes container bytes back into a Package. On any failure the
// result is nil; a Package is never partially populated.
func Unmarshal(b []byte) (*Package, error) {
	zr, err := zip.NewReader(filebuffer.New(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPackage, err)
	}
	zr.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})

	data, err := member(zr, dataMember)
	if err != nil {
		return nil, err
	}
	method, err := member(zr, methodMember)
	if err != nil {
		return nil, err
	}
	seed, err := member(zr, seedMember)
	if err != nil {
		return nil, err
	}

	pkg := &Package{}

	if data.descr != "|u1" && data.descr != "<u1" && data.descr != "=u1" {
		return nil, malformed(dataMember, "dtype %s, want |u1", data.descr)
	}
	if data.fortran {
		return nil, malformed(dataMember, "fortran element order is not supported")
	}
	if len(data.shape) != 3 || data.shape[2] != raster.Channels {
		return nil, malformed(dataMember, "shape %s, want (H, W, %d)", shapeTuple(data.shape), raster.Channels)
	}
	pkg.Data, err = raster.FromPix(data.shape[0], data.shape[1], data.data)
	if err != nil {
		return nil, malformed(dataMember, "%v", err)
	}

	if len(method.shape) != 1 || method.shape[0] != 1 {
		return nil, malformed(methodMember, "shape %s, want (1,)", shapeTuple(method.shape))
	}
	if !strings.Contains(method.descr, "U") {
		return nil, malformed(methodMember, "dtype %s, want a text dtype", method.descr)
	}
	pkg.Method, err = decodeUTF32(method.data, strings.HasPrefix(method.descr, ">"))
	if err != nil {
		return nil, malformed(methodMember, "%v", err)
	}

	if len(seed.shape) != 1 || seed.shape[0] != 1 {
		return nil, malformed(seedMember, "shape %s, want (1,)", shapeTuple(seed.shape))
	}
	if seed.descr != "<u8" && seed.descr != "<i8" {
		return nil, malformed(seedMember, "dtype %s, want <u8", seed.descr)
	}
	wide := binary.LittleEndian.Uint64(seed.data)
	if wide > math.MaxUint32 {
		return nil, malformed(seedMember, "value %d exceeds the 32-bit seed range", wide)
	}
	pkg.Seed = uint32(wide)

	return pkg, nil
}

// WriteFile serializes the package and writes it to path.
func WriteFile(path string, p *Package) error {
	b, err := Marshal(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("writing package file: %w", err)
	}
	return nil
}

// ReadFile reads and decodes a package file.
func ReadFile(path string) (*Package, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading package file: %w", err)
	}
	return Unmarshal(b)
}

// member locates and parses one named archive member.
func member(zr *zip.Reader, name string) (*npyArray, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, malformed(name, "%v", err)
		}
		arr, err := readNPY(rc)
		cerr := rc.Close()
		if err != nil {
			return nil, malformed(name, "%v", err)
		}
		if cerr != nil {
			return nil, malformed(name, "%v", cerr)
		}
		return arr, nil
	}
	return nil, fmt.Errorf("%w: missing member %q", ErrMalformedPackage, name)
}

func malformed(name, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedPackage, name, fmt.Sprintf(format, args...))
}
