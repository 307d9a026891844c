package npz

import (
	"encoding/binary"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// NPY v1.0 array serialization, the member format inside an NPZ archive.
// See https://numpy.org/doc/stable/reference/generated/numpy.lib.format.html
//
// Layout: 6-byte magic, 2-byte version, a little-endian header length
// (2 bytes for v1, 4 bytes for v2+), a Python dict literal describing
// descr/fortran_order/shape padded to 64-byte alignment and terminated by
// a newline, then the raw element data in C order.

var npyMagic = []byte{0x93, 'N', 'U', 'M', 'P', 'Y'}

const headerAlign = 64

type npyArray struct {
	descr   string // dtype string, e.g. "|u1", "<u8", "<U3"
	fortran bool
	shape   []int
	data    []byte
}

// elemCount returns the number of elements described by the shape.
func (a *npyArray) elemCount() int {
	n := 1
	for _, d := range a.shape {
		n *= d
	}
	return n
}

// itemSize returns the per-element byte width encoded in a dtype string.
// Unicode ('U') elements are 4 bytes per character.
func itemSize(descr string) (int, error) {
	s := descr
	if len(s) > 0 && strings.ContainsRune("<>|=", rune(s[0])) {
		s = s[1:]
	}
	if len(s) < 2 {
		return 0, fmt.Errorf("unsupported dtype %q", descr)
	}
	kind := s[0]
	n, err := strconv.Atoi(s[1:])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("unsupported dtype %q", descr)
	}
	switch kind {
	case 'u', 'i', 'f', 'b':
		return n, nil
	case 'U':
		return 4 * n, nil
	default:
		return 0, fmt.Errorf("unsupported dtype %q", descr)
	}
}

// shapeTuple renders a shape the way Python writes tuples: "(1,)" for a
// single dimension, "(2, 2, 3)" otherwise.
func shapeTuple(shape []int) string {
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}
	if len(shape) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// writeNPY serializes one array as NPY v1.0.
func writeNPY(w io.Writer, descr string, shape []int, data []byte) error {
	dict := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': %s, }", descr, shapeTuple(shape))

	// Pad the header with spaces so the data section starts 64-byte
	// aligned; the final header byte is a newline.
	total := len(npyMagic) + 2 + 2 + len(dict) + 1
	pad := 0
	if rem := total % headerAlign; rem != 0 {
		pad = headerAlign - rem
	}
	header := dict + strings.Repeat(" ", pad) + "\n"

	if _, err := w.Write(npyMagic); err != nil {
		return err
	}
	if _, err := w.Write([]byte{1, 0}); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(header))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

var (
	descrRe   = regexp.MustCompile(`['"]descr['"]\s*:\s*['"]([^'"]+)['"]`)
	fortranRe = regexp.MustCompile(`['"]fortran_order['"]\s*:\s*(True|False)`)
	shapeRe   = regexp.MustCompile(`['"]shape['"]\s*:\s*\(([^)]*)\)`)
)

// readNPY parses one NPY array. Versions 1.x (2-byte header length) and
// 2.x/3.x (4-byte) are accepted; element data is read to EOF and validated
// against the declared dtype and shape.
func readNPY(r io.Reader) (*npyArray, error) {
	var pre [8]byte
	if _, err := io.ReadFull(r, pre[:]); err != nil {
		return nil, fmt.Errorf("truncated preamble: %w", err)
	}
	if string(pre[:6]) != string(npyMagic) {
		return nil, fmt.Errorf("bad magic %q", pre[:6])
	}

	var headerLen int
	switch major := pre[6]; major {
	case 1:
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("truncated header length: %w", err)
		}
		headerLen = int(n)
	case 2, 3:
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("truncated header length: %w", err)
		}
		headerLen = int(n)
	default:
		return nil, fmt.Errorf("unsupported version %d.%d", pre[6], pre[7])
	}

	header := make([]byte, headerLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("truncated header: %w", err)
	}

	arr := &npyArray{}
	hdr := string(header)

	m := descrRe.FindStringSubmatch(hdr)
	if m == nil {
		return nil, fmt.Errorf("header missing descr: %q", hdr)
	}
	arr.descr = m[1]

	m = fortranRe.FindStringSubmatch(hdr)
	if m == nil {
		return nil, fmt.Errorf("header missing fortran_order: %q", hdr)
	}
	arr.fortran = m[1] == "True"

	m = shapeRe.FindStringSubmatch(hdr)
	if m == nil {
		return nil, fmt.Errorf("header missing shape: %q", hdr)
	}
	for _, part := range strings.Split(m[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("bad shape dimension %q", part)
		}
		arr.shape = append(arr.shape, d)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading element data: %w", err)
	}
	arr.data = data

	size, err := itemSize(arr.descr)
	if err != nil {
		return nil, err
	}
	if want := size * arr.elemCount(); len(arr.data) != want {
		return nil, fmt.Errorf("element data is %d bytes, want %d for dtype %s shape %s",
			len(arr.data), want, arr.descr, shapeTuple(arr.shape))
	}
	return arr, nil
}

// encodeUTF32 serializes a string as numpy's '<U{n}' element encoding:
// one little-endian 32-bit code point per rune.
func encodeUTF32(s string) ([]byte, int) {
	runes := []rune(s)
	out := make([]byte, 4*len(runes))
	for i, r := range runes {
		binary.LittleEndian.PutUint32(out[i*4:], uint32(r))
	}
	return out, len(runes)
}

// decodeUTF32 reverses encodeUTF32. Trailing NUL padding, which numpy adds
// when an element is shorter than the dtype width, is stripped. The bigEndian
// flag covers '>U' arrays written on big-endian hosts.
func decodeUTF32(b []byte, bigEndian bool) (string, error) {
	if len(b)%4 != 0 {
		return "", fmt.Errorf("UTF-32 data length %d is not a multiple of 4", len(b))
	}
	var sb strings.Builder
	for i := 0; i < len(b); i += 4 {
		var cp uint32
		if bigEndian {
			cp = binary.BigEndian.Uint32(b[i:])
		} else {
			cp = binary.LittleEndian.Uint32(b[i:])
		}
		if cp == 0 {
			continue
		}
		if cp > 0x10FFFF {
			return "", fmt.Errorf("invalid code point %#x", cp)
		}
		sb.WriteRune(rune(cp))
	}
	return sb.String(), nil
}
