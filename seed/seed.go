// Package seed derives the 32-bit provenance seed stored in every package.
//
// Derivation is pure and stable across sessions: the same key always yields
// the same seed, so a package written today can be matched to its key later.
// The seed is metadata only; no transform currently consumes it.
package seed

import (
	"crypto/sha256"
	"encoding/binary"
)

// FromString derives a seed from a key string: the first four bytes of the
// SHA-256 digest of its UTF-8 encoding, read big-endian.
func FromString(key string) uint32 {
	sum := sha256.Sum256([]byte(key))
	return binary.BigEndian.Uint32(sum[:4])
}

// FromInt derives a seed from an integer key by keeping the low 32 bits.
// Negative and oversized values are masked, never rejected.
func FromInt(n int64) uint32 {
	return uint32(uint64(n) & 0xFFFFFFFF)
}
