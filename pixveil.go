// Package pixveil applies reversible pixel transforms to RGB images, keyed
// by a user-supplied password, and persists the result in a package file
// that carries enough metadata to reverse the transform in a later session.
//
// Basic usage:
//
//	s := pixveil.NewSession()
//	if err := s.LoadImage("photo.png"); err != nil {
//	    log.Fatal(err)
//	}
//	if err := s.Encrypt(transform.Invert, "hunter2"); err != nil {
//	    log.Fatal(err)
//	}
//	if err := s.SavePackage("photo.npz"); err != nil {
//	    log.Fatal(err)
//	}
//
// Later, possibly in another process:
//
//	s := pixveil.NewSession()
//	if err := s.LoadPackage("photo.npz"); err != nil {
//	    log.Fatal(err)
//	}
//	out, err := s.Decrypt()
//
// The transforms are geometric and arithmetic, not key-dependent; this is a
// deterministic, round-trippable obfuscation format, not cryptography. The
// seed derived from the key travels with the package as provenance only.
package pixveil

import (
	"errors"
	"fmt"

	"github.com/pixveil/pixveil/imageio"
	"github.com/pixveil/pixveil/npz"
	"github.com/pixveil/pixveil/raster"
	"github.com/pixveil/pixveil/seed"
	"github.com/pixveil/pixveil/transform"
)

var (
	// ErrNoImage is returned when an operation needs a loaded source
	// image and none has been loaded.
	ErrNoImage = errors.New("no image loaded")

	// ErrNoEncrypted is returned when an operation needs an encrypted
	// buffer and neither Encrypt nor LoadPackage has produced one.
	ErrNoEncrypted = errors.New("no encrypted image")
)

// Session holds the buffers moving through one encrypt/decrypt workflow.
// It replaces ad-hoc global state: every buffer has exactly one owner and
// transforms always produce new buffers.
type Session struct {
	// Original is the source image as loaded, untouched by transforms.
	Original *raster.Buffer

	// Encrypted is the transformed buffer, either produced by Encrypt
	// or read back from a package.
	Encrypted *raster.Buffer

	// Decrypted is the result of the most recent Decrypt.
	Decrypted *raster.Buffer

	// Method and Seed describe how Encrypted was produced.
	Method transform.Method
	Seed   uint32
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// LoadImage decodes an image file into the session's Original buffer.
func (s *Session) LoadImage(path string) error {
	buf, err := imageio.Load(path)
	if err != nil {
		return err
	}
	s.Original = buf
	return nil
}

// Encrypt applies the given transform to the loaded image and records the
// seed derived from key. The key parameterizes nothing beyond the seed; it
// is kept so the package can carry provenance.
func (s *Session) Encrypt(m transform.Method, key string) error {
	if s.Original == nil {
		return ErrNoImage
	}
	out, err := transform.Apply(s.Original, m)
	if err != nil {
		return err
	}
	s.Encrypted = out
	s.Method = m
	s.Seed = seed.FromString(key)
	return nil
}

// Decrypt reverses the session's transform over the encrypted buffer and
// returns the restored image.
func (s *Session) Decrypt() (*raster.Buffer, error) {
	if s.Encrypted == nil {
		return nil, ErrNoEncrypted
	}
	out, err := transform.Apply(s.Encrypted, s.Method.Inverse())
	if err != nil {
		return nil, err
	}
	s.Decrypted = out
	return out, nil
}

// SaveImage writes the encrypted buffer as a standard image file.
func (s *Session) SaveImage(path string) error {
	if s.Encrypted == nil {
		return ErrNoEncrypted
	}
	return imageio.Save(path, s.Encrypted)
}

// SavePackage writes the encrypted buffer plus transform metadata as a
// package file that LoadPackage can restore later.
func (s *Session) SavePackage(path string) error {
	if s.Encrypted == nil {
		return ErrNoEncrypted
	}
	return npz.WriteFile(path, &npz.Package{
		Data:   s.Encrypted,
		Method: s.Method.String(),
		Seed:   s.Seed,
	})
}

// LoadPackage reads a package file into the session. The package's method
// name is validated against the catalog here, before any reversal is
// attempted; on error the session is left unchanged.
func (s *Session) LoadPackage(path string) error {
	pkg, err := npz.ReadFile(path)
	if err != nil {
		return err
	}
	m, err := transform.ParseMethod(pkg.Method)
	if err != nil {
		return fmt.Errorf("package %s: %w", path, err)
	}
	s.Encrypted = pkg.Data
	s.Method = m
	s.Seed = pkg.Seed
	return nil
}
