package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"

	"github.com/lexandro/kushn/digest"
)

// ErrNotFound is returned by Store.Load when no manifest has been written yet.
var ErrNotFound = errors.New("manifest not found")

// Store reads and writes a manifest file inside a filesystem.
type Store struct {
	fsys billy.Filesystem
	name string
}

// NewStore creates a store for the manifest file name, relative to the root of fsys.
func NewStore(fsys billy.Filesystem, name string) *Store {
	return &Store{fsys: fsys, name: filepath.ToSlash(name)}
}

// Name returns the manifest path relative to the store root.
func (s *Store) Name() string {
	return s.name
}

// TempName returns the path used while writing; it is renamed over Name on success.
func (s *Store) TempName() string {
	return s.name + ".tmp"
}

// Load reads the manifest from disk.
func (s *Store) Load() (*Manifest, error) {
	f, err := s.fsys.Open(s.name)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Save writes the manifest atomically: a temp file is written first, then renamed.
func (s *Store) Save(m *Manifest) error {
	if m == nil {
		return fmt.Errorf("cannot save nil manifest")
	}

	tmpName := s.TempName()
	f, err := s.fsys.Create(tmpName)
	if err != nil {
		return fmt.Errorf("failed to create temp manifest: %w", err)
	}

	if err := Encode(f, m); err != nil {
		_ = f.Close()
		_ = s.fsys.Remove(tmpName)
		return err
	}
	if err := f.Close(); err != nil {
		_ = s.fsys.Remove(tmpName)
		return fmt.Errorf("failed to close temp manifest: %w", err)
	}

	if err := s.fsys.Rename(tmpName, s.name); err != nil {
		_ = s.fsys.Remove(tmpName)
		return fmt.Errorf("failed to rename manifest: %w", err)
	}
	return nil
}

// Exists returns true if the manifest file exists.
func (s *Store) Exists() bool {
	_, err := s.fsys.Stat(s.name)
	return err == nil
}

// Hash digests the manifest file as it is currently stored.
func (s *Store) Hash(a digest.Algorithm) (string, error) {
	f, err := s.fsys.Open(s.name)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, s.name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	return digest.Sum(a, f)
}
