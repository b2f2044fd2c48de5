// Package digest streams file content through the hash used for manifest entries.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Algorithm names a supported content digest.
type Algorithm string

const (
	// SHA256 is the default manifest digest.
	SHA256 Algorithm = "sha256"
	// XXHash64 is a fast non-cryptographic alternative for change detection.
	XXHash64 Algorithm = "xxhash64"
)

// ErrUnknownAlgorithm is returned by ParseAlgorithm for unsupported names.
var ErrUnknownAlgorithm = errors.New("unknown digest algorithm")

// Algorithms lists the supported algorithms in display order.
func Algorithms() []Algorithm {
	return []Algorithm{SHA256, XXHash64}
}

// ParseAlgorithm resolves a case-insensitive algorithm name. Empty means SHA256.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sha256", "sha-256":
		return SHA256, nil
	case "xxhash64", "xxhash", "xxh64":
		return XXHash64, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// Validate reports ErrUnknownAlgorithm for anything but the supported algorithms.
func (a Algorithm) Validate() error {
	switch a {
	case SHA256, XXHash64:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(a))
	}
}

// New returns a fresh hasher. Call Validate first: unknown algorithms get SHA256.
func (a Algorithm) New() hash.Hash {
	if a == XXHash64 {
		return xxhash.New()
	}
	return sha256.New()
}

// HexLen is the length of the lowercase hex string produced by Sum.
func (a Algorithm) HexLen() int {
	return a.New().Size() * 2
}

// Sum streams r through the algorithm and returns the lowercase hex digest.
func Sum(a Algorithm, r io.Reader) (string, error) {
	h := a.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("failed to hash content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// SumBytes hashes data in memory.
func SumBytes(a Algorithm, data []byte) string {
	h := a.New()
	_, _ = h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
