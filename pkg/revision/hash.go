// Package revision provides value types for source-control revisions:
// full and short commit hashes and commit/repository pairs.
package revision

import (
	"errors"
	"fmt"
	"strings"
)

// Hash length constants.
const (
	// FullHashLength is the number of hex digits in a full SHA-1 hash.
	FullHashLength = 40
	// ShortHashLength is the number of hex digits kept in a short hash.
	ShortHashLength = 10
)

// Sentinel validation errors.
var (
	ErrHashLength  = errors.New("wrong commit hash length")
	ErrHashNotHex  = errors.New("commit hash contains non-hex characters")
	ErrHashTooLong = errors.New("short hash longer than a full hash")
)

// FullHash is an immutable full (40 hex digit) commit hash.
type FullHash struct {
	hash string
}

// ShortHash is an immutable shortened commit-hash prefix.
// The invariant that it prefixes some full hash of the same repository
// is the caller's responsibility; only hex shape is validated here.
type ShortHash struct {
	hash string
}

// NewFullHash validates and wraps a full commit hash.
func NewFullHash(hash string) (FullHash, error) {
	if len(hash) != FullHashLength {
		return FullHash{}, fmt.Errorf("%w: got %d, want %d", ErrHashLength, len(hash), FullHashLength)
	}

	if !isHex(hash) {
		return FullHash{}, fmt.Errorf("%w: %q", ErrHashNotHex, hash)
	}

	return FullHash{hash: strings.ToLower(hash)}, nil
}

// MustFullHash wraps a full commit hash, panicking on invalid input.
// Intended for constants and tests.
func MustFullHash(hash string) FullHash {
	full, err := NewFullHash(hash)
	if err != nil {
		panic(err)
	}

	return full
}

// NewShortHash validates and wraps a short commit hash. Hashes longer than
// ShortHashLength are truncated; a full-length hash is therefore accepted.
func NewShortHash(hash string) (ShortHash, error) {
	if len(hash) > FullHashLength {
		return ShortHash{}, fmt.Errorf("%w: %d digits", ErrHashTooLong, len(hash))
	}

	if hash == "" {
		return ShortHash{}, fmt.Errorf("%w: empty", ErrHashLength)
	}

	if !isHex(hash) {
		return ShortHash{}, fmt.Errorf("%w: %q", ErrHashNotHex, hash)
	}

	if len(hash) > ShortHashLength {
		hash = hash[:ShortHashLength]
	}

	return ShortHash{hash: strings.ToLower(hash)}, nil
}

// MustShortHash wraps a short commit hash, panicking on invalid input.
func MustShortHash(hash string) ShortHash {
	short, err := NewShortHash(hash)
	if err != nil {
		panic(err)
	}

	return short
}

// String returns the hex representation.
func (h FullHash) String() string { return h.hash }

// IsZero reports whether the hash is the zero value.
func (h FullHash) IsZero() bool { return h.hash == "" }

// Short truncates the full hash to a ShortHash.
func (h FullHash) Short() ShortHash {
	return ShortHash{hash: h.hash[:ShortHashLength]}
}

// HasPrefix reports whether short is a prefix of this full hash.
func (h FullHash) HasPrefix(short ShortHash) bool {
	return strings.HasPrefix(h.hash, short.hash)
}

// Compare orders full hashes lexicographically.
func (h FullHash) Compare(other FullHash) int {
	return strings.Compare(h.hash, other.hash)
}

// MarshalText encodes the hash as its hex representation.
func (h FullHash) MarshalText() ([]byte, error) {
	return []byte(h.hash), nil
}

// UnmarshalText decodes and validates a hex representation.
func (h *FullHash) UnmarshalText(text []byte) error {
	full, err := NewFullHash(string(text))
	if err != nil {
		return err
	}

	*h = full

	return nil
}

// String returns the hex representation.
func (h ShortHash) String() string { return h.hash }

// IsZero reports whether the hash is the zero value.
func (h ShortHash) IsZero() bool { return h.hash == "" }

// Compare orders short hashes lexicographically.
func (h ShortHash) Compare(other ShortHash) int {
	return strings.Compare(h.hash, other.hash)
}

// MarshalText encodes the hash as its hex representation.
func (h ShortHash) MarshalText() ([]byte, error) {
	return []byte(h.hash), nil
}

// UnmarshalText decodes and validates a hex representation.
func (h *ShortHash) UnmarshalText(text []byte) error {
	short, err := NewShortHash(string(text))
	if err != nil {
		return err
	}

	*h = short

	return nil
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}

	return true
}
