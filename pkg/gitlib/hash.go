// Package gitlib provides the repository collaborator used by the churn
// calculator and the revision-binary map: rev-spec resolution, commit lookup,
// ancestry queries, range walks, and per-file diff statistics. It is backed
// by libgit2 through git2go.
package gitlib

import (
	"encoding/hex"
	"errors"
	"fmt"

	git2go "github.com/libgit2/git2go/v34"

	"github.com/revisor-tools/revisor/pkg/revision"
)

// HashSize is the size of a SHA-1 hash in bytes.
const HashSize = 20

// ErrHashFormat is returned when a hex string does not describe a full hash.
var ErrHashFormat = errors.New("malformed hash hex string")

// Hash is a git object id (SHA-1).
type Hash [HashSize]byte

// ZeroHash returns the zero value hash.
func ZeroHash() Hash {
	return Hash{}
}

// NewHash parses a full 40-digit hex string into a Hash.
func NewHash(hexStr string) (Hash, error) {
	var hash Hash

	if len(hexStr) != HashSize*2 {
		return hash, fmt.Errorf("%w: %q", ErrHashFormat, hexStr)
	}

	decoded, err := hex.DecodeString(hexStr)
	if err != nil {
		return hash, fmt.Errorf("%w: %q", ErrHashFormat, hexStr)
	}

	copy(hash[:], decoded)

	return hash, nil
}

// HashFromOid converts a libgit2 Oid to a Hash.
func HashFromOid(oid *git2go.Oid) Hash {
	var h Hash
	copy(h[:], oid[:])

	return h
}

// ToOid converts the Hash back to a libgit2 Oid.
func (h Hash) ToOid() *git2go.Oid {
	oid := new(git2go.Oid)
	copy(oid[:], h[:])

	return oid
}

// String returns the hex representation of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// Rev converts the hash to a revision.FullHash value.
func (h Hash) Rev() revision.FullHash {
	return revision.MustFullHash(h.String())
}

// ShortRev converts the hash to a revision.ShortHash value.
func (h Hash) ShortRev() revision.ShortHash {
	return h.Rev().Short()
}
