// Package binaries maps revisions of a repository to the set of binaries
// that are valid to build and run at that revision.
package binaries

import (
	"path/filepath"
	"strings"
)

// Type classifies a project binary.
type Type int

// The closed set of binary types.
const (
	TypeExecutable Type = iota
	TypeSharedLibrary
	TypeStaticLibrary
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeExecutable:
		return "executable"
	case TypeSharedLibrary:
		return "shared_library"
	case TypeStaticLibrary:
		return "static_library"
	default:
		return "unknown"
	}
}

// Spec describes one binary of a tracked project.
type Spec struct {
	// Path is the binary's path relative to the project root.
	Path string
	// Type classifies the build artifact.
	Type Type
	// Name is the logical binary name, defaulting to the file stem of Path.
	Name string
	// EntryPoint is the path invoked to run the binary; defaults to Path.
	EntryPoint string

	valid RevisionRange
}

// ValidIn returns the revision range the binary is valid in.
func (s Spec) ValidIn() RevisionRange {
	return s.valid
}

// stem returns the file name of path without its extension.
func stem(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}
