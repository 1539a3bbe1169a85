package binaries

import (
	"errors"
	"fmt"

	"github.com/revisor-tools/revisor/pkg/gitlib"
	"github.com/revisor-tools/revisor/pkg/revision"
)

// ErrDuplicateBinaryName is returned when a binary registration reuses a
// name without explicitly overriding it.
var ErrDuplicateBinaryName = errors.New("duplicate binary name")

// Map maps a revision to the binaries valid at that revision. Built once
// per repository path, it is mutated only through SpecifyBinary; lookups
// are read-only commit-graph queries and safe to run concurrently across
// processes.
type Map struct {
	repo  *gitlib.Repository
	specs []Spec
}

// NewMap opens the repository at repoPath and returns an empty map.
func NewMap(repoPath string) (*Map, error) {
	repo, err := gitlib.OpenRepository(repoPath)
	if err != nil {
		return nil, err
	}

	return &Map{repo: repo}, nil
}

// Free releases the underlying repository.
func (m *Map) Free() {
	if m.repo != nil {
		m.repo.Free()
		m.repo = nil
	}
}

// SpecOption customizes a binary registration.
type SpecOption func(*specConfig)

type specConfig struct {
	valid      RevisionRange
	name       string
	entryPoint string
	override   bool
}

// OnlyValidIn restricts the binary to a revision range. The default is
// AlwaysValid.
func OnlyValidIn(r RevisionRange) SpecOption {
	return func(c *specConfig) { c.valid = r }
}

// WithName overrides the logical binary name. Registering a name that
// already exists is only permitted through this explicit override; the
// new spec replaces the old one.
func WithName(name string) SpecOption {
	return func(c *specConfig) {
		c.name = name
		c.override = true
	}
}

// WithEntryPoint overrides the path invoked to run the binary.
func WithEntryPoint(path string) SpecOption {
	return func(c *specConfig) { c.entryPoint = path }
}

// SpecifyBinary registers a binary under path. The logical name defaults
// to the file stem of path; duplicate names are a usage error unless
// explicitly overridden via WithName.
func (m *Map) SpecifyBinary(path string, binaryType Type, opts ...SpecOption) (Spec, error) {
	cfg := specConfig{valid: AlwaysValid()}
	for _, opt := range opts {
		opt(&cfg)
	}

	spec := Spec{
		Path:       path,
		Type:       binaryType,
		Name:       cfg.name,
		EntryPoint: cfg.entryPoint,
		valid:      cfg.valid,
	}

	if spec.Name == "" {
		spec.Name = stem(path)
	}

	if spec.EntryPoint == "" {
		spec.EntryPoint = path
	}

	for i, existing := range m.specs {
		if existing.Name != spec.Name {
			continue
		}

		if !cfg.override {
			return Spec{}, fmt.Errorf("%w: %q", ErrDuplicateBinaryName, spec.Name)
		}

		m.specs[i] = spec

		return spec, nil
	}

	m.specs = append(m.specs, spec)

	return spec, nil
}

// Lookup returns the binaries whose validity range contains the revision,
// in registration order. Unknown revisions are fatal and propagated.
func (m *Map) Lookup(rev revision.ShortHash) ([]Spec, error) {
	var found []Spec

	for _, spec := range m.specs {
		inside, err := spec.valid.Contains(m.repo, rev)
		if err != nil {
			return nil, err
		}

		if inside {
			found = append(found, spec)
		}
	}

	return found, nil
}

// Contains reports whether the map knows the given key: a string matches
// a binary name, a Spec matches name and path. Any other key type is
// simply not contained.
func (m *Map) Contains(key any) bool {
	switch k := key.(type) {
	case string:
		for _, spec := range m.specs {
			if spec.Name == k {
				return true
			}
		}
	case Spec:
		for _, spec := range m.specs {
			if spec.Name == k.Name && spec.Path == k.Path {
				return true
			}
		}
	}

	return false
}
