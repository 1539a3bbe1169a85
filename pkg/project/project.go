// Package project defines the read-only collaborator interface through
// which experiment drivers expose tracked software projects to the
// sampler and the report registry.
package project

import (
	"github.com/revisor-tools/revisor/pkg/binaries"
	"github.com/revisor-tools/revisor/pkg/gitlib"
	"github.com/revisor-tools/revisor/pkg/revision"
)

// Project is a tracked software project under study. Implementations are
// supplied externally and merely read.
type Project interface {
	// Name returns the unique project name used in result filenames.
	Name() string
	// Revisions returns the ordered list of revisions under study.
	Revisions() ([]revision.ShortHash, error)
	// BinariesFor returns the binaries valid at the given revision.
	BinariesFor(rev revision.ShortHash) ([]binaries.Spec, error)
}

// LocalProject is a Project backed by a local git checkout. Its revision
// list is the first-to-head ancestry of the repository, newest first.
type LocalProject struct {
	name string
	repo *gitlib.Repository
	bins *binaries.Map
}

// NewLocalProject opens the repository at repoPath. The binary map may be
// nil for projects whose binaries are irrelevant to the caller.
func NewLocalProject(name, repoPath string, bins *binaries.Map) (*LocalProject, error) {
	repo, err := gitlib.OpenRepository(repoPath)
	if err != nil {
		return nil, err
	}

	return &LocalProject{name: name, repo: repo, bins: bins}, nil
}

// Free releases the underlying repository.
func (p *LocalProject) Free() {
	if p.repo != nil {
		p.repo.Free()
		p.repo = nil
	}
}

// Name returns the project name.
func (p *LocalProject) Name() string {
	return p.name
}

// Revisions lists all revisions from the initial commit to HEAD,
// newest first.
func (p *LocalProject) Revisions() ([]revision.ShortHash, error) {
	root, err := p.repo.InitialCommit()
	if err != nil {
		return nil, err
	}

	head, err := p.repo.Head()
	if err != nil {
		return nil, err
	}

	oldestFirst, err := p.repo.LogBetween(root, head)
	if err != nil {
		return nil, err
	}

	revs := make([]revision.ShortHash, 0, len(oldestFirst))
	for i := len(oldestFirst) - 1; i >= 0; i-- {
		revs = append(revs, oldestFirst[i].ShortRev())
	}

	return revs, nil
}

// History lists all revisions from the initial commit to HEAD, oldest
// first. A revision's position in the list is its commit ID.
func (p *LocalProject) History() ([]revision.FullHash, error) {
	root, err := p.repo.InitialCommit()
	if err != nil {
		return nil, err
	}

	head, err := p.repo.Head()
	if err != nil {
		return nil, err
	}

	oldestFirst, err := p.repo.LogBetween(root, head)
	if err != nil {
		return nil, err
	}

	revs := make([]revision.FullHash, len(oldestFirst))
	for i, hash := range oldestFirst {
		revs[i] = hash.Rev()
	}

	return revs, nil
}

// BinariesFor returns the binaries valid at the revision, in registration
// order.
func (p *LocalProject) BinariesFor(rev revision.ShortHash) ([]binaries.Spec, error) {
	if p.bins == nil {
		return nil, nil
	}

	return p.bins.Lookup(rev)
}
