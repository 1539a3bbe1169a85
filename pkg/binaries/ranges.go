package binaries

import (
	"github.com/revisor-tools/revisor/pkg/gitlib"
	"github.com/revisor-tools/revisor/pkg/revision"
)

// RevisionRange decides whether a revision lies inside a validity range.
// Membership is resolved against the repository's commit graph (ancestor
// reachability), never by lexical comparison; endpoints may be symbolic
// rev-specs like branch names.
type RevisionRange interface {
	Contains(repo *gitlib.Repository, rev revision.ShortHash) (bool, error)
}

type alwaysValid struct{}

// AlwaysValid returns the range containing every revision.
func AlwaysValid() RevisionRange {
	return alwaysValid{}
}

func (alwaysValid) Contains(*gitlib.Repository, revision.ShortHash) (bool, error) {
	return true, nil
}

type singleRevision struct {
	spec string
}

// SingleRevision returns the range containing exactly one revision,
// named by an arbitrary rev-spec.
func SingleRevision(spec string) RevisionRange {
	return singleRevision{spec: spec}
}

func (r singleRevision) Contains(repo *gitlib.Repository, rev revision.ShortHash) (bool, error) {
	target, err := repo.ResolveRevision(r.spec)
	if err != nil {
		return false, err
	}

	resolved, err := repo.ResolveRevision(rev.String())
	if err != nil {
		return false, err
	}

	return target == resolved, nil
}

type ancestryRange struct {
	start string
	end   string
}

// Range returns the revision range from start to end, both endpoints
// included. Endpoints may be symbolic, e.g. Range("162db88346", "master").
func Range(start, end string) RevisionRange {
	return ancestryRange{start: start, end: end}
}

func (r ancestryRange) Contains(repo *gitlib.Repository, rev revision.ShortHash) (bool, error) {
	resolved, err := repo.ResolveRevision(rev.String())
	if err != nil {
		return false, err
	}

	start, err := repo.ResolveRevision(r.start)
	if err != nil {
		return false, err
	}

	afterStart, err := repo.IsAncestor(start, resolved)
	if err != nil {
		return false, err
	}

	if !afterStart {
		return false, nil
	}

	end, err := repo.ResolveRevision(r.end)
	if err != nil {
		return false, err
	}

	return repo.IsAncestor(resolved, end)
}
