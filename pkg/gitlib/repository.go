package gitlib

import (
	"errors"
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// Sentinel errors for repository queries.
var (
	// ErrEmptyRepository is returned when a walk finds no commits at all.
	ErrEmptyRepository = errors.New("repository has no commits")
	// ErrUnknownRevision is returned when a rev-spec cannot be resolved.
	ErrUnknownRevision = errors.New("unknown revision")
)

// Repository wraps a libgit2 repository and exposes the read-only queries
// needed for revision bookkeeping: rev-spec resolution, ancestry checks,
// range walks, and diff statistics.
type Repository struct {
	repo *git2go.Repository
	path string
}

// OpenRepository opens a git repository at the given path.
func OpenRepository(path string) (*Repository, error) {
	repo, err := git2go.OpenRepository(path)
	if err != nil {
		return nil, fmt.Errorf("open repository %q: %w", path, err)
	}

	return &Repository{repo: repo, path: path}, nil
}

// Path returns the repository path.
func (r *Repository) Path() string {
	return r.path
}

// Free releases the repository resources.
func (r *Repository) Free() {
	if r.repo != nil {
		r.repo.Free()
		r.repo = nil
	}
}

// Native returns the underlying libgit2 repository for advanced operations.
func (r *Repository) Native() *git2go.Repository {
	return r.repo
}

// Head returns the commit hash the HEAD reference points to.
func (r *Repository) Head() (Hash, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return Hash{}, fmt.Errorf("get HEAD: %w", err)
	}
	defer ref.Free()

	return HashFromOid(ref.Target()), nil
}

// CurrentBranch returns the short name of the branch HEAD points to.
func (r *Repository) CurrentBranch() (string, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("get HEAD: %w", err)
	}
	defer ref.Free()

	return ref.Shorthand(), nil
}

// ResolveRevision resolves an arbitrary rev-spec (full or abbreviated hash,
// branch name, tag, HEAD) to the commit it names. Annotated tags are peeled.
func (r *Repository) ResolveRevision(spec string) (Hash, error) {
	obj, err := r.repo.RevparseSingle(spec)
	if err != nil {
		return Hash{}, fmt.Errorf("%w: %q: %w", ErrUnknownRevision, spec, err)
	}
	defer obj.Free()

	commitObj, err := obj.Peel(git2go.ObjectCommit)
	if err != nil {
		return Hash{}, fmt.Errorf("%w: %q does not name a commit: %w", ErrUnknownRevision, spec, err)
	}
	defer commitObj.Free()

	return HashFromOid(commitObj.Id()), nil
}

// LookupCommit returns the commit with the given hash.
func (r *Repository) LookupCommit(hash Hash) (*Commit, error) {
	commit, err := r.repo.LookupCommit(hash.ToOid())
	if err != nil {
		return nil, fmt.Errorf("lookup commit %s: %w", hash, err)
	}

	return &Commit{commit: commit, repo: r}, nil
}

// IsAncestor reports whether ancestor is reachable from descendant.
// A commit counts as its own ancestor.
func (r *Repository) IsAncestor(ancestor, descendant Hash) (bool, error) {
	if ancestor == descendant {
		return true, nil
	}

	isDescendant, err := r.repo.DescendantOf(descendant.ToOid(), ancestor.ToOid())
	if err != nil {
		return false, fmt.Errorf("ancestry check %s..%s: %w", ancestor, descendant, err)
	}

	return isDescendant, nil
}

// LogBetween returns all commits on ancestry paths from start to end,
// both endpoints included, ordered oldest first. If end is not a descendant
// of start, the result contains only commits actually reachable from start.
func (r *Repository) LogBetween(start, end Hash) ([]Hash, error) {
	walk, err := r.repo.Walk()
	if err != nil {
		return nil, fmt.Errorf("create revwalk: %w", err)
	}
	defer walk.Free()

	walk.Sorting(git2go.SortTopological | git2go.SortTime)

	err = walk.Push(end.ToOid())
	if err != nil {
		return nil, fmt.Errorf("push %s to revwalk: %w", end, err)
	}

	err = walk.Hide(start.ToOid())
	if err != nil {
		return nil, fmt.Errorf("hide %s from revwalk: %w", start, err)
	}

	var newestFirst []Hash

	err = walk.Iterate(func(commit *git2go.Commit) bool {
		hash := HashFromOid(commit.Id())
		commit.Free()

		// Keep only the ancestry path: commits that have start behind them.
		onPath, ancErr := r.IsAncestor(start, hash)
		if ancErr != nil || !onPath {
			return true
		}

		newestFirst = append(newestFirst, hash)

		return true
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s..%s: %w", start, end, err)
	}

	revs := make([]Hash, 0, len(newestFirst)+1)
	revs = append(revs, start)

	for i := len(newestFirst) - 1; i >= 0; i-- {
		revs = append(revs, newestFirst[i])
	}

	return revs, nil
}

// InitialCommit returns the root commit reachable from HEAD. With multiple
// roots (e.g. merged unrelated histories) the first one in reverse
// topological order wins.
func (r *Repository) InitialCommit() (Hash, error) {
	head, err := r.Head()
	if err != nil {
		return Hash{}, err
	}

	walk, err := r.repo.Walk()
	if err != nil {
		return Hash{}, fmt.Errorf("create revwalk: %w", err)
	}
	defer walk.Free()

	walk.Sorting(git2go.SortTopological | git2go.SortReverse)

	err = walk.Push(head.ToOid())
	if err != nil {
		return Hash{}, fmt.Errorf("push HEAD to revwalk: %w", err)
	}

	var oid git2go.Oid

	err = walk.Next(&oid)
	if err != nil {
		return Hash{}, fmt.Errorf("%w: %w", ErrEmptyRepository, err)
	}

	return HashFromOid(&oid), nil
}
