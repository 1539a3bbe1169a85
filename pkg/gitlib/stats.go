package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// DeltaKind classifies a per-file change in a diff.
type DeltaKind int

// Per-file change kinds.
const (
	DeltaAdded DeltaKind = iota
	DeltaDeleted
	DeltaModified
	DeltaRenamed
	DeltaCopied
	DeltaOther
)

// FileStat holds the line statistics for one file of a diff.
// For added files OldPath is empty; for deleted files NewPath is empty.
type FileStat struct {
	OldPath    string
	NewPath    string
	Insertions int
	Deletions  int
	Kind       DeltaKind
}

// Path returns the post-change path, falling back to the pre-change path
// for deletions.
func (s FileStat) Path() string {
	if s.NewPath != "" {
		return s.NewPath
	}

	return s.OldPath
}

// DiffStats computes per-file line statistics between two commits with
// rename detection enabled. A nil oldCommit diffs newCommit against the
// empty tree, which is how root commits are handled.
func (r *Repository) DiffStats(oldCommit, newCommit *Commit) ([]FileStat, error) {
	var (
		oldTree, newTree *git2go.Tree
		err              error
	)

	if oldCommit != nil {
		oldTree, err = oldCommit.tree()
		if err != nil {
			return nil, err
		}
		defer oldTree.Free()
	}

	newTree, err = newCommit.tree()
	if err != nil {
		return nil, err
	}
	defer newTree.Free()

	diffOpts, err := git2go.DefaultDiffOptions()
	if err != nil {
		return nil, fmt.Errorf("get diff options: %w", err)
	}

	diff, err := r.repo.DiffTreeToTree(oldTree, newTree, &diffOpts)
	if err != nil {
		return nil, fmt.Errorf("diff trees: %w", err)
	}
	defer func() { _ = diff.Free() }()

	findOpts, err := git2go.DefaultDiffFindOptions()
	if err != nil {
		return nil, fmt.Errorf("get diff find options: %w", err)
	}

	findOpts.Flags = git2go.DiffFindRenames

	err = diff.FindSimilar(&findOpts)
	if err != nil {
		return nil, fmt.Errorf("find renames: %w", err)
	}

	numDeltas, err := diff.NumDeltas()
	if err != nil {
		return nil, fmt.Errorf("get num deltas: %w", err)
	}

	stats := make([]FileStat, 0, numDeltas)

	// git2go v34 does not bind git_patch_line_stats, so count the
	// addition and deletion lines of each delta while walking the diff.
	err = diff.ForEach(func(delta git2go.DiffDelta, _ float64) (git2go.DiffForEachHunkCallback, error) {
		stats = append(stats, FileStat{
			OldPath: delta.OldFile.Path,
			NewPath: delta.NewFile.Path,
			Kind:    deltaKind(delta.Status),
		})

		current := &stats[len(stats)-1]

		return func(git2go.DiffHunk) (git2go.DiffForEachLineCallback, error) {
			return func(line git2go.DiffLine) error {
				switch line.Origin {
				case git2go.DiffLineAddition:
					current.Insertions++
				case git2go.DiffLineDeletion:
					current.Deletions++
				}

				return nil
			}, nil
		}, nil
	}, git2go.DiffDetailLines)
	if err != nil {
		return nil, fmt.Errorf("line stats: %w", err)
	}

	return stats, nil
}

func deltaKind(status git2go.Delta) DeltaKind {
	switch status {
	case git2go.DeltaAdded:
		return DeltaAdded
	case git2go.DeltaDeleted:
		return DeltaDeleted
	case git2go.DeltaModified:
		return DeltaModified
	case git2go.DeltaRenamed:
		return DeltaRenamed
	case git2go.DeltaCopied:
		return DeltaCopied
	case git2go.DeltaUnmodified, git2go.DeltaIgnored, git2go.DeltaUntracked,
		git2go.DeltaTypeChange, git2go.DeltaUnreadable, git2go.DeltaConflicted:
		return DeltaOther
	default:
		return DeltaOther
	}
}
