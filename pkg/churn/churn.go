package churn

import (
	"fmt"

	"github.com/revisor-tools/revisor/pkg/gitlib"
)

// Counts aggregates churn over a set of file diffs.
type Counts struct {
	FilesChanged int
	Insertions   int
	Deletions    int
}

// Add accumulates another set of counts.
func (c *Counts) Add(other Counts) {
	c.FilesChanged += other.FilesChanged
	c.Insertions += other.Insertions
	c.Deletions += other.Deletions
}

// Calculator computes churn against one repository using a fixed config.
type Calculator struct {
	repo *gitlib.Repository
	cfg  *Config
}

// NewCalculator creates a churn calculator for the given repository.
// A nil config includes everything.
func NewCalculator(repo *gitlib.Repository, cfg *Config) *Calculator {
	if cfg == nil {
		cfg = NewConfig()
	}

	return &Calculator{repo: repo, cfg: cfg}
}

// CommitChurn computes the churn a single commit introduced, diffing it
// against each of its parents. A root commit is diffed against the empty
// tree. Unknown commits are fatal and propagated.
func (c *Calculator) CommitChurn(commit gitlib.Hash) (Counts, error) {
	newCommit, err := c.repo.LookupCommit(commit)
	if err != nil {
		return Counts{}, err
	}
	defer newCommit.Free()

	if newCommit.NumParents() == 0 {
		stats, diffErr := c.repo.DiffStats(nil, newCommit)
		if diffErr != nil {
			return Counts{}, diffErr
		}

		return c.count(stats), nil
	}

	var total Counts

	for n := range newCommit.NumParents() {
		parent, parentErr := newCommit.Parent(n)
		if parentErr != nil {
			return Counts{}, parentErr
		}

		stats, diffErr := c.repo.DiffStats(parent, newCommit)

		parent.Free()

		if diffErr != nil {
			return Counts{}, diffErr
		}

		total.Add(c.count(stats))
	}

	return total, nil
}

// RangeChurn computes the churn between two arbitrary commits as a single
// diff, so overlapping per-file changes are not double counted.
func (c *Calculator) RangeChurn(start, end gitlib.Hash) (Counts, error) {
	startCommit, err := c.repo.LookupCommit(start)
	if err != nil {
		return Counts{}, err
	}
	defer startCommit.Free()

	endCommit, err := c.repo.LookupCommit(end)
	if err != nil {
		return Counts{}, err
	}
	defer endCommit.Free()

	stats, err := c.repo.DiffStats(startCommit, endCommit)
	if err != nil {
		return Counts{}, fmt.Errorf("range churn %s..%s: %w", start, end, err)
	}

	return c.count(stats), nil
}

// count folds per-file diff stats into churn counts, keeping only files
// whose extension the config enables. Renamed files with zero line changes
// still count toward FilesChanged.
func (c *Calculator) count(stats []gitlib.FileStat) Counts {
	var counts Counts

	for _, stat := range stats {
		if !c.cfg.Matches(stat.Path()) {
			continue
		}

		counts.FilesChanged++
		counts.Insertions += stat.Insertions
		counts.Deletions += stat.Deletions
	}

	return counts
}
