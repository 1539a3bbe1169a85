package revision

import "fmt"

// CommitRepoPair identifies a commit unambiguously across repositories that
// may share commit IDs, e.g. submodules of the same superproject.
type CommitRepoPair struct {
	CommitHash     FullHash
	RepositoryName string
}

// NewCommitRepoPair creates a commit/repository pair.
func NewCommitRepoPair(hash FullHash, repoName string) CommitRepoPair {
	return CommitRepoPair{CommitHash: hash, RepositoryName: repoName}
}

// Less orders pairs lexicographically by (commit hash, repository name).
func (p CommitRepoPair) Less(other CommitRepoPair) bool {
	if cmp := p.CommitHash.Compare(other.CommitHash); cmp != 0 {
		return cmp < 0
	}

	return p.RepositoryName < other.RepositoryName
}

// Compare orders pairs lexicographically by (commit hash, repository name).
func (p CommitRepoPair) Compare(other CommitRepoPair) int {
	if cmp := p.CommitHash.Compare(other.CommitHash); cmp != 0 {
		return cmp
	}

	switch {
	case p.RepositoryName < other.RepositoryName:
		return -1
	case p.RepositoryName > other.RepositoryName:
		return 1
	default:
		return 0
	}
}

// String renders the pair as "repo[hash]".
func (p CommitRepoPair) String() string {
	return fmt.Sprintf("%s[%s]", p.RepositoryName, p.CommitHash)
}
