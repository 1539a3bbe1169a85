// Package gittest builds throwaway git repositories for tests.
package gittest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/stretchr/testify/require"
)

// Repo wraps a temporary git repository for integration tests.
type Repo struct {
	t      *testing.T
	path   string
	native *git2go.Repository
}

// New creates an empty repository under t.TempDir. Resources are released
// via t.Cleanup.
func New(t *testing.T) *Repo {
	t.Helper()

	dir := t.TempDir()

	repo, err := git2go.InitRepository(dir, false)
	require.NoError(t, err)

	t.Cleanup(repo.Free)

	return &Repo{t: t, path: dir, native: repo}
}

// Path returns the repository working directory.
func (r *Repo) Path() string {
	return r.path
}

// Native returns the underlying libgit2 repository.
func (r *Repo) Native() *git2go.Repository {
	return r.native
}

// WriteFile creates or overwrites a file in the working directory.
func (r *Repo) WriteFile(name, content string) {
	r.t.Helper()

	path := filepath.Join(r.path, name)

	dir := filepath.Dir(path)
	if dir != r.path {
		require.NoError(r.t, os.MkdirAll(dir, 0o755))
	}

	require.NoError(r.t, os.WriteFile(path, []byte(content), 0o644))
}

// RemoveFile deletes a file from the working directory.
func (r *Repo) RemoveFile(name string) {
	r.t.Helper()

	require.NoError(r.t, os.Remove(filepath.Join(r.path, name)))
}

// Commit stages every change and commits it, returning the full commit hash
// as a hex string.
func (r *Repo) Commit(message string) string {
	r.t.Helper()

	index, err := r.native.Index()
	require.NoError(r.t, err)

	defer index.Free()

	require.NoError(r.t, index.AddAll([]string{"*"}, git2go.IndexAddDefault, nil))

	// AddAll does not stage deletions.
	require.NoError(r.t, index.UpdateAll([]string{"*"}, nil))
	require.NoError(r.t, index.Write())

	treeID, err := index.WriteTree()
	require.NoError(r.t, err)

	tree, err := r.native.LookupTree(treeID)
	require.NoError(r.t, err)

	defer tree.Free()

	sig := &git2go.Signature{
		Name:  "Test User",
		Email: "test@example.com",
		When:  time.Now(),
	}

	var parents []*git2go.Commit

	head, err := r.native.Head()
	if err == nil {
		headCommit, lookupErr := r.native.LookupCommit(head.Target())
		require.NoError(r.t, lookupErr)

		parents = append(parents, headCommit)

		head.Free()
	}

	oid, err := r.native.CreateCommit("HEAD", sig, sig, message, tree, parents...)
	require.NoError(r.t, err)

	for _, parent := range parents {
		parent.Free()
	}

	return oid.String()
}

// CreateBranch creates a branch pointing at the given commit.
func (r *Repo) CreateBranch(name, commitHex string) {
	r.t.Helper()

	oid, err := git2go.NewOid(commitHex)
	require.NoError(r.t, err)

	commit, err := r.native.LookupCommit(oid)
	require.NoError(r.t, err)

	defer commit.Free()

	branch, err := r.native.CreateBranch(name, commit, false)
	require.NoError(r.t, err)

	branch.Free()
}
