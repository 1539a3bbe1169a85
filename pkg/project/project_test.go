package project_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revisor-tools/revisor/pkg/binaries"
	"github.com/revisor-tools/revisor/pkg/gitlib/gittest"
	"github.com/revisor-tools/revisor/pkg/project"
	"github.com/revisor-tools/revisor/pkg/revision"
)

func TestLocalProjectRevisionsNewestFirst(t *testing.T) {
	tr := gittest.New(t)

	tr.WriteFile("a.txt", "one\n")
	first := tr.Commit("initial")

	tr.WriteFile("a.txt", "one\ntwo\n")
	second := tr.Commit("second")

	proj, err := project.NewLocalProject("demo", tr.Path(), nil)
	require.NoError(t, err)

	t.Cleanup(proj.Free)

	assert.Equal(t, "demo", proj.Name())

	revs, err := proj.Revisions()
	require.NoError(t, err)

	assert.Equal(t, []revision.ShortHash{
		revision.MustShortHash(second),
		revision.MustShortHash(first),
	}, revs)
}

func TestLocalProjectHistoryOldestFirst(t *testing.T) {
	tr := gittest.New(t)

	tr.WriteFile("a.txt", "one\n")
	first := tr.Commit("initial")

	tr.WriteFile("a.txt", "one\ntwo\n")
	second := tr.Commit("second")

	proj, err := project.NewLocalProject("demo", tr.Path(), nil)
	require.NoError(t, err)

	t.Cleanup(proj.Free)

	history, err := proj.History()
	require.NoError(t, err)

	assert.Equal(t, []revision.FullHash{
		revision.MustFullHash(first),
		revision.MustFullHash(second),
	}, history)
}

func TestLocalProjectBinaries(t *testing.T) {
	tr := gittest.New(t)

	tr.WriteFile("main.c", "int main() { return 0; }\n")
	first := tr.Commit("initial")

	bins, err := binaries.NewMap(tr.Path())
	require.NoError(t, err)

	t.Cleanup(bins.Free)

	_, err = bins.SpecifyBinary("build/demo", binaries.TypeExecutable)
	require.NoError(t, err)

	proj, err := project.NewLocalProject("demo", tr.Path(), bins)
	require.NoError(t, err)

	t.Cleanup(proj.Free)

	specs, err := proj.BinariesFor(revision.MustShortHash(first))
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "demo", specs[0].Name)
}

func TestLocalProjectWithoutBinaryMap(t *testing.T) {
	tr := gittest.New(t)

	tr.WriteFile("a.txt", "one\n")
	first := tr.Commit("initial")

	proj, err := project.NewLocalProject("demo", tr.Path(), nil)
	require.NoError(t, err)

	t.Cleanup(proj.Free)

	specs, err := proj.BinariesFor(revision.MustShortHash(first))
	require.NoError(t, err)
	assert.Empty(t, specs)
}
