package binaries_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revisor-tools/revisor/pkg/binaries"
	"github.com/revisor-tools/revisor/pkg/gitlib/gittest"
	"github.com/revisor-tools/revisor/pkg/revision"
)

// historyRepo builds a small linear history and returns the map plus the
// short hashes of its three commits, oldest first.
func historyRepo(t *testing.T) (*binaries.Map, []revision.ShortHash) {
	t.Helper()

	tr := gittest.New(t)

	tr.WriteFile("main.c", "int main() { return 0; }\n")
	first := tr.Commit("initial")

	tr.WriteFile("util.c", "int util;\n")
	second := tr.Commit("add util")

	tr.WriteFile("util.c", "int util = 1;\n")
	third := tr.Commit("init util")

	m, err := binaries.NewMap(tr.Path())
	require.NoError(t, err)

	t.Cleanup(m.Free)

	revs := make([]revision.ShortHash, 0, 3)
	for _, hex := range []string{first, second, third} {
		revs = append(revs, revision.MustShortHash(hex))
	}

	return m, revs
}

func TestSpecifyAlwaysValidBinary(t *testing.T) {
	m, revs := historyRepo(t)

	_, err := m.SpecifyBinary("build/bin/SingleLocalSimple", binaries.TypeExecutable)
	require.NoError(t, err)

	assert.True(t, m.Contains("SingleLocalSimple"))

	for _, rev := range revs {
		found, lookupErr := m.Lookup(rev)
		require.NoError(t, lookupErr)
		require.Len(t, found, 1)
		assert.Equal(t, "SingleLocalSimple", found[0].Name)
		assert.Equal(t, "build/bin/SingleLocalSimple", found[0].EntryPoint)
	}
}

func TestSpecifyBinaryValidityRange(t *testing.T) {
	m, revs := historyRepo(t)

	// Valid from the second commit up to the branch head.
	_, err := m.SpecifyBinary("build/bin/Ranged", binaries.TypeExecutable,
		binaries.OnlyValidIn(binaries.Range(revs[1].String(), "HEAD")))
	require.NoError(t, err)

	found, err := m.Lookup(revs[0])
	require.NoError(t, err)
	assert.Empty(t, found)

	for _, rev := range revs[1:] {
		found, err = m.Lookup(rev)
		require.NoError(t, err)
		require.Len(t, found, 1, rev.String())
		assert.Equal(t, "Ranged", found[0].Name)
	}
}

func TestSpecifySingleRevisionRange(t *testing.T) {
	m, revs := historyRepo(t)

	_, err := m.SpecifyBinary("build/bin/OneShot", binaries.TypeExecutable,
		binaries.OnlyValidIn(binaries.SingleRevision(revs[1].String())))
	require.NoError(t, err)

	found, err := m.Lookup(revs[1])
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = m.Lookup(revs[0])
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = m.Lookup(revs[2])
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestSpecifyBinaryOverrideName(t *testing.T) {
	m, _ := historyRepo(t)

	_, err := m.SpecifyBinary("build/bin/SingleLocalSimple", binaries.TypeExecutable,
		binaries.WithName("Overridden"))
	require.NoError(t, err)

	assert.True(t, m.Contains("Overridden"))
	assert.False(t, m.Contains("SingleLocalSimple"))
}

func TestSpecifyBinaryOverrideEntryPoint(t *testing.T) {
	m, revs := historyRepo(t)

	_, err := m.SpecifyBinary("build/bin/SingleLocalSimple", binaries.TypeExecutable,
		binaries.WithEntryPoint("build/bin/OtherSLSEntry"))
	require.NoError(t, err)

	found, err := m.Lookup(revs[0])
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "build/bin/OtherSLSEntry", found[0].EntryPoint)
}

func TestSpecifyBinaryDuplicateNameRejected(t *testing.T) {
	m, _ := historyRepo(t)

	_, err := m.SpecifyBinary("build/bin/Tool", binaries.TypeExecutable)
	require.NoError(t, err)

	_, err = m.SpecifyBinary("other/path/Tool", binaries.TypeSharedLibrary)
	require.ErrorIs(t, err, binaries.ErrDuplicateBinaryName)
}

func TestSpecifyBinaryExplicitOverrideReplaces(t *testing.T) {
	m, revs := historyRepo(t)

	_, err := m.SpecifyBinary("build/bin/Tool", binaries.TypeExecutable)
	require.NoError(t, err)

	_, err = m.SpecifyBinary("other/path/libtool.so", binaries.TypeSharedLibrary,
		binaries.WithName("Tool"))
	require.NoError(t, err)

	found, err := m.Lookup(revs[0])
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "other/path/libtool.so", found[0].Path)
	assert.Equal(t, binaries.TypeSharedLibrary, found[0].Type)
}

func TestLookupPreservesRegistrationOrder(t *testing.T) {
	m, revs := historyRepo(t)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := m.SpecifyBinary("build/bin/"+name, binaries.TypeExecutable)
		require.NoError(t, err)
	}

	found, err := m.Lookup(revs[2])
	require.NoError(t, err)
	require.Len(t, found, 3)

	assert.Equal(t, "zeta", found[0].Name)
	assert.Equal(t, "alpha", found[1].Name)
	assert.Equal(t, "mid", found[2].Name)
}

func TestLookupUnknownRevisionFails(t *testing.T) {
	m, _ := historyRepo(t)

	_, err := m.SpecifyBinary("build/bin/Tool", binaries.TypeExecutable,
		binaries.OnlyValidIn(binaries.Range("HEAD~1", "HEAD")))
	require.NoError(t, err)

	_, err = m.Lookup(revision.MustShortHash("4242424242"))
	require.Error(t, err)
}

func TestContainsWrongKeyTypes(t *testing.T) {
	m, _ := historyRepo(t)

	_, err := m.SpecifyBinary("build/bin/Tool", binaries.TypeExecutable)
	require.NoError(t, err)

	assert.False(t, m.Contains(42))
	assert.False(t, m.Contains(nil))
	assert.False(t, m.Contains([]string{"Tool"}))
	assert.True(t, m.Contains(binaries.Spec{Name: "Tool", Path: "build/bin/Tool"}))
	assert.False(t, m.Contains(binaries.Spec{Name: "Tool", Path: "elsewhere"}))
}

func TestBinaryTypeString(t *testing.T) {
	assert.Equal(t, "executable", binaries.TypeExecutable.String())
	assert.Equal(t, "shared_library", binaries.TypeSharedLibrary.String())
	assert.Equal(t, "static_library", binaries.TypeStaticLibrary.String())
}
