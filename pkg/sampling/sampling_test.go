package sampling_test

import (
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revisor-tools/revisor/pkg/report"
	"github.com/revisor-tools/revisor/pkg/revision"
	"github.com/revisor-tools/revisor/pkg/sampling"
)

const project = "brotli"

func fiveRevisions() []revision.ShortHash {
	return []revision.ShortHash{
		revision.MustShortHash("aaaaaaaaaa"),
		revision.MustShortHash("bbbbbbbbbb"),
		revision.MustShortHash("cccccccccc"),
		revision.MustShortHash("dddddddddd"),
		revision.MustShortHash("eeeeeeeeee"),
	}
}

// registryWith creates a registry whose project directory holds one result
// file per (revision, status) pair.
func registryWith(t *testing.T, statuses map[string]report.FileStatus) *report.Registry {
	t.Helper()

	reg := report.NewRegistry(t.TempDir(), slog.New(slog.DiscardHandler))

	dir := reg.ProjectDir(project)
	require.NoError(t, os.MkdirAll(dir, 0o750))

	for rev, status := range statuses {
		name, err := report.Filename{
			ExperimentShorthand: "JIT",
			ReportShorthand:     "TR",
			ProjectName:         project,
			BinaryName:          "brotli",
			Revision:            revision.MustShortHash(rev),
			RunID:               uuid.New(),
			Status:              status,
			FileType:            "zip",
		}.Encode()
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o640))
	}

	return reg
}

func TestSampleSmokeTestDefault(t *testing.T) {
	sampler := sampling.New(sampling.Policy{}, nil)

	revs := fiveRevisions()

	selected, err := sampler.Sample(project, revs)
	require.NoError(t, err)

	assert.Equal(t, []revision.ShortHash{revs[0]}, selected)
}

func TestSampleSmokeTestDefaultEmptyInput(t *testing.T) {
	sampler := sampling.New(sampling.Policy{}, nil)

	selected, err := sampler.Sample(project, nil)
	require.NoError(t, err)
	assert.Empty(t, selected)
}

func TestSampleFullPassesAllThrough(t *testing.T) {
	sampler := sampling.New(sampling.Policy{Full: true}, nil)

	revs := fiveRevisions()

	selected, err := sampler.Sample(project, revs)
	require.NoError(t, err)

	assert.Equal(t, revs, selected)
}

func TestSampleWhitelistSelectsTaggedRevision(t *testing.T) {
	reg := registryWith(t, map[string]report.FileStatus{
		"cccccccccc": report.StatusSuccess,
	})

	sampler := sampling.New(sampling.Policy{
		Whitelist: []report.FileStatus{report.StatusSuccess},
	}, reg)

	selected, err := sampler.Sample(project, fiveRevisions())
	require.NoError(t, err)

	assert.Equal(t, []revision.ShortHash{revision.MustShortHash("cccccccccc")}, selected)
}

func TestSampleBlacklistExcludes(t *testing.T) {
	reg := registryWith(t, map[string]report.FileStatus{
		"aaaaaaaaaa": report.StatusSuccess,
		"bbbbbbbbbb": report.StatusFailed,
	})

	sampler := sampling.New(sampling.Policy{
		Blacklist: []report.FileStatus{report.StatusSuccess},
	}, reg)

	selected, err := sampler.Sample(project, fiveRevisions())
	require.NoError(t, err)

	// Everything but the successful revision, in input order.
	assert.Equal(t, []revision.ShortHash{
		revision.MustShortHash("bbbbbbbbbb"),
		revision.MustShortHash("cccccccccc"),
		revision.MustShortHash("dddddddddd"),
		revision.MustShortHash("eeeeeeeeee"),
	}, selected)
}

func TestSampleWhitelistWinsOverBlacklist(t *testing.T) {
	reg := registryWith(t, map[string]report.FileStatus{
		"aaaaaaaaaa": report.StatusSuccess,
		"bbbbbbbbbb": report.StatusFailed,
	})

	// Success is both whitelisted and blacklisted: the whitelist
	// short-circuits, so the successful revision stays in.
	sampler := sampling.New(sampling.Policy{
		Whitelist: []report.FileStatus{report.StatusSuccess, report.StatusFailed},
		Blacklist: []report.FileStatus{report.StatusSuccess},
	}, reg)

	selected, err := sampler.Sample(project, fiveRevisions())
	require.NoError(t, err)

	assert.Equal(t, []revision.ShortHash{
		revision.MustShortHash("aaaaaaaaaa"),
		revision.MustShortHash("bbbbbbbbbb"),
	}, selected)
}

func TestSampleEmptyAfterFilteringIsNotAnError(t *testing.T) {
	reg := registryWith(t, nil)

	sampler := sampling.New(sampling.Policy{
		Whitelist: []report.FileStatus{report.StatusSuccess},
	}, reg)

	selected, err := sampler.Sample(project, fiveRevisions())
	require.NoError(t, err)
	assert.Empty(t, selected)
}

func TestSampleLimitAppliedAfterShuffle(t *testing.T) {
	sampler := sampling.New(sampling.Policy{
		Full:        true,
		RandomOrder: true,
		SampleLimit: 2,
	}, nil, sampling.WithRand(rand.New(rand.NewSource(1))))

	revs := fiveRevisions()

	selected, err := sampler.Sample(project, revs)
	require.NoError(t, err)
	require.Len(t, selected, 2)

	for _, rev := range selected {
		assert.Contains(t, revs, rev)
	}
}

func TestSampleLimitDeterministicOrder(t *testing.T) {
	sampler := sampling.New(sampling.Policy{Full: true, SampleLimit: 3}, nil)

	revs := fiveRevisions()

	selected, err := sampler.Sample(project, revs)
	require.NoError(t, err)

	assert.Equal(t, revs[:3], selected)
}

func TestSampleRandomOrderDeterministicWithSeed(t *testing.T) {
	policy := sampling.Policy{Full: true, RandomOrder: true}

	first := sampling.New(policy, nil, sampling.WithRand(rand.New(rand.NewSource(7))))
	second := sampling.New(policy, nil, sampling.WithRand(rand.New(rand.NewSource(7))))

	a, err := first.Sample(project, fiveRevisions())
	require.NoError(t, err)

	b, err := second.Sample(project, fiveRevisions())
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.ElementsMatch(t, fiveRevisions(), a)
}

func TestSampleDoesNotMutateInput(t *testing.T) {
	sampler := sampling.New(sampling.Policy{Full: true, RandomOrder: true}, nil,
		sampling.WithRand(rand.New(rand.NewSource(3))))

	revs := fiveRevisions()
	input := make([]revision.ShortHash, len(revs))
	copy(input, revs)

	_, err := sampler.Sample(project, input)
	require.NoError(t, err)

	assert.Equal(t, revs, input)
}

func TestTagRevisionsDelegatesToRegistry(t *testing.T) {
	reg := registryWith(t, map[string]report.FileStatus{
		"aaaaaaaaaa": report.StatusSuccess,
	})

	sampler := sampling.New(sampling.Policy{}, reg)

	tags, err := sampler.TagRevisions(project, fiveRevisions())
	require.NoError(t, err)

	assert.Equal(t, report.StatusSuccess, tags[revision.MustShortHash("aaaaaaaaaa")])
	assert.Equal(t, report.StatusNone, tags[revision.MustShortHash("bbbbbbbbbb")])
}
