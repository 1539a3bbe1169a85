package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revisor-tools/revisor/pkg/report"
)

func TestStatusStringRoundTrip(t *testing.T) {
	for _, status := range report.AllStatuses() {
		parsed, err := report.ParseStatus(status.String())
		require.NoError(t, err)
		assert.Equal(t, status, parsed)
	}
}

func TestParseStatusUnknown(t *testing.T) {
	_, err := report.ParseStatus("exploded")
	require.ErrorIs(t, err, report.ErrUnknownStatus)

	// The sentinel has no filename encoding.
	_, err = report.ParseStatus("none")
	require.ErrorIs(t, err, report.ErrUnknownStatus)
}

func TestStatusMergeSuccessDominates(t *testing.T) {
	assert.Equal(t, report.StatusSuccess, report.StatusFailed.Merge(report.StatusSuccess))
	assert.Equal(t, report.StatusSuccess, report.StatusSuccess.Merge(report.StatusCompileError))
}

func TestStatusMergeKeepsFailureOverNone(t *testing.T) {
	// A terminal failure must stay distinguishable from "never attempted".
	assert.Equal(t, report.StatusFailed, report.StatusNone.Merge(report.StatusFailed))
	assert.Equal(t, report.StatusFailed, report.StatusFailed.Merge(report.StatusNone))
	assert.Equal(t, report.StatusNone, report.StatusNone.Merge(report.StatusNone))
}

func TestStatusMergePrecedenceChain(t *testing.T) {
	chain := []report.FileStatus{
		report.StatusBlocked,
		report.StatusMissing,
		report.StatusCompileError,
		report.StatusFailed,
		report.StatusSuccess,
	}

	for i := 0; i < len(chain)-1; i++ {
		assert.Equal(t, chain[i+1], chain[i].Merge(chain[i+1]))
	}
}
