package report_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revisor-tools/revisor/pkg/report"
	"github.com/revisor-tools/revisor/pkg/revision"
)

func validFilename() report.Filename {
	return report.Filename{
		ExperimentShorthand: "JIT",
		ReportShorthand:     "TR",
		ProjectName:         "brotli",
		BinaryName:          "brotli",
		Revision:            revision.MustShortHash("21ac39f7c8"),
		RunID:               uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"),
		Status:              report.StatusSuccess,
		FileType:            "zip",
	}
}

func TestFilenameEncode(t *testing.T) {
	name, err := validFilename().Encode()
	require.NoError(t, err)

	assert.Equal(t,
		"JIT-TR-brotli-brotli-21ac39f7c8_aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee_success.zip",
		name)
}

func TestFilenameEncodeWithConfigID(t *testing.T) {
	f := validFilename()
	configID := 7
	f.ConfigID = &configID
	f.Status = report.StatusFailed

	name, err := f.Encode()
	require.NoError(t, err)

	assert.Equal(t,
		"JIT-TR-brotli-brotli-21ac39f7c8_config-7_aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee_failed.zip",
		name)
}

func TestFilenameRoundTrip(t *testing.T) {
	configID := 42

	tests := []struct {
		name   string
		mutate func(*report.Filename)
	}{
		{name: "plain", mutate: func(*report.Filename) {}},
		{name: "with config id", mutate: func(f *report.Filename) { f.ConfigID = &configID }},
		{name: "failed status", mutate: func(f *report.Filename) { f.Status = report.StatusFailed }},
		{name: "compile error", mutate: func(f *report.Filename) { f.Status = report.StatusCompileError }},
		{name: "multi dot file type", mutate: func(f *report.Filename) { f.FileType = "tar.gz" }},
		{name: "fresh run id", mutate: func(f *report.Filename) { f.RunID = uuid.New() }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			original := validFilename()
			tc.mutate(&original)

			encoded, err := original.Encode()
			require.NoError(t, err)

			parsed, err := report.ParseFilename(encoded)
			require.NoError(t, err)

			assert.Equal(t, original, parsed)
		})
	}
}

func TestFilenameValidateRejectsDelimiters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*report.Filename)
	}{
		{name: "dash in project", mutate: func(f *report.Filename) { f.ProjectName = "bro-tli" }},
		{name: "underscore in binary", mutate: func(f *report.Filename) { f.BinaryName = "bin_ary" }},
		{name: "dot in experiment", mutate: func(f *report.Filename) { f.ExperimentShorthand = "J.IT" }},
		{name: "slash in report", mutate: func(f *report.Filename) { f.ReportShorthand = "T/R" }},
		{name: "underscore in file type", mutate: func(f *report.Filename) { f.FileType = "z_ip" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := validFilename()
			tc.mutate(&f)

			_, err := f.Encode()
			require.ErrorIs(t, err, report.ErrFieldDelimiter)
		})
	}
}

func TestFilenameValidateRejectsEmptyFields(t *testing.T) {
	f := validFilename()
	f.ProjectName = ""

	_, err := f.Encode()
	require.ErrorIs(t, err, report.ErrEmptyField)

	f = validFilename()
	f.Revision = revision.ShortHash{}

	_, err = f.Encode()
	require.ErrorIs(t, err, report.ErrEmptyField)
}

func TestFilenameEncodeRejectsNoneStatus(t *testing.T) {
	f := validFilename()
	f.Status = report.StatusNone

	_, err := f.Encode()
	require.ErrorIs(t, err, report.ErrUnknownStatus)
}

func TestParseFilenameMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "garbage", input: "result.txt.old"},
		{name: "missing file type", input: "JIT-TR-brotli-brotli-21ac39f7c8_uuid_success"},
		{name: "too few fields", input: "JIT-TR-brotli-21ac39f7c8_aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee_success.zip"},
		{name: "bad uuid", input: "JIT-TR-brotli-brotli-21ac39f7c8_nope_success.zip"},
		{name: "bad status", input: "JIT-TR-brotli-brotli-21ac39f7c8_aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee_exploded.zip"},
		{name: "bad config segment", input: "JIT-TR-brotli-brotli-21ac39f7c8_cfg-7_aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee_success.zip"},
		{name: "bad revision", input: "JIT-TR-brotli-brotli-zzzz_aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee_success.zip"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := report.ParseFilename(tc.input)
			require.ErrorIs(t, err, report.ErrMalformedFilename)
		})
	}
}

func TestSameFamily(t *testing.T) {
	base := validFilename()

	other := base
	other.RunID = uuid.New()
	other.Status = report.StatusFailed
	other.FileType = "yaml"
	assert.True(t, base.SameFamily(other))

	other = base
	other.BinaryName = "otherbin"
	assert.False(t, base.SameFamily(other))

	configID := 1
	other = base
	other.ConfigID = &configID
	assert.False(t, base.SameFamily(other))

	sameID := 1
	withCfg := base
	withCfg.ConfigID = &configID
	otherCfg := base
	otherCfg.ConfigID = &sameID
	assert.True(t, withCfg.SameFamily(otherCfg))
}
