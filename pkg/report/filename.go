package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/revisor-tools/revisor/pkg/revision"
)

// Delimiters of the result filename grammar.
const (
	fieldDelimiter   = "-"
	segmentDelimiter = "_"
	typeDelimiter    = "."
	configPrefix     = "config-"
)

// headFieldCount is the number of dash-separated fields before the first
// underscore segment: experiment, report, project, binary, revision.
const headFieldCount = 5

// Sentinel errors for filename construction and parsing.
var (
	// ErrFieldDelimiter is returned when a field contains a reserved
	// delimiter character. This is a usage error raised at construction,
	// never deferred to disk-write time.
	ErrFieldDelimiter = errors.New("field contains a delimiter character")
	// ErrEmptyField is returned when a required field is empty.
	ErrEmptyField = errors.New("filename field must not be empty")
	// ErrMalformedFilename is returned when a string does not follow the
	// result filename grammar.
	ErrMalformedFilename = errors.New("malformed result filename")
)

// Filename is the structured encoding of one result artifact:
//
//	<experiment>-<report>-<project>-<binary>-<revision>[_config-<id>]_<uuid>_<status>.<filetype>
//
// The run id distinguishes repeated attempts at the same logical report;
// all other identity fields together form the attempt family.
type Filename struct {
	ExperimentShorthand string
	ReportShorthand     string
	ProjectName         string
	BinaryName          string
	Revision            revision.ShortHash
	RunID               uuid.UUID
	ConfigID            *int
	Status              FileStatus
	FileType            string
}

// Validate checks every field against the grammar. Fields that carry a
// delimiter character would make the encoding ambiguous and are rejected.
func (f Filename) Validate() error {
	named := []struct {
		name  string
		value string
	}{
		{"experiment shorthand", f.ExperimentShorthand},
		{"report shorthand", f.ReportShorthand},
		{"project name", f.ProjectName},
		{"binary name", f.BinaryName},
	}

	for _, field := range named {
		if field.value == "" {
			return fmt.Errorf("%w: %s", ErrEmptyField, field.name)
		}

		if strings.ContainsAny(field.value, fieldDelimiter+segmentDelimiter+typeDelimiter+"/") {
			return fmt.Errorf("%w: %s %q", ErrFieldDelimiter, field.name, field.value)
		}
	}

	if f.Revision.IsZero() {
		return fmt.Errorf("%w: revision", ErrEmptyField)
	}

	if f.FileType == "" {
		return fmt.Errorf("%w: file type", ErrEmptyField)
	}

	if strings.ContainsAny(f.FileType, fieldDelimiter+segmentDelimiter+"/") {
		return fmt.Errorf("%w: file type %q", ErrFieldDelimiter, f.FileType)
	}

	if f.Status == StatusNone {
		return fmt.Errorf("%w: %q has no filename encoding", ErrUnknownStatus, f.Status)
	}

	return nil
}

// Encode renders the filename string, validating first.
func (f Filename) Encode() (string, error) {
	err := f.Validate()
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	sb.WriteString(f.ExperimentShorthand)
	sb.WriteString(fieldDelimiter)
	sb.WriteString(f.ReportShorthand)
	sb.WriteString(fieldDelimiter)
	sb.WriteString(f.ProjectName)
	sb.WriteString(fieldDelimiter)
	sb.WriteString(f.BinaryName)
	sb.WriteString(fieldDelimiter)
	sb.WriteString(f.Revision.String())

	if f.ConfigID != nil {
		sb.WriteString(segmentDelimiter)
		sb.WriteString(configPrefix)
		sb.WriteString(strconv.Itoa(*f.ConfigID))
	}

	sb.WriteString(segmentDelimiter)
	sb.WriteString(f.RunID.String())
	sb.WriteString(segmentDelimiter)
	sb.WriteString(f.Status.String())
	sb.WriteString(typeDelimiter)
	sb.WriteString(f.FileType)

	return sb.String(), nil
}

// ParseFilename decodes a result filename. The round trip
// ParseFilename(f.Encode()) == f holds for every valid f.
func ParseFilename(name string) (Filename, error) {
	stem, fileType, found := strings.Cut(name, typeDelimiter)
	if !found || fileType == "" {
		return Filename{}, fmt.Errorf("%w: %q: missing file type", ErrMalformedFilename, name)
	}

	segments := strings.Split(stem, segmentDelimiter)

	const (
		plainSegments  = 3 // head, uuid, status
		configSegments = 4 // head, config id, uuid, status
	)

	if len(segments) != plainSegments && len(segments) != configSegments {
		return Filename{}, fmt.Errorf("%w: %q: wrong segment count", ErrMalformedFilename, name)
	}

	var configID *int

	if len(segments) == configSegments {
		raw, ok := strings.CutPrefix(segments[1], configPrefix)
		if !ok {
			return Filename{}, fmt.Errorf("%w: %q: expected config segment", ErrMalformedFilename, name)
		}

		id, err := strconv.Atoi(raw)
		if err != nil {
			return Filename{}, fmt.Errorf("%w: %q: bad config id: %w", ErrMalformedFilename, name, err)
		}

		configID = &id
	}

	head := strings.Split(segments[0], fieldDelimiter)
	if len(head) != headFieldCount {
		return Filename{}, fmt.Errorf("%w: %q: wrong field count", ErrMalformedFilename, name)
	}

	rev, err := revision.NewShortHash(head[4])
	if err != nil {
		return Filename{}, fmt.Errorf("%w: %q: %w", ErrMalformedFilename, name, err)
	}

	runID, err := uuid.Parse(segments[len(segments)-2])
	if err != nil {
		return Filename{}, fmt.Errorf("%w: %q: bad run id: %w", ErrMalformedFilename, name, err)
	}

	status, err := ParseStatus(segments[len(segments)-1])
	if err != nil {
		return Filename{}, fmt.Errorf("%w: %q: %w", ErrMalformedFilename, name, err)
	}

	parsed := Filename{
		ExperimentShorthand: head[0],
		ReportShorthand:     head[1],
		ProjectName:         head[2],
		BinaryName:          head[3],
		Revision:            rev,
		RunID:               runID,
		ConfigID:            configID,
		Status:              status,
		FileType:            fileType,
	}

	err = parsed.Validate()
	if err != nil {
		return Filename{}, fmt.Errorf("%w: %q: %w", ErrMalformedFilename, name, err)
	}

	return parsed, nil
}

// SameFamily reports whether two filenames describe attempts at the same
// logical report, i.e. they differ at most in run id, status, and file type.
func (f Filename) SameFamily(other Filename) bool {
	return f.ExperimentShorthand == other.ExperimentShorthand &&
		f.ReportShorthand == other.ReportShorthand &&
		f.ProjectName == other.ProjectName &&
		f.BinaryName == other.BinaryName &&
		f.Revision == other.Revision &&
		configIDsEqual(f.ConfigID, other.ConfigID)
}

func configIDsEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}
