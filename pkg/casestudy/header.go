// Package casestudy defines persistable case studies: named selections of
// a project and its sampled revisions, organized into stages and stored as
// versioned YAML documents.
package casestudy

import (
	"errors"
	"fmt"
)

// Version header errors.
var (
	ErrNoVersionHeader  = errors.New("document carries no version header")
	ErrWrongDocType     = errors.New("unexpected document type")
	ErrWrongDocVersion  = errors.New("document version below expected minimum")
	ErrEmptyProjectName = errors.New("case study has no project name")
)

// VersionHeader identifies the type and format version of the YAML
// document that follows it.
type VersionHeader struct {
	DocType string `yaml:"DocType"`
	Version int    `yaml:"Version"`
}

// NewVersionHeader creates a header for the given document type and version.
func NewVersionHeader(docType string, version int) VersionHeader {
	return VersionHeader{DocType: docType, Version: version}
}

// IsType reports whether the following document has the given type.
func (h VersionHeader) IsType(docType string) bool {
	return h.DocType == docType
}

// RequireType returns an error unless the following document has the
// given type.
func (h VersionHeader) RequireType(docType string) error {
	if !h.IsType(docType) {
		return fmt.Errorf("%w: expected %q, got %q", ErrWrongDocType, docType, h.DocType)
	}

	return nil
}

// RequireMinVersion returns an error if the document version is below
// the given bound.
func (h VersionHeader) RequireMinVersion(bound int) error {
	if h.Version < bound {
		return fmt.Errorf("%w: expected at least %d, got %d", ErrWrongDocVersion, bound, h.Version)
	}

	return nil
}

// Validate checks that the header carries both required fields.
func (h VersionHeader) Validate() error {
	if h.DocType == "" {
		return ErrNoVersionHeader
	}

	return nil
}
