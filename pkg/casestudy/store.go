package casestudy

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/revisor-tools/revisor/pkg/persist"
)

// FileExtension is the extension of persisted case-study documents.
const FileExtension = ".case_study"

// documentCodec serializes a case study as a two-document YAML file:
// a version header followed by the case-study body.
type documentCodec struct{}

// Encode implements persist.Codec.
func (documentCodec) Encode(w io.Writer, state any) error {
	encoder := yaml.NewEncoder(w)

	err := encoder.Encode(NewVersionHeader(DocType, DocVersion))
	if err != nil {
		return fmt.Errorf("encode version header: %w", err)
	}

	err = encoder.Encode(state)
	if err != nil {
		return fmt.Errorf("encode case study: %w", err)
	}

	err = encoder.Close()
	if err != nil {
		return fmt.Errorf("encode case study: %w", err)
	}

	return nil
}

// Decode implements persist.Codec.
func (documentCodec) Decode(r io.Reader, state any) error {
	decoder := yaml.NewDecoder(r)

	var header VersionHeader

	err := decoder.Decode(&header)
	if err != nil {
		return fmt.Errorf("decode version header: %w", err)
	}

	err = header.Validate()
	if err != nil {
		return err
	}

	err = header.RequireType(DocType)
	if err != nil {
		return err
	}

	err = header.RequireMinVersion(DocVersion)
	if err != nil {
		return err
	}

	err = decoder.Decode(state)
	if err != nil {
		return fmt.Errorf("decode case study: %w", err)
	}

	return nil
}

// Extension implements persist.Codec.
func (documentCodec) Extension() string {
	return FileExtension
}

// persister builds the document persister for one case-study identity.
func persister(projectName string, version int) *persist.Persister[CaseStudy] {
	name := New(projectName, version).Name()

	return persist.NewPersister[CaseStudy](name, documentCodec{})
}

// Store writes the case study into dir as "<project>_<version>.case_study".
func Store(dir string, cs *CaseStudy) error {
	err := cs.validate()
	if err != nil {
		return err
	}

	return persister(cs.ProjectName, cs.Version).Save(dir, func() *CaseStudy { return cs })
}

// Load reads the case study of the given project and version from dir.
func Load(dir, projectName string, version int) (*CaseStudy, error) {
	var cs *CaseStudy

	err := persister(projectName, version).Load(dir, func(state *CaseStudy) { cs = state })
	if err != nil {
		return nil, err
	}

	return cs, nil
}

// LoadAll reads every case-study document in dir, ordered by project name
// and version. Files without the case-study extension are ignored.
func LoadAll(dir string) ([]*CaseStudy, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("read case-study dir: %w", err)
	}

	var studies []*CaseStudy
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		projectName, version, ok := parseDocumentName(entry.Name())
		if !ok {
			continue
		}

		cs, err := Load(dir, projectName, version)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", entry.Name(), err)
		}

		studies = append(studies, cs)
	}

	sort.Slice(studies, func(i, j int) bool {
		if studies[i].ProjectName != studies[j].ProjectName {
			return studies[i].ProjectName < studies[j].ProjectName
		}

		return studies[i].Version < studies[j].Version
	})

	return studies, nil
}

// parseDocumentName splits "<project>_<version>.case_study" into its
// parts. The project name may itself contain underscores; the version is
// everything after the last one.
func parseDocumentName(name string) (string, int, bool) {
	stem, ok := strings.CutSuffix(name, FileExtension)
	if !ok {
		return "", 0, false
	}

	idx := strings.LastIndex(stem, "_")
	if idx <= 0 {
		return "", 0, false
	}

	version, err := strconv.Atoi(stem[idx+1:])
	if err != nil {
		return "", 0, false
	}

	return stem[:idx], version, true
}
