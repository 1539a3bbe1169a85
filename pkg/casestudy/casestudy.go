package casestudy

import (
	"errors"
	"fmt"

	"github.com/revisor-tools/revisor/pkg/revision"
)

// Document type and format version written into the version header of
// every persisted case study.
const (
	DocType    = "CaseStudy"
	DocVersion = 1
)

// Case study structure errors.
var (
	ErrStageOutOfRange = errors.New("stage index out of range")
)

// Entry records one sampled revision inside a stage.
type Entry struct {
	// CommitHash is the full hash of the sampled revision.
	CommitHash revision.FullHash `yaml:"commit_hash"`
	// CommitID is the time-ordered index of the commit in project history.
	CommitID int `yaml:"commit_id"`
	// ConfigIDs lists the configurations selected for this revision,
	// empty for configuration-less experiments.
	ConfigIDs []int `yaml:"config_ids,omitempty"`
}

// Stage is an ordered group of sampled revisions. Stages separate
// sampling rounds, e.g. an initial sample from later extensions.
type Stage struct {
	Name    string  `yaml:"name,omitempty"`
	Entries []Entry `yaml:"revisions"`
}

// Contains reports whether the stage holds the given revision.
func (s *Stage) Contains(rev revision.FullHash) bool {
	for _, entry := range s.Entries {
		if entry.CommitHash == rev {
			return true
		}
	}

	return false
}

// CaseStudy is a named, persisted selection of a project and its sampled
// revisions, used to scope experiments to a fixed revision set.
type CaseStudy struct {
	ProjectName string  `yaml:"project_name"`
	Version     int     `yaml:"version"`
	Stages      []Stage `yaml:"stages"`
}

// New creates an empty case study for the given project. The version
// distinguishes multiple case studies of the same project.
func New(projectName string, version int) *CaseStudy {
	return &CaseStudy{
		ProjectName: projectName,
		Version:     version,
	}
}

// Name returns the canonical "<project>_<version>" identifier.
func (cs *CaseStudy) Name() string {
	return fmt.Sprintf("%s_%d", cs.ProjectName, cs.Version)
}

// NumStages returns the number of stages.
func (cs *CaseStudy) NumStages() int {
	return len(cs.Stages)
}

// StageByName returns the index of the first stage with the given name,
// or -1 if no stage carries it.
func (cs *CaseStudy) StageByName(name string) int {
	for i := range cs.Stages {
		if cs.Stages[i].Name == name {
			return i
		}
	}

	return -1
}

// InsertEmptyStage appends a new stage and returns its index.
func (cs *CaseStudy) InsertEmptyStage(name string) int {
	cs.Stages = append(cs.Stages, Stage{Name: name})

	return len(cs.Stages) - 1
}

// IncludeRevision adds a revision to the given stage, creating missing
// stages up to the index. Revisions already present anywhere in the case
// study are skipped; the return value reports whether the entry was added.
func (cs *CaseStudy) IncludeRevision(stage int, rev revision.FullHash, commitID int, configIDs ...int) (bool, error) {
	if stage < 0 {
		return false, fmt.Errorf("%w: %d", ErrStageOutOfRange, stage)
	}

	if cs.Contains(rev) {
		return false, nil
	}

	for len(cs.Stages) <= stage {
		cs.Stages = append(cs.Stages, Stage{})
	}

	cs.Stages[stage].Entries = append(cs.Stages[stage].Entries, Entry{
		CommitHash: rev,
		CommitID:   commitID,
		ConfigIDs:  configIDs,
	})

	return true, nil
}

// Contains reports whether any stage holds the given revision.
func (cs *CaseStudy) Contains(rev revision.FullHash) bool {
	for i := range cs.Stages {
		if cs.Stages[i].Contains(rev) {
			return true
		}
	}

	return false
}

// HasRevision reports whether any stage holds a revision with the given
// short-hash prefix.
func (cs *CaseStudy) HasRevision(short revision.ShortHash) bool {
	for i := range cs.Stages {
		for _, entry := range cs.Stages[i].Entries {
			if entry.CommitHash.HasPrefix(short) {
				return true
			}
		}
	}

	return false
}

// Revisions returns all revisions across stages in stage order, without
// duplicates.
func (cs *CaseStudy) Revisions() []revision.FullHash {
	seen := make(map[revision.FullHash]struct{})

	var revs []revision.FullHash
	for i := range cs.Stages {
		for _, entry := range cs.Stages[i].Entries {
			if _, ok := seen[entry.CommitHash]; ok {
				continue
			}

			seen[entry.CommitHash] = struct{}{}
			revs = append(revs, entry.CommitHash)
		}
	}

	return revs
}

// ShortRevisions returns the short hashes of Revisions, in the same order.
func (cs *CaseStudy) ShortRevisions() []revision.ShortHash {
	full := cs.Revisions()

	revs := make([]revision.ShortHash, len(full))
	for i, rev := range full {
		revs[i] = rev.Short()
	}

	return revs
}

// RevisionsInStage returns the revisions of a single stage in entry order.
func (cs *CaseStudy) RevisionsInStage(stage int) ([]revision.FullHash, error) {
	if stage < 0 || stage >= len(cs.Stages) {
		return nil, fmt.Errorf("%w: %d", ErrStageOutOfRange, stage)
	}

	entries := cs.Stages[stage].Entries

	revs := make([]revision.FullHash, len(entries))
	for i, entry := range entries {
		revs[i] = entry.CommitHash
	}

	return revs, nil
}

// ConfigIDsForRevision returns the configuration IDs selected for the
// given revision, or nil if the revision is not part of the case study.
func (cs *CaseStudy) ConfigIDsForRevision(rev revision.FullHash) []int {
	for i := range cs.Stages {
		for _, entry := range cs.Stages[i].Entries {
			if entry.CommitHash == rev {
				return entry.ConfigIDs
			}
		}
	}

	return nil
}

func (cs *CaseStudy) validate() error {
	if cs.ProjectName == "" {
		return ErrEmptyProjectName
	}

	return nil
}
