package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/revisor-tools/revisor/pkg/revision"
)

// Directory permissions for result directories.
const resultDirPerm = 0o750

// Registry tracks result artifacts in a result directory. Per project it
// scans filenames, merges the statuses of repeated attempts, and creates
// the backing paths for new results.
//
// Scans are read-only and safe to run from many processes as long as no
// writer mutates the same project directory concurrently.
type Registry struct {
	resultDir string
	log       *slog.Logger
	cache     *ScanCache
}

// NewRegistry creates a registry rooted at resultDir. A nil logger falls
// back to slog.Default.
func NewRegistry(resultDir string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{resultDir: resultDir, log: logger}
}

// UseScanCache memoizes filename parsing across scans in the given
// cache. The caller persists the cache via [ScanCache.Save].
func (r *Registry) UseScanCache(cache *ScanCache) {
	r.cache = cache
}

// ResultDir returns the registry root.
func (r *Registry) ResultDir() string {
	return r.resultDir
}

// ProjectDir returns the directory holding one project's results.
func (r *Registry) ProjectDir(project string) string {
	return filepath.Join(r.resultDir, project)
}

// ScanProject parses every result filename in the project's directory.
// Stray files that do not follow the grammar are skipped with a warning
// instead of aborting the scan. A missing project directory yields an
// empty slice.
func (r *Registry) ScanProject(project string) ([]Filename, error) {
	entries, err := os.ReadDir(r.ProjectDir(project))
	if os.IsNotExist(err) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("scan results of %q: %w", project, err)
	}

	files := make([]Filename, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if r.cache != nil {
			if parsed, ok := r.cache.Lookup(project, entry.Name()); ok {
				files = append(files, parsed)

				continue
			}
		}

		parsed, parseErr := ParseFilename(entry.Name())
		if parseErr != nil {
			r.log.Warn("skipping unparseable result file",
				"project", project, "file", entry.Name(), "error", parseErr)

			continue
		}

		if r.cache != nil {
			r.cache.Put(project, entry.Name(), parsed)
		}

		files = append(files, parsed)
	}

	return files, nil
}

// Key selects the attempt family a status query is about. An empty Binary
// matches any binary; a nil ConfigID matches only results without a
// config id.
type Key struct {
	Project  string
	Binary   string
	Revision revision.ShortHash
	ConfigID *int
}

func (k Key) matches(f Filename) bool {
	if f.ProjectName != k.Project {
		return false
	}

	if k.Binary != "" && f.BinaryName != k.Binary {
		return false
	}

	if f.Revision != k.Revision {
		return false
	}

	return configIDsEqual(f.ConfigID, k.ConfigID)
}

// LatestStatus merges the statuses of all past attempts matching the key
// and returns the dominant one. StatusNone means no attempt was ever
// recorded.
func (r *Registry) LatestStatus(key Key) (FileStatus, error) {
	files, err := r.ScanProject(key.Project)
	if err != nil {
		return StatusNone, err
	}

	status := StatusNone

	for _, f := range files {
		if key.matches(f) {
			status = status.Merge(f.Status)
		}
	}

	return status, nil
}

// TagRevisions returns the merged status for every given revision of a
// project in a single directory scan. Revisions without any recorded
// attempt map to StatusNone.
func (r *Registry) TagRevisions(project string, revs []revision.ShortHash) (map[revision.ShortHash]FileStatus, error) {
	files, err := r.ScanProject(project)
	if err != nil {
		return nil, err
	}

	byRevision := make(map[revision.ShortHash]FileStatus, len(revs))
	for _, rev := range revs {
		byRevision[rev] = StatusNone
	}

	for _, f := range files {
		current, tracked := byRevision[f.Revision]
		if !tracked {
			continue
		}

		byRevision[f.Revision] = current.Merge(f.Status)
	}

	return byRevision, nil
}

// ResultSpec names the logical report a new result path is created for.
type ResultSpec struct {
	ExperimentShorthand string
	ReportShorthand     string
	ProjectName         string
	BinaryName          string
	Revision            revision.ShortHash
	ConfigID            *int
	FileType            string
}

// NewSuccessResultPath creates the project result directory if needed and
// returns the full path for a fresh successful result with a new run id.
func (r *Registry) NewSuccessResultPath(spec ResultSpec) (string, error) {
	return r.newResultPath(spec, StatusSuccess)
}

// NewFailedResultPath creates the project result directory if needed and
// returns the full path for a fresh failed result with a new run id.
func (r *Registry) NewFailedResultPath(spec ResultSpec) (string, error) {
	return r.newResultPath(spec, StatusFailed)
}

func (r *Registry) newResultPath(spec ResultSpec, status FileStatus) (string, error) {
	name, err := Filename{
		ExperimentShorthand: spec.ExperimentShorthand,
		ReportShorthand:     spec.ReportShorthand,
		ProjectName:         spec.ProjectName,
		BinaryName:          spec.BinaryName,
		Revision:            spec.Revision,
		RunID:               uuid.New(),
		ConfigID:            spec.ConfigID,
		Status:              status,
		FileType:            spec.FileType,
	}.Encode()
	if err != nil {
		return "", err
	}

	dir := r.ProjectDir(spec.ProjectName)

	err = os.MkdirAll(dir, resultDirPerm)
	if err != nil {
		return "", fmt.Errorf("create result dir %q: %w", dir, err)
	}

	return filepath.Join(dir, name), nil
}
