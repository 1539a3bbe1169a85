package report

import (
	"errors"
	"fmt"
	"os"

	"github.com/revisor-tools/revisor/pkg/persist"
)

// Basename of the persisted scan cache inside the result directory. The
// on-disk name is "scan-cache.json.lz4".
const scanCacheBasename = "scan-cache"

// scanCacheCodec compresses the cache with an LZ4 frame; result
// directories of long-running experiments hold tens of thousands of
// entries and the JSON form compresses well.
func scanCacheCodec() persist.Codec {
	return persist.NewLZ4Codec(persist.NewJSONCodec())
}

// scanCacheState is the persisted form: parsed filenames keyed by
// project and raw directory entry name.
type scanCacheState struct {
	Projects map[string]map[string]Filename `json:"projects"`
}

// ScanCache memoizes parsed result filenames across registry scans.
// Parsing is pure, so a cached entry stays valid as long as the file
// name exists; entries for deleted files are merely unused.
type ScanCache struct {
	state scanCacheState
	dirty bool
}

// NewScanCache creates an empty scan cache.
func NewScanCache() *ScanCache {
	return &ScanCache{
		state: scanCacheState{Projects: make(map[string]map[string]Filename)},
	}
}

// LoadScanCache reads the persisted cache from the result directory. A
// missing cache file yields an empty cache.
func LoadScanCache(resultDir string) (*ScanCache, error) {
	cache := NewScanCache()

	err := persist.LoadState(resultDir, scanCacheBasename, scanCacheCodec(), &cache.state)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cache, nil
		}

		return nil, fmt.Errorf("load scan cache: %w", err)
	}

	if cache.state.Projects == nil {
		cache.state.Projects = make(map[string]map[string]Filename)
	}

	return cache, nil
}

// Save persists the cache into the result directory. Saving is skipped
// when nothing changed since load.
func (c *ScanCache) Save(resultDir string) error {
	if !c.dirty {
		return nil
	}

	err := os.MkdirAll(resultDir, resultDirPerm)
	if err != nil {
		return fmt.Errorf("save scan cache: %w", err)
	}

	err = persist.SaveState(resultDir, scanCacheBasename, scanCacheCodec(), &c.state)
	if err != nil {
		return fmt.Errorf("save scan cache: %w", err)
	}

	c.dirty = false

	return nil
}

// Lookup returns the cached parse of a result-file name.
func (c *ScanCache) Lookup(project, name string) (Filename, bool) {
	parsed, ok := c.state.Projects[project][name]

	return parsed, ok
}

// Put records the parse of a result-file name.
func (c *ScanCache) Put(project, name string, parsed Filename) {
	files, ok := c.state.Projects[project]
	if !ok {
		files = make(map[string]Filename)
		c.state.Projects[project] = files
	}

	files[name] = parsed
	c.dirty = true
}

// Len reports the number of cached entries across all projects.
func (c *ScanCache) Len() int {
	total := 0
	for _, files := range c.state.Projects {
		total += len(files)
	}

	return total
}
