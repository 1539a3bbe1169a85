package report

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Aggregate is a reopenable zipped report folder for collecting the
// reports of repeated runs in one archive. Opening an existing archive
// unpacks it into the staging directory first, so new runs append to the
// previous ones.
type Aggregate struct {
	*ZippedFolder
}

// OpenAggregate creates an aggregate at target. If target already exists,
// its contents are extracted into the staging directory.
func OpenAggregate(target string, opts ...ZipOption) (*Aggregate, error) {
	folder, err := NewZippedFolder(target, opts...)
	if err != nil {
		return nil, err
	}

	_, statErr := os.Stat(target)
	if statErr == nil {
		err = unpackArchive(target, folder.Dir())
		if err != nil {
			_ = os.RemoveAll(folder.Dir())

			return nil, err
		}
	}

	return &Aggregate{ZippedFolder: folder}, nil
}

// Files lists the staged report files relative to the staging directory,
// sorted for deterministic iteration.
func (a *Aggregate) Files() ([]string, error) {
	var files []string

	err := filepath.WalkDir(a.Dir(), func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if entry.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(a.Dir(), path)
		if relErr != nil {
			return relErr
		}

		files = append(files, filepath.ToSlash(rel))

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list aggregate files: %w", err)
	}

	sort.Strings(files)

	return files, nil
}

// unpackArchive extracts a zip archive into dir. Entries escaping dir are
// rejected.
func unpackArchive(archive, dir string) error {
	reader, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("open archive %q: %w", archive, err)
	}
	defer func() { _ = reader.Close() }()

	for _, entry := range reader.File {
		err = extractEntry(entry, dir)
		if err != nil {
			return err
		}
	}

	return nil
}

func extractEntry(entry *zip.File, dir string) error {
	dest := filepath.Join(dir, filepath.FromSlash(entry.Name))

	if !strings.HasPrefix(dest, filepath.Clean(dir)+string(os.PathSeparator)) {
		return fmt.Errorf("%w: entry %q escapes staging dir", ErrMalformedFilename, entry.Name)
	}

	if entry.FileInfo().IsDir() {
		return os.MkdirAll(dest, resultDirPerm)
	}

	err := os.MkdirAll(filepath.Dir(dest), resultDirPerm)
	if err != nil {
		return fmt.Errorf("create %q: %w", filepath.Dir(dest), err)
	}

	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open archive entry %q: %w", entry.Name, err)
	}
	defer func() { _ = src.Close() }()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %q: %w", dest, err)
	}

	_, err = io.Copy(out, src) //nolint:gosec // trusted self-produced archives

	closeErr := out.Close()
	if err != nil {
		return fmt.Errorf("extract %q: %w", entry.Name, err)
	}

	return closeErr
}
