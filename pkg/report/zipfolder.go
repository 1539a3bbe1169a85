package report

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/flate"
)

// ZippedFolder is a scoped, transactional output folder. Callers write
// arbitrarily many files into the staging directory; Close packs them into
// a single zip archive at the target path and removes the staging
// directory.
//
// By default the archive is produced even when the scope failed, so partial
// output stays available for diagnosis; callers that need all-or-nothing
// semantics use Strict. When archiving itself fails, the staging directory
// is left in place for forensic inspection.
//
// Writes into the staging directory are single-writer; concurrent archive
// operations on the same target path from two processes must be avoided by
// the caller (one result path per run id guarantees this).
type ZippedFolder struct {
	target  string
	staging string
	strict  bool
	failed  bool
	closed  bool
}

// ZipOption configures a ZippedFolder.
type ZipOption func(*ZippedFolder)

// Strict discards the archive entirely when the scope was marked failed,
// instead of keeping a partial result.
func Strict() ZipOption {
	return func(z *ZippedFolder) { z.strict = true }
}

// NewZippedFolder creates the target's parent directories and a private
// staging directory.
func NewZippedFolder(target string, opts ...ZipOption) (*ZippedFolder, error) {
	err := os.MkdirAll(filepath.Dir(target), resultDirPerm)
	if err != nil {
		return nil, fmt.Errorf("create parent of %q: %w", target, err)
	}

	staging, err := os.MkdirTemp("", "revisor-report-")
	if err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}

	z := &ZippedFolder{target: target, staging: staging}
	for _, opt := range opts {
		opt(z)
	}

	return z, nil
}

// Dir returns the staging directory callers write their files into.
func (z *ZippedFolder) Dir() string {
	return z.staging
}

// Target returns the archive path written on Close.
func (z *ZippedFolder) Target() string {
	return z.target
}

// MarkFailed records that the scope failed. Without Strict the archive is
// still produced from whatever was written.
func (z *ZippedFolder) MarkFailed() {
	z.failed = true
}

// Failed reports whether the scope was marked failed. Callers that cannot
// tolerate partial output check this before trusting the archive.
func (z *ZippedFolder) Failed() bool {
	return z.failed
}

// Close archives the staging directory into the target path and removes
// the staging directory. In strict mode a failed scope discards everything
// and writes no archive. Close is idempotent.
func (z *ZippedFolder) Close() error {
	if z.closed {
		return nil
	}

	z.closed = true

	if z.strict && z.failed {
		return os.RemoveAll(z.staging)
	}

	err := writeArchive(z.target, z.staging)
	if err != nil {
		// Keep the staging directory around for inspection.
		return err
	}

	return os.RemoveAll(z.staging)
}

// Scoped runs fn with a fresh staging directory and archives it afterwards,
// even when fn fails. The fn error and any archiving error are joined.
func Scoped(target string, fn func(dir string) error, opts ...ZipOption) error {
	folder, err := NewZippedFolder(target, opts...)
	if err != nil {
		return err
	}

	runErr := fn(folder.Dir())
	if runErr != nil {
		folder.MarkFailed()
	}

	return errors.Join(runErr, folder.Close())
}

// writeArchive zips the contents of dir into an archive at target, paths
// relative to dir. The archive is staged next to the target and renamed
// into place afterwards.
func writeArchive(target, dir string) (err error) {
	tmp := target + ".tmp"

	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create archive %q: %w", tmp, err)
	}

	defer func() {
		if err != nil {
			_ = out.Close()
			_ = os.Remove(tmp)
		}
	}()

	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.DefaultCompression)
	})

	err = addFiles(zw, dir)
	if err != nil {
		return err
	}

	err = zw.Close()
	if err != nil {
		return fmt.Errorf("finish archive %q: %w", target, err)
	}

	err = out.Close()
	if err != nil {
		return fmt.Errorf("close archive %q: %w", target, err)
	}

	err = os.Rename(tmp, target)
	if err != nil {
		return fmt.Errorf("move archive into place: %w", err)
	}

	return nil
}

func addFiles(zw *zip.Writer, dir string) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if entry.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("relativize %q: %w", path, err)
		}

		writer, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return fmt.Errorf("add %q to archive: %w", rel, err)
		}

		src, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %q: %w", path, err)
		}

		_, err = io.Copy(writer, src)

		closeErr := src.Close()
		if err != nil {
			return fmt.Errorf("write %q to archive: %w", rel, err)
		}

		return closeErr
	})
}
