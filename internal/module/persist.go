// Where: internal/module/persist.go
// What: Write rendered module text to disk.
// Why: Stage generated artifacts before publishing.
package module

import (
	"os"
	"path/filepath"

	"github.com/quantfeed/edgesync/internal/errs"
)

// Persist writes content to destinationPath, creating missing parent
// directories. An existing file is replaced in full; the content lands
// via a sibling temp file and rename, so a reader never observes a
// partially written module.
func Persist(destinationPath, content string) error {
	dir := filepath.Dir(destinationPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(errs.KindFilesystem, err, "create output directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".module-*")
	if err != nil {
		return errs.Wrap(errs.KindFilesystem, err, "create temp file in %s", dir)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errs.Wrap(errs.KindFilesystem, err, "write module to %s", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errs.Wrap(errs.KindFilesystem, err, "close %s", tmpPath)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return errs.Wrap(errs.KindFilesystem, err, "chmod %s", tmpPath)
	}
	if err := os.Rename(tmpPath, destinationPath); err != nil {
		os.Remove(tmpPath)
		return errs.Wrap(errs.KindFilesystem, err, "replace %s", destinationPath)
	}
	return nil
}
