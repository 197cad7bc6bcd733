package filetable

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrRootNotFound indicates the dataset root directory does not exist.
type ErrRootNotFound struct {
	Path string
}

func (e ErrRootNotFound) Error() string {
	return fmt.Sprintf("dataset root does not exist: %s", e.Path)
}

// ErrNotDirectory indicates the dataset root exists but is not a directory.
type ErrNotDirectory struct {
	Path string
}

func (e ErrNotDirectory) Error() string {
	return fmt.Sprintf("dataset root is not a directory: %s", e.Path)
}

// ErrTreeNotFound indicates a mandatory top-level subtree (e.g. raw_data) is
// absent from the dataset root.
type ErrTreeNotFound struct {
	Path string
}

func (e ErrTreeNotFound) Error() string {
	return fmt.Sprintf("required directory tree not found: %s", e.Path)
}

// ErrManifestNotFound indicates a mandatory metadata index file is absent.
type ErrManifestNotFound struct {
	Path string
}

func (e ErrManifestNotFound) Error() string {
	return fmt.Sprintf("metadata index not found: %s", e.Path)
}

// CheckRoot verifies the structural preconditions for a dataset root: it must
// exist and be a directory. A failure here aborts a table build entirely,
// unlike per-row data gaps which degrade to nulls.
func CheckRoot(fsys fs.FS, root string) error {
	info, err := fs.Stat(fsys, root)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrRootNotFound{Path: root}
	}
	if err != nil {
		return fmt.Errorf("stat dataset root %s: %w", root, err)
	}
	if !info.IsDir() {
		return ErrNotDirectory{Path: root}
	}
	return nil
}
