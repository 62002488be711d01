package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/theAliTajik/Notebook/internal/checksum"
	"github.com/theAliTajik/Notebook/internal/models"
)

const tmpPattern = ".notebook-tmp-*"

// FS implements Provider on top of an afero file system.
type FS struct {
	fs   afero.Fs
	root string // absolute path to the notes directory
}

// NewFS creates a new FS provider rooted at the given directory of fsys.
// The directory must already exist.
func NewFS(fsys afero.Fs, root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := fsys.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{fs: fsys, root: abs}, nil
}

// NewOS creates an FS provider on the operating system's file system.
func NewOS(root string) (*FS, error) {
	return NewFS(afero.NewOsFs(), root)
}

// Root returns the absolute path of the notes directory.
func (f *FS) Root() string {
	return f.root
}

// safePath resolves a relative path against the root and rejects
// any result that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	abs := filepath.Join(f.root, cleaned)
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("storage: path escapes notes root: %s", rel)
	}
	return abs, nil
}

// List reads the root directory and returns metadata for every regular file
// whose name ends with ext, sorted by name. Subdirectories are not walked.
func (f *FS) List(ext string) ([]models.FileMetadata, error) {
	entries, err := afero.ReadDir(f.fs, f.root)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var out []models.FileMetadata
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		data, err := afero.ReadFile(f.fs, filepath.Join(f.root, e.Name()))
		if errors.Is(err, fs.ErrNotExist) {
			// Removed since ReadDir.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("storage: list: %w", err)
		}
		out = append(out, models.FileMetadata{
			Path:     e.Name(),
			Checksum: checksum.Sum(data),
		})
	}
	return out, nil
}

// Read returns the raw bytes of a file under the root.
func (f *FS) Read(path string) ([]byte, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(f.fs, abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}

// Write replaces content atomically: tmp file → fsync → rename.
// The parent directory is not created.
func (f *FS) Write(path string, content []byte) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	tmp, err := afero.TempFile(f.fs, dir, tmpPattern)
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = f.fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := f.fs.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("storage: chmod temp: %w", err)
	}
	if err := f.fs.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}
