// Package testutil provides shared test helpers for setting up notes directories.
package testutil

import (
	"testing"

	"github.com/spf13/afero"

	"github.com/theAliTajik/Notebook/internal/storage"
)

// MemRoot is the notes directory used by MemStore.
const MemRoot = "/notes"

// TestStore creates a temporary on-disk notes directory with a storage provider.
func TestStore(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewOS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// MemStore creates an in-memory notes directory at MemRoot.
func MemStore(t *testing.T) (afero.Fs, *storage.FS) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll(MemRoot, 0o755); err != nil {
		t.Fatal(err)
	}
	store, err := storage.NewFS(fsys, MemRoot)
	if err != nil {
		t.Fatal(err)
	}
	return fsys, store
}

// WriteFile writes a raw file into an in-memory notes directory.
func WriteFile(t *testing.T, fsys afero.Fs, name, content string) {
	t.Helper()
	if err := afero.WriteFile(fsys, MemRoot+"/"+name, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// ReadFile reads a raw file from an in-memory notes directory.
func ReadFile(t *testing.T, fsys afero.Fs, name string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, MemRoot+"/"+name)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
