package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func tempDir(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	s, err := NewOS(dir)
	if err != nil {
		t.Fatalf("NewOS: %v", err)
	}
	return s
}

func memDir(t *testing.T) (afero.Fs, *FS) {
	t.Helper()
	mem := afero.NewMemMapFs()
	if err := mem.MkdirAll("/notes", 0o755); err != nil {
		t.Fatal(err)
	}
	s, err := NewFS(mem, "/notes")
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return mem, s
}

func TestWriteAndRead(t *testing.T) {
	s := tempDir(t)
	content := []byte(`{"todo": "buy milk"}`)
	if err := s.Write("work.json", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("work.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteMemFS(t *testing.T) {
	mem, s := memDir(t)
	if err := s.Write("a.json", []byte("{}")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := afero.ReadFile(mem, "/notes/a.json")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "{}" {
		t.Errorf("content = %q", got)
	}
}

func TestWriteDoesNotCreateDirs(t *testing.T) {
	s := tempDir(t)
	if err := s.Write("a/b.json", []byte("{}")); err == nil {
		t.Fatal("expected error writing into a missing directory")
	}
}

func TestWriteMissingRoot(t *testing.T) {
	s := tempDir(t)
	if err := os.RemoveAll(s.Root()); err != nil {
		t.Fatal(err)
	}
	if err := s.Write("gone.json", []byte("{}")); err == nil {
		t.Fatal("expected error when the notes directory is gone")
	}
}

func TestWriteReadOnly(t *testing.T) {
	mem := afero.NewMemMapFs()
	_ = mem.MkdirAll("/notes", 0o755)
	s, err := NewFS(afero.NewReadOnlyFs(mem), "/notes")
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	if err := s.Write("ro.json", []byte("{}")); err == nil {
		t.Fatal("expected error on read-only file system")
	}
}

func TestReadMissing(t *testing.T) {
	s := tempDir(t)
	_, err := s.Read("nope.json")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestList(t *testing.T) {
	s := tempDir(t)
	_ = s.Write("b.json", []byte("{}"))
	_ = s.Write("a.json", []byte("{}"))
	_ = s.Write("readme.txt", []byte("not json"))
	_ = os.Mkdir(filepath.Join(s.Root(), "sub.json"), 0o755)

	items, err := s.List(".json")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Path != "a.json" || items[1].Path != "b.json" {
		t.Errorf("order = %q, %q", items[0].Path, items[1].Path)
	}
	if items[0].Checksum == "" {
		t.Error("expected checksum")
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempDir(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.json",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
	}
}

func TestAtomicWriteNoLeftovers(t *testing.T) {
	s := tempDir(t)
	_ = s.Write("atomic.json", []byte("original content"))

	updated := []byte("updated content")
	if err := s.Write("atomic.json", updated); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("atomic.json")
	if string(got) != string(updated) {
		t.Errorf("expected updated content, got %q", got)
	}

	matches, _ := filepath.Glob(filepath.Join(s.root, ".notebook-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}

	info, err := os.Stat(filepath.Join(s.root, "atomic.json"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Errorf("mode = %v, want 0644", info.Mode().Perm())
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewOS(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "notebook-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewOS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
