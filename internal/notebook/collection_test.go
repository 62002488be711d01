package notebook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/theAliTajik/Notebook/internal/apperr"
	"github.com/theAliTajik/Notebook/internal/storage"
	"github.com/theAliTajik/Notebook/internal/testutil"
)

func TestBootstrapScenario(t *testing.T) {
	dir, store := testutil.TestStore(t)
	if err := os.WriteFile(filepath.Join(dir, "work.json"), []byte(`{"todo": "buy milk"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Bootstrap(store)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	nb, ok := c.Get("work")
	if !ok {
		t.Fatalf("notebook work not loaded; names = %q", c.Names())
	}
	if got := nb.ListNotes(); !reflect.DeepEqual(got, []string{"todo"}) {
		t.Errorf("ListNotes = %q", got)
	}
	if body, _ := nb.FindNote("todo"); body != "buy milk" {
		t.Errorf("todo = %q", body)
	}

	if err := nb.EditNote("todo", "buy milk and eggs"); err != nil {
		t.Fatalf("EditNote: %v", err)
	}
	reloaded, err := Load(store, "work")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if body, _ := reloaded.FindNote("todo"); body != "buy milk and eggs" {
		t.Errorf("reloaded todo = %q", body)
	}
}

func TestBootstrapIgnoresOtherFiles(t *testing.T) {
	fsys, store := testutil.MemStore(t)
	testutil.WriteFile(t, fsys, "b.json", `{}`)
	testutil.WriteFile(t, fsys, "a.json", `{"x": "y"}`)
	testutil.WriteFile(t, fsys, "notes.txt", `hello`)
	testutil.WriteFile(t, fsys, ".json", `{}`)

	c, err := Bootstrap(store)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if got := c.Names(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Names = %q", got)
	}
}

func TestBootstrapMalformedFails(t *testing.T) {
	fsys, store := testutil.MemStore(t)
	testutil.WriteFile(t, fsys, "bad.json", `{nope`)
	if _, err := Bootstrap(store); err == nil {
		t.Fatal("expected bootstrap to fail on malformed notebook")
	}
}

func TestBootstrapEmptyDir(t *testing.T) {
	_, store := testutil.MemStore(t)
	c, err := Bootstrap(store)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d", c.Len())
	}
}

func TestCreateWritesEmptyFile(t *testing.T) {
	fsys, store := testutil.MemStore(t)
	c := NewCollection(store)
	nb, err := c.Create("journal")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if nb.Len() != 0 {
		t.Errorf("Len = %d", nb.Len())
	}
	if got := testutil.ReadFile(t, fsys, "journal.json"); got != "{}" {
		t.Errorf("file = %q", got)
	}
	if _, ok := c.Get("journal"); !ok {
		t.Error("journal not registered")
	}
}

func TestCreateShadowsExisting(t *testing.T) {
	fsys, store := testutil.MemStore(t)
	testutil.WriteFile(t, fsys, "work.json", `{"todo": "buy milk"}`)
	c, _ := Bootstrap(store)

	nb, err := c.Create("work")
	if err != nil {
		t.Fatal(err)
	}
	if nb.Len() != 0 {
		t.Errorf("Len = %d, want 0", nb.Len())
	}
	if c.Len() != 1 {
		t.Errorf("collection Len = %d, want 1", c.Len())
	}
	if got := testutil.ReadFile(t, fsys, "work.json"); got != "{}" {
		t.Errorf("file = %q, want overwritten", got)
	}
}

func TestCreateInvalidName(t *testing.T) {
	_, store := testutil.MemStore(t)
	c := NewCollection(store)
	if _, err := c.Create("../escape"); !errors.Is(err, apperr.ErrInvalidName) {
		t.Errorf("err = %v, want ErrInvalidName", err)
	}
	if c.Len() != 0 {
		t.Error("invalid notebook registered")
	}
}

func TestReloadIgnoresOwnWrites(t *testing.T) {
	_, store := testutil.MemStore(t)
	c := NewCollection(store)
	nb, _ := c.Create("n")
	_ = nb.CreateNote("a", "1")

	got, changed, err := c.Reload("n")
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("own write reported as change")
	}
	if got != nb {
		t.Error("Reload returned a different instance")
	}
}

func TestReloadExternalEdit(t *testing.T) {
	fsys, store := testutil.MemStore(t)
	c := NewCollection(store)
	nb, _ := c.Create("n")
	_ = nb.CreateNote("a", "1")

	testutil.WriteFile(t, fsys, "n.json", `{"b": "2"}`)
	got, changed, err := c.Reload("n")
	if err != nil {
		t.Fatal(err)
	}
	if !changed || got != nb {
		t.Fatalf("changed = %v, same instance = %v", changed, got == nb)
	}
	if titles := nb.ListNotes(); !reflect.DeepEqual(titles, []string{"b"}) {
		t.Errorf("ListNotes = %q", titles)
	}
}

func TestReloadNewFile(t *testing.T) {
	fsys, store := testutil.MemStore(t)
	c := NewCollection(store)
	testutil.WriteFile(t, fsys, "fresh.json", `{"k": "v"}`)

	nb, changed, err := c.Reload("fresh")
	if err != nil || !changed {
		t.Fatalf("Reload = %v, %v", changed, err)
	}
	if body, _ := nb.FindNote("k"); body != "v" {
		t.Errorf("k = %q", body)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Error("fresh not registered")
	}
}

func TestSync(t *testing.T) {
	fsys, store := testutil.MemStore(t)
	testutil.WriteFile(t, fsys, "keep.json", `{}`)
	testutil.WriteFile(t, fsys, "gone.json", `{}`)
	c, _ := Bootstrap(store)

	_ = fsys.Remove(testutil.MemRoot + "/gone.json")
	testutil.WriteFile(t, fsys, "new.json", `{"a": "b"}`)

	res, err := c.Sync()
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if !reflect.DeepEqual(res.Reloaded, []string{"new"}) {
		t.Errorf("Reloaded = %q", res.Reloaded)
	}
	if !reflect.DeepEqual(res.Forgotten, []string{"gone"}) {
		t.Errorf("Forgotten = %q", res.Forgotten)
	}
	if got := c.Names(); !reflect.DeepEqual(got, []string{"keep", "new"}) {
		t.Errorf("Names = %q", got)
	}
}

func TestForget(t *testing.T) {
	fsys, store := testutil.MemStore(t)
	c := NewCollection(store)
	_, _ = c.Create("n")
	if !c.Forget("n") {
		t.Error("Forget returned false")
	}
	if c.Forget("n") {
		t.Error("second Forget returned true")
	}
	if got := testutil.ReadFile(t, fsys, "n.json"); got != "{}" {
		t.Errorf("Forget touched the file: %q", got)
	}
}

// countingStore counts Read calls on top of a real provider.
type countingStore struct {
	storage.Provider
	reads atomic.Int32
}

func (s *countingStore) Read(path string) ([]byte, error) {
	s.reads.Add(1)
	return s.Provider.Read(path)
}

func TestSyncSkipsUnchangedFiles(t *testing.T) {
	fsys, mem := testutil.MemStore(t)
	testutil.WriteFile(t, fsys, "work.json", `{"todo": "buy milk"}`)
	testutil.WriteFile(t, fsys, "home.json", `{}`)
	store := &countingStore{Provider: mem}
	c, err := Bootstrap(store)
	if err != nil {
		t.Fatal(err)
	}

	store.reads.Store(0)
	res, err := c.Sync()
	if err != nil {
		t.Fatal(err)
	}
	if n := store.reads.Load(); n != 0 {
		t.Errorf("reads = %d, want 0 for unchanged files", n)
	}
	if len(res.Reloaded) != 0 || len(res.Forgotten) != 0 {
		t.Errorf("res = %+v", res)
	}

	testutil.WriteFile(t, fsys, "work.json", `{"todo": "buy eggs"}`)
	res, err = c.Sync()
	if err != nil {
		t.Fatal(err)
	}
	if n := store.reads.Load(); n != 1 {
		t.Errorf("reads = %d, want 1 for the edited file", n)
	}
	if !reflect.DeepEqual(res.Reloaded, []string{"work"}) {
		t.Errorf("Reloaded = %q", res.Reloaded)
	}
}

func TestCreateRegistersBeforeReload(t *testing.T) {
	_, store := testutil.MemStore(t)
	c := NewCollection(store)

	for i := range 20 {
		name := fmt.Sprintf("nb%d", i)
		done := make(chan struct{})
		var reloadedAsNew atomic.Bool
		go func() {
			defer close(done)
			for range 200 {
				if _, changed, err := c.Reload(name); err == nil && changed {
					reloadedAsNew.Store(true)
				}
			}
		}()
		nb, err := c.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		<-done

		if reloadedAsNew.Load() {
			t.Errorf("%s: Reload registered a separate instance during Create", name)
		}
		if got, _ := c.Get(name); got != nb {
			t.Errorf("%s: registered notebook is not the one Create returned", name)
		}
	}
}
