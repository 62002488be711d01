package menu

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/theAliTajik/Notebook/internal/notebook"
	"github.com/theAliTajik/Notebook/internal/storage"
	"github.com/theAliTajik/Notebook/internal/testutil"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// session runs the menu over a scripted input and returns the rendered output.
func session(t *testing.T, coll *notebook.Collection, script string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := New(coll, strings.NewReader(script), &out, discard).Run(context.Background())
	return out.String(), err
}

func seeded(t *testing.T) (afero.Fs, *notebook.Collection) {
	t.Helper()
	fsys, store := testutil.MemStore(t)
	testutil.WriteFile(t, fsys, "work.json", `{"todo": "buy milk"}`)
	coll, err := notebook.Bootstrap(store)
	if err != nil {
		t.Fatal(err)
	}
	return fsys, coll
}

func TestFirstRunCreatesNotebookAndNote(t *testing.T) {
	fsys, store := testutil.MemStore(t)
	coll := notebook.NewCollection(store)

	out, err := session(t, coll, "work\n1\nN\ntodo\nbuy milk\n0\nq\n")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out, "No notebooks found") {
		t.Error("empty collection should prompt for a first notebook")
	}
	if !strings.Contains(out, "1) work") {
		t.Errorf("notebook list missing from output:\n%s", out)
	}
	want := "{\n    \"todo\": \"buy milk\"\n}"
	if got := testutil.ReadFile(t, fsys, "work.json"); got != want {
		t.Errorf("work.json = %q, want %q", got, want)
	}
}

func TestEndOfInputQuits(t *testing.T) {
	_, coll := seeded(t)
	if _, err := session(t, coll, "1\n"); err != nil {
		t.Errorf("Run = %v, want nil at end of input", err)
	}
	if _, err := session(t, coll, ""); err != nil {
		t.Errorf("Run = %v, want nil on empty input", err)
	}
}

func TestEditAndRename(t *testing.T) {
	fsys, coll := seeded(t)

	if _, err := session(t, coll, "1\n1\n1\nbuy eggs\n2\nshopping\n0\n0\nq\n"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "{\n    \"shopping\": \"buy eggs\"\n}"
	if got := testutil.ReadFile(t, fsys, "work.json"); got != want {
		t.Errorf("work.json = %q, want %q", got, want)
	}
}

func TestNoteViewShowsBody(t *testing.T) {
	_, coll := seeded(t)
	out, err := session(t, coll, "1\n1\n0\n0\nq\n")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "buy milk") || !strings.Contains(out, "1) Edit") {
		t.Errorf("note view not rendered:\n%s", out)
	}
}

func TestDeleteNote(t *testing.T) {
	fsys, coll := seeded(t)
	if _, err := session(t, coll, "1\n1\n3\n0\nq\n"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := testutil.ReadFile(t, fsys, "work.json"); got != "{}" {
		t.Errorf("work.json = %q", got)
	}
}

func TestCreateNotebookFromList(t *testing.T) {
	fsys, coll := seeded(t)
	if _, err := session(t, coll, "0\nhome\nq\n"); err != nil {
		t.Fatal(err)
	}
	if coll.Len() != 2 {
		t.Errorf("Len = %d, want 2", coll.Len())
	}
	if got := testutil.ReadFile(t, fsys, "home.json"); got != "{}" {
		t.Errorf("home.json = %q", got)
	}
}

func TestInvalidNameReprompts(t *testing.T) {
	_, store := testutil.MemStore(t)
	coll := notebook.NewCollection(store)

	out, err := session(t, coll, "\n../x\nhome\nq\n")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(out, "Invalid notebook name") != 2 {
		t.Errorf("expected two invalid name messages:\n%s", out)
	}
	if _, ok := coll.Get("home"); !ok {
		t.Error("home not created after re-prompt")
	}
}

func TestInvalidChoicesIgnored(t *testing.T) {
	_, coll := seeded(t)
	if _, err := session(t, coll, "9\nx\n-1\n1\n7\nz\n0\nQ\n"); err != nil {
		t.Errorf("Run = %v", err)
	}
}

func TestSaveErrorEndsSession(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll(testutil.MemRoot, 0o755); err != nil {
		t.Fatal(err)
	}
	testutil.WriteFile(t, fsys, "work.json", `{}`)
	store, err := storage.NewFS(afero.NewReadOnlyFs(fsys), testutil.MemRoot)
	if err != nil {
		t.Fatal(err)
	}
	coll, err := notebook.Bootstrap(store)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := session(t, coll, "1\nN\na\nb\nq\n"); err == nil {
		t.Fatal("expected save error to end the session")
	}
}

func TestCancelledContext(t *testing.T) {
	_, coll := seeded(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New(coll, strings.NewReader("q\n"), io.Discard, discard).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}

func TestIndex(t *testing.T) {
	if i, ok := index("2", 3); !ok || i != 1 {
		t.Errorf("index(2) = %d, %v", i, ok)
	}
	for _, bad := range []string{"0", "4", "a", ""} {
		if _, ok := index(bad, 3); ok {
			t.Errorf("index(%q) should fail", bad)
		}
	}
}

func TestInvalidUTF8Reported(t *testing.T) {
	fsys, coll := seeded(t)
	out, err := session(t, coll, "1\nN\na\xffb\nbody\n1\n1\nx\xff\n0\n0\nq\n")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Count(out, "valid UTF-8") != 2 {
		t.Errorf("expected two UTF-8 messages:\n%s", out)
	}
	want := "{\n    \"todo\": \"buy milk\"\n}"
	if got := testutil.ReadFile(t, fsys, "work.json"); got != want {
		t.Errorf("work.json = %q, want %q", got, want)
	}
}
