// Package notebook implements named notebooks of title → body notes, each
// persisted as one JSON document in the notes directory.
package notebook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/theAliTajik/Notebook/internal/apperr"
	"github.com/theAliTajik/Notebook/internal/checksum"
	"github.com/theAliTajik/Notebook/internal/storage"
)

// FileExt is the extension of notebook files in the notes directory.
const FileExt = ".json"

const indent = "    "

// Notebook holds the notes of one named notebook and keeps its file current.
// Every mutating method changes memory first and then rewrites the whole file;
// a failed write is returned and the in-memory change is kept. Titles and
// bodies that are not valid UTF-8 fail with apperr.ErrInvalidText and change
// nothing.
type Notebook struct {
	mu       sync.RWMutex
	name     string
	store    storage.Provider
	notes    *orderedmap.OrderedMap[string, string]
	checksum string
}

// New returns an empty notebook. Nothing is written until the first mutation or Save.
func New(store storage.Provider, name string) *Notebook {
	return &Notebook{
		name:  name,
		store: store,
		notes: orderedmap.New[string, string](),
	}
}

// Load reads <name>.json from store. A missing file yields an empty notebook;
// any other read failure or malformed content is returned.
func Load(store storage.Provider, name string) (*Notebook, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	nb := New(store, name)
	data, err := store.Read(FileName(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nb, nil
		}
		return nil, fmt.Errorf("notebook %s: %w", name, err)
	}
	notes, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("notebook %s: parse %s: %w", name, FileName(name), err)
	}
	nb.notes = notes
	nb.checksum = checksum.Sum(data)
	return nb, nil
}

// FileName returns the file name a notebook is stored under.
func FileName(name string) string {
	return name + FileExt
}

// ValidateName reports whether name can be used as a notebook file stem.
func ValidateName(name string) error {
	err := validation.Validate(name,
		validation.Required,
		validation.NotIn(".", ".."),
		validation.By(func(value interface{}) error {
			s, _ := value.(string)
			if strings.ContainsAny(s, `/\`) {
				return errors.New("must not contain path separators")
			}
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("%w %q: %v", apperr.ErrInvalidName, name, err)
	}
	return nil
}

// Name returns the notebook name.
func (nb *Notebook) Name() string {
	return nb.name
}

// CreateNote stores body under title, replacing any existing body.
func (nb *Notebook) CreateNote(title, body string) error {
	if err := validText(title, body); err != nil {
		return err
	}
	nb.mu.Lock()
	defer nb.mu.Unlock()
	nb.notes.Set(title, body)
	return nb.saveLocked()
}

// DeleteNote removes title. It fails with apperr.ErrNotFound when title is absent.
func (nb *Notebook) DeleteNote(title string) error {
	nb.mu.Lock()
	defer nb.mu.Unlock()
	if _, ok := nb.notes.Delete(title); !ok {
		return nb.missing(title)
	}
	return nb.saveLocked()
}

// RenameNote moves the body of oldTitle to newTitle, overwriting newTitle if it
// exists. It fails with apperr.ErrNotFound when oldTitle is absent.
func (nb *Notebook) RenameNote(oldTitle, newTitle string) error {
	if err := validText(newTitle); err != nil {
		return err
	}
	nb.mu.Lock()
	defer nb.mu.Unlock()
	body, ok := nb.notes.Delete(oldTitle)
	if !ok {
		return nb.missing(oldTitle)
	}
	nb.notes.Set(newTitle, body)
	return nb.saveLocked()
}

// EditNote replaces the body of title, creating the note if it is absent.
func (nb *Notebook) EditNote(title, body string) error {
	if err := validText(title, body); err != nil {
		return err
	}
	nb.mu.Lock()
	defer nb.mu.Unlock()
	nb.notes.Set(title, body)
	return nb.saveLocked()
}

// ListNotes returns the titles in insertion order.
func (nb *Notebook) ListNotes() []string {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	titles := make([]string, 0, nb.notes.Len())
	for pair := nb.notes.Oldest(); pair != nil; pair = pair.Next() {
		titles = append(titles, pair.Key)
	}
	return titles
}

// FindNote returns the body stored under title and whether it exists.
func (nb *Notebook) FindNote(title string) (string, bool) {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	return nb.notes.Get(title)
}

// Len returns the number of notes.
func (nb *Notebook) Len() int {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	return nb.notes.Len()
}

// Checksum returns the digest of the content last read from or written to disk.
func (nb *Notebook) Checksum() string {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	return nb.checksum
}

// Save rewrites the notebook file with the full note map.
func (nb *Notebook) Save() error {
	nb.mu.Lock()
	defer nb.mu.Unlock()
	return nb.saveLocked()
}

func (nb *Notebook) saveLocked() error {
	data, err := encode(nb.notes)
	if err != nil {
		return fmt.Errorf("notebook %s: encode: %w", nb.name, err)
	}
	if err := nb.store.Write(FileName(nb.name), data); err != nil {
		return fmt.Errorf("notebook %s: save: %w", nb.name, err)
	}
	nb.checksum = checksum.Sum(data)
	return nil
}

// validText rejects strings JSON cannot carry unchanged. json.Marshal
// replaces invalid UTF-8 with U+FFFD.
func validText(values ...string) error {
	for _, v := range values {
		if !utf8.ValidString(v) {
			return fmt.Errorf("%w: %q is not valid UTF-8", apperr.ErrInvalidText, v)
		}
	}
	return nil
}

func (nb *Notebook) missing(title string) error {
	return fmt.Errorf("notebook %s: note %q: %w", nb.name, title, apperr.ErrNotFound)
}

// encode renders notes as a JSON object indented by four spaces.
func encode(notes *orderedmap.OrderedMap[string, string]) ([]byte, error) {
	raw, err := json.Marshal(notes)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (*orderedmap.OrderedMap[string, string], error) {
	if !json.Valid(data) {
		return nil, errors.New("invalid JSON")
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("top-level value must be an object")
	}
	raw := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(trimmed, raw); err != nil {
		return nil, err
	}
	notes := orderedmap.New[string, string]()
	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		// Unmarshal leaves a string untouched on null, so non-strings are rejected up front.
		value := bytes.TrimSpace(pair.Value)
		if len(value) == 0 || value[0] != '"' {
			return nil, fmt.Errorf("note %q: body must be a string", pair.Key)
		}
		var body string
		if err := json.Unmarshal(value, &body); err != nil {
			return nil, fmt.Errorf("note %q: %w", pair.Key, err)
		}
		notes.Set(pair.Key, body)
	}
	return notes, nil
}
