package notebook

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/theAliTajik/Notebook/internal/checksum"
	"github.com/theAliTajik/Notebook/internal/storage"
)

// Collection is the set of notebooks in one notes directory.
// It is built once at startup and handed to the front end.
type Collection struct {
	mu        sync.RWMutex
	store     storage.Provider
	notebooks *orderedmap.OrderedMap[string, *Notebook]
}

// NewCollection returns an empty collection backed by store.
func NewCollection(store storage.Provider) *Collection {
	return &Collection{
		store:     store,
		notebooks: orderedmap.New[string, *Notebook](),
	}
}

// Bootstrap loads one notebook per *.json file in the notes directory.
// The directory must already exist.
func Bootstrap(store storage.Provider) (*Collection, error) {
	c := NewCollection(store)
	files, err := c.diskFiles()
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		nb, err := Load(store, f.name)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: %w", err)
		}
		c.notebooks.Set(f.name, nb)
	}
	return c, nil
}

// Names returns the notebook names in registration order.
func (c *Collection) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, c.notebooks.Len())
	for pair := c.notebooks.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Get returns the notebook registered under name.
func (c *Collection) Get(name string) (*Notebook, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.notebooks.Get(name)
}

// Len returns the number of notebooks.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.notebooks.Len()
}

// Create registers a new empty notebook and writes its file. A notebook
// already registered under name is replaced and its file overwritten.
func (c *Collection) Create(name string) (*Notebook, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	// The lock spans the write so a concurrent Reload sees the new notebook
	// and its checksum rather than registering a second instance.
	c.mu.Lock()
	defer c.mu.Unlock()
	nb := New(c.store, name)
	if err := nb.Save(); err != nil {
		return nil, err
	}
	c.notebooks.Set(name, nb)
	return nb, nil
}

// Reload re-reads the file of name. Content matching the in-memory checksum is
// ignored; otherwise the notes are replaced and changed is true. A notebook not
// yet registered is loaded and registered.
func (c *Collection) Reload(name string) (nb *Notebook, changed bool, err error) {
	if err := ValidateName(name); err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Holding the notebook lock across read and compare keeps a concurrent
	// Save from being overwritten with older file contents.
	existing, ok := c.notebooks.Get(name)
	if ok {
		existing.mu.Lock()
		defer existing.mu.Unlock()
	}
	data, err := c.store.Read(FileName(name))
	if err != nil {
		return nil, false, fmt.Errorf("reload %s: %w", name, err)
	}
	sum := checksum.Sum(data)
	if ok && existing.checksum == sum {
		return existing, false, nil
	}
	notes, err := decode(data)
	if err != nil {
		return nil, false, fmt.Errorf("reload %s: parse: %w", name, err)
	}
	if ok {
		existing.notes = notes
		existing.checksum = sum
		return existing, true, nil
	}
	nb = New(c.store, name)
	nb.notes = notes
	nb.checksum = sum
	c.notebooks.Set(name, nb)
	return nb, true, nil
}

// Forget drops name from the collection without touching the disk.
func (c *Collection) Forget(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.notebooks.Delete(name)
	return ok
}

// SyncResult lists what Sync changed.
type SyncResult struct {
	Reloaded  []string
	Forgotten []string
}

// Sync reconciles the collection with the notes directory: new or changed
// files are (re)loaded and notebooks whose file is gone are forgotten. Files
// whose listed checksum matches the registered notebook are not read again.
func (c *Collection) Sync() (SyncResult, error) {
	var res SyncResult
	files, err := c.diskFiles()
	if err != nil {
		return res, err
	}
	onDisk := make(map[string]struct{}, len(files))
	for _, f := range files {
		onDisk[f.name] = struct{}{}
		if nb, ok := c.Get(f.name); ok && nb.Checksum() == f.checksum {
			continue
		}
		_, changed, err := c.Reload(f.name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				delete(onDisk, f.name)
				continue
			}
			return res, err
		}
		if changed {
			res.Reloaded = append(res.Reloaded, f.name)
		}
	}
	for _, name := range c.Names() {
		if _, ok := onDisk[name]; ok {
			continue
		}
		if c.Forget(name) {
			res.Forgotten = append(res.Forgotten, name)
		}
	}
	return res, nil
}

type diskFile struct {
	name     string
	checksum string
}

// diskFiles lists notebook files with valid names.
func (c *Collection) diskFiles() ([]diskFile, error) {
	metas, err := c.store.List(FileExt)
	if err != nil {
		return nil, err
	}
	files := make([]diskFile, 0, len(metas))
	for _, m := range metas {
		name := strings.TrimSuffix(m.Path, FileExt)
		if ValidateName(name) != nil {
			continue
		}
		files = append(files, diskFile{name: name, checksum: m.Checksum})
	}
	return files, nil
}
