package noteservice

import (
	"context"
	"fmt"

	"github.com/theAliTajik/Notebook/internal/apperr"
	"github.com/theAliTajik/Notebook/internal/notebook"
)

// Event kinds passed to a Notifier.
const (
	KindNoteCreated     = "note.created"
	KindNoteUpdated     = "note.updated"
	KindNoteRenamed     = "note.renamed"
	KindNoteDeleted     = "note.deleted"
	KindNotebookCreated = "notebook.created"
)

// Notifier is called after every successful mutation. title is empty for
// notebook-level events.
type Notifier func(kind, notebook, title string)

// NotebookSummary is a lightweight item in a notebook list response.
type NotebookSummary struct {
	Name      string `json:"name"`
	NoteCount int    `json:"note_count"`
}

// NotebookDetail is the full representation of a notebook.
type NotebookDetail struct {
	Name   string   `json:"name"`
	Titles []string `json:"titles"`
}

// NoteDetail is the full representation of a note.
type NoteDetail struct {
	Notebook string `json:"notebook"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

// Service exposes the notebook collection to the API and MCP front ends.
type Service struct {
	coll   *notebook.Collection
	notify Notifier
}

// NewService creates a new note service. notify may be nil.
func NewService(coll *notebook.Collection, notify Notifier) *Service {
	if notify == nil {
		notify = func(string, string, string) {}
	}
	return &Service{coll: coll, notify: notify}
}

// ListNotebooks returns every notebook with its note count.
func (s *Service) ListNotebooks(_ context.Context) []NotebookSummary {
	names := s.coll.Names()
	items := make([]NotebookSummary, 0, len(names))
	for _, name := range names {
		nb, ok := s.coll.Get(name)
		if !ok {
			continue
		}
		items = append(items, NotebookSummary{Name: name, NoteCount: nb.Len()})
	}
	return items
}

// CreateNotebook creates an empty notebook, replacing one of the same name.
func (s *Service) CreateNotebook(_ context.Context, name string) (*NotebookDetail, error) {
	nb, err := s.coll.Create(name)
	if err != nil {
		return nil, err
	}
	s.notify(KindNotebookCreated, name, "")
	return detail(nb), nil
}

// GetNotebook returns a notebook with its titles.
func (s *Service) GetNotebook(_ context.Context, name string) (*NotebookDetail, error) {
	nb, err := s.notebook(name)
	if err != nil {
		return nil, err
	}
	return detail(nb), nil
}

// ListNotes returns the titles of a notebook.
func (s *Service) ListNotes(_ context.Context, name string) ([]string, error) {
	nb, err := s.notebook(name)
	if err != nil {
		return nil, err
	}
	return nb.ListNotes(), nil
}

// GetNote returns a single note.
func (s *Service) GetNote(_ context.Context, name, title string) (*NoteDetail, error) {
	nb, err := s.notebook(name)
	if err != nil {
		return nil, err
	}
	body, ok := nb.FindNote(title)
	if !ok {
		return nil, fmt.Errorf("notebook %s: note %q: %w", name, title, apperr.ErrNotFound)
	}
	return &NoteDetail{Notebook: name, Title: title, Body: body}, nil
}

// CreateNote stores a note, replacing any existing body.
func (s *Service) CreateNote(_ context.Context, name, title, body string) (*NoteDetail, error) {
	nb, err := s.notebook(name)
	if err != nil {
		return nil, err
	}
	if err := nb.CreateNote(title, body); err != nil {
		return nil, err
	}
	s.notify(KindNoteCreated, name, title)
	return &NoteDetail{Notebook: name, Title: title, Body: body}, nil
}

// EditNote replaces a note body, creating the note if absent.
func (s *Service) EditNote(_ context.Context, name, title, body string) (*NoteDetail, error) {
	nb, err := s.notebook(name)
	if err != nil {
		return nil, err
	}
	if err := nb.EditNote(title, body); err != nil {
		return nil, err
	}
	s.notify(KindNoteUpdated, name, title)
	return &NoteDetail{Notebook: name, Title: title, Body: body}, nil
}

// RenameNote moves a note to a new title.
func (s *Service) RenameNote(_ context.Context, name, oldTitle, newTitle string) (*NoteDetail, error) {
	nb, err := s.notebook(name)
	if err != nil {
		return nil, err
	}
	if err := nb.RenameNote(oldTitle, newTitle); err != nil {
		return nil, err
	}
	s.notify(KindNoteRenamed, name, newTitle)
	body, _ := nb.FindNote(newTitle)
	return &NoteDetail{Notebook: name, Title: newTitle, Body: body}, nil
}

// DeleteNote removes a note.
func (s *Service) DeleteNote(_ context.Context, name, title string) error {
	nb, err := s.notebook(name)
	if err != nil {
		return err
	}
	if err := nb.DeleteNote(title); err != nil {
		return err
	}
	s.notify(KindNoteDeleted, name, title)
	return nil
}

func (s *Service) notebook(name string) (*notebook.Notebook, error) {
	nb, ok := s.coll.Get(name)
	if !ok {
		return nil, fmt.Errorf("notebook %s: %w", name, apperr.ErrNotFound)
	}
	return nb, nil
}

func detail(nb *notebook.Notebook) *NotebookDetail {
	return &NotebookDetail{Name: nb.Name(), Titles: nb.ListNotes()}
}
