package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/theAliTajik/Notebook/internal/noteservice"
)

// CreateNotebookRequest is the request body for creating a notebook.
type CreateNotebookRequest struct {
	Name string `json:"name"`
}

// Validate checks the request.
func (r *CreateNotebookRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required),
	)
}

// CreateNoteRequest is the request body for creating a note. An empty body is allowed.
type CreateNoteRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Validate checks the request.
func (r *CreateNoteRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required),
	)
}

// EditNoteRequest is the request body for replacing a note body.
type EditNoteRequest struct {
	Body *string `json:"body"`
}

// Validate checks the request.
func (r *EditNoteRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Body, validation.NotNil),
	)
}

// RenameNoteRequest is the request body for renaming a note.
type RenameNoteRequest struct {
	NewTitle string `json:"new_title"`
}

// Validate checks the request.
func (r *RenameNoteRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.NewTitle, validation.Required),
	)
}

// NotebookListResponse wraps notebook listings.
type NotebookListResponse struct {
	Notebooks []noteservice.NotebookSummary `json:"notebooks"`
	Total     int                           `json:"total"`
}

// NoteListResponse wraps the titles of one notebook.
type NoteListResponse struct {
	Notebook string   `json:"notebook"`
	Titles   []string `json:"titles"`
}
