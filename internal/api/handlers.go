package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/theAliTajik/Notebook/internal/apperr"
	"github.com/theAliTajik/Notebook/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// pathParam returns a route parameter as a plain string. chi matches on
// RawPath when it is set, so only then is the parameter still escaped
// (e.g. a%2Fb for a title containing a slash).
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return raw
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// writeError maps domain errors to HTTP status codes.
func writeError(w http.ResponseWriter, op string, err error, attrs ...any) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrInvalidName), errors.Is(err, apperr.ErrInvalidText):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		slog.Error(op+" failed", append(attrs, slog.String("error", err.Error()))...)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListNotebooks handles GET /api/notebooks.
func (h *Handler) ListNotebooks(w http.ResponseWriter, r *http.Request) {
	items := h.svc.ListNotebooks(r.Context())
	writeJSON(w, http.StatusOK, NotebookListResponse{Notebooks: items, Total: len(items)})
}

// CreateNotebook handles POST /api/notebooks. An existing notebook of the
// same name is replaced by an empty one.
func (h *Handler) CreateNotebook(w http.ResponseWriter, r *http.Request) {
	var req CreateNotebookRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	nb, err := h.svc.CreateNotebook(r.Context(), req.Name)
	if err != nil {
		writeError(w, "create notebook", err, slog.String("notebook", req.Name))
		return
	}
	writeJSON(w, http.StatusCreated, nb)
}

// GetNotebook handles GET /api/notebooks/{notebook}.
func (h *Handler) GetNotebook(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "notebook")
	nb, err := h.svc.GetNotebook(r.Context(), name)
	if err != nil {
		writeError(w, "get notebook", err, slog.String("notebook", name))
		return
	}
	writeJSON(w, http.StatusOK, nb)
}

// ListNotes handles GET /api/notebooks/{notebook}/notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "notebook")
	titles, err := h.svc.ListNotes(r.Context(), name)
	if err != nil {
		writeError(w, "list notes", err, slog.String("notebook", name))
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notebook: name, Titles: titles})
}

// GetNote handles GET /api/notebooks/{notebook}/notes/{title}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	name, title := pathParam(r, "notebook"), pathParam(r, "title")
	note, err := h.svc.GetNote(r.Context(), name, title)
	if err != nil {
		writeError(w, "get note", err, slog.String("notebook", name), slog.String("title", title))
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// CreateNote handles POST /api/notebooks/{notebook}/notes.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "notebook")
	var req CreateNoteRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	note, err := h.svc.CreateNote(r.Context(), name, req.Title, req.Body)
	if err != nil {
		writeError(w, "create note", err, slog.String("notebook", name), slog.String("title", req.Title))
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// EditNote handles PUT /api/notebooks/{notebook}/notes/{title}. A missing
// note is created.
func (h *Handler) EditNote(w http.ResponseWriter, r *http.Request) {
	name, title := pathParam(r, "notebook"), pathParam(r, "title")
	var req EditNoteRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	note, err := h.svc.EditNote(r.Context(), name, title, *req.Body)
	if err != nil {
		writeError(w, "edit note", err, slog.String("notebook", name), slog.String("title", title))
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// RenameNote handles POST /api/notebooks/{notebook}/notes/{title}/rename.
func (h *Handler) RenameNote(w http.ResponseWriter, r *http.Request) {
	name, title := pathParam(r, "notebook"), pathParam(r, "title")
	var req RenameNoteRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	note, err := h.svc.RenameNote(r.Context(), name, title, req.NewTitle)
	if err != nil {
		writeError(w, "rename note", err, slog.String("notebook", name), slog.String("title", title))
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notebooks/{notebook}/notes/{title}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	name, title := pathParam(r, "notebook"), pathParam(r, "title")
	if err := h.svc.DeleteNote(r.Context(), name, title); err != nil {
		writeError(w, "delete note", err, slog.String("notebook", name), slog.String("title", title))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
