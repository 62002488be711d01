package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/theAliTajik/Notebook/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Route("/notebooks", func(r chi.Router) {
		r.Get("/", h.ListNotebooks)
		r.Post("/", h.CreateNotebook)

		r.Route("/{notebook}", func(r chi.Router) {
			r.Get("/", h.GetNotebook)
			r.Get("/notes", h.ListNotes)
			r.Post("/notes", h.CreateNote)
			r.Get("/notes/{title}", h.GetNote)
			r.Put("/notes/{title}", h.EditNote)
			r.Delete("/notes/{title}", h.DeleteNote)
			r.Post("/notes/{title}/rename", h.RenameNote)
		})
	})

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
