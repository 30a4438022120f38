package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
)

// Routes wires every endpoint onto a chi router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(AccessLog(h.Log))
	r.Use(chimid.Recoverer)
	r.Use(Compress)

	r.Get("/", h.HandleShell)
	r.Get("/view", h.HandleView)
	r.Get("/healthz", h.HandleHealth)
	r.Get("/games/{id}/document", h.HandleDocument)

	r.Route("/api", func(r chi.Router) {
		r.Get("/games", h.HandleListGames)
		r.Get("/games/{id}", h.HandleGetGame)
		r.Post("/studio/{id}/generate", h.HandleGenerate)
		r.Post("/studio/{id}/publish", h.HandlePublish)
		r.Delete("/studio/{id}", h.HandleCloseStudio)
	})
	return r
}
