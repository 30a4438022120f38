package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"vibecade/internal/game"
	"vibecade/internal/gamehost"
	"vibecade/internal/logging"
	"vibecade/internal/route"
	"vibecade/internal/storage"
	"vibecade/internal/studio"
	"vibecade/internal/templates"
	"vibecade/internal/view"
	"vibecade/pkg/utils"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	Games  *game.Store
	Studio *studio.Hub
	Stats  storage.StatsFetcher
	Log    *slog.Logger
}

// NewHandler creates a new handler instance. stats may be nil.
func NewHandler(games *game.Store, hub *studio.Hub, stats storage.StatsFetcher, log *slog.Logger) *Handler {
	if log == nil {
		log = logging.Discard()
	}
	return &Handler{Games: games, Studio: hub, Stats: stats, Log: log}
}

// HandleShell serves the page that hosts every view.
func (h *Handler) HandleShell(w http.ResponseWriter, r *http.Request) {
	templates.WriteShellHTML(w)
}

// HandleView resolves a URL fragment into view markup. The browser calls it
// on load and on every hashchange, passing the studio session it currently
// shows so that an abandoned studio is torn down.
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rt := route.Parse(q.Get("fragment"))
	v := view.Compose(rt, h.Games.Games())

	var snap studio.Snapshot
	if sv, ok := v.(view.StudioView); ok {
		snap = h.studioFor(q.Get("studio"), sv.Prompt).Snapshot()
	} else if prev := q.Get("studio"); prev != "" {
		h.Studio.Close(prev)
	}
	templates.WriteViewHTML(w, v, snap)
}

// studioFor keeps the previous session when it was opened for the same
// prompt, and otherwise replaces it with a fresh one.
func (h *Handler) studioFor(prev, prompt string) *studio.Session {
	if prev != "" {
		if s, ok := h.Studio.Get(prev); ok && s.Snapshot().InitialPrompt == prompt {
			s.Touch()
			return s
		}
		h.Studio.Close(prev)
	}
	return h.Studio.Open(prompt)
}

// HandleGenerate runs a generation for one studio session.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.Studio.Get(chi.URLParam(r, "id"))
	if !ok {
		h.fail(w, r, "generate", studio.ErrNoSession)
		return
	}

	var body studio.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.fail(w, r, "generate", fmt.Errorf("%w: %v", studio.ErrInvalidRequest, err))
		return
	}

	doc, err := s.Generate(r.Context(), body.Prompt)
	if err != nil {
		h.fail(w, r, "generate", err)
		return
	}
	h.Log.Info("game generated",
		slog.String("studio", s.ID),
		slog.String("prompt", utils.Truncate(body.Prompt, 60)),
		slog.Int("bytes", doc.Len()),
	)
	WriteJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"frame": gamehost.Frame(doc, gamehost.Preview, "Vibecade Labs Preview"),
	})
}

// HandlePublish publishes the session's current document.
func (h *Handler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	s, ok := h.Studio.Get(chi.URLParam(r, "id"))
	if !ok {
		h.fail(w, r, "publish", studio.ErrNoSession)
		return
	}
	id, err := s.Publish(r.Context())
	if err != nil {
		h.fail(w, r, "publish", err)
		return
	}
	h.Log.Info("game published", slog.String("id", id), slog.String("studio", s.ID))
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id, "url": route.PlayFragment(id)})
}

// HandleCloseStudio discards a studio session.
func (h *Handler) HandleCloseStudio(w http.ResponseWriter, r *http.Request) {
	h.Studio.Close(chi.URLParam(r, "id"))
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// HandleListGames lists the gallery without documents.
func (h *Handler) HandleListGames(w http.ResponseWriter, r *http.Request) {
	games := h.Games.Games()
	out := make([]game.Summary, 0, len(games))
	for _, g := range games {
		out = append(out, g.Summarize())
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "games": out})
}

// HandleGetGame returns one game including its document.
func (h *Handler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	g, ok := h.Games.FindByID(chi.URLParam(r, "id"))
	if !ok {
		WriteJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "game not found"})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "game": g})
}

// HandleDocument serves a game document on its own, sandboxed by CSP.
func (h *Handler) HandleDocument(w http.ResponseWriter, r *http.Request) {
	g, ok := h.Games.FindByID(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	gamehost.Headers(w, gamehost.Play)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(g.Code.Source()))
}

// HandleHealth reports liveness and storage stats.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"ok":      true,
		"commit":  templates.Commit(),
		"games":   len(h.Games.Games()),
		"studios": h.Studio.Len(),
	}
	if h.Stats != nil {
		stats, err := h.Stats.FetchStats(r.Context())
		if err != nil {
			h.Log.Warn("fetch storage stats", slog.Any("err", err))
			resp["ok"] = false
			WriteJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		resp["storage"] = stats
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	attrs := []any{slog.String("op", op), slog.Int("status", status), slog.Any("err", err)}
	if status >= 500 {
		h.Log.Error("studio request failed", attrs...)
	} else {
		h.Log.Debug("studio request rejected", attrs...)
	}
	WriteJSON(w, status, map[string]any{"ok": false, "error": studio.Message(err)})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, studio.ErrEmptyPrompt), errors.Is(err, studio.ErrNothingToPublish),
		errors.Is(err, studio.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, studio.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, studio.ErrStale), errors.Is(err, studio.ErrNoSession):
		return http.StatusGone
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, studio.ErrGeneration):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ClientIP extracts the client IP from the request
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
