package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"vibecade/internal/game"
	"vibecade/internal/storage"
	"vibecade/internal/studio"
)

type stubGenerator struct {
	doc game.Document
	err error
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (game.Document, error) {
	return s.doc, s.err
}

func newTestHandler(t *testing.T, gen studio.Generator) (*Handler, http.Handler) {
	t.Helper()
	kv := storage.NewMemory()
	games := game.NewStore(kv)
	games.Load(context.Background())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := studio.NewHub(ctx, gen, games, time.Hour)
	h := NewHandler(games, hub, kv, nil)
	return h, h.Routes()
}

func get(t *testing.T, srv http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func postJSON(t *testing.T, srv http.Handler, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return w, resp
}

func viewURL(fragment, studio string) string {
	q := url.Values{"fragment": {fragment}, "studio": {studio}}
	return "/view?" + q.Encode()
}

func TestShell(t *testing.T) {
	_, srv := newTestHandler(t, &stubGenerator{})
	w := get(t, srv, "/")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `id="view"`) {
		t.Fatalf("unexpected shell response %d", w.Code)
	}
}

func TestViewKinds(t *testing.T) {
	_, srv := newTestHandler(t, &stubGenerator{})
	tests := map[string]string{
		"":                             "home",
		"#/":                           "home",
		"#/studio":                     "studio",
		"#/gallery":                    "gallery",
		"#/gallery/play/default-snake": "play",
		"#/gallery/play/missing":       "play",
	}
	for fragment, want := range tests {
		w := get(t, srv, viewURL(fragment, ""))
		if got := w.Header().Get("X-View-Kind"); got != want {
			t.Fatalf("fragment %q: kind %q, want %q", fragment, got, want)
		}
	}
}

func TestViewStudioPrefill(t *testing.T) {
	h, srv := newTestHandler(t, &stubGenerator{})
	w := get(t, srv, viewURL("#/studio?prompt=A%20snake%20game", ""))
	if !strings.Contains(w.Body.String(), ">A snake game</textarea>") {
		t.Fatalf("prompt not prefilled")
	}
	if h.Studio.Len() != 1 {
		t.Fatalf("expected one studio session, got %d", h.Studio.Len())
	}
}

func TestViewClosesAbandonedStudio(t *testing.T) {
	h, srv := newTestHandler(t, &stubGenerator{})
	s := h.Studio.Open("pong")

	get(t, srv, viewURL("#/gallery", s.ID))
	if !s.Closed() {
		t.Fatalf("navigating away should close the studio session")
	}
	if h.Studio.Len() != 0 {
		t.Fatalf("expected no sessions, got %d", h.Studio.Len())
	}
}

func TestViewReusesStudioForSamePrompt(t *testing.T) {
	h, srv := newTestHandler(t, &stubGenerator{})
	s := h.Studio.Open("pong")

	w := get(t, srv, viewURL("#/studio?prompt=pong", s.ID))
	if !strings.Contains(w.Body.String(), `data-studio="`+s.ID+`"`) || s.Closed() {
		t.Fatalf("same prompt should keep the studio session")
	}

	w = get(t, srv, viewURL("#/studio?prompt=tetris", s.ID))
	if strings.Contains(w.Body.String(), `data-studio="`+s.ID+`"`) || !s.Closed() {
		t.Fatalf("a new prompt should reset the studio session")
	}
}

func TestGenerateAndPublishFlow(t *testing.T) {
	h, srv := newTestHandler(t, &stubGenerator{doc: game.NewDocument("<html>pong</html>")})
	s := h.Studio.Open("")

	w, resp := postJSON(t, srv, "/api/studio/"+s.ID+"/generate", `{"prompt":"pong"}`)
	if w.Code != http.StatusOK || resp["ok"] != true {
		t.Fatalf("generate failed: %d %v", w.Code, resp)
	}
	if frame, _ := resp["frame"].(string); !strings.Contains(frame, "srcdoc=") {
		t.Fatalf("missing preview frame: %v", resp["frame"])
	}

	w, resp = postJSON(t, srv, "/api/studio/"+s.ID+"/publish", ``)
	if w.Code != http.StatusOK || resp["ok"] != true {
		t.Fatalf("publish failed: %d %v", w.Code, resp)
	}
	id, _ := resp["id"].(string)
	if resp["url"] != "#/gallery/play/"+id {
		t.Fatalf("unexpected url %v", resp["url"])
	}

	page := get(t, srv, viewURL("#/gallery/play/"+id, ""))
	if !strings.Contains(page.Body.String(), "#/studio?prompt=pong") {
		t.Fatalf("play view missing edit link")
	}
	doc := get(t, srv, "/games/"+id+"/document")
	if doc.Body.String() != "<html>pong</html>" {
		t.Fatalf("unexpected document %q", doc.Body.String())
	}
	if !strings.HasPrefix(doc.Header().Get("Content-Security-Policy"), "sandbox") {
		t.Fatalf("document served without sandbox csp")
	}
}

func TestGenerateErrors(t *testing.T) {
	h, srv := newTestHandler(t, &stubGenerator{err: errors.New("boom")})
	s := h.Studio.Open("")

	w, resp := postJSON(t, srv, "/api/studio/"+s.ID+"/generate", `{"prompt":"  "}`)
	if w.Code != http.StatusBadRequest || resp["error"] != studio.MsgEmptyPrompt {
		t.Fatalf("blank prompt: %d %v", w.Code, resp)
	}

	w, resp = postJSON(t, srv, "/api/studio/"+s.ID+"/generate", `{"prompt":"pong"}`)
	if w.Code != http.StatusBadGateway || resp["error"] != studio.MsgGeneration {
		t.Fatalf("generation failure: %d %v", w.Code, resp)
	}

	w, resp = postJSON(t, srv, "/api/studio/"+s.ID+"/publish", ``)
	if w.Code != http.StatusBadRequest || resp["ok"] != false {
		t.Fatalf("publish without document: %d %v", w.Code, resp)
	}

	w, _ = postJSON(t, srv, "/api/studio/unknown/generate", `{"prompt":"pong"}`)
	if w.Code != http.StatusGone {
		t.Fatalf("unknown session: %d", w.Code)
	}

	w, resp = postJSON(t, srv, "/api/studio/"+s.ID+"/generate", `{`)
	if w.Code != http.StatusBadRequest || resp["error"] != studio.MsgInvalid {
		t.Fatalf("bad json: %d %v", w.Code, resp)
	}
}

func TestGamesAPI(t *testing.T) {
	_, srv := newTestHandler(t, &stubGenerator{})

	w := get(t, srv, "/api/games")
	var list struct {
		Games []game.Summary `json:"games"`
	}
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Games) != 2 || list.Games[0].ID != game.SnakeID {
		t.Fatalf("unexpected games %+v", list.Games)
	}

	if w := get(t, srv, "/api/games/default-2048"); w.Code != http.StatusOK {
		t.Fatalf("get seed: %d", w.Code)
	}
	if w := get(t, srv, "/api/games/nope"); w.Code != http.StatusNotFound {
		t.Fatalf("get missing: %d", w.Code)
	}
	if w := get(t, srv, "/games/nope/document"); w.Code != http.StatusNotFound {
		t.Fatalf("missing document: %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	_, srv := newTestHandler(t, &stubGenerator{})
	w := get(t, srv, "/healthz")
	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["ok"] != true || resp["games"] != float64(2) {
		t.Fatalf("unexpected health %v", resp)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{studio.ErrEmptyPrompt, http.StatusBadRequest},
		{fmt.Errorf("%w: eof", studio.ErrInvalidRequest), http.StatusBadRequest},
		{studio.ErrBusy, http.StatusConflict},
		{studio.ErrStale, http.StatusGone},
		{errors.Join(studio.ErrGeneration, context.DeadlineExceeded), http.StatusGatewayTimeout},
		{studio.ErrGeneration, http.StatusBadGateway},
		{studio.ErrPublish, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Fatalf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := ClientIP(req); got != "203.0.113.7" {
		t.Fatalf("got %q", got)
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	if got := ClientIP(req); got != "192.0.2.1" {
		t.Fatalf("got %q", got)
	}
}
