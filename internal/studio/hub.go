package studio

import (
	"context"
	"time"

	"vibecade/internal/game"
	"vibecade/internal/logging"
	"vibecade/pkg/utils"
)

// Generator produces a document for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (game.Document, error)
}

// Publisher stores a finished game and returns its id.
type Publisher interface {
	Publish(ctx context.Context, prompt string, code game.Document) (string, error)
}

// NewHub creates a new studio hub. Sessions idle for longer than ttl are
// closed by a sweeper that runs until ctx is done.
func NewHub(ctx context.Context, gen Generator, games Publisher, ttl time.Duration) *Hub {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	h := &Hub{
		Sessions: make(map[string]*Session),
		gen:      gen,
		games:    games,
		ttl:      ttl,
	}
	// cleanup goroutine
	go func() {
		t := time.NewTicker(5 * time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				h.CloseAll()
				return
			case now := <-t.C:
				h.Sweep(now)
			}
		}
	}()
	return h
}

// Open starts a fresh session prefilled with prompt.
func (h *Hub) Open(prompt string) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:            utils.RandomHex(12),
		InitialPrompt: prompt,
		Prompt:        prompt,
		LastSeen:      time.Now(),
		ctx:           ctx,
		cancel:        cancel,
		gen:           h.gen,
		games:         h.games,
	}
	h.Mu.Lock()
	h.Sessions[s.ID] = s
	h.Mu.Unlock()
	logging.Debugf("studio session %s opened", s.ID)
	return s
}

// Get retrieves a live session.
func (h *Hub) Get(id string) (*Session, bool) {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	s, ok := h.Sessions[id]
	return s, ok
}

// Close discards a session and cancels any generation it has in flight.
// Closing an unknown id is a no-op.
func (h *Hub) Close(id string) {
	h.Mu.Lock()
	s, ok := h.Sessions[id]
	delete(h.Sessions, id)
	h.Mu.Unlock()
	if ok {
		s.cancel()
		logging.Debugf("studio session %s closed", id)
	}
}

// CloseAll discards every session.
func (h *Hub) CloseAll() {
	h.Mu.Lock()
	sessions := h.Sessions
	h.Sessions = make(map[string]*Session)
	h.Mu.Unlock()
	for _, s := range sessions {
		s.cancel()
	}
}

// Sweep closes sessions idle since before now minus the hub ttl.
func (h *Hub) Sweep(now time.Time) int {
	h.Mu.Lock()
	var idle []*Session
	for id, s := range h.Sessions {
		s.Mu.Lock()
		stale := now.Sub(s.LastSeen) > h.ttl && !s.Generating
		s.Mu.Unlock()
		if stale {
			idle = append(idle, s)
			delete(h.Sessions, id)
		}
	}
	h.Mu.Unlock()
	for _, s := range idle {
		s.cancel()
	}
	return len(idle)
}

// Len reports the number of live sessions.
func (h *Hub) Len() int {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	return len(h.Sessions)
}
