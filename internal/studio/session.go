package studio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vibecade/internal/game"
	"vibecade/internal/logging"
)

// Touch updates the last seen timestamp for a session.
func (s *Session) Touch() {
	s.Mu.Lock()
	s.LastSeen = time.Now()
	s.Mu.Unlock()
}

// Closed reports whether the session has been discarded.
func (s *Session) Closed() bool {
	return s.ctx.Err() != nil
}

// Snapshot returns the current draft.
func (s *Session) Snapshot() Snapshot {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return Snapshot{
		ID:            s.ID,
		InitialPrompt: s.InitialPrompt,
		Prompt:        s.Prompt,
		Document:      s.Document,
		PublishedID:   s.PublishedID,
		Generating:    s.Generating,
	}
}

// Generate asks the generator for a document. The call is cancelled when
// either ctx or the session ends. A failure leaves the previous document in
// place; a result that arrives after the session closed is dropped.
func (s *Session) Generate(ctx context.Context, prompt string) (game.Document, error) {
	if strings.TrimSpace(prompt) == "" {
		return game.Document{}, ErrEmptyPrompt
	}

	s.Mu.Lock()
	if s.Closed() {
		s.Mu.Unlock()
		return game.Document{}, ErrStale
	}
	if s.Generating {
		s.Mu.Unlock()
		return game.Document{}, ErrBusy
	}
	s.Generating = true
	s.LastSeen = time.Now()
	s.Mu.Unlock()

	gctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	start := time.Now()
	doc, err := s.gen.Generate(gctx, prompt)
	logging.Debugf("studio %s generation took %s (err=%v)", s.ID, time.Since(start), err)

	s.Mu.Lock()
	defer s.Mu.Unlock()
	s.Generating = false
	s.LastSeen = time.Now()
	if s.Closed() {
		return game.Document{}, ErrStale
	}
	if err != nil {
		return game.Document{}, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	s.Prompt = prompt
	s.Document = doc
	s.PublishedID = ""
	return doc, nil
}

// Publish stores the current document under the prompt that produced it.
// Publishing the same draft twice returns the first id.
func (s *Session) Publish(ctx context.Context) (string, error) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	switch {
	case s.Closed():
		return "", ErrStale
	case s.Generating:
		return "", ErrBusy
	case s.Document.IsZero():
		return "", ErrNothingToPublish
	case s.PublishedID != "":
		return s.PublishedID, nil
	}
	s.LastSeen = time.Now()

	id, err := s.games.Publish(ctx, s.Prompt, s.Document)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPublish, err)
	}
	s.PublishedID = id
	return id, nil
}
