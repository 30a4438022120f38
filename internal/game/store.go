package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"vibecade/internal/logging"
	"vibecade/internal/storage"
)

// DefaultKey is the storage key the whole gallery is serialized under.
const DefaultKey = "vibecade-games"

var (
	// ErrCorrupt marks a persisted gallery that could not be decoded.
	ErrCorrupt = errors.New("game: persisted gallery is corrupt")
	// ErrPublishFailed is returned when a new game could not be persisted.
	ErrPublishFailed = errors.New("game: publish failed")
)

// Store owns the ordered, persisted collection of games. Newest first.
type Store struct {
	mu     sync.Mutex
	kv     storage.KV
	key    string
	log    *slog.Logger
	games  []Game
	loaded bool
	// degraded is set while the in-memory gallery is a fallback for an
	// unreadable stored one. It must not be written over the stored value.
	degraded bool

	now   func() time.Time
	newID func() string
}

// Option customises a Store.
type Option func(*Store)

// WithKey overrides DefaultKey.
func WithKey(key string) Option { return func(s *Store) { s.key = key } }

// WithLogger sets the logger used for recovered storage errors.
func WithLogger(l *slog.Logger) Option { return func(s *Store) { s.log = l } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithIDs replaces the uuid generator.
func WithIDs(next func() string) Option { return func(s *Store) { s.newID = next } }

// NewStore creates a store over kv. Call Load before serving.
func NewStore(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		key:   DefaultKey,
		log:   logging.Discard(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load reads the persisted gallery. A missing or corrupt value is replaced
// by the seed games, which are written back. Load never fails; on a read
// error the seeds are served from memory only and the store is degraded
// until a later read succeeds.
func (s *Store) Load(ctx context.Context) []Game {
	s.mu.Lock()
	defer s.mu.Unlock()

	games, err := s.read(ctx)
	s.degraded = false
	switch {
	case err == nil:
		logging.Debugf("loaded %d games from %q", len(games), s.key)
	case errors.Is(err, storage.ErrNotFound):
		games = s.seed(ctx)
	case errors.Is(err, ErrCorrupt):
		s.log.Warn("discarding corrupt gallery", slog.String("key", s.key), slog.Any("err", err))
		if err := s.kv.Delete(ctx, s.key); err != nil {
			s.log.Error("clear corrupt gallery", slog.Any("err", err))
		}
		games = s.seed(ctx)
	default:
		s.log.Error("load gallery", slog.String("key", s.key), slog.Any("err", err))
		games = Seeds(s.now())
		s.degraded = true
	}

	s.games = games
	s.loaded = true
	return clone(games)
}

func (s *Store) read(ctx context.Context) ([]Game, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	var games []Game
	if err := json.Unmarshal([]byte(raw), &games); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if games == nil {
		games = []Game{}
	}
	return games, nil
}

func (s *Store) seed(ctx context.Context) []Game {
	games := Seeds(s.now())
	if err := s.write(ctx, games); err != nil {
		s.log.Error("persist seed games", slog.Any("err", err))
	}
	return games
}

func (s *Store) write(ctx context.Context, games []Game) error {
	b, err := json.Marshal(games)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.key, string(b))
}

// Publish prepends a new game and persists the whole gallery. On a write
// failure the game is discarded and ErrPublishFailed is returned. A degraded
// store re-reads the stored gallery first and refuses to publish while it is
// still unreadable.
func (s *Store) Publish(ctx context.Context, prompt string, code Document) (string, error) {
	if !s.isLoaded() {
		s.Load(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.degraded {
		if err := s.reload(ctx); err != nil {
			s.log.Error("publish on unreadable gallery", slog.String("key", s.key), slog.Any("err", err))
			return "", fmt.Errorf("%w: %v", ErrPublishFailed, err)
		}
	}

	g := Game{
		ID:        s.newID(),
		Prompt:    prompt,
		Code:      code,
		CreatedAt: s.now().UnixMilli(),
	}
	updated := make([]Game, 0, len(s.games)+1)
	updated = append(updated, g)
	updated = append(updated, s.games...)

	if err := s.write(ctx, updated); err != nil {
		s.log.Error("publish game", slog.String("id", g.ID), slog.Any("err", err))
		return "", fmt.Errorf("%w: %v", ErrPublishFailed, err)
	}
	s.games = updated
	logging.Debugf("published game %s (%d bytes)", g.ID, code.Len())
	return g.ID, nil
}

// reload replaces the fallback gallery with the stored one. A key that is
// now missing means the seeds in memory were right all along.
func (s *Store) reload(ctx context.Context) error {
	games, err := s.read(ctx)
	switch {
	case err == nil:
		s.games = games
	case errors.Is(err, storage.ErrNotFound):
	default:
		return err
	}
	s.degraded = false
	logging.Debugf("gallery %q readable again (%d games)", s.key, len(s.games))
	return nil
}

// FindByID returns the game with id, if any.
func (s *Store) FindByID(id string) (Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.games {
		if g.ID == id {
			return g, true
		}
	}
	return Game{}, false
}

// Games returns a snapshot of the gallery in store order.
func (s *Store) Games() []Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.games)
}

func (s *Store) isLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

func clone(games []Game) []Game {
	out := make([]Game, len(games))
	copy(out, games)
	return out
}
