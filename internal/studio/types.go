package studio

import (
	"context"
	"errors"
	"sync"
	"time"

	"vibecade/internal/game"
)

// User-facing messages, shown inline in the studio.
const (
	MsgEmptyPrompt = "Please enter a description for your game."
	MsgGeneration  = "Failed to generate code. Please try again."
	MsgPublish     = "Could not publish game."
	MsgBusy        = "A game is already being generated."
	MsgExpired     = "This studio session has expired. Please reload the page."
	MsgInvalid     = "Something went wrong sending your request. Please try again."
)

var (
	ErrEmptyPrompt      = errors.New("studio: empty prompt")
	ErrGeneration       = errors.New("studio: generation failed")
	ErrPublish          = errors.New("studio: publish failed")
	ErrNothingToPublish = errors.New("studio: nothing to publish")
	ErrBusy             = errors.New("studio: generation already running")
	ErrStale            = errors.New("studio: session closed")
	ErrNoSession        = errors.New("studio: no such session")
	ErrInvalidRequest   = errors.New("studio: malformed request")
)

// Message maps a studio error to the text shown to the user.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrEmptyPrompt):
		return MsgEmptyPrompt
	case errors.Is(err, ErrPublish), errors.Is(err, ErrNothingToPublish):
		return MsgPublish
	case errors.Is(err, ErrBusy):
		return MsgBusy
	case errors.Is(err, ErrStale), errors.Is(err, ErrNoSession):
		return MsgExpired
	case errors.Is(err, ErrInvalidRequest):
		return MsgInvalid
	default:
		return MsgGeneration
	}
}

// Hub manages all live studio sessions.
type Hub struct {
	Mu       sync.Mutex
	Sessions map[string]*Session

	gen   Generator
	games Publisher
	ttl   time.Duration
}

// Session is the draft state of one studio view instance. Its context is
// cancelled when the view goes away.
type Session struct {
	Mu            sync.Mutex
	ID            string
	InitialPrompt string
	Prompt        string
	Document      game.Document
	PublishedID   string
	Generating    bool
	LastSeen      time.Time

	ctx    context.Context
	cancel context.CancelFunc
	gen    Generator
	games  Publisher
}

// Snapshot is an immutable copy of a session's draft.
type Snapshot struct {
	ID            string
	InitialPrompt string
	Prompt        string
	Document      game.Document
	PublishedID   string
	Generating    bool
}

// GenerateRequest is the body of a generate call.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}
