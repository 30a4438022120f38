package game

import (
	"encoding/json"
	"time"
)

// Document is a complete, self-contained HTML game. Nothing outside the
// embedded game host looks inside it.
type Document struct {
	src string
}

// NewDocument wraps raw document text.
func NewDocument(src string) Document { return Document{src: src} }

// IsZero reports whether the document is empty.
func (d Document) IsZero() bool { return d.src == "" }

// Source returns the raw document text.
func (d Document) Source() string { return d.src }

// Len returns the document size in bytes.
func (d Document) Len() int { return len(d.src) }

func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.src)
}

func (d *Document) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &d.src)
}

// Game represents one generated or built-in game. The JSON shape matches
// the persisted gallery format.
type Game struct {
	ID        string   `json:"id"`
	Prompt    string   `json:"prompt"`
	Code      Document `json:"code"`
	CreatedAt int64    `json:"createdAt"`
}

// Created returns CreatedAt as a time.
func (g Game) Created() time.Time {
	return time.UnixMilli(g.CreatedAt)
}

// Summary is the listing view of a game, without its document.
type Summary struct {
	ID        string `json:"id"`
	Prompt    string `json:"prompt"`
	CreatedAt int64  `json:"createdAt"`
	Size      int    `json:"size"`
}

// Summarize drops the document from g.
func (g Game) Summarize() Summary {
	return Summary{ID: g.ID, Prompt: g.Prompt, CreatedAt: g.CreatedAt, Size: g.Code.Len()}
}
