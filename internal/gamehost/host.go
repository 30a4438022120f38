// Package gamehost renders game documents inside sandboxed iframes. It is
// the only package that turns a game.Document into markup.
package gamehost

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"vibecade/internal/game"
)

// Profile is a capability profile for an embedded game.
type Profile int

const (
	// Play is the full-viewport interactive profile.
	Play Profile = iota
	// Preview is the studio live preview. Same capabilities as Play.
	Preview
	// Thumbnail is a scaled, non-interactive gallery card preview.
	Thumbnail
)

// Virtual canvas for thumbnails; the card scales it down.
const (
	ThumbWidth  = 1280
	ThumbHeight = 960
)

// Sandbox returns the iframe sandbox token list for p. Scripts are always
// allowed; modals only outside thumbnails. Nothing else is ever granted.
func Sandbox(p Profile) string {
	switch p {
	case Play, Preview:
		return "allow-scripts allow-modals"
	default:
		return "allow-scripts"
	}
}

// Frame renders doc in an iframe configured for p.
func Frame(doc game.Document, p Profile, title string) template.HTML {
	var b strings.Builder
	src := template.HTMLEscapeString(doc.Source())
	t := template.HTMLEscapeString(title)

	switch p {
	case Thumbnail:
		fmt.Fprintf(&b, `<div class="thumb-canvas" style="width:%dpx;height:%dpx;pointer-events:none">`, ThumbWidth, ThumbHeight)
		fmt.Fprintf(&b, `<iframe srcdoc="%s" title="%s" class="frame frame-thumb" sandbox="%s" scrolling="no" tabindex="-1" loading="lazy"></iframe>`,
			src, t, Sandbox(p))
		b.WriteString(`</div>`)
	case Preview:
		fmt.Fprintf(&b, `<iframe srcdoc="%s" title="%s" class="frame frame-preview" sandbox="%s"></iframe>`, src, t, Sandbox(p))
	default:
		fmt.Fprintf(&b, `<iframe srcdoc="%s" title="%s" class="frame frame-play" sandbox="%s"></iframe>`, src, t, Sandbox(p))
	}
	return template.HTML(b.String())
}

// Headers prepares w to serve a document directly under the same
// restrictions a Frame with p would impose.
func Headers(w http.ResponseWriter, p Profile) {
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Content-Security-Policy", "sandbox "+Sandbox(p))
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Cache-Control", "no-store")
}
