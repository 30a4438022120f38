// Package route turns a URL fragment into the view the app should show.
//
// Grammar:
//
//	#/ or empty                -> Home
//	#/studio                   -> Studio{}
//	#/studio?prompt=<encoded>  -> Studio{Prompt}
//	#/gallery                  -> Gallery
//	#/gallery/play/<id>        -> Play{ID}
//
// Anything else resolves to Home.
package route

import (
	"net/url"
	"strings"
)

// Kind names the root view.
type Kind int

const (
	KindHome Kind = iota
	KindStudio
	KindGallery
	KindPlay
)

func (k Kind) String() string {
	switch k {
	case KindStudio:
		return "studio"
	case KindGallery:
		return "gallery"
	case KindPlay:
		return "play"
	default:
		return "home"
	}
}

// Route is one of Home, Studio, Gallery or Play.
type Route interface {
	Kind() Kind
	Fragment() string
}

type Home struct{}

// Studio carries the prompt to prefill. Empty means no prefill.
type Studio struct {
	Prompt string
}

type Gallery struct{}

// Play targets a single game directly.
type Play struct {
	ID string
}

func (Home) Kind() Kind    { return KindHome }
func (Studio) Kind() Kind  { return KindStudio }
func (Gallery) Kind() Kind { return KindGallery }
func (Play) Kind() Kind    { return KindPlay }

func (Home) Fragment() string    { return "#/" }
func (Gallery) Fragment() string { return "#/gallery" }

func (s Studio) Fragment() string {
	if s.Prompt == "" {
		return "#/studio"
	}
	return "#/studio?prompt=" + EncodeComponent(s.Prompt)
}

func (p Play) Fragment() string {
	return "#/gallery/play/" + p.ID
}

// StudioFragment links to the studio prefilled with prompt.
func StudioFragment(prompt string) string { return Studio{Prompt: prompt}.Fragment() }

// PlayFragment links to direct play of the game with id.
func PlayFragment(id string) string { return Play{ID: id}.Fragment() }

// Parse resolves a raw fragment, with or without the leading '#'.
func Parse(fragment string) Route {
	fragment = strings.TrimPrefix(fragment, "#")
	path, query, _ := strings.Cut(fragment, "?")

	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	if len(segs) == 0 {
		return Home{}
	}

	switch segs[0] {
	case "studio":
		return Studio{Prompt: queryParam(query, "prompt")}
	case "gallery":
		if len(segs) >= 3 && segs[1] == "play" {
			return Play{ID: segs[2]}
		}
		return Gallery{}
	default:
		return Home{}
	}
}

// queryParam returns the first value of name, percent-decoded. Malformed
// query text falls back to the raw value.
func queryParam(query, name string) string {
	if query == "" {
		return ""
	}
	for _, pair := range strings.Split(query, "&") {
		k, v, _ := strings.Cut(pair, "=")
		if decode(k) != name {
			continue
		}
		return decode(v)
	}
	return ""
}

func decode(s string) string {
	if d, err := url.QueryUnescape(s); err == nil {
		return d
	}
	if d, err := url.PathUnescape(s); err == nil {
		return d
	}
	return s
}

// EncodeComponent escapes s the way browsers' encodeURIComponent does.
func EncodeComponent(s string) string {
	const safe = "-_.!~*'()"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') || strings.IndexByte(safe, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		const hex = "0123456789ABCDEF"
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&15])
	}
	return b.String()
}
