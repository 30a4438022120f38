// Package view selects the single top-level view for a route.
package view

import (
	"html/template"

	"vibecade/internal/game"
	"vibecade/internal/gamehost"
	"vibecade/internal/route"
)

// Not-found messages for the play view.
const (
	MsgNoGames     = "Could not find any saved games."
	MsgGameMissing = "The requested game could not be found. It may have been deleted."
)

// View is one of HomeView, StudioView, GalleryView or PlayView.
type View interface {
	Kind() route.Kind
	Title() string
}

// Showcase is an inspiration card on the home page.
type Showcase struct {
	Title       string
	Description string
	Prompt      string
	Link        string
}

type HomeView struct {
	Showcase []Showcase
}

// StudioView is keyed by its prompt: a different Key means fresh draft state.
type StudioView struct {
	Prompt string
	Key    string
}

// Card is one game in the gallery grid.
type Card struct {
	ID        string
	Prompt    string
	Published string
	CreatedAt int64
	Link      string
	Preview   template.HTML
}

type GalleryView struct {
	Cards []Card
}

// Empty reports whether the gallery has nothing to show.
func (g GalleryView) Empty() bool { return len(g.Cards) == 0 }

// PlayView shows one game full screen, or an error when it is missing.
type PlayView struct {
	ID       string
	Found    bool
	Game     game.Game
	Frame    template.HTML
	EditLink string
	Error    string
}

func (HomeView) Kind() route.Kind    { return route.KindHome }
func (StudioView) Kind() route.Kind  { return route.KindStudio }
func (GalleryView) Kind() route.Kind { return route.KindGallery }
func (PlayView) Kind() route.Kind    { return route.KindPlay }

func (HomeView) Title() string    { return "Vibecade Labs" }
func (StudioView) Title() string  { return "Studio · Vibecade Labs" }
func (GalleryView) Title() string { return "Gallery · Vibecade Labs" }
func (PlayView) Title() string    { return "Vibecade Labs Game" }

// Compose picks the view for rt over a snapshot of the gallery.
func Compose(rt route.Route, games []game.Game) View {
	switch r := rt.(type) {
	case route.Play:
		return composePlay(r.ID, games)
	case route.Studio:
		return StudioView{Prompt: r.Prompt, Key: studioKey(r.Prompt)}
	case route.Gallery:
		return composeGallery(games)
	case route.Home:
		return HomeView{Showcase: showcase()}
	default:
		return HomeView{Showcase: showcase()}
	}
}

func composePlay(id string, games []game.Game) PlayView {
	for _, g := range games {
		if g.ID != id {
			continue
		}
		return PlayView{
			ID:       id,
			Found:    true,
			Game:     g,
			Frame:    gamehost.Frame(g.Code, gamehost.Play, "Vibecade Labs Game"),
			EditLink: route.StudioFragment(g.Prompt),
		}
	}
	msg := MsgGameMissing
	if len(games) == 0 {
		msg = MsgNoGames
	}
	return PlayView{ID: id, Error: msg}
}

func composeGallery(games []game.Game) GalleryView {
	cards := make([]Card, 0, len(games))
	for _, g := range games {
		cards = append(cards, Card{
			ID:        g.ID,
			Prompt:    g.Prompt,
			Published: FormatDate(g.CreatedAt),
			CreatedAt: g.CreatedAt,
			Link:      route.PlayFragment(g.ID),
			Preview:   gamehost.Frame(g.Code, gamehost.Thumbnail, "Preview of "+g.Prompt),
		})
	}
	return GalleryView{Cards: cards}
}

func studioKey(prompt string) string {
	return route.EncodeComponent(prompt)
}
