package templates

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"vibecade/internal/gamehost"
	"vibecade/internal/route"
	"vibecade/internal/studio"
	"vibecade/internal/view"
)

//go:embed *.html
var files embed.FS

var (
	shell = template.Must(template.ParseFS(files, "shell.html"))
	views = template.Must(template.ParseFS(files, "home.html", "studio.html", "gallery.html", "play.html"))
)

var commit = "dev"

// SetCommit records the build revision shown in the page footer.
func SetCommit(c string) {
	if c != "" {
		commit = c
	}
}

// Commit returns the recorded build revision.
func Commit() string { return commit }

// WriteShellHTML serves the single page that hosts every view.
func WriteShellHTML(w http.ResponseWriter) {
	var buf bytes.Buffer
	if err := shell.Execute(&buf, struct{ Commit string }{commit}); err != nil {
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

type viewData struct {
	View      view.View
	Studio    studio.Snapshot
	Preview   template.HTML
	ShareLink string
}

// WriteViewHTML renders the markup for v. snap is only used for the studio.
func WriteViewHTML(w http.ResponseWriter, v view.View, snap studio.Snapshot) {
	data := viewData{View: v, Studio: snap}
	if v.Kind() == route.KindStudio {
		if !snap.Document.IsZero() {
			data.Preview = gamehost.Frame(snap.Document, gamehost.Preview, "Vibecade Labs Preview")
		}
		if snap.PublishedID != "" {
			data.ShareLink = route.PlayFragment(snap.PublishedID)
		}
	}

	var buf bytes.Buffer
	if err := views.ExecuteTemplate(&buf, v.Kind().String(), data); err != nil {
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-View-Kind", v.Kind().String())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
