package main

import (
	"embed"
	"html/template"
	"strings"

	"carz/pkg/layout"
	"carz/pkg/search"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

func loadTemplates() *template.Template {
	funcs := template.FuncMap{
		"lower": strings.ToLower,
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl"))
}

// pageData feeds the layout and the page templates.
type pageData struct {
	Title       string
	Description string
	Footer      string
	Logo        string
	LogoAlt     string
	Header      layout.Header
	Toasts      []search.Notification
	Notice      string

	Query      string
	View       search.View
	PreviewSrc template.URL
	DragPrompt string
	Accept     string
	Decoding   bool

	Results string
}

func newPage(role layout.Role) pageData {
	return pageData{
		Title:       layout.SiteTitle,
		Description: layout.SiteDescription,
		Footer:      layout.Footer,
		Logo:        layout.LogoPath,
		LogoAlt:     layout.LogoAlt,
		Header:      layout.HeaderFor(role, false),
	}
}

func (p *pageData) withWidget(sess *session) {
	snap := sess.widget.Snapshot()
	p.Query = snap.Query
	p.View = search.Derive(snap, search.DragIdle)
	// preview data is produced by the widget's own encoder
	p.PreviewSrc = template.URL(p.View.PreviewSrc)
	p.DragPrompt = search.Derive(snap, search.DragActive).DropPrompt
	p.Accept = ".png,.jpg,.jpeg"
	p.Decoding = snap.Status == search.StatusDecoding && snap.Mode == search.ModeImage
	p.Toasts = sess.toasts.Drain()
}
