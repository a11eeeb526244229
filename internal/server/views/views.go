// Package views holds the embedded HTML templates and the gin renderer that
// serves them. Every page template is parsed into its own clone of the shared
// layout, so every page can define its own "content".
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin/render"

	"github.com/autobase/webfront/internal/auth"
	"github.com/autobase/webfront/internal/format"
)

//go:embed templates/*.html templates/partials/*.html
var templatesFS embed.FS

const layoutFile = "layout.html"

// Flash is a one-shot alert carried across a redirect.
type Flash struct {
	Kind string // "success" or "danger"
	Text string
}

// Page is the data every template receives. Data carries the page-specific
// view.
type Page struct {
	Title   string
	Path    string
	Nav     auth.Nav
	Flashes []Flash
	Data    any
}

var funcMap = template.FuncMap{
	"currency": format.Currency,
	"date":     format.Date,
	"number":   format.Number,
	"label":    format.Label,
	"text":     format.Text,
	"join":     strings.Join,
	"add":      func(a, b int) int { return a + b },
}

// Renderer implements gin's render.HTMLRender over the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses the layout, partials and every page.
func New() (*Renderer, error) {
	base, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/"+layoutFile, "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		if path.Base(file) == layoutFile {
			continue
		}
		page, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", file, err)
		}
		if _, err := page.ParseFS(templatesFS, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.pages[strings.TrimSuffix(path.Base(file), ".html")] = page
	}
	return r, nil
}

// Must panics when the templates cannot be parsed.
func Must(r *Renderer, err error) *Renderer {
	if err != nil {
		panic(err)
	}
	return r
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Instance implements render.HTMLRender.
func (r *Renderer) Instance(name string, data any) render.Render {
	page, ok := r.pages[name]
	if !ok {
		return missingPage(name)
	}
	return render.HTML{Template: page, Name: "layout", Data: data}
}

type missingPage string

func (m missingPage) Render(w http.ResponseWriter) error {
	m.WriteContentType(w)
	return fmt.Errorf("unknown page template %q", string(m))
}

func (m missingPage) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if header.Get("Content-Type") == "" {
		header.Set("Content-Type", "text/html; charset=utf-8")
	}
}
