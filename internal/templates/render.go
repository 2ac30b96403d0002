// Package templates renders the HTML and SVG fragments patched into the
// map page over Datastar SSE.
package templates

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joeblew999/heritage-map/internal/style"
)

//go:embed fragments/*.html
var embedded embed.FS

// PinPath is the SVG path of a temple pin, tip at the origin.
const PinPath = "M0,0 C-5,-10 -10,-15 -10,-22 C-10,-28 -5,-32 0,-32 C5,-32 10,-28 10,-22 C10,-15 5,-10 0,0"

var funcMap = template.FuncMap{
	"num": func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	},
	"css": func(s style.RegionStyle) template.CSS {
		return template.CSS(s.CSS())
	},
}

// Renderer manages HTML fragment templates.
type Renderer struct {
	templates *template.Template
}

// New parses the built-in fragments, then any *.html files in
// overrideDir, which redefine templates of the same name. An empty
// overrideDir uses the built-ins only.
func New(overrideDir string) (*Renderer, error) {
	tmpl, err := parse(overrideDir)
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: tmpl}, nil
}

func parse(overrideDir string) (*template.Template, error) {
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(embedded, "fragments/*.html")
	if err != nil {
		return nil, err
	}
	if overrideDir == "" {
		return tmpl, nil
	}

	matches, err := fs.Glob(os.DirFS(overrideDir), "*.html")
	if err != nil || len(matches) == 0 {
		return tmpl, err
	}
	return tmpl.ParseGlob(filepath.Join(overrideDir, "*.html"))
}

// Page parses the page file at path over a copy of the fragment set, so
// the page can embed fragments with {{template}}. Call it before the
// renderer serves any fragment.
func (r *Renderer) Page(path string) (*template.Template, error) {
	tmpl, err := r.templates.Clone()
	if err != nil {
		return nil, err
	}
	return tmpl.ParseFiles(path)
}

// Render renders a named template to a string.
func (r *Renderer) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToBuffer(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToBuffer renders a named template to a buffer.
func (r *Renderer) RenderToBuffer(buf *bytes.Buffer, name string, data any) error {
	return r.templates.ExecuteTemplate(buf, name, data)
}

// MustRender renders a template and panics on error.
func (r *Renderer) MustRender(name string, data any) string {
	s, err := r.Render(name, data)
	if err != nil {
		panic(err)
	}
	return s
}
