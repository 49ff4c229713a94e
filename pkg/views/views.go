package views

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/a-h/templ"
)

var (
	ErrPageNotFound   = errors.New("views: page not found")
	ErrLayoutNotFound = errors.New("views: layout not found")
	ErrRenderFailed   = errors.New("views: failed to render page")
)

const (
	defaultLayout = "layouts/base.html"
	pagesGlob     = "pages/*.html"
	partialsGlob  = "partials/*.html"
)

// Engine renders named pages. Each page in "pages/" is parsed together
// with the layout and every partial, so a page only defines the blocks
// it overrides:
//
//	{{define "title"}}About{{end}}
//	{{define "content"}}<h1>{{.pageTitle}}</h1>{{end}}
//
// Pages are parsed once; Engine is safe for concurrent use.
type Engine struct {
	pages map[string]*template.Template
}

type config struct {
	funcs  template.FuncMap
	layout string
}

// Option configures the engine.
type Option func(*config)

// WithLayout sets the layout file. Default: "layouts/base.html".
func WithLayout(name string) Option {
	return func(c *config) {
		if name != "" {
			c.layout = name
		}
	}
}

// WithFuncs adds template functions to every page.
func WithFuncs(funcs template.FuncMap) Option {
	return func(c *config) {
		maps.Copy(c.funcs, funcs)
	}
}

// New parses the layout, partials and pages from fsys.
func New(fsys fs.FS, opts ...Option) (*Engine, error) {
	cfg := &config{
		layout: defaultLayout,
		funcs: template.FuncMap{
			"markdown": func(s string) (template.HTML, error) { return Markdown([]byte(s)) },
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	layout, err := fs.ReadFile(fsys, cfg.layout)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLayoutNotFound, cfg.layout, err)
	}

	base, err := template.New(path.Base(cfg.layout)).Funcs(cfg.funcs).Parse(string(layout))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailed, cfg.layout, err)
	}
	if partials, _ := fs.Glob(fsys, partialsGlob); len(partials) > 0 {
		if base, err = base.ParseFS(fsys, partialsGlob); err != nil {
			return nil, fmt.Errorf("%w: partials: %w", ErrRenderFailed, err)
		}
	}

	files, err := fs.Glob(fsys, pagesGlob)
	if err != nil {
		return nil, err
	}

	e := &Engine{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		src, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, err
		}
		page, err := template.Must(base.Clone()).Parse(string(src))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailed, file, err)
		}
		e.pages[strings.TrimSuffix(path.Base(file), ".html")] = page
	}
	return e, nil
}

// Pages returns the names of all parsed pages, sorted.
func (e *Engine) Pages() []string {
	return slices.Sorted(maps.Keys(e.pages))
}

// Has reports whether a page exists.
func (e *Engine) Has(name string) bool {
	_, ok := e.pages[name]
	return ok
}

// Component returns the page as a templ component.
// Callers render pages only through the templ.Component contract, so a page
// compiled with templ generate can later replace its template file without
// changing Render or its callers.
func (e *Engine) Component(name string, data map[string]any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		page, ok := e.pages[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrPageNotFound, name)
		}
		// Buffer so a failing template never leaves half a page in w.
		var buf bytes.Buffer
		if err := page.Execute(&buf, data); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrRenderFailed, name, err)
		}
		_, err := buf.WriteTo(w)
		return err
	})
}

// Render renders a page to a string.
func (e *Engine) Render(ctx context.Context, name string, data map[string]any) (string, error) {
	return RenderString(ctx, e.Component(name, data))
}

// RenderString renders any templ component to a string.
func RenderString(ctx context.Context, c templ.Component) (string, error) {
	var b strings.Builder
	if err := c.Render(ctx, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}
