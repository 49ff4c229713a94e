package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer turns markdown templates into HTML emails wrapped in a layout.
// All templates are parsed once at construction; Render is safe for concurrent use.
type Renderer struct {
	md        goldmark.Markdown
	templates map[string]*parsedTemplate
	layouts   map[string]*template.Template
}

type parsedTemplate struct {
	subject *texttemplate.Template
	body    *texttemplate.Template
	meta    map[string]any
}

// Rendered is the output of one render.
type Rendered struct {
	Subject string
	HTML    string
	Text    string // processed markdown before HTML conversion
}

// NewRenderer parses "*.md" templates at the root of fsys and
// "layouts/*.html" layouts.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		templates: map[string]*parsedTemplate{},
		layouts:   map[string]*template.Template{},
	}

	names, err := fs.Glob(fsys, "*.md")
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		pt, err := parse(name, content)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailed, name, err)
		}
		r.templates[name] = pt
	}

	layouts, err := fs.Glob(fsys, "layouts/*.html")
	if err != nil {
		return nil, err
	}
	for _, name := range layouts {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		base := path.Base(name)
		t, err := template.New(base).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("%w: layout %s: %w", ErrRenderFailed, base, err)
		}
		r.layouts[base] = t
	}

	return r, nil
}

func parse(name string, content []byte) (*parsedTemplate, error) {
	tpl, err := ParseTemplate(content)
	if err != nil {
		return nil, err
	}
	body, err := texttemplate.New(name).Parse(tpl.Body)
	if err != nil {
		return nil, err
	}
	subject, err := texttemplate.New(name + ":subject").Parse(tpl.Subject())
	if err != nil {
		return nil, err
	}
	return &parsedTemplate{subject: subject, body: body, meta: tpl.Metadata}, nil
}

// Render executes templateName with data and wraps the HTML in layout.
// An empty layout renders the bare markdown HTML.
func (r *Renderer) Render(layout, templateName string, data any) (*Rendered, error) {
	pt, ok := r.templates[templateName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateName)
	}

	var md bytes.Buffer
	if err := pt.body.Execute(&md, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailed, templateName, err)
	}
	var subject strings.Builder
	if err := pt.subject.Execute(&subject, data); err != nil {
		return nil, fmt.Errorf("%w: %s subject: %w", ErrRenderFailed, templateName, err)
	}

	var body bytes.Buffer
	if err := r.md.Convert(md.Bytes(), &body); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailed, templateName, err)
	}

	out := &Rendered{Subject: subject.String(), HTML: body.String(), Text: md.String()}
	if layout == "" {
		return out, nil
	}

	lt, ok := r.layouts[layout]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLayoutNotFound, layout)
	}
	var page bytes.Buffer
	if err := lt.Execute(&page, map[string]any{
		"Content":  template.HTML(out.HTML),
		"Subject":  out.Subject,
		"Metadata": pt.meta,
	}); err != nil {
		return nil, fmt.Errorf("%w: layout %s: %w", ErrRenderFailed, layout, err)
	}
	out.HTML = page.String()
	return out, nil
}
