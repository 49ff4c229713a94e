// Package views renders HTML pages for the kernel.
//
// An [Engine] loads a layout, optional partials and one file per page from
// an [io/fs.FS]. Pages are addressed by file name without extension and
// rendered with a map of named values:
//
//	e, err := views.New(app.Views)
//	body, err := e.Render(ctx, "hello", map[string]any{"name": "John"})
//
// Engine satisfies the kernel's Renderer interface, so it also renders
// error pages. [Engine.Component] exposes a page as a
// [github.com/a-h/templ] component for callers that stream into a writer.
// Template files and generated templ pages share that contract, so pages can
// move to generated code one at a time.
//
// [Markdown] converts trusted or untrusted markdown to HTML with
// [github.com/yuin/goldmark] and sanitizes it with
// [github.com/microcosm-cc/bluemonday].
package views
