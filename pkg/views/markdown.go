package views

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md     = goldmark.New(goldmark.WithExtensions(extension.GFM))
	policy = bluemonday.UGCPolicy()
)

// Markdown converts markdown to sanitized HTML.
// Raw HTML in the source is dropped by goldmark; bluemonday strips
// anything unsafe that survives, such as javascript: links.
func Markdown(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("%w: markdown: %w", ErrRenderFailed, err)
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes())), nil
}
