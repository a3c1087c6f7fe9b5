package site

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// MarkdownRenderer converts page markdown into HTML. The engine is stateless
// so one instance serves every page of a build.
type MarkdownRenderer struct {
	engine goldmark.Markdown
}

// NewMarkdownRenderer builds an engine with GFM tables (the generated
// documents use pipe tables), auto heading IDs, and raw HTML passthrough so
// the generated-from comments survive.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		engine: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Render converts markdown bytes into HTML.
func (r *MarkdownRenderer) Render(markdown []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("site: markdown convert: %w", err)
	}
	return buf.Bytes(), nil
}
