package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/tldr/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. The document is rendered to
// HTML; raw HTML blocks are passed through so authors can mix both, then pruned
// the same way the HTML loader prunes a page body.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Source, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithRendererOptions(html.WithUnsafe()))
	doc := md.Parser().Parse(text.NewReader(src))

	title := firstHeading(doc, src)
	if title == "" {
		title = titleFromFilename(filename)
	}

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, src, doc); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	markup, err := pruneFragment(buf.String())
	if err != nil {
		return nil, err
	}

	return &doctree.Source{Title: title, Markup: markup}, nil
}

// firstHeading returns the text of the first top-level heading with markers removed.
func firstHeading(doc ast.Node, src []byte) string {
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			return strings.TrimSpace(stripMarkers(string(h.Text(src))))
		}
	}
	return ""
}
