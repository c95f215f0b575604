package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/tldr/internal/doctree"
	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"
)

// EPUBParser handles EPUB books. Spine documents are concatenated in reading order,
// each wrapped in a <section>.
type EPUBParser struct{}

func (p *EPUBParser) Parse(r io.Reader, filename string) (*doctree.Source, error) {
	// goreader opens books by path.
	tmp, err := os.CreateTemp("", "tldr-epub-*.epub")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	rc, err := epub.OpenReader(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return nil, errors.New("no rootfiles found in epub")
	}
	book := rc.Rootfiles[0]

	var b strings.Builder
	for _, ref := range book.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		item, err := ref.Item.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(item)
		item.Close()
		if err != nil {
			continue
		}
		body, err := chapterBody(data)
		if err != nil || body == "" {
			continue
		}
		b.WriteString("<section>\n")
		b.WriteString(body)
		b.WriteString("\n</section>\n")
	}

	title := stripMarkers(book.Metadata.Title)
	if title == "" {
		title = titleFromFilename(filename)
	}
	return &doctree.Source{Title: title, Markup: b.String()}, nil
}

// chapterBody returns the pruned inner markup of an XHTML chapter's <body>.
func chapterBody(data []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	body := findBody(doc)
	if body == nil {
		return "", nil
	}
	prune(body)

	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return strings.TrimSpace(buf.String()), nil
}
