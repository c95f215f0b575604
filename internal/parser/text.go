package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/tldr/internal/doctree"
)

// TextParser handles plain text files. Paragraphs are separated by blank lines.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Source, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var text strings.Builder
	for scanner.Scan() {
		text.WriteString(scanner.Text())
		text.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &doctree.Source{
		Title:  titleFromFilename(filename),
		Markup: paragraphMarkup(paragraphs(text.String())),
	}, nil
}
