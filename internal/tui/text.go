package tui

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/tldr/internal/doctree"
	"github.com/dgallion1/tldr/internal/marker"
)

// blockTags end a paragraph in the terminal view.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "br": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true, "figure": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "hr": true,
	"li": true, "ol": true, "p": true, "pre": true, "section": true, "table": true,
	"tr": true, "ul": true,
}

// blockText extracts the text of markup with a blank line between blocks. Whitespace
// inside a block folds to single spaces and level markers stay in place.
func blockText(markup string) string {
	z := html.NewTokenizer(strings.NewReader(markup))
	var blocks []string
	var cur strings.Builder
	flush := func() {
		if text := strings.Join(strings.Fields(cur.String()), " "); text != "" {
			blocks = append(blocks, text)
		}
		cur.Reset()
	}

	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			flush()
			return strings.Join(blocks, paragraphBreak)
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			tok := z.Token()
			switch {
			case tok.Data == "script" || tok.Data == "style":
				if tok.Type == html.StartTagToken {
					skip++
				} else if tok.Type == html.EndTagToken && skip > 0 {
					skip--
				}
			case blockTags[tok.Data]:
				flush()
			default:
				// Inline tags glue words; table cells and the like get a space.
				if !marker.InlineTag(tok.Data) {
					cur.WriteByte(' ')
				}
			}
		case html.TextToken:
			if skip == 0 {
				cur.Write(z.Text())
			}
		}
	}
}

const paragraphBreak = "\n\n"

// piece is one stretch of visible text and the level that colours it.
type piece struct {
	text  string
	level doctree.Level
}

// paragraphs splits visible pieces at paragraph breaks. Breaks left dangling by
// hidden regions collapse into one, and none lead or trail the output.
func paragraphs(pieces []piece) [][]piece {
	var out [][]piece
	var para []piece
	pending := false
	for _, p := range pieces {
		for i, part := range strings.Split(p.text, paragraphBreak) {
			if i > 0 {
				pending = true
			}
			if pending || len(para) == 0 {
				part = strings.TrimLeft(part, " ")
			}
			if part == "" {
				continue
			}
			if pending && len(para) > 0 {
				out = append(out, para)
				para = nil
			}
			pending = false
			para = append(para, piece{text: part, level: p.level})
		}
	}
	if len(para) > 0 {
		out = append(out, para)
	}
	return out
}
