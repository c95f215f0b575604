package marker

import (
	"sort"
	"strings"

	"github.com/dgallion1/tldr/internal/doctree"
	"golang.org/x/net/html"
)

// Directive controls how regions of one level are opened in the output markup.
type Directive struct {
	Styled     bool
	Text       string // CSS text colour, used when Styled
	Background string // CSS background colour, used when Styled
}

// Directives holds one Directive per level, indexed by level-1.
type Directives [3]Directive

// Result is the output of Parse.
type Result struct {
	Markup string
	Tree   *doctree.Tree
}

// Parse replaces every marker in src with a region boundary and collects the
// segment tree. Opening markers become <span class="tldrN"> (styled when the level's
// directive asks for it) and closing markers become </span>, independent of pairing.
func Parse(src string, d Directives) *Result {
	toks := Tokens(src)

	var b strings.Builder
	b.Grow(len(src) + len(toks)*16)
	for _, t := range toks {
		switch t.Kind {
		case TokenOpen:
			b.WriteString(regionStart(t.Level, d[t.Level-1]))
		case TokenClose:
			b.WriteString("</span>")
		default:
			b.WriteString(t.Text)
		}
	}

	return &Result{
		Markup: b.String(),
		Tree:   buildTree(src, toks),
	}
}

// Scan collects the segment tree of src without producing markup.
func Scan(src string) *doctree.Tree {
	return buildTree(src, Tokens(src))
}

func regionStart(level doctree.Level, d Directive) string {
	if !d.Styled {
		return `<span class="` + level.Class() + `">`
	}
	return `<span class="` + level.Class() + `" style="color:` + html.EscapeString(d.Text) +
		`;background-color:` + html.EscapeString(d.Background) + `;">`
}

func buildTree(src string, toks []Token) *doctree.Tree {
	tree := &doctree.Tree{Source: src}

	var all []*doctree.Segment
	for _, level := range doctree.Levels {
		for _, p := range pairs(toks, level) {
			start := p.open.Pos
			end := p.close.Pos + len(p.close.Text)
			inner := src[start+len(p.open.Text) : p.close.Pos]
			tree.Matches[level-1] = append(tree.Matches[level-1], inner)
			all = append(all, &doctree.Segment{
				Level: level,
				Start: start,
				End:   end,
				Inner: inner,
			})
		}
	}

	// Outer regions sort before the regions they contain.
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Start != all[j].Start {
			return all[i].Start < all[j].Start
		}
		return all[i].End > all[j].End
	})

	var stack []*doctree.Segment
	for _, s := range all {
		for len(stack) > 0 && !contains(stack[len(stack)-1], s) {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			tree.Roots = append(tree.Roots, s)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, s)
		}
		stack = append(stack, s)
	}

	return tree
}

func contains(outer, inner *doctree.Segment) bool {
	return inner.Start >= outer.Start && inner.End <= outer.End
}

// PlainText removes markup tags from src and normalises whitespace, leaving level
// markers in place. Text inside <script> and <style> elements is dropped, and tags
// other than inline formatting ones separate words.
func PlainText(src string) string {
	z := html.NewTokenizer(strings.NewReader(src))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF is the only error a strings.Reader can produce.
			return strings.Join(strings.Fields(b.String()), " ")
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			tt := z.Token()
			if tt.Data == "script" || tt.Data == "style" {
				if tt.Type == html.StartTagToken {
					skip++
				} else if tt.Type == html.EndTagToken && skip > 0 {
					skip--
				}
				continue
			}
			if !inlineTags[tt.Data] {
				b.WriteByte(' ')
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

// InlineTag reports whether the named tag is inline formatting, which does not
// separate words.
func InlineTag(name string) bool {
	return inlineTags[name]
}

// inlineTags do not separate words; every other tag counts as whitespace.
var inlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "code": true, "em": true, "i": true,
	"kbd": true, "mark": true, "q": true, "s": true, "small": true, "span": true,
	"strong": true, "sub": true, "sup": true, "u": true,
}
