// Package marker scans [tlN]...[/tlN] level markers out of marked-up text.
package marker

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/tldr/internal/doctree"
)

// TokenKind distinguishes text runs from level markers.
type TokenKind int

const (
	TokenText TokenKind = iota
	TokenOpen
	TokenClose
)

// Token is one lexical unit of marked-up source.
type Token struct {
	Kind  TokenKind
	Level doctree.Level // Zero for text tokens
	Text  string        // Literal source text of the token
	Pos   int           // Byte offset in the source
}

// Tokens splits src into text runs and level markers. Bracketed text that is not a
// well-formed [tlN] or [/tlN] marker with N in 1..3 stays part of the surrounding text.
func Tokens(src string) []Token {
	var toks []Token
	textStart := 0
	i := 0
	for i < len(src) {
		j := strings.IndexByte(src[i:], '[')
		if j < 0 {
			break
		}
		i += j
		kind, level, n := markerAt(src, i)
		if n == 0 {
			i++
			continue
		}
		if i > textStart {
			toks = append(toks, Token{Kind: TokenText, Text: src[textStart:i], Pos: textStart})
		}
		toks = append(toks, Token{Kind: kind, Level: level, Text: src[i : i+n], Pos: i})
		i += n
		textStart = i
	}
	if textStart < len(src) {
		toks = append(toks, Token{Kind: TokenText, Text: src[textStart:], Pos: textStart})
	}
	return toks
}

// markerAt reports the marker starting at src[i], returning its length or 0.
func markerAt(src string, i int) (TokenKind, doctree.Level, int) {
	rest := src[i:]
	switch {
	case len(rest) >= 5 && strings.HasPrefix(rest, "[tl"):
		if l := levelDigit(rest[3]); l != 0 && rest[4] == ']' {
			return TokenOpen, l, 5
		}
	case len(rest) >= 6 && strings.HasPrefix(rest, "[/tl"):
		if l := levelDigit(rest[4]); l != 0 && rest[5] == ']' {
			return TokenClose, l, 6
		}
	}
	return TokenText, 0, 0
}

func levelDigit(b byte) doctree.Level {
	if b >= '1' && b <= '3' {
		return doctree.Level(b - '0')
	}
	return 0
}

// span is a paired region of one level, in source byte offsets.
type span struct {
	open, close Token
}

// pairs applies the pairing rule for one level: the first unconsumed opening marker
// pairs with the nearest following closing marker of the same level, and scanning
// resumes after that closer. Openers seen while a region is open are content.
func pairs(toks []Token, level doctree.Level) []span {
	var out []span
	var open *Token
	for i := range toks {
		t := toks[i]
		if t.Level != level {
			continue
		}
		switch {
		case t.Kind == TokenOpen && open == nil:
			open = &toks[i]
		case t.Kind == TokenClose && open != nil:
			out = append(out, span{open: *open, close: t})
			open = nil
		}
	}
	return out
}

// StripPairs removes every paired region of the given level, markers included.
func StripPairs(s string, level doctree.Level) string {
	ps := pairs(Tokens(s), level)
	if len(ps) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, p := range ps {
		b.WriteString(s[last:p.open.Pos])
		last = p.close.Pos + len(p.close.Text)
	}
	b.WriteString(s[last:])
	return b.String()
}

// StripTokens removes residual marker tokens of the form [tlX] and [/tlX], where X is
// any single character.
func StripTokens(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '[' {
			if n := looseMarkerLen(s[i:]); n > 0 {
				i += n
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

func looseMarkerLen(rest string) int {
	prefix := "[tl"
	if strings.HasPrefix(rest, "[/tl") {
		prefix = "[/tl"
	} else if !strings.HasPrefix(rest, prefix) {
		return 0
	}
	body := rest[len(prefix):]
	r, size := utf8.DecodeRuneInString(body)
	if size == 0 || r == '\n' {
		return 0
	}
	if size < len(body) && body[size] == ']' {
		return len(prefix) + size + 1
	}
	return 0
}

// Run is a stretch of text together with the paired regions enclosing it.
type Run struct {
	Text   string
	Levels [3]bool // Levels[N-1] is set inside a level-N region
}

// Innermost returns the deepest level enclosing the run, or 0 outside every region.
func (r Run) Innermost() doctree.Level {
	for i := len(r.Levels) - 1; i >= 0; i-- {
		if r.Levels[i] {
			return doctree.Level(i + 1)
		}
	}
	return 0
}

// Runs splits src into text runs with markers removed. Markers that are not part of a
// pair are dropped like the rest.
func Runs(src string) []Run {
	toks := Tokens(src)
	var regions [3][]span
	for _, level := range doctree.Levels {
		regions[level-1] = pairs(toks, level)
	}

	var out []Run
	for _, t := range toks {
		if t.Kind != TokenText {
			continue
		}
		r := Run{Text: StripTokens(t.Text)}
		if r.Text == "" {
			continue
		}
		for i, ps := range regions {
			for _, p := range ps {
				if t.Pos > p.open.Pos && t.Pos < p.close.Pos {
					r.Levels[i] = true
					break
				}
			}
		}
		out = append(out, r)
	}
	return out
}
