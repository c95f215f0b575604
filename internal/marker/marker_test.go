package marker

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dgallion1/tldr/internal/doctree"
)

func TestTokens_MarkersAndText(t *testing.T) {
	toks := Tokens("a [tl2]b[/tl2] c")
	want := []struct {
		kind  TokenKind
		level doctree.Level
		text  string
		pos   int
	}{
		{TokenText, 0, "a ", 0},
		{TokenOpen, 2, "[tl2]", 2},
		{TokenText, 0, "b", 7},
		{TokenClose, 2, "[/tl2]", 8},
		{TokenText, 0, " c", 14},
	}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(toks), toks)
	}
	for i, w := range want {
		got := toks[i]
		if got.Kind != w.kind || got.Level != w.level || got.Text != w.text || got.Pos != w.pos {
			t.Errorf("token %d: expected %+v, got %+v", i, w, got)
		}
	}
}

func TestTokens_IgnoresMalformedMarkers(t *testing.T) {
	for _, src := range []string{"[tl4]x[/tl4]", "[tl]", "[tl1", "[/tl0]", "[TL1]", "[ tl1]"} {
		for _, tok := range Tokens(src) {
			if tok.Kind != TokenText {
				t.Errorf("%q: unexpected marker token %+v", src, tok)
			}
		}
	}
}

func TestTokens_Empty(t *testing.T) {
	if toks := Tokens(""); len(toks) != 0 {
		t.Errorf("expected no tokens, got %+v", toks)
	}
}

func TestScan_PairsFirstOpenerWithNearestCloser(t *testing.T) {
	// The second opener is content of the first region; the trailing closer is unpaired.
	tree := Scan("[tl2]a [tl2]b[/tl2] c[/tl2]")
	got := tree.MatchesFor(doctree.Level2)
	if len(got) != 1 || got[0] != "a [tl2]b" {
		t.Errorf("expected one match %q, got %q", "a [tl2]b", got)
	}
}

func TestScan_ResumesAfterCloser(t *testing.T) {
	tree := Scan("[tl3]one[/tl3] mid [tl3]two[/tl3]")
	got := tree.MatchesFor(doctree.Level3)
	if len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Errorf("expected [one two], got %q", got)
	}
}

func TestScan_UnmatchedOpenerIgnored(t *testing.T) {
	tree := Scan("[tl2]never closed")
	if len(tree.MatchesFor(doctree.Level2)) != 0 {
		t.Errorf("expected no level-2 matches, got %q", tree.MatchesFor(doctree.Level2))
	}
	if len(tree.Roots) != 0 {
		t.Errorf("expected no segments, got %d", len(tree.Roots))
	}
}

func TestScan_Nesting(t *testing.T) {
	src := "[tl1]intro [tl2]detail [tl3]deep[/tl3] more[/tl2] end[/tl1] [tl2]solo[/tl2]"
	tree := Scan(src)

	if len(tree.Roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(tree.Roots))
	}
	l1 := tree.Roots[0]
	if l1.Level != doctree.Level1 {
		t.Fatalf("expected first root at level 1, got %d", l1.Level)
	}
	if len(l1.Children) != 1 || l1.Children[0].Level != doctree.Level2 {
		t.Fatalf("expected one level-2 child, got %+v", l1.Children)
	}
	l2 := l1.Children[0]
	if len(l2.Children) != 1 || l2.Children[0].Inner != "deep" {
		t.Fatalf("expected level-3 child %q, got %+v", "deep", l2.Children)
	}
	if src[l2.Start:l2.End] != "[tl2]detail [tl3]deep[/tl3] more[/tl2]" {
		t.Errorf("unexpected level-2 span %q", src[l2.Start:l2.End])
	}
	if tree.Roots[1].Inner != "solo" {
		t.Errorf("expected second root %q, got %q", "solo", tree.Roots[1].Inner)
	}

	if n := len(tree.Segments(doctree.Level2)); n != 2 {
		t.Errorf("expected 2 level-2 segments, got %d", n)
	}
}

func TestParse_UnstyledMarkup(t *testing.T) {
	res := Parse("a [tl2]b[/tl2] c", Directives{})
	want := `a <span class="tldr2">b</span> c`
	if res.Markup != want {
		t.Errorf("expected %q, got %q", want, res.Markup)
	}
}

func TestParse_StyledMarkup(t *testing.T) {
	d := Directives{}
	d[2] = Directive{Styled: true, Text: "#000", Background: "#d5ecc2"}
	res := Parse("[tl3]x[/tl3]", d)
	want := `<span class="tldr3" style="color:#000;background-color:#d5ecc2;">x</span>`
	if res.Markup != want {
		t.Errorf("expected %q, got %q", want, res.Markup)
	}
}

func TestParse_ReplacesUnpairedMarkersToo(t *testing.T) {
	res := Parse("[tl2]open only [/tl3]", Directives{})
	if strings.Contains(res.Markup, "[tl") || strings.Contains(res.Markup, "[/tl") {
		t.Errorf("expected every marker replaced, got %q", res.Markup)
	}
	if strings.Count(res.Markup, "<span") != 1 || strings.Count(res.Markup, "</span>") != 1 {
		t.Errorf("expected one opening and one closing span, got %q", res.Markup)
	}
}

func TestParse_WithoutMarkers(t *testing.T) {
	src := "<p>plain text</p>"
	res := Parse(src, Directives{})
	if res.Markup != src {
		t.Errorf("expected markup unchanged, got %q", res.Markup)
	}
	if len(res.Tree.Roots) != 0 {
		t.Errorf("expected empty tree, got %d roots", len(res.Tree.Roots))
	}
}

func TestStripPairs(t *testing.T) {
	got := StripPairs("keep [tl3]drop[/tl3] keep [tl3]unpaired", doctree.Level3)
	want := "keep  keep [tl3]unpaired"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestStripTokens(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a [tl1]b[/tl1]", "a b"},
		{"[tlx]loose[/tl9]", "loose"},
		{"[tlé]accent", "accent"},
		{"[tl]x", "[tl]x"},
		{"[tl12]", "[tl12]"},
		{"no markers", "no markers"},
	}
	for _, tt := range tests {
		if got := StripTokens(tt.in); got != tt.want {
			t.Errorf("StripTokens(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlainText(t *testing.T) {
	src := `<h1>Title</h1><p>one <b>bo</b>ld [tl2]two[/tl2]</p><script>var x = 1;</script><p>three</p>`
	got := PlainText(src)
	want := "Title one bold [tl2]two[/tl2] three"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRuns(t *testing.T) {
	runs := Runs("a [tl2]b [tl3]c[/tl3] d[/tl2] [tl3]e")
	want := []struct {
		text      string
		innermost doctree.Level
	}{
		{"a ", 0},
		{"b ", doctree.Level2},
		{"c", doctree.Level3},
		{" d", doctree.Level2},
		{" ", 0},
		{"e", 0},
	}
	if len(runs) != len(want) {
		t.Fatalf("expected %d runs, got %+v", len(want), runs)
	}
	for i, w := range want {
		if runs[i].Text != w.text || runs[i].Innermost() != w.innermost {
			t.Errorf("run %d: expected %q at level %d, got %q at level %d",
				i, w.text, w.innermost, runs[i].Text, runs[i].Innermost())
		}
	}
	if !runs[2].Levels[1] {
		t.Error("expected the level-3 run to sit inside level 2 as well")
	}
}

func TestParse_Idempotent(t *testing.T) {
	src := "<p>a [tl2]b [tl3]c[/tl3] d[/tl2]</p> [tl3]e[/tl3] [tl2]f"
	d := Directives{}
	d[1] = Directive{Styled: true, Text: "#000", Background: "#eee"}

	first, second := Parse(src, d), Parse(src, d)
	if first.Markup != second.Markup {
		t.Errorf("markup differs between runs: %q vs %q", first.Markup, second.Markup)
	}
	if !reflect.DeepEqual(first.Tree.Roots, second.Tree.Roots) {
		t.Error("roots differ between runs")
	}
	if !reflect.DeepEqual(first.Tree.Matches, second.Tree.Matches) {
		t.Errorf("matches differ between runs: %v vs %v", first.Tree.Matches, second.Tree.Matches)
	}
	if !reflect.DeepEqual(Scan(src), first.Tree) {
		t.Error("Scan and Parse disagree on the tree")
	}
}
