package wordcount

import (
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/dgallion1/tldr/internal/doctree"
	"github.com/dgallion1/tldr/internal/marker"
)

func words(n int, w string) string {
	return strings.TrimSpace(strings.Repeat(w+" ", n))
}

func TestCount_NestedLevels(t *testing.T) {
	// 1000 words in total: 600 at level 1, 300 only at level 2, 100 at level 3.
	src := "[tl1]" + words(600, "a") +
		" [tl2]" + words(300, "b") + " [tl3]" + words(100, "c") + "[/tl3][/tl2]" +
		"[/tl1]"
	c := Count(marker.Scan(src), Options{})

	if c.Raw != [3]int{1000, 300, 100} {
		t.Errorf("expected raw [1000 300 100], got %v", c.Raw)
	}
	if c.Net != [3]int{600, 300, 100} {
		t.Errorf("expected net [600 300 100], got %v", c.Net)
	}
	if c.Total != 1000 {
		t.Errorf("expected total 1000, got %d", c.Total)
	}
	if got := c.Cumulative(doctree.Level2); got != 900 {
		t.Errorf("expected cumulative level 2 of 900, got %d", got)
	}
}

func TestCount_Conservation(t *testing.T) {
	inputs := []string{
		"plain words only here",
		"x [tl2]y z[/tl2] w",
		"[tl3]alone[/tl3] and [tl2]two [tl3]three four[/tl3][/tl2]",
		"[tl2]unclosed opener and [tl3]x[/tl3]",
		"",
	}
	for _, src := range inputs {
		c := Count(marker.Scan(src), Options{})
		if c.Total != c.Raw[0] {
			t.Errorf("%q: total %d differs from whole-document count %d", src, c.Total, c.Raw[0])
		}
		if sum := c.Net[0] + c.Net[1] + c.Net[2]; sum != c.Total {
			t.Errorf("%q: net sum %d differs from total %d", src, sum, c.Total)
		}
		if c.Cumulative(doctree.Level3) != c.Total {
			t.Errorf("%q: cumulative level 3 %d differs from total %d", src, c.Cumulative(doctree.Level3), c.Total)
		}
	}
}

func TestCount_NoMarkers(t *testing.T) {
	c := Count(marker.Scan("one two three"), Options{})
	if c.Net != [3]int{3, 0, 0} {
		t.Errorf("expected net [3 0 0], got %v", c.Net)
	}
}

func TestCount_EmptyRegion(t *testing.T) {
	src := "a b [tl3][/tl3]"

	c := Count(marker.Scan(src), Options{})
	if c.Raw[2] != 0 {
		t.Errorf("expected empty region to count 0, got %d", c.Raw[2])
	}

	legacy := Count(marker.Scan(src), Options{LegacyEmptyCount: true})
	if legacy.Raw[2] != 1 {
		t.Errorf("expected legacy empty region to count 1, got %d", legacy.Raw[2])
	}
}

func TestWords_StripsResidualMarkers(t *testing.T) {
	if got := Words("[tl2]a[/tl2] [tlx] b", Options{}); got != 2 {
		t.Errorf("expected 2 words, got %d", got)
	}
	if got := Words("  \n\t ", Options{}); got != 0 {
		t.Errorf("expected 0 words, got %d", got)
	}
}

func TestNetFor_InvalidLevel(t *testing.T) {
	c := Counts{Net: [3]int{1, 2, 3}}
	if c.NetFor(0) != 0 || c.NetFor(4) != 0 {
		t.Error("expected 0 for invalid levels")
	}
	if c.NetFor(doctree.Level2) != 2 {
		t.Errorf("expected 2, got %d", c.NetFor(doctree.Level2))
	}
}

func TestCount_Idempotent(t *testing.T) {
	src := marker.PlainText("<p>one two [tl2]three [tl3]four five[/tl3] six[/tl2]</p><p>[tl3]seven[/tl3]</p>")
	opts := Options{LegacyEmptyCount: true}

	first := Count(marker.Scan(src), opts)
	second := Count(marker.Scan(src), opts)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("counts differ between runs: %+v vs %+v", first, second)
	}
	if first.Net != [3]int{2, 2, 3} {
		t.Errorf("unexpected net counts %v", first.Net)
	}
}

var multiSpace = regexp.MustCompile(`\s\s+`)

// splitLikeLegacy trims, collapses runs of two or more whitespace characters and
// splits on single spaces. A lone tab or newline does not separate words here.
func splitLikeLegacy(s string) int {
	return len(strings.Split(multiSpace.ReplaceAllString(strings.TrimSpace(s), " "), " "))
}

func TestWords_AgreesWithLegacySplitOnExtractedText(t *testing.T) {
	for _, markup := range []string{
		"<p>alpha\tbeta</p>",
		"<ul><li>one</li><li>two\n three</li></ul>",
		"  lead   trail  ",
		"<p>x [tl2]y  z[/tl2]</p>",
	} {
		text := marker.StripTokens(marker.PlainText(markup))
		if got, want := Words(text, Options{}), splitLikeLegacy(text); got != want {
			t.Errorf("%q: Words=%d, legacy split=%d", markup, got, want)
		}
	}
}

func TestWords_AnyWhitespaceSeparates(t *testing.T) {
	if n := Words("alpha\tbeta\ngamma", Options{}); n != 3 {
		t.Errorf("expected 3 words, got %d", n)
	}
}
