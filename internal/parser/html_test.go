package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_BodyMarkup(t *testing.T) {
	input := `<!DOCTYPE html>
<html><head><title>My [tl2]Page[/tl2]</title><style>p{}</style></head>
<body>
<nav><a href="/">home</a></nav>
<h1>Heading</h1>
<p>Summary. [tl2]More <b>detail</b>.[/tl2]</p>
<script>var x = "[tl3]";</script>
<!-- note -->
<footer>footer text</footer>
</body></html>`
	p := &HTMLParser{}
	src, err := p.Parse(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if src.Title != "My Page" {
		t.Errorf("expected title %q, got %q", "My Page", src.Title)
	}
	if !strings.Contains(src.Markup, "<p>Summary. [tl2]More <b>detail</b>.[/tl2]</p>") {
		t.Errorf("expected paragraph kept, got %q", src.Markup)
	}
	for _, gone := range []string{"home", "footer text", "var x", "note"} {
		if strings.Contains(src.Markup, gone) {
			t.Errorf("expected %q pruned, got %q", gone, src.Markup)
		}
	}
}

func TestHTMLParser_TitleFallsBackToFilename(t *testing.T) {
	p := &HTMLParser{}
	src, err := p.Parse(strings.NewReader("<p>text</p>"), "fragment.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Title != "fragment" {
		t.Errorf("expected title %q, got %q", "fragment", src.Title)
	}
	if src.Markup != "<p>text</p>" {
		t.Errorf("unexpected markup %q", src.Markup)
	}
}

func TestHTMLParser_DropsEventHandlers(t *testing.T) {
	p := &HTMLParser{}
	src, err := p.Parse(strings.NewReader(`<body><p onclick="steal()">Hi [tl2]there[/tl2]</p><iframe src="x"></iframe></body>`), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Markup != "<p>Hi [tl2]there[/tl2]</p>" {
		t.Errorf("unexpected markup %q", src.Markup)
	}
}
