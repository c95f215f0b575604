package render

import (
	"strings"
	"testing"
)

func newDoc(t *testing.T, markup string) *Document {
	t.Helper()
	d, err := NewDocument("content", markup, "#f00")
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	return d
}

func TestDocument_MarkupRoundTrip(t *testing.T) {
	d := newDoc(t, `<p>hello <b>world</b></p>`)
	got, err := d.Markup("content")
	if err != nil {
		t.Fatalf("Markup: %v", err)
	}
	if got != `<p>hello <b>world</b></p>` {
		t.Errorf("unexpected markup %q", got)
	}

	if err := d.SetMarkup("content", `<span class="x">new</span>`); err != nil {
		t.Fatalf("SetMarkup: %v", err)
	}
	got, _ = d.Markup("content")
	if got != `<span class="x">new</span>` {
		t.Errorf("unexpected markup after set %q", got)
	}
}

func TestDocument_MissingTarget(t *testing.T) {
	d := newDoc(t, "x")
	if _, err := d.Markup("nope"); err == nil {
		t.Error("expected error for missing element")
	}
	if err := d.SetMarkup("nope", "y"); err == nil {
		t.Error("expected error for missing element")
	}
}

func TestDocument_QueryAll(t *testing.T) {
	d := newDoc(t, `<p class="bar"><button class="btn a">1</button><button class="btn b">2</button></p>`+
		`<div><span class="a">x</span><p><span class="a">y</span></p></div>`)

	tests := []struct {
		selector string
		want     int
	}{
		{"#content .a", 3},
		{"#content > p.bar > .btn", 2},
		{"#content > .a", 0},
		{"#content > div .a", 2},
		{"div > span.a", 1},
		{"button[class]", 2},
		{"span", 2},
		{"> p", 0},
		{"p[class=bar]", 1},
	}
	for _, tt := range tests {
		if got := len(d.QueryAll(tt.selector)); got != tt.want {
			t.Errorf("QueryAll(%q) returned %d elements, want %d", tt.selector, got, tt.want)
		}
	}
}

func TestDocument_VisibilityAndControls(t *testing.T) {
	d := newDoc(t, `<span class="tldr2" style="color:#000;">x</span><button class="btn active" style="border:2px solid #f00">b</button>`)

	span := d.QueryAll(".tldr2")[0]
	d.SetVisible(span, false)
	if Style(span, "display") != "none" {
		t.Errorf("expected display none, got %q", Style(span, "display"))
	}
	if Style(span, "color") != "#000" {
		t.Errorf("expected other declarations kept, got %q", Style(span, "color"))
	}
	d.SetVisible(span, true)
	if Style(span, "display") != "inline" {
		t.Errorf("expected display inline, got %q", Style(span, "display"))
	}

	btn := d.QueryAll("button")[0]
	d.SetControlActive(btn, false)
	if HasClass(btn, "active") {
		t.Error("expected active class removed")
	}
	if Style(btn, "border") != "1px solid transparent" {
		t.Errorf("unexpected inactive border %q", Style(btn, "border"))
	}
	d.SetControlActive(btn, true)
	if !HasClass(btn, "active") || Style(btn, "border") != "2px solid #f00" {
		t.Errorf("unexpected active control state: class active=%t border=%q", HasClass(btn, "active"), Style(btn, "border"))
	}

	d.SetControlEnabled(btn, false)
	if !Disabled(btn) {
		t.Error("expected disabled attribute")
	}
	d.SetControlEnabled(btn, true)
	if Disabled(btn) {
		t.Error("expected disabled attribute removed")
	}
}

func TestDocument_ClickSkipsDisabled(t *testing.T) {
	d := newDoc(t, `<button>b</button>`)
	btn := d.QueryAll("button")[0]

	clicks := 0
	d.OnClick(btn, func() { clicks++ })

	if !d.Click(btn) || clicks != 1 {
		t.Fatalf("expected one click, got %d", clicks)
	}
	d.SetControlEnabled(btn, false)
	if d.Click(btn) || clicks != 1 {
		t.Errorf("expected disabled control to ignore clicks, got %d", clicks)
	}
}

func TestDocument_SetMarkupDropsHandlers(t *testing.T) {
	d := newDoc(t, `<button>b</button>`)
	btn := d.QueryAll("button")[0]
	d.OnClick(btn, func() { t.Error("handler of removed control ran") })

	if err := d.SetMarkup("content", `<button>c</button>`); err != nil {
		t.Fatal(err)
	}
	d.Click(btn)
	if len(d.handlers) != 0 {
		t.Errorf("expected no handlers left, got %d", len(d.handlers))
	}
}

func TestDocument_Render(t *testing.T) {
	d := newDoc(t, `<p>x</p>`)
	out, err := d.Render()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `<div id="content"><p>x</p></div>`) {
		t.Errorf("unexpected rendering %q", out)
	}
}
