package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Document is an in-memory HTML rendering target. Elements are *html.Node values.
type Document struct {
	root         *html.Node
	activeBorder string
	handlers     map[*html.Node][]func()
}

// ParseDocument parses a full HTML document. activeBorder is the border colour used
// for active controls.
func ParseDocument(r io.Reader, activeBorder string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{
		root:         root,
		activeBorder: activeBorder,
		handlers:     make(map[*html.Node][]func()),
	}, nil
}

// NewDocument wraps markup in a <div> with the given id inside an otherwise empty
// document.
func NewDocument(targetID, markup, activeBorder string) (*Document, error) {
	src := `<!DOCTYPE html><html><head></head><body><div id="` + html.EscapeString(targetID) + `">` +
		markup + `</div></body></html>`
	return ParseDocument(strings.NewReader(src), activeBorder)
}

func (d *Document) Markup(targetID string) (string, error) {
	n := d.byID(targetID)
	if n == nil {
		return "", fmt.Errorf("element #%s not found", targetID)
	}
	return innerHTML(n)
}

func (d *Document) SetMarkup(targetID, markup string) error {
	n := d.byID(targetID)
	if n == nil {
		return fmt.Errorf("element #%s not found", targetID)
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     n.Data,
		DataAtom: n.DataAtom,
	})
	if err != nil {
		return fmt.Errorf("parse fragment: %w", err)
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		d.forget(c)
		n.RemoveChild(c)
		c = next
	}
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return nil
}

func (d *Document) QueryAll(selector string) []Element {
	chain, err := parseSelector(selector)
	if err != nil {
		return nil
	}
	var out []Element
	walk(d.root, func(n *html.Node) {
		if n.Type == html.ElementNode && chain.matches(n) {
			out = append(out, n)
		}
	})
	return out
}

func (d *Document) SetVisible(el Element, visible bool) {
	n, ok := el.(*html.Node)
	if !ok {
		return
	}
	if visible {
		setStyle(n, "display", "inline")
	} else {
		setStyle(n, "display", "none")
	}
}

func (d *Document) SetControlEnabled(ctrl Element, enabled bool) {
	n, ok := ctrl.(*html.Node)
	if !ok {
		return
	}
	if enabled {
		removeAttr(n, "disabled")
	} else {
		setAttr(n, "disabled", "")
	}
}

func (d *Document) SetControlActive(ctrl Element, active bool) {
	n, ok := ctrl.(*html.Node)
	if !ok {
		return
	}
	if active {
		addClass(n, "active")
		setStyle(n, "border", "2px solid "+d.activeBorder)
	} else {
		removeClass(n, "active")
		setStyle(n, "border", "1px solid transparent")
	}
}

func (d *Document) OnClick(ctrl Element, handler func()) {
	n, ok := ctrl.(*html.Node)
	if !ok || handler == nil {
		return
	}
	d.handlers[n] = append(d.handlers[n], handler)
}

// Click dispatches a click on ctrl. It reports false, running nothing, when the
// control is disabled or is not an element of this document.
func (d *Document) Click(ctrl Element) bool {
	n, ok := ctrl.(*html.Node)
	if !ok || hasAttr(n, "disabled") {
		return false
	}
	for _, h := range d.handlers[n] {
		h()
	}
	return true
}

// Render serialises the whole document.
func (d *Document) Render() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (d *Document) byID(id string) *html.Node {
	var found *html.Node
	walk(d.root, func(n *html.Node) {
		if found == nil && n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
		}
	})
	return found
}

// forget drops click handlers of a subtree that is being removed.
func (d *Document) forget(n *html.Node) {
	walk(n, func(c *html.Node) { delete(d.handlers, c) })
}

func innerHTML(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func addClass(n *html.Node, class string) {
	if hasClass(n, class) {
		return
	}
	classes := strings.Fields(attr(n, "class"))
	setAttr(n, "class", strings.Join(append(classes, class), " "))
}

func removeClass(n *html.Node, class string) {
	var keep []string
	for _, c := range strings.Fields(attr(n, "class")) {
		if c != class {
			keep = append(keep, c)
		}
	}
	setAttr(n, "class", strings.Join(keep, " "))
}

// setStyle replaces one declaration of the inline style attribute.
func setStyle(n *html.Node, prop, value string) {
	var decls []string
	for _, decl := range strings.Split(attr(n, "style"), ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		name, _, _ := strings.Cut(decl, ":")
		if strings.EqualFold(strings.TrimSpace(name), prop) {
			continue
		}
		decls = append(decls, decl)
	}
	decls = append(decls, prop+":"+value)
	setAttr(n, "style", strings.Join(decls, ";")+";")
}

// Style returns the value of one inline style declaration of el, or "".
func Style(el Element, prop string) string {
	n, ok := el.(*html.Node)
	if !ok {
		return ""
	}
	for _, decl := range strings.Split(attr(n, "style"), ";") {
		name, val, ok := strings.Cut(decl, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), prop) {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// Disabled reports whether el carries the disabled attribute.
func Disabled(el Element) bool {
	n, ok := el.(*html.Node)
	return ok && hasAttr(n, "disabled")
}

// HasClass reports whether el carries class.
func HasClass(el Element, class string) bool {
	n, ok := el.(*html.Node)
	return ok && hasClass(n, class)
}
