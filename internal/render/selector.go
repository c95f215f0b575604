package render

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// compound matches a single element: tag#id.class[attr=value], every part optional.
type compound struct {
	tag     string
	id      string
	classes []string
	attrs   [][2]string
}

type step struct {
	sel   compound
	child bool // combinator to the previous step is '>' rather than descendant
}

type selector []step

// parseSelector supports descendant and child combinators over compound selectors,
// which is all the widget needs.
func parseSelector(s string) (selector, error) {
	fields := strings.Fields(strings.ReplaceAll(s, ">", " > "))
	var out selector
	child := false
	for _, f := range fields {
		if f == ">" {
			if len(out) == 0 || child {
				return nil, fmt.Errorf("selector %q: misplaced '>'", s)
			}
			child = true
			continue
		}
		c, err := parseCompound(f)
		if err != nil {
			return nil, fmt.Errorf("selector %q: %w", s, err)
		}
		out = append(out, step{sel: c, child: child})
		child = false
	}
	if len(out) == 0 || child {
		return nil, fmt.Errorf("selector %q: empty", s)
	}
	return out, nil
}

func parseCompound(s string) (compound, error) {
	var c compound
	i := 0
	next := func() string {
		j := i
		for j < len(s) && !strings.ContainsRune("#.[", rune(s[j])) {
			j++
		}
		part := s[i:j]
		i = j
		return part
	}
	c.tag = strings.ToLower(next())
	for i < len(s) {
		switch s[i] {
		case '#':
			i++
			c.id = next()
		case '.':
			i++
			c.classes = append(c.classes, next())
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return c, fmt.Errorf("unterminated attribute in %q", s)
			}
			key, val, _ := strings.Cut(s[i+1:i+end], "=")
			c.attrs = append(c.attrs, [2]string{key, strings.Trim(val, `"'`)})
			i += end + 1
		}
	}
	return c, nil
}

func (c compound) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if c.tag != "" && c.tag != "*" && n.Data != c.tag {
		return false
	}
	if c.id != "" && attr(n, "id") != c.id {
		return false
	}
	for _, cl := range c.classes {
		if !hasClass(n, cl) {
			return false
		}
	}
	for _, a := range c.attrs {
		if !hasAttr(n, a[0]) {
			return false
		}
		if a[1] != "" && attr(n, a[0]) != a[1] {
			return false
		}
	}
	return true
}

func (sel selector) matches(n *html.Node) bool {
	last := sel[len(sel)-1]
	if !last.sel.matches(n) {
		return false
	}
	if len(sel) == 1 {
		return true
	}
	rest := sel[:len(sel)-1]
	if last.child {
		return n.Parent != nil && rest.matches(n.Parent)
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if rest.matches(p) {
			return true
		}
	}
	return false
}
