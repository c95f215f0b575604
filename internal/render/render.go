// Package render defines the rendering target the widget drives, plus an in-memory
// HTML implementation of it.
package render

// Element is an opaque handle to a node of the rendering target.
type Element interface{}

// Renderer is the rendering target of a widget. The widget never touches markup
// nodes directly; it only goes through these calls.
type Renderer interface {
	// Markup returns the inner markup of the element with the given id.
	Markup(targetID string) (string, error)
	// SetMarkup replaces the inner markup of the element with the given id.
	SetMarkup(targetID, markup string) error
	// QueryAll returns the elements matching selector in document order.
	QueryAll(selector string) []Element
	SetVisible(el Element, visible bool)
	SetControlEnabled(ctrl Element, enabled bool)
	SetControlActive(ctrl Element, active bool)
	// OnClick registers handler for clicks on ctrl. Disabled controls do not
	// emit clicks.
	OnClick(ctrl Element, handler func())
}
