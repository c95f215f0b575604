// Package disclosure tracks which levels are hidden and which level controls are
// usable. Hiding level 2 cascades to level 3: its regions are hidden and its control
// disabled until level 2 is shown again. Level 1 is always visible.
//
// Transitions are pure functions on State that return the commands a renderer must
// apply, so the rules can be exercised without any rendering target.
package disclosure

import (
	"fmt"

	"github.com/dgallion1/tldr/internal/doctree"
)

// CommandKind names a renderer side effect.
type CommandKind string

const (
	SetVisible        CommandKind = "set_visible"
	SetControlEnabled CommandKind = "set_control_enabled"
	SetControlActive  CommandKind = "set_control_active"
)

// Command is one instruction for the renderer, e.g. hide every level-3 region.
type Command struct {
	Kind  CommandKind   `json:"kind"`
	Level doctree.Level `json:"level"`
	Value bool          `json:"value"`
}

func (c Command) String() string {
	return fmt.Sprintf("%s(%d, %t)", c.Kind, c.Level, c.Value)
}

// State is the disclosure state of one widget. The zero value shows everything.
type State struct {
	hidden2        bool
	hidden3        bool
	level3Disabled bool
}

// Initial returns the state for a configured default level along with the commands
// that bring a freshly rendered widget (everything shown, every control active)
// into it. Unknown levels behave like level 3.
func Initial(defaultLevel doctree.Level) (State, []Command) {
	var s State
	var cmds []Command
	switch defaultLevel {
	case doctree.Level1:
		s.hidden2, s.hidden3, s.level3Disabled = true, true, true
		cmds = []Command{
			{SetControlActive, doctree.Level2, false},
			{SetControlActive, doctree.Level3, false},
			{SetVisible, doctree.Level2, false},
			{SetVisible, doctree.Level3, false},
			{SetControlEnabled, doctree.Level3, false},
		}
	case doctree.Level2:
		s.hidden3 = true
		cmds = []Command{
			{SetControlActive, doctree.Level3, false},
			{SetVisible, doctree.Level3, false},
		}
	}
	return s, cmds
}

// Hidden reports whether level is in the hidden set. Level 3 may be shown in the set
// yet invisible because level 2 is hidden; see Visible.
func (s State) Hidden(level doctree.Level) bool {
	switch level {
	case doctree.Level2:
		return s.hidden2
	case doctree.Level3:
		return s.hidden3
	}
	return false
}

// Visible reports whether regions of level are currently displayed.
func (s State) Visible(level doctree.Level) bool {
	switch level {
	case doctree.Level1:
		return true
	case doctree.Level2:
		return !s.hidden2
	case doctree.Level3:
		return !s.hidden3 && !s.hidden2
	}
	return false
}

// Enabled reports whether the control for level accepts toggles.
func (s State) Enabled(level doctree.Level) bool {
	switch level {
	case doctree.Level2:
		return true
	case doctree.Level3:
		return !s.level3Disabled
	}
	return false
}

// Active reports whether the control for level is styled as active.
func (s State) Active(level doctree.Level) bool {
	switch level {
	case doctree.Level1:
		return true
	case doctree.Level2:
		return !s.hidden2
	case doctree.Level3:
		return !s.hidden3 && !s.level3Disabled
	}
	return false
}

// Toggle flips level and returns the new state with the commands describing the
// change. Toggling level 1, an unknown level or a disabled control changes nothing.
func (s State) Toggle(level doctree.Level) (State, []Command) {
	if !s.Enabled(level) {
		return s, nil
	}

	if !s.Hidden(level) {
		s.setHidden(level, true)
		cmds := []Command{
			{SetControlActive, level, false},
			{SetVisible, level, false},
		}
		if level == doctree.Level2 {
			// Level 3 keeps its own hidden flag so it can be restored later.
			s.level3Disabled = true
			cmds = append(cmds,
				Command{SetControlEnabled, doctree.Level3, false},
				Command{SetControlActive, doctree.Level3, false},
				Command{SetVisible, doctree.Level3, false},
			)
		}
		return s, cmds
	}

	s.setHidden(level, false)
	cmds := []Command{
		{SetVisible, level, true},
		{SetControlActive, level, true},
	}
	if level == doctree.Level2 {
		s.level3Disabled = false
		cmds = append(cmds, Command{SetControlEnabled, doctree.Level3, true})
		if !s.hidden3 {
			cmds = append(cmds,
				Command{SetControlActive, doctree.Level3, true},
				Command{SetVisible, doctree.Level3, true},
			)
		}
	}
	return s, cmds
}

func (s *State) setHidden(level doctree.Level, hidden bool) {
	switch level {
	case doctree.Level2:
		s.hidden2 = hidden
	case doctree.Level3:
		s.hidden3 = hidden
	}
}

// Controller owns the disclosure state of a single widget instance. It is not safe
// for concurrent use; toggles are expected one at a time, in event order.
type Controller struct {
	state State
}

// New creates a controller for the default level and returns the commands that
// establish its initial state.
func New(defaultLevel doctree.Level) (*Controller, []Command) {
	s, cmds := Initial(defaultLevel)
	return &Controller{state: s}, cmds
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state
}

// Toggle applies a toggle event for level and returns the resulting commands.
func (c *Controller) Toggle(level doctree.Level) []Command {
	var cmds []Command
	c.state, cmds = c.state.Toggle(level)
	return cmds
}
