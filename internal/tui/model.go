// Package tui is a terminal viewer for marked-up documents. Number keys toggle
// levels with the same disclosure rules as the web widget.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dgallion1/tldr/internal/config"
	"github.com/dgallion1/tldr/internal/disclosure"
	"github.com/dgallion1/tldr/internal/doctree"
	"github.com/dgallion1/tldr/internal/marker"
	"github.com/dgallion1/tldr/internal/widget"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	helpStyle     = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	disabledStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true).Padding(0, 1)
)

// Model is the bubbletea model of one open document.
type Model struct {
	title    string
	opts     config.Options
	runs     []marker.Run
	analysis widget.Analysis
	ctrl     *disclosure.Controller

	viewport viewport.Model
	ready    bool
	width    int
	height   int
}

// New builds a viewer for markup with the given widget options.
func New(title, markup string, opts config.Options) (*Model, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	ctrl, _ := disclosure.New(doctree.Level(opts.DefaultLevel))
	return &Model{
		title:    title,
		opts:     opts,
		runs:     marker.Runs(blockText(markup)),
		analysis: widget.Analyze(markup, opts),
		ctrl:     ctrl,
		viewport: viewport.New(80, 20),
		width:    80,
	}, nil
}

// State returns the current disclosure state.
func (m *Model) State() disclosure.State {
	return m.ctrl.State()
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "1", "2", "3":
			m.ctrl.Toggle(doctree.Level(msg.String()[0] - '0'))
			m.refresh()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-lipgloss.Height(m.header())-lipgloss.Height(m.footer()))
		m.ready = true
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	if !m.ready {
		m.refresh()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), m.viewport.View(), m.footer())
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.Body())
}

func (m *Model) header() string {
	controls := make([]string, 0, len(doctree.Levels))
	for _, level := range doctree.Levels {
		controls = append(controls, m.control(level))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.title),
		lipgloss.JoinHorizontal(lipgloss.Top, controls...),
	)
}

func (m *Model) control(level doctree.Level) string {
	caption := m.Caption(level)
	if caption == "" {
		caption = fmt.Sprintf("[%d]", level)
	}

	s := m.ctrl.State()
	if level != doctree.Level1 && !s.Enabled(level) {
		return disabledStyle.Render(caption)
	}
	text, bg := m.opts.ButtonColor(level)
	style := lipgloss.NewStyle().Padding(0, 1).MarginRight(1)
	if s.Active(level) {
		style = style.Foreground(lipgloss.Color(text)).Background(lipgloss.Color(bg)).Bold(true)
	} else {
		style = style.Faint(true)
	}
	return style.Render(caption)
}

func (m *Model) footer() string {
	return helpStyle.Render("2/3 toggle level • ↑/↓ scroll • q quit")
}

// Caption returns the control caption for level, matching the web controls.
func (m *Model) Caption(level doctree.Level) string {
	return widget.Caption(m.opts, m.analysis.Reading, level)
}

// Body renders the visible text, wrapped to the current width, with a blank line
// between paragraphs. Regions are coloured by their innermost level when
// highlighting is on.
func (m *Model) Body() string {
	var pieces []piece
	for _, r := range widget.VisibleRuns(m.runs, m.ctrl.State()) {
		pieces = append(pieces, piece{text: r.Text, level: r.Innermost()})
	}

	var b strings.Builder
	for i, para := range paragraphs(pieces) {
		if i > 0 {
			b.WriteString(paragraphBreak)
		}
		for _, p := range para {
			if p.level == 0 || !m.opts.TextHighlighting {
				b.WriteString(p.text)
				continue
			}
			text, bg := m.opts.RegionColor(p.level)
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(text)).
				Background(lipgloss.Color(bg)).
				Render(p.text))
		}
	}
	return lipgloss.NewStyle().Width(max(m.width-2, 10)).Padding(0, 1).Render(b.String())
}
