// Package widget ties marker parsing, word counting and disclosure state to a
// rendering target: it rewrites the target's markup into level regions, prepends the
// level controls and keeps region visibility in step with control clicks.
package widget

import (
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/dgallion1/tldr/internal/config"
	"github.com/dgallion1/tldr/internal/disclosure"
	"github.com/dgallion1/tldr/internal/doctree"
	"github.com/dgallion1/tldr/internal/marker"
	"github.com/dgallion1/tldr/internal/readtime"
	"github.com/dgallion1/tldr/internal/render"
	"github.com/dgallion1/tldr/internal/wordcount"
)

// ButtonsClass is the class of the paragraph holding the level controls.
const ButtonsClass = "tooloodr-buttons"

// Analysis is everything computed from the source markup during initialization.
type Analysis struct {
	Markup  string // Source markup with markers replaced by level regions
	Tree    *doctree.Tree
	Counts  wordcount.Counts
	Reading [3]string // Cumulative reading time per level
}

// Analyze parses markup and computes word counts and reading times. Counting runs
// over the text content, so tags never count as words.
func Analyze(markup string, opts config.Options) Analysis {
	res := marker.Parse(markup, opts.Directives())
	counts := wordcount.Count(marker.Scan(marker.PlainText(markup)), opts.CountOptions())
	return Analysis{
		Markup:  res.Markup,
		Tree:    res.Tree,
		Counts:  counts,
		Reading: opts.Formatter().Levels(counts),
	}
}

// Widget is one initialized annotation widget bound to a rendering target.
type Widget struct {
	r        render.Renderer
	target   string
	opts     config.Options
	ctrl     *disclosure.Controller
	analysis Analysis
	log      *slog.Logger
}

// New initializes a widget on the element targetID of r: the element's markup is
// parsed, replaced by level regions preceded by the controls, and the default level
// is applied.
func New(r render.Renderer, targetID string, opts config.Options, log *slog.Logger) (*Widget, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}

	src, err := r.Markup(targetID)
	if err != nil {
		return nil, fmt.Errorf("read target markup: %w", err)
	}

	a := Analyze(src, opts)
	if err := r.SetMarkup(targetID, Buttons(opts, a.Reading)+a.Markup); err != nil {
		return nil, fmt.Errorf("write target markup: %w", err)
	}

	ctrl, cmds := disclosure.New(doctree.Level(opts.DefaultLevel))
	w := &Widget{
		r:        r,
		target:   targetID,
		opts:     opts,
		ctrl:     ctrl,
		analysis: a,
		log:      log.With("target", targetID),
	}
	w.Apply(cmds)

	for _, level := range doctree.Levels {
		for _, btn := range r.QueryAll(w.controlSelector(level)) {
			r.OnClick(btn, func() { w.Toggle(level) })
		}
	}

	w.log.Debug("widget initialized",
		"default_level", opts.DefaultLevel,
		"words_total", a.Counts.Total,
		"segments_l2", len(a.Tree.MatchesFor(doctree.Level2)),
		"segments_l3", len(a.Tree.MatchesFor(doctree.Level3)),
	)
	return w, nil
}

// Analysis returns the parse and count results of the initialization pass.
func (w *Widget) Analysis() Analysis {
	return w.analysis
}

// State returns the current disclosure state.
func (w *Widget) State() disclosure.State {
	return w.ctrl.State()
}

// Toggle handles a click on the control of level and returns the applied commands.
func (w *Widget) Toggle(level doctree.Level) []disclosure.Command {
	cmds := w.ctrl.Toggle(level)
	w.Apply(cmds)
	w.log.Debug("toggle", "level", int(level), "commands", len(cmds))
	return cmds
}

// Apply forwards disclosure commands to the renderer.
func (w *Widget) Apply(cmds []disclosure.Command) {
	for _, c := range cmds {
		switch c.Kind {
		case disclosure.SetVisible:
			for _, el := range w.r.QueryAll("#" + w.target + " ." + c.Level.Class()) {
				w.r.SetVisible(el, c.Value)
			}
		case disclosure.SetControlEnabled:
			for _, btn := range w.r.QueryAll(w.controlSelector(c.Level)) {
				w.r.SetControlEnabled(btn, c.Value)
			}
		case disclosure.SetControlActive:
			for _, btn := range w.r.QueryAll(w.controlSelector(c.Level)) {
				w.r.SetControlActive(btn, c.Value)
			}
		}
	}
}

func (w *Widget) controlSelector(level doctree.Level) string {
	return "#" + w.target + " > p." + ButtonsClass + " > .btn-" + level.Class()
}

// Caption returns the text shown on the control for level.
func Caption(opts config.Options, reading [3]string, level doctree.Level) string {
	if !level.Valid() {
		return ""
	}
	return readtime.Caption(opts.Label(level), reading[level-1],
		opts.ReadingTime.LabelSeparator, opts.ButtonLabels.Show, opts.ReadingTime.Show)
}

// Buttons renders the control bar. Every control starts active; the level-1 control
// is always disabled since level 1 cannot be hidden.
func Buttons(opts config.Options, reading [3]string) string {
	var b strings.Builder
	b.WriteString(`<p class="` + ButtonsClass + `">`)
	for _, level := range doctree.Levels {
		text, bg := opts.ButtonColor(level)
		caption := Caption(opts, reading, level)

		b.WriteString("<button ")
		if level == doctree.Level1 {
			b.WriteString("disabled ")
		}
		fmt.Fprintf(&b, `style="margin: 0 5px 10px 0;color:%s;background-color:%s;border:2px solid %s"`,
			html.EscapeString(text), html.EscapeString(bg), html.EscapeString(opts.ButtonColors.ActiveBorder))
		fmt.Fprintf(&b, ` data-tldr-class="%s" data-tldr-level="%d" class="active btn btn-%s">`,
			level.Class(), int(level), level.Class())
		b.WriteString(html.EscapeString(caption))
		b.WriteString("</button>")
	}
	b.WriteString("</p>")
	return b.String()
}

// VisibleRuns drops the runs that lie inside a region hidden in s.
func VisibleRuns(runs []marker.Run, s disclosure.State) []marker.Run {
	out := make([]marker.Run, 0, len(runs))
	for _, r := range runs {
		shown := true
		for i, in := range r.Levels {
			if in && !s.Visible(doctree.Level(i+1)) {
				shown = false
				break
			}
		}
		if shown {
			out = append(out, r)
		}
	}
	return out
}

// Text returns the plain text of markup as a reader sees it with level selected as
// the default level.
func Text(markup string, level doctree.Level) string {
	s, _ := disclosure.Initial(level)
	var b strings.Builder
	for _, r := range VisibleRuns(marker.Runs(marker.PlainText(markup)), s) {
		b.WriteString(r.Text)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
