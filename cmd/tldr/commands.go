package main

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dgallion1/tldr/internal/config"
	"github.com/dgallion1/tldr/internal/doctree"
	"github.com/dgallion1/tldr/internal/mcptools"
	"github.com/dgallion1/tldr/internal/parser"
	"github.com/dgallion1/tldr/internal/render"
	"github.com/dgallion1/tldr/internal/store"
	"github.com/dgallion1/tldr/internal/tui"
	"github.com/dgallion1/tldr/internal/widget"
)

// Globals are flags shared by every command.
type Globals struct {
	Options string `name:"options" short:"c" help:"Widget options file (YAML or JSON)" type:"path" env:"TLDR_OPTIONS_FILE"`
	Verbose bool   `short:"v" help:"Log debug output to stderr"`
}

func (g *Globals) logger() *slog.Logger {
	level := slog.LevelWarn
	if g.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (g *Globals) options() (config.Options, error) {
	return config.LoadOptions(g.Options)
}

// loadSource parses a document file with the parser for its extension.
func loadSource(path string) (*doctree.Source, error) {
	p, err := parser.ForFile(path, parser.Options{PDFFallbackPdftotext: true})
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	src, err := p.Parse(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return src, nil
}

// StatsCmd prints the analysis of one document.
type StatsCmd struct {
	Path string `arg:"" help:"Document to analyze" type:"existingfile"`
	JSON bool   `name:"json" help:"Print JSON instead of a table"`
}

type statsOutput struct {
	Title    string    `json:"title"`
	Raw      [3]int    `json:"raw_words"`
	Net      [3]int    `json:"net_words"`
	Total    int       `json:"total_words"`
	Segments [3]int    `json:"segments"`
	Reading  [3]string `json:"reading"`
}

func (c *StatsCmd) Run(ctx *kong.Context, g *Globals) error {
	opts, err := g.options()
	if err != nil {
		return err
	}
	src, err := loadSource(c.Path)
	if err != nil {
		return err
	}
	return c.write(ctx.Stdout, src, opts)
}

func (c *StatsCmd) write(w io.Writer, src *doctree.Source, opts config.Options) error {
	a := widget.Analyze(src.Markup, opts)
	out := statsOutput{
		Title:   src.Title,
		Raw:     a.Counts.Raw,
		Net:     a.Counts.Net,
		Total:   a.Counts.Total,
		Reading: a.Reading,
	}
	for _, level := range doctree.Levels {
		out.Segments[level-1] = len(a.Tree.MatchesFor(level))
	}

	if c.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(w, "%s\n\n", out.Title)
	fmt.Fprintf(w, "%-8s %8s %8s %8s  %s\n", "LEVEL", "WORDS", "NET", "REGIONS", "READING")
	for _, level := range doctree.Levels {
		i := level - 1
		fmt.Fprintf(w, "%-8s %8d %8d %8d  %s\n", opts.Label(level), out.Raw[i], out.Net[i], out.Segments[i], out.Reading[i])
	}
	fmt.Fprintf(w, "\n%d words total\n", out.Total)
	return nil
}

// RenderCmd writes a document rendered at a level.
type RenderCmd struct {
	Path   string `arg:"" help:"Document to render" type:"existingfile"`
	Output string `short:"o" help:"Output file (default: stdout)" type:"path"`
	Level  int    `short:"l" help:"Default level to show (default: from options)"`
	Format string `short:"f" help:"Output format" enum:"html,text" default:"html"`
}

func (c *RenderCmd) Run(ctx *kong.Context, g *Globals) error {
	opts, err := g.options()
	if err != nil {
		return err
	}
	src, err := loadSource(c.Path)
	if err != nil {
		return err
	}

	w := ctx.Stdout
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return c.write(w, src, opts, g.logger())
}

func (c *RenderCmd) write(w io.Writer, src *doctree.Source, opts config.Options, log *slog.Logger) error {
	if c.Level != 0 {
		opts.DefaultLevel = c.Level
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	if c.Format == "text" {
		_, err := fmt.Fprintln(w, widget.Text(src.Markup, doctree.Level(opts.DefaultLevel)))
		return err
	}

	const target = "tldr-content"
	doc, err := render.NewDocument(target, src.Markup, opts.ButtonColors.ActiveBorder)
	if err != nil {
		return err
	}
	if _, err := widget.New(doc, target, opts, log); err != nil {
		return err
	}
	body, err := doc.Render()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n<h1>%s</h1>\n%s\n</body>\n</html>\n",
		html.EscapeString(src.Title), html.EscapeString(src.Title), body)
	return err
}

// ViewCmd opens a document in the terminal viewer.
type ViewCmd struct {
	Path string `arg:"" help:"Document to read" type:"existingfile"`
}

func (c *ViewCmd) Run(g *Globals) error {
	opts, err := g.options()
	if err != nil {
		return err
	}
	src, err := loadSource(c.Path)
	if err != nil {
		return err
	}
	m, err := tui.New(src.Title, src.Markup, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

// MCPCmd serves the MCP tools. With a data directory the stored documents of a
// tldr server are exposed as well.
type MCPCmd struct {
	DataDir string `name:"data-dir" help:"tldr server data directory to expose" type:"path" env:"TLDR_DATA_DIR"`
}

func (c *MCPCmd) Run(g *Globals) error {
	opts, err := g.options()
	if err != nil {
		return err
	}

	var st *store.Store
	if c.DataDir != "" {
		st, err = store.Open(c.DataDir)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	g.logger().Debug("serving mcp", "data_dir", c.DataDir)
	return server.ServeStdio(mcptools.NewServer(opts, st))
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run(ctx *kong.Context) error {
	fmt.Fprintf(ctx.Stdout, "tldr %s\n", version)
	return nil
}
