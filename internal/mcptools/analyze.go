package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dgallion1/tldr/internal/config"
	"github.com/dgallion1/tldr/internal/doctree"
	"github.com/dgallion1/tldr/internal/widget"
)

// AnalyzeTool handles the tldr_analyze MCP tool.
type AnalyzeTool struct {
	opts config.Options
}

// NewAnalyzeTool creates an AnalyzeTool that analyzes with opts unless a call
// overrides them.
func NewAnalyzeTool(opts config.Options) *AnalyzeTool {
	return &AnalyzeTool{opts: opts}
}

// Definition returns the MCP tool definition for tldr_analyze.
func (t *AnalyzeTool) Definition() mcp.Tool {
	return mcp.NewTool("tldr_analyze",
		mcp.WithDescription(
			"Count the words of each disclosure level in text marked with [tl2]...[/tl2] and [tl3]...[/tl3], "+
				"and report the reading time of each level.",
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Marked-up text or HTML"),
		),
		mcp.WithString("options",
			mcp.Description("Widget options as YAML or JSON, merged over the server defaults"),
		),
	)
}

// Handle processes the tldr_analyze tool call.
func (t *AnalyzeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text is required"), nil
	}
	opts, err := requestOptions(req, t.opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	a := widget.Analyze(text, opts)

	var sb strings.Builder
	sb.WriteString("## Disclosure Levels\n\n")
	sb.WriteString(fmt.Sprintf("- **Total words**: %d\n", a.Counts.Total))
	for _, level := range doctree.Levels {
		sb.WriteString(fmt.Sprintf("- **%s**: %d words, %d regions, %s\n",
			opts.Label(level),
			a.Counts.NetFor(level),
			len(a.Tree.MatchesFor(level)),
			a.Reading[level-1],
		))
	}
	return mcp.NewToolResultText(sb.String()), nil
}
