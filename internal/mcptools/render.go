package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dgallion1/tldr/internal/config"
	"github.com/dgallion1/tldr/internal/render"
	"github.com/dgallion1/tldr/internal/widget"
)

const renderTarget = "tldr"

// RenderTool handles the tldr_render MCP tool.
type RenderTool struct {
	opts config.Options
}

// NewRenderTool creates a RenderTool.
func NewRenderTool(opts config.Options) *RenderTool {
	return &RenderTool{opts: opts}
}

// Definition returns the MCP tool definition for tldr_render.
func (t *RenderTool) Definition() mcp.Tool {
	return mcp.NewTool("tldr_render",
		mcp.WithDescription(
			"Render marked-up text at a disclosure level. Format \"text\" returns what a reader sees; "+
				"format \"html\" returns the widget markup with level controls.",
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Marked-up text or HTML"),
		),
		mcp.WithNumber("level",
			mcp.Description("Level to show: 1, 2 or 3 (default: the configured default level)"),
		),
		mcp.WithString("format",
			mcp.Description("text (default) or html"),
		),
		mcp.WithString("options",
			mcp.Description("Widget options as YAML or JSON, merged over the server defaults"),
		),
	)
}

// Handle processes the tldr_render tool call.
func (t *RenderTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text is required"), nil
	}
	opts, err := requestOptions(req, t.opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	level, ok := requestLevel(req, opts)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("level must be 1, 2 or 3, got %d", level)), nil
	}

	switch format := req.GetString("format", "text"); format {
	case "text":
		return mcp.NewToolResultText(widget.Text(text, level)), nil
	case "html":
		opts.DefaultLevel = int(level)
		out, err := renderHTML(text, opts)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
		}
		return mcp.NewToolResultText(out), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", format)), nil
	}
}

func renderHTML(markup string, opts config.Options) (string, error) {
	doc, err := render.NewDocument(renderTarget, markup, opts.ButtonColors.ActiveBorder)
	if err != nil {
		return "", err
	}
	if _, err := widget.New(doc, renderTarget, opts, nil); err != nil {
		return "", err
	}
	return doc.Render()
}
