package mcptools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dgallion1/tldr/internal/config"
	"github.com/dgallion1/tldr/internal/doctree"
	"github.com/dgallion1/tldr/internal/store"
	"github.com/dgallion1/tldr/internal/widget"
	"github.com/dgallion1/tldr/internal/wordcount"
)

// DocumentsTool handles the tldr_documents MCP tool.
type DocumentsTool struct {
	store *store.Store
	opts  config.Options
}

// NewDocumentsTool creates a DocumentsTool over the document store.
func NewDocumentsTool(st *store.Store, opts config.Options) *DocumentsTool {
	return &DocumentsTool{store: st, opts: opts}
}

// Definition returns the MCP tool definition for tldr_documents.
func (t *DocumentsTool) Definition() mcp.Tool {
	return mcp.NewTool("tldr_documents",
		mcp.WithDescription(
			"List ingested documents, or read one document at a disclosure level when doc_id is given.",
		),
		mcp.WithString("doc_id",
			mcp.Description("Document to read; omit to list documents"),
		),
		mcp.WithNumber("level",
			mcp.Description("Level to read at: 1, 2 or 3 (default: the configured default level)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum documents to list (default 20)"),
		),
	)
}

// Handle processes the tldr_documents tool call.
func (t *DocumentsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if id := req.GetString("doc_id", ""); id != "" {
		return t.read(ctx, req, id)
	}

	docs, err := t.store.List(ctx, intArg(req, "limit", 20))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list documents: %v", err)), nil
	}
	if len(docs) == 0 {
		return mcp.NewToolResultText("No documents ingested yet."), nil
	}

	f := t.opts.Formatter()
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Documents (%d)\n\n", len(docs)))
	for _, d := range docs {
		reading := f.Levels(wordcount.Counts{Net: d.NetWords, Total: d.TotalWords})
		sb.WriteString(fmt.Sprintf("- **%s** `%s` (%s): %d words, full read %s\n",
			d.Title, d.ID, d.Filename, d.TotalWords, reading[2]))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (t *DocumentsTool) read(ctx context.Context, req mcp.CallToolRequest, id string) (*mcp.CallToolResult, error) {
	level, ok := requestLevel(req, t.opts)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("level must be 1, 2 or 3, got %d", level)), nil
	}
	doc, err := t.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("document %q not found", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load document: %v", err)), nil
	}

	counts := wordcount.Counts{Net: doc.NetWords, Total: doc.TotalWords}
	reading := t.opts.Formatter().Levels(counts)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", doc.Title))
	sb.WriteString(fmt.Sprintf("_%s (%s): %s_\n\n", t.opts.Label(level), levelName(level), reading[level-1]))
	sb.WriteString(widget.Text(doc.Markup, level))
	sb.WriteString("\n")
	return mcp.NewToolResultText(sb.String()), nil
}

func levelName(level doctree.Level) string {
	switch level {
	case doctree.Level1:
		return "summary"
	case doctree.Level2:
		return "detail"
	}
	return "full text"
}
