package mcptools

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/dgallion1/tldr/internal/config"
	"github.com/dgallion1/tldr/internal/store"
)

// Version is reported to MCP clients.
const Version = "0.3.0"

// NewServer registers the tldr tools. The documents tool is only added when a store
// is given.
func NewServer(opts config.Options, st *store.Store) *server.MCPServer {
	s := server.NewMCPServer(
		"tldr",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions("Tools for text annotated with [tl2] and [tl3] disclosure markers. "+
			"Level 1 is the summary, level 2 adds detail and level 3 is the full text."),
	)

	analyze := NewAnalyzeTool(opts)
	s.AddTool(analyze.Definition(), analyze.Handle)

	renderTool := NewRenderTool(opts)
	s.AddTool(renderTool.Definition(), renderTool.Handle)

	if st != nil {
		docs := NewDocumentsTool(st, opts)
		s.AddTool(docs.Definition(), docs.Handle)
	}
	return s
}
