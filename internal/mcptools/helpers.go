// Package mcptools exposes tldr analysis to MCP clients.
//
// Each tool is a struct with its dependencies injected via constructor;
// Definition returns the mcp.Tool schema and Handle serves the call.
package mcptools

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dgallion1/tldr/internal/config"
	"github.com/dgallion1/tldr/internal/doctree"
)

// intArg extracts an integer argument, returning defaultVal if the key is missing
// or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// requestOptions merges the optional "options" argument, YAML or JSON, over base.
func requestOptions(req mcp.CallToolRequest, base config.Options) (config.Options, error) {
	raw := req.GetString("options", "")
	if raw == "" {
		return base, nil
	}
	return config.MergeOptions(base, []byte(raw))
}

// requestLevel reads the "level" argument, defaulting to the configured level.
func requestLevel(req mcp.CallToolRequest, opts config.Options) (doctree.Level, bool) {
	level := doctree.Level(intArg(req, "level", opts.DefaultLevel))
	return level, level.Valid()
}
