// Command tldr analyzes and renders documents annotated with [tlN] disclosure
// markers from the command line.
package main

import (
	"github.com/alecthomas/kong"
)

const version = "0.3.0"

var cli struct {
	Globals

	Stats   StatsCmd   `cmd:"" help:"Print word counts and reading times per level"`
	Render  RenderCmd  `cmd:"" help:"Render a document as a standalone HTML page or as text"`
	View    ViewCmd    `cmd:"" help:"Read a document in the terminal"`
	MCP     MCPCmd     `cmd:"" name:"mcp" help:"Serve the tldr tools over MCP on stdio"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("tldr"),
		kong.Description("Tiered disclosure for marked-up text"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
