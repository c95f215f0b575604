package mcptools

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dgallion1/tldr/internal/config"
	"github.com/dgallion1/tldr/internal/store"
)

const sample = "intro [tl2]middle [tl3]deep[/tl3][/tl2] end"

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func call(t *testing.T, handle func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := handle(context.Background(), makeReq(args))
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	return res
}

func TestAnalyzeTool_Definition(t *testing.T) {
	def := NewAnalyzeTool(config.DefaultOptions()).Definition()
	if def.Name != "tldr_analyze" {
		t.Errorf("tool name = %q, want tldr_analyze", def.Name)
	}
	if _, ok := def.InputSchema.Properties["text"]; !ok {
		t.Error("missing 'text' parameter")
	}
	found := false
	for _, r := range def.InputSchema.Required {
		if r == "text" {
			found = true
		}
	}
	if !found {
		t.Error("'text' should be required")
	}
}

func TestAnalyzeTool_Handle(t *testing.T) {
	tool := NewAnalyzeTool(config.DefaultOptions())

	res := call(t, tool.Handle, map[string]any{"text": sample})
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(res))
	}
	text := resultText(res)
	for _, want := range []string{"**Total words**: 4", "**tldr1**: 2 words", "**tldr3**: 1 words, 1 regions, 2 sec • 100%"} {
		if !strings.Contains(text, want) {
			t.Errorf("result missing %q:\n%s", want, text)
		}
	}
}

func TestAnalyzeTool_Errors(t *testing.T) {
	tool := NewAnalyzeTool(config.DefaultOptions())
	for name, args := range map[string]map[string]any{
		"missing text":  {},
		"blank text":    {"text": "   "},
		"bad options":   {"text": sample, "options": "default_level: 0"},
		"unknown field": {"text": sample, "options": `{"nope": 1}`},
	} {
		if res := call(t, tool.Handle, args); !res.IsError {
			t.Errorf("%s: expected error result, got %q", name, resultText(res))
		}
	}
}

func TestAnalyzeTool_OptionsOverride(t *testing.T) {
	tool := NewAnalyzeTool(config.DefaultOptions())
	res := call(t, tool.Handle, map[string]any{
		"text":    sample,
		"options": "button_labels: {level1: Gist}",
	})
	if !strings.Contains(resultText(res), "**Gist**") {
		t.Errorf("expected overridden label, got %q", resultText(res))
	}
}

func TestRenderTool_Text(t *testing.T) {
	tool := NewRenderTool(config.DefaultOptions())
	tests := []struct {
		level any
		want  string
	}{
		{nil, "intro middle end"},
		{float64(1), "intro end"},
		{float64(3), "intro middle deep end"},
	}
	for _, tt := range tests {
		args := map[string]any{"text": sample}
		if tt.level != nil {
			args["level"] = tt.level
		}
		if got := resultText(call(t, tool.Handle, args)); got != tt.want {
			t.Errorf("level %v: got %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestRenderTool_HTML(t *testing.T) {
	tool := NewRenderTool(config.DefaultOptions())
	res := call(t, tool.Handle, map[string]any{"text": sample, "format": "html", "level": float64(1)})
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(res))
	}
	out := resultText(res)
	if !strings.Contains(out, `class="tooloodr-buttons"`) || !strings.Contains(out, "display:none") {
		t.Errorf("expected controls and hidden regions, got %q", out)
	}
}

func TestRenderTool_Errors(t *testing.T) {
	tool := NewRenderTool(config.DefaultOptions())
	for name, args := range map[string]map[string]any{
		"bad level":  {"text": sample, "level": float64(4)},
		"bad format": {"text": sample, "format": "pdf"},
		"no text":    {"format": "text"},
	} {
		if res := call(t, tool.Handle, args); !res.IsError {
			t.Errorf("%s: expected error result", name)
		}
	}
}

func TestDocumentsTool(t *testing.T) {
	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	tool := NewDocumentsTool(st, config.DefaultOptions())

	if got := resultText(call(t, tool.Handle, nil)); !strings.Contains(got, "No documents") {
		t.Errorf("expected empty listing, got %q", got)
	}

	doc := &store.Document{
		ID:         "doc-1",
		Title:      "Notes",
		Filename:   "notes.txt",
		Markup:     "<p>" + sample + "</p>",
		NetWords:   [3]int{2, 1, 1},
		TotalWords: 4,
	}
	if err := st.Put(context.Background(), doc); err != nil {
		t.Fatal(err)
	}

	list := resultText(call(t, tool.Handle, map[string]any{}))
	if !strings.Contains(list, "**Notes** `doc-1`") {
		t.Errorf("expected document listed, got %q", list)
	}

	read := resultText(call(t, tool.Handle, map[string]any{"doc_id": "doc-1", "level": float64(1)}))
	if !strings.HasPrefix(read, "# Notes") || !strings.Contains(read, "intro end") {
		t.Errorf("unexpected level-1 read %q", read)
	}

	if res := call(t, tool.Handle, map[string]any{"doc_id": "missing"}); !res.IsError {
		t.Error("expected error for a missing document")
	}
}

func TestNewServer(t *testing.T) {
	if s := NewServer(config.DefaultOptions(), nil); s == nil {
		t.Fatal("expected server")
	}
}
