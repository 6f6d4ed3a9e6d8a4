package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func wrappedTool(t *testing.T, ft *fakeTransport, schemaJSON string) *serverTool {
	t.Helper()
	info := ToolInfo{Name: "get_forecast", Description: "Get forecast"}
	if schemaJSON != "" {
		info.InputSchema = json.RawMessage(schemaJSON)
	}
	return newServerTool(NewClient("weather", ft), info.Name, info)
}

func TestServerTool_ValidArgs(t *testing.T) {
	ft := newFakeTransport()
	ft.results["tools/call"] = json.RawMessage(`{"content":[{"type":"text","text":"sunny"}]}`)

	tool := wrappedTool(t, ft, `{
		"type": "object",
		"properties": {"city": {"type": "string"}},
		"required": ["city"]
	}`)

	out, err := tool.Execute(context.Background(), map[string]any{"city": "Hanoi"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out != "sunny" {
		t.Errorf("output = %q", out)
	}
	if len(ft.calls) != 1 || ft.calls[0] != "tools/call" {
		t.Errorf("calls = %v", ft.calls)
	}
}

func TestServerTool_MissingRequiredArg(t *testing.T) {
	ft := newFakeTransport()
	tool := wrappedTool(t, ft, `{
		"type": "object",
		"properties": {"city": {"type": "string"}},
		"required": ["city"]
	}`)

	out, err := tool.Execute(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("validation failures must not be errors, got: %v", err)
	}
	if !strings.HasPrefix(out, "Error: invalid arguments for get_forecast") {
		t.Errorf("output = %q", out)
	}
	if len(ft.calls) != 0 {
		t.Errorf("invalid arguments must not reach the server, calls = %v", ft.calls)
	}
}

func TestServerTool_WrongArgType(t *testing.T) {
	ft := newFakeTransport()
	tool := wrappedTool(t, ft, `{
		"type": "object",
		"properties": {"days": {"type": "integer"}}
	}`)

	out, err := tool.Execute(context.Background(), map[string]any{"days": "seven"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "Error: invalid arguments") {
		t.Errorf("output = %q", out)
	}
}

func TestServerTool_UncompilableSchemaSkipsValidation(t *testing.T) {
	ft := newFakeTransport()
	ft.results["tools/call"] = json.RawMessage(`{"content":[{"type":"text","text":"ok"}]}`)

	tool := wrappedTool(t, ft, `{"type": 42}`)

	out, err := tool.Execute(context.Background(), map[string]any{"anything": true})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out != "ok" {
		t.Errorf("output = %q", out)
	}
}

func TestServerTool_DefaultSchema(t *testing.T) {
	ft := newFakeTransport()
	ft.results["tools/call"] = json.RawMessage(`{"content":[{"type":"text","text":"pong"}]}`)

	tool := wrappedTool(t, ft, "")
	if string(tool.Parameters()) != string(defaultInputSchema) {
		t.Errorf("parameters = %s", tool.Parameters())
	}
	out, err := tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out != "pong" {
		t.Errorf("output = %q", out)
	}
}
