package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

// fakeTransport returns canned results per method and records every call.
type fakeTransport struct {
	results map[string]json.RawMessage
	errs    map[string]error

	calls   []string
	notices []string
	params  map[string]any
	closed  bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		results: map[string]json.RawMessage{},
		errs:    map[string]error{},
		params:  map[string]any{},
	}
}

func (f *fakeTransport) Call(_ context.Context, method string, params any) (json.RawMessage, error) {
	f.calls = append(f.calls, method)
	f.params[method] = params
	if err := f.errs[method]; err != nil {
		return nil, err
	}
	if res, ok := f.results[method]; ok {
		return res, nil
	}
	return json.RawMessage(`{}`), nil
}

func (f *fakeTransport) Notify(_ context.Context, method string, _ any) error {
	f.notices = append(f.notices, method)
	return nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

func TestClient_Initialize(t *testing.T) {
	ft := newFakeTransport()
	ft.results["initialize"] = json.RawMessage(`{
		"protocolVersion": "2024-11-05",
		"serverInfo": {"name": "weather", "version": "1.2.0"}
	}`)

	c := NewClient("weather", ft)
	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if got := c.Server(); got.Name != "weather" || got.Version != "1.2.0" {
		t.Errorf("server info = %+v", got)
	}
	if len(ft.notices) != 1 || ft.notices[0] != "notifications/initialized" {
		t.Errorf("expected initialized notification, got %v", ft.notices)
	}

	params, ok := ft.params["initialize"].(map[string]any)
	if !ok {
		t.Fatalf("initialize params have unexpected type %T", ft.params["initialize"])
	}
	if params["protocolVersion"] != protocolVersion {
		t.Errorf("protocolVersion = %v", params["protocolVersion"])
	}
	if _, ok := params["clientInfo"]; !ok {
		t.Error("initialize params missing clientInfo")
	}
}

func TestClient_Initialize_Error(t *testing.T) {
	ft := newFakeTransport()
	ft.errs["initialize"] = fmt.Errorf("boom")

	c := NewClient("x", ft)
	if err := c.Initialize(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(ft.notices) != 0 {
		t.Errorf("initialized notification must not be sent after a failed handshake, got %v", ft.notices)
	}
}

func TestClient_ListTools(t *testing.T) {
	ft := newFakeTransport()
	ft.results["tools/list"] = json.RawMessage(`{
		"tools": [
			{"name": "get_forecast", "description": "Get forecast", "inputSchema": {"type":"object"}},
			{"name": "get_alerts"}
		]
	}`)

	c := NewClient("weather", ft)
	tools, err := c.ListTools(context.Background())
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}
	if len(tools) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(tools))
	}
	if tools[0].Name != "get_forecast" || tools[0].Description != "Get forecast" {
		t.Errorf("tool[0] = %+v", tools[0])
	}
	if tools[1].Name != "get_alerts" {
		t.Errorf("tool[1] = %+v", tools[1])
	}
}

func TestClient_CallTool_TextBlocks(t *testing.T) {
	ft := newFakeTransport()
	ft.results["tools/call"] = json.RawMessage(`{
		"content": [
			{"type": "text", "text": "line one"},
			{"type": "text", "text": "line two"}
		]
	}`)

	c := NewClient("weather", ft)
	out, err := c.CallTool(context.Background(), "get_forecast", map[string]any{"city": "Hanoi"})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if out != "line one\nline two" {
		t.Errorf("output = %q", out)
	}

	params := ft.params["tools/call"].(map[string]any)
	if params["name"] != "get_forecast" {
		t.Errorf("name param = %v", params["name"])
	}
	args := params["arguments"].(map[string]any)
	if args["city"] != "Hanoi" {
		t.Errorf("arguments = %v", args)
	}
}

func TestClient_CallTool_NilArgsBecomeEmptyObject(t *testing.T) {
	ft := newFakeTransport()
	c := NewClient("weather", ft)
	if _, err := c.CallTool(context.Background(), "ping", nil); err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	params := ft.params["tools/call"].(map[string]any)
	args, ok := params["arguments"].(map[string]any)
	if !ok || args == nil {
		t.Errorf("arguments should be an empty object, got %v", params["arguments"])
	}
}

func TestClient_CallTool_EmptyContent(t *testing.T) {
	ft := newFakeTransport()
	ft.results["tools/call"] = json.RawMessage(`{"content": []}`)

	c := NewClient("weather", ft)
	out, err := c.CallTool(context.Background(), "noop", nil)
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if out != "(no output)" {
		t.Errorf("output = %q", out)
	}
}

func TestClient_CallTool_IsError(t *testing.T) {
	ft := newFakeTransport()
	ft.results["tools/call"] = json.RawMessage(`{
		"content": [{"type": "text", "text": "city not found"}],
		"isError": true
	}`)

	c := NewClient("weather", ft)
	_, err := c.CallTool(context.Background(), "get_forecast", nil)
	if err == nil {
		t.Fatal("expected error for isError result")
	}
	if !strings.Contains(err.Error(), "city not found") {
		t.Errorf("error should carry the server message, got %v", err)
	}
}

func TestClient_CallTool_RPCError(t *testing.T) {
	ft := newFakeTransport()
	ft.errs["tools/call"] = &rpcError{Code: -32602, Message: "unknown tool"}

	c := NewClient("weather", ft)
	if _, err := c.CallTool(context.Background(), "ghost", nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestClient_Close(t *testing.T) {
	ft := newFakeTransport()
	c := NewClient("weather", ft)
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !ft.closed {
		t.Error("transport not closed")
	}
}

func TestDecodeResponse(t *testing.T) {
	// Non-JSON stdout noise is skipped.
	if res, err := decodeResponse([]byte("starting server..."), 1); res != nil || err != nil {
		t.Errorf("noise line: res=%v err=%v", res, err)
	}
	// Mismatched id is skipped.
	if res, err := decodeResponse([]byte(`{"jsonrpc":"2.0","id":2,"result":{}}`), 1); res != nil || err != nil {
		t.Errorf("mismatched id: res=%v err=%v", res, err)
	}
	// Notifications (no id) are skipped.
	if res, err := decodeResponse([]byte(`{"jsonrpc":"2.0","method":"log"}`), 1); res != nil || err != nil {
		t.Errorf("notification: res=%v err=%v", res, err)
	}
	// Matching response yields the result.
	res, err := decodeResponse([]byte(`{"jsonrpc":"2.0","id":1,"result":{"ok":true}}`), 1)
	if err != nil || string(res) != `{"ok":true}` {
		t.Errorf("match: res=%s err=%v", res, err)
	}
	// Error responses surface the rpc error.
	if _, err := decodeResponse([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32600,"message":"bad"}}`), 1); err == nil {
		t.Error("expected rpc error")
	}
	// Null result becomes a non-nil raw null.
	res, err = decodeResponse([]byte(`{"jsonrpc":"2.0","id":1,"result":null}`), 1)
	if err != nil || string(res) != "null" {
		t.Errorf("null result: res=%s err=%v", res, err)
	}
}
