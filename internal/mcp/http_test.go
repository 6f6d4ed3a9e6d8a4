package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPTransport_Call(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.JSONRPC != "2.0" || req.Method != "tools/list" || req.ID == nil {
			t.Errorf("request = %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      *req.ID,
			"result":  map[string]any{"tools": []any{}},
		})
	}))
	t.Cleanup(srv.Close)

	tr := NewHTTPTransport(srv.URL, map[string]string{"Authorization": "Bearer tok"})
	res, err := tr.Call(context.Background(), "tools/list", nil)
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if string(res) != `{"tools":[]}` {
		t.Errorf("result = %s", res)
	}
}

func TestHTTPTransport_Notify_NoID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.ID != nil {
			t.Error("notification must not carry an id")
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(srv.Close)

	tr := NewHTTPTransport(srv.URL, nil)
	if err := tr.Notify(context.Background(), "notifications/initialized", nil); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
}

func TestHTTPTransport_RPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      *req.ID,
			"error":   map[string]any{"code": -32601, "message": "method not found"},
		})
	}))
	t.Cleanup(srv.Close)

	tr := NewHTTPTransport(srv.URL, nil)
	if _, err := tr.Call(context.Background(), "nope", nil); err == nil {
		t.Fatal("expected rpc error")
	}
}

func TestHTTPTransport_HTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	tr := NewHTTPTransport(srv.URL, nil)
	if _, err := tr.Call(context.Background(), "initialize", nil); err == nil {
		t.Fatal("expected error for HTTP 502")
	}
}
