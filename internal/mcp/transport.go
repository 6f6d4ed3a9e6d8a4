// Package mcp implements a Model Context Protocol client: launching stdio
// server subprocesses, JSON-RPC 2.0 transports, the initialize handshake, and
// tool discovery/invocation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
)

// protocolVersion is the MCP revision this client speaks.
const protocolVersion = "2024-11-05"

// Transport carries JSON-RPC requests to a single MCP server.
//
// Implementations serialise calls internally; callers may use a Transport
// from multiple goroutines.
type Transport interface {
	// Call sends a request and blocks until the matching response arrives.
	Call(ctx context.Context, method string, params any) (json.RawMessage, error)
	// Notify sends a notification; no response is expected.
	Notify(ctx context.Context, method string, params any) error
	Close() error
}

// JSON-RPC 2.0 envelope types (subset used by MCP).

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      *int64 `json:"id,omitempty"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int64           `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

func marshalRequest(id *int64, method string, params any) ([]byte, error) {
	req := rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", method, err)
	}
	return data, nil
}

// decodeResponse parses one wire message. Returns (nil, nil) for messages that
// are not a response to the given id (server notifications, log lines).
func decodeResponse(line []byte, id int64) (json.RawMessage, error) {
	var resp rpcResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, nil // not JSON: server log output on stdout
	}
	if resp.ID == nil || *resp.ID != id {
		return nil, nil
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	if resp.Result == nil {
		return json.RawMessage("null"), nil
	}
	return resp.Result, nil
}
