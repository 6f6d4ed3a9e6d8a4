package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ToolInfo describes one tool exposed by an MCP server.
type ToolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

// ServerInfo is the server identity reported during initialize.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type initializeResult struct {
	ProtocolVersion string     `json:"protocolVersion"`
	ServerInfo      ServerInfo `json:"serverInfo"`
}

// Client drives one MCP session over a Transport.
type Client struct {
	name      string
	transport Transport
	server    ServerInfo
}

// NewClient wraps transport without performing any I/O. Call Initialize
// before anything else.
func NewClient(name string, transport Transport) *Client {
	return &Client{name: name, transport: transport}
}

// Name returns the local name assigned to this server connection.
func (c *Client) Name() string { return c.name }

// Server returns the identity the server reported during initialize.
func (c *Client) Server() ServerInfo { return c.server }

// Initialize performs the MCP handshake: the initialize request followed by
// the initialized notification.
func (c *Client) Initialize(ctx context.Context) error {
	params := map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "toolbridge", "version": "0.1.0"},
	}
	raw, err := c.transport.Call(ctx, "initialize", params)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	var res initializeResult
	if err := json.Unmarshal(raw, &res); err == nil {
		c.server = res.ServerInfo
	}

	if err := c.transport.Notify(ctx, "notifications/initialized", nil); err != nil {
		return fmt.Errorf("initialized notification: %w", err)
	}
	return nil
}

// ListTools returns the tools exposed by this MCP server.
func (c *Client) ListTools(ctx context.Context) ([]ToolInfo, error) {
	raw, err := c.transport.Call(ctx, "tools/list", nil)
	if err != nil {
		return nil, fmt.Errorf("tools/list: %w", err)
	}
	var result struct {
		Tools []ToolInfo `json:"tools"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("parse tools/list result: %w", err)
	}
	return result.Tools, nil
}

// CallTool invokes a named tool and flattens the result content to text.
func (c *Client) CallTool(ctx context.Context, toolName string, args map[string]any) (string, error) {
	if args == nil {
		args = map[string]any{}
	}
	raw, err := c.transport.Call(ctx, "tools/call", map[string]any{
		"name":      toolName,
		"arguments": args,
	})
	if err != nil {
		return "", fmt.Errorf("tools/call %s: %w", toolName, err)
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		// Server sent something nonstandard; surface it verbatim.
		return string(raw), nil
	}

	var parts []string
	for _, block := range result.Content {
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	out := strings.Join(parts, "\n")
	if out == "" {
		out = "(no output)"
	}
	if result.IsError {
		return "", fmt.Errorf("tool %s failed: %s", toolName, out)
	}
	return out, nil
}

// Close releases the transport, killing the server subprocess if one was spawned.
func (c *Client) Close() error {
	return c.transport.Close()
}
