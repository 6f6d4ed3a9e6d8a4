package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/toolbridge/toolbridge/internal/schema"
)

// defaultInputSchema is used for tools that declare no parameters.
var defaultInputSchema = json.RawMessage(`{"type":"object","properties":{}}`)

// serverTool wraps a single tool discovered from an MCP server and implements
// schema.Tool. Arguments are validated against the server-declared input
// schema before the call goes over the wire.
type serverTool struct {
	client      *Client
	name        string
	origName    string
	description string
	parameters  json.RawMessage

	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
}

// WrapTool exposes one discovered tool as a schema.Tool, argument validation
// included. Used by the call command for direct invocations.
func WrapTool(client *Client, info ToolInfo) schema.Tool {
	return newServerTool(client, info.Name, info)
}

func newServerTool(client *Client, name string, info ToolInfo) *serverTool {
	params := info.InputSchema
	if len(params) == 0 {
		params = defaultInputSchema
	}
	return &serverTool{
		client:      client,
		name:        name,
		origName:    info.Name,
		description: info.Description,
		parameters:  params,
	}
}

func (t *serverTool) Name() string                { return t.name }
func (t *serverTool) Description() string         { return t.description }
func (t *serverTool) Parameters() json.RawMessage { return t.parameters }

func (t *serverTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	if err := t.validate(params); err != nil {
		// Invalid arguments go back to the LLM as a tool result so it can
		// correct itself; they are not a transport failure.
		return fmt.Sprintf("Error: invalid arguments for %s: %v", t.origName, err), nil
	}
	return t.client.CallTool(ctx, t.origName, params)
}

// validate checks params against the tool's input schema. A schema that fails
// to compile disables validation for this tool rather than blocking calls.
func (t *serverTool) validate(params map[string]any) error {
	t.compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("inputSchema.json", bytes.NewReader(t.parameters)); err != nil {
			t.compileErr = err
			return
		}
		t.compiled, t.compileErr = c.Compile("inputSchema.json")
	})
	if t.compileErr != nil || t.compiled == nil {
		return nil
	}

	// Round-trip through JSON so numbers are json.Number-free float64 values
	// the validator understands.
	doc := map[string]any{}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
	}
	return t.compiled.Validate(doc)
}

var _ schema.Tool = (*serverTool)(nil)
