// Package tools holds the runtime tool registry and the built-in tools that
// ship with toolbridge alongside MCP-discovered tools.
package tools

import (
	"encoding/json"
	"sort"

	"github.com/toolbridge/toolbridge/internal/schema"
)

// ToolList holds a named set of tools and exposes them for LLM calls and
// runtime extension (MCP servers register into it after connect).
type ToolList struct {
	tools map[string]schema.Tool
}

func NewToolList(ts ...schema.Tool) *ToolList {
	list := ToolList{tools: make(map[string]schema.Tool, len(ts))}
	for _, t := range ts {
		list.tools[t.Name()] = t
	}
	return &list
}

// Get returns the tool with the given name, or nil if not found.
func (r *ToolList) Get(name string) schema.Tool {
	return r.tools[name]
}

// Add registers a new tool, replacing any existing tool with the same name.
func (r *ToolList) Add(t schema.Tool) schema.Tool {
	r.tools[t.Name()] = t
	return t
}

// Len returns the number of registered tools.
func (r *ToolList) Len() int { return len(r.tools) }

// Names returns all registered tool names in sorted order.
func (r *ToolList) Names() []string {
	names := make([]string, 0, len(r.tools))
	for n := range r.tools {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// All returns the registered tools ordered by name.
func (r *ToolList) All() []schema.Tool {
	out := make([]schema.Tool, 0, len(r.tools))
	for _, n := range r.Names() {
		out = append(out, r.tools[n])
	}
	return out
}

// Definitions returns all tool definitions in OpenAI function-calling format.
// Provider implementations convert to their own wire format from this shape.
func (r *ToolList) Definitions() []map[string]any {
	list := make([]map[string]any, 0, len(r.tools))
	for _, t := range r.All() {
		var params any
		if err := json.Unmarshal(t.Parameters(), &params); err != nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		list = append(list, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        t.Name(),
				"description": t.Description(),
				"parameters":  params,
			},
		})
	}
	return list
}

var _ schema.ToolRegistrar = (*ToolList)(nil)
