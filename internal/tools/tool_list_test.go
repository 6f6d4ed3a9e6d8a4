package tools

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/toolbridge/toolbridge/internal/schema"
)

type staticTool struct {
	name   string
	params string
}

func (s staticTool) Name() string        { return s.name }
func (s staticTool) Description() string { return "desc for " + s.name }
func (s staticTool) Parameters() json.RawMessage {
	if s.params == "" {
		return json.RawMessage(`{"type":"object"}`)
	}
	return json.RawMessage(s.params)
}
func (s staticTool) Execute(context.Context, map[string]any) (string, error) { return "ok", nil }

func TestToolList_AddGet(t *testing.T) {
	list := NewToolList()
	list.Add(staticTool{name: "b"})
	list.Add(staticTool{name: "a"})

	if list.Len() != 2 {
		t.Errorf("len = %d", list.Len())
	}
	if got := list.Get("a"); got == nil || got.Name() != "a" {
		t.Errorf("Get(a) = %v", got)
	}
	if list.Get("missing") != nil {
		t.Error("Get(missing) should be nil")
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(list.Names(), want) {
		t.Errorf("Names() = %v", list.Names())
	}
}

func TestToolList_AddReplacesSameName(t *testing.T) {
	list := NewToolList(staticTool{name: "x", params: `{"type":"object","properties":{"old":{}}}`})
	list.Add(staticTool{name: "x"})
	if list.Len() != 1 {
		t.Errorf("len = %d", list.Len())
	}
}

func TestToolList_Definitions(t *testing.T) {
	list := NewToolList(staticTool{
		name:   "get_forecast",
		params: `{"type":"object","properties":{"city":{"type":"string"}}}`,
	})

	defs := list.Definitions()
	if len(defs) != 1 {
		t.Fatalf("defs = %v", defs)
	}
	if defs[0]["type"] != "function" {
		t.Errorf("type = %v", defs[0]["type"])
	}
	fn := defs[0]["function"].(map[string]any)
	if fn["name"] != "get_forecast" {
		t.Errorf("name = %v", fn["name"])
	}
	params := fn["parameters"].(map[string]any)
	if params["type"] != "object" {
		t.Errorf("parameters = %v", params)
	}
}

func TestToolList_Definitions_BadSchemaFallsBack(t *testing.T) {
	list := NewToolList(staticTool{name: "broken", params: `{not json`})

	defs := list.Definitions()
	fn := defs[0]["function"].(map[string]any)
	params := fn["parameters"].(map[string]any)
	if params["type"] != "object" {
		t.Errorf("expected object fallback, got %v", params)
	}
}

var _ schema.Tool = staticTool{}
