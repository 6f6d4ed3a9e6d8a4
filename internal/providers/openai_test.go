package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/toolbridge/toolbridge/internal/schema"
)

func TestOpenAI_Chat_TextResponse(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{
				"message":       map[string]any{"content": "Hi there"},
				"finish_reason": "stop",
			}},
			"usage": map[string]int{"prompt_tokens": 3, "completion_tokens": 2, "total_tokens": 5},
		})
	}))
	t.Cleanup(srv.Close)

	p := NewOpenAICompatProvider("sk-test", srv.URL, "gpt-4o", nil)
	msgs := schema.NewMessages()
	msgs.AddUser("hi")

	resp, err := p.Chat(context.Background(), msgs, nil, schema.NewChatOptions("", 0, 0))
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Content != "Hi there" {
		t.Errorf("content = %q", resp.Content)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if resp.Usage["total_tokens"] != 5 {
		t.Errorf("usage = %v", resp.Usage)
	}
}

func TestOpenAI_Chat_ToolCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["tool_choice"] != "auto" {
			t.Errorf("tool_choice = %v", body["tool_choice"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{
				"message": map[string]any{
					"content": nil,
					"tool_calls": []map[string]any{{
						"id":   "call_1",
						"type": "function",
						"function": map[string]any{
							"name":      "get_forecast",
							"arguments": `{"city":"Hanoi"}`,
						},
					}},
				},
				"finish_reason": "tool_calls",
			}},
		})
	}))
	t.Cleanup(srv.Close)

	p := NewOpenAICompatProvider("k", srv.URL, "gpt-4o", nil)
	msgs := schema.NewMessages()
	msgs.AddUser("weather?")
	tools := []map[string]any{{
		"type":     "function",
		"function": map[string]any{"name": "get_forecast", "parameters": map[string]any{"type": "object"}},
	}}

	resp, err := p.Chat(context.Background(), msgs, tools, schema.NewChatOptions("", 0, 0))
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if !resp.HasToolCalls() {
		t.Fatal("expected tool calls")
	}
	tc := resp.ToolCalls[0]
	if tc.ID != "call_1" || tc.Name != "get_forecast" || tc.Arguments["city"] != "Hanoi" {
		t.Errorf("tool call = %+v", tc)
	}
	if resp.FinishReason != "tool_calls" {
		t.Errorf("finish = %q", resp.FinishReason)
	}
}

func TestOpenAI_Chat_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	t.Cleanup(srv.Close)

	p := NewOpenAICompatProvider("k", srv.URL, "m", nil)
	msgs := schema.NewMessages()
	msgs.AddUser("hi")
	if _, err := p.Chat(context.Background(), msgs, nil, schema.NewChatOptions("", 0, 0)); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestSanitizeMessages_ToolRoundTrip(t *testing.T) {
	msgs := schema.NewMessages()
	msgs.AddAssistant("", []schema.ToolCall{{ID: "c1", Name: "f", Arguments: map[string]any{"x": 1}}})
	msgs.AddToolResult("c1", "f", "done")

	out := sanitizeMessages(msgs)
	if len(out) != 2 {
		t.Fatalf("wire messages = %v", out)
	}
	if out[0]["content"] != nil {
		t.Errorf("empty assistant content should be null, got %v", out[0]["content"])
	}
	if _, ok := out[0]["tool_calls"]; !ok {
		t.Error("assistant message missing tool_calls")
	}
	if out[1]["tool_call_id"] != "c1" || out[1]["name"] != "f" || out[1]["content"] != "done" {
		t.Errorf("tool message = %v", out[1])
	}
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]any
		ok   bool
	}{
		{"valid", `{"city":"Hanoi"}`, map[string]any{"city": "Hanoi"}, true},
		{"empty", "", map[string]any{}, true},
		{"trailing garbage", `{"city":"Hanoi"}}}`, map[string]any{"city": "Hanoi"}, true},
		{"trailing text", `{"city":"Hanoi"} extra`, map[string]any{"city": "Hanoi"}, true},
		{"hopeless", `not json at all`, map[string]any{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repairJSON(tt.in)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatal("expected error")
			}
			if tt.ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFriendlyHTTPError(t *testing.T) {
	if got := friendlyHTTPError(http.StatusTooManyRequests, []byte("ignored")); got != "rate limit exceeded" {
		t.Errorf("got %q", got)
	}
	long := strings.Repeat("x", 500)
	if got := friendlyHTTPError(http.StatusInternalServerError, []byte(long)); len(got) != 300 {
		t.Errorf("len = %d, want 300", len(got))
	}
}
