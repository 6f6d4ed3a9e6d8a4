package session

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/toolbridge/toolbridge/internal/schema"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestManager_RoundTrip(t *testing.T) {
	m := newTestManager(t)

	s := m.GetOrCreate("abc")
	s.Server = "weather"

	msgs := schema.NewMessages()
	msgs.AddSystem("sys")
	msgs.AddUser("what's the weather?")
	msgs.AddAssistant("", []schema.ToolCall{{ID: "c1", Name: "get_forecast", Arguments: map[string]any{"city": "Hanoi"}}})
	msgs.AddToolResult("c1", "get_forecast", "sunny")
	msgs.AddAssistant("It is sunny.", nil)
	s.Replace(msgs)

	if err := m.Save(s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Reload through a fresh manager so the cache can't answer.
	m2, err := NewManager(m.sessionsDir)
	if err != nil {
		t.Fatal(err)
	}
	loaded := m2.GetOrCreate("abc")
	if loaded.Server != "weather" {
		t.Errorf("server = %q", loaded.Server)
	}
	got := loaded.Snapshot()
	if got.Len() != 5 {
		t.Fatalf("messages = %d, want 5", got.Len())
	}
	tc := got.Messages[2].ToolCalls
	if len(tc) != 1 || tc[0].ID != "c1" || tc[0].Arguments["city"] != "Hanoi" {
		t.Errorf("tool calls = %+v", tc)
	}
	if got.Messages[3].Role != "tool" || got.Messages[3].Content != "sunny" {
		t.Errorf("tool result = %+v", got.Messages[3])
	}
}

func TestManager_GetOrCreate_New(t *testing.T) {
	m := newTestManager(t)
	s := m.GetOrCreate("fresh")
	if s.Key != "fresh" || s.Snapshot().Len() != 0 {
		t.Errorf("session = %+v", s)
	}
	// Same pointer comes back from the cache.
	if m.GetOrCreate("fresh") != s {
		t.Error("cache miss for existing key")
	}
}

func TestManager_FileFormat(t *testing.T) {
	m := newTestManager(t)
	s := m.GetOrCreate("fmt")
	msgs := schema.NewMessages()
	msgs.AddUser("a <tag> & more")
	s.Replace(msgs)

	if err := m.Save(s); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(m.sessionPath("fmt"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d: %q", len(lines), data)
	}
	if !strings.Contains(lines[0], `"_type":"metadata"`) {
		t.Errorf("first line is not metadata: %q", lines[0])
	}
	// HTML escaping must be off so transcripts stay greppable.
	if !strings.Contains(lines[1], "<tag>") {
		t.Errorf("content was HTML-escaped: %q", lines[1])
	}
}

func TestManager_SessionPath_Sanitized(t *testing.T) {
	m := newTestManager(t)
	path := m.sessionPath("a/b\\c:d e")
	if strings.ContainsAny(path[len(m.sessionsDir):], "\\: ") {
		t.Errorf("unsafe path %q", path)
	}
	if !strings.HasSuffix(path, "a_b_c_d_e.jsonl") {
		t.Errorf("path = %q", path)
	}
}

func TestManager_Keys_NewestFirst(t *testing.T) {
	m := newTestManager(t)

	for _, key := range []string{"old", "new"} {
		s := m.GetOrCreate(key)
		if err := m.Save(s); err != nil {
			t.Fatal(err)
		}
	}
	// Make "old" visibly older than "new".
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(m.sessionPath("old"), past, past); err != nil {
		t.Fatal(err)
	}

	keys := m.Keys()
	if len(keys) != 2 || keys[0] != "new" || keys[1] != "old" {
		t.Errorf("keys = %v", keys)
	}
}

func TestManager_Load_CorruptLinesSkipped(t *testing.T) {
	m := newTestManager(t)
	content := `{"_type":"metadata","key":"k","server":"s","created_at":"2026-01-02T03:04:05Z"}
not json
{"role":"user","content":"hello"}
`
	if err := os.WriteFile(m.sessionPath("k"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	s := m.GetOrCreate("k")
	got := s.Snapshot()
	if got.Len() != 1 || got.Messages[0].Content != "hello" {
		t.Errorf("messages = %+v", got.Messages)
	}
	if s.Server != "s" {
		t.Errorf("server = %q", s.Server)
	}
}

func TestNewKey_Unique(t *testing.T) {
	if NewKey() == NewKey() {
		t.Error("keys must be unique")
	}
}
