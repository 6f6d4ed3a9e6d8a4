package session

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/toolbridge/toolbridge/internal/schema"
)

// Manager loads and persists sessions as JSONL files.
type Manager struct {
	sessionsDir string
	cache       sync.Map // key → *Session
}

// NewManager creates a Manager rooted at dir, creating it if necessary.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sessions dir: %w", err)
	}
	return &Manager{sessionsDir: dir}, nil
}

// GetOrCreate returns the cached session for key, loading from disk if needed,
// or creating an empty new one.
func (m *Manager) GetOrCreate(key string) *Session {
	if v, ok := m.cache.Load(key); ok {
		return v.(*Session)
	}

	s := m.load(key)
	if s == nil {
		s = newSession(key)
	}

	actual, _ := m.cache.LoadOrStore(key, s)
	return actual.(*Session)
}

// Save writes the session to disk and updates the cache.
func (m *Manager) Save(s *Session) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	s.mu.Lock()
	msgs := s.Messages.Clone()
	meta := map[string]any{
		"_type":      "metadata",
		"key":        s.Key,
		"server":     s.Server,
		"created_at": s.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	s.mu.Unlock()

	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	for _, msg := range msgs.Messages {
		if err := enc.Encode(toWire(msg)); err != nil {
			return fmt.Errorf("encode message: %w", err)
		}
	}

	path := m.sessionPath(s.Key)
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write session %s: %w", path, err)
	}
	m.cache.Store(s.Key, s)
	return nil
}

// Keys lists the session keys present on disk, newest first.
func (m *Manager) Keys() []string {
	entries, err := os.ReadDir(m.sessionsDir)
	if err != nil {
		return nil
	}
	type stamped struct {
		key string
		mod time.Time
	}
	var out []stamped
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, stamped{strings.TrimSuffix(e.Name(), ".jsonl"), info.ModTime()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].mod.After(out[j].mod) })
	keys := make([]string, len(out))
	for i, s := range out {
		keys[i] = s.key
	}
	return keys
}

func (m *Manager) sessionPath(key string) string {
	// Keys may contain characters unfit for filenames.
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '_'
		}
		return r
	}, key)
	return filepath.Join(m.sessionsDir, safe+".jsonl")
}

// load reads a session from disk, returning nil when absent or unreadable.
func (m *Manager) load(key string) *Session {
	f, err := os.Open(m.sessionPath(key))
	if err != nil {
		return nil
	}
	defer f.Close()

	s := newSession(key)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if first {
			first = false
			var meta struct {
				Type      string `json:"_type"`
				Server    string `json:"server"`
				CreatedAt string `json:"created_at"`
			}
			if err := json.Unmarshal([]byte(line), &meta); err == nil && meta.Type == "metadata" {
				s.Server = meta.Server
				if t, err := time.Parse(time.RFC3339, meta.CreatedAt); err == nil {
					s.CreatedAt = t
				}
				continue
			}
			// No metadata line; fall through and treat it as a message.
		}
		var w wireMessage
		if err := json.Unmarshal([]byte(line), &w); err != nil {
			continue
		}
		s.Messages.Messages = append(s.Messages.Messages, fromWire(w))
	}
	return s
}

// wireMessage is the on-disk message shape.
type wireMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content,omitempty"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	ToolName   string         `json:"tool_name,omitempty"`
}

type wireToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

func toWire(m schema.Message) wireMessage {
	w := wireMessage{
		Role:       m.Role,
		Content:    m.Content,
		ToolCallID: m.ToolCallID,
		ToolName:   m.ToolName,
	}
	for _, tc := range m.ToolCalls {
		w.ToolCalls = append(w.ToolCalls, wireToolCall(tc))
	}
	return w
}

func fromWire(w wireMessage) schema.Message {
	m := schema.Message{
		Role:       w.Role,
		Content:    w.Content,
		ToolCallID: w.ToolCallID,
		ToolName:   w.ToolName,
	}
	for _, tc := range w.ToolCalls {
		m.ToolCalls = append(m.ToolCalls, schema.ToolCall(tc))
	}
	return m
}
