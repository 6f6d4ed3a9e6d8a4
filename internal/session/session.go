// Package session persists conversation transcripts as JSONL files under the
// toolbridge data directory.
//
// File format:
//
//	Line 1:  {"_type":"metadata","key":"…","server":"…","created_at":"…","updated_at":"…"}
//	Line 2+: one JSON message object per line
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/toolbridge/toolbridge/internal/schema"
)

// Session holds one conversation's messages and metadata.
type Session struct {
	Key       string
	Server    string // MCP server name this transcript ran against
	Messages  schema.Messages
	CreatedAt time.Time
	UpdatedAt time.Time

	mu sync.Mutex
}

// NewKey returns a fresh session key.
func NewKey() string {
	return uuid.NewString()
}

func newSession(key string) *Session {
	return &Session{
		Key:       key,
		Messages:  schema.NewMessages(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// Replace swaps in the full conversation (the loop appends to its own copy).
func (s *Session) Replace(messages schema.Messages) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = messages.Clone()
	s.UpdatedAt = time.Now()
}

// Snapshot returns an independent copy of the session's messages.
func (s *Session) Snapshot() schema.Messages {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Messages.Clone()
}
