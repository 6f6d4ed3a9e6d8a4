package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// WSTransport talks JSON-RPC to an MCP server over a WebSocket connection
// (ws:// or wss:// URLs), one JSON message per frame.
type WSTransport struct {
	conn *websocket.Conn

	mu     sync.Mutex
	nextID atomic.Int64
}

// DialWS opens a WebSocket connection to url with the given extra headers.
func DialWS(ctx context.Context, url string, headers map[string]string) (*WSTransport, error) {
	h := http.Header{}
	for k, v := range headers {
		h.Set(k, v)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 15 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, url, h)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial MCP websocket %s: %w (HTTP %d)", url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial MCP websocket %s: %w", url, err)
	}
	return &WSTransport{conn: conn}, nil
}

// Call sends one request frame and reads frames until the matching response
// arrives. Unrelated frames (server notifications) are skipped.
func (t *WSTransport) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	id := t.nextID.Add(1)
	data, err := marshalRequest(&id, method, params)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = t.conn.SetReadDeadline(deadline)
		_ = t.conn.SetWriteDeadline(deadline)
	}

	if err := t.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return nil, fmt.Errorf("write MCP websocket: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		_, frame, err := t.conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("read MCP websocket: %w", err)
		}
		result, err := decodeResponse(frame, id)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
	}
}

// Notify sends one notification frame without waiting for a response.
func (t *WSTransport) Notify(_ context.Context, method string, params any) error {
	data, err := marshalRequest(nil, method, params)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write MCP websocket: %w", err)
	}
	return nil
}

// Close sends a close frame and tears down the connection.
func (t *WSTransport) Close() error {
	_ = t.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	return t.conn.Close()
}
