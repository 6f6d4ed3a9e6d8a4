package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
)

// StdioTransport talks JSON-RPC to an MCP server subprocess over its standard
// streams. Messages are framed as one JSON object per line. The transport owns
// the child process for its whole lifetime; Close kills it.
type StdioTransport struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader

	mu     sync.Mutex
	nextID atomic.Int64
}

// StartStdio spawns the server described by spec and returns a transport
// bound to its standard streams. The child inherits the parent environment
// plus spec.Env; its stderr passes through so server logs stay visible.
func StartStdio(ctx context.Context, spec ServerSpec) (*StdioTransport, error) {
	cmd := exec.CommandContext(ctx, spec.Command, spec.Args...)
	if len(spec.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range spec.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}
	cmd.Stderr = os.Stderr

	stdinPipe, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start MCP server: %w", err)
	}

	return &StdioTransport{
		cmd:    cmd,
		stdin:  stdinPipe,
		stdout: bufio.NewReader(stdoutPipe),
	}, nil
}

// Call writes one request line and reads response lines until the one carrying
// our id arrives. Non-JSON lines and unrelated messages are skipped.
func (t *StdioTransport) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	id := t.nextID.Add(1)
	data, err := marshalRequest(&id, method, params)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := fmt.Fprintf(t.stdin, "%s\n", data); err != nil {
		return nil, fmt.Errorf("write to MCP stdin: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		line, err := t.stdout.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("read MCP stdout: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		result, err := decodeResponse([]byte(line), id)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
	}
}

// Notify writes one notification line without waiting for a response.
func (t *StdioTransport) Notify(_ context.Context, method string, params any) error {
	data, err := marshalRequest(nil, method, params)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := fmt.Fprintf(t.stdin, "%s\n", data); err != nil {
		return fmt.Errorf("write to MCP stdin: %w", err)
	}
	return nil
}

// Close shuts down the child process. Stdin is closed first so well-behaved
// servers can exit on EOF; the process is then killed unconditionally.
func (t *StdioTransport) Close() error {
	if t.stdin != nil {
		_ = t.stdin.Close()
	}
	if t.cmd != nil && t.cmd.Process != nil {
		_ = t.cmd.Process.Kill()
		_ = t.cmd.Wait()
	}
	return nil
}

// Pid returns the child process id, or 0 when no process is running.
func (t *StdioTransport) Pid() int {
	if t.cmd == nil || t.cmd.Process == nil {
		return 0
	}
	return t.cmd.Process.Pid
}
