package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/toolbridge/toolbridge/internal/schema"
)

// Manager owns the lifecycle of all MCP server connections for one session.
// It connects the configured servers, registers their discovered tools, and
// kills every spawned subprocess on Close.
type Manager struct {
	specs []ServerSpec

	mu      sync.Mutex
	clients []*Client
	names   map[string]bool // tool names already registered
}

// NewManager returns a Manager for the given server specs.
func NewManager(specs ...ServerSpec) *Manager {
	return &Manager{specs: specs, names: map[string]bool{}}
}

// Connect establishes all server sessions concurrently and registers their
// tools into ts. With a single configured server any failure is fatal; with
// several, failed servers are logged and skipped.
func (m *Manager) Connect(ctx context.Context, ts schema.ToolRegistrar) error {
	single := len(m.specs) == 1

	g, gctx := errgroup.WithContext(ctx)
	for _, spec := range m.specs {
		spec := spec
		g.Go(func() error {
			if err := m.connectOne(gctx, spec, ts); err != nil {
				if single {
					return err
				}
				slog.Error("MCP server connect failed", "server", spec.Name, "err", err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (m *Manager) connectOne(ctx context.Context, spec ServerSpec, ts schema.ToolRegistrar) error {
	transport, err := spec.Connect(ctx)
	if err != nil {
		return err
	}

	client := NewClient(spec.Name, transport)
	if err := client.Initialize(ctx); err != nil {
		_ = transport.Close()
		return err
	}

	infos, err := client.ListTools(ctx)
	if err != nil {
		_ = transport.Close()
		return err
	}

	m.mu.Lock()
	for _, info := range infos {
		name := info.Name
		if m.names[name] {
			name = spec.Name + "_" + info.Name
		}
		m.names[name] = true
		ts.Add(newServerTool(client, name, info))
		slog.Debug("MCP tool registered", "server", spec.Name, "tool", name)
	}
	m.clients = append(m.clients, client)
	m.mu.Unlock()

	slog.Info("MCP server connected", "server", spec.Name, "tools", len(infos))
	return nil
}

// Clients returns the connected clients, in connection order.
func (m *Manager) Clients() []*Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Client, len(m.clients))
	copy(out, m.clients)
	return out
}

// ToolNames returns the names of every tool registered by this manager.
func (m *Manager) ToolNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.names))
	for n := range m.names {
		out = append(out, n)
	}
	return out
}

// Close shuts down every server session owned by this manager.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.clients {
		if err := c.Close(); err != nil {
			slog.Debug("MCP close", "server", c.Name(), "err", err)
		}
	}
	m.clients = nil
}

// Dial is the single-server convenience used by the tools and call commands:
// connect, initialize, and return the client plus its discovered tools.
func Dial(ctx context.Context, spec ServerSpec) (*Client, []ToolInfo, error) {
	transport, err := spec.Connect(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("connect %s: %w", spec.Name, err)
	}
	client := NewClient(spec.Name, transport)
	if err := client.Initialize(ctx); err != nil {
		_ = transport.Close()
		return nil, nil, err
	}
	infos, err := client.ListTools(ctx)
	if err != nil {
		_ = transport.Close()
		return nil, nil, err
	}
	return client, infos, nil
}
