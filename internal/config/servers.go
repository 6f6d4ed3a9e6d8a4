package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ServerEntry describes one named MCP server in the registry.
// Either Command (stdio subprocess) or URL (ws:// / http://) is set.
type ServerEntry struct {
	Command string            `yaml:"command,omitempty"`
	Args    []string          `yaml:"args,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
	URL     string            `yaml:"url,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
}

// ServerRegistry is the parsed servers.yaml file: a set of named MCP servers
// that can be referenced on the command line instead of a path.
type ServerRegistry struct {
	Servers map[string]ServerEntry `yaml:"servers"`
}

// LoadServers reads the servers registry at path.
// If path is empty, ServersPath() is used. A missing file yields an empty registry.
func LoadServers(path string) (*ServerRegistry, error) {
	if path == "" {
		path = ServersPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ServerRegistry{Servers: map[string]ServerEntry{}}, nil
		}
		return nil, fmt.Errorf("read servers registry %s: %w", path, err)
	}

	var reg ServerRegistry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse servers registry %s: %w", path, err)
	}
	if reg.Servers == nil {
		reg.Servers = map[string]ServerEntry{}
	}
	return &reg, nil
}

// Lookup returns the entry for name, if registered.
func (r *ServerRegistry) Lookup(name string) (ServerEntry, bool) {
	e, ok := r.Servers[name]
	return e, ok
}

// Names returns the registered server names in sorted order.
func (r *ServerRegistry) Names() []string {
	names := make([]string, 0, len(r.Servers))
	for n := range r.Servers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
