package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/shlex"

	"github.com/toolbridge/toolbridge/internal/config"
)

// ServerSpec holds everything needed to reach one MCP server: either a
// command to spawn (stdio) or a URL to connect to (ws:// or http://).
type ServerSpec struct {
	Name    string
	Command string
	Args    []string
	Env     map[string]string
	URL     string
	Headers map[string]string
}

// Resolve turns a command-line server target into a ServerSpec.
//
// Resolution order:
//  1. a name registered in servers.yaml
//  2. a ws://, wss://, http:// or https:// URL
//  3. an existing file, dispatched by extension:
//     .py → uv --directory <dir> run <file>, .js → node, .csproj → dotnet
//     run --project; anything else is executed directly with extraArgs
//  4. a quoted command line ("dotnet run --project …") when no extraArgs
//     were given
//  5. a bare command on PATH, with extraArgs
func Resolve(target string, extraArgs []string, reg *config.ServerRegistry) (ServerSpec, error) {
	if target == "" {
		return ServerSpec{}, fmt.Errorf("empty server target")
	}

	if reg != nil {
		if entry, ok := reg.Lookup(target); ok {
			return specFromEntry(target, entry), nil
		}
	}

	if isURL(target) {
		return ServerSpec{Name: urlName(target), URL: target}, nil
	}

	path := expandUser(target)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return specFromFile(path, extraArgs), nil
	}

	// Not a file: maybe a whole command line in one argument.
	if len(extraArgs) == 0 && strings.ContainsAny(target, " \t") {
		parts, err := shlex.Split(target)
		if err != nil {
			return ServerSpec{}, fmt.Errorf("parse server command %q: %w", target, err)
		}
		if len(parts) > 1 {
			return ServerSpec{Name: filepath.Base(parts[0]), Command: parts[0], Args: parts[1:]}, nil
		}
	}

	// Bare command (dotnet, python, node, …).
	return ServerSpec{Name: filepath.Base(target), Command: target, Args: extraArgs}, nil
}

// specFromFile maps a server entry-point file to the command that runs it.
func specFromFile(path string, extraArgs []string) ServerSpec {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return ServerSpec{
			Name:    name,
			Command: "uv",
			Args:    []string{"--directory", filepath.Dir(path), "run", filepath.Base(path)},
		}
	case ".js":
		return ServerSpec{Name: name, Command: "node", Args: []string{path}}
	case ".csproj":
		return ServerSpec{Name: name, Command: "dotnet", Args: []string{"run", "--project", path}}
	default:
		// Published binary or script with a shebang: run it directly.
		return ServerSpec{Name: name, Command: path, Args: extraArgs}
	}
}

func specFromEntry(name string, e config.ServerEntry) ServerSpec {
	return ServerSpec{
		Name:    name,
		Command: e.Command,
		Args:    e.Args,
		Env:     e.Env,
		URL:     e.URL,
		Headers: e.Headers,
	}
}

// Connect opens the transport appropriate for spec.
func (s ServerSpec) Connect(ctx context.Context) (Transport, error) {
	switch {
	case s.URL != "" && (strings.HasPrefix(s.URL, "ws://") || strings.HasPrefix(s.URL, "wss://")):
		return DialWS(ctx, s.URL, s.Headers)
	case s.URL != "":
		return NewHTTPTransport(s.URL, s.Headers), nil
	case s.Command != "":
		return StartStdio(ctx, s)
	default:
		return nil, fmt.Errorf("MCP server %q: no command or url configured", s.Name)
	}
}

func isURL(s string) bool {
	for _, p := range []string{"ws://", "wss://", "http://", "https://"} {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func urlName(rawURL string) string {
	s := rawURL
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "/:"); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "remote"
	}
	return s
}

func expandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
