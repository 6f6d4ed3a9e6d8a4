package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/toolbridge/toolbridge/internal/config"
	"github.com/toolbridge/toolbridge/internal/mcp"
	"github.com/toolbridge/toolbridge/internal/shared/llmutils"
)

var toolsCmd = &cobra.Command{
	Use:   "tools <server> [server-args...]",
	Short: "List the tools exposed by an MCP server",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		setupLogging()
		config.LoadDotEnv()

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		client, infos, err := dialTarget(ctx, args[0], args[1:])
		if err != nil {
			return err
		}
		defer client.Close()

		if server := client.Server(); server.Name != "" {
			fmt.Printf("Server: %s %s\n\n", server.Name, server.Version)
		}
		if len(infos) == 0 {
			fmt.Println("No tools exposed.")
			return nil
		}
		fmt.Printf("%-28s %s\n", "Tool", "Description")
		fmt.Printf("%-28s %s\n", "----", "-----------")
		for _, info := range infos {
			fmt.Printf("%-28s %s\n", info.Name, llmutils.Truncate(oneLine(info.Description), 80))
		}
		return nil
	},
}

// dialTarget resolves a server target against the registry and opens a session.
func dialTarget(ctx context.Context, target string, serverArgs []string) (*mcp.Client, []mcp.ToolInfo, error) {
	registry, err := config.LoadServers("")
	if err != nil {
		return nil, nil, err
	}
	spec, err := mcp.Resolve(target, serverArgs, registry)
	if err != nil {
		return nil, nil, err
	}
	return mcp.Dial(ctx, spec)
}

func oneLine(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			r = ' '
		}
		out = append(out, r)
	}
	return string(out)
}
