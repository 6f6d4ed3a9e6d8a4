package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/toolbridge/toolbridge/internal/config"
	"github.com/toolbridge/toolbridge/internal/mcp"
)

var (
	callArgs    string
	callTimeout time.Duration
)

var callCmd = &cobra.Command{
	Use:   "call <server> <tool>",
	Short: "Invoke a single tool on an MCP server (no LLM involved)",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		setupLogging()
		config.LoadDotEnv()

		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		client, infos, err := dialTarget(ctx, args[0], nil)
		if err != nil {
			return err
		}
		defer client.Close()

		toolName := args[1]
		var info *mcp.ToolInfo
		for i := range infos {
			if infos[i].Name == toolName {
				info = &infos[i]
				break
			}
		}
		if info == nil {
			return fmt.Errorf("tool %q not found on server %s (has: %s)", toolName, client.Name(), toolNames(infos))
		}

		params := map[string]any{}
		if callArgs != "" {
			if err := json.Unmarshal([]byte(callArgs), &params); err != nil {
				return fmt.Errorf("parse --args: %w", err)
			}
		}

		result, err := mcp.WrapTool(client, *info).Execute(ctx, params)
		if err != nil {
			return err
		}
		fmt.Println(result)
		return nil
	},
}

func init() {
	callCmd.Flags().StringVarP(&callArgs, "args", "a", "", "Tool arguments as a JSON object")
	callCmd.Flags().DurationVar(&callTimeout, "timeout", 2*time.Minute, "Overall timeout")
}

func toolNames(infos []mcp.ToolInfo) string {
	names := ""
	for i, info := range infos {
		if i > 0 {
			names += ", "
		}
		names += info.Name
	}
	return names
}
