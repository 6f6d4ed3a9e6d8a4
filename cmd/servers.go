package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toolbridge/toolbridge/internal/config"
)

var serversCmd = &cobra.Command{
	Use:   "servers",
	Short: "List the named MCP servers registered in servers.yaml",
	RunE: func(_ *cobra.Command, _ []string) error {
		registry, err := config.LoadServers("")
		if err != nil {
			return err
		}
		if len(registry.Servers) == 0 {
			fmt.Printf("No servers registered. Add entries to %s\n", config.ServersPath())
			return nil
		}

		fmt.Printf("%-20s %s\n", "Name", "Target")
		fmt.Printf("%-20s %s\n", "----", "------")
		for _, name := range registry.Names() {
			entry := registry.Servers[name]
			target := entry.URL
			if target == "" {
				target = strings.TrimSpace(entry.Command + " " + strings.Join(entry.Args, " "))
			}
			fmt.Printf("%-20s %s\n", name, target)
		}
		return nil
	},
}
