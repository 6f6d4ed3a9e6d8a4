package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toolbridge/toolbridge/internal/config"
)

const sampleServers = `# Named MCP servers. Run one with: toolbridge <name>
servers:
  # weather:
  #   command: uv
  #   args: ["--directory", "~/mcp/weather", "run", "weather.py"]
  # files:
  #   command: npx
  #   args: ["-y", "@modelcontextprotocol/server-filesystem", "/tmp"]
  # remote:
  #   url: ws://localhost:8080/mcp
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration",
	RunE: func(_ *cobra.Command, _ []string) error {
		configPath := config.ConfigPath()
		if _, err := os.Stat(configPath); err == nil {
			fmt.Printf("Config already exists at %s\n", configPath)
		} else {
			cfg := config.DefaultConfig()
			if err := config.Save(&cfg, ""); err != nil {
				return err
			}
			fmt.Printf("✓ Wrote %s\n", configPath)
		}

		serversPath := config.ServersPath()
		if _, err := os.Stat(serversPath); err == nil {
			fmt.Printf("Server registry already exists at %s\n", serversPath)
		} else {
			if err := os.WriteFile(serversPath, []byte(sampleServers), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", serversPath, err)
			}
			fmt.Printf("✓ Wrote %s\n", serversPath)
		}

		fmt.Println("\nNext steps:")
		fmt.Println("  1. export ANTHROPIC_API_KEY=<your key>")
		fmt.Println("  2. Register servers in", serversPath)
		fmt.Println("  3. toolbridge <server> to start chatting")
		return nil
	},
}
