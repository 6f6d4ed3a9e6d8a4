package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toolbridge/toolbridge/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration status",
	RunE: func(_ *cobra.Command, _ []string) error {
		config.LoadDotEnv()

		cfg, err := config.Load("")
		if err != nil {
			return err
		}
		config.ApplyEnv(cfg)

		fmt.Printf("%s toolbridge v%s\n\n", logo, version)

		configMark := "✗ (using defaults)"
		if _, err := os.Stat(config.ConfigPath()); err == nil {
			configMark = "✓"
		}
		fmt.Printf("%-20s %s %s\n", "Config:", config.ConfigPath(), configMark)

		providerName, pc := cfg.ActiveProvider()
		fmt.Printf("%-20s %s\n", "Provider:", providerName)
		fmt.Printf("%-20s %s\n", "Model:", cfg.Defaults.Model)

		keyMark := "✗ not set"
		if pc.APIKey != "" {
			keyMark = "✓ set"
		}
		fmt.Printf("%-20s %s\n", "API key:", keyMark)
		if pc.APIBase != "" {
			fmt.Printf("%-20s %s\n", "API base:", pc.APIBase)
		}

		registry, err := config.LoadServers("")
		if err != nil {
			fmt.Printf("%-20s ✗ %v\n", "Servers:", err)
			return nil
		}
		names := registry.Names()
		if len(names) == 0 {
			fmt.Printf("%-20s none registered (%s)\n", "Servers:", config.ServersPath())
			return nil
		}
		fmt.Printf("%-20s %d registered\n", "Servers:", len(names))
		for _, name := range names {
			fmt.Printf("  - %s\n", name)
		}
		return nil
	},
}
