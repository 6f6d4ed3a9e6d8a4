// Package cmd implements the toolbridge CLI using cobra.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"
const logo = "🔌"

// rootCmd is the base command. Invoked with a positional argument it behaves
// like `toolbridge chat`, so the documented surface
// `toolbridge /path/to/server.py` works without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "toolbridge <server> [server-args...]",
	Short: logo + " toolbridge — MCP client for LLM tool calling",
	Long: logo + ` toolbridge — launch a Model Context Protocol server and relay
tool calls between it and an LLM.

The server argument is a path to a server entry point (.py, .js, .csproj or an
executable), a name from the servers registry, a ws:// or http:// URL, or a
bare command line.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			_ = cmd.Usage()
			return fmt.Errorf("server target required")
		}
		return runChat(args[0], args[1:])
	},
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var showLogs bool

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().BoolVar(&showLogs, "logs", false, "Show runtime logs")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(serversCmd)
	rootCmd.AddCommand(cronCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(initCmd)
}

// setupLogging keeps the REPL clean by default; --logs raises verbosity.
func setupLogging() {
	level := slog.LevelWarn
	if showLogs {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
