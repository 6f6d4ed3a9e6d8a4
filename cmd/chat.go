package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/toolbridge/toolbridge/internal/config"
	"github.com/toolbridge/toolbridge/internal/dependency"
	"github.com/toolbridge/toolbridge/internal/mcp"
	"github.com/toolbridge/toolbridge/internal/session"
)

var (
	chatMessage string
	chatSession string
)

var chatCmd = &cobra.Command{
	Use:   "chat <server> [server-args...]",
	Short: "Connect to an MCP server and chat with tool access",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runChat(args[0], args[1:])
	},
}

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Send a single message and exit")
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "", "Resume or name a session")
	// The root command delegates here, so the flags must work there too.
	rootCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Send a single message and exit")
	rootCmd.Flags().StringVarP(&chatSession, "session", "s", "", "Resume or name a session")
}

var exitCommands = map[string]bool{
	"exit":  true,
	"quit":  true,
	"/exit": true,
	"/quit": true,
	":q":    true,
}

func runChat(target string, serverArgs []string) error {
	setupLogging()
	config.LoadDotEnv()

	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	config.ApplyEnv(cfg)

	registry, err := config.LoadServers("")
	if err != nil {
		return err
	}

	spec, err := mcp.Resolve(target, serverArgs, registry)
	if err != nil {
		return err
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := mcp.NewManager(spec)
	defer manager.Close()
	listenForSignals(cancel, manager)

	if err := manager.Connect(ctx, container.ToolList()); err != nil {
		return fmt.Errorf("connect to %s: %w", spec.Name, err)
	}

	fmt.Printf("\nConnected to server with tools: %v\n", manager.ToolNames())

	_, providerCfg := cfg.ActiveProvider()
	if providerCfg.APIKey == "" {
		fmt.Printf("\nNo %s found. To query these tools with an LLM, set your API key:\n", config.EnvAnthropicKey)
		fmt.Printf("  export %s=your-api-key-here\n", config.EnvAnthropicKey)
		return nil
	}

	key := chatSession
	if key == "" {
		key = session.NewKey()
	}
	sess := container.Sessions().GetOrCreate(key)
	sess.Server = spec.Name

	if chatMessage != "" {
		return runSingleMessage(ctx, container, sess)
	}
	return runInteractive(ctx, container, sess)
}

// runSingleMessage sends one query through the relay loop and prints the response.
func runSingleMessage(ctx context.Context, container *dependency.Container, sess *session.Session) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	fmt.Fprintf(os.Stderr, "  ↳ thinking...\n")
	response, err := processQuery(ctx, container, sess, chatMessage)
	if err != nil {
		return err
	}

	printResponse(response)
	return nil
}

// runInteractive starts the REPL: reads queries from stdin, relays each
// through the loop, and prints the final answer before prompting again.
func runInteractive(ctx context.Context, container *dependency.Container, sess *session.Session) error {
	fmt.Println("\nMCP Client Started!")
	fmt.Println("Type your queries or 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\nQuery: ")

		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if exitCommands[strings.ToLower(line)] {
			fmt.Println("Goodbye!")
			return nil
		}

		response, err := processQuery(ctx, container, sess, line)
		if err != nil {
			fmt.Printf("\nError: %v\n", err)
			continue
		}
		printResponse(response)
	}
}

// processQuery runs one query through the relay loop and persists the transcript.
func processQuery(ctx context.Context, container *dependency.Container, sess *session.Session, query string) (string, error) {
	loop := container.Loop()

	conversation := sess.Snapshot()
	if conversation.Len() == 0 {
		conversation = loop.NewConversation()
	}

	response, err := loop.Process(ctx, &conversation, query, func(progress string) {
		fmt.Printf("  ↳ %s\n", progress)
	})
	if err != nil {
		return "", err
	}

	sess.Replace(conversation)
	if saveErr := container.Sessions().Save(sess); saveErr != nil {
		fmt.Fprintf(os.Stderr, "warning: save session: %v\n", saveErr)
	}
	return response, nil
}

// listenForSignals kills the server subprocess and exits on SIGINT/SIGTERM.
func listenForSignals(cancel context.CancelFunc, manager *mcp.Manager) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nGoodbye!")
		cancel()
		manager.Close()
		os.Exit(0)
	}()
}

func printResponse(text string) {
	fmt.Printf("\n%s\n", text)
}
