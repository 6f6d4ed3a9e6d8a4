// Package agent runs the LLM ↔ tool relay loop: send the conversation and
// tool definitions to the provider, execute any requested tools against their
// MCP servers, feed results back, and repeat until the model answers in text.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/toolbridge/toolbridge/internal/schema"
	"github.com/toolbridge/toolbridge/internal/shared/llmutils"
	"github.com/toolbridge/toolbridge/internal/tools"
)

// Settings configures the relay loop.
type Settings struct {
	Model        string
	MaxTokens    int
	Temperature  float64
	MaxIter      int
	SystemPrompt string
}

// Loop drives one conversation against a provider and a tool list.
type Loop struct {
	provider schema.LLMProvider
	tools    *tools.ToolList
	settings Settings
}

// NewLoop creates a Loop. tls is shared with the MCP manager, which keeps
// registering tools into it as servers connect.
func NewLoop(provider schema.LLMProvider, tls *tools.ToolList, settings Settings) *Loop {
	if settings.MaxIter <= 0 {
		settings.MaxIter = 20
	}
	return &Loop{provider: provider, tools: tls, settings: settings}
}

// Tools returns the tool list the loop exposes to the LLM.
func (l *Loop) Tools() *tools.ToolList { return l.tools }

// NewConversation returns a Messages seeded with the configured system prompt.
func (l *Loop) NewConversation() schema.Messages {
	conv := schema.NewMessages()
	if l.settings.SystemPrompt != "" {
		conv.AddSystem(l.settings.SystemPrompt)
	}
	return conv
}

// Process appends the user query to conversation and runs the relay loop
// until the model produces a text-only answer or MaxIter is reached.
// Assistant turns and tool results are appended to conversation in place.
// onProgress, when non-nil, receives short status lines while tools run.
func (l *Loop) Process(ctx context.Context, conversation *schema.Messages, query string, onProgress func(string)) (string, error) {
	conversation.AddUser(query)

	for i := 0; i < l.settings.MaxIter; i++ {
		resp, err := l.provider.Chat(ctx,
			*conversation,
			l.tools.Definitions(),
			schema.NewChatOptions(l.settings.Model, l.settings.MaxTokens, l.settings.Temperature),
		)
		if err != nil {
			return "", fmt.Errorf("LLM request: %w", err)
		}

		if !resp.HasToolCalls() {
			conversation.AddAssistant(resp.Content, nil)
			return llmutils.StripThink(resp.Content), nil
		}

		if onProgress != nil {
			if clean := llmutils.StripThink(resp.Content); clean != "" {
				onProgress(clean)
			}
			onProgress(llmutils.ToolHint(resp.ToolCalls))
		}

		conversation.AddAssistant(resp.Content, resp.ToolCalls)

		for _, tc := range resp.ToolCalls {
			conversation.AddToolResult(tc.ID, tc.Name, l.execute(ctx, tc))
		}
	}

	return "", fmt.Errorf("no final answer after %d tool iterations", l.settings.MaxIter)
}

// execute runs one requested tool, flattening every failure into a result
// string the model can react to.
func (l *Loop) execute(ctx context.Context, tc schema.ToolCall) string {
	argsJSON, _ := json.Marshal(tc.Arguments)
	slog.Info("Tool call", "name", tc.Name, "args", llmutils.Truncate(string(argsJSON), 200))

	t := l.tools.Get(tc.Name)
	if t == nil {
		return fmt.Sprintf("Error: Tool '%s' not found", tc.Name)
	}
	result, err := t.Execute(ctx, tc.Arguments)
	if err != nil {
		slog.Error("Tool failed", "name", tc.Name, "err", err)
		return fmt.Sprintf("Error: %v", err)
	}
	return result
}
