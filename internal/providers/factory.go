package providers

import "github.com/toolbridge/toolbridge/internal/schema"

// Params are the raw values needed to construct any schema.LLMProvider.
// Extracted from config.Config by the caller to avoid an import cycle.
type Params struct {
	ProviderName string // "anthropic" | "openai" | "custom"
	APIKey       string
	APIBase      string
	ExtraHeaders map[string]string
	DefaultModel string
}

// New creates the appropriate schema.LLMProvider for the given params.
// Anthropic models use the native Messages API; everything else goes through
// the OpenAI-compatible path.
func New(p Params) schema.LLMProvider {
	if p.ProviderName == "" || p.ProviderName == "anthropic" {
		return NewAnthropicProvider(p.APIKey, p.APIBase, p.DefaultModel, p.ExtraHeaders)
	}
	return NewOpenAICompatProvider(p.APIKey, p.APIBase, p.DefaultModel, p.ExtraHeaders)
}
