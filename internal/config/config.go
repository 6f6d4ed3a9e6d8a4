// Package config defines the configuration schema for toolbridge.
//
// The config file lives at ~/.toolbridge/config.json and uses camelCase JSON
// keys. Credentials may also come from the environment (see env.go), which
// takes precedence over the file.
package config

// ProviderConfig holds credentials for one LLM provider.
type ProviderConfig struct {
	APIKey       string            `json:"apiKey"`
	APIBase      string            `json:"apiBase,omitempty"`
	ExtraHeaders map[string]string `json:"extraHeaders,omitempty"`
}

// ProvidersConfig holds credentials for the supported LLM providers.
type ProvidersConfig struct {
	Anthropic ProviderConfig `json:"anthropic"`
	OpenAI    ProviderConfig `json:"openai"`
	Custom    ProviderConfig `json:"custom"`
}

// Defaults holds default values for the conversation loop.
type Defaults struct {
	Provider     string  `json:"provider"` // "anthropic" | "openai" | "custom"
	Model        string  `json:"model"`
	MaxTokens    int     `json:"maxTokens"`
	Temperature  float64 `json:"temperature"`
	MaxToolIter  int     `json:"maxToolIterations"`
	SystemPrompt string  `json:"systemPrompt,omitempty"`
}

// Config is the root configuration object.
type Config struct {
	Providers ProvidersConfig `json:"providers"`
	Defaults  Defaults        `json:"defaults"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Defaults: Defaults{
			Provider:    "anthropic",
			Model:       "claude-sonnet-4-5",
			MaxTokens:   1000,
			Temperature: 0.7,
			MaxToolIter: 20,
		},
	}
}

// ActiveProvider returns the credentials for the configured default provider.
func (c *Config) ActiveProvider() (name string, pc ProviderConfig) {
	switch c.Defaults.Provider {
	case "openai":
		return "openai", c.Providers.OpenAI
	case "custom":
		return "custom", c.Providers.Custom
	default:
		return "anthropic", c.Providers.Anthropic
	}
}
