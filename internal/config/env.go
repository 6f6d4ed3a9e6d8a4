package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variables recognised by toolbridge. Values from the environment
// take precedence over the config file so `export ANTHROPIC_API_KEY=…` works
// without any config.json at all.
const (
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvModel        = "TOOLBRIDGE_MODEL"
)

// LoadDotEnv loads a .env file from the current directory, if present.
// Existing environment variables are never overwritten.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// ApplyEnv overlays environment-provided values onto cfg.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvAnthropicKey); v != "" {
		cfg.Providers.Anthropic.APIKey = v
	}
	if v := os.Getenv(EnvOpenAIKey); v != "" {
		cfg.Providers.OpenAI.APIKey = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		cfg.Defaults.Model = v
	}
}
