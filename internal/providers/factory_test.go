package providers

import "testing"

func TestNew_ProviderSelection(t *testing.T) {
	if _, ok := New(Params{ProviderName: "anthropic"}).(*AnthropicProvider); !ok {
		t.Error("anthropic should yield AnthropicProvider")
	}
	if _, ok := New(Params{}).(*AnthropicProvider); !ok {
		t.Error("empty provider name should default to AnthropicProvider")
	}
	if _, ok := New(Params{ProviderName: "openai"}).(*OpenAICompatProvider); !ok {
		t.Error("openai should yield OpenAICompatProvider")
	}
	if _, ok := New(Params{ProviderName: "custom"}).(*OpenAICompatProvider); !ok {
		t.Error("custom should yield OpenAICompatProvider")
	}
}

func TestNew_DefaultModelCarried(t *testing.T) {
	p := New(Params{ProviderName: "anthropic", DefaultModel: "claude-sonnet-4-5"})
	if p.DefaultModel() != "claude-sonnet-4-5" {
		t.Errorf("DefaultModel() = %q", p.DefaultModel())
	}
}
