// Package modelgate is a unified client for LLM providers. Importing it
// registers the built-in providers; callers create handles through the
// registry or the convenience constructors.
package modelgate

import (
	"context"

	"github.com/modelgate/modelgate/llm"

	_ "github.com/modelgate/modelgate/providers/anthropic"
	_ "github.com/modelgate/modelgate/providers/deepseek"
	_ "github.com/modelgate/modelgate/providers/elevenlabs"
	_ "github.com/modelgate/modelgate/providers/google"
	_ "github.com/modelgate/modelgate/providers/groq"
	_ "github.com/modelgate/modelgate/providers/ollama"
	_ "github.com/modelgate/modelgate/providers/openai"
	_ "github.com/modelgate/modelgate/providers/openrouter"
	_ "github.com/modelgate/modelgate/providers/phind"
	_ "github.com/modelgate/modelgate/providers/xai"
)

// New creates a provider by registry ID with the given config.
func New(providerID string, cfg llm.Config) (llm.Provider, error) {
	return llm.CreateProvider(providerID, cfg)
}

// Chat is a one-shot convenience: create a provider, send one user message,
// return the response text.
func Chat(ctx context.Context, providerID string, cfg llm.Config, prompt string) (string, error) {
	p, err := New(providerID, cfg)
	if err != nil {
		return "", err
	}
	resp, err := p.Chat(ctx, []llm.Message{llm.NewUserMessage(prompt)})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Providers lists the registered providers and their capabilities.
func Providers() []llm.ProviderInfo {
	return llm.Default().AllProviderInfo()
}
