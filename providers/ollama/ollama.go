// Package ollama implements local models via Ollama's OpenAI-compatible
// endpoint. No API key is required.
package ollama

import (
	"github.com/modelgate/modelgate/llm"
	"github.com/modelgate/modelgate/providers/openai"
)

const (
	ProviderID = "ollama"

	DefaultBaseURL = "http://localhost:11434/v1"
	DefaultModel   = "llama3.2"
)

func init() {
	llm.AddBuiltin(func() llm.ProviderFactory { return &Factory{} })
}

// Factory creates Ollama providers.
type Factory struct{}

func (f *Factory) ProviderID() string  { return ProviderID }
func (f *Factory) DisplayName() string { return "Ollama" }
func (f *Factory) Description() string {
	return "Local models via Ollama's OpenAI-compatible API"
}

func (f *Factory) SupportedCapabilities() llm.CapabilitySet {
	return llm.NewCapabilitySet(
		llm.CapChat,
		llm.CapStreaming,
		llm.CapToolCalling,
		llm.CapVision,
		llm.CapEmbedding,
		llm.CapModelListing,
	)
}

func (f *Factory) DefaultConfig() llm.Config {
	return llm.Config{
		BaseURL: DefaultBaseURL,
		Model:   DefaultModel,
	}
}

func (f *Factory) ValidateConfig(cfg llm.Config) error {
	if cfg.Model == "" {
		return &llm.InvalidRequestError{Message: "ollama: model is required"}
	}
	return nil
}

func (f *Factory) Create(cfg llm.Config) (llm.Provider, error) {
	if err := f.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return New(cfg), nil
}

// New builds an Ollama provider.
func New(cfg llm.Config, opts ...openai.CompatOption) *openai.Compat {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	all := append([]openai.CompatOption{
		openai.WithProviderID(ProviderID),
		openai.WithoutAuth(),
	}, opts...)
	return openai.NewCompat(cfg, all...)
}
