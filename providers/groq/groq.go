// Package groq implements Groq via the OpenAI-compatible endpoint.
package groq

import (
	"github.com/modelgate/modelgate/llm"
	"github.com/modelgate/modelgate/providers/openai"
)

const (
	ProviderID = "groq"

	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.3-70b-versatile"
)

func init() {
	llm.AddBuiltin(func() llm.ProviderFactory { return &Factory{} })
}

// Factory creates Groq providers.
type Factory struct{}

func (f *Factory) ProviderID() string  { return ProviderID }
func (f *Factory) DisplayName() string { return "Groq" }
func (f *Factory) Description() string {
	return "Open-weight models on Groq hardware via the OpenAI-compatible API"
}

func (f *Factory) SupportedCapabilities() llm.CapabilitySet {
	return llm.NewCapabilitySet(
		llm.CapChat,
		llm.CapStreaming,
		llm.CapToolCalling,
		llm.CapSpeechToText,
		llm.CapAudioTranslation,
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
	if cfg.APIKey == "" {
		return &llm.AuthError{Message: "groq: API key is required"}
	}
	if cfg.Model == "" {
		return &llm.InvalidRequestError{Message: "groq: model is required"}
	}
	return nil
}

func (f *Factory) Create(cfg llm.Config) (llm.Provider, error) {
	if err := f.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return New(cfg), nil
}

// New builds a Groq provider.
func New(cfg llm.Config, opts ...openai.CompatOption) *openai.Compat {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	all := append([]openai.CompatOption{
		openai.WithProviderID(ProviderID),
	}, opts...)
	return openai.NewCompat(cfg, all...)
}
