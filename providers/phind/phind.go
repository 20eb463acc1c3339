// Package phind implements Phind via the OpenAI-compatible endpoint.
package phind

import (
	"github.com/modelgate/modelgate/llm"
	"github.com/modelgate/modelgate/providers/openai"
)

const (
	ProviderID = "phind"

	DefaultBaseURL = "https://api.phind.com/v1"
	DefaultModel   = "phind-70b"
)

func init() {
	llm.AddBuiltin(func() llm.ProviderFactory { return &Factory{} })
}

// Factory creates Phind providers.
type Factory struct{}

func (f *Factory) ProviderID() string  { return ProviderID }
func (f *Factory) DisplayName() string { return "Phind" }
func (f *Factory) Description() string {
	return "Phind coding models via the OpenAI-compatible API"
}

func (f *Factory) SupportedCapabilities() llm.CapabilitySet {
	return llm.NewCapabilitySet(
		llm.CapChat,
		llm.CapStreaming,
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
		return &llm.AuthError{Message: "phind: API key is required"}
	}
	if cfg.Model == "" {
		return &llm.InvalidRequestError{Message: "phind: model is required"}
	}
	return nil
}

func (f *Factory) Create(cfg llm.Config) (llm.Provider, error) {
	if err := f.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return New(cfg), nil
}

// New builds a Phind provider.
func New(cfg llm.Config, opts ...openai.CompatOption) *openai.Compat {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	all := append([]openai.CompatOption{
		openai.WithProviderID(ProviderID),
	}, opts...)
	return openai.NewCompat(cfg, all...)
}
