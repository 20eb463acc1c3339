// Package deepseek implements DeepSeek via the OpenAI-compatible endpoint.
package deepseek

import (
	"github.com/modelgate/modelgate/llm"
	"github.com/modelgate/modelgate/providers/openai"
)

const (
	ProviderID = "deepseek"

	DefaultBaseURL = "https://api.deepseek.com/v1"
	DefaultModel   = "deepseek-chat"
)

func init() {
	llm.AddBuiltin(func() llm.ProviderFactory { return &Factory{} })
}

// Factory creates DeepSeek providers.
type Factory struct{}

func (f *Factory) ProviderID() string  { return ProviderID }
func (f *Factory) DisplayName() string { return "DeepSeek" }
func (f *Factory) Description() string {
	return "DeepSeek chat and reasoner models via the OpenAI-compatible API"
}

func (f *Factory) SupportedCapabilities() llm.CapabilitySet {
	return llm.NewCapabilitySet(
		llm.CapChat,
		llm.CapStreaming,
		llm.CapToolCalling,
		llm.CapReasoning,
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
		return &llm.AuthError{Message: "deepseek: API key is required"}
	}
	if cfg.Model == "" {
		return &llm.InvalidRequestError{Message: "deepseek: model is required"}
	}
	return nil
}

func (f *Factory) Create(cfg llm.Config) (llm.Provider, error) {
	if err := f.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return New(cfg), nil
}

// New builds a DeepSeek provider. The reasoner model streams its chain of
// thought in reasoning_content, which the compat translator already
// surfaces as ThinkingDelta.
func New(cfg llm.Config, opts ...openai.CompatOption) *openai.Compat {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	all := append([]openai.CompatOption{
		openai.WithProviderID(ProviderID),
		openai.WithModelTable(modelTable),
	}, opts...)
	return openai.NewCompat(cfg, all...)
}

var modelTable = llm.ModelTable{
	"deepseek-chat": {
		SupportsToolCalling: true,
		MaxContextLength:    65536,
	},
	"deepseek-reasoner": {
		SupportsReasoning:   true,
		SupportsToolCalling: true,
		MaxContextLength:    65536,
		DisableTemperature:  true,
		DisableTopP:         true,
	},
}
