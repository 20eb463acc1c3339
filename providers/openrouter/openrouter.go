// Package openrouter implements the OpenRouter aggregator with plugin-based
// web search.
package openrouter

import (
	"strings"

	"github.com/modelgate/modelgate/llm"
	"github.com/modelgate/modelgate/providers/openai"

	"github.com/tidwall/sjson"
)

const (
	ProviderID = "openrouter"

	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "anthropic/claude-sonnet-4"
)

func init() {
	llm.AddBuiltin(func() llm.ProviderFactory { return &Factory{} })
}

// Factory creates OpenRouter providers.
type Factory struct{}

func (f *Factory) ProviderID() string  { return ProviderID }
func (f *Factory) DisplayName() string { return "OpenRouter" }
func (f *Factory) Description() string {
	return "Multi-vendor model routing via the OpenRouter API"
}

func (f *Factory) SupportedCapabilities() llm.CapabilitySet {
	return llm.NewCapabilitySet(
		llm.CapChat,
		llm.CapStreaming,
		llm.CapToolCalling,
		llm.CapReasoning,
		llm.CapVision,
		llm.CapLiveSearch,
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
		return &llm.AuthError{Message: "openrouter: API key is required"}
	}
	if cfg.Model == "" {
		return &llm.InvalidRequestError{Message: "openrouter: model is required"}
	}
	return nil
}

func (f *Factory) Create(cfg llm.Config) (llm.Provider, error) {
	if err := f.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return New(cfg), nil
}

// New builds an OpenRouter provider with the web plugin transformer.
func New(cfg llm.Config, opts ...openai.CompatOption) *openai.Compat {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	all := append([]openai.CompatOption{
		openai.WithProviderID(ProviderID),
		openai.WithBodyTransformer(transformBody),
	}, opts...)
	return openai.NewCompat(cfg, all...)
}

// transformBody turns on web search either by the ":online" model shortcut
// or by attaching the web plugin with an optional search_prompt.
func transformBody(body []byte, cfg llm.Config) ([]byte, error) {
	if !llm.BoolExtension(cfg, llm.ExtWebSearchEnabled) && !cfg.HasExtension(llm.ExtWebSearchConfig) {
		return body, nil
	}

	search, _ := llm.GetExtension[map[string]any](cfg, llm.ExtWebSearchConfig)
	if prompt, ok := search["search_prompt"].(string); ok && prompt != "" {
		plugin := map[string]any{"id": "web", "search_prompt": prompt}
		if max, ok := search["max_results"]; ok {
			plugin["max_results"] = max
		}
		out, err := sjson.SetBytes(body, "plugins", []any{plugin})
		if err != nil {
			return nil, &llm.GenericError{Message: "openrouter: inject web plugin: " + err.Error()}
		}
		return out, nil
	}

	// Without plugin options the ":online" shortcut suffices.
	if !strings.HasSuffix(cfg.Model, ":online") {
		out, err := sjson.SetBytes(body, "model", cfg.Model+":online")
		if err != nil {
			return nil, &llm.GenericError{Message: "openrouter: set online model: " + err.Error()}
		}
		return out, nil
	}
	return body, nil
}
