// Package xai implements Grok via the OpenAI-compatible endpoint with
// native live-search parameters.
package xai

import (
	"github.com/modelgate/modelgate/llm"
	"github.com/modelgate/modelgate/providers/openai"

	"github.com/tidwall/sjson"
)

const (
	ProviderID = "xai"

	DefaultBaseURL = "https://api.x.ai/v1"
	DefaultModel   = "grok-4"
)

func init() {
	llm.AddBuiltin(func() llm.ProviderFactory { return &Factory{} })
}

// Factory creates xAI providers.
type Factory struct{}

func (f *Factory) ProviderID() string  { return ProviderID }
func (f *Factory) DisplayName() string { return "xAI" }
func (f *Factory) Description() string {
	return "xAI Grok models via the OpenAI-compatible API"
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
		return &llm.AuthError{Message: "xai: API key is required"}
	}
	if cfg.Model == "" {
		return &llm.InvalidRequestError{Message: "xai: model is required"}
	}
	return nil
}

func (f *Factory) Create(cfg llm.Config) (llm.Provider, error) {
	if err := f.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return New(cfg), nil
}

// New builds a Grok provider with the live-search transformer.
func New(cfg llm.Config, opts ...openai.CompatOption) *openai.Compat {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	all := append([]openai.CompatOption{
		openai.WithProviderID(ProviderID),
		openai.WithModelTable(modelTable),
		openai.WithBodyTransformer(transformBody),
	}, opts...)
	return openai.NewCompat(cfg, all...)
}

// searchParamKeys are the webSearchConfig extension keys forwarded to the
// native search_parameters field.
var searchParamKeys = []string{"mode", "from_date", "to_date", "max_search_results", "excluded_websites", "max_uses"}

// transformBody injects search_parameters from the webSearchConfig
// extension. webSearchEnabled alone turns search on in auto mode.
func transformBody(body []byte, cfg llm.Config) ([]byte, error) {
	search, hasConfig := llm.GetExtension[map[string]any](cfg, llm.ExtWebSearchConfig)
	if !hasConfig && !llm.BoolExtension(cfg, llm.ExtWebSearchEnabled) {
		return body, nil
	}

	var err error
	mode := "auto"
	if hasConfig {
		if m, ok := search["mode"].(string); ok && m != "" {
			mode = m
		}
	}
	body, err = sjson.SetBytes(body, "search_parameters.mode", mode)
	if err != nil {
		return nil, &llm.GenericError{Message: "xai: inject search_parameters: " + err.Error()}
	}
	for _, key := range searchParamKeys {
		if key == "mode" {
			continue
		}
		if v, ok := search[key]; ok {
			body, err = sjson.SetBytes(body, "search_parameters."+key, v)
			if err != nil {
				return nil, &llm.GenericError{Message: "xai: inject search_parameters: " + err.Error()}
			}
		}
	}
	return body, nil
}

var modelTable = llm.ModelTable{
	"grok-2": {
		SupportsToolCalling: true,
		MaxContextLength:    131072,
	},
	"grok-2-vision": {
		SupportsVision:      true,
		SupportsToolCalling: true,
		MaxContextLength:    32768,
	},
	"grok-3": {
		SupportsReasoning:   true,
		SupportsToolCalling: true,
		MaxContextLength:    131072,
		ReasoningEfforts:    []string{"low", "high"},
	},
	"grok-3-mini": {
		SupportsReasoning:   true,
		SupportsToolCalling: true,
		MaxContextLength:    131072,
		ReasoningEfforts:    []string{"low", "high"},
	},
	"grok-4": {
		SupportsReasoning:   true,
		SupportsVision:      true,
		SupportsToolCalling: true,
		MaxContextLength:    256000,
	},
}
