// Package google implements Gemini via the OpenAI-compatible endpoint.
package google

import (
	"github.com/modelgate/modelgate/llm"
	"github.com/modelgate/modelgate/providers/openai"

	"github.com/tidwall/sjson"
)

const (
	ProviderID = "google"

	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultModel   = "gemini-2.5-flash"
)

func init() {
	llm.AddBuiltin(func() llm.ProviderFactory { return &Factory{} })
}

// Factory creates Google Gemini providers.
type Factory struct{}

func (f *Factory) ProviderID() string  { return ProviderID }
func (f *Factory) DisplayName() string { return "Google Gemini" }
func (f *Factory) Description() string {
	return "Google Gemini models via the OpenAI-compatible endpoint"
}

func (f *Factory) SupportedCapabilities() llm.CapabilitySet {
	return llm.NewCapabilitySet(
		llm.CapChat,
		llm.CapStreaming,
		llm.CapToolCalling,
		llm.CapReasoning,
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
	if cfg.APIKey == "" {
		return &llm.AuthError{Message: "google: API key is required"}
	}
	if cfg.Model == "" {
		return &llm.InvalidRequestError{Message: "google: model is required"}
	}
	return nil
}

func (f *Factory) Create(cfg llm.Config) (llm.Provider, error) {
	if err := f.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return New(cfg), nil
}

// New builds a Gemini provider with the thinking-config transformers.
func New(cfg llm.Config, opts ...openai.CompatOption) *openai.Compat {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	all := append([]openai.CompatOption{
		openai.WithProviderID(ProviderID),
		openai.WithModelTable(modelTable),
		openai.WithBodyTransformer(transformBody),
		openai.WithHeaderTransformer(transformHeaders),
	}, opts...)
	return openai.NewCompat(cfg, all...)
}

// reasoningRequested reports whether any thinking knob is set.
func reasoningRequested(cfg llm.Config) bool {
	if llm.BoolExtension(cfg, llm.ExtReasoning) || llm.BoolExtension(cfg, llm.ExtIncludeThoughts) {
		return true
	}
	_, ok := llm.IntExtension(cfg, llm.ExtThinkingBudgetTokens)
	return ok
}

// transformBody injects the Gemini thinking configuration under extra_body,
// which the OpenAI-compatible endpoint forwards to the native API.
func transformBody(body []byte, cfg llm.Config) ([]byte, error) {
	var err error
	if reasoningRequested(cfg) {
		body, err = sjson.SetBytes(body, "extra_body.config.thinkingConfig.includeThoughts", true)
		if err != nil {
			return nil, &llm.GenericError{Message: "google: inject thinkingConfig: " + err.Error()}
		}
		if budget, ok := llm.IntExtension(cfg, llm.ExtThinkingBudgetTokens); ok {
			body, err = sjson.SetBytes(body, "extra_body.config.thinkingConfig.thinkingBudget", budget)
			if err != nil {
				return nil, &llm.GenericError{Message: "google: inject thinkingBudget: " + err.Error()}
			}
		}
	}
	if effort := llm.EffortFromExtension(cfg); effort != "" {
		body, err = sjson.SetBytes(body, "extra_body.reasoning_effort", effort)
		if err != nil {
			return nil, &llm.GenericError{Message: "google: inject reasoning_effort: " + err.Error()}
		}
	}
	return body, nil
}

func transformHeaders(headers map[string]string, cfg llm.Config) map[string]string {
	if reasoningRequested(cfg) {
		headers["X-Goog-Include-Thoughts"] = "true"
	}
	return headers
}

var modelTable = llm.ModelTable{
	"gemini-1.5-pro": {
		SupportsVision:      true,
		SupportsToolCalling: true,
		MaxContextLength:    2097152,
	},
	"gemini-1.5-flash": {
		SupportsVision:      true,
		SupportsToolCalling: true,
		MaxContextLength:    1048576,
	},
	"gemini-2.0-flash": {
		SupportsVision:      true,
		SupportsToolCalling: true,
		MaxContextLength:    1048576,
	},
	"gemini-2.5-pro": {
		SupportsReasoning:       true,
		SupportsVision:          true,
		SupportsToolCalling:     true,
		MaxContextLength:        1048576,
		MaxThinkingBudgetTokens: 32768,
	},
	"gemini-2.5-flash": {
		SupportsReasoning:       true,
		SupportsVision:          true,
		SupportsToolCalling:     true,
		MaxContextLength:        1048576,
		MaxThinkingBudgetTokens: 24576,
	},
}
