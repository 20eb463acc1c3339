// Package openai - OpenAI factory and provider
package openai

import (
	"context"
	"encoding/json"

	"github.com/modelgate/modelgate/llm"
)

const (
	ProviderID = "openai"

	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o"
)

func init() {
	llm.AddBuiltin(func() llm.ProviderFactory { return &Factory{} })
}

// Factory creates OpenAI providers.
type Factory struct{}

func (f *Factory) ProviderID() string  { return ProviderID }
func (f *Factory) DisplayName() string { return "OpenAI" }
func (f *Factory) Description() string {
	return "OpenAI GPT models via the Chat Completions API"
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
		llm.CapTextToSpeech,
		llm.CapSpeechToText,
		llm.CapAudioTranslation,
		llm.CapImageGeneration,
		llm.CapFileManagement,
		llm.CapModeration,
		llm.CapAssistants,
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
		return &llm.AuthError{Message: "openai: API key is required"}
	}
	if cfg.Model == "" {
		return &llm.InvalidRequestError{Message: "openai: model is required"}
	}
	return nil
}

func (f *Factory) Create(cfg llm.Config) (llm.Provider, error) {
	if err := f.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return New(cfg), nil
}

// Provider is the full OpenAI surface: chat via the compat translator plus
// the capability modules (files, audio, images, moderation, assistants,
// embeddings).
type Provider struct {
	*Compat
}

// New builds an OpenAI provider from a validated config.
func New(cfg llm.Config, opts ...CompatOption) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	all := append([]CompatOption{
		WithProviderID(ProviderID),
		WithModelTable(modelTable),
	}, opts...)
	return &Provider{Compat: NewCompat(cfg, all...)}
}

// modelsListResponse is the /models wire response.
type modelsListResponse struct {
	Data []struct {
		ID      string `json:"id"`
		Created int64  `json:"created"`
		OwnedBy string `json:"owned_by"`
	} `json:"data"`
}

// ListModels fetches /models. Works on any OpenAI-compatible endpoint, so it
// lives on Compat and every façade specialization inherits it.
func (c *Compat) ListModels(ctx context.Context) ([]llm.AIModel, error) {
	raw, err := c.sink.GetJSON(ctx, "/models")
	if err != nil {
		return nil, err
	}
	var resp modelsListResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &llm.ResponseFormatError{Message: "openai: malformed models response", Raw: string(raw)}
	}
	models := make([]llm.AIModel, 0, len(resp.Data))
	for _, m := range resp.Data {
		models = append(models, llm.AIModel{
			ID:        m.ID,
			CreatedAt: m.Created,
			OwnedBy:   m.OwnedBy,
		})
	}
	return models, nil
}

var (
	_ llm.Provider     = (*Provider)(nil)
	_ llm.TokenCounter = (*Provider)(nil)
	_ llm.Embedder     = (*Provider)(nil)
	_ llm.ModelLister  = (*Provider)(nil)
	_ llm.FileManager  = (*Provider)(nil)
	_ llm.Moderator    = (*Provider)(nil)

	_ llm.AudioProvider    = (*Provider)(nil)
	_ llm.ImageGenerator   = (*Provider)(nil)
	_ llm.AssistantManager = (*Provider)(nil)
)
