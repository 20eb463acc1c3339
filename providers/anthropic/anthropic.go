// Package anthropic implements the Anthropic Messages API provider.
package anthropic

import (
	"context"
	"time"

	"github.com/modelgate/modelgate/llm"
	"github.com/modelgate/modelgate/llm/transport"

	. "github.com/modelgate/modelgate/internal/logging"
)

const (
	ProviderID = "anthropic"

	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-sonnet-4-20250514"

	apiVersion = "2023-06-01"

	// Beta flags composed into the anthropic-beta header.
	betaOutput128k          = "output-128k-2025-02-19"
	betaInterleavedThinking = "interleaved-thinking-2025-05-14"
	betaFilesAPI            = "files-api-2025-04-14"
	betaMCPClient           = "mcp-client-2025-04-04"
)

func init() {
	llm.AddBuiltin(func() llm.ProviderFactory { return &Factory{} })
}

// Factory creates Anthropic providers.
type Factory struct{}

func (f *Factory) ProviderID() string  { return ProviderID }
func (f *Factory) DisplayName() string { return "Anthropic" }
func (f *Factory) Description() string {
	return "Anthropic Claude models via the Messages API"
}

func (f *Factory) SupportedCapabilities() llm.CapabilitySet {
	return llm.NewCapabilitySet(
		llm.CapChat,
		llm.CapStreaming,
		llm.CapToolCalling,
		llm.CapReasoning,
		llm.CapVision,
		llm.CapModelListing,
		llm.CapFileManagement,
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
		return &llm.AuthError{Message: "anthropic: API key is required"}
	}
	if cfg.Model == "" {
		return &llm.InvalidRequestError{Message: "anthropic: model is required"}
	}
	if budget, ok := llm.IntExtension(cfg, llm.ExtThinkingBudgetTokens); ok {
		caps := capsForModel(cfg.Model)
		if caps.MaxThinkingBudgetTokens > 0 && budget > caps.MaxThinkingBudgetTokens {
			return &llm.InvalidRequestError{Message: "anthropic: thinking budget exceeds model maximum"}
		}
	}
	return nil
}

func (f *Factory) Create(cfg llm.Config) (llm.Provider, error) {
	if err := f.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return New(cfg), nil
}

// Provider talks to the Anthropic Messages API. It holds two sinks because
// the files endpoints require a different anthropic-beta header than chat.
type Provider struct {
	cfg      llm.Config
	sink     transport.Sink
	fileSink transport.Sink
}

// New builds a provider from a validated config.
func New(cfg llm.Config) *Provider {
	opts := []transport.Option{
		transport.WithHeader("x-api-key", cfg.APIKey),
		transport.WithHeader("anthropic-version", apiVersion),
		transport.WithHeader("anthropic-beta", chatBetaHeader(cfg)),
	}
	if cfg.TimeoutSeconds > 0 {
		opts = append(opts, transport.WithJSONTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
		opts = append(opts, transport.WithStreamTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	fileOpts := []transport.Option{
		transport.WithHeader("x-api-key", cfg.APIKey),
		transport.WithHeader("anthropic-version", apiVersion),
		transport.WithHeader("anthropic-beta", betaFilesAPI),
	}

	return &Provider{
		cfg:      cfg,
		sink:     transport.New(base, opts...),
		fileSink: transport.New(base, fileOpts...),
	}
}

// NewWithSinks injects transport sinks; the caller retains ownership.
// Test constructor.
func NewWithSinks(cfg llm.Config, sink, fileSink transport.Sink) *Provider {
	return &Provider{cfg: cfg, sink: sink, fileSink: fileSink}
}

// chatBetaHeader composes the anthropic-beta header for chat calls.
func chatBetaHeader(cfg llm.Config) string {
	header := betaOutput128k
	if llm.BoolExtension(cfg, llm.ExtInterleavedThinking) {
		header += "," + betaInterleavedThinking
	}
	if cfg.HasExtension(llm.ExtMCPServers) {
		header += "," + betaMCPClient
	}
	return header
}

func (p *Provider) ProviderID() string { return ProviderID }
func (p *Provider) Model() string      { return p.cfg.Model }

// Chat sends the conversation and parses the normalized response.
func (p *Provider) Chat(ctx context.Context, messages []llm.Message) (*llm.ChatResponse, error) {
	body, err := buildMessagesBody(p.cfg, messages, false)
	if err != nil {
		return nil, err
	}
	L_trace("anthropic: chat request", "model", p.cfg.Model, "messages", len(messages))
	raw, err := p.sink.PostJSON(ctx, "/v1/messages", body)
	if err != nil {
		return nil, err
	}
	return parseResponse(raw)
}

// ChatStream sends the conversation and returns the translated event stream.
func (p *Provider) ChatStream(ctx context.Context, messages []llm.Message) (<-chan llm.StreamEvent, error) {
	body, err := buildMessagesBody(p.cfg, messages, true)
	if err != nil {
		return nil, err
	}
	L_trace("anthropic: chat stream request", "model", p.cfg.Model, "messages", len(messages))
	stream, err := p.sink.PostSSE(ctx, "/v1/messages", body)
	if err != nil {
		return nil, err
	}

	events := make(chan llm.StreamEvent)
	go runStream(stream, p.cfg.Model, events)
	return events, nil
}

var (
	_ llm.Provider     = (*Provider)(nil)
	_ llm.TokenCounter = (*Provider)(nil)
	_ llm.ModelLister  = (*Provider)(nil)
	_ llm.FileManager  = (*Provider)(nil)
)
