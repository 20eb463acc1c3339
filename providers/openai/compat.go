// Package openai implements the OpenAI Chat Completions translator and the
// OpenAI-compatible façade reused by other vendors (Google, xAI, OpenRouter,
// DeepSeek, Groq, Phind, Ollama).
package openai

import (
	"context"
	"time"

	"github.com/modelgate/modelgate/llm"
	"github.com/modelgate/modelgate/llm/transport"

	. "github.com/modelgate/modelgate/internal/logging"
)

// BodyTransformer rewrites the marshaled request body before it is sent.
// Provider specializations inject vendor extras (extra_body, search
// parameters) here.
type BodyTransformer func(body []byte, cfg llm.Config) ([]byte, error)

// HeaderTransformer rewrites the request headers for one provider instance.
type HeaderTransformer func(headers map[string]string, cfg llm.Config) map[string]string

// Compat is a chat provider speaking the OpenAI Chat Completions wire
// format. Vendors that expose an OpenAI-compatible endpoint wrap it with
// their own provider ID, transformers, and model table.
type Compat struct {
	cfg         llm.Config
	providerID  string
	sink        transport.Sink
	transformer BodyTransformer
	table       llm.ModelTable
}

// CompatOption configures a Compat provider.
type CompatOption func(*compatConfig)

type compatConfig struct {
	providerID  string
	transformer BodyTransformer
	headerXform HeaderTransformer
	table       llm.ModelTable
	sink        transport.Sink
	noAuth      bool
}

// WithProviderID sets the registry identifier reported by the provider.
func WithProviderID(id string) CompatOption {
	return func(c *compatConfig) { c.providerID = id }
}

// WithBodyTransformer installs a request body hook.
func WithBodyTransformer(t BodyTransformer) CompatOption {
	return func(c *compatConfig) { c.transformer = t }
}

// WithHeaderTransformer installs a header hook, applied once per provider
// instance.
func WithHeaderTransformer(t HeaderTransformer) CompatOption {
	return func(c *compatConfig) { c.headerXform = t }
}

// WithModelTable installs the vendor's model capability table.
func WithModelTable(t llm.ModelTable) CompatOption {
	return func(c *compatConfig) { c.table = t }
}

// WithSink injects a transport sink; the caller retains ownership.
// Test constructor hook.
func WithSink(s transport.Sink) CompatOption {
	return func(c *compatConfig) { c.sink = s }
}

// WithoutAuth skips the Authorization header (local endpoints).
func WithoutAuth() CompatOption {
	return func(c *compatConfig) { c.noAuth = true }
}

// NewCompat builds an OpenAI-compatible provider bound to cfg.BaseURL.
func NewCompat(cfg llm.Config, opts ...CompatOption) *Compat {
	cc := compatConfig{providerID: ProviderID}
	for _, o := range opts {
		o(&cc)
	}

	sink := cc.sink
	if sink == nil {
		headers := map[string]string{}
		if !cc.noAuth && cfg.APIKey != "" {
			headers["Authorization"] = "Bearer " + cfg.APIKey
		}
		if cc.headerXform != nil {
			headers = cc.headerXform(headers, cfg)
		}
		topts := []transport.Option{transport.WithHeaders(headers)}
		if cfg.TimeoutSeconds > 0 {
			topts = append(topts, transport.WithJSONTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
			topts = append(topts, transport.WithStreamTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
		}
		sink = transport.New(cfg.BaseURL, topts...)
	}

	return &Compat{
		cfg:         cfg,
		providerID:  cc.providerID,
		sink:        sink,
		transformer: cc.transformer,
		table:       cc.table,
	}
}

func (c *Compat) ProviderID() string { return c.providerID }
func (c *Compat) Model() string      { return c.cfg.Model }

// capsForModel resolves model capabilities from the vendor table, falling
// back to name heuristics.
func (c *Compat) capsForModel(model string) llm.ModelCapabilities {
	if c.table != nil {
		if caps, ok := c.table.Lookup(model); ok {
			return caps
		}
	}
	return llm.ModelCapabilities{
		SupportsReasoning:   llm.ReasoningHeuristic(c.providerID, model),
		SupportsVision:      llm.VisionHeuristic(c.providerID, model),
		SupportsToolCalling: true,
	}
}

// buildBody constructs and transforms the request body.
func (c *Compat) buildBody(messages []llm.Message, stream bool) ([]byte, error) {
	body, err := buildChatBody(c.cfg, c.capsForModel(c.cfg.Model), messages, stream)
	if err != nil {
		return nil, err
	}
	if c.transformer != nil {
		body, err = c.transformer(body, c.cfg)
		if err != nil {
			return nil, err
		}
	}
	return body, nil
}

// Chat sends the conversation and parses the normalized response.
func (c *Compat) Chat(ctx context.Context, messages []llm.Message) (*llm.ChatResponse, error) {
	body, err := c.buildBody(messages, false)
	if err != nil {
		return nil, err
	}
	L_trace("openai: chat request", "provider", c.providerID, "model", c.cfg.Model, "messages", len(messages))
	raw, err := c.sink.PostJSON(ctx, "/chat/completions", body)
	if err != nil {
		return nil, err
	}
	return parseChatResponse(raw)
}

// ChatStream sends the conversation and returns the translated event stream.
func (c *Compat) ChatStream(ctx context.Context, messages []llm.Message) (<-chan llm.StreamEvent, error) {
	body, err := c.buildBody(messages, true)
	if err != nil {
		return nil, err
	}
	L_trace("openai: chat stream request", "provider", c.providerID, "model", c.cfg.Model, "messages", len(messages))
	stream, err := c.sink.PostSSE(ctx, "/chat/completions", body)
	if err != nil {
		return nil, err
	}

	events := make(chan llm.StreamEvent)
	go runCompatStream(stream, c.cfg.Model, events)
	return events, nil
}

var _ llm.Provider = (*Compat)(nil)
