// Package llm - unified provider interface
package llm

import "context"

// Provider is the unified handle for one configured LLM backend.
// A provider exclusively owns its transport sink unless the sink was
// injected as shared, in which case the injecting caller retains ownership.
type Provider interface {
	// ProviderID returns the registry identifier (e.g. "anthropic").
	ProviderID() string
	// Model returns the configured model name.
	Model() string

	// Chat sends the conversation and returns the normalized response.
	Chat(ctx context.Context, messages []Message) (*ChatResponse, error)

	// ChatStream sends the conversation and returns an ordered event
	// stream. The stream terminates with exactly one Completion or one
	// ErrorEvent; cancelling ctx closes the stream promptly.
	ChatStream(ctx context.Context, messages []Message) (<-chan StreamEvent, error)
}

// Extra surfaces are optional interfaces discovered by type assertion.
// Implementations: provider packages under providers/.

// TokenCounter counts tokens for a prospective request, via a vendor
// endpoint when one exists, otherwise a coarse heuristic.
type TokenCounter interface {
	CountTokens(ctx context.Context, messages []Message, tools []Tool) (int, error)
}

// Embedder produces embedding vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// ModelLister fetches the provider's available models.
type ModelLister interface {
	ListModels(ctx context.Context) ([]AIModel, error)
}

// Closer releases a provider's owned resources. Providers holding a shared
// transport sink implement this as a no-op for the sink.
type Closer interface {
	Close() error
}

// ErrNotSupported is returned when a provider doesn't support an operation.
type ErrNotSupported struct {
	Provider  string
	Operation string
}

func (e ErrNotSupported) Error() string {
	return e.Provider + " does not support " + e.Operation
}

// AIModel is a normalized model listing entry.
type AIModel struct {
	ID            string `json:"id"`
	DisplayName   string `json:"displayName,omitempty"`
	Description   string `json:"description,omitempty"`
	CreatedAt     int64  `json:"createdAt,omitempty"`
	OwnedBy       string `json:"ownedBy,omitempty"`
	ContextLength int    `json:"contextLength,omitempty"`
}
