// Package llm - assistants surface
package llm

import "context"

// Assistant is a vendor-managed assistant configuration.
type Assistant struct {
	ID           string         `json:"id"`
	Name         string         `json:"name,omitempty"`
	Description  string         `json:"description,omitempty"`
	Model        string         `json:"model"`
	Instructions string         `json:"instructions,omitempty"`
	Tools        []Tool         `json:"tools,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    int64          `json:"createdAt,omitempty"`
}

// AssistantRequest creates or updates an assistant. Zero-valued fields are
// left to the vendor default (create) or unchanged (update).
type AssistantRequest struct {
	Name         string
	Description  string
	Model        string
	Instructions string
	Tools        []Tool
	Metadata     map[string]any
}

// AssistantList is a cursor-paginated page of assistants.
type AssistantList struct {
	Assistants []Assistant
	FirstID    string
	LastID     string
	HasMore    bool
}

// AssistantListQuery narrows a list call; zero values mean vendor defaults.
type AssistantListQuery struct {
	Limit  int
	Order  string
	After  string
	Before string
}

// AssistantManager is the assistants CRUD surface, discovered by type
// assertion.
type AssistantManager interface {
	CreateAssistant(ctx context.Context, req AssistantRequest) (*Assistant, error)
	RetrieveAssistant(ctx context.Context, id string) (*Assistant, error)
	UpdateAssistant(ctx context.Context, id string, req AssistantRequest) (*Assistant, error)
	DeleteAssistant(ctx context.Context, id string) error
	ListAssistants(ctx context.Context, query *AssistantListQuery) (*AssistantList, error)
}
