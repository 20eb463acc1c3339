// Package openai - assistants endpoints
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/modelgate/modelgate/llm"
)

type assistantJSON struct {
	ID           string         `json:"id,omitempty"`
	Name         string         `json:"name,omitempty"`
	Description  string         `json:"description,omitempty"`
	Model        string         `json:"model"`
	Instructions string         `json:"instructions,omitempty"`
	Tools        []llm.Tool     `json:"tools,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    int64          `json:"created_at,omitempty"`
}

func (a assistantJSON) toAssistant() *llm.Assistant {
	return &llm.Assistant{
		ID:           a.ID,
		Name:         a.Name,
		Description:  a.Description,
		Model:        a.Model,
		Instructions: a.Instructions,
		Tools:        a.Tools,
		Metadata:     a.Metadata,
		CreatedAt:    a.CreatedAt,
	}
}

func assistantBody(p *Provider, req llm.AssistantRequest) ([]byte, error) {
	model := req.Model
	if model == "" {
		model = p.cfg.Model
	}
	return json.Marshal(assistantJSON{
		Name:         req.Name,
		Description:  req.Description,
		Model:        model,
		Instructions: req.Instructions,
		Tools:        req.Tools,
		Metadata:     req.Metadata,
	})
}

func parseAssistant(raw []byte) (*llm.Assistant, error) {
	var a assistantJSON
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, &llm.ResponseFormatError{Message: "openai: malformed assistant response", Raw: string(raw)}
	}
	return a.toAssistant(), nil
}

// CreateAssistant creates a vendor-managed assistant.
func (p *Provider) CreateAssistant(ctx context.Context, req llm.AssistantRequest) (*llm.Assistant, error) {
	body, err := assistantBody(p, req)
	if err != nil {
		return nil, &llm.GenericError{Message: "marshal assistant request: " + err.Error()}
	}
	raw, err := p.sink.PostJSON(ctx, "/assistants", body)
	if err != nil {
		return nil, err
	}
	return parseAssistant(raw)
}

// RetrieveAssistant fetches one assistant.
func (p *Provider) RetrieveAssistant(ctx context.Context, id string) (*llm.Assistant, error) {
	raw, err := p.sink.GetJSON(ctx, "/assistants/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	return parseAssistant(raw)
}

// UpdateAssistant modifies an assistant; zero-valued fields are unchanged.
func (p *Provider) UpdateAssistant(ctx context.Context, id string, req llm.AssistantRequest) (*llm.Assistant, error) {
	body, err := json.Marshal(assistantJSON{
		Name:         req.Name,
		Description:  req.Description,
		Model:        req.Model,
		Instructions: req.Instructions,
		Tools:        req.Tools,
		Metadata:     req.Metadata,
	})
	if err != nil {
		return nil, &llm.GenericError{Message: "marshal assistant update: " + err.Error()}
	}
	raw, err := p.sink.PostJSON(ctx, "/assistants/"+url.PathEscape(id), body)
	if err != nil {
		return nil, err
	}
	return parseAssistant(raw)
}

// DeleteAssistant removes an assistant.
func (p *Provider) DeleteAssistant(ctx context.Context, id string) error {
	return p.sink.Delete(ctx, "/assistants/"+url.PathEscape(id))
}

type assistantListResponse struct {
	Data    []assistantJSON `json:"data"`
	FirstID string          `json:"first_id"`
	LastID  string          `json:"last_id"`
	HasMore bool            `json:"has_more"`
}

// ListAssistants lists assistants with cursor pagination.
func (p *Provider) ListAssistants(ctx context.Context, query *llm.AssistantListQuery) (*llm.AssistantList, error) {
	path := "/assistants"
	if query != nil {
		q := url.Values{}
		if query.Limit > 0 {
			q.Set("limit", fmt.Sprintf("%d", query.Limit))
		}
		if query.Order != "" {
			q.Set("order", query.Order)
		}
		if query.After != "" {
			q.Set("after", query.After)
		}
		if query.Before != "" {
			q.Set("before", query.Before)
		}
		if enc := q.Encode(); enc != "" {
			path += "?" + enc
		}
	}
	raw, err := p.sink.GetJSON(ctx, path)
	if err != nil {
		return nil, err
	}
	var resp assistantListResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &llm.ResponseFormatError{Message: "openai: malformed assistant list", Raw: string(raw)}
	}
	list := &llm.AssistantList{FirstID: resp.FirstID, LastID: resp.LastID, HasMore: resp.HasMore}
	for _, a := range resp.Data {
		list.Assistants = append(list.Assistants, *a.toAssistant())
	}
	return list, nil
}
