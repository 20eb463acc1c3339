// Package openai - moderation endpoint
package openai

import (
	"context"
	"encoding/json"

	"github.com/modelgate/modelgate/llm"
)

const DefaultModerationModel = "omni-moderation-latest"

type moderationRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type moderationResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Results []struct {
		Flagged        bool               `json:"flagged"`
		Categories     map[string]bool    `json:"categories"`
		CategoryScores map[string]float64 `json:"category_scores"`
	} `json:"results"`
}

// Moderate classifies the inputs against the vendor moderation model.
func (p *Provider) Moderate(ctx context.Context, req llm.ModerationRequest) (*llm.ModerationResponse, error) {
	if len(req.Input) == 0 {
		return nil, &llm.InvalidRequestError{Message: "openai: moderation request has no input"}
	}
	model := req.Model
	if model == "" {
		model = DefaultModerationModel
	}
	body, err := json.Marshal(moderationRequest{Model: model, Input: req.Input})
	if err != nil {
		return nil, &llm.GenericError{Message: "marshal moderation request: " + err.Error()}
	}
	raw, err := p.sink.PostJSON(ctx, "/moderations", body)
	if err != nil {
		return nil, err
	}
	var resp moderationResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &llm.ResponseFormatError{Message: "openai: malformed moderation response", Raw: string(raw)}
	}
	out := &llm.ModerationResponse{ID: resp.ID, Model: resp.Model}
	for _, r := range resp.Results {
		out.Results = append(out.Results, llm.ModerationResult{
			Flagged:        r.Flagged,
			Categories:     r.Categories,
			CategoryScores: r.CategoryScores,
		})
	}
	return out, nil
}
