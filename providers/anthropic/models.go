// Package anthropic - model listing and token counting
package anthropic

import (
	"context"
	"encoding/json"

	"github.com/modelgate/modelgate/llm"

	. "github.com/modelgate/modelgate/internal/logging"
)

// modelTable gates parameters per model family. Prefix keys; longest match
// wins.
var modelTable = llm.ModelTable{
	"claude-3-5-haiku": {
		SupportsVision:      true,
		SupportsToolCalling: true,
		MaxContextLength:    200000,
	},
	"claude-3-5-sonnet": {
		SupportsVision:      true,
		SupportsToolCalling: true,
		MaxContextLength:    200000,
	},
	"claude-3-7-sonnet": {
		SupportsReasoning:       true,
		SupportsVision:          true,
		SupportsToolCalling:     true,
		MaxContextLength:        200000,
		MaxThinkingBudgetTokens: 128000,
	},
	"claude-sonnet-4": {
		SupportsReasoning:       true,
		SupportsVision:          true,
		SupportsToolCalling:     true,
		MaxContextLength:        200000,
		MaxThinkingBudgetTokens: 128000,
	},
	"claude-opus-4": {
		SupportsReasoning:       true,
		SupportsVision:          true,
		SupportsToolCalling:     true,
		MaxContextLength:        200000,
		MaxThinkingBudgetTokens: 128000,
	},
	"claude-haiku-4": {
		SupportsReasoning:       true,
		SupportsVision:          true,
		SupportsToolCalling:     true,
		MaxContextLength:        200000,
		MaxThinkingBudgetTokens: 128000,
	},
}

// capsForModel looks up model capabilities, falling back to name heuristics
// for models absent from the table.
func capsForModel(model string) llm.ModelCapabilities {
	if caps, ok := modelTable.Lookup(model); ok {
		return caps
	}
	return llm.ModelCapabilities{
		SupportsReasoning:   llm.ReasoningHeuristic(ProviderID, model),
		SupportsVision:      llm.VisionHeuristic(ProviderID, model),
		SupportsToolCalling: true,
	}
}

type modelsListResponse struct {
	Data []struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		CreatedAt   string `json:"created_at"`
	} `json:"data"`
	HasMore bool   `json:"has_more"`
	LastID  string `json:"last_id"`
}

// ListModels fetches /v1/models, following cursor pagination.
func (p *Provider) ListModels(ctx context.Context) ([]llm.AIModel, error) {
	var models []llm.AIModel
	path := "/v1/models?limit=100"
	for {
		raw, err := p.sink.GetJSON(ctx, path)
		if err != nil {
			return nil, err
		}
		var resp modelsListResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, &llm.ResponseFormatError{Message: "anthropic: malformed models response", Raw: string(raw)}
		}
		for _, m := range resp.Data {
			models = append(models, llm.AIModel{
				ID:          m.ID,
				DisplayName: m.DisplayName,
				OwnedBy:     "anthropic",
			})
		}
		if !resp.HasMore || resp.LastID == "" {
			return models, nil
		}
		path = "/v1/models?limit=100&after_id=" + resp.LastID
	}
}

type countTokensResponse struct {
	InputTokens int `json:"input_tokens"`
}

// CountTokens calls the vendor count_tokens endpoint, falling back to a
// chars/4 heuristic when the call fails.
func (p *Provider) CountTokens(ctx context.Context, messages []llm.Message, tools []llm.Tool) (int, error) {
	cfg := p.cfg.Clone()
	cfg.Tools = tools
	body, err := buildCountTokensBody(cfg, messages)
	if err != nil {
		return 0, err
	}
	raw, err := p.sink.PostJSON(ctx, "/v1/messages/count_tokens", body)
	if err != nil {
		L_debug("anthropic: count_tokens endpoint failed, using heuristic", "error", err)
		return heuristicTokenCount(messages), nil
	}
	var resp countTokensResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return 0, &llm.ResponseFormatError{Message: "anthropic: malformed count_tokens response", Raw: string(raw)}
	}
	return resp.InputTokens, nil
}

// countTokensRequest is the count_tokens wire body: the messages body minus
// generation parameters.
type countTokensRequest struct {
	Model    string             `json:"model"`
	Messages []anthropicMessage `json:"messages"`
	System   string             `json:"system,omitempty"`
	Tools    []anthropicTool    `json:"tools,omitempty"`
}

func buildCountTokensBody(cfg llm.Config, messages []llm.Message) ([]byte, error) {
	system, rest := partitionSystem(cfg, messages)
	if len(rest) == 0 {
		return nil, &llm.InvalidRequestError{Message: "anthropic: no non-system messages to count"}
	}
	wireMsgs := make([]anthropicMessage, 0, len(rest))
	for _, m := range rest {
		wm, err := toWireMessage(m)
		if err != nil {
			return nil, err
		}
		wireMsgs = append(wireMsgs, wm)
	}
	return json.Marshal(countTokensRequest{
		Model:    cfg.Model,
		Messages: wireMsgs,
		System:   system,
		Tools:    convertTools(cfg.Tools),
	})
}

// heuristicTokenCount approximates tokens as ceil(chars/4).
func heuristicTokenCount(messages []llm.Message) int {
	chars := 0
	for _, m := range messages {
		for _, p := range m.Parts {
			chars += len(p.Text)
			for _, c := range p.ToolCalls {
				chars += len(c.Function.Name) + len(c.Function.Arguments)
			}
			for _, r := range p.ToolResults {
				chars += len(r.Content)
			}
		}
	}
	return (chars + 3) / 4
}
