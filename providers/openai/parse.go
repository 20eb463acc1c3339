// Package openai - response parsing
package openai

import (
	"encoding/json"

	"github.com/modelgate/modelgate/llm"

	"github.com/google/uuid"
)

// chatResponse is the non-streaming /chat/completions wire response.
type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		FinishReason string `json:"finish_reason"`
		Message      struct {
			Content          string         `json:"content"`
			ReasoningContent string         `json:"reasoning_content"`
			ToolCalls        []wireToolCall `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
	Usage *chatUsage `json:"usage"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
	// Present on reasoning models.
	CompletionTokensDetails *struct {
		ReasoningTokens int `json:"reasoning_tokens"`
	} `json:"completion_tokens_details"`
}

func (u *chatUsage) toUsage() *llm.Usage {
	if u == nil {
		return nil
	}
	out := &llm.Usage{
		PromptTokens:     llm.IntPtr(u.PromptTokens),
		CompletionTokens: llm.IntPtr(u.CompletionTokens),
		TotalTokens:      llm.IntPtr(u.TotalTokens),
	}
	if u.CompletionTokensDetails != nil && u.CompletionTokensDetails.ReasoningTokens > 0 {
		out.ReasoningTokens = llm.IntPtr(u.CompletionTokensDetails.ReasoningTokens)
	}
	return out
}

// parseChatResponse normalizes a non-streaming chat completion. Tool calls
// missing an ID get a synthetic one so downstream result routing works.
func parseChatResponse(raw []byte) (*llm.ChatResponse, error) {
	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &llm.ResponseFormatError{Message: "openai: malformed chat completion", Raw: string(raw)}
	}
	if len(resp.Choices) == 0 {
		return nil, &llm.ResponseFormatError{Message: "openai: chat completion has no choices", Raw: string(raw)}
	}

	choice := resp.Choices[0]
	out := &llm.ChatResponse{
		ID:         resp.ID,
		Model:      resp.Model,
		Text:       choice.Message.Content,
		Thinking:   choice.Message.ReasoningContent,
		StopReason: choice.FinishReason,
		Usage:      resp.Usage.toUsage(),
	}
	for _, tc := range choice.Message.ToolCalls {
		id := tc.ID
		if id == "" {
			id = "call_" + uuid.NewString()
		}
		out.ToolCalls = append(out.ToolCalls, llm.NewToolCall(id, tc.Function.Name, tc.Function.Arguments))
	}
	return out, nil
}
