// Package anthropic - response parsing
package anthropic

import (
	"encoding/json"
	"strings"

	"github.com/modelgate/modelgate/llm"
)

// messagesResponse is the /v1/messages wire response.
type messagesResponse struct {
	ID         string          `json:"id"`
	Model      string          `json:"model"`
	StopReason string          `json:"stop_reason"`
	Content    []responseBlock `json:"content"`
	Usage      *wireUsage      `json:"usage"`
}

type responseBlock struct {
	Type string `json:"type"`

	Text     string `json:"text,omitempty"`
	Thinking string `json:"thinking,omitempty"`

	// tool_use / mcp_tool_use
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

type wireUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

func (u *wireUsage) toUsage() *llm.Usage {
	if u == nil {
		return nil
	}
	return &llm.Usage{
		PromptTokens:     llm.IntPtr(u.InputTokens),
		CompletionTokens: llm.IntPtr(u.OutputTokens),
		TotalTokens:      llm.IntPtr(u.InputTokens + u.OutputTokens),
	}
}

// parseResponse normalizes a non-streaming messages response. Text blocks
// join with newlines; redacted thinking contributes the fixed sentinel; tool
// and MCP tool blocks become ordered tool calls with re-serialized argument
// strings.
func parseResponse(raw []byte) (*llm.ChatResponse, error) {
	var resp messagesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &llm.ResponseFormatError{Message: "anthropic: malformed messages response", Raw: string(raw)}
	}

	var texts []string
	var thinking []string
	var toolCalls []llm.ToolCall
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			texts = append(texts, block.Text)
		case "thinking":
			thinking = append(thinking, block.Thinking)
		case "redacted_thinking":
			thinking = append(thinking, llm.RedactedThinkingSentinel)
		case "tool_use", "mcp_tool_use":
			args := "{}"
			if len(block.Input) > 0 {
				args = string(block.Input)
			}
			toolCalls = append(toolCalls, llm.NewToolCall(block.ID, block.Name, args))
		}
	}

	return &llm.ChatResponse{
		ID:         resp.ID,
		Model:      resp.Model,
		Text:       strings.Join(texts, "\n"),
		Thinking:   strings.Join(thinking, "\n"),
		ToolCalls:  toolCalls,
		StopReason: resp.StopReason,
		Usage:      resp.Usage.toUsage(),
	}, nil
}
