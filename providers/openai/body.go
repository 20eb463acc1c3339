// Package openai - chat completions body construction
package openai

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/modelgate/modelgate/llm"

	. "github.com/modelgate/modelgate/internal/logging"
)

// chatRequest is the /chat/completions wire body.
type chatRequest struct {
	Model           string         `json:"model"`
	Messages        []chatMessage  `json:"messages"`
	Stream          bool           `json:"stream,omitempty"`
	StreamOptions   *streamOptions `json:"stream_options,omitempty"`
	MaxTokens       int            `json:"max_tokens,omitempty"`
	Temperature     *float64       `json:"temperature,omitempty"`
	TopP            *float64       `json:"top_p,omitempty"`
	Stop            []string       `json:"stop,omitempty"`
	User            string         `json:"user,omitempty"`
	Tools           []chatTool     `json:"tools,omitempty"`
	ToolChoice      any            `json:"tool_choice,omitempty"`
	ParallelCalls   *bool          `json:"parallel_tool_calls,omitempty"`
	ReasoningEffort string         `json:"reasoning_effort,omitempty"`
	ServiceTier     string         `json:"service_tier,omitempty"`
}

type streamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

// chatMessage carries either a plain string or a content-item list, plus the
// tool-call fields for assistant and tool roles.
type chatMessage struct {
	Role       string         `json:"role"`
	Content    any            `json:"content,omitempty"`
	Name       string         `json:"name,omitempty"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type contentItem struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *imageURLItem `json:"image_url,omitempty"`
}

type imageURLItem struct {
	URL string `json:"url"`
}

type wireToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function wireFunction `json:"function"`
}

type wireFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function chatFunction `json:"function"`
}

type chatFunction struct {
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Parameters  llm.ParametersSchema `json:"parameters"`
}

// buildChatBody translates the unified conversation into the Chat
// Completions wire body. Model capabilities gate temperature/top_p and the
// reasoning_effort parameter; gated values are dropped with a warning, never
// a refusal.
func buildChatBody(cfg llm.Config, caps llm.ModelCapabilities, messages []llm.Message, stream bool) ([]byte, error) {
	if len(messages) == 0 {
		return nil, &llm.InvalidRequestError{Message: "no messages to send"}
	}

	req := chatRequest{
		Model:       cfg.Model,
		Stream:      stream,
		MaxTokens:   cfg.MaxTokens,
		Stop:        cfg.StopSequences,
		User:        cfg.User,
		ServiceTier: cfg.ServiceTier,
	}
	if stream {
		req.StreamOptions = &streamOptions{IncludeUsage: true}
	}

	if cfg.Temperature != nil {
		if caps.DisableTemperature {
			L_warn("openai: model rejects temperature, dropping", "model", cfg.Model)
		} else {
			if *cfg.Temperature < 0 || *cfg.Temperature > 2 {
				L_warn("openai: temperature outside expected range", "temperature", *cfg.Temperature)
			}
			req.Temperature = cfg.Temperature
		}
	}
	if cfg.TopP != nil {
		if caps.DisableTopP {
			L_warn("openai: model rejects top_p, dropping", "model", cfg.Model)
		} else {
			req.TopP = cfg.TopP
		}
	}

	if cfg.SystemPrompt != "" {
		req.Messages = append(req.Messages, chatMessage{Role: "system", Content: cfg.SystemPrompt})
	}
	nonSystem := 0
	for i, m := range messages {
		if m.IsEmpty() {
			return nil, &llm.InvalidRequestError{Message: fmt.Sprintf("message %d has no content", i)}
		}
		if m.Role != llm.RoleSystem {
			nonSystem++
		}
		wire, err := toChatMessages(m)
		if err != nil {
			return nil, err
		}
		req.Messages = append(req.Messages, wire...)
	}
	if nonSystem == 0 {
		return nil, &llm.InvalidRequestError{Message: "no non-system messages to send"}
	}

	req.Tools = convertChatTools(cfg.Tools)
	if cfg.ToolChoice != nil {
		choice, parallel := convertChatToolChoice(*cfg.ToolChoice)
		req.ToolChoice = choice
		req.ParallelCalls = parallel
	}

	if effort := llm.EffortFromExtension(cfg); effort != "" {
		if len(caps.ReasoningEfforts) == 0 || caps.AcceptsEffort(effort) {
			req.ReasoningEffort = effort
		} else {
			L_warn("openai: model rejects reasoning effort, dropping", "model", cfg.Model, "effort", effort)
		}
	}

	return json.Marshal(req)
}

// toChatMessages maps one unified message. Tool results expand into
// separate role:"tool" messages per the wire format.
func toChatMessages(m llm.Message) ([]chatMessage, error) {
	var out []chatMessage

	base := chatMessage{Role: string(m.Role), Name: m.Name}
	var items []contentItem
	var toolCalls []wireToolCall

	for _, part := range m.Parts {
		switch part.Kind {
		case llm.PartText:
			items = append(items, contentItem{Type: "text", Text: part.Text})

		case llm.PartImage:
			uri := fmt.Sprintf("data:%s;base64,%s", part.MimeType, base64.StdEncoding.EncodeToString(part.Data))
			items = append(items, contentItem{Type: "image_url", ImageURL: &imageURLItem{URL: uri}})

		case llm.PartImageURL:
			items = append(items, contentItem{Type: "image_url", ImageURL: &imageURLItem{URL: part.URL}})

		case llm.PartFile:
			if part.MimeType == "application/pdf" {
				uri := fmt.Sprintf("data:%s;base64,%s", part.MimeType, base64.StdEncoding.EncodeToString(part.Data))
				items = append(items, contentItem{Type: "image_url", ImageURL: &imageURLItem{URL: uri}})
			} else {
				items = append(items, contentItem{Type: "text", Text: fmt.Sprintf("[File of type %s not supported]", part.MimeType)})
			}

		case llm.PartToolUse:
			for _, call := range part.ToolCalls {
				toolCalls = append(toolCalls, wireToolCall{
					ID:   call.ID,
					Type: "function",
					Function: wireFunction{
						Name:      call.Function.Name,
						Arguments: call.Function.Arguments,
					},
				})
			}

		case llm.PartToolResult:
			for _, res := range part.ToolResults {
				out = append(out, chatMessage{
					Role:       "tool",
					ToolCallID: res.ToolCallID,
					Content:    res.Content,
				})
			}

		default:
			items = append(items, contentItem{Type: "text", Text: fmt.Sprintf("[Content of kind %s not supported]", part.Kind)})
		}
	}

	if len(items) == 0 && len(toolCalls) == 0 {
		return out, nil
	}

	// A single text part collapses to a plain string content.
	if len(items) == 1 && items[0].Type == "text" {
		base.Content = items[0].Text
	} else if len(items) > 0 {
		base.Content = items
	}
	base.ToolCalls = toolCalls
	return append([]chatMessage{base}, out...), nil
}

func convertChatTools(tools []llm.Tool) []chatTool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]chatTool, 0, len(tools))
	for _, t := range tools {
		params := t.Function.Parameters
		if params.Type == "" {
			params.Type = llm.TypeObject
		}
		if params.Properties == nil {
			params.Properties = map[string]llm.Property{}
		}
		out = append(out, chatTool{
			Type: "function",
			Function: chatFunction{
				Name:        t.Function.Name,
				Description: t.Function.Description,
				Parameters:  params,
			},
		})
	}
	return out
}

// convertChatToolChoice maps the unified tool choice; "any" becomes
// "required" on this wire.
func convertChatToolChoice(tc llm.ToolChoice) (any, *bool) {
	var parallel *bool
	if tc.DisableParallel {
		f := false
		parallel = &f
	}
	switch tc.Kind {
	case llm.ToolChoiceNone:
		return "none", parallel
	case llm.ToolChoiceAny:
		return "required", parallel
	case llm.ToolChoiceSpecific:
		return map[string]any{
			"type":     "function",
			"function": map[string]any{"name": tc.Name},
		}, parallel
	default:
		return "auto", parallel
	}
}
