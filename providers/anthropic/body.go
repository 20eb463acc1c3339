// Package anthropic - request body construction
package anthropic

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelgate/modelgate/llm"

	. "github.com/modelgate/modelgate/internal/logging"
)

const defaultMaxTokens = 1024

// messagesRequest is the /v1/messages wire body. Field order matters for the
// marshaled form; keep model/messages/max_tokens/stream first.
type messagesRequest struct {
	Model         string             `json:"model"`
	Messages      []anthropicMessage `json:"messages"`
	MaxTokens     int                `json:"max_tokens"`
	Stream        bool               `json:"stream"`
	System        string             `json:"system,omitempty"`
	Temperature   *float64           `json:"temperature,omitempty"`
	TopP          *float64           `json:"top_p,omitempty"`
	TopK          *int               `json:"top_k,omitempty"`
	StopSequences []string           `json:"stop_sequences,omitempty"`
	ServiceTier   string             `json:"service_tier,omitempty"`
	Metadata      map[string]any     `json:"metadata,omitempty"`
	Container     string             `json:"container,omitempty"`
	MCPServers    any                `json:"mcp_servers,omitempty"`
	Tools         []anthropicTool    `json:"tools,omitempty"`
	ToolChoice    any                `json:"tool_choice,omitempty"`
	Thinking      *thinkingParam     `json:"thinking,omitempty"`
}

type anthropicMessage struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

// contentBlock is the union of Anthropic content block shapes.
type contentBlock struct {
	Type string `json:"type"`

	Text   string       `json:"text,omitempty"`
	Source *blockSource `json:"source,omitempty"`

	// tool_use
	ID    string         `json:"id,omitempty"`
	Name  string         `json:"name,omitempty"`
	Input map[string]any `json:"input,omitempty"`

	// tool_result
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
	IsError   bool   `json:"is_error,omitempty"`
}

type blockSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type,omitempty"`
	Data      string `json:"data,omitempty"`
}

type anthropicTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

type thinkingParam struct {
	Type         string `json:"type"`
	BudgetTokens int    `json:"budget_tokens,omitempty"`
}

// buildMessagesBody translates the unified conversation into the Anthropic
// wire body. System messages collapse into the top-level system field;
// validation failures surface here, before any network call.
func buildMessagesBody(cfg llm.Config, messages []llm.Message, stream bool) ([]byte, error) {
	system, rest := partitionSystem(cfg, messages)
	if len(rest) == 0 {
		return nil, &llm.InvalidRequestError{Message: "anthropic: no non-system messages to send"}
	}

	wireMsgs := make([]anthropicMessage, 0, len(rest))
	for i, m := range rest {
		if m.IsEmpty() {
			return nil, &llm.InvalidRequestError{Message: fmt.Sprintf("anthropic: message %d has no content", i)}
		}
		if i == 0 && m.Role != llm.RoleUser {
			L_warn("anthropic: first message is not user role", "role", m.Role)
		}
		if i > 0 && rest[i-1].Role == m.Role {
			L_warn("anthropic: consecutive messages share a role", "role", m.Role, "index", i)
		}
		wm, err := toWireMessage(m)
		if err != nil {
			return nil, err
		}
		wireMsgs = append(wireMsgs, wm)
	}

	req := messagesRequest{
		Model:         cfg.Model,
		Messages:      wireMsgs,
		MaxTokens:     cfg.MaxTokens,
		Stream:        stream,
		System:        system,
		Temperature:   cfg.Temperature,
		TopP:          cfg.TopP,
		TopK:          cfg.TopK,
		StopSequences: cfg.StopSequences,
		ServiceTier:   cfg.ServiceTier,
		Container:     containerFrom(cfg),
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = defaultMaxTokens
	}
	if cfg.Temperature != nil && (*cfg.Temperature < 0 || *cfg.Temperature > 1) {
		L_warn("anthropic: temperature outside [0,1]", "temperature", *cfg.Temperature)
	}

	req.Metadata = buildMetadata(cfg)
	if servers, ok := cfg.Extension(llm.ExtMCPServers); ok {
		req.MCPServers = servers
	}

	req.Tools = convertTools(cfg.Tools)
	if cfg.ToolChoice != nil {
		req.ToolChoice = convertToolChoice(*cfg.ToolChoice)
	}

	thinking, err := buildThinking(cfg)
	if err != nil {
		return nil, err
	}
	req.Thinking = thinking

	return json.Marshal(req)
}

// partitionSystem joins the config system prompt with system-role messages,
// order preserved, and returns the remaining conversation.
func partitionSystem(cfg llm.Config, messages []llm.Message) (string, []llm.Message) {
	var parts []string
	if cfg.SystemPrompt != "" {
		parts = append(parts, cfg.SystemPrompt)
	}
	var rest []llm.Message
	for _, m := range messages {
		if m.Role == llm.RoleSystem {
			if t := m.Text(); t != "" {
				parts = append(parts, t)
			}
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(parts, "\n\n"), rest
}

// toWireMessage maps one message's parts to Anthropic content blocks.
// Unsupported part kinds become explanatory text blocks, never silent drops.
func toWireMessage(m llm.Message) (anthropicMessage, error) {
	out := anthropicMessage{Role: string(m.Role)}
	for _, part := range m.Parts {
		blocks, err := toContentBlocks(part)
		if err != nil {
			return anthropicMessage{}, err
		}
		out.Content = append(out.Content, blocks...)
	}
	return out, nil
}

func toContentBlocks(part llm.Part) ([]contentBlock, error) {
	switch part.Kind {
	case llm.PartText:
		return []contentBlock{{Type: "text", Text: part.Text}}, nil

	case llm.PartImage:
		if !llm.IsValidImageMime(part.MimeType) {
			L_warn("anthropic: unsupported image mime type", "mime", part.MimeType)
			return []contentBlock{{Type: "text", Text: fmt.Sprintf("[Image of unsupported type %s omitted]", part.MimeType)}}, nil
		}
		return []contentBlock{{
			Type: "image",
			Source: &blockSource{
				Type:      "base64",
				MediaType: part.MimeType,
				Data:      base64.StdEncoding.EncodeToString(part.Data),
			},
		}}, nil

	case llm.PartImageURL:
		return []contentBlock{{
			Type: "text",
			Text: fmt.Sprintf("[Image URL not supported by Anthropic API: %s]", part.URL),
		}}, nil

	case llm.PartFile:
		if part.MimeType == "application/pdf" {
			return []contentBlock{{
				Type: "document",
				Source: &blockSource{
					Type:      "base64",
					MediaType: part.MimeType,
					Data:      base64.StdEncoding.EncodeToString(part.Data),
				},
			}}, nil
		}
		return []contentBlock{{
			Type: "text",
			Text: fmt.Sprintf("[File of type %s not supported by Anthropic API]", part.MimeType),
		}}, nil

	case llm.PartToolUse:
		var blocks []contentBlock
		for _, call := range part.ToolCalls {
			input, err := call.ArgumentsMap()
			if err != nil {
				return nil, err
			}
			if input == nil {
				input = map[string]any{}
			}
			blocks = append(blocks, contentBlock{
				Type:  "tool_use",
				ID:    call.ID,
				Name:  call.Function.Name,
				Input: input,
			})
		}
		return blocks, nil

	case llm.PartToolResult:
		var blocks []contentBlock
		for _, res := range part.ToolResults {
			blocks = append(blocks, contentBlock{
				Type:      "tool_result",
				ToolUseID: res.ToolCallID,
				Content:   res.Content,
				IsError:   res.IsError,
			})
		}
		return blocks, nil

	default:
		return []contentBlock{{
			Type: "text",
			Text: fmt.Sprintf("[Content of kind %s not supported by Anthropic API]", part.Kind),
		}}, nil
	}
}

// convertTools maps tool definitions, forcing input_schema.type to "object"
// and supplying empty properties when absent.
func convertTools(tools []llm.Tool) []anthropicTool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]anthropicTool, 0, len(tools))
	for _, t := range tools {
		desc := t.Function.Description
		if desc == "" {
			desc = "Tool " + t.Function.Name
		}
		props := map[string]any{}
		for name, p := range t.Function.Parameters.Properties {
			props[name] = p
		}
		schema := map[string]any{
			"type":       "object",
			"properties": props,
		}
		if len(t.Function.Parameters.Required) > 0 {
			schema["required"] = t.Function.Parameters.Required
		}
		out = append(out, anthropicTool{
			Name:        t.Function.Name,
			Description: desc,
			InputSchema: schema,
		})
	}
	return out
}

// convertToolChoice maps the unified tool choice. None is the bare string
// "none" on this API, not an object.
func convertToolChoice(tc llm.ToolChoice) any {
	switch tc.Kind {
	case llm.ToolChoiceNone:
		return "none"
	case llm.ToolChoiceAny:
		return withParallel(map[string]any{"type": "any"}, tc)
	case llm.ToolChoiceSpecific:
		return withParallel(map[string]any{"type": "tool", "name": tc.Name}, tc)
	default:
		return withParallel(map[string]any{"type": "auto"}, tc)
	}
}

func withParallel(m map[string]any, tc llm.ToolChoice) map[string]any {
	if tc.DisableParallel {
		m["disable_parallel_tool_use"] = true
	}
	return m
}

// buildThinking emits the thinking parameter when reasoning is enabled and
// the model supports it. A sub-minimum budget warns; an over-cap budget is a
// validation error.
func buildThinking(cfg llm.Config) (*thinkingParam, error) {
	if !llm.BoolExtension(cfg, llm.ExtReasoning) {
		return nil, nil
	}
	caps := capsForModel(cfg.Model)
	if !caps.SupportsReasoning && !llm.ReasoningHeuristic(ProviderID, cfg.Model) {
		L_warn("anthropic: reasoning requested on a model without thinking support", "model", cfg.Model)
		return nil, nil
	}

	p := &thinkingParam{Type: "enabled"}
	if budget, ok := llm.IntExtension(cfg, llm.ExtThinkingBudgetTokens); ok {
		if budget < llm.MinThinkingBudgetTokens {
			L_warn("anthropic: thinking budget below minimum", "budget", budget, "minimum", llm.MinThinkingBudgetTokens)
		}
		if caps.MaxThinkingBudgetTokens > 0 && budget > caps.MaxThinkingBudgetTokens {
			return nil, &llm.InvalidRequestError{Message: fmt.Sprintf(
				"anthropic: thinking budget %d exceeds model maximum %d", budget, caps.MaxThinkingBudgetTokens)}
		}
		p.BudgetTokens = budget
		return p, nil
	}
	// No explicit budget: a reasoningEffort thinking level implies one.
	if s, ok := llm.GetExtension[string](cfg, llm.ExtReasoningEffort); ok && llm.IsValidThinkingLevel(s) {
		if budget := llm.ThinkingLevel(s).AnthropicBudgetTokens(); budget > 0 {
			p.BudgetTokens = budget
		}
	}
	return p, nil
}

func buildMetadata(cfg llm.Config) map[string]any {
	var md map[string]any
	if custom, ok := llm.GetExtension[map[string]any](cfg, llm.ExtMetadata); ok {
		md = make(map[string]any, len(custom)+1)
		for k, v := range custom {
			md[k] = v
		}
	}
	if cfg.User != "" {
		if md == nil {
			md = make(map[string]any, 1)
		}
		md["user_id"] = cfg.User
	}
	return md
}

func containerFrom(cfg llm.Config) string {
	if c, ok := llm.GetExtension[string](cfg, llm.ExtContainer); ok {
		return c
	}
	return ""
}
