// Package llm - conversation data model
package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Role is the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// PartKind discriminates the Part union.
type PartKind string

const (
	PartText       PartKind = "text"
	PartImage      PartKind = "image"
	PartImageURL   PartKind = "imageUrl"
	PartFile       PartKind = "file"
	PartToolUse    PartKind = "toolUse"
	PartToolResult PartKind = "toolResult"
)

// Part is one element of a message's content. It is a tagged union: Kind
// selects which of the remaining fields are meaningful. Translators must
// never silently drop a part; unsupported kinds are replaced by an
// explanatory text part.
type Part struct {
	Kind PartKind `json:"kind"`

	// PartText
	Text string `json:"text,omitempty"`

	// PartImage / PartFile
	MimeType string `json:"mimeType,omitempty"`
	Data     []byte `json:"data,omitempty"`

	// PartImageURL
	URL string `json:"url,omitempty"`

	// PartToolUse
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`

	// PartToolResult
	ToolResults []ToolResultItem `json:"toolResults,omitempty"`
}

// TextPart builds a text part.
func TextPart(text string) Part {
	return Part{Kind: PartText, Text: text}
}

// ImagePart builds an image part from raw bytes with an explicit mime type.
// Supported mime types: image/jpeg, image/png, image/gif, image/webp.
func ImagePart(mimeType string, data []byte) Part {
	return Part{Kind: PartImage, MimeType: mimeType, Data: data}
}

// ImagePartAuto builds an image part, sniffing the mime type from the bytes.
func ImagePartAuto(data []byte) Part {
	return Part{Kind: PartImage, MimeType: mimetype.Detect(data).String(), Data: data}
}

// ImageURLPart builds an image part referencing a remote URL. Some providers
// reject URLs; their translators substitute a text note.
func ImageURLPart(url string) Part {
	return Part{Kind: PartImageURL, URL: url}
}

// FilePart builds a file part from raw bytes with an explicit mime type.
func FilePart(mimeType string, data []byte) Part {
	return Part{Kind: PartFile, MimeType: mimeType, Data: data}
}

// FilePartAuto builds a file part, sniffing the mime type from the bytes.
func FilePartAuto(data []byte) Part {
	return Part{Kind: PartFile, MimeType: mimetype.Detect(data).String(), Data: data}
}

// ToolUsePart builds an assistant-originated tool invocation part.
func ToolUsePart(calls ...ToolCall) Part {
	return Part{Kind: PartToolUse, ToolCalls: calls}
}

// ToolResultPart builds a user-side tool result part.
func ToolResultPart(results ...ToolResultItem) Part {
	return Part{Kind: PartToolResult, ToolResults: results}
}

// ValidImageMimeTypes lists the image mime types accepted across providers.
var ValidImageMimeTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// IsValidImageMime returns true if the mime type is accepted for image parts.
func IsValidImageMime(mime string) bool {
	for _, m := range ValidImageMimeTypes {
		if m == mime {
			return true
		}
	}
	return false
}

// Message is a provider-agnostic conversation message. Messages are value
// types; translators read them and never mutate.
type Message struct {
	Role  Role   `json:"role"`
	Parts []Part `json:"parts"`
	Name  string `json:"name,omitempty"`
}

// NewUserMessage builds a user message with a single text part.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Parts: []Part{TextPart(text)}}
}

// NewAssistantMessage builds an assistant message with a single text part.
func NewAssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Parts: []Part{TextPart(text)}}
}

// NewSystemMessage builds a system message with a single text part.
func NewSystemMessage(text string) Message {
	return Message{Role: RoleSystem, Parts: []Part{TextPart(text)}}
}

// NewToolResultMessage builds a user message carrying tool results.
func NewToolResultMessage(results ...ToolResultItem) Message {
	return Message{Role: RoleUser, Parts: []Part{ToolResultPart(results...)}}
}

// Text concatenates all text parts, newline-joined.
func (m Message) Text() string {
	var parts []string
	for _, p := range m.Parts {
		if p.Kind == PartText && p.Text != "" {
			parts = append(parts, p.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// ToolCalls returns all tool calls across the message's parts.
func (m Message) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, p := range m.Parts {
		if p.Kind == PartToolUse {
			calls = append(calls, p.ToolCalls...)
		}
	}
	return calls
}

// IsEmpty reports whether the message carries no effective content.
func (m Message) IsEmpty() bool {
	for _, p := range m.Parts {
		switch p.Kind {
		case PartText:
			if strings.TrimSpace(p.Text) != "" {
				return false
			}
		case PartImage, PartFile:
			if len(p.Data) > 0 {
				return false
			}
		case PartImageURL:
			if p.URL != "" {
				return false
			}
		case PartToolUse:
			if len(p.ToolCalls) > 0 {
				return false
			}
		case PartToolResult:
			if len(p.ToolResults) > 0 {
				return false
			}
		}
	}
	return true
}

// ToolCall is an assistant-originated request to invoke a tool. Arguments is
// always a JSON-encoded string per vendor conventions.
type ToolCall struct {
	ID       string       `json:"id"`
	Kind     string       `json:"type"` // always "function"
	Function FunctionCall `json:"function"`
}

// FunctionCall is the function portion of a tool call.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// NewToolCall builds a function tool call.
func NewToolCall(id, name, argumentsJSON string) ToolCall {
	return ToolCall{ID: id, Kind: "function", Function: FunctionCall{Name: name, Arguments: argumentsJSON}}
}

// ArgumentsMap parses the call's arguments JSON into a map.
func (c ToolCall) ArgumentsMap() (map[string]any, error) {
	args := c.Function.Arguments
	if strings.TrimSpace(args) == "" {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(args), &m); err != nil {
		return nil, &JSONParseError{Message: fmt.Sprintf("tool call %s arguments are not valid JSON", c.ID), Err: err}
	}
	return m, nil
}

// ToolResultItem is the user-side return of one tool output.
type ToolResultItem struct {
	ToolCallID string `json:"toolCallId"`
	Content    string `json:"content"`
	IsError    bool   `json:"isError,omitempty"`
}
