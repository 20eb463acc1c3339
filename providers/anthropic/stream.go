// Package anthropic - streaming state machine
package anthropic

import (
	"encoding/json"
	"strings"

	"github.com/modelgate/modelgate/llm"
	"github.com/modelgate/modelgate/llm/transport"

	. "github.com/modelgate/modelgate/internal/logging"
)

// streamState is the explicit parser state. Keeping it in a struct rather
// than goroutine control flow makes cancellation and resumption cheap.
type streamState int

const (
	stateIdle streamState = iota
	stateMessageStarted
	stateInTextBlock
	stateInThinkingBlock
	stateInToolUseBlock
	stateCompleted
	stateErrored
)

// streamEvent is the union of Anthropic stream event payloads.
type streamEvent struct {
	Type string `json:"type"`

	Message      *messagesResponse `json:"message,omitempty"`
	ContentBlock *responseBlock    `json:"content_block,omitempty"`
	Delta        *streamDelta      `json:"delta,omitempty"`
	Usage        *wireUsage        `json:"usage,omitempty"`
	Error        *streamError      `json:"error,omitempty"`
}

type streamDelta struct {
	Type        string `json:"type,omitempty"`
	Text        string `json:"text,omitempty"`
	Thinking    string `json:"thinking,omitempty"`
	PartialJSON string `json:"partial_json,omitempty"`
	StopReason  string `json:"stop_reason,omitempty"`
}

type streamError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// streamParser folds SSE events into unified stream events. One parser
// serves one in-flight request and never outlives it.
type streamParser struct {
	state streamState
	model string

	texts     []string
	thinkings []string
	toolCalls []llm.ToolCall

	// current tool_use accumulation
	toolID   string
	toolName string
	toolJSON strings.Builder

	messageID  string
	stopReason string
	usage      *llm.Usage
}

// runStream drives the parser over the transport stream, closing events
// after exactly one Completion or ErrorEvent.
func runStream(stream *transport.Stream, model string, events chan<- llm.StreamEvent) {
	defer close(events)

	p := &streamParser{state: stateIdle, model: model}
	var scanner transport.SSEScanner

	emit := func(evs []llm.StreamEvent) bool {
		for _, ev := range evs {
			events <- ev
			switch ev.(type) {
			case llm.Completion, llm.ErrorEvent:
				return true
			}
		}
		return false
	}

	for chunk := range stream.Chunks() {
		for _, sse := range scanner.Write(chunk) {
			if emit(p.handle(sse)) {
				// Drain the socket so the transport goroutine can exit.
				for range stream.Chunks() {
				}
				return
			}
		}
	}
	for _, sse := range scanner.Flush() {
		if emit(p.handle(sse)) {
			return
		}
	}

	// Stream ended without a terminal event.
	if err := stream.Err(); err != nil {
		events <- llm.ErrorEvent{Err: llm.AsLLMError(err)}
		return
	}
	L_warn("anthropic: stream ended without message_stop")
	events <- llm.Completion{Response: p.response()}
}

// handle processes one framed SSE event and returns the unified events it
// produces, in order.
func (p *streamParser) handle(sse transport.SSEEvent) []llm.StreamEvent {
	if p.state == stateCompleted || p.state == stateErrored {
		return nil
	}
	data := strings.TrimSpace(sse.Data)
	if data == "" {
		return nil
	}
	if data == "[DONE]" {
		p.state = stateCompleted
		return []llm.StreamEvent{llm.Completion{Response: p.response()}}
	}

	var ev streamEvent
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		L_warn("anthropic: skipping malformed stream event", "error", err)
		return nil
	}

	switch ev.Type {
	case "message_start":
		p.state = stateMessageStarted
		if ev.Message != nil {
			p.messageID = ev.Message.ID
			if ev.Message.Model != "" {
				p.model = ev.Message.Model
			}
			p.addUsage(ev.Message.Usage)
		}

	case "content_block_start":
		if ev.ContentBlock == nil {
			break
		}
		switch ev.ContentBlock.Type {
		case "text":
			p.state = stateInTextBlock
		case "thinking":
			p.state = stateInThinkingBlock
		case "redacted_thinking":
			p.state = stateInThinkingBlock
			p.thinkings = append(p.thinkings, llm.RedactedThinkingSentinel)
			return []llm.StreamEvent{llm.ThinkingDelta{Text: llm.RedactedThinkingSentinel}}
		case "tool_use", "mcp_tool_use":
			p.state = stateInToolUseBlock
			p.toolID = ev.ContentBlock.ID
			p.toolName = ev.ContentBlock.Name
			p.toolJSON.Reset()
		default:
			L_trace("anthropic: ignoring content block", "type", ev.ContentBlock.Type)
		}

	case "content_block_delta":
		if ev.Delta == nil {
			break
		}
		switch {
		case ev.Delta.Text != "":
			p.texts = append(p.texts, ev.Delta.Text)
			return []llm.StreamEvent{llm.TextDelta{Text: ev.Delta.Text}}
		case ev.Delta.Thinking != "":
			p.thinkings = append(p.thinkings, ev.Delta.Thinking)
			return []llm.StreamEvent{llm.ThinkingDelta{Text: ev.Delta.Thinking}}
		case ev.Delta.PartialJSON != "":
			if p.state == stateInToolUseBlock {
				p.toolJSON.WriteString(ev.Delta.PartialJSON)
			}
		}

	case "content_block_stop":
		if p.state == stateInToolUseBlock {
			return p.finishToolUse()
		}
		p.state = stateMessageStarted

	case "message_delta":
		if ev.Delta != nil && ev.Delta.StopReason != "" {
			p.stopReason = ev.Delta.StopReason
			if p.stopReason == "pause_turn" || p.stopReason == "tool_use" {
				L_debug("anthropic: stream stop reason", "stop_reason", p.stopReason)
			}
		}
		p.addUsage(ev.Usage)

	case "message_stop":
		p.state = stateCompleted
		return []llm.StreamEvent{llm.Completion{Response: p.response()}}

	case "error":
		p.state = stateErrored
		typ, msg := "", "stream error"
		if ev.Error != nil {
			typ, msg = ev.Error.Type, ev.Error.Message
		}
		return []llm.StreamEvent{llm.ErrorEvent{Err: llm.FromErrorType(typ, msg)}}

	case "ping":
		// keep-alive

	default:
		L_trace("anthropic: ignoring stream event", "type", ev.Type)
	}
	return nil
}

// finishToolUse parses the accumulated tool input. A ToolCallDelta is only
// emitted once the arguments form complete, parseable JSON.
func (p *streamParser) finishToolUse() []llm.StreamEvent {
	args := p.toolJSON.String()
	if strings.TrimSpace(args) == "" {
		args = "{}"
	}
	if !json.Valid([]byte(args)) {
		p.state = stateErrored
		return []llm.StreamEvent{llm.ErrorEvent{Err: &llm.JSONParseError{
			Message: "anthropic: tool call " + p.toolName + " produced malformed input JSON",
		}}}
	}
	call := llm.NewToolCall(p.toolID, p.toolName, args)
	p.toolCalls = append(p.toolCalls, call)
	p.toolID, p.toolName = "", ""
	p.toolJSON.Reset()
	p.state = stateMessageStarted
	return []llm.StreamEvent{llm.ToolCallDelta{ToolCall: call}}
}

func (p *streamParser) addUsage(u *wireUsage) {
	if u == nil {
		return
	}
	add := u.toUsage()
	if p.usage == nil {
		p.usage = add
		return
	}
	merged := p.usage.Add(*add)
	p.usage = &merged
}

func (p *streamParser) response() *llm.ChatResponse {
	return &llm.ChatResponse{
		ID:         p.messageID,
		Model:      p.model,
		Text:       strings.Join(p.texts, ""),
		Thinking:   strings.Join(p.thinkings, ""),
		ToolCalls:  p.toolCalls,
		StopReason: p.stopReason,
		Usage:      p.usage,
	}
}
