// Package openai - streaming translation
package openai

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/modelgate/modelgate/llm"
	"github.com/modelgate/modelgate/llm/transport"

	"github.com/google/uuid"

	. "github.com/modelgate/modelgate/internal/logging"
)

// chatChunk is one streamed chat completion delta.
type chatChunk struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		FinishReason string `json:"finish_reason"`
		Delta        struct {
			Content          string          `json:"content"`
			ReasoningContent string          `json:"reasoning_content"`
			ToolCalls        []chunkToolCall `json:"tool_calls"`
		} `json:"delta"`
	} `json:"choices"`
	Usage *chatUsage `json:"usage"`
}

type chunkToolCall struct {
	Index    int    `json:"index"`
	ID       string `json:"id"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

// toolCallAcc accumulates one tool call across chunks, keyed by index.
type toolCallAcc struct {
	id   string
	name string
	args strings.Builder
}

// compatParser folds chat completion chunks into unified stream events.
type compatParser struct {
	model      string
	id         string
	texts      []string
	thinkings  []string
	toolAccs   map[int]*toolCallAcc
	toolOrder  []int
	emitted    []llm.ToolCall
	stopReason string
	usage      *llm.Usage
}

// runCompatStream drives the parser over the transport stream, closing
// events after exactly one Completion or ErrorEvent.
func runCompatStream(stream *transport.Stream, model string, events chan<- llm.StreamEvent) {
	defer close(events)

	p := &compatParser{model: model, toolAccs: make(map[int]*toolCallAcc)}
	var scanner transport.SSEScanner
	terminal := false

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
				terminal = true
				for range stream.Chunks() {
				}
				break
			}
		}
		if terminal {
			return
		}
	}
	for _, sse := range scanner.Flush() {
		if emit(p.handle(sse)) {
			return
		}
	}

	if err := stream.Err(); err != nil {
		events <- llm.ErrorEvent{Err: llm.AsLLMError(err)}
		return
	}
	// Server closed without [DONE]; treat as completion.
	if evs := p.flushToolCalls(); emit(evs) {
		return
	}
	events <- llm.Completion{Response: p.response()}
}

// handle processes one framed SSE event.
func (p *compatParser) handle(sse transport.SSEEvent) []llm.StreamEvent {
	data := strings.TrimSpace(sse.Data)
	if data == "" {
		return nil
	}
	if data == "[DONE]" {
		evs := p.flushToolCalls()
		return append(evs, llm.Completion{Response: p.response()})
	}

	var chunk chatChunk
	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		L_warn("openai: skipping malformed stream chunk", "error", err)
		return nil
	}

	if chunk.ID != "" {
		p.id = chunk.ID
	}
	if chunk.Model != "" {
		p.model = chunk.Model
	}
	if chunk.Usage != nil {
		p.usage = chunk.Usage.toUsage()
	}
	if len(chunk.Choices) == 0 {
		return nil
	}

	choice := chunk.Choices[0]
	var evs []llm.StreamEvent

	if choice.Delta.ReasoningContent != "" {
		p.thinkings = append(p.thinkings, choice.Delta.ReasoningContent)
		evs = append(evs, llm.ThinkingDelta{Text: choice.Delta.ReasoningContent})
	}
	if choice.Delta.Content != "" {
		p.texts = append(p.texts, choice.Delta.Content)
		evs = append(evs, llm.TextDelta{Text: choice.Delta.Content})
	}
	for _, tc := range choice.Delta.ToolCalls {
		acc, ok := p.toolAccs[tc.Index]
		if !ok {
			acc = &toolCallAcc{}
			p.toolAccs[tc.Index] = acc
			p.toolOrder = append(p.toolOrder, tc.Index)
		}
		if tc.ID != "" {
			acc.id = tc.ID
		}
		if tc.Function.Name != "" {
			acc.name = tc.Function.Name
		}
		acc.args.WriteString(tc.Function.Arguments)
	}

	if choice.FinishReason != "" {
		p.stopReason = choice.FinishReason
		if choice.FinishReason == "tool_calls" {
			evs = append(evs, p.flushToolCalls()...)
		}
	}
	return evs
}

// flushToolCalls emits accumulated tool calls in index order, once their
// argument JSON is complete. Malformed argument JSON is an error event.
func (p *compatParser) flushToolCalls() []llm.StreamEvent {
	if len(p.toolAccs) == 0 {
		return nil
	}
	sort.Ints(p.toolOrder)

	var evs []llm.StreamEvent
	for _, idx := range p.toolOrder {
		acc := p.toolAccs[idx]
		args := acc.args.String()
		if strings.TrimSpace(args) == "" {
			args = "{}"
		}
		if !json.Valid([]byte(args)) {
			return []llm.StreamEvent{llm.ErrorEvent{Err: &llm.JSONParseError{
				Message: "openai: tool call " + acc.name + " produced malformed argument JSON",
			}}}
		}
		id := acc.id
		if id == "" {
			id = "call_" + uuid.NewString()
		}
		call := llm.NewToolCall(id, acc.name, args)
		p.emitted = append(p.emitted, call)
		evs = append(evs, llm.ToolCallDelta{ToolCall: call})
	}
	p.toolAccs = make(map[int]*toolCallAcc)
	p.toolOrder = nil
	return evs
}

func (p *compatParser) response() *llm.ChatResponse {
	return &llm.ChatResponse{
		ID:         p.id,
		Model:      p.model,
		Text:       strings.Join(p.texts, ""),
		Thinking:   strings.Join(p.thinkings, ""),
		ToolCalls:  p.emitted,
		StopReason: p.stopReason,
		Usage:      p.usage,
	}
}
