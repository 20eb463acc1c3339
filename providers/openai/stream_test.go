package openai

import (
	"strings"
	"testing"

	"github.com/modelgate/modelgate/llm"
	"github.com/modelgate/modelgate/llm/transport"
)

func fakeStream(chunks ...string) *transport.Stream {
	ch := make(chan string, len(chunks))
	for _, c := range chunks {
		ch <- c
	}
	close(ch)
	done := make(chan struct{})
	close(done)
	var err error
	return transport.NewStream(ch, &err, done)
}

func collectStream(t *testing.T, s *transport.Stream) []llm.StreamEvent {
	t.Helper()
	events := make(chan llm.StreamEvent)
	go runCompatStream(s, "gpt-4o", events)
	var out []llm.StreamEvent
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func chunk(data string) string {
	return "data: " + data + "\n\n"
}

func TestRunCompatStreamTextDeltas(t *testing.T) {
	events := collectStream(t, fakeStream(
		chunk(`{"id":"cmpl-1","model":"gpt-4o","choices":[{"delta":{"content":"Hel"}}]}`),
		chunk(`{"id":"cmpl-1","choices":[{"delta":{"content":"lo"}}]}`),
		chunk(`{"id":"cmpl-1","choices":[{"delta":{},"finish_reason":"stop"}]}`),
		chunk(`{"id":"cmpl-1","choices":[],"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5}}`),
		chunk(`[DONE]`),
	))

	if len(events) != 3 {
		t.Fatalf("got %d events %v, want 3", len(events), events)
	}
	if d, ok := events[0].(llm.TextDelta); !ok || d.Text != "Hel" {
		t.Errorf("event 0 = %+v", events[0])
	}
	comp, ok := events[2].(llm.Completion)
	if !ok {
		t.Fatalf("event 2 = %+v, want Completion", events[2])
	}
	if comp.Response.Text != "Hello" || comp.Response.StopReason != "stop" {
		t.Errorf("response = %+v", comp.Response)
	}
	if comp.Response.Usage == nil || *comp.Response.Usage.TotalTokens != 5 {
		t.Errorf("usage = %+v", comp.Response.Usage)
	}
}

func TestRunCompatStreamToolCallAccumulation(t *testing.T) {
	events := collectStream(t, fakeStream(
		chunk(`{"id":"cmpl-2","choices":[{"delta":{"tool_calls":[{"index":0,"id":"call_1","function":{"name":"add","arguments":"{\"a\""}}]}}]}`),
		chunk(`{"id":"cmpl-2","choices":[{"delta":{"tool_calls":[{"index":0,"function":{"arguments":":1}"}}]}}]}`),
		chunk(`{"id":"cmpl-2","choices":[{"delta":{},"finish_reason":"tool_calls"}]}`),
		chunk(`[DONE]`),
	))

	if len(events) != 2 {
		t.Fatalf("got %d events %v, want ToolCallDelta then Completion", len(events), events)
	}
	tc, ok := events[0].(llm.ToolCallDelta)
	if !ok {
		t.Fatalf("event 0 = %+v, want ToolCallDelta", events[0])
	}
	if tc.ToolCall.ID != "call_1" || tc.ToolCall.Function.Name != "add" {
		t.Errorf("tool call = %+v", tc.ToolCall)
	}
	if tc.ToolCall.Function.Arguments != `{"a":1}` {
		t.Errorf("arguments = %q, want complete JSON", tc.ToolCall.Function.Arguments)
	}
	comp := events[1].(llm.Completion)
	if len(comp.Response.ToolCalls) != 1 {
		t.Errorf("response tool calls = %v", comp.Response.ToolCalls)
	}
}

func TestRunCompatStreamParallelToolCallsOrdered(t *testing.T) {
	events := collectStream(t, fakeStream(
		chunk(`{"choices":[{"delta":{"tool_calls":[{"index":1,"id":"call_b","function":{"name":"second","arguments":"{}"}}]}}]}`),
		chunk(`{"choices":[{"delta":{"tool_calls":[{"index":0,"id":"call_a","function":{"name":"first","arguments":"{}"}}]}}]}`),
		chunk(`{"choices":[{"delta":{},"finish_reason":"tool_calls"}]}`),
		chunk(`[DONE]`),
	))

	if len(events) != 3 {
		t.Fatalf("got %d events %v, want two deltas and a Completion", len(events), events)
	}
	first := events[0].(llm.ToolCallDelta)
	second := events[1].(llm.ToolCallDelta)
	if first.ToolCall.Function.Name != "first" || second.ToolCall.Function.Name != "second" {
		t.Errorf("calls out of index order: %v then %v", first.ToolCall, second.ToolCall)
	}
}

func TestRunCompatStreamMissingToolIDSynthesized(t *testing.T) {
	events := collectStream(t, fakeStream(
		chunk(`{"choices":[{"delta":{"tool_calls":[{"index":0,"function":{"name":"add","arguments":"{}"}}]}}]}`),
		chunk(`{"choices":[{"delta":{},"finish_reason":"tool_calls"}]}`),
		chunk(`[DONE]`),
	))

	tc, ok := events[0].(llm.ToolCallDelta)
	if !ok {
		t.Fatalf("event 0 = %+v, want ToolCallDelta", events[0])
	}
	if !strings.HasPrefix(tc.ToolCall.ID, "call_") || len(tc.ToolCall.ID) <= len("call_") {
		t.Errorf("missing id not synthesized: %q", tc.ToolCall.ID)
	}
}

func TestRunCompatStreamMalformedToolArguments(t *testing.T) {
	events := collectStream(t, fakeStream(
		chunk(`{"choices":[{"delta":{"tool_calls":[{"index":0,"id":"call_1","function":{"name":"add","arguments":"{\"a\":"}}]}}]}`),
		chunk(`{"choices":[{"delta":{},"finish_reason":"tool_calls"}]}`),
		chunk(`[DONE]`),
	))

	if len(events) != 1 {
		t.Fatalf("got %d events %v, want exactly one ErrorEvent", len(events), events)
	}
	ee, ok := events[0].(llm.ErrorEvent)
	if !ok {
		t.Fatalf("event 0 = %+v, want ErrorEvent", events[0])
	}
	if ee.Err.Code() != llm.ErrCodeJSONParse {
		t.Errorf("error code = %v, want json parse", ee.Err.Code())
	}
}

func TestRunCompatStreamReasoningContent(t *testing.T) {
	events := collectStream(t, fakeStream(
		chunk(`{"choices":[{"delta":{"reasoning_content":"thinking..."}}]}`),
		chunk(`{"choices":[{"delta":{"content":"42"}}]}`),
		chunk(`[DONE]`),
	))

	if len(events) != 3 {
		t.Fatalf("got %d events %v, want 3", len(events), events)
	}
	if d, ok := events[0].(llm.ThinkingDelta); !ok || d.Text != "thinking..." {
		t.Errorf("event 0 = %+v, want ThinkingDelta", events[0])
	}
	comp := events[2].(llm.Completion)
	if comp.Response.Thinking != "thinking..." || comp.Response.Text != "42" {
		t.Errorf("response = %+v", comp.Response)
	}
}

func TestRunCompatStreamEndsWithoutDone(t *testing.T) {
	// Server closed without [DONE]: pending tool calls still flush and the
	// stream terminates with a single Completion.
	events := collectStream(t, fakeStream(
		chunk(`{"choices":[{"delta":{"tool_calls":[{"index":0,"id":"call_1","function":{"name":"add","arguments":"{}"}}]}}]}`),
	))

	if len(events) != 2 {
		t.Fatalf("got %d events %v, want ToolCallDelta then Completion", len(events), events)
	}
	if _, ok := events[0].(llm.ToolCallDelta); !ok {
		t.Errorf("event 0 = %+v, want ToolCallDelta", events[0])
	}
	if _, ok := events[1].(llm.Completion); !ok {
		t.Errorf("event 1 = %+v, want Completion", events[1])
	}
}
