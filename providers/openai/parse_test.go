package openai

import (
	"strings"
	"testing"

	"github.com/modelgate/modelgate/llm"
)

func TestParseChatResponseText(t *testing.T) {
	raw := `{"id":"cmpl-1","model":"gpt-4o","choices":[{"finish_reason":"stop",` +
		`"message":{"role":"assistant","content":"hello"}}],` +
		`"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5}}`

	resp, err := parseChatResponse([]byte(raw))
	if err != nil {
		t.Fatalf("parseChatResponse: %v", err)
	}
	if resp.Text != "hello" || resp.StopReason != "stop" || resp.ID != "cmpl-1" {
		t.Errorf("response = %+v", resp)
	}
	if resp.Usage == nil || *resp.Usage.TotalTokens != 5 {
		t.Errorf("usage = %+v", resp.Usage)
	}
}

func TestParseChatResponseReasoningContent(t *testing.T) {
	raw := `{"id":"c","choices":[{"message":{"content":"42","reasoning_content":"let me think"}}]}`
	resp, err := parseChatResponse([]byte(raw))
	if err != nil {
		t.Fatalf("parseChatResponse: %v", err)
	}
	if resp.Thinking != "let me think" || resp.Text != "42" {
		t.Errorf("response = %+v", resp)
	}
}

func TestParseChatResponseToolCalls(t *testing.T) {
	raw := `{"id":"c","choices":[{"finish_reason":"tool_calls","message":{"tool_calls":[` +
		`{"id":"call_1","type":"function","function":{"name":"add","arguments":"{\"a\":1}"}},` +
		`{"type":"function","function":{"name":"noid","arguments":"{}"}}]}}]}`

	resp, err := parseChatResponse([]byte(raw))
	if err != nil {
		t.Fatalf("parseChatResponse: %v", err)
	}
	if len(resp.ToolCalls) != 2 {
		t.Fatalf("tool calls = %v", resp.ToolCalls)
	}
	if resp.ToolCalls[0].ID != "call_1" || resp.ToolCalls[0].Function.Arguments != `{"a":1}` {
		t.Errorf("first call = %+v", resp.ToolCalls[0])
	}
	// A missing id is synthesized so tool results can refer back to it.
	if !strings.HasPrefix(resp.ToolCalls[1].ID, "call_") || len(resp.ToolCalls[1].ID) <= len("call_") {
		t.Errorf("second call id = %q, want synthesized", resp.ToolCalls[1].ID)
	}
}

func TestParseChatResponseNoChoices(t *testing.T) {
	_, err := parseChatResponse([]byte(`{"id":"c","choices":[]}`))
	if err == nil {
		t.Fatal("empty choices accepted")
	}
	if llm.AsLLMError(err).Code() != llm.ErrCodeResponseFormat {
		t.Errorf("error code = %v, want response format", llm.AsLLMError(err).Code())
	}
}
