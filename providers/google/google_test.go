package google

import (
	"testing"

	"github.com/modelgate/modelgate/llm"

	"github.com/tidwall/gjson"
)

func TestTransformBodyThinkingConfig(t *testing.T) {
	cfg := llm.Config{Model: "gemini-2.5-flash"}.WithExtensions(map[string]any{
		llm.ExtReasoning:            true,
		llm.ExtThinkingBudgetTokens: 2048,
	})
	body := []byte(`{"model":"gemini-2.5-flash","messages":[{"role":"user","content":"hi"}]}`)

	out, err := transformBody(body, cfg)
	if err != nil {
		t.Fatalf("transformBody: %v", err)
	}
	if got := gjson.GetBytes(out, "extra_body.config.thinkingConfig.includeThoughts"); !got.Bool() {
		t.Errorf("includeThoughts = %v, want true", got)
	}
	if got := gjson.GetBytes(out, "extra_body.config.thinkingConfig.thinkingBudget"); got.Int() != 2048 {
		t.Errorf("thinkingBudget = %v, want 2048", got)
	}
	// Untouched fields survive the injection.
	if got := gjson.GetBytes(out, "messages.0.content"); got.String() != "hi" {
		t.Errorf("messages mutated: %s", out)
	}
}

func TestTransformBodyNoReasoning(t *testing.T) {
	cfg := llm.Config{Model: "gemini-2.5-flash"}
	body := []byte(`{"model":"gemini-2.5-flash","messages":[]}`)

	out, err := transformBody(body, cfg)
	if err != nil {
		t.Fatalf("transformBody: %v", err)
	}
	if string(out) != string(body) {
		t.Errorf("body changed without any thinking knob:\ngot  %s\nwant %s", out, body)
	}
}

func TestTransformBodyReasoningEffort(t *testing.T) {
	cfg := llm.Config{Model: "gemini-2.5-pro"}.WithExtension(llm.ExtReasoningEffort, "high")
	out, err := transformBody([]byte(`{"model":"gemini-2.5-pro"}`), cfg)
	if err != nil {
		t.Fatalf("transformBody: %v", err)
	}
	if got := gjson.GetBytes(out, "extra_body.reasoning_effort"); got.String() != "high" {
		t.Errorf("reasoning_effort = %q, want high", got.String())
	}
}

func TestTransformHeaders(t *testing.T) {
	cfg := llm.Config{Model: "gemini-2.5-flash"}.WithExtension(llm.ExtIncludeThoughts, true)
	headers := transformHeaders(map[string]string{"Authorization": "Bearer k"}, cfg)
	if headers["X-Goog-Include-Thoughts"] != "true" {
		t.Errorf("header missing: %v", headers)
	}

	plain := transformHeaders(map[string]string{}, llm.Config{Model: "gemini-2.5-flash"})
	if _, ok := plain["X-Goog-Include-Thoughts"]; ok {
		t.Error("header set without thinking knobs")
	}
}
