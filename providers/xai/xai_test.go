package xai

import (
	"testing"

	"github.com/modelgate/modelgate/llm"

	"github.com/tidwall/gjson"
)

func TestTransformBodySearchDisabled(t *testing.T) {
	body := []byte(`{"model":"grok-4","messages":[]}`)
	out, err := transformBody(body, llm.Config{Model: "grok-4"})
	if err != nil {
		t.Fatalf("transformBody: %v", err)
	}
	if string(out) != string(body) {
		t.Errorf("body changed without search knobs: %s", out)
	}
}

func TestTransformBodySearchEnabledDefaultsToAuto(t *testing.T) {
	cfg := llm.Config{Model: "grok-4"}.WithExtension(llm.ExtWebSearchEnabled, true)
	out, err := transformBody([]byte(`{"model":"grok-4"}`), cfg)
	if err != nil {
		t.Fatalf("transformBody: %v", err)
	}
	if got := gjson.GetBytes(out, "search_parameters.mode"); got.String() != "auto" {
		t.Errorf("mode = %q, want auto", got.String())
	}
}

func TestTransformBodySearchConfig(t *testing.T) {
	cfg := llm.Config{Model: "grok-4"}.WithExtension(llm.ExtWebSearchConfig, map[string]any{
		"mode":               "on",
		"from_date":          "2025-01-01",
		"max_search_results": 5,
		"unknown_key":        "dropped",
	})
	out, err := transformBody([]byte(`{"model":"grok-4"}`), cfg)
	if err != nil {
		t.Fatalf("transformBody: %v", err)
	}
	if got := gjson.GetBytes(out, "search_parameters.mode"); got.String() != "on" {
		t.Errorf("mode = %q, want on", got.String())
	}
	if got := gjson.GetBytes(out, "search_parameters.from_date"); got.String() != "2025-01-01" {
		t.Errorf("from_date = %q", got.String())
	}
	if got := gjson.GetBytes(out, "search_parameters.max_search_results"); got.Int() != 5 {
		t.Errorf("max_search_results = %v, want 5", got)
	}
	if gjson.GetBytes(out, "search_parameters.unknown_key").Exists() {
		t.Errorf("unknown key forwarded: %s", out)
	}
}
