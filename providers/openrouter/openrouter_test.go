package openrouter

import (
	"testing"

	"github.com/modelgate/modelgate/llm"

	"github.com/tidwall/gjson"
)

func TestTransformBodySearchDisabled(t *testing.T) {
	body := []byte(`{"model":"anthropic/claude-sonnet-4"}`)
	out, err := transformBody(body, llm.Config{Model: "anthropic/claude-sonnet-4"})
	if err != nil {
		t.Fatalf("transformBody: %v", err)
	}
	if string(out) != string(body) {
		t.Errorf("body changed without search knobs: %s", out)
	}
}

func TestTransformBodyOnlineShortcut(t *testing.T) {
	cfg := llm.Config{Model: "anthropic/claude-sonnet-4"}.WithExtension(llm.ExtWebSearchEnabled, true)
	out, err := transformBody([]byte(`{"model":"anthropic/claude-sonnet-4"}`), cfg)
	if err != nil {
		t.Fatalf("transformBody: %v", err)
	}
	if got := gjson.GetBytes(out, "model"); got.String() != "anthropic/claude-sonnet-4:online" {
		t.Errorf("model = %q, want :online suffix", got.String())
	}

	// Already-online models are left alone.
	cfg.Model = "anthropic/claude-sonnet-4:online"
	body := []byte(`{"model":"anthropic/claude-sonnet-4:online"}`)
	out, err = transformBody(body, cfg)
	if err != nil {
		t.Fatalf("transformBody: %v", err)
	}
	if string(out) != string(body) {
		t.Errorf("online model rewritten: %s", out)
	}
}

func TestTransformBodyWebPlugin(t *testing.T) {
	cfg := llm.Config{Model: "anthropic/claude-sonnet-4"}.WithExtension(llm.ExtWebSearchConfig, map[string]any{
		"search_prompt": "focus on primary sources",
		"max_results":   3,
	})
	out, err := transformBody([]byte(`{"model":"anthropic/claude-sonnet-4"}`), cfg)
	if err != nil {
		t.Fatalf("transformBody: %v", err)
	}
	if got := gjson.GetBytes(out, "plugins.0.id"); got.String() != "web" {
		t.Errorf("plugin id = %q, want web", got.String())
	}
	if got := gjson.GetBytes(out, "plugins.0.search_prompt"); got.String() != "focus on primary sources" {
		t.Errorf("search_prompt = %q", got.String())
	}
	if got := gjson.GetBytes(out, "plugins.0.max_results"); got.Int() != 3 {
		t.Errorf("max_results = %v, want 3", got)
	}
	// Plugin search does not rewrite the model.
	if got := gjson.GetBytes(out, "model"); got.String() != "anthropic/claude-sonnet-4" {
		t.Errorf("model = %q", got.String())
	}
}
