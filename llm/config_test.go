package llm

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWithExtensionsReadback(t *testing.T) {
	ext := map[string]any{
		"reasoning":            true,
		"thinkingBudgetTokens": 2048,
		"custom":               "value",
	}
	cfg := Config{Model: "m"}.WithExtensions(ext)

	for k, want := range ext {
		got, ok := cfg.Extension(k)
		if !ok {
			t.Fatalf("extension %q missing after WithExtensions", k)
		}
		if got != want {
			t.Errorf("extension %q = %v, want %v", k, got, want)
		}
	}
}

func TestWithExtensionDoesNotMutateReceiver(t *testing.T) {
	base := Config{Model: "m"}.WithExtension("a", 1)
	derived := base.WithExtension("b", 2)

	if base.HasExtension("b") {
		t.Error("WithExtension mutated the receiver's extension map")
	}
	if !derived.HasExtension("a") || !derived.HasExtension("b") {
		t.Error("derived config lost extensions")
	}
}

func TestConfigCloneIsDeep(t *testing.T) {
	temp := 0.5
	cfg := Config{
		Model:       "m",
		Temperature: &temp,
		Tools:       []Tool{NewTool("t", "d", ParametersSchema{Type: TypeObject})},
		Extensions:  map[string]any{"k": "v"},
	}
	clone := cfg.Clone()
	*clone.Temperature = 0.9
	clone.Extensions["k"] = "changed"
	clone.Tools[0].Function.Name = "renamed"

	if *cfg.Temperature != 0.5 {
		t.Error("clone shares Temperature pointer")
	}
	if cfg.Extensions["k"] != "v" {
		t.Error("clone shares Extensions map")
	}
	if cfg.Tools[0].Function.Name != "t" {
		t.Error("clone shares Tools slice")
	}
}

func TestConfigJSONRoundTrip(t *testing.T) {
	temp := 0.7
	cfg := Config{
		APIKey:       "k",
		BaseURL:      "https://api.example.com",
		Model:        "m",
		MaxTokens:    2048,
		Temperature:  &temp,
		SystemPrompt: "be brief",
		Extensions: map[string]any{
			"reasoning": true,
			"unknown":   "preserved",
		},
	}
	raw, err := cfg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	back, err := ConfigFromJSON(raw)
	if err != nil {
		t.Fatalf("ConfigFromJSON: %v", err)
	}
	if back.Model != cfg.Model || back.APIKey != cfg.APIKey || *back.Temperature != temp {
		t.Errorf("round trip lost fields: %+v", back)
	}
	if v, _ := back.Extension("unknown"); v != "preserved" {
		t.Errorf("unknown extension not preserved, got %v", v)
	}
	if !BoolExtension(back, "reasoning") {
		t.Error("boolean extension lost in round trip")
	}
}

func TestGetExtensionTypeMismatch(t *testing.T) {
	cfg := Config{}.WithExtension("n", "not-an-int")

	if _, ok := GetExtension[int](cfg, "n"); ok {
		t.Error("GetExtension returned ok for mismatched type")
	}
	if _, err := RequireExtension[int](cfg, "n"); err == nil {
		t.Error("RequireExtension did not error on mismatched type")
	} else if AsLLMError(err).Code() != ErrCodeInvalidRequest {
		t.Errorf("RequireExtension error code = %v, want invalid_request", AsLLMError(err).Code())
	}
}

func TestIntExtensionToleratesFloat64(t *testing.T) {
	// JSON unmarshaling turns numbers into float64.
	cfg := Config{Extensions: map[string]any{"budget": float64(2048)}}
	got, ok := IntExtension(cfg, "budget")
	if !ok || got != 2048 {
		t.Errorf("IntExtension = %d, %v; want 2048, true", got, ok)
	}
}

func TestApplyDefaults(t *testing.T) {
	user := Config{
		APIKey:     "user-key",
		Model:      "user-model",
		Extensions: map[string]any{"a": "user"},
	}
	defaults := Config{
		BaseURL:    "https://default.example.com",
		Model:      "default-model",
		MaxTokens:  1024,
		Extensions: map[string]any{"a": "default", "b": "default"},
	}

	merged, err := ApplyDefaults(user, defaults)
	if err != nil {
		t.Fatalf("ApplyDefaults: %v", err)
	}

	want := Config{
		APIKey:     "user-key",
		BaseURL:    "https://default.example.com",
		Model:      "user-model",
		MaxTokens:  1024,
		Extensions: map[string]any{"a": "user", "b": "default"},
	}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Errorf("merged config mismatch (-want +got):\n%s", diff)
	}
}
