package llm

import (
	"strings"
	"testing"
)

func weatherTool() Tool {
	return NewTool("get_weather", "Look up current weather", ParametersSchema{
		Type: TypeObject,
		Properties: map[string]Property{
			"location": {Type: TypeString},
			"unit":     {Type: TypeString, Enum: []string{"celsius", "fahrenheit"}},
			"days":     {Type: TypeInteger},
			"tags":     {Type: TypeArray, Items: &Property{Type: TypeString}},
			"options": {
				Type: TypeObject,
				Properties: map[string]Property{
					"verbose": {Type: TypeBoolean},
				},
				Required: []string{"verbose"},
			},
		},
		Required: []string{"location"},
	})
}

func TestValidateToolCallValid(t *testing.T) {
	call := NewToolCall("c1", "get_weather",
		`{"location":"Cape Town","unit":"celsius","days":3,"tags":["a","b"],"options":{"verbose":true}}`)
	if err := ValidateToolCall(call, weatherTool()); err != nil {
		t.Fatalf("valid call rejected: %v", err)
	}
}

func TestValidateToolCallViolations(t *testing.T) {
	tests := []struct {
		name string
		args string
		want string
	}{
		{"missing required", `{}`, `missing required property "location"`},
		{"wrong type", `{"location":42}`, "expected string"},
		{"enum violation", `{"location":"x","unit":"kelvin"}`, "not in enum"},
		{"non-integral", `{"location":"x","days":1.5}`, "non-integral"},
		{"bad array item", `{"location":"x","tags":[1]}`, "expected string"},
		{"nested required", `{"location":"x","options":{}}`, `missing required property "verbose"`},
		{"not json", `{`, "not a JSON object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := NewToolCall("c1", "get_weather", tt.args)
			err := ValidateToolCall(call, weatherTool())
			if err == nil {
				t.Fatal("invalid call accepted")
			}
			tce, ok := err.(*ToolConfigError)
			if !ok {
				t.Fatalf("got %T, want *ToolConfigError", err)
			}
			if !strings.Contains(strings.Join(tce.Violations, "; "), tt.want) {
				t.Errorf("violations %v do not mention %q", tce.Violations, tt.want)
			}
		})
	}
}

func TestValidateToolCallNameMismatch(t *testing.T) {
	call := NewToolCall("c1", "other_tool", `{"location":"x"}`)
	err := ValidateToolCall(call, weatherTool())
	if err == nil {
		t.Fatal("name mismatch accepted")
	}
	if !strings.Contains(err.Error(), "name mismatch") {
		t.Errorf("error does not mention name mismatch: %v", err)
	}
}

func TestValidateToolCallAccumulatesAll(t *testing.T) {
	call := NewToolCall("c1", "get_weather", `{"unit":"kelvin","days":"three"}`)
	err := ValidateToolCall(call, weatherTool())
	tce, ok := err.(*ToolConfigError)
	if !ok {
		t.Fatalf("got %T, want *ToolConfigError", err)
	}
	if len(tce.Violations) < 3 {
		t.Errorf("expected at least 3 accumulated violations, got %v", tce.Violations)
	}
}

func TestValidateParametersUndeclaredAllowed(t *testing.T) {
	got := ValidateParameters(`{"location":"x","extra":"fine"}`, weatherTool().Function.Parameters)
	if len(got) != 0 {
		t.Errorf("undeclared property flagged: %v", got)
	}
}
