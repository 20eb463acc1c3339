// Package llm - tool definitions and schemas
package llm

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// PropertyType enumerates the restricted JSON-schema types a tool parameter
// may declare.
type PropertyType string

const (
	TypeString  PropertyType = "string"
	TypeNumber  PropertyType = "number"
	TypeInteger PropertyType = "integer"
	TypeBoolean PropertyType = "boolean"
	TypeArray   PropertyType = "array"
	TypeObject  PropertyType = "object"
)

// Property is one node of a restricted JSON schema.
type Property struct {
	Type        PropertyType        `json:"type"`
	Description string              `json:"description,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Required    []string            `json:"required,omitempty"`
}

// ParametersSchema mirrors a restricted JSON schema for tool parameters.
type ParametersSchema struct {
	Type       PropertyType        `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// Tool is a function definition offered to the model.
type Tool struct {
	Kind     string      `json:"type"` // always "function"
	Function FunctionDef `json:"function"`
}

// FunctionDef describes the callable function of a tool.
type FunctionDef struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Parameters  ParametersSchema `json:"parameters"`
}

// NewTool builds a function tool.
func NewTool(name, description string, params ParametersSchema) Tool {
	return Tool{Kind: "function", Function: FunctionDef{Name: name, Description: description, Parameters: params}}
}

// ToolFromFunction reflects a Go struct into a tool definition. The struct's
// exported fields (honoring json tags and jsonschema struct tags) become the
// tool's parameters.
func ToolFromFunction(name, description string, input any) (Tool, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
		Anonymous:      true,
	}
	schema := r.Reflect(input)
	raw, err := schema.MarshalJSON()
	if err != nil {
		return Tool{}, fmt.Errorf("reflect tool schema: %w", err)
	}
	var params ParametersSchema
	if err := json.Unmarshal(raw, &params); err != nil {
		return Tool{}, fmt.Errorf("decode reflected schema: %w", err)
	}
	if params.Type == "" {
		params.Type = TypeObject
	}
	return NewTool(name, description, params), nil
}
