// Package llm - tool call and schema validation
package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidateParameters checks arguments (a JSON object string) against a
// restricted parameters schema and returns the accumulated violations.
// An empty slice means the arguments satisfy the schema.
func ValidateParameters(argumentsJSON string, schema ParametersSchema) []string {
	var violations []string

	var args map[string]any
	trimmed := strings.TrimSpace(argumentsJSON)
	if trimmed == "" {
		trimmed = "{}"
	}
	if err := json.Unmarshal([]byte(trimmed), &args); err != nil {
		return []string{fmt.Sprintf("arguments are not a JSON object: %v", err)}
	}

	validateObject(args, Property{Type: TypeObject, Properties: schema.Properties, Required: schema.Required}, "", &violations)
	return violations
}

// ValidateToolCall validates a tool call against its tool definition: the
// names must match, the arguments must parse as JSON, and every property
// must satisfy its schema node. Returns nil on success or a ToolConfigError
// carrying every violation.
func ValidateToolCall(call ToolCall, tool Tool) error {
	var violations []string

	if call.Function.Name != tool.Function.Name {
		violations = append(violations, fmt.Sprintf("tool name mismatch: call %q, definition %q", call.Function.Name, tool.Function.Name))
	}

	violations = append(violations, ValidateParameters(call.Function.Arguments, tool.Function.Parameters)...)

	if len(violations) > 0 {
		return &ToolConfigError{
			Message:    fmt.Sprintf("tool call %s failed validation", call.Function.Name),
			Violations: violations,
		}
	}
	return nil
}

// validateValue checks one value against one schema node, accumulating
// violations under the given path.
func validateValue(value any, prop Property, path string, violations *[]string) {
	switch prop.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			*violations = append(*violations, fmt.Sprintf("%s: expected string, got %s", path, jsonTypeName(value)))
			return
		}
		if len(prop.Enum) > 0 && !containsString(prop.Enum, s) {
			*violations = append(*violations, fmt.Sprintf("%s: value %q not in enum %v", path, s, prop.Enum))
		}
	case TypeNumber:
		if _, ok := value.(float64); !ok {
			*violations = append(*violations, fmt.Sprintf("%s: expected number, got %s", path, jsonTypeName(value)))
		}
	case TypeInteger:
		f, ok := value.(float64)
		if !ok {
			*violations = append(*violations, fmt.Sprintf("%s: expected integer, got %s", path, jsonTypeName(value)))
			return
		}
		if f != float64(int64(f)) {
			*violations = append(*violations, fmt.Sprintf("%s: expected integer, got non-integral number %v", path, f))
		}
	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			*violations = append(*violations, fmt.Sprintf("%s: expected boolean, got %s", path, jsonTypeName(value)))
		}
	case TypeArray:
		arr, ok := value.([]any)
		if !ok {
			*violations = append(*violations, fmt.Sprintf("%s: expected array, got %s", path, jsonTypeName(value)))
			return
		}
		if prop.Items != nil {
			for i, item := range arr {
				validateValue(item, *prop.Items, fmt.Sprintf("%s[%d]", path, i), violations)
			}
		}
	case TypeObject:
		obj, ok := value.(map[string]any)
		if !ok {
			*violations = append(*violations, fmt.Sprintf("%s: expected object, got %s", path, jsonTypeName(value)))
			return
		}
		validateObject(obj, prop, path, violations)
	default:
		*violations = append(*violations, fmt.Sprintf("%s: unknown schema type %q", path, prop.Type))
	}
}

// validateObject checks required members and recurses into declared
// properties. Undeclared members are allowed.
func validateObject(obj map[string]any, prop Property, path string, violations *[]string) {
	for _, req := range prop.Required {
		if _, ok := obj[req]; !ok {
			*violations = append(*violations, fmt.Sprintf("%s: missing required property %q", orRoot(path), req))
		}
	}
	for name, child := range prop.Properties {
		value, ok := obj[name]
		if !ok {
			continue
		}
		childPath := name
		if path != "" {
			childPath = path + "." + name
		}
		validateValue(value, child, childPath, violations)
	}
}

func orRoot(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
