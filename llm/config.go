// Package llm - unified provider configuration
package llm

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Well-known extension keys. Provider-specific behavior rides in the
// Extensions map under these keys; unknown keys are preserved verbatim.
const (
	ExtReasoning            = "reasoning"
	ExtThinkingBudgetTokens = "thinkingBudgetTokens"
	ExtInterleavedThinking  = "interleavedThinking"
	ExtReasoningEffort      = "reasoningEffort"
	ExtIncludeThoughts      = "includeThoughts"
	ExtMCPServers           = "mcpServers"
	ExtCachedSystemPrompt   = "cachedSystemPrompt"
	ExtPromptCache          = "promptCache"
	ExtMetadata             = "metadata"
	ExtContainer            = "container"
	ExtWebSearchConfig      = "webSearchConfig"
	ExtWebSearchEnabled     = "webSearchEnabled"
)

// Config is the unified configuration carrier: typed common fields plus an
// open extension map for provider-specific options. Config is a value type;
// the With* helpers return modified copies and never touch the receiver's
// maps.
type Config struct {
	APIKey         string      `json:"apiKey,omitempty"`
	BaseURL        string      `json:"baseURL"`
	Model          string      `json:"model"`
	MaxTokens      int         `json:"maxTokens,omitempty"`
	Temperature    *float64    `json:"temperature,omitempty"`
	SystemPrompt   string      `json:"systemPrompt,omitempty"`
	TimeoutSeconds int         `json:"timeoutSeconds,omitempty"`
	TopP           *float64    `json:"topP,omitempty"`
	TopK           *int        `json:"topK,omitempty"`
	Tools          []Tool      `json:"tools,omitempty"`
	ToolChoice     *ToolChoice `json:"toolChoice,omitempty"`
	StopSequences  []string    `json:"stopSequences,omitempty"`
	User           string      `json:"user,omitempty"`
	ServiceTier    string      `json:"serviceTier,omitempty"`

	Extensions map[string]any `json:"extensions,omitempty"`
}

// Clone returns a deep-enough copy: slices and the extension map are copied,
// pointer scalars are re-allocated.
func (c Config) Clone() Config {
	out := c
	if c.Temperature != nil {
		v := *c.Temperature
		out.Temperature = &v
	}
	if c.TopP != nil {
		v := *c.TopP
		out.TopP = &v
	}
	if c.TopK != nil {
		v := *c.TopK
		out.TopK = &v
	}
	if c.ToolChoice != nil {
		v := *c.ToolChoice
		out.ToolChoice = &v
	}
	if c.Tools != nil {
		out.Tools = append([]Tool(nil), c.Tools...)
	}
	if c.StopSequences != nil {
		out.StopSequences = append([]string(nil), c.StopSequences...)
	}
	if c.Extensions != nil {
		out.Extensions = make(map[string]any, len(c.Extensions))
		for k, v := range c.Extensions {
			out.Extensions[k] = v
		}
	}
	return out
}

// WithExtension returns a copy with one extension set.
func (c Config) WithExtension(key string, value any) Config {
	out := c.Clone()
	if out.Extensions == nil {
		out.Extensions = make(map[string]any, 1)
	}
	out.Extensions[key] = value
	return out
}

// WithExtensions returns a copy with all given extensions merged in.
func (c Config) WithExtensions(ext map[string]any) Config {
	out := c.Clone()
	if out.Extensions == nil {
		out.Extensions = make(map[string]any, len(ext))
	}
	for k, v := range ext {
		out.Extensions[k] = v
	}
	return out
}

// HasExtension reports whether the key is set.
func (c Config) HasExtension(key string) bool {
	_, ok := c.Extensions[key]
	return ok
}

// Extension returns the raw extension value.
func (c Config) Extension(key string) (any, bool) {
	v, ok := c.Extensions[key]
	return v, ok
}

// Equal reports structural equality including extensions.
func (c Config) Equal(other Config) bool {
	return reflect.DeepEqual(c, other)
}

// ToJSON serializes the config, extensions included. Safe to persist.
func (c Config) ToJSON() ([]byte, error) {
	return json.Marshal(c)
}

// ConfigFromJSON parses a config previously produced by ToJSON. Unknown
// extensions are preserved verbatim.
func ConfigFromJSON(data []byte) (Config, error) {
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, &JSONParseError{Message: "invalid config JSON", Err: err}
	}
	return c, nil
}

// GetExtension reads an extension with a type assertion. The boolean is false
// when the key is absent or the value has a different type; construction
// never fails on type mismatches, reads do.
func GetExtension[T any](c Config, key string) (T, bool) {
	var zero T
	raw, ok := c.Extensions[key]
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// RequireExtension reads an extension and surfaces InvalidRequest when the
// value exists but has the wrong type.
func RequireExtension[T any](c Config, key string) (T, error) {
	var zero T
	raw, ok := c.Extensions[key]
	if !ok {
		return zero, &InvalidRequestError{Message: fmt.Sprintf("missing extension %q", key)}
	}
	v, ok := raw.(T)
	if !ok {
		return zero, &InvalidRequestError{Message: fmt.Sprintf("extension %q has type %T, want %T", key, raw, zero)}
	}
	return v, nil
}

// BoolExtension reads a boolean extension, tolerating JSON round-trips where
// the value may have been persisted as a string.
func BoolExtension(c Config, key string) bool {
	raw, ok := c.Extensions[key]
	if !ok {
		return false
	}
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1"
	default:
		return false
	}
}

// IntExtension reads an integer extension, tolerating float64 from JSON.
func IntExtension(c Config, key string) (int, bool) {
	raw, ok := c.Extensions[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
