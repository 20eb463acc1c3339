package llm

// ThinkingLevel represents the effort level for extended thinking/reasoning.
// This is a universal abstraction mapped to provider-specific parameters.
type ThinkingLevel string

const (
	// ThinkingOff disables extended thinking completely
	ThinkingOff ThinkingLevel = "off"

	// ThinkingMinimal uses minimal reasoning effort (quick responses)
	ThinkingMinimal ThinkingLevel = "minimal"

	// ThinkingLow uses low reasoning effort
	ThinkingLow ThinkingLevel = "low"

	// ThinkingMedium uses medium reasoning effort (default)
	ThinkingMedium ThinkingLevel = "medium"

	// ThinkingHigh uses high reasoning effort
	ThinkingHigh ThinkingLevel = "high"

	// ThinkingXHigh uses maximum reasoning effort
	// Note: May not be supported by all providers/models
	ThinkingXHigh ThinkingLevel = "xhigh"
)

// DefaultThinkingLevel is the default level when not specified
const DefaultThinkingLevel = ThinkingMedium

// MinThinkingBudgetTokens is the smallest budget providers accept; lower
// values are forwarded with a warning.
const MinThinkingBudgetTokens = 1024

// ValidThinkingLevels contains all valid thinking level values
var ValidThinkingLevels = []ThinkingLevel{
	ThinkingOff,
	ThinkingMinimal,
	ThinkingLow,
	ThinkingMedium,
	ThinkingHigh,
	ThinkingXHigh,
}

// IsValidThinkingLevel checks if a string is a valid thinking level
func IsValidThinkingLevel(level string) bool {
	for _, valid := range ValidThinkingLevels {
		if ThinkingLevel(level) == valid {
			return true
		}
	}
	return false
}

// ParseThinkingLevel converts a string to ThinkingLevel, returning the
// default if invalid.
func ParseThinkingLevel(level string) ThinkingLevel {
	if level == "" {
		return DefaultThinkingLevel
	}
	if IsValidThinkingLevel(level) {
		return ThinkingLevel(level)
	}
	return DefaultThinkingLevel
}

// IsEnabled returns true if thinking is enabled (level is not "off")
func (l ThinkingLevel) IsEnabled() bool {
	return l != ThinkingOff && l != ""
}

// String returns the string representation
func (l ThinkingLevel) String() string {
	return string(l)
}

// ReasoningEffort maps ThinkingLevel to the reasoning.effort parameter used
// by OpenAI, OpenRouter, DeepSeek and xAI ("low", "medium", "high").
func (l ThinkingLevel) ReasoningEffort() string {
	switch l {
	case ThinkingOff:
		return ""
	case ThinkingMinimal, ThinkingLow:
		return "low"
	case ThinkingMedium:
		return "medium"
	case ThinkingHigh, ThinkingXHigh:
		return "high"
	default:
		return "medium"
	}
}

// AnthropicBudgetTokens maps ThinkingLevel to Anthropic's
// thinking.budget_tokens. Anthropic uses token budgets: min 1024,
// recommended based on complexity. Returns 0 for "off".
func (l ThinkingLevel) AnthropicBudgetTokens() int {
	switch l {
	case ThinkingOff:
		return 0
	case ThinkingMinimal:
		return 1024 // Minimum allowed
	case ThinkingLow:
		return 4096
	case ThinkingMedium:
		return 10000
	case ThinkingHigh:
		return 25000
	case ThinkingXHigh:
		return 50000
	default:
		return 10000
	}
}

// EffortFromExtension resolves the reasoningEffort extension, which accepts
// either a ThinkingLevel or a vendor effort string.
func EffortFromExtension(c Config) string {
	raw, ok := c.Extensions[ExtReasoningEffort]
	if !ok {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		return ""
	}
	switch s {
	case "low", "medium", "high":
		return s
	}
	if IsValidThinkingLevel(s) {
		return ThinkingLevel(s).ReasoningEffort()
	}
	return s
}
