// Package llm - model capability tables
package llm

import "strings"

// ModelCapabilities encodes what a specific model supports, used by
// translators to gate parameters and produce warnings instead of vendor
// rejections.
type ModelCapabilities struct {
	SupportsReasoning   bool
	SupportsVision      bool
	SupportsToolCalling bool
	MaxContextLength    int
	// MaxThinkingBudgetTokens is the ceiling for thinking budgets; 0 means
	// no documented ceiling.
	MaxThinkingBudgetTokens int
	// DisableTemperature / DisableTopP mark models that reject the knob
	// (reasoning-only model families).
	DisableTemperature bool
	DisableTopP        bool
	// ReasoningEfforts lists the accepted reasoning_effort values; empty
	// means the parameter is not accepted.
	ReasoningEfforts []string
}

// AcceptsEffort returns true if the model accepts the reasoning effort value.
func (mc ModelCapabilities) AcceptsEffort(effort string) bool {
	for _, e := range mc.ReasoningEfforts {
		if e == effort {
			return true
		}
	}
	return false
}

// ModelTable maps model-name prefixes to capabilities. Lookup picks the
// longest matching prefix so "gpt-4o-mini" can differ from "gpt-4o".
type ModelTable map[string]ModelCapabilities

// Lookup returns the capabilities for a model by longest-prefix match.
func (t ModelTable) Lookup(model string) (ModelCapabilities, bool) {
	best := ""
	for prefix := range t {
		if strings.HasPrefix(model, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best == "" {
		return ModelCapabilities{}, false
	}
	return t[best], true
}

// VisionHeuristic is the fallback when a model is absent from the table:
// name-pattern matching per provider family.
func VisionHeuristic(providerID, model string) bool {
	model = strings.ToLower(model)
	switch providerID {
	case "anthropic":
		return strings.Contains(model, "claude-3") ||
			strings.Contains(model, "claude-sonnet") ||
			strings.Contains(model, "claude-opus") ||
			strings.Contains(model, "claude-haiku")
	case "openai":
		return strings.Contains(model, "gpt-4o") ||
			strings.Contains(model, "gpt-4-turbo") ||
			strings.Contains(model, "gpt-4-vision") ||
			strings.Contains(model, "gpt-5") ||
			strings.Contains(model, "o1") ||
			strings.Contains(model, "o3") ||
			strings.Contains(model, "o4")
	case "xai":
		return strings.Contains(model, "vision") || strings.Contains(model, "grok-4")
	case "ollama":
		return strings.Contains(model, "llava") ||
			strings.Contains(model, "bakllava") ||
			strings.Contains(model, "moondream") ||
			strings.Contains(model, "vision")
	case "google":
		return strings.Contains(model, "gemini")
	}
	return false
}

// ReasoningHeuristic is the table-absent fallback for reasoning support.
func ReasoningHeuristic(providerID, model string) bool {
	model = strings.ToLower(model)
	switch providerID {
	case "anthropic":
		return strings.Contains(model, "claude-3-7") ||
			strings.Contains(model, "claude-sonnet-4") ||
			strings.Contains(model, "claude-opus-4") ||
			strings.Contains(model, "claude-haiku-4")
	case "openai":
		return strings.HasPrefix(model, "o1") ||
			strings.HasPrefix(model, "o3") ||
			strings.HasPrefix(model, "o4") ||
			strings.Contains(model, "gpt-5")
	case "deepseek":
		return strings.Contains(model, "reasoner") || strings.Contains(model, "r1")
	case "xai":
		return strings.Contains(model, "grok-3") || strings.Contains(model, "grok-4") ||
			strings.Contains(model, "reasoning")
	case "google":
		return strings.Contains(model, "gemini-2") || strings.Contains(model, "thinking")
	}
	return false
}
