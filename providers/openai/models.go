// Package openai - model capability table
package openai

import "github.com/modelgate/modelgate/llm"

var reasoningEfforts = []string{"low", "medium", "high"}

// modelTable gates parameters per model family. Prefix keys; longest match
// wins. Reasoning models (o-series, gpt-5) reject temperature and top_p.
var modelTable = llm.ModelTable{
	"gpt-4o": {
		SupportsVision:      true,
		SupportsToolCalling: true,
		MaxContextLength:    128000,
	},
	"gpt-4o-mini": {
		SupportsVision:      true,
		SupportsToolCalling: true,
		MaxContextLength:    128000,
	},
	"gpt-4-turbo": {
		SupportsVision:      true,
		SupportsToolCalling: true,
		MaxContextLength:    128000,
	},
	"gpt-4.1": {
		SupportsVision:      true,
		SupportsToolCalling: true,
		MaxContextLength:    1047576,
	},
	"gpt-5": {
		SupportsReasoning:   true,
		SupportsVision:      true,
		SupportsToolCalling: true,
		MaxContextLength:    400000,
		DisableTemperature:  true,
		DisableTopP:         true,
		ReasoningEfforts:    []string{"minimal", "low", "medium", "high"},
	},
	"o1": {
		SupportsReasoning:   true,
		SupportsVision:      true,
		SupportsToolCalling: true,
		MaxContextLength:    200000,
		DisableTemperature:  true,
		DisableTopP:         true,
		ReasoningEfforts:    reasoningEfforts,
	},
	"o1-mini": {
		SupportsReasoning:   true,
		SupportsToolCalling: true,
		MaxContextLength:    128000,
		DisableTemperature:  true,
		DisableTopP:         true,
	},
	"o3": {
		SupportsReasoning:   true,
		SupportsVision:      true,
		SupportsToolCalling: true,
		MaxContextLength:    200000,
		DisableTemperature:  true,
		DisableTopP:         true,
		ReasoningEfforts:    reasoningEfforts,
	},
	"o3-mini": {
		SupportsReasoning:   true,
		SupportsToolCalling: true,
		MaxContextLength:    200000,
		DisableTemperature:  true,
		DisableTopP:         true,
		ReasoningEfforts:    reasoningEfforts,
	},
	"o4-mini": {
		SupportsReasoning:   true,
		SupportsVision:      true,
		SupportsToolCalling: true,
		MaxContextLength:    200000,
		DisableTemperature:  true,
		DisableTopP:         true,
		ReasoningEfforts:    reasoningEfforts,
	},
}
