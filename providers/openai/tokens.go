// Package openai - local token counting
package openai

import (
	"context"
	"encoding/json"

	"github.com/modelgate/modelgate/llm"

	"github.com/pkoukk/tiktoken-go"

	. "github.com/modelgate/modelgate/internal/logging"
)

// CountTokens counts locally with tiktoken; there is no vendor endpoint.
// Unknown models fall back to the o200k_base encoding, and an encoder
// failure falls back to the chars/4 heuristic. Per-message framing overhead
// follows the published chat format (3 tokens per message, 3 for the reply
// priming).
func (c *Compat) CountTokens(ctx context.Context, messages []llm.Message, tools []llm.Tool) (int, error) {
	enc, err := tiktoken.EncodingForModel(c.cfg.Model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("o200k_base")
	}
	if err != nil {
		L_debug("openai: no tiktoken encoding, using heuristic", "model", c.cfg.Model, "error", err)
		return heuristicCount(messages, tools), nil
	}

	count := 3
	for _, m := range messages {
		count += 3
		for _, p := range m.Parts {
			if p.Text != "" {
				count += len(enc.Encode(p.Text, nil, nil))
			}
			for _, call := range p.ToolCalls {
				count += len(enc.Encode(call.Function.Name, nil, nil))
				count += len(enc.Encode(call.Function.Arguments, nil, nil))
			}
			for _, res := range p.ToolResults {
				count += len(enc.Encode(res.Content, nil, nil))
			}
		}
	}
	for _, t := range tools {
		count += len(enc.Encode(t.Function.Name, nil, nil))
		count += len(enc.Encode(t.Function.Description, nil, nil))
		if raw, err := json.Marshal(t.Function.Parameters); err == nil {
			count += len(enc.Encode(string(raw), nil, nil))
		}
	}
	return count, nil
}

func heuristicCount(messages []llm.Message, tools []llm.Tool) int {
	chars := 0
	for _, m := range messages {
		for _, p := range m.Parts {
			chars += len(p.Text)
			for _, call := range p.ToolCalls {
				chars += len(call.Function.Name) + len(call.Function.Arguments)
			}
			for _, res := range p.ToolResults {
				chars += len(res.Content)
			}
		}
	}
	for _, t := range tools {
		chars += len(t.Function.Name) + len(t.Function.Description)
	}
	return (chars + 3) / 4
}
