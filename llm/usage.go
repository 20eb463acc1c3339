package llm

// Usage carries token accounting for a request. Fields are pointers so that
// "absent" and "zero" stay distinguishable across providers.
type Usage struct {
	PromptTokens     *int `json:"promptTokens,omitempty"`
	CompletionTokens *int `json:"completionTokens,omitempty"`
	TotalTokens      *int `json:"totalTokens,omitempty"`
	ReasoningTokens  *int `json:"reasoningTokens,omitempty"`
}

// IntPtr returns a pointer to v. Convenience for building Usage literals.
func IntPtr(v int) *int { return &v }

// addField adds two optional counts: the result is present iff either operand
// is, with the absent side counted as 0.
func addField(a, b *int) *int {
	if a == nil && b == nil {
		return nil
	}
	sum := 0
	if a != nil {
		sum += *a
	}
	if b != nil {
		sum += *b
	}
	return &sum
}

// Add returns the componentwise sum of two usages. It is commutative and
// associative, with the all-nil Usage as identity.
func (u Usage) Add(other Usage) Usage {
	return Usage{
		PromptTokens:     addField(u.PromptTokens, other.PromptTokens),
		CompletionTokens: addField(u.CompletionTokens, other.CompletionTokens),
		TotalTokens:      addField(u.TotalTokens, other.TotalTokens),
		ReasoningTokens:  addField(u.ReasoningTokens, other.ReasoningTokens),
	}
}

// IsZero reports whether every field is absent.
func (u Usage) IsZero() bool {
	return u.PromptTokens == nil && u.CompletionTokens == nil &&
		u.TotalTokens == nil && u.ReasoningTokens == nil
}
