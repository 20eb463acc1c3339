package llm

// ToolChoiceKind discriminates the ToolChoice union.
type ToolChoiceKind string

const (
	// ToolChoiceAuto lets the model decide whether to call a tool.
	ToolChoiceAuto ToolChoiceKind = "auto"
	// ToolChoiceAny forces the model to call some tool ("required" on
	// OpenAI-style providers).
	ToolChoiceAny ToolChoiceKind = "any"
	// ToolChoiceSpecific forces the model to call the named tool.
	ToolChoiceSpecific ToolChoiceKind = "specific"
	// ToolChoiceNone forbids tool calls this turn.
	ToolChoiceNone ToolChoiceKind = "none"
)

// ToolChoice constrains which tool the model may invoke next turn.
// Translators map it to each vendor's string or object form.
type ToolChoice struct {
	Kind ToolChoiceKind `json:"kind"`
	// Name of the tool; only meaningful for ToolChoiceSpecific.
	Name string `json:"name,omitempty"`
	// DisableParallel asks the vendor not to emit parallel tool calls.
	// Ignored for ToolChoiceNone.
	DisableParallel bool `json:"disableParallel,omitempty"`
}

// AutoToolChoice lets the model decide.
func AutoToolChoice() *ToolChoice { return &ToolChoice{Kind: ToolChoiceAuto} }

// AnyToolChoice requires some tool call.
func AnyToolChoice() *ToolChoice { return &ToolChoice{Kind: ToolChoiceAny} }

// SpecificToolChoice requires the named tool.
func SpecificToolChoice(name string) *ToolChoice {
	return &ToolChoice{Kind: ToolChoiceSpecific, Name: name}
}

// NoToolChoice forbids tool calls.
func NoToolChoice() *ToolChoice { return &ToolChoice{Kind: ToolChoiceNone} }

// WithoutParallel returns a copy with parallel tool calls disabled.
func (t ToolChoice) WithoutParallel() *ToolChoice {
	t.DisableParallel = true
	return &t
}
