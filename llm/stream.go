package llm

// ChatResponse is the normalized result of a chat call.
type ChatResponse struct {
	// Text is the newline-joined concatenation of all text blocks, empty if
	// the response carried none.
	Text string `json:"text,omitempty"`
	// Thinking is the concatenated reasoning content, when surfaced.
	Thinking string `json:"thinking,omitempty"`
	// ToolCalls lists requested tool invocations in response order.
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
	// Usage is nil when the vendor reported no accounting.
	Usage *Usage `json:"usage,omitempty"`
	// StopReason is the vendor's stop reason, verbatim.
	StopReason string `json:"stopReason,omitempty"`
	// Model and ID echo the vendor response when present.
	Model string `json:"model,omitempty"`
	ID    string `json:"id,omitempty"`
}

// HasToolCalls returns true if the response requests tool invocations.
func (r *ChatResponse) HasToolCalls() bool { return len(r.ToolCalls) > 0 }

// RedactedThinkingSentinel is substituted for thinking blocks the vendor
// returned in encrypted (redacted) form.
const RedactedThinkingSentinel = "[Redacted thinking content - encrypted for safety]"

// StreamEvent is one element of a streaming chat response. The union is
// sealed: TextDelta, ThinkingDelta, ToolCallDelta, Completion, ErrorEvent.
// A stream yields events in production order and terminates with exactly one
// Completion or one ErrorEvent.
type StreamEvent interface {
	isStreamEvent()
}

// TextDelta carries an incremental piece of response text.
type TextDelta struct {
	Text string
}

// ThinkingDelta carries an incremental piece of reasoning content.
type ThinkingDelta struct {
	Text string
}

// ToolCallDelta carries a completed tool call. It is only emitted once the
// arguments JSON is complete and parseable.
type ToolCallDelta struct {
	ToolCall ToolCall
}

// Completion terminates a successful stream with the accumulated response.
type Completion struct {
	Response *ChatResponse
}

// ErrorEvent terminates a failed stream.
type ErrorEvent struct {
	Err LLMError
}

func (TextDelta) isStreamEvent()     {}
func (ThinkingDelta) isStreamEvent() {}
func (ToolCallDelta) isStreamEvent() {}
func (Completion) isStreamEvent()    {}
func (ErrorEvent) isStreamEvent()    {}

// CollectStream drains a stream into a ChatResponse, concatenating deltas.
// Returns the terminal error if the stream ended with an ErrorEvent.
func CollectStream(events <-chan StreamEvent) (*ChatResponse, error) {
	var text, thinking string
	var calls []ToolCall
	for ev := range events {
		switch e := ev.(type) {
		case TextDelta:
			text += e.Text
		case ThinkingDelta:
			thinking += e.Text
		case ToolCallDelta:
			calls = append(calls, e.ToolCall)
		case Completion:
			resp := e.Response
			if resp == nil {
				resp = &ChatResponse{}
			}
			if resp.Text == "" {
				resp.Text = text
			}
			if resp.Thinking == "" {
				resp.Thinking = thinking
			}
			if len(resp.ToolCalls) == 0 {
				resp.ToolCalls = calls
			}
			return resp, nil
		case ErrorEvent:
			return nil, e.Err
		}
	}
	return nil, &GenericError{Message: "stream ended without completion"}
}
