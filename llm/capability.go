// Package llm provides unified LLM provider interfaces and implementations.
package llm

import "sort"

// Capability identifies a feature a provider advertises. Providers may
// advertise a superset of what every model supports; callers gate on
// capability presence and fall back at runtime.
type Capability string

const (
	CapChat                  Capability = "chat"
	CapStreaming             Capability = "streaming"
	CapEmbedding             Capability = "embedding"
	CapTextToSpeech          Capability = "textToSpeech"
	CapStreamingTextToSpeech Capability = "streamingTextToSpeech"
	CapSpeechToText          Capability = "speechToText"
	CapAudioTranslation      Capability = "audioTranslation"
	CapRealtimeAudio         Capability = "realtimeAudio"
	CapModelListing          Capability = "modelListing"
	CapToolCalling           Capability = "toolCalling"
	CapReasoning             Capability = "reasoning"
	CapVision                Capability = "vision"
	CapCompletion            Capability = "completion"
	CapImageGeneration       Capability = "imageGeneration"
	CapFileManagement        Capability = "fileManagement"
	CapModeration            Capability = "moderation"
	CapAssistants            Capability = "assistants"
	CapLiveSearch            Capability = "liveSearch"
)

// CapabilitySet is an immutable-by-convention set of capabilities.
// Factories build one at registration time and hand out copies.
type CapabilitySet map[Capability]struct{}

// NewCapabilitySet builds a set from the given capabilities.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	s := make(CapabilitySet, len(caps))
	for _, c := range caps {
		s[c] = struct{}{}
	}
	return s
}

// Has returns true if the set contains the capability.
func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// List returns the capabilities in sorted order.
func (s CapabilitySet) List() []Capability {
	out := make([]Capability, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns a copy of the set.
func (s CapabilitySet) Clone() CapabilitySet {
	out := make(CapabilitySet, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}
