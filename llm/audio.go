// Package llm - audio surfaces (TTS, STT, translation)
package llm

import "context"

// AudioFeature identifies one audio operation a provider may support.
type AudioFeature string

const (
	FeatureTextToSpeech          AudioFeature = "text_to_speech"
	FeatureStreamingTextToSpeech AudioFeature = "streaming_text_to_speech"
	FeatureSpeechToText          AudioFeature = "speech_to_text"
	FeatureAudioTranslation      AudioFeature = "audio_translation"
	FeatureTimestampAlignment    AudioFeature = "timestamp_alignment"
)

// AudioFeatureSet is the provider's advertised audio features.
type AudioFeatureSet map[AudioFeature]struct{}

// NewAudioFeatureSet builds a set from the listed features.
func NewAudioFeatureSet(features ...AudioFeature) AudioFeatureSet {
	s := make(AudioFeatureSet, len(features))
	for _, f := range features {
		s[f] = struct{}{}
	}
	return s
}

// Has reports whether the feature is in the set.
func (s AudioFeatureSet) Has(f AudioFeature) bool {
	_, ok := s[f]
	return ok
}

// SpeechRequest asks for synthesized speech.
type SpeechRequest struct {
	Text  string
	Voice string
	// Format is the output container ("mp3", "wav", "opus", "flac", "pcm");
	// empty means the vendor default.
	Format string
	// Speed scales playback where supported (OpenAI 0.25..4.0); 0 means
	// default.
	Speed float64
	// Stability and SimilarityBoost are voice-tuning knobs (ElevenLabs);
	// nil means vendor default.
	Stability       *float64
	SimilarityBoost *float64
	// WithAlignment requests per-character timestamps when the vendor
	// supports them.
	WithAlignment bool
}

// AudioAlignment carries per-character timing for synthesized speech.
type AudioAlignment struct {
	Characters        []string  `json:"characters"`
	StartTimesSeconds []float64 `json:"startTimesSeconds"`
	EndTimesSeconds   []float64 `json:"endTimesSeconds"`
}

// SpeechResponse is synthesized audio plus optional alignment.
type SpeechResponse struct {
	Audio     []byte
	MimeType  string
	Alignment *AudioAlignment
}

// TranscriptionRequest asks for speech-to-text.
type TranscriptionRequest struct {
	Audio    []byte
	Filename string
	MimeType string
	// Language is an ISO-639-1 hint; empty lets the vendor detect.
	Language string
	// Prompt primes the decoder with expected vocabulary.
	Prompt string
	// Format selects the response shape ("json", "text", "verbose_json",
	// "srt", "vtt") where supported.
	Format string
	// Temperature adjusts decoding randomness; nil means vendor default.
	Temperature *float64
}

// TranscriptionWord is one word with timing from a verbose transcription.
type TranscriptionWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// TranscriptionResponse is normalized speech-to-text output.
type TranscriptionResponse struct {
	Text     string
	Language string
	Duration float64
	Words    []TranscriptionWord
}

// AudioProvider is the audio surface. Operations absent from
// SupportedFeatures return ErrNotSupported.
type AudioProvider interface {
	SupportedFeatures() AudioFeatureSet

	// Speech synthesizes audio from text.
	Speech(ctx context.Context, req SpeechRequest) (*SpeechResponse, error)
	// SpeechStream synthesizes audio as a chunk stream.
	SpeechStream(ctx context.Context, req SpeechRequest) (<-chan []byte, error)
	// Transcribe converts speech to text in the source language.
	Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error)
	// Translate converts speech to English text.
	Translate(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error)
}
