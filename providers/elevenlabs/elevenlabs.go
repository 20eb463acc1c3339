// Package elevenlabs implements the ElevenLabs audio provider: speech
// synthesis with per-character alignment, plus speech-to-text. It is
// audio-only; chat operations return ErrNotSupported.
package elevenlabs

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/url"
	"time"

	"github.com/modelgate/modelgate/llm"
	"github.com/modelgate/modelgate/llm/transport"
)

const (
	ProviderID = "elevenlabs"

	DefaultBaseURL  = "https://api.elevenlabs.io"
	DefaultModel    = "eleven_multilingual_v2"
	DefaultSTTModel = "scribe_v1"
	DefaultVoiceID  = "21m00Tcm4TlvDq8ikWAM"
)

func init() {
	llm.AddBuiltin(func() llm.ProviderFactory { return &Factory{} })
}

// Factory creates ElevenLabs providers.
type Factory struct{}

func (f *Factory) ProviderID() string  { return ProviderID }
func (f *Factory) DisplayName() string { return "ElevenLabs" }
func (f *Factory) Description() string {
	return "ElevenLabs speech synthesis and transcription"
}

func (f *Factory) SupportedCapabilities() llm.CapabilitySet {
	return llm.NewCapabilitySet(
		llm.CapTextToSpeech,
		llm.CapStreamingTextToSpeech,
		llm.CapSpeechToText,
	)
}

func (f *Factory) DefaultConfig() llm.Config {
	return llm.Config{
		BaseURL: DefaultBaseURL,
		Model:   DefaultModel,
	}
}

func (f *Factory) ValidateConfig(cfg llm.Config) error {
	if cfg.APIKey == "" {
		return &llm.AuthError{Message: "elevenlabs: API key is required"}
	}
	return nil
}

func (f *Factory) Create(cfg llm.Config) (llm.Provider, error) {
	if err := f.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return New(cfg), nil
}

// Provider is the ElevenLabs audio surface.
type Provider struct {
	cfg  llm.Config
	sink transport.Sink
}

// New builds a provider from a validated config.
func New(cfg llm.Config) *Provider {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	opts := []transport.Option{transport.WithHeader("xi-api-key", cfg.APIKey)}
	if cfg.TimeoutSeconds > 0 {
		opts = append(opts, transport.WithJSONTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
	}
	return &Provider{cfg: cfg, sink: transport.New(base, opts...)}
}

// NewWithSink injects a transport sink; the caller retains ownership.
// Test constructor.
func NewWithSink(cfg llm.Config, sink transport.Sink) *Provider {
	return &Provider{cfg: cfg, sink: sink}
}

func (p *Provider) ProviderID() string { return ProviderID }
func (p *Provider) Model() string      { return p.cfg.Model }

// Chat is unsupported; this provider is audio-only.
func (p *Provider) Chat(ctx context.Context, messages []llm.Message) (*llm.ChatResponse, error) {
	return nil, llm.ErrNotSupported{Provider: ProviderID, Operation: "chat"}
}

// ChatStream is unsupported; this provider is audio-only.
func (p *Provider) ChatStream(ctx context.Context, messages []llm.Message) (<-chan llm.StreamEvent, error) {
	return nil, llm.ErrNotSupported{Provider: ProviderID, Operation: "chat streaming"}
}

// SupportedFeatures advertises synthesis with alignment and transcription.
func (p *Provider) SupportedFeatures() llm.AudioFeatureSet {
	return llm.NewAudioFeatureSet(
		llm.FeatureTextToSpeech,
		llm.FeatureStreamingTextToSpeech,
		llm.FeatureSpeechToText,
		llm.FeatureTimestampAlignment,
	)
}

type ttsRequest struct {
	Text          string         `json:"text"`
	ModelID       string         `json:"model_id,omitempty"`
	VoiceSettings *voiceSettings `json:"voice_settings,omitempty"`
}

type voiceSettings struct {
	Stability       *float64 `json:"stability,omitempty"`
	SimilarityBoost *float64 `json:"similarity_boost,omitempty"`
}

type ttsTimestampResponse struct {
	AudioBase64 string `json:"audio_base64"`
	Alignment   *struct {
		Characters      []string  `json:"characters"`
		CharacterStarts []float64 `json:"character_start_times_seconds"`
		CharacterEnds   []float64 `json:"character_end_times_seconds"`
	} `json:"alignment"`
}

func (p *Provider) ttsBody(req llm.SpeechRequest) ([]byte, string, error) {
	if req.Text == "" {
		return nil, "", &llm.InvalidRequestError{Message: "elevenlabs: speech request has no text"}
	}
	voice := req.Voice
	if voice == "" {
		voice = DefaultVoiceID
	}
	wire := ttsRequest{Text: req.Text, ModelID: p.cfg.Model}
	if req.Stability != nil || req.SimilarityBoost != nil {
		wire.VoiceSettings = &voiceSettings{
			Stability:       req.Stability,
			SimilarityBoost: req.SimilarityBoost,
		}
	}
	body, err := json.Marshal(wire)
	if err != nil {
		return nil, "", &llm.GenericError{Message: "marshal speech request: " + err.Error()}
	}
	return body, voice, nil
}

// Speech synthesizes audio. With WithAlignment set it calls the
// with-timestamps endpoint and decodes the per-character alignment.
func (p *Provider) Speech(ctx context.Context, req llm.SpeechRequest) (*llm.SpeechResponse, error) {
	body, voice, err := p.ttsBody(req)
	if err != nil {
		return nil, err
	}

	if req.WithAlignment {
		raw, err := p.sink.PostJSON(ctx, "/v1/text-to-speech/"+url.PathEscape(voice)+"/with-timestamps", body)
		if err != nil {
			return nil, err
		}
		var resp ttsTimestampResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, &llm.ResponseFormatError{Message: "elevenlabs: malformed timestamp response", Raw: string(raw)}
		}
		audio, err := base64.StdEncoding.DecodeString(resp.AudioBase64)
		if err != nil {
			return nil, &llm.ResponseFormatError{Message: "elevenlabs: audio_base64 is not valid base64"}
		}
		out := &llm.SpeechResponse{Audio: audio, MimeType: "audio/mpeg"}
		if resp.Alignment != nil {
			out.Alignment = &llm.AudioAlignment{
				Characters:        resp.Alignment.Characters,
				StartTimesSeconds: resp.Alignment.CharacterStarts,
				EndTimesSeconds:   resp.Alignment.CharacterEnds,
			}
		}
		return out, nil
	}

	audio, err := p.sink.PostBinary(ctx, "/v1/text-to-speech/"+url.PathEscape(voice), body)
	if err != nil {
		return nil, err
	}
	return &llm.SpeechResponse{Audio: audio, MimeType: "audio/mpeg"}, nil
}

// SpeechStream synthesizes audio as a chunk stream.
func (p *Provider) SpeechStream(ctx context.Context, req llm.SpeechRequest) (<-chan []byte, error) {
	body, voice, err := p.ttsBody(req)
	if err != nil {
		return nil, err
	}
	stream, err := p.sink.PostBinaryStream(ctx, "/v1/text-to-speech/"+url.PathEscape(voice)+"/stream", body)
	if err != nil {
		return nil, err
	}
	out := make(chan []byte)
	go func() {
		defer close(out)
		for chunk := range stream.Chunks() {
			out <- []byte(chunk)
		}
	}()
	return out, nil
}

type sttResponse struct {
	Text         string `json:"text"`
	LanguageCode string `json:"language_code"`
	Words        []struct {
		Text  string  `json:"text"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"words"`
}

// Transcribe converts speech to text.
func (p *Provider) Transcribe(ctx context.Context, req llm.TranscriptionRequest) (*llm.TranscriptionResponse, error) {
	if len(req.Audio) == 0 {
		return nil, &llm.InvalidRequestError{Message: "elevenlabs: transcription request has no audio"}
	}
	fields := map[string]string{"model_id": DefaultSTTModel}
	if req.Language != "" {
		fields["language_code"] = req.Language
	}
	filename := req.Filename
	if filename == "" {
		filename = "audio"
	}
	raw, err := p.sink.PostForm(ctx, "/v1/speech-to-text", transport.Form{
		Fields: fields,
		Files: []transport.FormFile{{
			Field:    "file",
			Filename: filename,
			MimeType: req.MimeType,
			Data:     req.Audio,
		}},
	})
	if err != nil {
		return nil, err
	}
	var resp sttResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &llm.ResponseFormatError{Message: "elevenlabs: malformed transcription response", Raw: string(raw)}
	}
	out := &llm.TranscriptionResponse{Text: resp.Text, Language: resp.LanguageCode}
	for _, w := range resp.Words {
		out.Words = append(out.Words, llm.TranscriptionWord{Word: w.Text, Start: w.Start, End: w.End})
	}
	return out, nil
}

// Translate is unsupported; the vendor exposes no translation endpoint.
func (p *Provider) Translate(ctx context.Context, req llm.TranscriptionRequest) (*llm.TranscriptionResponse, error) {
	return nil, llm.ErrNotSupported{Provider: ProviderID, Operation: "audio translation"}
}

var (
	_ llm.Provider      = (*Provider)(nil)
	_ llm.AudioProvider = (*Provider)(nil)
)
