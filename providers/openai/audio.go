// Package openai - audio endpoints (TTS, STT, translation)
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelgate/modelgate/llm"
	"github.com/modelgate/modelgate/llm/transport"
)

const (
	DefaultTTSModel = "tts-1"
	DefaultSTTModel = "whisper-1"
	DefaultVoice    = "alloy"
)

// SupportedFeatures advertises the audio operations this API offers. No
// per-character alignment.
func (p *Provider) SupportedFeatures() llm.AudioFeatureSet {
	return llm.NewAudioFeatureSet(
		llm.FeatureTextToSpeech,
		llm.FeatureStreamingTextToSpeech,
		llm.FeatureSpeechToText,
		llm.FeatureAudioTranslation,
	)
}

type speechRequest struct {
	Model          string   `json:"model"`
	Input          string   `json:"input"`
	Voice          string   `json:"voice"`
	ResponseFormat string   `json:"response_format,omitempty"`
	Speed          *float64 `json:"speed,omitempty"`
}

func buildSpeechBody(req llm.SpeechRequest) ([]byte, error) {
	if req.Text == "" {
		return nil, &llm.InvalidRequestError{Message: "openai: speech request has no text"}
	}
	wire := speechRequest{
		Model:          DefaultTTSModel,
		Input:          req.Text,
		Voice:          req.Voice,
		ResponseFormat: req.Format,
	}
	if wire.Voice == "" {
		wire.Voice = DefaultVoice
	}
	if req.Speed > 0 {
		wire.Speed = &req.Speed
	}
	return json.Marshal(wire)
}

// Speech synthesizes audio from text.
func (p *Provider) Speech(ctx context.Context, req llm.SpeechRequest) (*llm.SpeechResponse, error) {
	body, err := buildSpeechBody(req)
	if err != nil {
		return nil, err
	}
	audio, err := p.sink.PostBinary(ctx, "/audio/speech", body)
	if err != nil {
		return nil, err
	}
	return &llm.SpeechResponse{Audio: audio, MimeType: speechMime(req.Format)}, nil
}

// SpeechStream synthesizes audio as a chunk stream.
func (p *Provider) SpeechStream(ctx context.Context, req llm.SpeechRequest) (<-chan []byte, error) {
	body, err := buildSpeechBody(req)
	if err != nil {
		return nil, err
	}
	stream, err := p.sink.PostBinaryStream(ctx, "/audio/speech", body)
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

func speechMime(format string) string {
	switch format {
	case "", "mp3":
		return "audio/mpeg"
	case "opus":
		return "audio/opus"
	case "aac":
		return "audio/aac"
	case "flac":
		return "audio/flac"
	case "wav":
		return "audio/wav"
	case "pcm":
		return "audio/pcm"
	default:
		return "application/octet-stream"
	}
}

type transcriptionResponse struct {
	Text     string                  `json:"text"`
	Language string                  `json:"language"`
	Duration float64                 `json:"duration"`
	Words    []llm.TranscriptionWord `json:"words"`
}

// Transcribe converts speech to text in the source language.
func (p *Provider) Transcribe(ctx context.Context, req llm.TranscriptionRequest) (*llm.TranscriptionResponse, error) {
	return p.postAudioForm(ctx, "/audio/transcriptions", req)
}

// Translate converts speech to English text.
func (p *Provider) Translate(ctx context.Context, req llm.TranscriptionRequest) (*llm.TranscriptionResponse, error) {
	return p.postAudioForm(ctx, "/audio/translations", req)
}

func (p *Provider) postAudioForm(ctx context.Context, path string, req llm.TranscriptionRequest) (*llm.TranscriptionResponse, error) {
	if len(req.Audio) == 0 {
		return nil, &llm.InvalidRequestError{Message: "openai: transcription request has no audio"}
	}
	fields := map[string]string{"model": DefaultSTTModel}
	if req.Language != "" {
		fields["language"] = req.Language
	}
	if req.Prompt != "" {
		fields["prompt"] = req.Prompt
	}
	if req.Format != "" {
		fields["response_format"] = req.Format
	}
	if req.Temperature != nil {
		fields["temperature"] = fmt.Sprintf("%g", *req.Temperature)
	}
	filename := req.Filename
	if filename == "" {
		filename = "audio"
	}
	form := transport.Form{
		Fields: fields,
		Files: []transport.FormFile{{
			Field:    "file",
			Filename: filename,
			MimeType: req.MimeType,
			Data:     req.Audio,
		}},
	}
	raw, err := p.sink.PostForm(ctx, path, form)
	if err != nil {
		return nil, err
	}

	// Plain-text response formats return the transcript directly.
	switch req.Format {
	case "text", "srt", "vtt":
		return &llm.TranscriptionResponse{Text: string(raw)}, nil
	}
	var resp transcriptionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &llm.ResponseFormatError{Message: "openai: malformed transcription response", Raw: string(raw)}
	}
	return &llm.TranscriptionResponse{
		Text:     resp.Text,
		Language: resp.Language,
		Duration: resp.Duration,
		Words:    resp.Words,
	}, nil
}
