package transport

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/modelgate/modelgate/llm"
)

// audioBytes is deliberately not valid UTF-8.
var audioBytes = []byte{0xFF, 0xFB, 0x00, 0x10, 'm', 'p', '3', 0xFE}

func TestPostBinary(t *testing.T) {
	var gotAccept, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(audioBytes)
	}))
	defer srv.Close()

	out, err := New(srv.URL).PostBinary(context.Background(), "/audio/speech", []byte(`{"input":"hi"}`))
	if err != nil {
		t.Fatalf("PostBinary: %v", err)
	}
	if gotAccept != "application/octet-stream" {
		t.Errorf("Accept = %q, want application/octet-stream", gotAccept)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
	if !bytes.Equal(out, audioBytes) {
		t.Errorf("body = %v, want %v", out, audioBytes)
	}
}

func TestPostBinaryErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).PostBinary(context.Background(), "/audio/speech", []byte(`{}`))
	if err == nil {
		t.Fatal("401 response accepted")
	}
	if llm.AsLLMError(err).Code() != llm.ErrCodeAuth {
		t.Errorf("error code = %v, want auth", llm.AsLLMError(err).Code())
	}
}

func TestPostBinaryStreamRawBytes(t *testing.T) {
	var gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(audioBytes)
	}))
	defer srv.Close()

	stream, err := New(srv.URL).PostBinaryStream(context.Background(), "/audio/speech", []byte(`{}`))
	if err != nil {
		t.Fatalf("PostBinaryStream: %v", err)
	}
	var out bytes.Buffer
	for chunk := range stream.Chunks() {
		out.WriteString(chunk)
	}
	if err := stream.Err(); err != nil {
		t.Fatalf("stream error: %v", err)
	}
	if gotAccept != "application/octet-stream" {
		t.Errorf("Accept = %q, want application/octet-stream", gotAccept)
	}
	if !bytes.Equal(out.Bytes(), audioBytes) {
		t.Errorf("streamed bytes = %v, want %v", out.Bytes(), audioBytes)
	}
}

func TestPostSSEAcceptHeader(t *testing.T) {
	var gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"ok\":true}\n\n"))
	}))
	defer srv.Close()

	stream, err := New(srv.URL).PostSSE(context.Background(), "/chat/completions", []byte(`{}`))
	if err != nil {
		t.Fatalf("PostSSE: %v", err)
	}
	var out strings.Builder
	for chunk := range stream.Chunks() {
		out.WriteString(chunk)
	}
	if gotAccept != "text/event-stream" {
		t.Errorf("Accept = %q, want text/event-stream", gotAccept)
	}
	if !strings.Contains(out.String(), `{"ok":true}`) {
		t.Errorf("stream body = %q", out.String())
	}
}
