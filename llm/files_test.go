package llm

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFileObjectOpenAIRoundTrip(t *testing.T) {
	in := `{"id":"file-abc","object":"file","bytes":1234,"created_at":1699000000,"filename":"notes.pdf","purpose":"user_data","status":"processed"}`

	f, err := FileObjectFromOpenAI([]byte(in))
	if err != nil {
		t.Fatalf("FromOpenAI: %v", err)
	}
	if f.ID != "file-abc" || f.SizeBytes != 1234 || f.Purpose != PurposeUserData {
		t.Errorf("normalized fields wrong: %+v", f)
	}
	if f.Origin != "openai" {
		t.Errorf("Origin = %q, want openai", f.Origin)
	}

	out, err := f.ToOpenAIJSON()
	if err != nil {
		t.Fatalf("ToOpenAIJSON: %v", err)
	}
	var got, want map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("unmarshal round trip: %v", err)
	}
	if err := json.Unmarshal([]byte(in), &want); err != nil {
		t.Fatalf("unmarshal input: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("OpenAI round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFileObjectAnthropicRoundTrip(t *testing.T) {
	in := `{"id":"file_011","type":"file","filename":"doc.pdf","mime_type":"application/pdf","size_bytes":4096,"created_at":"2025-01-01T00:00:00Z","downloadable":true}`

	f, err := FileObjectFromAnthropic([]byte(in))
	if err != nil {
		t.Fatalf("FromAnthropic: %v", err)
	}
	if f.ID != "file_011" || f.MimeType != "application/pdf" || !f.Downloadable {
		t.Errorf("normalized fields wrong: %+v", f)
	}

	out, err := f.ToAnthropicJSON()
	if err != nil {
		t.Fatalf("ToAnthropicJSON: %v", err)
	}
	var got, want map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("unmarshal round trip: %v", err)
	}
	if err := json.Unmarshal([]byte(in), &want); err != nil {
		t.Fatalf("unmarshal input: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Anthropic round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFileObjectFromMalformedJSON(t *testing.T) {
	if _, err := FileObjectFromOpenAI([]byte("not json")); err == nil {
		t.Error("FromOpenAI accepted malformed JSON")
	}
	if _, err := FileObjectFromAnthropic([]byte("{")); err == nil {
		t.Error("FromAnthropic accepted malformed JSON")
	}
}
