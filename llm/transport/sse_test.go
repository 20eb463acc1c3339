package transport

import (
	"strings"
	"testing"
)

func TestUTF8DecoderPassthrough(t *testing.T) {
	var d utf8Decoder
	got := d.Decode([]byte("hello"))
	if got != "hello" {
		t.Errorf("Decode = %q, want %q", got, "hello")
	}
	if tail := d.Flush(); tail != "" {
		t.Errorf("Flush residue = %q, want empty", tail)
	}
}

func TestUTF8DecoderSplitMultibyte(t *testing.T) {
	// "héllo" with the two-byte é split across chunks.
	full := []byte("h\xc3\xa9llo")
	var d utf8Decoder

	first := d.Decode(full[:2]) // "h" + first byte of é
	if first != "h" {
		t.Fatalf("first chunk = %q, want %q", first, "h")
	}
	second := d.Decode(full[2:])
	if first+second != "héllo" {
		t.Errorf("reassembled = %q, want %q", first+second, "héllo")
	}
}

func TestUTF8DecoderSplitFourByte(t *testing.T) {
	// U+1F600 is a four-byte sequence; split it one byte per chunk.
	full := []byte("a\xf0\x9f\x98\x80b")
	var d utf8Decoder
	var out strings.Builder
	for i := 0; i < len(full); i++ {
		out.WriteString(d.Decode(full[i : i+1]))
	}
	out.WriteString(d.Flush())
	if out.String() != "a\U0001F600b" {
		t.Errorf("reassembled = %q, want %q", out.String(), "a\U0001F600b")
	}
}

func TestUTF8DecoderConcatenationEqualsInput(t *testing.T) {
	input := "日本語テキスト mixed with ascii and ü"
	raw := []byte(input)

	// Re-chunk at every possible boundary width.
	for width := 1; width <= 5; width++ {
		var d utf8Decoder
		var out strings.Builder
		for i := 0; i < len(raw); i += width {
			end := i + width
			if end > len(raw) {
				end = len(raw)
			}
			out.WriteString(d.Decode(raw[i:end]))
		}
		out.WriteString(d.Flush())
		if out.String() != input {
			t.Errorf("width %d: reassembled %q != input", width, out.String())
		}
	}
}

func TestSSEScannerSingleEvent(t *testing.T) {
	var s SSEScanner
	events := s.Write("data: {\"a\":1}\n\n")
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Data != `{"a":1}` || events[0].Event != "" {
		t.Errorf("event = %+v", events[0])
	}
}

func TestSSEScannerNamedEvent(t *testing.T) {
	var s SSEScanner
	events := s.Write("event: content_block_start\ndata: {\"type\":\"text\"}\n\n")
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Event != "content_block_start" {
		t.Errorf("Event = %q", events[0].Event)
	}
}

func TestSSEScannerMultiLineData(t *testing.T) {
	var s SSEScanner
	events := s.Write("data: first\ndata: second\n\n")
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Data != "first\nsecond" {
		t.Errorf("Data = %q, want joined lines", events[0].Data)
	}
}

func TestSSEScannerSplitAcrossWrites(t *testing.T) {
	var s SSEScanner
	var events []SSEEvent
	for _, chunk := range []string{"da", "ta: hel", "lo\n", "\n"} {
		events = append(events, s.Write(chunk)...)
	}
	if len(events) != 1 || events[0].Data != "hello" {
		t.Errorf("events = %+v, want one with data hello", events)
	}
}

func TestSSEScannerSkipsKeepAlivesAndMalformed(t *testing.T) {
	var s SSEScanner
	events := s.Write(": keep-alive\n\ngarbage line without prefix\ndata: ok\n\n")
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Data != "ok" {
		t.Errorf("Data = %q, want ok", events[0].Data)
	}
}

func TestSSEScannerCRLF(t *testing.T) {
	var s SSEScanner
	events := s.Write("data: ok\r\n\r\n")
	if len(events) != 1 || events[0].Data != "ok" {
		t.Errorf("CRLF framing failed: %+v", events)
	}
}

func TestSSEScannerFlushUnterminated(t *testing.T) {
	var s SSEScanner
	if got := s.Write("data: tail"); len(got) != 0 {
		t.Fatalf("unterminated event emitted early: %+v", got)
	}
	events := s.Flush()
	if len(events) != 1 || events[0].Data != "tail" {
		t.Errorf("Flush = %+v, want the tail event", events)
	}
}
