// Package transport - SSE framing and UTF-8 chunk decoding
package transport

import (
	"strings"
	"unicode/utf8"

	. "github.com/modelgate/modelgate/internal/logging"
)

// utf8Decoder re-chunks a byte stream so every emitted string is valid
// UTF-8. A multibyte sequence split across chunk boundaries is held back
// until its continuation bytes arrive; at most 3 bytes are ever buffered.
type utf8Decoder struct {
	pending []byte
}

// Decode returns the longest valid-UTF-8 prefix of pending+chunk and keeps
// the rest (at most 3 bytes of an incomplete sequence) for the next call.
func (d *utf8Decoder) Decode(chunk []byte) string {
	buf := chunk
	if len(d.pending) > 0 {
		buf = append(d.pending, chunk...)
		d.pending = nil
	}

	cut := len(buf)
	for cut > 0 && cut > len(buf)-utf8.UTFMax {
		r, _ := utf8.DecodeLastRune(buf[:cut])
		if r != utf8.RuneError {
			break
		}
		if !utf8StartByte(buf[cut-1]) {
			cut--
			continue
		}
		// A start byte opening a sequence that extends past the chunk end.
		cut--
		break
	}
	if len(buf)-cut > 3 {
		// Not a split sequence, just invalid bytes. Pass them through and let
		// the consumer see the replacement behavior.
		cut = len(buf)
	}
	d.pending = append(d.pending, buf[cut:]...)
	return string(buf[:cut])
}

// Flush returns any buffered residue at EOF.
func (d *utf8Decoder) Flush() string {
	if len(d.pending) == 0 {
		return ""
	}
	out := string(d.pending)
	d.pending = nil
	return out
}

func utf8StartByte(b byte) bool {
	return b&0xC0 != 0x80
}

// SSEEvent is one server-sent event after framing: the event name (empty for
// plain data events) and the joined data payload.
type SSEEvent struct {
	Event string
	Data  string
}

// SSEScanner frames a decoded text stream into SSE events. Feed text with
// Write; complete events come back from each call. Per the SSE format,
// events are terminated by a blank line and multi-line data fields are
// joined with "\n".
type SSEScanner struct {
	lineBuf   strings.Builder
	event     string
	dataLines []string
}

// Write consumes a text chunk and returns the events completed by it.
func (s *SSEScanner) Write(chunk string) []SSEEvent {
	var events []SSEEvent
	for _, r := range chunk {
		if r != '\n' {
			s.lineBuf.WriteRune(r)
			continue
		}
		line := strings.TrimSuffix(s.lineBuf.String(), "\r")
		s.lineBuf.Reset()
		if ev, ok := s.consumeLine(line); ok {
			events = append(events, ev)
		}
	}
	return events
}

// Flush terminates any unfinished event at EOF.
func (s *SSEScanner) Flush() []SSEEvent {
	var events []SSEEvent
	if s.lineBuf.Len() > 0 {
		line := strings.TrimSuffix(s.lineBuf.String(), "\r")
		s.lineBuf.Reset()
		if ev, ok := s.consumeLine(line); ok {
			events = append(events, ev)
		}
	}
	if len(s.dataLines) > 0 {
		events = append(events, s.finishEvent())
	}
	return events
}

// consumeLine handles one framed line. A blank line completes the pending
// event; unknown field prefixes are skipped with a warning.
func (s *SSEScanner) consumeLine(line string) (SSEEvent, bool) {
	switch {
	case line == "":
		if len(s.dataLines) == 0 && s.event == "" {
			return SSEEvent{}, false
		}
		return s.finishEvent(), true
	case strings.HasPrefix(line, "data:"):
		s.dataLines = append(s.dataLines, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
	case strings.HasPrefix(line, "event:"):
		s.event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
	case strings.HasPrefix(line, ":"):
		// comment / keep-alive
	case strings.HasPrefix(line, "id:") || strings.HasPrefix(line, "retry:"):
		// recognized SSE fields we don't use
	default:
		L_warn("transport: skipping malformed SSE line", "line", truncateForLog(line))
	}
	return SSEEvent{}, false
}

func (s *SSEScanner) finishEvent() SSEEvent {
	ev := SSEEvent{Event: s.event, Data: strings.Join(s.dataLines, "\n")}
	s.event = ""
	s.dataLines = nil
	return ev
}

func truncateForLog(s string) string {
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}
