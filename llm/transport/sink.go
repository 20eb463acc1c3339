// Package transport is the HTTP boundary for provider packages. A Sink is a
// thread-safe handle bound to one base URL and header set; providers own
// their sink unless it was injected as shared.
package transport

import "context"

// FormFile is one file part of a multipart upload.
type FormFile struct {
	// Field is the multipart field name ("file").
	Field    string
	Filename string
	MimeType string
	Data     []byte
}

// Form is a multipart form: scalar fields plus file parts.
type Form struct {
	Fields map[string]string
	Files  []FormFile
}

// Sink abstracts the vendor HTTP surface. Paths are relative to the sink's
// base URL. Non-2xx responses surface as llm.LLMError; transport failures
// are mapped to the error taxonomy before returning.
type Sink interface {
	// PostJSON sends a JSON body and returns the raw response body.
	PostJSON(ctx context.Context, path string, body []byte) ([]byte, error)
	// GetJSON issues a GET and returns the raw response body.
	GetJSON(ctx context.Context, path string) ([]byte, error)
	// PostForm sends a multipart form and returns the raw response body.
	PostForm(ctx context.Context, path string, form Form) ([]byte, error)
	// GetBytes issues a GET for binary content.
	GetBytes(ctx context.Context, path string) ([]byte, error)
	// Delete issues a DELETE; the body is discarded.
	Delete(ctx context.Context, path string) error
	// PostBinary sends a JSON body to an endpoint that answers with raw
	// bytes (audio synthesis and similar). Runs under the stream timeout.
	PostBinary(ctx context.Context, path string, body []byte) ([]byte, error)
	// PostSSE sends a JSON body and returns the decoded text chunk stream.
	// Every chunk is a valid UTF-8 prefix of the cumulative stream; the
	// channel closes on server EOF or context cancellation. A non-nil Stream
	// must be drained or the context cancelled to release the connection.
	PostSSE(ctx context.Context, path string, body []byte) (*Stream, error)
	// PostBinaryStream sends a JSON body and streams the raw response bytes
	// with no SSE framing or UTF-8 reassembly. Chunks carry bytes in string
	// form. Same drain-or-cancel contract as PostSSE.
	PostBinaryStream(ctx context.Context, path string, body []byte) (*Stream, error)
}

// Stream is a finite sequence of decoded text chunks from an SSE response.
// Chunks() closes when the server ends the stream or the context is
// cancelled; Err() is non-nil if the stream terminated abnormally.
type Stream struct {
	chunks <-chan string
	err    *error
	done   <-chan struct{}
}

// NewStream wraps a chunk channel; err is read after the channel closes.
func NewStream(chunks <-chan string, err *error, done <-chan struct{}) *Stream {
	return &Stream{chunks: chunks, err: err, done: done}
}

// Chunks returns the text chunk channel.
func (s *Stream) Chunks() <-chan string { return s.chunks }

// Err reports the terminal error, valid once Chunks() has closed.
func (s *Stream) Err() error {
	if s.done != nil {
		<-s.done
	}
	if s.err == nil {
		return nil
	}
	return *s.err
}
