// Package transport - HTTP implementation of Sink
package transport

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/modelgate/modelgate/llm"

	. "github.com/modelgate/modelgate/internal/logging"
)

const (
	// DefaultJSONTimeout bounds non-streaming calls.
	DefaultJSONTimeout = 30 * time.Second
	// DefaultStreamTimeout bounds a whole SSE stream.
	DefaultStreamTimeout = 10 * time.Minute
	// MinStreamTimeout is the floor for stream timeouts; configs asking for
	// less are raised to it so long generations aren't cut mid-stream.
	MinStreamTimeout = 5 * time.Minute

	// streamChunkBuffer bounds the in-flight chunk channel so a slow
	// consumer back-pressures the socket read loop.
	streamChunkBuffer = 16
)

// sharedClient carries the connection pool across sinks.
var sharedClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
}

// HTTPTransport is the concrete Sink over net/http. Safe for concurrent use.
type HTTPTransport struct {
	baseURL       string
	headers       map[string]string
	jsonTimeout   time.Duration
	streamTimeout time.Duration
	client        *http.Client
}

// Option configures an HTTPTransport.
type Option func(*HTTPTransport)

// WithHeader sets a header on every request.
func WithHeader(key, value string) Option {
	return func(t *HTTPTransport) { t.headers[key] = value }
}

// WithHeaders sets a group of headers on every request.
func WithHeaders(h map[string]string) Option {
	return func(t *HTTPTransport) {
		for k, v := range h {
			t.headers[k] = v
		}
	}
}

// WithJSONTimeout overrides the non-streaming timeout. Zero keeps the
// default.
func WithJSONTimeout(d time.Duration) Option {
	return func(t *HTTPTransport) {
		if d > 0 {
			t.jsonTimeout = d
		}
	}
}

// WithStreamTimeout overrides the stream timeout, floored at
// MinStreamTimeout.
func WithStreamTimeout(d time.Duration) Option {
	return func(t *HTTPTransport) {
		if d <= 0 {
			return
		}
		if d < MinStreamTimeout {
			d = MinStreamTimeout
		}
		t.streamTimeout = d
	}
}

// WithClient injects a shared *http.Client; the caller retains ownership.
func WithClient(c *http.Client) Option {
	return func(t *HTTPTransport) {
		if c != nil {
			t.client = c
		}
	}
}

// New builds a transport bound to baseURL. The trailing slash is trimmed so
// callers can pass paths beginning with "/".
func New(baseURL string, opts ...Option) *HTTPTransport {
	t := &HTTPTransport{
		baseURL:       strings.TrimRight(baseURL, "/"),
		headers:       make(map[string]string),
		jsonTimeout:   DefaultJSONTimeout,
		streamTimeout: DefaultStreamTimeout,
		client:        sharedClient,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// BaseURL returns the bound base URL.
func (t *HTTPTransport) BaseURL() string { return t.baseURL }

func (t *HTTPTransport) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return t.baseURL + path
}

func (t *HTTPTransport) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, t.url(path), body)
	if err != nil {
		return nil, &llm.InvalidRequestError{Message: "build request: " + err.Error()}
	}
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// do executes a request with the JSON timeout, maps transport and status
// errors, and returns the response body.
func (t *HTTPTransport) do(ctx context.Context, req *http.Request) ([]byte, error) {
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, llm.FromTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, llm.FromTransportError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, llm.FromHTTPResponse(resp.StatusCode, body, resp.Header)
	}
	return body, nil
}

// PostJSON sends a JSON body and returns the raw response body.
func (t *HTTPTransport) PostJSON(ctx context.Context, path string, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, t.jsonTimeout)
	defer cancel()

	req, err := t.newRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return t.do(ctx, req)
}

// GetJSON issues a GET and returns the raw response body.
func (t *HTTPTransport) GetJSON(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, t.jsonTimeout)
	defer cancel()

	req, err := t.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return t.do(ctx, req)
}

// GetBytes issues a GET for binary content.
func (t *HTTPTransport) GetBytes(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, t.jsonTimeout)
	defer cancel()

	req, err := t.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return t.do(ctx, req)
}

// Delete issues a DELETE; the response body is discarded.
func (t *HTTPTransport) Delete(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, t.jsonTimeout)
	defer cancel()

	req, err := t.newRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	_, err = t.do(ctx, req)
	return err
}

// PostForm sends a multipart form and returns the raw response body.
func (t *HTTPTransport) PostForm(ctx context.Context, path string, form Form) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, t.jsonTimeout)
	defer cancel()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range form.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, &llm.GenericError{Message: "write form field: " + err.Error()}
		}
	}
	for _, f := range form.Files {
		var (
			part io.Writer
			err  error
		)
		if f.MimeType != "" {
			h := make(map[string][]string)
			h["Content-Disposition"] = []string{`form-data; name="` + f.Field + `"; filename="` + f.Filename + `"`}
			h["Content-Type"] = []string{f.MimeType}
			part, err = w.CreatePart(h)
		} else {
			part, err = w.CreateFormFile(f.Field, f.Filename)
		}
		if err != nil {
			return nil, &llm.GenericError{Message: "create form part: " + err.Error()}
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, &llm.GenericError{Message: "write form part: " + err.Error()}
		}
	}
	if err := w.Close(); err != nil {
		return nil, &llm.GenericError{Message: "finish multipart form: " + err.Error()}
	}

	req, err := t.newRequest(ctx, http.MethodPost, path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return t.do(ctx, req)
}

// PostBinary sends a JSON body to an endpoint that answers with raw bytes
// (audio synthesis and similar). Runs under the stream timeout: rendering can
// outlast the JSON budget.
func (t *HTTPTransport) PostBinary(ctx context.Context, path string, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, t.streamTimeout)
	defer cancel()

	req, err := t.newRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/octet-stream")
	return t.do(ctx, req)
}

// PostSSE sends a JSON body and streams the decoded response text. The
// returned stream's chunks are valid UTF-8 prefixes of the cumulative body;
// it closes on server EOF, error, or context cancellation.
func (t *HTTPTransport) PostSSE(ctx context.Context, path string, body []byte) (*Stream, error) {
	return t.postStream(ctx, path, body, "text/event-stream")
}

// PostBinaryStream streams the raw response bytes. No UTF-8 reassembly:
// chunks are arbitrary byte runs in string form.
func (t *HTTPTransport) PostBinaryStream(ctx context.Context, path string, body []byte) (*Stream, error) {
	return t.postStream(ctx, path, body, "application/octet-stream")
}

func (t *HTTPTransport) postStream(ctx context.Context, path string, body []byte, accept string) (*Stream, error) {
	ctx, cancel := context.WithTimeout(ctx, t.streamTimeout)

	req, err := t.newRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)
	sse := accept == "text/event-stream"
	if sse {
		req.Header.Set("Cache-Control", "no-cache")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		cancel()
		return nil, llm.FromTransportError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()
		cancel()
		return nil, llm.FromHTTPResponse(resp.StatusCode, errBody, resp.Header)
	}

	chunks := make(chan string, streamChunkBuffer)
	done := make(chan struct{})
	var streamErr error

	go func() {
		defer cancel()
		defer close(done)
		defer close(chunks)
		defer resp.Body.Close()

		// Binary streams skip UTF-8 reassembly; the bytes pass through
		// untouched.
		var dec utf8Decoder
		buf := make([]byte, 4096)
		for {
			n, readErr := resp.Body.Read(buf)
			if n > 0 {
				text := string(buf[:n])
				if sse {
					text = dec.Decode(buf[:n])
				}
				if text != "" {
					select {
					case chunks <- text:
					case <-ctx.Done():
						streamErr = llm.FromTransportError(ctx.Err())
						return
					}
				}
			}
			if readErr != nil {
				if sse {
					if tail := dec.Flush(); tail != "" {
						select {
						case chunks <- tail:
						case <-ctx.Done():
						}
					}
				}
				if readErr != io.EOF {
					if ctx.Err() != nil {
						readErr = ctx.Err()
					}
					streamErr = llm.FromTransportError(readErr)
				}
				return
			}
		}
	}()

	L_trace("transport: response stream opened", "path", path, "accept", accept)
	return NewStream(chunks, &streamErr, done), nil
}
