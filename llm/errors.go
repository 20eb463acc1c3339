// Package llm - normalized error taxonomy
package llm

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ErrorCode discriminates the closed LLMError taxonomy.
type ErrorCode string

const (
	ErrCodeHTTP              ErrorCode = "http"
	ErrCodeAuth              ErrorCode = "auth"
	ErrCodeInvalidRequest    ErrorCode = "invalid_request"
	ErrCodeProvider          ErrorCode = "provider"
	ErrCodeResponseFormat    ErrorCode = "response_format"
	ErrCodeGeneric           ErrorCode = "generic"
	ErrCodeNotFound          ErrorCode = "not_found"
	ErrCodeJSONParse         ErrorCode = "json_parse"
	ErrCodeToolConfig        ErrorCode = "tool_config"
	ErrCodeRateLimit         ErrorCode = "rate_limit"
	ErrCodeQuotaExceeded     ErrorCode = "quota_exceeded"
	ErrCodeModelNotAvailable ErrorCode = "model_not_available"
	ErrCodeContentFilter     ErrorCode = "content_filter"
	ErrCodeServer            ErrorCode = "server"
	ErrCodeCancelled         ErrorCode = "cancelled"
)

// LLMError is the closed error union. Every variant implements error and
// reports its discriminator via Code.
type LLMError interface {
	error
	Code() ErrorCode
}

// HTTPError is a transport-level HTTP failure with no more specific mapping.
type HTTPError struct {
	Message    string
	StatusCode int
}

func (e *HTTPError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("HTTP error %d: %s", e.StatusCode, e.Message)
	}
	return "HTTP error: " + e.Message
}
func (e *HTTPError) Code() ErrorCode { return ErrCodeHTTP }

// AuthError indicates the credentials were rejected.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string   { return "authentication error: " + e.Message }
func (e *AuthError) Code() ErrorCode { return ErrCodeAuth }

// InvalidRequestError indicates the request was malformed or failed vendor
// validation.
type InvalidRequestError struct {
	Message string
}

func (e *InvalidRequestError) Error() string   { return "invalid request: " + e.Message }
func (e *InvalidRequestError) Code() ErrorCode { return ErrCodeInvalidRequest }

// ProviderError is a vendor-reported failure with no more specific variant.
type ProviderError struct {
	Provider string
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("provider %s error: %s", e.Provider, e.Message)
	}
	return "provider error: " + e.Message
}
func (e *ProviderError) Code() ErrorCode { return ErrCodeProvider }

// ResponseFormatError indicates the vendor response did not match the
// expected shape. Raw preserves the offending payload.
type ResponseFormatError struct {
	Message string
	Raw     string
}

func (e *ResponseFormatError) Error() string   { return "unexpected response format: " + e.Message }
func (e *ResponseFormatError) Code() ErrorCode { return ErrCodeResponseFormat }

// GenericError is the catch-all variant.
type GenericError struct {
	Message string
}

func (e *GenericError) Error() string   { return e.Message }
func (e *GenericError) Code() ErrorCode { return ErrCodeGeneric }

// NotFoundError indicates a missing resource that is not a model.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string   { return "not found: " + e.Message }
func (e *NotFoundError) Code() ErrorCode { return ErrCodeNotFound }

// JSONParseError indicates a payload failed to decode.
type JSONParseError struct {
	Message string
	Err     error
}

func (e *JSONParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("JSON parse error: %s: %v", e.Message, e.Err)
	}
	return "JSON parse error: " + e.Message
}
func (e *JSONParseError) Code() ErrorCode { return ErrCodeJSONParse }
func (e *JSONParseError) Unwrap() error   { return e.Err }

// ToolConfigError reports tool definition or tool call validation failures.
type ToolConfigError struct {
	Message    string
	Violations []string
}

func (e *ToolConfigError) Error() string {
	if len(e.Violations) > 0 {
		return fmt.Sprintf("tool config error: %s (%s)", e.Message, strings.Join(e.Violations, "; "))
	}
	return "tool config error: " + e.Message
}
func (e *ToolConfigError) Code() ErrorCode { return ErrCodeToolConfig }

// RateLimitError indicates the vendor throttled the request.
type RateLimitError struct {
	Message string
	// RetryAfter is zero when the vendor supplied no hint.
	RetryAfter        time.Duration
	RemainingRequests *int
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: %s (retry after %s)", e.Message, e.RetryAfter)
	}
	return "rate limited: " + e.Message
}
func (e *RateLimitError) Code() ErrorCode { return ErrCodeRateLimit }

// QuotaExceededError indicates a billing or quota ceiling.
type QuotaExceededError struct {
	Message   string
	QuotaType string
}

func (e *QuotaExceededError) Error() string   { return "quota exceeded: " + e.Message }
func (e *QuotaExceededError) Code() ErrorCode { return ErrCodeQuotaExceeded }

// ModelNotAvailableError indicates the requested model is unknown or retired.
type ModelNotAvailableError struct {
	Model     string
	Available []string
	Message   string
}

func (e *ModelNotAvailableError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "model not available"
	}
	if e.Model != "" {
		return fmt.Sprintf("%s: %s", msg, e.Model)
	}
	return msg
}
func (e *ModelNotAvailableError) Code() ErrorCode { return ErrCodeModelNotAvailable }

// ContentFilterError indicates the vendor refused the content.
type ContentFilterError struct {
	Message    string
	FilterType string
}

func (e *ContentFilterError) Error() string   { return "content filtered: " + e.Message }
func (e *ContentFilterError) Code() ErrorCode { return ErrCodeContentFilter }

// ServerError indicates a vendor-side failure.
type ServerError struct {
	Message    string
	StatusCode int
}

func (e *ServerError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("server error %d: %s", e.StatusCode, e.Message)
	}
	return "server error: " + e.Message
}
func (e *ServerError) Code() ErrorCode { return ErrCodeServer }

// CancelledError indicates the caller cancelled the request.
type CancelledError struct {
	Message string
}

func (e *CancelledError) Error() string   { return "cancelled: " + e.Message }
func (e *CancelledError) Code() ErrorCode { return ErrCodeCancelled }

// AsLLMError normalizes any error into the taxonomy. Errors that already
// carry a variant pass through; everything else becomes Generic.
func AsLLMError(err error) LLMError {
	if err == nil {
		return nil
	}
	var le LLMError
	if errors.As(err, &le) {
		return le
	}
	return &GenericError{Message: err.Error()}
}

// FromHTTPResponse maps an HTTP status plus the response body and headers to
// the taxonomy. Vendor error payloads override the status-code mapping when
// present and more specific.
func FromHTTPResponse(status int, body []byte, header http.Header) LLMError {
	msg := extractErrorMessage(body)

	// Anthropic-style error.type payloads take precedence.
	if t := gjson.GetBytes(body, "error.type").String(); t != "" {
		if mapped := fromAnthropicErrorType(t, msg, status, header); mapped != nil {
			return mapped
		}
	}

	switch status {
	case http.StatusBadRequest:
		return &InvalidRequestError{Message: msg}
	case http.StatusUnauthorized:
		return &AuthError{Message: msg}
	case http.StatusForbidden:
		if msg == "" {
			msg = "Forbidden"
		}
		return &AuthError{Message: msg}
	case http.StatusNotFound:
		if model := extractModelName(body); model != "" {
			return &ModelNotAvailableError{Model: model, Message: msg}
		}
		return &NotFoundError{Message: msg}
	case http.StatusUnprocessableEntity:
		if msg == "" {
			msg = "Validation failed"
		}
		return &InvalidRequestError{Message: msg}
	case http.StatusTooManyRequests:
		rl := &RateLimitError{Message: msg, RetryAfter: parseRetryAfter(header)}
		if v := header.Get("x-ratelimit-remaining-requests"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				rl.RemainingRequests = &n
			}
		}
		return rl
	case http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return &ServerError{Message: msg, StatusCode: status}
	}
	if status >= 500 {
		return &ServerError{Message: msg, StatusCode: status}
	}
	return &HTTPError{Message: msg, StatusCode: status}
}

// fromAnthropicErrorType maps Anthropic error.type values. Returns nil when
// the type is unknown, letting the status mapping decide.
func fromAnthropicErrorType(t, msg string, status int, header http.Header) LLMError {
	switch t {
	case "authentication_error", "permission_error":
		return &AuthError{Message: msg}
	case "invalid_request_error":
		return &InvalidRequestError{Message: msg}
	case "not_found_error":
		return &NotFoundError{Message: msg}
	case "rate_limit_error":
		return &RateLimitError{Message: msg, RetryAfter: parseRetryAfter(header)}
	case "api_error":
		return &ServerError{Message: msg, StatusCode: status}
	case "overloaded_error":
		return &ServerError{Message: msg, StatusCode: status}
	}
	return nil
}

// FromErrorType maps a vendor error.type plus message to the taxonomy,
// falling back to message classification when the type is unknown or absent.
// Used by stream parsers, where error events carry no HTTP status.
func FromErrorType(t, msg string) LLMError {
	if t != "" {
		if mapped := fromAnthropicErrorType(t, msg, 0, nil); mapped != nil {
			return mapped
		}
	}
	return ClassifyMessage(msg)
}

// FromTransportError maps transport failures: timeouts, TLS failures,
// cancellations, and unknown network errors each get a dedicated variant.
func FromTransportError(err error) LLMError {
	if err == nil {
		return nil
	}
	var le LLMError
	if errors.As(err, &le) {
		return le
	}
	if errors.Is(err, context.Canceled) {
		return &CancelledError{Message: "request cancelled"}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &HTTPError{Message: "Request timeout"}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &HTTPError{Message: "Request timeout"}
	}
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return &HTTPError{Message: "TLS verification failed: " + err.Error()}
	}
	return &GenericError{Message: err.Error()}
}

// parseRetryAfter parses a Retry-After header as an integer number of seconds
// or an HTTP-date, returning zero when absent or unparseable.
func parseRetryAfter(header http.Header) time.Duration {
	if header == nil {
		return 0
	}
	v := header.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			return 0
		}
		return d.Round(time.Second)
	}
	return 0
}

// extractErrorMessage checks common vendor error body shapes.
func extractErrorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	for _, path := range []string{"error.message", "error", "message", "detail"} {
		if v := gjson.GetBytes(body, path); v.Exists() && v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 512 {
		s = s[:512]
	}
	return s
}

// extractModelName looks for a model name in a 404 body. Vendors phrase this
// as `The model 'x' does not exist` or report it in error.param/model fields.
func extractModelName(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if v := gjson.GetBytes(body, "model").String(); v != "" {
		return v
	}
	msg := gjson.GetBytes(body, "error.message").String()
	if msg == "" {
		msg = string(body)
	}
	lower := strings.ToLower(msg)
	if !strings.Contains(lower, "model") {
		return ""
	}
	// Try to pull the quoted name: "model `x`" / "model 'x'" / `model "x"`.
	for _, q := range []string{"`", "'", "\""} {
		if i := strings.Index(msg, q); i >= 0 {
			rest := msg[i+1:]
			if j := strings.Index(rest, q); j > 0 {
				return rest[:j]
			}
		}
	}
	return ""
}
