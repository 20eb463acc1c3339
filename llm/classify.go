// Package llm - error message classification
//
// Vendor SDK-less transports sometimes surface failures as bare strings (SSE
// error lines, half-parsed bodies). These classifiers recognize the common
// phrasings across providers so callers can still make failover decisions.
package llm

import (
	"regexp"
	"strconv"
	"strings"
)

// IsRetryable returns true if the error type is worth retrying against the
// same or a fallback provider: rate limits, quota, server-side failures,
// plain transport errors.
func IsRetryable(err LLMError) bool {
	if err == nil {
		return false
	}
	switch err.Code() {
	case ErrCodeRateLimit, ErrCodeQuotaExceeded, ErrCodeServer, ErrCodeHTTP:
		return true
	default:
		return false
	}
}

// ParseMaxTokensLimit checks if a message indicates max_tokens exceeds the
// model limit. Returns (true, limit) if matched and the limit could be
// parsed. Matches patterns like:
//   - "max_tokens: 8192 > 4096, which is the maximum allowed"
//   - "max_tokens must be <= 4096"
func ParseMaxTokensLimit(msg string) (bool, int) {
	if msg == "" {
		return false, 0
	}

	// Anthropic style: "max_tokens: X > Y"
	re1 := regexp.MustCompile(`max_tokens:\s*\d+\s*>\s*(\d+)`)
	if matches := re1.FindStringSubmatch(msg); len(matches) > 1 {
		if limit, err := strconv.Atoi(matches[1]); err == nil {
			return true, limit
		}
	}

	// "max_tokens must be <= X" or "max_tokens cannot exceed X"
	re2 := regexp.MustCompile(`max_tokens\s+(?:must be|cannot exceed|<=)\s*(?:<=\s*)?(\d+)`)
	if matches := re2.FindStringSubmatch(msg); len(matches) > 1 {
		if limit, err := strconv.Atoi(matches[1]); err == nil {
			return true, limit
		}
	}

	// Generic "maximum ... output tokens ... N" fallback
	re3 := regexp.MustCompile(`maximum.*?output.*?tokens.*?(\d+)`)
	if matches := re3.FindStringSubmatch(strings.ToLower(msg)); len(matches) > 1 {
		if limit, err := strconv.Atoi(matches[1]); err == nil {
			return true, limit
		}
	}

	lower := strings.ToLower(msg)
	if strings.Contains(lower, "max_tokens") &&
		(strings.Contains(lower, "maximum") || strings.Contains(lower, "exceed") || strings.Contains(lower, ">")) {
		return true, 0
	}

	return false, 0
}

// IsContextOverflowMessage checks if an error message indicates the context
// window was exceeded. Works across providers (LM Studio, OpenAI, Anthropic,
// Ollama, etc).
func IsContextOverflowMessage(msg string) bool {
	if msg == "" {
		return false
	}
	lower := strings.ToLower(msg)

	return strings.Contains(lower, "context size has been exceeded") ||
		strings.Contains(lower, "context_length_exceeded") ||
		strings.Contains(lower, "context length exceeded") ||
		strings.Contains(lower, "maximum context length") ||
		strings.Contains(lower, "prompt is too long") ||
		strings.Contains(lower, "request_too_large") ||
		strings.Contains(lower, "exceeds model context window") ||
		strings.Contains(lower, "context overflow")
}

// IsRateLimitMessage checks if a message indicates rate limiting.
func IsRateLimitMessage(msg string) bool {
	if msg == "" {
		return false
	}
	lower := strings.ToLower(msg)

	return strings.Contains(lower, "429") ||
		strings.Contains(lower, "rate_limit") ||
		strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "too many requests") ||
		strings.Contains(lower, "resource_exhausted") ||
		strings.Contains(lower, "requests per minute")
}

// IsQuotaMessage checks if a message indicates a billing/quota ceiling.
func IsQuotaMessage(msg string) bool {
	if msg == "" {
		return false
	}
	lower := strings.ToLower(msg)

	return strings.Contains(lower, "exceeded your current quota") ||
		strings.Contains(lower, "quota exceeded") ||
		strings.Contains(lower, "insufficient_quota") ||
		strings.Contains(lower, "insufficient credits") ||
		strings.Contains(lower, "credit balance") ||
		strings.Contains(lower, "billing")
}

// IsOverloadedMessage checks if a message indicates the service is
// overloaded.
func IsOverloadedMessage(msg string) bool {
	if msg == "" {
		return false
	}
	lower := strings.ToLower(msg)

	return strings.Contains(lower, "overloaded_error") ||
		strings.Contains(lower, "overloaded") ||
		strings.Contains(lower, "server is busy") ||
		strings.Contains(lower, "temporarily unavailable")
}

// IsAuthMessage checks if a message indicates authentication failure.
func IsAuthMessage(msg string) bool {
	if msg == "" {
		return false
	}
	lower := strings.ToLower(msg)

	return strings.Contains(lower, "invalid api key") ||
		strings.Contains(lower, "invalid_api_key") ||
		strings.Contains(lower, "incorrect api key") ||
		strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "forbidden") ||
		strings.Contains(lower, "access denied") ||
		strings.Contains(lower, "authentication")
}

// IsTimeoutMessage checks if a message indicates a timeout.
func IsTimeoutMessage(msg string) bool {
	if msg == "" {
		return false
	}
	lower := strings.ToLower(msg)

	return strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "timed out") ||
		strings.Contains(lower, "deadline exceeded")
}

// ClassifyMessage maps a bare error message onto the taxonomy. Used when a
// transport error carries no HTTP status. max_tokens is checked before auth
// to avoid misclassifying 400 invalid_request_error bodies.
func ClassifyMessage(msg string) LLMError {
	if msg == "" {
		return &GenericError{Message: "unknown error"}
	}
	if ok, _ := ParseMaxTokensLimit(msg); ok {
		return &InvalidRequestError{Message: msg}
	}
	if IsContextOverflowMessage(msg) {
		return &InvalidRequestError{Message: msg}
	}
	if IsRateLimitMessage(msg) {
		return &RateLimitError{Message: msg}
	}
	if IsQuotaMessage(msg) {
		return &QuotaExceededError{Message: msg}
	}
	if IsOverloadedMessage(msg) {
		return &ServerError{Message: msg}
	}
	if IsAuthMessage(msg) {
		return &AuthError{Message: msg}
	}
	if IsTimeoutMessage(msg) {
		return &HTTPError{Message: "Request timeout"}
	}
	return &GenericError{Message: msg}
}
