package llm

import "testing"

func TestParseMaxTokensLimit(t *testing.T) {
	tests := []struct {
		name      string
		msg       string
		wantMatch bool
		wantLimit int
	}{
		{"empty", "", false, 0},
		{"anthropic style", "max_tokens: 8192 > 4096, which is the maximum allowed", true, 4096},
		{"must be", "max_tokens must be <= 16384", true, 16384},
		{"cannot exceed", "max_tokens cannot exceed 4096", true, 4096},
		{"generic maximum output", "the maximum allowed output tokens for this model is 8192", true, 8192},
		{"maximum output ordered", "maximum number of output tokens is 8192", true, 8192},
		{"keyword fallback no limit", "max_tokens exceeds what the model allows", true, 0},
		{"unrelated", "temperature must be between 0 and 2", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMatch, gotLimit := ParseMaxTokensLimit(tt.msg)
			if gotMatch != tt.wantMatch || gotLimit != tt.wantLimit {
				t.Errorf("ParseMaxTokensLimit(%q) = (%v, %d), want (%v, %d)",
					tt.msg, gotMatch, gotLimit, tt.wantMatch, tt.wantLimit)
			}
		})
	}
}

func TestMessagePredicates(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) bool
		msg  string
		want bool
	}{
		{"context overflow openai", IsContextOverflowMessage, "This model's maximum context length is 128000 tokens", true},
		{"context overflow anthropic", IsContextOverflowMessage, "prompt is too long: 210000 tokens", true},
		{"context overflow code", IsContextOverflowMessage, "error code: context_length_exceeded", true},
		{"context overflow miss", IsContextOverflowMessage, "response truncated", false},
		{"rate limit status", IsRateLimitMessage, "upstream returned 429", true},
		{"rate limit phrase", IsRateLimitMessage, "Too many requests, slow down", true},
		{"rate limit google", IsRateLimitMessage, "RESOURCE_EXHAUSTED: per-minute cap reached", true},
		{"rate limit miss", IsRateLimitMessage, "please slow down", false},
		{"quota openai", IsQuotaMessage, "You exceeded your current quota, please check your plan", true},
		{"quota anthropic", IsQuotaMessage, "Your credit balance is too low", true},
		{"quota miss", IsQuotaMessage, "request rejected", false},
		{"overloaded", IsOverloadedMessage, "Overloaded", true},
		{"overloaded type", IsOverloadedMessage, "overloaded_error", true},
		{"overloaded miss", IsOverloadedMessage, "capacity planning", false},
		{"auth key", IsAuthMessage, "Incorrect API key provided", true},
		{"auth status", IsAuthMessage, "401 Unauthorized", true},
		{"auth miss", IsAuthMessage, "key not found in request", false},
		{"timeout", IsTimeoutMessage, "context deadline exceeded", true},
		{"timeout phrase", IsTimeoutMessage, "request timed out after 30s", true},
		{"timeout miss", IsTimeoutMessage, "slow response", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.msg); got != tt.want {
				t.Errorf("predicate(%q) = %v, want %v", tt.msg, got, tt.want)
			}
		})
	}
}

func TestClassifyMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want ErrorCode
	}{
		{"empty", "", ErrCodeGeneric},
		{"max tokens", "max_tokens: 8192 > 4096, which is the maximum allowed", ErrCodeInvalidRequest},
		{"context overflow", "prompt is too long: 250000 tokens > 200000 maximum", ErrCodeInvalidRequest},
		{"rate limit", "rate_limit_error: Number of requests per minute exceeded", ErrCodeRateLimit},
		{"quota", "insufficient_quota", ErrCodeQuotaExceeded},
		{"overloaded", "Overloaded", ErrCodeServer},
		{"auth", "invalid api key", ErrCodeAuth},
		{"timeout", "request timed out", ErrCodeHTTP},
		{"fallthrough", "something odd happened", ErrCodeGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyMessage(tt.msg); got.Code() != tt.want {
				t.Errorf("ClassifyMessage(%q) = %v, want %v", tt.msg, got.Code(), tt.want)
			}
		})
	}
}

func TestClassifyMessageMaxTokensBeforeAuth(t *testing.T) {
	// 400 bodies mention invalid_request_error, which contains no auth
	// phrasing, but a max_tokens complaint must win over any later match.
	msg := "invalid_request_error: max_tokens: 8192 > 4096, which is the maximum allowed. " +
		"Check your authentication settings if this persists."
	got := ClassifyMessage(msg)
	if got.Code() != ErrCodeInvalidRequest {
		t.Errorf("ClassifyMessage = %v, want invalid request ahead of auth", got.Code())
	}
}

func TestFromErrorType(t *testing.T) {
	tests := []struct {
		name string
		typ  string
		msg  string
		want ErrorCode
	}{
		{"overloaded type neutral msg", "overloaded_error", "please retry shortly", ErrCodeServer},
		{"rate limit type", "rate_limit_error", "please slow down", ErrCodeRateLimit},
		{"auth type", "authentication_error", "nope", ErrCodeAuth},
		{"api error type", "api_error", "internal", ErrCodeServer},
		{"unknown type falls back", "mystery_error", "invalid api key", ErrCodeAuth},
		{"no type falls back", "", "Overloaded", ErrCodeServer},
		{"nothing", "", "", ErrCodeGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromErrorType(tt.typ, tt.msg); got.Code() != tt.want {
				t.Errorf("FromErrorType(%q, %q) = %v, want %v", tt.typ, tt.msg, got.Code(), tt.want)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	retryable := []LLMError{
		&RateLimitError{Message: "slow down"},
		&QuotaExceededError{Message: "quota"},
		&ServerError{Message: "boom", StatusCode: 503},
		&HTTPError{Message: "Request timeout"},
	}
	for _, err := range retryable {
		if !IsRetryable(err) {
			t.Errorf("IsRetryable(%v) = false", err.Code())
		}
	}
	terminal := []LLMError{
		&AuthError{Message: "bad key"},
		&InvalidRequestError{Message: "bad arg"},
		&GenericError{Message: "odd"},
		&CancelledError{Message: "cancelled"},
	}
	for _, err := range terminal {
		if IsRetryable(err) {
			t.Errorf("IsRetryable(%v) = true", err.Code())
		}
	}
	if IsRetryable(nil) {
		t.Error("IsRetryable(nil) = true")
	}
}
