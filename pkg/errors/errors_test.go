package errors

import (
	"fmt"
	"testing"
)

func TestAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "basic error",
			err:      New(ErrCodeNetworkUnavailable, "Connection failed"),
			expected: "[TDL1001] ERROR: Connection failed",
		},
		{
			name: "error with suggestions",
			err: New(ErrCodeNetworkUnavailable, "Connection failed").
				WithSuggestions("Check network", "Use a proxy"),
			expected: "[TDL1001] ERROR: Connection failed\nSuggestions:\n  1. Check network\n  2. Use a proxy",
		},
		{
			name: "error with context",
			err: New(ErrCodeNetworkUnavailable, "Connection failed").
				WithContext("host", "api.github.com").
				WithContext("port", 443),
			expected: "[TDL1001] ERROR: Connection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	baseErr := fmt.Errorf("dial tcp: connection refused")

	appErr := Wrap(baseErr, ErrCodeNetworkUnavailable, "Request failed")

	if appErr.Cause != baseErr {
		t.Error("Wrapped error should contain original error as cause")
	}
	if appErr.Unwrap() != baseErr {
		t.Error("Unwrap should return the cause")
	}
	if Wrap(nil, ErrCodeInternal, "nothing") != nil {
		t.Error("Wrapping nil should return nil")
	}
}

func TestWrapInheritsContext(t *testing.T) {
	inner := New(ErrCodeAPIStatus, "bad status").WithContext("url", "https://example.test")
	outer := Wrap(inner, ErrCodeAPIResponse, "listing failed")

	if outer.Context["url"] != "https://example.test" {
		t.Errorf("Expected inherited url context, got %v", outer.Context["url"])
	}
}

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("outer: %w", ProxyError("http://proxy:3128", fmt.Errorf("refused")))

	if GetErrorCode(err) != ErrCodeProxyUnreachable {
		t.Errorf("Expected %s, got %s", ErrCodeProxyUnreachable, GetErrorCode(err))
	}
	if !IsFatal(err) {
		t.Error("Proxy errors must be fatal")
	}
	if GetErrorCode(fmt.Errorf("plain")) != ErrCodeInternal {
		t.Error("Plain errors should map to internal code")
	}
}

func TestIsFatal(t *testing.T) {
	if IsFatal(nil) {
		t.Error("nil is not fatal")
	}
	if IsFatal(UnknownTagError("tessdata", "9.9.9")) {
		t.Error("Unknown tag is a warning, not fatal")
	}
	if IsFatal(UnknownRepositoryError("nope")) {
		t.Error("Unknown repository is a warning, not fatal")
	}
	if !IsFatal(OutputDirError("/nope", "does not exist", nil)) {
		t.Error("Output directory errors are fatal")
	}
	if IsFatal(StatusError("https://api.github.com/repos/x/y/git/trees/abc", 404)) {
		t.Error("HTTP status errors are warnings, not fatal")
	}
	if !IsFatal(fmt.Errorf("transport failure")) {
		t.Error("Unstructured errors are fatal")
	}
}

func TestStatusErrorSuggestsRateLimit(t *testing.T) {
	err := StatusError("https://api.github.com/repos/x/y/tags", 403)
	if len(err.Suggestions) == 0 {
		t.Error("Expected a rate limit suggestion for HTTP 403")
	}
	if len(StatusError("u", 500).Suggestions) != 0 {
		t.Error("Expected no suggestion for HTTP 500")
	}
}
