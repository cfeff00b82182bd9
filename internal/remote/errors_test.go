package remote

import (
	"errors"
	"fmt"
	"net/url"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "deadline exceeded" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantType  ErrorType
		retryable bool
	}{
		{
			name:      "config",
			err:       NewConfigError("no target device configured"),
			wantType:  ErrTypeConfig,
			retryable: false,
		},
		{
			name:      "network",
			err:       NewNetworkError("connection refused", errors.New("connect: connection refused")),
			wantType:  ErrTypeNetwork,
			retryable: true,
		},
		{
			name:      "timeout",
			err:       NewNetworkError("request timed out", &url.Error{Op: "Post", URL: "https://x", Err: timeoutErr{}}),
			wantType:  ErrTypeTimeout,
			retryable: true,
		},
		{
			name:      "http server error",
			err:       NewHTTPError(503, "unexpected status code: 503"),
			wantType:  ErrTypeHTTP,
			retryable: true,
		},
		{
			name:      "http client error",
			err:       NewHTTPError(404, "unexpected status code: 404"),
			wantType:  ErrTypeHTTP,
			retryable: false,
		},
		{
			name:      "protocol",
			err:       NewProtocolError("device rejected command"),
			wantType:  ErrTypeProtocol,
			retryable: false,
		},
		{
			name:      "auth",
			err:       NewAuthError(401),
			wantType:  ErrTypeAuth,
			retryable: false,
		},
		{
			name:      "pairing",
			err:       NewPairingError("device rejected PIN"),
			wantType:  ErrTypePairing,
			retryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !hasType(tt.err, tt.wantType) {
				t.Errorf("error type mismatch for %v, want %v", tt.err, tt.wantType)
			}
			if got := IsRetryable(tt.err); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewNetworkError("POST request failed", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is() cannot reach the wrapped cause")
	}

	wrapped := fmt.Errorf("sending key: %w", err)
	if !IsRetryable(wrapped) {
		t.Error("IsRetryable() lost the classification through wrapping")
	}
	if IsAuthError(wrapped) {
		t.Error("IsAuthError() = true for a network error")
	}
}

func TestIsRetryableUnknownError(t *testing.T) {
	if IsRetryable(errors.New("plain")) {
		t.Error("IsRetryable() = true for an unclassified error")
	}
}
