package remote

import (
	"errors"
	"fmt"
	"net/url"
	"os"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeConfig indicates a configuration error (no target address);
	// never retried, surfaced immediately
	ErrTypeConfig ErrorType = iota
	// ErrTypeNetwork indicates a transport-level error (connection refused,
	// reset, unreachable)
	ErrTypeNetwork
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeHTTP indicates a non-2xx status without auth significance
	ErrTypeHTTP
	// ErrTypeProtocol indicates the response parsed but lacked the
	// description=="OK" success sentinel
	ErrTypeProtocol
	// ErrTypeAuth indicates the device rejected our token (401/403);
	// always fatal to the current pairing
	ErrTypeAuth
	// ErrTypePairing indicates a failed PIN display/verify exchange
	ErrTypePairing
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeConfig:
		return "Configuration Error"
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeProtocol:
		return "Protocol Error"
	case ErrTypeAuth:
		return "Authentication Rejected"
	case ErrTypePairing:
		return "Pairing Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// RemoteError represents an error from a device control operation
type RemoteError struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Err        error     // Underlying error (if any)
	Retryable  bool      // Whether a retry could plausibly succeed
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *RemoteError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a configuration error
func NewConfigError(message string) *RemoteError {
	return &RemoteError{
		Type:      ErrTypeConfig,
		Message:   message,
		Retryable: false,
	}
}

// NewNetworkError creates a transport-level error, classifying timeouts
func NewNetworkError(message string, err error) *RemoteError {
	if os.IsTimeout(err) || isURLTimeout(err) {
		return &RemoteError{
			Type:      ErrTypeTimeout,
			Message:   message,
			Err:       err,
			Retryable: true,
		}
	}
	return &RemoteError{
		Type:      ErrTypeNetwork,
		Message:   message,
		Err:       err,
		Retryable: true,
	}
}

// NewHTTPError creates an HTTP-level error
func NewHTTPError(statusCode int, message string) *RemoteError {
	return &RemoteError{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  statusCode >= 500,
	}
}

// NewProtocolError creates an error for a response missing the success sentinel
func NewProtocolError(message string) *RemoteError {
	return &RemoteError{
		Type:      ErrTypeProtocol,
		Message:   message,
		Retryable: false,
	}
}

// NewAuthError creates an authentication-rejected error
func NewAuthError(statusCode int) *RemoteError {
	return &RemoteError{
		Type:       ErrTypeAuth,
		Message:    "device rejected pairing token, re-pair required",
		StatusCode: statusCode,
		Retryable:  false,
	}
}

// NewPairingError creates a pairing-flow error
func NewPairingError(message string) *RemoteError {
	return &RemoteError{
		Type:      ErrTypePairing,
		Message:   message,
		Retryable: false,
	}
}

// IsConfigError checks if an error is a configuration error
func IsConfigError(err error) bool {
	return hasType(err, ErrTypeConfig)
}

// IsAuthError checks if an error is an authentication rejection
func IsAuthError(err error) bool {
	return hasType(err, ErrTypeAuth)
}

// IsPairingError checks if an error is a pairing-flow error
func IsPairingError(err error) bool {
	return hasType(err, ErrTypePairing)
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Retryable
	}
	// Unknown errors are not retryable by default
	return false
}

func hasType(err error, t ErrorType) bool {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Type == t
	}
	return false
}

func isURLTimeout(err error) bool {
	var ue *url.Error
	return errors.As(err, &ue) && ue.Timeout()
}
