// Package errors provides standardized error handling for adapter and
// dispatcher failures.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeMissingCredential ErrorCode = "MISSING_CREDENTIAL"
	ErrCodeNetworkTimeout    ErrorCode = "NETWORK_TIMEOUT"
	ErrCodeNetworkFailure    ErrorCode = "NETWORK_FAILURE"
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeMalformedInput    ErrorCode = "MALFORMED_INPUT"
	ErrCodeUpstreamAPI       ErrorCode = "UPSTREAM_API_ERROR"
	ErrCodeAlreadyExists     ErrorCode = "ALREADY_EXISTS"
	ErrCodeStoreFailure      ErrorCode = "STORE_FAILURE"
)

// StandardError represents a structured application error. Every adapter
// failure is normalized to one of these before it reaches the dispatcher,
// which only ever renders Message to the user.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// UserMessage returns the text shown to the user for this error.
func (e *StandardError) UserMessage() string {
	return e.Message
}

// NewMissingCredentialError signals a call that was never attempted because
// the required API key is not configured.
func NewMissingCredentialError(service string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingCredential,
		Message:   fmt.Sprintf("Missing credential for %s", service),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTimeoutError creates the distinct user-visible timeout error.
func NewTimeoutError(service string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNetworkTimeout,
		Message:   fmt.Sprintf("Connection to %s server timed out. Please try again later.", service),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNetworkError creates a non-timeout transport failure.
func NewNetworkError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNetworkFailure,
		Message:   fmt.Sprintf("Failed to reach %s", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError creates a lookup miss (unknown city, absent user).
func NewNotFoundError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedInputError creates an unparseable-input error.
func NewMalformedInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedInput,
		Message:   "Could not parse input",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamAPIError wraps an error message returned by an external API
// (quota exceeded, bad request, empty result set).
func NewUpstreamAPIError(service, message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamAPI,
		Message:   message,
		Details:   service,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAlreadyExistsError signals a unique-key conflict on insert.
func NewAlreadyExistsError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAlreadyExists,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreError wraps a storage backend failure.
func NewStoreError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreFailure,
		Message:   "Storage operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// AsStandard extracts a *StandardError from err, or nil.
func AsStandard(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return nil
}

func hasCode(err error, code ErrorCode) bool {
	if stdErr := AsStandard(err); stdErr != nil {
		return stdErr.Code == code
	}
	return false
}

// IsTimeout reports whether err is the distinct timeout error.
func IsTimeout(err error) bool { return hasCode(err, ErrCodeNetworkTimeout) }

// IsMissingCredential reports whether err is a missing-credential short circuit.
func IsMissingCredential(err error) bool { return hasCode(err, ErrCodeMissingCredential) }

// IsNotFound reports whether err is a lookup miss.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsAlreadyExists reports whether err is a unique-key conflict.
func IsAlreadyExists(err error) bool { return hasCode(err, ErrCodeAlreadyExists) }

// UserMessage renders any error as displayable text. StandardErrors keep
// their message; anything else gets a generic failure line so no raw
// internals leak into the conversation.
func UserMessage(err error) string {
	if stdErr := AsStandard(err); stdErr != nil {
		return stdErr.Message
	}
	return "Something went wrong. Please try again."
}
