package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrEmptyQuery indicates that a search was requested for an empty
	// compound name.
	ErrEmptyQuery = errors.New("empty query")

	// ErrSourceNotFound indicates that a requested source is not registered.
	ErrSourceNotFound = errors.New("source not found")

	// ErrSourceDisabled indicates that a source is registered but disabled.
	ErrSourceDisabled = errors.New("source disabled")

	// ErrNoIdentifier indicates that a record has no PMID, DOI, or title.
	ErrNoIdentifier = errors.New("no identifier")

	// ErrInvalidConfig indicates that the loaded configuration is invalid.
	ErrInvalidConfig = errors.New("invalid config")
)

// NetworkError reports a transport-level failure against a source:
// timeouts, connection failures, and non-success HTTP statuses,
// including 429 rate-limit responses. The core never retries; callers
// that want a retry issue a fresh search.
type NetworkError struct {
	Source     string
	Operation  string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s failed: status %d", e.Source, e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Source, e.Operation, e.Err)
}

// Unwrap returns the underlying cause error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsRateLimited reports whether the failure was a 429 response.
func (e *NetworkError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// ParseError reports an unexpected provider schema: undecodable XML or
// JSON, or a payload shape the adapter cannot interpret.
type ParseError struct {
	Source  string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s response parse failed: %s", e.Source, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError.
func NewNetworkError(source, operation string, statusCode int, err error) *NetworkError {
	return &NetworkError{
		Source:     source,
		Operation:  operation,
		StatusCode: statusCode,
		Err:        err,
	}
}

// NewParseError creates a new ParseError.
func NewParseError(source, message string, err error) *ParseError {
	return &ParseError{
		Source:  source,
		Message: message,
		Err:     err,
	}
}

// IsNetworkError reports whether err is or wraps a NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsParseError reports whether err is or wraps a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
