package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrRateLimited      = errors.New("rate limited")
	ErrInvalidPageSize  = errors.New("invalid page size")
	ErrUnknownFormat    = errors.New("unknown export format")
	ErrExportInProgress = errors.New("export already in progress")
	ErrCacheMiss        = errors.New("cache miss")
	ErrDisconnected     = errors.New("upstream market API not connected")
)

// ErrorKind classifies a failed API interaction.
type ErrorKind string

const (
	ErrorKindNetwork    ErrorKind = "network"
	ErrorKindHTTP       ErrorKind = "http"
	ErrorKindDecode     ErrorKind = "decode"
	ErrorKindValidation ErrorKind = "validation"
)

// APIError is the single error shape produced by the market API client. It is
// built once per failed call and never partially filled: Status is set only
// for ErrorKindHTTP, Err holds the underlying cause when there is one.
type APIError struct {
	Kind    ErrorKind
	Message string
	Status  int
	Err     error
}

// Error returns the human-readable message.
func (e *APIError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause (for example context.DeadlineExceeded).
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is maps HTTP failures onto the package sentinels so callers can write
// errors.Is(err, domain.ErrNotFound) without inspecting status codes.
func (e *APIError) Is(target error) bool {
	if e.Kind != ErrorKindHTTP {
		return false
	}
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrRateLimited:
		return e.Status == http.StatusTooManyRequests
	}
	return false
}

// NewNetworkError wraps a transport-level failure (timeout, DNS, refused).
func NewNetworkError(err error) *APIError {
	return &APIError{
		Kind:    ErrorKindNetwork,
		Message: fmt.Sprintf("network error: %v", err),
		Err:     err,
	}
}

// NewHTTPError builds an http-kind error. An empty message is replaced by the
// synthesized "HTTP <status>: <statusText>" form.
func NewHTTPError(status int, message string) *APIError {
	if strings.TrimSpace(message) == "" {
		message = fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))
	}
	return &APIError{
		Kind:    ErrorKindHTTP,
		Message: message,
		Status:  status,
	}
}

// NewDecodeError wraps a JSON decoding failure of a successful response.
func NewDecodeError(err error) *APIError {
	return &APIError{
		Kind:    ErrorKindDecode,
		Message: fmt.Sprintf("decode response: %v", err),
		Err:     err,
	}
}

// NewEncodeError reports a request body that cannot be serialized. It is a
// validation-kind error: the request is never sent.
func NewEncodeError(err error) *APIError {
	return &APIError{
		Kind:    ErrorKindValidation,
		Message: fmt.Sprintf("encode request body: %v", err),
		Err:     err,
	}
}

// NewValidationError reports client-side input problems. Every problem is
// listed in the message.
func NewValidationError(problems []string) *APIError {
	return &APIError{
		Kind:    ErrorKindValidation,
		Message: "invalid input: " + strings.Join(problems, "; "),
	}
}

// AsAPIError returns the *APIError in err's chain, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
