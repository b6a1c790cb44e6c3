// Package errors provides the typed errors keyprobe classifies failures into.
// The report always prints the error returned by the API client; these types
// exist so callers can branch on the kind of failure with errors.Is/As.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// New is errors.New, re-exported so callers need only this package.
var New = errors.New

// Sentinels matched by the typed errors below.
var (
	// ErrInvalidInput marks a bad flag, config value, or request field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAPIKeyRequired marks a request rejected because no key was sent.
	ErrAPIKeyRequired = errors.New("API key required")

	// ErrAPIKeyInvalid marks a request rejected because of the key that was sent.
	ErrAPIKeyInvalid = errors.New("API key invalid")

	// ErrProviderUnavailable marks a 5xx answer from the service.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrRateLimited marks a 429 answer. The key itself was accepted.
	ErrRateLimited = errors.New("rate limited")

	// ErrMalformedResponse marks a 2xx answer that carried no usable completion.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrTimeout marks a request abandoned after the configured timeout.
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled marks a request aborted by the caller, e.g. on SIGINT.
	ErrCanceled = errors.New("operation canceled")
)

// ValidationError reports a request or config field that cannot be sent.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

// Is matches ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError is a non-authentication failure talking to the provider.
// StatusCode is zero when no HTTP response was received.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("API error from %s: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("API error from %s (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is maps 429 to ErrRateLimited and 5xx to ErrProviderUnavailable.
func (e *APIError) Is(target error) bool {
	switch {
	case e.StatusCode == http.StatusTooManyRequests:
		return target == ErrRateLimited
	case e.StatusCode >= http.StatusInternalServerError:
		return target == ErrProviderUnavailable
	}
	return false
}

// NewAPIError creates an APIError with no wrapped cause.
func NewAPIError(provider string, statusCode int, message string) *APIError {
	return &APIError{Provider: provider, StatusCode: statusCode, Message: message}
}

// ConfigError reports an unusable configuration value.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

func (e *ConfigError) Error() string {
	if e.Component == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a ConfigError.
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// ParseError reports a file that could not be parsed, e.g. a broken dotenv file.
type ParseError struct {
	Format  string
	File    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
	}
	return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a ParseError.
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// AuthenticationError reports a credential the provider refused (401/403).
type AuthenticationError struct {
	Provider string
	Method   string
	Message  string
	Err      error
}

func (e *AuthenticationError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("authentication error (%s): %s", e.Method, e.Message)
	}
	return fmt.Sprintf("authentication error for %s (%s): %s", e.Provider, e.Method, e.Message)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is matches both API key sentinels.
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAPIKeyRequired || target == ErrAPIKeyInvalid
}

// NewAuthenticationError creates an AuthenticationError.
func NewAuthenticationError(provider, method, message string, err error) *AuthenticationError {
	return &AuthenticationError{Provider: provider, Method: method, Message: message, Err: err}
}

// TimeoutError reports an operation abandoned after Duration (empty if unbounded).
type TimeoutError struct {
	Operation string
	Duration  string
	Message   string
	Err       error
}

func (e *TimeoutError) Error() string {
	if e.Duration == "" {
		return fmt.Sprintf("operation %s timed out: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("operation %s timed out after %s: %s", e.Operation, e.Duration, e.Message)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// Is matches ErrTimeout.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// NewTimeoutError creates a TimeoutError. Set Err to keep the cause.
func NewTimeoutError(operation, duration, message string) *TimeoutError {
	return &TimeoutError{Operation: operation, Duration: duration, Message: message}
}

// IsValidationError reports whether err matches ErrInvalidInput.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsAPIKeyError reports whether the provider refused the credential.
func IsAPIKeyError(err error) bool {
	return errors.Is(err, ErrAPIKeyRequired) || errors.Is(err, ErrAPIKeyInvalid)
}

// IsRateLimited reports whether err matches ErrRateLimited.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsTimeout reports whether err matches ErrTimeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled reports whether err matches ErrCanceled.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// IsProviderUnavailable reports whether err matches ErrProviderUnavailable.
func IsProviderUnavailable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable)
}

// WrapParse wraps err as a ParseError. A nil err stays nil.
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapAPI wraps err as an APIError. A nil err stays nil.
func WrapAPI(provider string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{Provider: provider, StatusCode: statusCode, Message: err.Error(), Err: err}
}
