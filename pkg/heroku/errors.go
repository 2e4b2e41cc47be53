package heroku

import (
	"errors"
	"fmt"
	"net/http"
)

// Static errors for err113 compliance.
var (
	ErrConfiguration       = errors.New("configuration error")
	ErrUnsupportedScheme   = errors.New("scheme is not http nor https")
	ErrNoHostInURI         = errors.New("no host specified in URI")
	ErrTransport           = errors.New("transport error")
	ErrUnprocessableEntity = errors.New("unprocessable entity")
	ErrRateLimited         = errors.New("rate limit exceeded")
	ErrDecode              = errors.New("decode error")
	ErrInvalidUTF8         = errors.New("response body is not valid UTF-8")
	ErrNoResponse          = errors.New("transport returned no response")
	ErrConfigRequired      = errors.New("config is required")
	ErrAPIKeyRequired      = errors.New("API key is required")
	ErrUnknownEndpoint     = errors.New("unknown endpoint")
)

// ConfigurationError reports a URI the dispatcher refuses to contact.
// It is returned before any network I/O happens.
type ConfigurationError struct {
	URI    string
	Scheme string
	Err    error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("configuration error: invalid URI %q", e.URI)
	}

	return fmt.Sprintf("configuration error: %v (uri: %q)", e.Err, e.URI)
}

// Unwrap returns the underlying cause.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration //nolint:errorlint // sentinel identity
}

// TransportError wraps a connection or I/O failure.
type TransportError struct {
	Method string
	URI    string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URI, e.Err)
}

// Unwrap returns the error raised by the transport layer.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport //nolint:errorlint // sentinel identity
}

// ClientError is returned for 422 Unprocessable Entity responses.
type ClientError struct {
	StatusCode int
	Message    string
	Body       string
}

// NewClientError builds a ClientError from a decoded response body.
func NewClientError(body string) *ClientError {
	return &ClientError{
		StatusCode: http.StatusUnprocessableEntity,
		Message:    "Client Error: " + body,
		Body:       body,
	}
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	return fmt.Sprintf("%d %s", e.StatusCode, e.Message)
}

// Unwrap returns ErrUnprocessableEntity.
func (e *ClientError) Unwrap() error {
	return ErrUnprocessableEntity
}

// RateLimitError is returned for 429 Too Many Requests responses.
// Callers decide whether and when to retry.
type RateLimitError struct {
	StatusCode int
	Message    string
	Body       string
}

// NewRateLimitError builds a RateLimitError from a decoded response body.
func NewRateLimitError(body string) *RateLimitError {
	return &RateLimitError{
		StatusCode: http.StatusTooManyRequests,
		Message:    "Rate limit exceeded: " + body,
		Body:       body,
	}
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%d %s", e.StatusCode, e.Message)
}

// Unwrap returns ErrRateLimited.
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// DecodeError reports a missing response or a body that is not valid UTF-8
// or not valid JSON.
type DecodeError struct {
	StatusCode int
	Body       []byte
	Err        error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response (status %d): %v", e.StatusCode, e.Err)
}

// Unwrap returns the parse failure.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode //nolint:errorlint // sentinel identity
}

// IsClientError checks if the error is a 422 client error.
func IsClientError(err error) bool {
	clientErr := &ClientError{}

	return errors.As(err, &clientErr)
}

// IsRateLimited checks if the error is a 429 rate limit error.
func IsRateLimited(err error) bool {
	rateErr := &RateLimitError{}

	return errors.As(err, &rateErr)
}

// IsConfigurationError checks if the error was raised before any I/O because of bad configuration.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsDecodeError checks if the response body could not be decoded.
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrDecode)
}

// StatusCode extracts the HTTP status carried by an error, if any.
func StatusCode(err error) (int, bool) {
	clientErr := &ClientError{}
	if errors.As(err, &clientErr) {
		return clientErr.StatusCode, true
	}

	rateErr := &RateLimitError{}
	if errors.As(err, &rateErr) {
		return rateErr.StatusCode, true
	}

	decodeErr := &DecodeError{}
	if errors.As(err, &decodeErr) {
		return decodeErr.StatusCode, true
	}

	return 0, false
}
