package heroku

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Request is a single outbound call handed to a Transport.
type Request struct {
	Method  string
	URI     string
	Headers http.Header
	Body    []byte
}

// RawResponse is what a Transport returns: status, headers and the
// undecoded body, fully read.
type RawResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Response is a successfully interpreted RawResponse. Body holds the parsed
// JSON value (map[string]any, []any, string, float64, bool or nil).
//
// A Response is returned for every status other than 422 and 429, including
// other 4xx and 5xx codes. Callers must check StatusCode themselves.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       any
	Raw        []byte
}

// Unmarshal decodes the raw response body into v.
func (r *Response) Unmarshal(v any) error {
	err := json.Unmarshal(r.Raw, v)
	if err != nil {
		return fmt.Errorf("failed to unmarshal response body: %w", err)
	}

	return nil
}

// Transport performs the network I/O for one Request.
type Transport interface {
	Send(ctx context.Context, req *Request) (*RawResponse, error)
}

// TransportFunc adapts an ordinary function to the Transport interface.
type TransportFunc func(ctx context.Context, req *Request) (*RawResponse, error)

// Send calls f(ctx, req).
func (f TransportFunc) Send(ctx context.Context, req *Request) (*RawResponse, error) {
	return f(ctx, req)
}

// HeaderProvider supplies the fixed headers the API requires on every request.
type HeaderProvider interface {
	Headers() http.Header
}

// Authenticator supplies the credential headers for a request.
type Authenticator interface {
	Authenticate() http.Header
}

// ResponseDecoder turns a RawResponse into a Response or a typed error.
type ResponseDecoder interface {
	Decode(raw *RawResponse) (*Response, error)
}

// APIClient issues authenticated requests against one base URI.
type APIClient interface {
	Request(ctx context.Context, method, path string, headers map[string]string, body []byte) (*Response, error)
	Get(ctx context.Context, path string) (*Response, error)
	Post(ctx context.Context, path string, body any) (*Response, error)
	Put(ctx context.Context, path string, body any) (*Response, error)
	Patch(ctx context.Context, path string, body any) (*Response, error)
	Delete(ctx context.Context, path string) (*Response, error)
	BaseURI() string
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// NoopLogger discards everything.
type NoopLogger struct{}

func (NoopLogger) Debug(string, map[string]interface{}) {}
func (NoopLogger) Info(string, map[string]interface{})  {}
func (NoopLogger) Warn(string, map[string]interface{})  {}
func (NoopLogger) Error(string, map[string]interface{}) {}

// ClientConfig configures a single API endpoint.
type ClientConfig struct {
	BaseURI string
	APIKey  string
}

// Config represents client configuration for building a herokuclient.Client.
//
// Only APIKey is required. APIBaseURI and PostgresBaseURI default to the
// public Heroku endpoints and are mainly overridden in tests or behind a
// proxy; both must use the http or https scheme.
//
// # Transport
//
// Transport replaces the networked dispatcher for both endpoints. When nil,
// each endpoint gets its own dispatcher honoring HTTPTimeout, UserAgent and
// Debug. No retries are ever performed: a 429 is returned as a
// RateLimitError and the caller decides what to do.
type Config struct {
	// APIKey: Heroku API key, sent as the password of a Basic credential.
	APIKey string

	// APIBaseURI: base URI of the platform API (default https://api.heroku.com).
	APIBaseURI string
	// PostgresBaseURI: base URI of the data API (default https://postgres-api.heroku.com).
	PostgresBaseURI string

	// Transport: optional override shared by both endpoints.
	Transport Transport
	// Logger: optional structured logger.
	Logger Logger
	// Debug: enables request/response logging in the default dispatcher.
	Debug bool
	// HTTPTimeout: per-call timeout of the default dispatcher. Zero means none;
	// context deadlines still apply.
	HTTPTimeout time.Duration
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
}
