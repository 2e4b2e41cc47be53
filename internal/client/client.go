package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	herokuhttp "github.com/fivetwenty-io/heroku-client/internal/http"
	"github.com/fivetwenty-io/heroku-client/pkg/heroku"
)

// Static errors for err113 compliance.
var (
	ErrBaseURIRequired = errors.New("base URI is required")
	ErrEncodeBody      = errors.New("failed to encode request body")
)

var _ heroku.APIClient = (*Client)(nil)

// Client issues authenticated requests against one base URI. It merges
// caller headers, vendor headers and credentials, hands the request to its
// Transport and the result to its ResponseDecoder. Failures from either are
// returned unchanged.
type Client struct {
	config        heroku.ClientConfig
	transport     heroku.Transport
	headers       heroku.HeaderProvider
	authenticator heroku.Authenticator
	decoder       heroku.ResponseDecoder
	logger        heroku.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the default dispatcher.
func WithTransport(transport heroku.Transport) Option {
	return func(c *Client) {
		if transport != nil {
			c.transport = transport
		}
	}
}

// WithHeaderProvider replaces the vendor headers.
func WithHeaderProvider(provider heroku.HeaderProvider) Option {
	return func(c *Client) {
		if provider != nil {
			c.headers = provider
		}
	}
}

// WithAuthenticator replaces Basic authentication.
func WithAuthenticator(authenticator heroku.Authenticator) Option {
	return func(c *Client) {
		if authenticator != nil {
			c.authenticator = authenticator
		}
	}
}

// WithResponseDecoder replaces the response interpreter.
func WithResponseDecoder(decoder heroku.ResponseDecoder) Option {
	return func(c *Client) {
		if decoder != nil {
			c.decoder = decoder
		}
	}
}

// WithLogger sets the logger used by the default interpreter and dispatcher.
func WithLogger(logger heroku.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Client for config. Components not supplied through options
// default to a Dispatcher, VendorHeaders, a BasicAuthenticator for
// config.APIKey and an Interpreter.
func New(config heroku.ClientConfig, opts ...Option) (*Client, error) {
	if config.BaseURI == "" {
		return nil, ErrBaseURIRequired
	}

	client := &Client{
		config: config,
		logger: heroku.NoopLogger{},
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.transport == nil {
		client.transport = herokuhttp.NewDispatcher(herokuhttp.WithLogger(client.logger))
	}

	if client.headers == nil {
		client.headers = VendorHeaders{}
	}

	if client.authenticator == nil {
		client.authenticator = NewBasicAuthenticator(config.APIKey)
	}

	if client.decoder == nil {
		client.decoder = NewInterpreter(client.logger)
	}

	return client, nil
}

// BaseURI returns the configured base URI.
func (c *Client) BaseURI() string {
	return c.config.BaseURI
}

// Request sends method path with the given headers and body. Vendor headers
// and the Authorization header override caller headers with the same name.
func (c *Client) Request(ctx context.Context, method, path string, headers map[string]string, body []byte) (*heroku.Response, error) {
	req := &heroku.Request{
		Method:  method,
		URI:     c.config.BaseURI + path,
		Headers: c.mergeHeaders(headers),
		Body:    body,
	}

	raw, err := c.transport.Send(ctx, req)
	if err != nil {
		return nil, err
	}

	return c.decoder.Decode(raw)
}

// mergeHeaders applies caller, vendor and credential headers in that order.
func (c *Client) mergeHeaders(headers map[string]string) http.Header {
	merged := make(http.Header, len(headers)+3)

	for key, value := range headers {
		merged.Set(key, value)
	}

	for _, fixed := range []http.Header{c.headers.Headers(), c.authenticator.Authenticate()} {
		for key, values := range fixed {
			merged[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
		}
	}

	return merged
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string) (*heroku.Response, error) {
	return c.Request(ctx, http.MethodGet, path, nil, nil)
}

// Post performs a POST request. body is sent as is when it is a []byte or
// string and JSON encoded otherwise.
func (c *Client) Post(ctx context.Context, path string, body any) (*heroku.Response, error) {
	return c.send(ctx, http.MethodPost, path, body)
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body any) (*heroku.Response, error) {
	return c.send(ctx, http.MethodPut, path, body)
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body any) (*heroku.Response, error) {
	return c.send(ctx, http.MethodPatch, path, body)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*heroku.Response, error) {
	return c.Request(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) send(ctx context.Context, method, path string, body any) (*heroku.Response, error) {
	encoded, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	return c.Request(ctx, method, path, nil, encoded)
}

func encodeBody(body any) ([]byte, error) {
	switch value := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return value, nil
	case string:
		return []byte(value), nil
	case json.RawMessage:
		return value, nil
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeBody, err)
		}

		return encoded, nil
	}
}
