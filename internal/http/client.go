// Package http implements the networked Transport used by the Heroku client.
package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/heroku-client/internal/constants"
	"github.com/fivetwenty-io/heroku-client/pkg/heroku"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
)

// Dispatcher sends one request per call over a fresh connection.
type Dispatcher struct {
	logger    heroku.Logger
	debug     bool
	timeout   time.Duration
	tlsConfig *tls.Config
	userAgent string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger.
func WithLogger(logger heroku.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(d *Dispatcher) {
		d.debug = debug
	}
}

// WithTimeout bounds each call. Zero disables the timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		d.timeout = timeout
	}
}

// WithTLSConfig sets the TLS configuration used for https URIs.
func WithTLSConfig(config *tls.Config) Option {
	return func(d *Dispatcher) {
		d.tlsConfig = config
	}
}

// WithUserAgent sets the User-Agent sent when the request has none.
func WithUserAgent(userAgent string) Option {
	return func(d *Dispatcher) {
		if userAgent != "" {
			d.userAgent = userAgent
		}
	}
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(opts ...Option) *Dispatcher {
	dispatcher := &Dispatcher{
		logger:    heroku.NoopLogger{},
		userAgent: constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(dispatcher)
	}

	return dispatcher
}

// Send performs req and returns the status, headers and fully read body.
// URIs whose scheme is not http or https fail with a ConfigurationError
// before any connection is attempted.
func (d *Dispatcher) Send(ctx context.Context, req *heroku.Request) (*heroku.RawResponse, error) {
	target, err := ParseTarget(req.URI)
	if err != nil {
		return nil, err
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	transport := cleanhttp.DefaultTransport()
	if target.Scheme == constants.SchemeHTTPS && d.tlsConfig != nil {
		transport.TLSClientConfig = d.tlsConfig.Clone()
	}

	defer transport.CloseIdleConnections()

	retryClient := d.newRetryClient(transport)

	httpReq, err := d.buildRequest(ctx, req, target)
	if err != nil {
		return nil, err
	}

	if d.debug {
		d.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"host":   target.Host,
			"target": target.Path,
		})
	}

	resp, err := retryClient.Do(httpReq)
	if err != nil {
		return nil, &heroku.TransportError{Method: req.Method, URI: req.URI, Err: err}
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &heroku.TransportError{Method: req.Method, URI: req.URI, Err: fmt.Errorf("reading response body: %w", err)}
	}

	if d.debug {
		d.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"target":      target.Path,
			"status_code": resp.StatusCode,
			"bytes":       len(body),
		})
	}

	return &heroku.RawResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}

// newRetryClient returns a client that makes exactly one attempt and hands
// every response back untouched.
func (d *Dispatcher) newRetryClient(transport *http.Transport) *retryablehttp.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = &http.Client{Transport: transport}
	retryClient.RetryMax = 0
	retryClient.CheckRetry = neverRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = &leveledLogger{logger: d.logger, debug: d.debug}

	return retryClient
}

func (d *Dispatcher) buildRequest(ctx context.Context, req *heroku.Request, target *Target) (*retryablehttp.Request, error) {
	var body interface{}
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, req.URI, body)
	if err != nil {
		return nil, &heroku.ConfigurationError{URI: req.URI, Scheme: target.Scheme, Err: err}
	}

	// Send the target exactly as given instead of the re-encoded URL path.
	path, _, _ := strings.Cut(target.Path, "?")
	if strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "//") {
		httpReq.URL.Opaque = path
	}

	if req.Headers != nil {
		httpReq.Header = req.Headers.Clone()
	}

	if httpReq.Header.Get(constants.HeaderUserAgent) == "" {
		httpReq.Header.Set(constants.HeaderUserAgent, d.userAgent)
	}

	return httpReq, nil
}

func neverRetry(_ context.Context, _ *http.Response, _ error) (bool, error) {
	return false, nil
}

// Target is the parsed form of an absolute request URI.
type Target struct {
	Scheme string
	Host   string
	// Path is everything after scheme://host, path and query, verbatim.
	Path string
}

// ParseTarget validates uri and splits off the request target.
func ParseTarget(uri string) (*Target, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return nil, &heroku.ConfigurationError{URI: uri, Err: err}
	}

	if parsed.Scheme != constants.SchemeHTTP && parsed.Scheme != constants.SchemeHTTPS {
		return nil, &heroku.ConfigurationError{URI: uri, Scheme: parsed.Scheme, Err: heroku.ErrUnsupportedScheme}
	}

	if parsed.Host == "" {
		return nil, &heroku.ConfigurationError{URI: uri, Scheme: parsed.Scheme, Err: heroku.ErrNoHostInURI}
	}

	return &Target{
		Scheme: parsed.Scheme,
		Host:   parsed.Host,
		Path:   requestTarget(uri),
	}, nil
}

// requestTarget returns the path and query of uri as written, without the
// scheme, authority or fragment.
func requestTarget(uri string) string {
	_, rest, _ := strings.Cut(uri, "://")
	rest, _, _ = strings.Cut(rest, "#")

	idx := strings.IndexAny(rest, "/?")
	if idx < 0 {
		return "/"
	}

	path := rest[idx:]
	if strings.HasPrefix(path, "?") {
		path = "/" + path
	}

	return path
}
