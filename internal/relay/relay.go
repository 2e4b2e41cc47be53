// Package relay carries Heroku requests over NATS request/reply.
//
// A relay Transport publishes each request on a subject; a Server
// subscribed to that subject performs it with another Transport (normally
// the networked dispatcher) and replies with the raw response. This lets
// hosts without direct egress use the client unchanged.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fivetwenty-io/heroku-client/internal/constants"
	"github.com/fivetwenty-io/heroku-client/pkg/heroku"
	"github.com/nats-io/nats.go"
)

// Static errors for err113 compliance.
var (
	ErrRemoteTransport = errors.New("relay: remote transport failed")
	ErrConnRequired    = errors.New("relay: NATS connection is required")
)

const (
	errorKindConfiguration = "configuration"
	errorKindTransport     = "transport"

	causeNoHost = "no_host"
)

// envelope is the wire form of a request.
type envelope struct {
	Method  string      `json:"method"`
	URI     string      `json:"uri"`
	Headers http.Header `json:"headers,omitempty"`
	Body    []byte      `json:"body,omitempty"`
}

// reply is the wire form of a response or failure.
type reply struct {
	StatusCode int         `json:"status_code,omitempty"`
	Headers    http.Header `json:"headers,omitempty"`
	Body       []byte      `json:"body,omitempty"`
	ErrorKind  string      `json:"error_kind,omitempty"`
	Error      string      `json:"error,omitempty"`
	Scheme     string      `json:"scheme,omitempty"`
	Cause      string      `json:"cause,omitempty"`
}

// EncodeRequest serialises req for publishing.
func EncodeRequest(req *heroku.Request) ([]byte, error) {
	data, err := json.Marshal(envelope{
		Method:  req.Method,
		URI:     req.URI,
		Headers: req.Headers,
		Body:    req.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode relay request: %w", err)
	}

	return data, nil
}

// DecodeRequest is the inverse of EncodeRequest.
func DecodeRequest(data []byte) (*heroku.Request, error) {
	var env envelope

	err := json.Unmarshal(data, &env)
	if err != nil {
		return nil, fmt.Errorf("failed to decode relay request: %w", err)
	}

	return &heroku.Request{
		Method:  env.Method,
		URI:     env.URI,
		Headers: env.Headers,
		Body:    env.Body,
	}, nil
}

// EncodeReply serialises the outcome of a Send call. Configuration errors
// keep their kind so the caller sees the same error type it would locally.
func EncodeReply(raw *heroku.RawResponse, sendErr error) ([]byte, error) {
	var out reply

	switch {
	case sendErr != nil:
		out.ErrorKind = errorKindTransport
		out.Error = sendErr.Error()

		configErr := &heroku.ConfigurationError{}
		if errors.As(sendErr, &configErr) {
			out.ErrorKind = errorKindConfiguration
			out.Scheme = configErr.Scheme

			if errors.Is(sendErr, heroku.ErrNoHostInURI) {
				out.Cause = causeNoHost
			}
		}
	case raw != nil:
		out.StatusCode = raw.StatusCode
		out.Headers = raw.Headers
		out.Body = raw.Body
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode relay reply: %w", err)
	}

	return data, nil
}

// DecodeReply turns a reply back into a RawResponse or a typed error.
func DecodeReply(req *heroku.Request, data []byte) (*heroku.RawResponse, error) {
	var in reply

	err := json.Unmarshal(data, &in)
	if err != nil {
		return nil, &heroku.TransportError{Method: req.Method, URI: req.URI, Err: fmt.Errorf("failed to decode relay reply: %w", err)}
	}

	switch in.ErrorKind {
	case "":
		return &heroku.RawResponse{
			StatusCode: in.StatusCode,
			Headers:    in.Headers,
			Body:       in.Body,
		}, nil
	case errorKindConfiguration:
		cause := heroku.ErrUnsupportedScheme
		if in.Cause == causeNoHost {
			cause = heroku.ErrNoHostInURI
		}

		return nil, &heroku.ConfigurationError{URI: req.URI, Scheme: in.Scheme, Err: cause}
	default:
		return nil, &heroku.TransportError{
			Method: req.Method,
			URI:    req.URI,
			Err:    fmt.Errorf("%w: %s", ErrRemoteTransport, in.Error),
		}
	}
}

var _ heroku.Transport = (*Transport)(nil)

// Transport sends requests to a relay Server over NATS.
type Transport struct {
	conn    *nats.Conn
	subject string
}

// NewTransport creates a Transport publishing on subject. An empty subject
// uses the default.
func NewTransport(conn *nats.Conn, subject string) (*Transport, error) {
	if conn == nil {
		return nil, ErrConnRequired
	}

	if subject == "" {
		subject = constants.DefaultRelaySubject
	}

	return &Transport{conn: conn, subject: subject}, nil
}

// Send implements heroku.Transport. The context bounds the wait for a reply.
func (t *Transport) Send(ctx context.Context, req *heroku.Request) (*heroku.RawResponse, error) {
	data, err := EncodeRequest(req)
	if err != nil {
		return nil, &heroku.TransportError{Method: req.Method, URI: req.URI, Err: err}
	}

	msg, err := t.conn.RequestWithContext(ctx, t.subject, data)
	if err != nil {
		return nil, &heroku.TransportError{Method: req.Method, URI: req.URI, Err: err}
	}

	return DecodeReply(req, msg.Data)
}
