package relay

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/heroku-client/internal/constants"
	"github.com/fivetwenty-io/heroku-client/pkg/heroku"
	"github.com/nats-io/nats.go"
)

// Server answers relay requests using a local Transport.
type Server struct {
	conn      *nats.Conn
	subject   string
	queue     string
	transport heroku.Transport
	logger    heroku.Logger
}

// NewServer creates a Server. Empty subject and queue use the defaults.
func NewServer(conn *nats.Conn, transport heroku.Transport, subject, queue string, logger heroku.Logger) (*Server, error) {
	if conn == nil {
		return nil, ErrConnRequired
	}

	if subject == "" {
		subject = constants.DefaultRelaySubject
	}

	if queue == "" {
		queue = constants.DefaultRelayQueue
	}

	if logger == nil {
		logger = heroku.NoopLogger{}
	}

	return &Server{
		conn:      conn,
		subject:   subject,
		queue:     queue,
		transport: transport,
		logger:    logger,
	}, nil
}

// Serve handles requests until ctx is cancelled, then drains the subscription.
func (s *Server) Serve(ctx context.Context) error {
	sub, err := s.conn.QueueSubscribe(s.subject, s.queue, func(msg *nats.Msg) {
		s.handle(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", s.subject, err)
	}

	s.logger.Info("relay listening", map[string]interface{}{
		"subject": s.subject,
		"queue":   s.queue,
	})

	<-ctx.Done()

	err = sub.Drain()
	if err != nil {
		return fmt.Errorf("failed to drain subscription: %w", err)
	}

	return nil
}

func (s *Server) handle(ctx context.Context, msg *nats.Msg) {
	raw, sendErr := s.process(ctx, msg.Data)

	data, err := EncodeReply(raw, sendErr)
	if err != nil {
		s.logger.Error("failed to encode relay reply", map[string]interface{}{"error": err.Error()})

		return
	}

	err = msg.Respond(data)
	if err != nil {
		s.logger.Error("failed to respond to relay request", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Server) process(ctx context.Context, data []byte) (*heroku.RawResponse, error) {
	req, err := DecodeRequest(data)
	if err != nil {
		return nil, err
	}

	raw, err := s.transport.Send(ctx, req)
	if err != nil {
		s.logger.Warn("relayed request failed", map[string]interface{}{
			"method": req.Method,
			"uri":    req.URI,
			"error":  err.Error(),
		})

		return nil, err
	}

	s.logger.Debug("relayed request", map[string]interface{}{
		"method":      req.Method,
		"uri":         req.URI,
		"status_code": raw.StatusCode,
	})

	return raw, nil
}
