package client

import (
	"encoding/json"
	"net/http"
	"unicode/utf8"

	"github.com/fivetwenty-io/heroku-client/pkg/heroku"
)

var _ heroku.ResponseDecoder = (*Interpreter)(nil)

// Interpreter classifies a RawResponse by status and decodes its JSON body.
//
// Only 422 and 429 become errors. Every other status, including other 4xx
// and 5xx codes, is decoded and returned; the caller inspects StatusCode.
type Interpreter struct {
	logger heroku.Logger
}

// NewInterpreter creates an Interpreter. A nil logger discards output.
func NewInterpreter(logger heroku.Logger) *Interpreter {
	if logger == nil {
		logger = heroku.NoopLogger{}
	}

	return &Interpreter{logger: logger}
}

// Decode implements heroku.ResponseDecoder.
func (i *Interpreter) Decode(raw *heroku.RawResponse) (*heroku.Response, error) {
	return TreatResponse(raw, i.logger)
}

// TreatResponse interprets raw. A 422 is logged at error level and returned
// as a ClientError; a 429 is logged at info level and returned as a
// RateLimitError. Bodies that are not UTF-8 or not JSON yield a DecodeError.
func TreatResponse(raw *heroku.RawResponse, logger heroku.Logger) (*heroku.Response, error) {
	if raw == nil {
		return nil, &heroku.DecodeError{Err: heroku.ErrNoResponse}
	}

	if logger == nil {
		logger = heroku.NoopLogger{}
	}

	if !utf8.Valid(raw.Body) {
		return nil, &heroku.DecodeError{StatusCode: raw.StatusCode, Body: raw.Body, Err: heroku.ErrInvalidUTF8}
	}

	decoded := string(raw.Body)

	switch raw.StatusCode {
	case http.StatusUnprocessableEntity:
		err := heroku.NewClientError(decoded)
		logger.Error(err.Message, map[string]interface{}{"status_code": err.StatusCode})

		return nil, err
	case http.StatusTooManyRequests:
		err := heroku.NewRateLimitError(decoded)
		logger.Info(err.Message, map[string]interface{}{"status_code": err.StatusCode})

		return nil, err
	}

	var body any

	err := json.Unmarshal(raw.Body, &body)
	if err != nil {
		return nil, &heroku.DecodeError{StatusCode: raw.StatusCode, Body: raw.Body, Err: err}
	}

	return &heroku.Response{
		StatusCode: raw.StatusCode,
		Headers:    raw.Headers,
		Body:       body,
		Raw:        raw.Body,
	}, nil
}
