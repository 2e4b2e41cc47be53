package client

import (
	"encoding/base64"
	"net/http"

	"github.com/fivetwenty-io/heroku-client/internal/constants"
	"github.com/fivetwenty-io/heroku-client/pkg/heroku"
)

var _ heroku.Authenticator = (*BasicAuthenticator)(nil)

// BasicAuthenticator sends the API key as the password of a Basic
// credential with an empty username.
type BasicAuthenticator struct {
	value string
}

// NewBasicAuthenticator precomputes the Authorization value for apiKey.
func NewBasicAuthenticator(apiKey string) *BasicAuthenticator {
	encoded := base64.StdEncoding.EncodeToString([]byte(":" + apiKey))

	return &BasicAuthenticator{value: constants.BasicAuthPrefix + encoded}
}

// Authenticate returns the Authorization header.
func (a *BasicAuthenticator) Authenticate() http.Header {
	headers := make(http.Header, 1)
	headers.Set(constants.HeaderAuthorization, a.value)

	return headers
}
