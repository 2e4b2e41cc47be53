package client

import (
	"net/http"

	"github.com/fivetwenty-io/heroku-client/internal/constants"
	"github.com/fivetwenty-io/heroku-client/pkg/heroku"
)

var _ heroku.HeaderProvider = VendorHeaders{}

// VendorHeaders are the fixed headers the platform API requires.
type VendorHeaders struct{}

// Headers returns a fresh header set on every call.
func (VendorHeaders) Headers() http.Header {
	headers := make(http.Header, 2)
	headers.Set(constants.HeaderAccept, constants.AcceptHerokuV3)
	headers.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	return headers
}
