// Package heroku provides the types, interfaces and errors shared by the
// Heroku Platform API client.
//
// # Overview
//
// The package defines the request pipeline contracts: a Transport sends a
// Request and returns a RawResponse; a ResponseDecoder turns the RawResponse
// into a Response or a typed error. HeaderProvider and Authenticator supply
// the vendor and credential headers. A concrete implementation lives in the
// herokuclient package, which wires the default dispatcher, the vendor
// headers, Basic authentication and the response interpreter.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/heroku-client/pkg/herokuclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := herokuclient.NewWithAPIKey("01234567-89ab-cdef-0123-456789abcdef")
//	  if err != nil { log.Fatal(err) }
//
//	  resp, err := cli.API.Get(ctx, "/apps")
//	  if err != nil { log.Fatal(err) }
//	  _ = resp.Body
//	}
//
// # Errors
//
// Failures are reported as one of:
//
//   - ConfigurationError: the URI scheme is neither http nor https. Raised
//     before any network I/O.
//   - TransportError: the connection or read failed.
//   - ClientError: the API answered 422.
//   - RateLimitError: the API answered 429.
//   - DecodeError: the body is not valid UTF-8 or not valid JSON.
//
// Any other status, 5xx included, is returned as a Response. Helpers such as
// IsClientError, IsRateLimited and StatusCode make branching easy.
//
// # Testing
//
// Every client accepts a Transport. TransportFunc turns a closure into one,
// which is the simplest way to plug in a test double.
package heroku
