// Package herokuclient provides the primary entry point for constructing a
// Heroku Platform API client.
//
// A Client holds two authenticated endpoint clients built from one API key:
// API for https://api.heroku.com and PostgresAPI for
// https://postgres-api.heroku.com. Each sends the version 3 Accept header,
// a JSON Content-Type and a Basic Authorization header, and interprets the
// response: 422 and 429 become ClientError and RateLimitError, everything
// else is decoded from JSON and returned with its status code.
//
// Quick start
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
//
//	  cli, err := herokuclient.NewWithAPIKey(os.Getenv("HEROKU_API_KEY"))
//	  if err != nil { log.Fatal(err) }
//
//	  resp, err := cli.API.Get(ctx, "/account")
//	  if err != nil { log.Fatal(err) }
//
//	  var account struct{ Email string `json:"email"` }
//	  if err := resp.Unmarshal(&account); err != nil { log.Fatal(err) }
//	}
//
// # Transports
//
// Every request is sent on a fresh connection and nothing is retried. To
// route requests elsewhere, or to test without a network, pass a
// heroku.Transport through Config.Transport or NewWithTransport; it is shared
// by both endpoints.
package herokuclient
