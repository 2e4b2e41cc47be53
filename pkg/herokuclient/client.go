// Package herokuclient provides the main entry point for creating Heroku API clients
package herokuclient

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/heroku-client/internal/client"
	"github.com/fivetwenty-io/heroku-client/internal/constants"
	herokuhttp "github.com/fivetwenty-io/heroku-client/internal/http"
	"github.com/fivetwenty-io/heroku-client/pkg/heroku"
)

// Client holds one authenticated client per Heroku endpoint. Both share the
// API key and, when one is configured, the transport.
type Client struct {
	// API talks to the platform API.
	API heroku.APIClient
	// PostgresAPI talks to the data API.
	PostgresAPI heroku.APIClient
}

// New creates a new Heroku API client.
func New(config *heroku.Config) (*Client, error) {
	if config == nil {
		return nil, heroku.ErrConfigRequired
	}

	if config.APIKey == "" {
		return nil, heroku.ErrAPIKeyRequired
	}

	apiBase, err := normalizeBaseURI(config.APIBaseURI, constants.DefaultAPIBaseURI)
	if err != nil {
		return nil, err
	}

	postgresBase, err := normalizeBaseURI(config.PostgresBaseURI, constants.DefaultPostgresBaseURI)
	if err != nil {
		return nil, err
	}

	api, err := newEndpointClient(config, apiBase)
	if err != nil {
		return nil, err
	}

	postgresAPI, err := newEndpointClient(config, postgresBase)
	if err != nil {
		return nil, err
	}

	return &Client{
		API:         api,
		PostgresAPI: postgresAPI,
	}, nil
}

// NewWithAPIKey creates a client for the public endpoints.
func NewWithAPIKey(apiKey string) (*Client, error) {
	return New(&heroku.Config{APIKey: apiKey})
}

// NewWithTransport creates a client whose requests go through transport.
func NewWithTransport(apiKey string, transport heroku.Transport) (*Client, error) {
	return New(&heroku.Config{APIKey: apiKey, Transport: transport})
}

// Endpoint returns the client registered under name ("api" or "postgres").
func (c *Client) Endpoint(name string) (heroku.APIClient, error) {
	switch name {
	case constants.EndpointAPI, "":
		return c.API, nil
	case constants.EndpointPostgres:
		return c.PostgresAPI, nil
	default:
		return nil, fmt.Errorf("%w: %q", heroku.ErrUnknownEndpoint, name)
	}
}

func newEndpointClient(config *heroku.Config, baseURI string) (heroku.APIClient, error) {
	transport := config.Transport
	if transport == nil {
		transport = herokuhttp.NewDispatcher(
			herokuhttp.WithLogger(config.Logger),
			herokuhttp.WithDebug(config.Debug),
			herokuhttp.WithTimeout(config.HTTPTimeout),
			herokuhttp.WithUserAgent(config.UserAgent),
		)
	}

	apiClient, err := client.New(
		heroku.ClientConfig{BaseURI: baseURI, APIKey: config.APIKey},
		client.WithTransport(transport),
		client.WithLogger(config.Logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create client for %s: %w", baseURI, err)
	}

	return apiClient, nil
}

// normalizeBaseURI trims a trailing slash and rejects schemes other than
// http and https.
func normalizeBaseURI(baseURI, fallback string) (string, error) {
	if baseURI == "" {
		return fallback, nil
	}

	baseURI = strings.TrimSuffix(baseURI, "/")

	_, err := herokuhttp.ParseTarget(baseURI)
	if err != nil {
		return "", err
	}

	return baseURI, nil
}
