package herokuclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/fivetwenty-io/heroku-client/pkg/heroku"
	"github.com/fivetwenty-io/heroku-client/pkg/herokuclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires config", func(t *testing.T) {
		t.Parallel()

		_, err := herokuclient.New(nil)
		require.ErrorIs(t, err, heroku.ErrConfigRequired)
	})

	t.Run("requires API key", func(t *testing.T) {
		t.Parallel()

		_, err := herokuclient.New(&heroku.Config{})
		require.ErrorIs(t, err, heroku.ErrAPIKeyRequired)
	})

	t.Run("uses the public endpoints by default", func(t *testing.T) {
		t.Parallel()

		client, err := herokuclient.NewWithAPIKey("asdf")
		require.NoError(t, err)
		assert.Equal(t, "https://api.heroku.com", client.API.BaseURI())
		assert.Equal(t, "https://postgres-api.heroku.com", client.PostgresAPI.BaseURI())
	})

	t.Run("trims trailing slash from overrides", func(t *testing.T) {
		t.Parallel()

		client, err := herokuclient.New(&heroku.Config{APIKey: "asdf", APIBaseURI: "http://localhost:5000/"})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:5000", client.API.BaseURI())
		assert.Equal(t, "https://postgres-api.heroku.com", client.PostgresAPI.BaseURI())
	})

	t.Run("rejects unsupported schemes at construction", func(t *testing.T) {
		t.Parallel()

		_, err := herokuclient.New(&heroku.Config{APIKey: "asdf", PostgresBaseURI: "ftp://postgres-api.heroku.com"})
		require.Error(t, err)
		assert.True(t, heroku.IsConfigurationError(err))
		assert.ErrorIs(t, err, heroku.ErrUnsupportedScheme)
	})
}

func TestNewWithTransport_SharedByBothEndpoints(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		uris []string
	)

	transport := heroku.TransportFunc(func(ctx context.Context, req *heroku.Request) (*heroku.RawResponse, error) {
		mu.Lock()
		defer mu.Unlock()

		uris = append(uris, req.URI)
		assert.Equal(t, "Basic OmFzZGY=", req.Headers.Get("Authorization"))

		return &heroku.RawResponse{StatusCode: 200, Body: []byte(`{"ok":true}`)}, nil
	})

	client, err := herokuclient.NewWithTransport("asdf", transport)
	require.NoError(t, err)

	resp, err := client.API.Get(context.Background(), "/apps")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ok": true}, resp.Body)

	_, err = client.PostgresAPI.Get(context.Background(), "/client/v11/databases/db-1")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://api.heroku.com/apps",
		"https://postgres-api.heroku.com/client/v11/databases/db-1",
	}, uris)
}

func TestClient_Endpoint(t *testing.T) {
	t.Parallel()

	client, err := herokuclient.NewWithAPIKey("asdf")
	require.NoError(t, err)

	api, err := client.Endpoint("api")
	require.NoError(t, err)
	assert.Same(t, client.API, api)

	postgres, err := client.Endpoint("postgres")
	require.NoError(t, err)
	assert.Same(t, client.PostgresAPI, postgres)

	_, err = client.Endpoint("dynos")
	require.ErrorIs(t, err, heroku.ErrUnknownEndpoint)
}

func TestClientIntegration(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/account":
			_, _ = writer.Write([]byte(`{"email":"user@example.com"}`))
		case "/apps":
			writer.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = writer.Write([]byte(`{"id":"invalid_params","message":"Name is already taken."}`))
		case "/throttled":
			writer.WriteHeader(http.StatusTooManyRequests)
			_, _ = writer.Write([]byte(`{"id":"rate_limit","message":"Your account reached the API rate limit"}`))
		default:
			writer.WriteHeader(http.StatusServiceUnavailable)
			_, _ = writer.Write([]byte(`{"id":"unavailable"}`))
		}
	}))
	defer server.Close()

	client, err := herokuclient.New(&heroku.Config{APIKey: "asdf", APIBaseURI: server.URL})
	require.NoError(t, err)

	ctx := context.Background()

	resp, err := client.API.Get(ctx, "/account")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	_, err = client.API.Post(ctx, "/apps", map[string]string{"name": "taken"})
	assert.True(t, heroku.IsClientError(err))

	_, err = client.API.Get(ctx, "/throttled")
	assert.True(t, heroku.IsRateLimited(err))

	resp, err = client.API.Get(ctx, "/other")
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
	assert.Equal(t, map[string]any{"id": "unavailable"}, resp.Body)
}
