package commands

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/fivetwenty-io/heroku-client/internal/constants"
	"github.com/fivetwenty-io/heroku-client/pkg/heroku"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newAccountServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		hits.Add(1)
		assert.Equal(t, "GET", request.Method)
		assert.Equal(t, "/account", request.URL.Path)
		assert.Equal(t, "Basic OmFzZGY=", request.Header.Get("Authorization"))

		writer.WriteHeader(status)
		_, _ = writer.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server, &hits
}

func useConfigFile(t *testing.T) string {
	t.Helper()

	configFile := filepath.Join(t.TempDir(), "config.yml")
	viper.SetConfigFile(configFile)

	return configFile
}

func readSavedConfig(t *testing.T, configFile string) *Config {
	t.Helper()

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)

	var saved Config
	require.NoError(t, yaml.Unmarshal(data, &saved))

	return &saved
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestLoginCommand_Execute(t *testing.T) {
	t.Run("verifies and saves the key", func(t *testing.T) {
		server, hits := newAccountServer(t, http.StatusOK, `{"email":"u@example.com"}`)
		withViper(t, map[string]interface{}{
			"api_key": "asdf",
			"api_url": server.URL,
			"output":  "table",
		})
		configFile := useConfigFile(t)

		out, err := execute(t, NewLoginCommand())
		require.NoError(t, err)
		assert.Equal(t, "Logged in as u@example.com\n", out)
		assert.Equal(t, int32(1), hits.Load())

		info, err := os.Stat(configFile)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(constants.ConfigFilePerm), info.Mode().Perm())

		saved := readSavedConfig(t, configFile)
		assert.Equal(t, "asdf", saved.APIKey)
		assert.Empty(t, saved.APIURL, "flag values stay out of the file")
		assert.Empty(t, saved.Output)
	})

	t.Run("skip verify does not contact the API", func(t *testing.T) {
		server, hits := newAccountServer(t, http.StatusOK, `{}`)
		withViper(t, map[string]interface{}{"api_key": "asdf", "api_url": server.URL})
		configFile := useConfigFile(t)

		out, err := execute(t, NewLoginCommand(), "--skip-verify")
		require.NoError(t, err)
		assert.Equal(t, "Logged in as N/A\n", out)
		assert.Equal(t, int32(0), hits.Load())
		assert.Equal(t, "asdf", readSavedConfig(t, configFile).APIKey)
	})

	t.Run("keeps other stored values", func(t *testing.T) {
		withViper(t, map[string]interface{}{"api_key": "asdf"})
		configFile := useConfigFile(t)
		require.NoError(t, os.WriteFile(configFile, []byte("relay_url: nats://localhost:4222\napi_key: old\n"), 0o600))

		_, err := execute(t, NewLoginCommand(), "--skip-verify")
		require.NoError(t, err)

		saved := readSavedConfig(t, configFile)
		assert.Equal(t, "asdf", saved.APIKey)
		assert.Equal(t, "nats://localhost:4222", saved.RelayURL)
	})

	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "422 is a client error",
			status: http.StatusUnprocessableEntity,
			body:   `{"id":"invalid_params"}`,
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.True(t, heroku.IsClientError(err))
			},
		},
		{
			name:   "401 with a text body is a decode error",
			status: http.StatusUnauthorized,
			body:   "Unauthorized",
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.True(t, heroku.IsDecodeError(err))
			},
		},
		{
			name:   "401 with a JSON body is rejected",
			status: http.StatusUnauthorized,
			body:   `{"id":"unauthorized","message":"Invalid credentials provided."}`,
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.ErrorIs(t, err, constants.ErrAPIKeyRejected)
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			server, _ := newAccountServer(t, testCase.status, testCase.body)
			withViper(t, map[string]interface{}{"api_key": "asdf", "api_url": server.URL})
			configFile := useConfigFile(t)

			_, err := execute(t, NewLoginCommand())
			require.Error(t, err)
			testCase.check(t, err)

			_, statErr := os.Stat(configFile)
			assert.True(t, os.IsNotExist(statErr), "nothing is saved when the key fails")
		})
	}
}

func TestLoginCommand_GlobalAPIKeyFlag(t *testing.T) {
	withViper(t, nil)
	configFile := useConfigFile(t)

	root := &cobra.Command{Use: "heroku"}
	root.PersistentFlags().StringP("api-key", "k", "", "Heroku API key")
	require.NoError(t, viper.BindPFlag("api_key", root.PersistentFlags().Lookup("api-key")))
	root.AddCommand(NewLoginCommand())

	_, err := execute(t, root, "login", "-k", "asdf", "--skip-verify")
	require.NoError(t, err)
	assert.Equal(t, "asdf", readSavedConfig(t, configFile).APIKey)
}
