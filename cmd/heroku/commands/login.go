package commands

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"syscall"

	"github.com/fivetwenty-io/heroku-client/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// accountPath is fetched to check a key before saving it.
const accountPath = "/account"

// NewLoginCommand creates the login command. The key comes from the global
// --api-key flag or HEROKU_API_KEY, and is prompted for otherwise.
func NewLoginCommand() *cobra.Command {
	var skipVerify bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save a Heroku API key",
		Long:  "Prompt for a Heroku API key, check it against the platform API and save it to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKey := viper.GetString("api_key")
			if apiKey == "" {
				key, err := promptAPIKey(cmd)
				if err != nil {
					return err
				}

				apiKey = key
			}

			apiKey = strings.TrimSpace(apiKey)
			if apiKey == "" {
				return constants.ErrEmptyAPIKey
			}

			email := constants.NotAvailable

			if !skipVerify {
				effective := loadConfig()
				effective.APIKey = apiKey

				account, err := verifyAPIKey(cmd.Context(), effective)
				if err != nil {
					return err
				}

				if value, ok := account["email"].(string); ok {
					email = value
				}
			}

			stored, err := readConfigFile()
			if err != nil {
				return err
			}

			stored.APIKey = apiKey

			err = saveConfigStruct(stored)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", email)

			return nil
		},
	}

	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "save the key without checking it")

	return cmd
}

func promptAPIKey(cmd *cobra.Command) (string, error) {
	_, _ = fmt.Fprint(cmd.ErrOrStderr(), "API key: ")

	keyBytes, err := term.ReadPassword(int(syscall.Stdin))
	_, _ = fmt.Fprintln(cmd.ErrOrStderr())

	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}

	return string(keyBytes), nil
}

func verifyAPIKey(ctx context.Context, config *Config) (map[string]interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	client, cleanup, err := CreateClient(config, newLogger(nil))
	if err != nil {
		return nil, err
	}
	defer cleanup()

	resp, err := client.API.Get(ctx, accountPath)
	if err != nil {
		return nil, fmt.Errorf("failed to verify API key: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: status %d", constants.ErrAPIKeyRejected, resp.StatusCode)
	}

	var account map[string]interface{}

	err = resp.Unmarshal(&account)
	if err != nil {
		return nil, err
	}

	return account, nil
}
