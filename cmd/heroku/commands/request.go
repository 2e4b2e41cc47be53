package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/heroku-client/internal/constants"
	"github.com/spf13/cobra"
)

// RequestResult is what the request command prints.
type RequestResult struct {
	StatusCode int                 `json:"status_code" yaml:"status_code"`
	Headers    map[string][]string `json:"headers"     yaml:"headers"`
	Body       interface{}         `json:"body"        yaml:"body"`
}

// NewRequestCommand creates the request command.
func NewRequestCommand() *cobra.Command {
	var (
		data     string
		dataFile string
		headers  []string
		postgres bool
	)

	cmd := &cobra.Command{
		Use:   "request METHOD PATH",
		Short: "Send an API request",
		Long:  "Send an authenticated request to the platform API (or the Postgres API with --postgres) and print the decoded response",
		Example: `  heroku request GET /apps
  heroku request POST /apps -d '{"name":"example"}'
  heroku request GET /client/v11/databases/DATABASE_ID --postgres`,
		Args: cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := requestBody(data, dataFile)
			if err != nil {
				return err
			}

			parsedHeaders, err := parseHeaders(headers)
			if err != nil {
				return err
			}

			format, err := outputFormat()
			if err != nil {
				return err
			}

			endpoint := constants.EndpointAPI
			if postgres {
				endpoint = constants.EndpointPostgres
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			result, err := sendRequest(ctx, loadConfig(), endpoint, strings.ToUpper(args[0]), args[1], parsedHeaders, body)
			if err != nil {
				return err
			}

			return writeResult(cmd.OutOrStdout(), format, result)
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "request body")
	cmd.Flags().StringVar(&dataFile, "data-file", "", "read the request body from a file")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "extra header as 'Name: value' (repeatable)")
	cmd.Flags().BoolVar(&postgres, "postgres", false, "send to the Postgres API")

	return cmd
}

func sendRequest(ctx context.Context, config *Config, endpoint, method, path string, headers map[string]string, body []byte) (*RequestResult, error) {
	client, cleanup, err := CreateClient(config, newLogger(nil))
	if err != nil {
		return nil, err
	}
	defer cleanup()

	apiClient, err := client.Endpoint(endpoint)
	if err != nil {
		return nil, err
	}

	resp, err := apiClient.Request(ctx, method, normalizePath(path), headers, body)
	if err != nil {
		return nil, err
	}

	return &RequestResult{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}, nil
}

func writeResult(w io.Writer, format string, result *RequestResult) error {
	written, err := writeStructured(w, format, result)
	if written || err != nil {
		return err
	}

	rows := [][]string{{"Status", strconv.Itoa(result.StatusCode)}}
	rows = append(rows, headerRows("Header ", result.Headers)...)

	err = renderPropertyTable(w, rows)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(result.Body, "", strings.Repeat(" ", defaultJSONIndent))
	if err != nil {
		return fmt.Errorf("failed to encode body: %w", err)
	}

	_, err = fmt.Fprintln(w, string(encoded))

	return err
}

func normalizePath(path string) string {
	if path == "" || strings.HasPrefix(path, "/") {
		return path
	}

	return "/" + path
}

func requestBody(data, dataFile string) ([]byte, error) {
	if data != "" && dataFile != "" {
		return nil, constants.ErrBodyFileConflict
	}

	if dataFile == "" {
		if data == "" {
			return nil, nil
		}

		return []byte(data), nil
	}

	content, err := os.ReadFile(filepath.Clean(dataFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dataFile, err)
	}

	return content, nil
}

// parseHeaders turns "Name: value" strings into a header map.
func parseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	headers := make(map[string]string, len(raw))

	for _, header := range raw {
		name, value, found := strings.Cut(header, ":")
		name = strings.TrimSpace(name)

		if !found || name == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidHeader, header)
		}

		headers[name] = strings.TrimSpace(value)
	}

	return headers, nil
}
