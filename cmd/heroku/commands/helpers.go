package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fivetwenty-io/heroku-client/internal/constants"
	"github.com/fivetwenty-io/heroku-client/internal/logging"
	"github.com/fivetwenty-io/heroku-client/internal/relay"
	"github.com/fivetwenty-io/heroku-client/pkg/heroku"
	"github.com/fivetwenty-io/heroku-client/pkg/herokuclient"
	"github.com/nats-io/nats.go"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// JSON formatting.
const defaultJSONIndent = 2

// outputFormat returns the configured output format.
func outputFormat() (string, error) {
	format := strings.ToLower(viper.GetString("output"))

	switch format {
	case "":
		return constants.FormatTable, nil
	case constants.FormatJSON, constants.FormatYAML, constants.FormatTable:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q", constants.ErrInvalidOutput, format)
	}
}

// writeStructured encodes value as JSON or YAML. It reports false for the
// table format so the caller can render its own table.
func writeStructured(w io.Writer, format string, value interface{}) (bool, error) {
	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", strings.Repeat(" ", defaultJSONIndent))

		return true, encoder.Encode(value)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(w)
		defer func() { _ = encoder.Close() }()

		return true, encoder.Encode(value)
	default:
		return false, nil
	}
}

// renderPropertyTable writes a two column property table.
func renderPropertyTable(w io.Writer, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")

	for _, row := range rows {
		_ = table.Append(row)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// headerRows flattens headers into sorted table rows.
func headerRows(prefix string, headers map[string][]string) [][]string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}

	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{prefix + name, strings.Join(headers[name], ", ")})
	}

	return rows
}

// maskSecret keeps the last few characters of a secret visible.
func maskSecret(secret string) string {
	if secret == "" {
		return constants.NotAvailable
	}

	if len(secret) <= constants.StringTruncationLimit {
		return constants.Masked
	}

	return constants.Masked + secret[len(secret)-constants.StringTruncationLimit:]
}

// newLogger builds the CLI logger from the configured level. --verbose
// forces debug.
func newLogger(w io.Writer) *logging.Logger {
	level := viper.GetString("log_level")
	if viper.GetBool("verbose") {
		level = "debug"
	}

	return logging.New(w, level)
}

// clientConfig builds a heroku.Config from the loaded CLI configuration.
func clientConfig(config *Config, logger heroku.Logger) (*heroku.Config, error) {
	if config.APIKey == "" {
		return nil, constants.ErrNoAPIKey
	}

	return &heroku.Config{
		APIKey:          config.APIKey,
		APIBaseURI:      config.APIURL,
		PostgresBaseURI: config.PostgresURL,
		Logger:          logger,
		Debug:           viper.GetBool("verbose"),
		HTTPTimeout:     constants.DefaultHTTPTimeout,
	}, nil
}

// CreateClient creates a Heroku client from the CLI configuration. When a
// relay URL is configured requests go through NATS instead of the network;
// the returned cleanup closes that connection.
func CreateClient(config *Config, logger heroku.Logger) (*herokuclient.Client, func(), error) {
	clientCfg, err := clientConfig(config, logger)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}

	if config.RelayURL != "" {
		conn, err := nats.Connect(config.RelayURL, nats.Name(constants.DefaultUserAgent))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to relay: %w", err)
		}

		transport, err := relay.NewTransport(conn, config.RelaySubject)
		if err != nil {
			conn.Close()

			return nil, nil, fmt.Errorf("failed to create relay transport: %w", err)
		}

		clientCfg.Transport = transport
		cleanup = conn.Close
	}

	client, err := herokuclient.New(clientCfg)
	if err != nil {
		cleanup()

		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, cleanup, nil
}
