package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Heroku endpoints.
const (
	// DefaultAPIBaseURI is the platform API.
	DefaultAPIBaseURI = "https://api.heroku.com"

	// DefaultPostgresBaseURI is the data (Postgres) API.
	DefaultPostgresBaseURI = "https://postgres-api.heroku.com"

	// EndpointAPI names the platform API endpoint.
	EndpointAPI = "api"

	// EndpointPostgres names the data API endpoint.
	EndpointPostgres = "postgres"
)

// URI schemes the dispatcher accepts.
const (
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
)

// Header names and values.
const (
	HeaderAccept        = "Accept"
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderUserAgent     = "User-Agent"

	// AcceptHerokuV3 selects version 3 of the platform API.
	AcceptHerokuV3 = "application/vnd.heroku+json; version=3"

	// ContentTypeJSON is sent on every request.
	ContentTypeJSON = "application/json"

	// BasicAuthPrefix precedes the encoded credential.
	BasicAuthPrefix = "Basic "

	// DefaultUserAgent identifies this client.
	DefaultUserAgent = "heroku-client-go"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout used by the CLI.
	DefaultHTTPTimeout = 30 * time.Second
)

// Relay defaults.
const (
	// DefaultRelaySubject is the NATS subject requests are published on.
	DefaultRelaySubject = "heroku.requests"

	// DefaultRelayQueue is the queue group relay servers join.
	DefaultRelayQueue = "heroku-relay"

	// RelayDrainTimeout bounds how long a relay server drains on shutdown.
	RelayDrainTimeout = 5 * time.Second
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)

// Validation and limits.
const (
	// MinimumArgumentCount is the minimum number of command line arguments.
	MinimumArgumentCount = 2

	// StringTruncationLimit is the number of characters of a secret left visible.
	StringTruncationLimit = 4
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// Masked replaces secrets in output.
	Masked = "***"
)
