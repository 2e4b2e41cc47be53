package constants

import "errors"

// Configuration errors.
var (
	ErrNoAPIKey         = errors.New("no API key configured, use 'heroku login' or set HEROKU_API_KEY")
	ErrEmptyAPIKey      = errors.New("API key must not be empty")
	ErrAPIKeyRejected   = errors.New("API key was rejected")
	ErrUnknownConfigKey = errors.New("unknown configuration key")
	ErrInvalidOutput    = errors.New("invalid output format")
	ErrInvalidHeader    = errors.New("invalid header, expected 'Name: value'")
	ErrRelayURLRequired = errors.New("NATS URL is required for the relay")
	ErrBodyFileConflict = errors.New("--data and --data-file are mutually exclusive")
)
