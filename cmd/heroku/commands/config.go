package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fivetwenty-io/heroku-client/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ConfigDirName is the directory under $HOME holding config.yml.
const ConfigDirName = ".heroku-client"

// Config represents the CLI configuration.
type Config struct {
	APIKey       string `json:"api_key,omitempty"       yaml:"api_key,omitempty"`
	APIURL       string `json:"api_url,omitempty"       yaml:"api_url,omitempty"`
	PostgresURL  string `json:"postgres_url,omitempty"  yaml:"postgres_url,omitempty"`
	Output       string `json:"output,omitempty"        yaml:"output,omitempty"`
	LogLevel     string `json:"log_level,omitempty"     yaml:"log_level,omitempty"`
	RelayURL     string `json:"relay_url,omitempty"     yaml:"relay_url,omitempty"`
	RelaySubject string `json:"relay_subject,omitempty" yaml:"relay_subject,omitempty"`
}

// configKeys maps settable keys to their fields.
var configKeys = map[string]func(*Config) *string{
	"api_key":       func(c *Config) *string { return &c.APIKey },
	"api_url":       func(c *Config) *string { return &c.APIURL },
	"postgres_url":  func(c *Config) *string { return &c.PostgresURL },
	"output":        func(c *Config) *string { return &c.Output },
	"log_level":     func(c *Config) *string { return &c.LogLevel },
	"relay_url":     func(c *Config) *string { return &c.RelayURL },
	"relay_subject": func(c *Config) *string { return &c.RelaySubject },
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the Heroku CLI configuration",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration with the API key masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.APIKey = maskSecret(config.APIKey)

			format, err := outputFormat()
			if err != nil {
				return err
			}

			written, err := writeStructured(cmd.OutOrStdout(), format, config)
			if written || err != nil {
				return err
			}

			return renderPropertyTable(cmd.OutOrStdout(), configRows(config))
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a value in the config file, leaving its other values unchanged",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := readConfigFile()
			if err != nil {
				return err
			}

			err = setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := readConfigFile()
			if err != nil {
				return err
			}

			err = setConfigValue(config, args[0], "")
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

func setConfigValue(config *Config, key, value string) error {
	field, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("%w: %q", constants.ErrUnknownConfigKey, key)
	}

	if key == "output" && value != "" {
		switch value {
		case constants.FormatJSON, constants.FormatYAML, constants.FormatTable:
		default:
			return fmt.Errorf("%w: %q", constants.ErrInvalidOutput, value)
		}
	}

	*field(config) = value

	return nil
}

func configRows(config *Config) [][]string {
	orNA := func(value string) string {
		if value == "" {
			return constants.NotAvailable
		}

		return value
	}

	return [][]string{
		{"API Key", config.APIKey},
		{"API URL", orNA(config.APIURL)},
		{"Postgres URL", orNA(config.PostgresURL)},
		{"Output", orNA(config.Output)},
		{"Log Level", orNA(config.LogLevel)},
		{"Relay URL", orNA(config.RelayURL)},
		{"Relay Subject", orNA(config.RelaySubject)},
	}
}

// loadConfig reads the effective configuration from viper (flags, HEROKU_*
// environment, .env and the config file).
func loadConfig() *Config {
	return &Config{
		APIKey:       viper.GetString("api_key"),
		APIURL:       viper.GetString("api_url"),
		PostgresURL:  viper.GetString("postgres_url"),
		Output:       viper.GetString("output"),
		LogLevel:     viper.GetString("log_level"),
		RelayURL:     viper.GetString("relay_url"),
		RelaySubject: viper.GetString("relay_subject"),
	}
}

// configFilePath returns the file in use, or the default location.
func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ConfigDirName, "config.yml"), nil
}

// readConfigFile reads only what is stored in the config file, so saving it
// back does not persist values that came from flags or the environment.
func readConfigFile() (*Config, error) {
	configFile, err := configFilePath()
	if err != nil {
		return nil, err
	}

	config := &Config{}

	data, err := os.ReadFile(filepath.Clean(configFile))
	if os.IsNotExist(err) {
		return config, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
