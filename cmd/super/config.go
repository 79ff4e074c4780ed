package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/picatz/super/internal/history"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag names, which double as config file keys. The environment variable for
// each is SUPER_ followed by the upper-cased name with dashes replaced by
// underscores, e.g. SUPER_BASE_URL.
const (
	flagBaseURL     = "base-url"
	flagModel       = "model"
	flagAPIKey      = "api-key"
	flagConfig      = "config"
	flagEnvFile     = "env-file"
	flagVerbose     = "verbose"
	flagMarkdown    = "markdown"
	flagHistory     = "history"
	flagHistoryPath = "history-path"
	flagLimit       = "limit"
)

const usage = "Usage: super --base-url URL --model MODEL --api-key ENV_VAR"

// config is the resolved configuration of a single invocation.
type config struct {
	BaseURL string
	Model   string

	// APIKeyEnv is the name of the environment variable holding the credential.
	APIKeyEnv string

	EnvFile     string
	Verbose     bool
	Markdown    bool
	History     bool
	HistoryPath string
}

// loadConfig merges flags, SUPER_* environment variables and the config file,
// in that order of precedence.
func loadConfig(cmd *cobra.Command) (*config, error) {
	v := viper.New()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	v.SetEnvPrefix("SUPER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile := v.GetString(flagConfig); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(".super")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &config{
		BaseURL:     v.GetString(flagBaseURL),
		Model:       v.GetString(flagModel),
		APIKeyEnv:   v.GetString(flagAPIKey),
		EnvFile:     v.GetString(flagEnvFile),
		Verbose:     v.GetBool(flagVerbose),
		Markdown:    v.GetBool(flagMarkdown),
		History:     v.GetBool(flagHistory),
		HistoryPath: v.GetString(flagHistoryPath),
	}
	if cfg.HistoryPath == "" {
		cfg.HistoryPath = history.DefaultPath
	}

	return cfg, nil
}

// validate reports a usage error when any required argument is missing.
func (c *config) validate() error {
	if c.BaseURL == "" || c.Model == "" || c.APIKeyEnv == "" {
		return errors.New(usage)
	}
	return nil
}

// apiKey loads the env file, if any, and returns the credential named by
// APIKeyEnv. Variables already set in the environment win over the file.
func (c *config) apiKey() (string, error) {
	if c.EnvFile != "" {
		if err := godotenv.Load(c.EnvFile); err != nil {
			return "", fmt.Errorf("failed to load env file %s: %w", c.EnvFile, err)
		}
	}

	key := os.Getenv(c.APIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("%s environment variable not set", c.APIKeyEnv)
	}

	return key, nil
}
