package config

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/eagraf/fnconsole/internal/constants"
	"github.com/rs/zerolog/log"
	viper "github.com/spf13/viper"
)

// CloneRepository holds the links offered by the clone dialog for one repository kind.
type CloneRepository struct {
	HTTPS       string `mapstructure:"https"`
	SSH         string `mapstructure:"ssh"`
	DownloadURL string `mapstructure:"download_url"`
}

var defaultCloneRepositories = map[string]interface{}{
	"functions": map[string]interface{}{
		"https":        "https://github.com/memphisdev/memphis-dev-functions.git",
		"ssh":          "git@github.com:memphisdev/memphis-dev-functions.git",
		"download_url": "https://github.com/memphisdev/memphis-dev-functions/archive/refs/heads/master.zip",
	},
}

func loadEnv() error {
	err := viper.BindEnv("fnconsole_path", "FNCONSOLE_PATH")
	if err != nil {
		return err
	}
	viper.SetDefault("fnconsole_path", "$HOME/.fnconsole")

	bindings := map[string]string{
		"api_url":         "FNCONSOLE_API_URL",
		"auth_token":      "FNCONSOLE_TOKEN",
		"log_level":       "FNCONSOLE_LOG_LEVEL",
		"request_timeout": "FNCONSOLE_REQUEST_TIMEOUT",
		"poll_interval":   "FNCONSOLE_POLL_INTERVAL",
	}
	for key, env := range bindings {
		err = viper.BindEnv(key, env)
		if err != nil {
			return err
		}
	}

	viper.SetDefault("api_url", constants.DefaultAPIURL)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("request_timeout", constants.DefaultRequestTimeout)
	viper.SetDefault("poll_interval", constants.DefaultPollInterval)
	viper.SetDefault("events_path", constants.EndpointFunctionEvents)
	viper.SetDefault("clone", defaultCloneRepositories)
	return nil
}

func loadConfig() (*Config, error) {
	viper.AddConfigPath("$HOME/.fnconsole")
	viper.AddConfigPath(viper.GetString("fnconsole_path"))

	viper.SetConfigType("yml")
	viper.SetConfigName("fnconsole")

	// The config file is optional, everything has a default or an env binding.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		log.Debug().Msgf("No config file found, using defaults and environment")
	}

	var config Config
	err := viper.UnmarshalKey("clone", &config.cloneRepositories)
	if err != nil {
		return nil, err
	}

	log.Debug().Msgf("Loaded console config from %s", viper.ConfigFileUsed())

	return &config, nil
}

func NewConfig() (*Config, error) {
	err := loadEnv()
	if err != nil {
		return nil, err
	}
	return loadConfig()
}

type Config struct {
	cloneRepositories map[string]CloneRepository
}

func (c *Config) ConsolePath() string {
	return viper.GetString("fnconsole_path")
}

func (c *Config) ConfigFilePath() string {
	return filepath.Join(c.ConsolePath(), "fnconsole.yml")
}

func (c *Config) APIURL() string {
	return viper.GetString("api_url")
}

func (c *Config) AuthToken() string {
	return viper.GetString("auth_token")
}

func (c *Config) LogLevel() string {
	return viper.GetString("log_level")
}

func (c *Config) RequestTimeout() time.Duration {
	return viper.GetDuration("request_timeout")
}

func (c *Config) PollInterval() time.Duration {
	return viper.GetDuration("poll_interval")
}

func (c *Config) EventsPath() string {
	return viper.GetString("events_path")
}

func (c *Config) CloneRepositories() map[string]CloneRepository {
	return c.cloneRepositories
}
