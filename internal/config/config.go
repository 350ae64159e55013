package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingEnv is returned when a required environment variable is not set.
var ErrMissingEnv = errors.New("missing environment variable")

// Config holds the application configuration loaded from .env files and environment variables.
type Config struct {
	AppName        string `mapstructure:"app_name"`
	Env            string `mapstructure:"app_env"`
	LogLevel       string `mapstructure:"log_level"`
	Debug          bool   `mapstructure:"debug"`
	StripeURL      string `mapstructure:"stripe_url"`
	StripeAPIKey   string `mapstructure:"stripe_api_key"`
	PublishersFile string `mapstructure:"publishers_file"`
}

var envKeys = []string{
	"app_name",
	"app_env",
	"log_level",
	"debug",
	"stripe_url",
	"stripe_api_key",
	"publishers_file",
}

// Load reads configuration from the default .env file and the environment.
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom reads configuration from the given .env files (missing files are
// ignored) and the environment. Variables already set in the environment win.
func LoadFrom(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if strings.TrimSpace(f) == "" {
			continue
		}
		_ = godotenv.Load(f)
	}

	v := viper.New()

	v.SetDefault("app_name", "stripe-workflows")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("debug", false)
	v.SetDefault("publishers_file", "")

	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.StripeURL = strings.TrimSpace(cfg.StripeURL)
	cfg.StripeAPIKey = strings.TrimSpace(cfg.StripeAPIKey)
	cfg.PublishersFile = strings.TrimSpace(cfg.PublishersFile)

	if cfg.StripeURL == "" {
		return nil, fmt.Errorf("%w: STRIPE_URL", ErrMissingEnv)
	}
	if cfg.StripeAPIKey == "" {
		return nil, fmt.Errorf("%w: STRIPE_API_KEY", ErrMissingEnv)
	}

	return &cfg, nil
}

// Redacted returns a copy safe to log: the API key is masked.
func (c Config) Redacted() Config {
	if c.StripeAPIKey != "" {
		c.StripeAPIKey = "***"
	}
	return c
}
