package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and, optionally, a
// config.yaml in the working directory. Environment variables take
// precedence over file values and use the SOCRATES_ prefix with
// underscores for nesting (e.g. SOCRATES_DATABASE_URL,
// SOCRATES_QUEUE_URL, SOCRATES_PLANNING_API_KEY).
//
// Returns a populated Config struct or an error if loading or
// validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults for everything that has a sensible one. Endpoints and
	// credentials default to empty so validation reports what is
	// missing; registering the keys also lets AutomaticEnv feed them
	// into Unmarshal.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.url", "")
	v.SetDefault("queue.url", "")
	v.SetDefault("queue.name", "reading_plan_queue")
	v.SetDefault("planning.base_url", "")
	v.SetDefault("planning.api_key", "")
	v.SetDefault("planning.gemini_api_key", "")
	v.SetDefault("planning.model_name", "gemini-2.0-flash")
	v.SetDefault("worker.reconnect_interval", 5*time.Second)

	// Optional config file; absence is not an error.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("SOCRATES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
