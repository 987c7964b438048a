package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
// The same struct serves the API server, the worker, and the planner;
// each binary reads the groups it needs.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Queue    QueueConfig    `mapstructure:"queue"    validate:"required"`
	Planning PlanningConfig `mapstructure:"planning" validate:"required"`
	Worker   WorkerConfig   `mapstructure:"worker"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// URL presence is checked by the binaries that open a database; the
// planner runs without one.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// QueueConfig contains the broker settings shared by the job producer
// and all worker instances. Name is the durable queue carrying plan
// jobs; producer and consumers must agree on it.
type QueueConfig struct {
	URL  string `mapstructure:"url"`
	Name string `mapstructure:"name" validate:"required"`
}

// PlanningConfig contains the settings of the planning capability client.
//
// APIKey is the external-capability credential. When it is empty the
// deterministic offline planner is selected at startup instead of the
// HTTP client, so neither APIKey nor BaseURL carries a "required" tag.
// GeminiAPIKey is only read by the planner binary.
type PlanningConfig struct {
	BaseURL      string `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey       string `mapstructure:"api_key"`
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	ModelName    string `mapstructure:"model_name" validate:"required"`
}

// WorkerConfig contains worker-loop settings.
//
// ReconnectInterval is the fixed sleep between attempts to re-establish
// the broker session. The loop has no backoff growth and no maximum
// attempt count: the worker has no other useful work to do while
// disconnected, so it simply keeps trying.
type WorkerConfig struct {
	ReconnectInterval time.Duration `mapstructure:"reconnect_interval" validate:"required"`
}
