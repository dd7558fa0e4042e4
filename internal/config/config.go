// Package config loads server configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig
	Logging  LoggingConfig
	Database DatabaseConfig
	Engine   EngineConfig
}

// ServerConfig configures the demo WebSocket server.
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or console
}

// DatabaseConfig configures the event-journal database. When URL is empty,
// journaling is disabled.
type DatabaseConfig struct {
	URL            string
	ConnectTimeout time.Duration
}

// EngineConfig configures the rules engine.
type EngineConfig struct {
	// MaxIterations bounds the replacement-resolution fixpoint loop.
	MaxIterations int
	// Metrics enables OpenTelemetry pipeline metrics.
	Metrics bool
}

// Load reads configuration from the given path. A missing file is not an
// error; defaults and RULES_* environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("database.url", "")
	v.SetDefault("database.connect_timeout", 5*time.Second)
	v.SetDefault("engine.max_iterations", 100)
	v.SetDefault("engine.metrics", false)

	v.SetEnvPrefix("RULES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:            v.GetString("server.addr"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		Database: DatabaseConfig{
			URL:            v.GetString("database.url"),
			ConnectTimeout: v.GetDuration("database.connect_timeout"),
		},
		Engine: EngineConfig{
			MaxIterations: v.GetInt("engine.max_iterations"),
			Metrics:       v.GetBool("engine.metrics"),
		},
	}

	if cfg.Engine.MaxIterations <= 0 {
		return nil, fmt.Errorf("engine.max_iterations must be positive, got %d", cfg.Engine.MaxIterations)
	}

	return cfg, nil
}
