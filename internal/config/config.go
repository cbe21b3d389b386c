package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for chatlist-server.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"chatlist-server"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8090"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"console"`

	// Database (embedded sqlite)
	DatabasePath  string        `env:"DATABASE_PATH" envDefault:"chatlist.db"`
	DBBusyTimeout time.Duration `env:"DB_BUSY_TIMEOUT" envDefault:"5s"`
	AutoMigrate   bool          `env:"AUTO_MIGRATE" envDefault:"true"`

	// Dispatch
	RequestTimeout        time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	DispatchTimeout       time.Duration `env:"DISPATCH_TIMEOUT" envDefault:"120s"`
	MaxConcurrentRequests int           `env:"MAX_CONCURRENT_REQUESTS" envDefault:"5"`

	// Model registry bootstrap
	SeedDefaultModels bool                  `env:"SEED_DEFAULT_MODELS" envDefault:"true"`
	ModelConfigFile   string                `env:"MODEL_CONFIG_FILE"`
	ModelBootstrap    *ModelBootstrapConfig `env:"-"`

	// Prompt enhancement
	EnhanceMaxTokens int `env:"ENHANCE_MAX_TOKENS" envDefault:"2000"`
}

// Load parses environment variables into Config and performs minimal validation.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.DatabasePath = strings.TrimSpace(cfg.DatabasePath)
	if cfg.DatabasePath == "" {
		return nil, fmt.Errorf("DATABASE_PATH must not be empty")
	}
	if cfg.MaxConcurrentRequests <= 0 {
		cfg.MaxConcurrentRequests = 5
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.DispatchTimeout < cfg.RequestTimeout {
		cfg.DispatchTimeout = cfg.RequestTimeout
	}

	if file := strings.TrimSpace(cfg.ModelConfigFile); file != "" {
		bootstrap, err := LoadModelBootstrapConfig(file)
		if err != nil {
			return nil, fmt.Errorf("load model configs: %w", err)
		}
		cfg.ModelBootstrap = bootstrap
	}

	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// DatabaseDSN returns the sqlite DSN with WAL journaling and a busy timeout,
// so concurrent sink writes queue instead of failing with SQLITE_BUSY.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d", c.DatabasePath, c.DBBusyTimeout.Milliseconds())
}

// BootstrapModels returns the model definitions from the optional config file.
func (c *Config) BootstrapModels() []ModelBootstrapEntry {
	if c == nil || c.ModelBootstrap == nil {
		return nil
	}
	return c.ModelBootstrap.Models
}

var Version = "dev"

func IsDev() bool {
	return strings.HasPrefix(Version, "dev")
}
