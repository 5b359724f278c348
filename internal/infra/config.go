package infra

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application settings. LoadConfig reads the yaml file and
// then applies environment overrides for deployment-specific values.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Server struct {
		Addr            string        `yaml:"addr"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Locking struct {
		// AcquireTimeout bounds how long a request waits for the exclusive
		// per-asset lock before failing with a retriable lock timeout.
		AcquireTimeout time.Duration `yaml:"acquire_timeout"`
	} `yaml:"locking"`

	Seed struct {
		Enabled   bool   `yaml:"enabled"`
		Customers int    `yaml:"customers"`
		CashSize  string `yaml:"cash_size"` // initial TRY balance per customer
	} `yaml:"seed"`

	Logging struct {
		Level string `yaml:"level"`
		Dir   string `yaml:"dir"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15 * time.Second
	}
	if c.Locking.AcquireTimeout == 0 {
		c.Locking.AcquireTimeout = 5 * time.Second
	}
	if c.Logging.Dir == "" {
		c.Logging.Dir = "logs"
	}
	if c.Seed.CashSize == "" {
		c.Seed.CashSize = "10000"
	}
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Locking.AcquireTimeout < 0 {
		return fmt.Errorf("lock acquire timeout must not be negative")
	}
	if c.Seed.Enabled && c.Seed.Customers <= 0 {
		return fmt.Errorf("seed customer count must be positive when seeding is enabled")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %s", c.Logging.Level)
	}
	return nil
}

// overrideWithEnv replaces settings with environment values when present.
func overrideWithEnv(cfg *Config) {
	if addr := os.Getenv("BROKERAGE_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if path := os.Getenv("BROKERAGE_DB_PATH"); path != "" {
		cfg.Database.Path = path
	}
	if level := os.Getenv("BROKERAGE_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}
