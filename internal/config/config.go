package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Dispatch   DispatchConfig
	Escalation EscalationConfig
	Retention  RetentionConfig
	DB         DatabaseConfig
	Logging    LoggingConfig
	RateLimit  RateLimitConfig
	Static     StaticConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DispatchConfig struct {
	URL      string        // dispatch endpoint; empty means self (http://host:port/api/report)
	Latency  time.Duration // simulated routing delay on the endpoint side
	Timeout  time.Duration // per-attempt client timeout
	Attempts int
}

type EscalationConfig struct {
	Duration time.Duration
}

type RetentionConfig struct {
	Enabled       bool
	MaxAge        time.Duration
	SweepInterval time.Duration
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
}

type RateLimitConfig struct {
	RPS int
}

type StaticConfig struct {
	Dir string // directory of the HTML entry points; empty disables static serving
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 3000),
		},
		Dispatch: DispatchConfig{
			URL:      getEnv("DISPATCH_URL", ""),
			Latency:  getEnvDuration("DISPATCH_LATENCY", 800*time.Millisecond),
			Timeout:  getEnvDuration("DISPATCH_TIMEOUT", 5*time.Second),
			Attempts: getEnvInt("DISPATCH_ATTEMPTS", 2),
		},
		Escalation: EscalationConfig{
			Duration: getEnvDuration("ESCALATION_DURATION", 360*time.Second),
		},
		Retention: RetentionConfig{
			Enabled:       getEnvBool("RETENTION_ENABLED", false),
			MaxAge:        getEnvDuration("RETENTION_MAX_AGE", 30*24*time.Hour),
			SweepInterval: getEnvDuration("RETENTION_SWEEP_INTERVAL", time.Hour),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/tagit.db"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		RateLimit: RateLimitConfig{
			RPS: getEnvInt("RATE_LIMIT_RPS", 5),
		},
		Static: StaticConfig{
			Dir: getEnv("STATIC_DIR", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Escalation.Duration <= 0 {
		return fmt.Errorf("escalation duration must be positive")
	}
	if c.Dispatch.Timeout <= 0 {
		return fmt.Errorf("dispatch timeout must be positive")
	}
	if c.Dispatch.Attempts < 1 {
		return fmt.Errorf("dispatch attempts must be at least 1")
	}
	if c.Dispatch.Latency < 0 {
		return fmt.Errorf("dispatch latency must not be negative")
	}
	if c.Retention.Enabled {
		if c.Retention.MaxAge <= 0 {
			return fmt.Errorf("retention max age must be positive")
		}
		if c.Retention.SweepInterval < time.Minute {
			return fmt.Errorf("retention sweep interval must be at least 1 minute")
		}
	}

	return nil
}

// DispatchURL returns the configured endpoint, defaulting to the
// service's own mock dispatch route.
func (c *Config) DispatchURL() string {
	if c.Dispatch.URL != "" {
		return c.Dispatch.URL
	}
	return fmt.Sprintf("http://%s:%d/api/report", c.Server.Host, c.Server.Port)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
