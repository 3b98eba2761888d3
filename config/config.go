// Package config loads runtime configuration from the environment, with a
// .env file honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/Vinoisasian/jingshin-leave-public/worktime"
)

// Config aggregates runtime configuration for the leave-request service.
type Config struct {
	App       AppConfig
	Endpoints EndpointConfig
	Logger    LoggerConfig

	// ScheduleVariant picks the business-hour schedule: "standard"
	// (08:00-12:00, 13:00-17:00) or "extended" (afternoon to 17:10).
	ScheduleVariant string

	SessionTTLMinutes int
}

// AppConfig controls server-level behavior.
type AppConfig struct {
	Host string
	Port string
}

// EndpointConfig holds the external collaborator URLs.
type EndpointConfig struct {
	// DirectoryURL is the worker-directory lookup endpoint
	// (GET ?workerId=...).
	DirectoryURL string

	// ApprovalURL receives the final submission POST. Defaults to the
	// directory URL: the original backend serves both from one script.
	ApprovalURL string

	// IPEchoURL is the best-effort what-is-my-IP service.
	IPEchoURL string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults
// where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	directoryURL := os.Getenv("DIRECTORY_URL")
	if directoryURL == "" {
		return nil, fmt.Errorf("DIRECTORY_URL is required")
	}

	cfg := &Config{
		App: AppConfig{
			Host: getEnv("APP_HOST", "0.0.0.0"),
			Port: getEnv("APP_PORT", "8080"),
		},
		Endpoints: EndpointConfig{
			DirectoryURL: directoryURL,
			ApprovalURL:  getEnv("APPROVAL_URL", directoryURL),
			IPEchoURL:    getEnv("IP_ECHO_URL", "https://api.ipify.org?format=json"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		ScheduleVariant:   getEnv("SCHEDULE_VARIANT", worktime.StandardSchedule.Name),
		SessionTTLMinutes: getEnvAsInt("SESSION_TTL_MINUTES", 120),
	}

	if _, ok := worktime.ScheduleByName(cfg.ScheduleVariant); !ok {
		return nil, fmt.Errorf("unknown SCHEDULE_VARIANT %q", cfg.ScheduleVariant)
	}

	return cfg, nil
}

// Schedule returns the configured business-hour schedule.
func (c *Config) Schedule() worktime.Schedule {
	s, _ := worktime.ScheduleByName(c.ScheduleVariant)
	return s
}

// SessionTTL returns the session expiry as a duration.
func (c *Config) SessionTTL() time.Duration {
	if c.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return a.Host + ":" + a.Port
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
