// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port string

	// TakaTrack backend
	BackendURL          string
	BackendAccessToken  string
	BackendRefreshToken string
	UserID              int64

	// Goals storage: "sqlite" or "memory"
	GoalsBackend string
	SQLiteDBPath string

	// AMQP (empty URL disables event publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Caching
	CacheTTL     time.Duration
	CacheSize    int
	CleanupEvery time.Duration

	// Tax export
	GoogleSpreadsheetID string
	TaxYear             int
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8090"),

		BackendURL:          getEnv("BACKEND_URL", "http://localhost:8080/api"),
		BackendAccessToken:  getEnv("BACKEND_ACCESS_TOKEN", ""),
		BackendRefreshToken: getEnv("BACKEND_REFRESH_TOKEN", ""),
		UserID:              int64(getEnvInt("USER_ID", 0)),

		GoalsBackend: getEnv("GOALS_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/takatrack.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "takatrack_events"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "takatrack_nudges"),

		CacheTTL:     getEnvDuration("CACHE_TTL", 30*time.Second),
		CacheSize:    getEnvInt("CACHE_SIZE", 256),
		CleanupEvery: getEnvDuration("CACHE_CLEANUP_INTERVAL", time.Minute),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		TaxYear:             getEnvInt("TAX_YEAR", time.Now().Year()),
	}
}

// Validate checks the loaded configuration and reports every problem at
// once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.BackendURL == "" {
		problems = append(problems, "backend URL cannot be empty")
	} else if parsed, err := url.Parse(c.BackendURL); err != nil {
		problems = append(problems, fmt.Sprintf("invalid backend URL '%s': %v", c.BackendURL, err))
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		problems = append(problems, fmt.Sprintf("invalid backend URL scheme '%s': must be http or https", parsed.Scheme))
	}

	switch c.GoalsBackend {
	case "memory":
	case "sqlite":
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLite database path cannot be empty when using the sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					problems = append(problems, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid goals backend '%s': must be sqlite or memory", c.GoalsBackend))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.CacheTTL < time.Second {
		problems = append(problems, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	}
	if c.CacheSize < 1 {
		problems = append(problems, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}
	if c.CleanupEvery < time.Second {
		problems = append(problems, fmt.Sprintf("invalid cache cleanup interval %v: must be at least 1 second", c.CleanupEvery))
	}

	if c.TaxYear < 2000 || c.TaxYear > 2100 {
		problems = append(problems, fmt.Sprintf("invalid tax year %d", c.TaxYear))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
