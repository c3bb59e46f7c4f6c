package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"studysmart/internal/log"
)

type Config struct {
	// Storage
	DataBackend                  string
	SQLiteDBPath                 string
	DestructiveMigrationFallback bool
	// MemorySeedDir holds seed_subjects.txt for the memory backend.
	MemorySeedDir string

	// Logging
	LogLevel string

	// AMQP change feed; an empty URL disables it
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Dashboard
	RecentSessionsLimit int
}

func Load() *Config {
	return &Config{
		DataBackend:                  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath:                 getEnv("SQLITE_DB_PATH", "./data/studysmart.db"),
		DestructiveMigrationFallback: getEnvBool("DESTRUCTIVE_MIGRATION_FALLBACK", false),
		MemorySeedDir:                getEnv("MEMORY_SEED_DIR", ""),

		LogLevel: getEnv("LOG_LEVEL", "warn"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "studysmart"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "store_changes"),

		RecentSessionsLimit: getEnvInt("RECENT_SESSIONS_LIMIT", 5),
	}
}

// FeedEnabled reports whether changes are relayed over AMQP.
func (c *Config) FeedEnabled() bool {
	return c.AMQPURL != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.DataBackend == "memory" && c.MemorySeedDir != "" {
		if info, err := os.Stat(c.MemorySeedDir); err != nil || !info.IsDir() {
			errors = append(errors, fmt.Sprintf("memory seed directory does not exist: %s", c.MemorySeedDir))
		}
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.RecentSessionsLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid recent sessions limit %d: must be at least 1", c.RecentSessionsLimit))
	} else if c.RecentSessionsLimit > 100 {
		errors = append(errors, fmt.Sprintf("invalid recent sessions limit %d: must be at most 100", c.RecentSessionsLimit))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
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

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
