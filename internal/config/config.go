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
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// AMQP (optional; empty URL disables event publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Snapshot worker
	SnapshotInterval time.Duration

	// Analytics defaults
	TrendDefaultDays    int
	RatioWindowDays     int
	DefaultCurrency     string
	TransactionPageSize int
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8082"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/patrimonio.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "patrimonio"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),

		SnapshotInterval: getEnvDuration("SNAPSHOT_INTERVAL", 24*time.Hour),

		TrendDefaultDays:    getEnvInt("TREND_DEFAULT_DAYS", 30),
		RatioWindowDays:     getEnvInt("RATIO_WINDOW_DAYS", 30),
		DefaultCurrency:     getEnv("DEFAULT_CURRENCY", "CNY"),
		TransactionPageSize: getEnvInt("TRANSACTION_PAGE_SIZE", 100),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
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

	if c.SnapshotInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid snapshot interval %v: must be at least 1 minute", c.SnapshotInterval))
	} else if c.SnapshotInterval > 7*24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid snapshot interval %v: must be at most 7 days", c.SnapshotInterval))
	}

	if c.TrendDefaultDays < 1 || c.TrendDefaultDays > 365 {
		errors = append(errors, fmt.Sprintf("invalid trend default days %d: must be between 1 and 365", c.TrendDefaultDays))
	}
	if c.RatioWindowDays < 1 || c.RatioWindowDays > 365 {
		errors = append(errors, fmt.Sprintf("invalid ratio window days %d: must be between 1 and 365", c.RatioWindowDays))
	}
	if c.TransactionPageSize < 1 || c.TransactionPageSize > 10000 {
		errors = append(errors, fmt.Sprintf("invalid transaction page size %d: must be between 1 and 10000", c.TransactionPageSize))
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
