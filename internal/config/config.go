package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/edatlas/edatlas/internal/logger"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

type Config struct {
	Addr                    string
	StorageDriver           string
	DBPath                  string
	RedisURL                string
	StorageKey              string
	LogLevel                string
	ReminderIntervalMinutes int
	CORSAllowedOrigins      []string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent.
	_ = godotenv.Load()

	return Config{
		Addr:                    envOr("ADDR", "127.0.0.1:8080"),
		StorageDriver:           strings.ToLower(envOr("STORAGE_DRIVER", DriverSQLite)),
		DBPath:                  envOr("DB_PATH", "file:edatlas.db"),
		RedisURL:                envOr("REDIS_URL", "redis://localhost:6379/0"),
		StorageKey:              envOr("STORAGE_KEY", "edatlas_mistakes"),
		LogLevel:                envOr("LOG_LEVEL", "INFO"),
		ReminderIntervalMinutes: envIntOr("REMINDER_INTERVAL_MINUTES", 60),
		CORSAllowedOrigins:      envListOr("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
	}
}

// ReminderInterval is the period of the due-review reminder loop. Zero disables it.
func (c Config) ReminderInterval() time.Duration {
	if c.ReminderIntervalMinutes <= 0 {
		return 0
	}
	return time.Duration(c.ReminderIntervalMinutes) * time.Minute
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	switch c.StorageDriver {
	case DriverSQLite:
		if strings.TrimSpace(c.DBPath) == "" {
			errs = append(errs, errors.New("DB_PATH cannot be empty when STORAGE_DRIVER=sqlite"))
		}
	case DriverRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			errs = append(errs, errors.New("REDIS_URL cannot be empty when STORAGE_DRIVER=redis"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be one of sqlite, redis, memory (got %q)", c.StorageDriver))
	}
	if strings.TrimSpace(c.StorageKey) == "" {
		errs = append(errs, errors.New("STORAGE_KEY cannot be empty"))
	}
	if !logger.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	if c.ReminderIntervalMinutes < 0 {
		errs = append(errs, fmt.Errorf("REMINDER_INTERVAL_MINUTES cannot be negative (got %d)", c.ReminderIntervalMinutes))
	}
	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
		return def
	}
	return out
}
