package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings read from BOOKCLUB_* environment variables.
type Config struct {
	Port           string
	DBPath         string
	LogLevel       string
	LogFormat      string
	CookieSecure   bool
	SessionTTL     time.Duration
	OpenLibraryURL string
	AllowedOrigins []string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads the environment, first merging a .env file when one exists.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{
		Port:           getEnv("BOOKCLUB_PORT", "8080"),
		DBPath:         getEnv("BOOKCLUB_DB_PATH", "bookclub.db"),
		LogLevel:       getEnv("BOOKCLUB_LOG_LEVEL", "info"),
		LogFormat:      getEnv("BOOKCLUB_LOG_FORMAT", "text"),
		OpenLibraryURL: getEnv("BOOKCLUB_OPENLIBRARY_URL", "https://openlibrary.org"),
		AllowedOrigins: splitList(os.Getenv("BOOKCLUB_ALLOWED_ORIGINS")),
	}

	var err error
	cfg.CookieSecure, err = strconv.ParseBool(getEnv("BOOKCLUB_COOKIE_SECURE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKCLUB_COOKIE_SECURE: %w", err)
	}

	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"BOOKCLUB_SESSION_TTL", "720h", &cfg.SessionTTL},
		{"BOOKCLUB_READ_TIMEOUT", "5s", &cfg.ReadTimeout},
		{"BOOKCLUB_WRITE_TIMEOUT", "15s", &cfg.WriteTimeout},
		{"BOOKCLUB_IDLE_TIMEOUT", "120s", &cfg.IdleTimeout},
		{"BOOKCLUB_SHUTDOWN_TIMEOUT", "10s", &cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(getEnv(d.key, d.fallback))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		if v <= 0 {
			return nil, fmt.Errorf("invalid %s: must be positive", d.key)
		}
		*d.dst = v
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
