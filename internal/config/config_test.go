package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"BOOKCLUB_PORT", "BOOKCLUB_DB_PATH", "BOOKCLUB_LOG_LEVEL", "BOOKCLUB_LOG_FORMAT",
		"BOOKCLUB_COOKIE_SECURE", "BOOKCLUB_SESSION_TTL", "BOOKCLUB_OPENLIBRARY_URL",
		"BOOKCLUB_ALLOWED_ORIGINS", "BOOKCLUB_READ_TIMEOUT", "BOOKCLUB_WRITE_TIMEOUT",
		"BOOKCLUB_IDLE_TIMEOUT", "BOOKCLUB_SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.DBPath != "bookclub.db" {
		t.Errorf("db path = %q, want bookclub.db", cfg.DBPath)
	}
	if !cfg.CookieSecure {
		t.Error("cookie secure should default to true")
	}
	if cfg.SessionTTL != 30*24*time.Hour {
		t.Errorf("session ttl = %v, want 720h", cfg.SessionTTL)
	}
	if cfg.AllowedOrigins != nil {
		t.Errorf("allowed origins = %v, want none", cfg.AllowedOrigins)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("BOOKCLUB_PORT", "9000")
	t.Setenv("BOOKCLUB_COOKIE_SECURE", "false")
	t.Setenv("BOOKCLUB_SESSION_TTL", "1h")
	t.Setenv("BOOKCLUB_ALLOWED_ORIGINS", "http://localhost:5173, https://club.example.com,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("port = %q, want 9000", cfg.Port)
	}
	if cfg.CookieSecure {
		t.Error("cookie secure = true, want false")
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("session ttl = %v, want 1h", cfg.SessionTTL)
	}
	want := []string{"http://localhost:5173", "https://club.example.com"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("allowed origins = %v, want %v", cfg.AllowedOrigins, want)
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("BOOKCLUB_DB_PATH")
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("BOOKCLUB_DB_PATH=/tmp/club.db\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/club.db" {
		t.Errorf("db path = %q, want /tmp/club.db", cfg.DBPath)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"BOOKCLUB_COOKIE_SECURE", "maybe"},
		{"BOOKCLUB_SESSION_TTL", "forever"},
		{"BOOKCLUB_SESSION_TTL", "-1h"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
