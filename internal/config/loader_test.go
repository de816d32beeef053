package config

import (
	"os"
	"testing"
	"time"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"SCHEDULER_HTTP_PORT",
			"SCHEDULER_SQLITE_DSN",
			"SCHEDULER_SESSION_TTL",
			"SCHEDULER_SHUTDOWN_TIMEOUT",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:course-scheduler.db" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.SessionTTL != 24*time.Hour {
			t.Fatalf("expected default session TTL 24h, got %s", cfg.SessionTTL)
		}
		if cfg.ShutdownTimeout != 10*time.Second {
			t.Fatalf("expected default shutdown timeout 10s, got %s", cfg.ShutdownTimeout)
		}
	})

	t.Run("parses duration and numeric fields", func(t *testing.T) {
		t.Setenv("SCHEDULER_HTTP_PORT", "9090")
		t.Setenv("SCHEDULER_SQLITE_DSN", "file:/tmp/courses.db")
		t.Setenv("SCHEDULER_SESSION_TTL", "12h")
		t.Setenv("SCHEDULER_SHUTDOWN_TIMEOUT", "30s")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:/tmp/courses.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.SessionTTL != 12*time.Hour {
			t.Fatalf("expected session TTL 12h, got %s", cfg.SessionTTL)
		}
		if cfg.ShutdownTimeout != 30*time.Second {
			t.Fatalf("expected shutdown timeout 30s, got %s", cfg.ShutdownTimeout)
		}
	})

	t.Run("reports malformed values together", func(t *testing.T) {
		t.Setenv("SCHEDULER_HTTP_PORT", "not-a-port")
		t.Setenv("SCHEDULER_SESSION_TTL", "-5m")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for malformed values")
		}
		expected := "invalid environment variable values: SCHEDULER_HTTP_PORT, SCHEDULER_SESSION_TTL"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})
}
