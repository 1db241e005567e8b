package config

import (
	"os"
	"testing"
	"time"
)

func TestGetEnvWithDefault(t *testing.T) {
	const key = "TEST_BRASSLOOM_VALUE"

	_ = os.Unsetenv(key)
	if got := getEnv(key, "fallback"); got != "fallback" {
		t.Fatalf("getEnv(%q) = %q, want fallback", key, got)
	}

	if err := os.Setenv(key, "set"); err != nil {
		t.Fatalf("Setenv error: %v", err)
	}
	defer os.Unsetenv(key)
	if got := getEnv(key, "fallback"); got != "set" {
		t.Fatalf("getEnv(%q) = %q, want set", key, got)
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"BRASSLOOM_WINDOW_DAYS", "BRASSLOOM_FETCH_TIMEOUT", "BRASSLOOM_ENABLE_MUREP"} {
		_ = os.Unsetenv(key)
	}

	cfg := Load()
	if cfg.WindowDays != 60 {
		t.Fatalf("WindowDays = %d, want 60", cfg.WindowDays)
	}
	if cfg.FetchTimeout != 30*time.Second {
		t.Fatalf("FetchTimeout = %s, want 30s", cfg.FetchTimeout)
	}
	if cfg.EnableMUREP {
		t.Fatalf("EnableMUREP should default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	_ = os.Setenv("BRASSLOOM_WINDOW_DAYS", "90")
	_ = os.Setenv("BRASSLOOM_FETCH_TIMEOUT", "5s")
	_ = os.Setenv("BRASSLOOM_ENABLE_MUREP", "true")
	defer func() {
		_ = os.Unsetenv("BRASSLOOM_WINDOW_DAYS")
		_ = os.Unsetenv("BRASSLOOM_FETCH_TIMEOUT")
		_ = os.Unsetenv("BRASSLOOM_ENABLE_MUREP")
	}()

	cfg := Load()
	if cfg.WindowDays != 90 || cfg.FetchTimeout != 5*time.Second || !cfg.EnableMUREP {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestGetEnvIntRejectsGarbage(t *testing.T) {
	const key = "TEST_BRASSLOOM_INT"
	_ = os.Setenv(key, "ninety")
	defer os.Unsetenv(key)

	if got := getEnvInt(key, 42); got != 42 {
		t.Fatalf("getEnvInt = %d, want default 42", got)
	}
}
