package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: \"9090\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port 9090, got %q", cfg.Server.Port)
	}
	if cfg.Quiz.Length != 10 || cfg.Quiz.Mode != ModeLocal || cfg.Quiz.Content != DefaultContent {
		t.Fatalf("unexpected quiz defaults %+v", cfg.Quiz)
	}
	if cfg.Backend.RetryAttempts != 3 {
		t.Fatalf("expected 3 retry attempts, got %d", cfg.Backend.RetryAttempts)
	}
}

func TestLoadRemoteMode(t *testing.T) {
	path := writeConfig(t, `
quiz:
  mode: remote
  length: 5
backend:
  baseUrl: https://quiz.example.com
  timeout: 10s
  retryDelay: 500ms
  apiKey: key-1
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Quiz.Length != 5 || cfg.Backend.BaseURL != "https://quiz.example.com" || cfg.Backend.APIKey != "key-1" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if TTLDuration(cfg.Backend.Timeout, 30*time.Second) != 10*time.Second {
		t.Fatalf("expected 10s timeout")
	}
	if TTLDuration(cfg.Backend.RetryDelay, time.Second) != 500*time.Millisecond {
		t.Fatalf("expected 500ms delay")
	}
}

func TestLoadRejectsRemoteWithoutBackend(t *testing.T) {
	path := writeConfig(t, "quiz:\n  mode: remote\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "backend.baseUrl") {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	path := writeConfig(t, "quiz:\n  mode: hybrid\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected unknown mode error")
	}
}

func TestTTLDuration(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %s", got)
	}
	if got := TTLDuration("bogus", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for bad input, got %s", got)
	}
	if got := TTLDuration("90s", time.Minute); got != 90*time.Second {
		t.Fatalf("expected 90s, got %s", got)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
