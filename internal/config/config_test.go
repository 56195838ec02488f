package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("API_URL", "")
	t.Setenv("SESSION_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Backend.BaseURL != "http://localhost:8000/api" {
		t.Errorf("Expected default API URL, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 10*time.Second {
		t.Errorf("Expected 10s timeout, got %v", cfg.Backend.Timeout)
	}
	if cfg.Session.Secure {
		t.Error("Development session cookie should not require TLS")
	}
	if cfg.Backend.MediaRoot() != "http://localhost:8000" {
		t.Errorf("Unexpected media root %q", cfg.Backend.MediaRoot())
	}
}

func TestLoad_TrimsTrailingSlash(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("API_URL", "https://api.example.com/api/")
	t.Setenv("SITE_URL", "https://example.com/")
	t.Setenv("SESSION_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend.BaseURL != "https://api.example.com/api" {
		t.Errorf("Got %q", cfg.Backend.BaseURL)
	}
	if cfg.Site.URL != "https://example.com" {
		t.Errorf("Got %q", cfg.Site.URL)
	}
}

func TestLoad_ProductionRequiresSessionKey(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_KEY", "short")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for short session key")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		Backend: BackendConfig{BaseURL: "http://backend/api", Timeout: time.Second},
		Session: SessionConfig{Key: "0123456789abcdef0123456789abcdef"},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Expected valid config, got %v", err)
	}

	noURL := valid
	noURL.Backend.BaseURL = ""
	if err := noURL.Validate(); err == nil {
		t.Error("Expected error for empty API URL")
	}

	noTimeout := valid
	noTimeout.Backend.Timeout = 0
	if err := noTimeout.Validate(); err == nil {
		t.Error("Expected error for zero timeout")
	}
}

func TestGetDurationEnv_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_TIMEOUT", "soon")
	if got := getDurationEnv("SOME_TIMEOUT", 5*time.Second); got != 5*time.Second {
		t.Errorf("Expected fallback, got %v", got)
	}
}
