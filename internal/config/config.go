package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Environment name ("development", "production")
	Env string

	// Server configuration
	Server ServerConfig

	// Backend REST service
	Backend BackendConfig

	// Cookie session settings
	Session SessionConfig

	// Public site settings
	Site SiteConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxUploadSize   int64 // in bytes
}

// BackendConfig holds settings for the REST backend client
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig holds cookie session settings
type SessionConfig struct {
	Name   string
	Key    string
	Secure bool
	MaxAge int // in seconds
}

// SiteConfig holds public site settings used by SEO routes and the footer
type SiteConfig struct {
	URL            string
	Name           string
	WhatsAppNumber string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

const minSessionKeyLen = 32

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Env: getEnv("ENV", "production"),
		Server: ServerConfig{
			Port:            getEnv("PORT", "3000"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
			MaxUploadSize:   getInt64Env("MAX_UPLOAD_SIZE", 10*1024*1024), // 10MB
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(getEnv("API_URL", "http://localhost:8000/api"), "/"),
			Timeout: getDurationEnv("API_TIMEOUT", 10*time.Second),
		},
		Session: SessionConfig{
			Name:   getEnv("SESSION_NAME", "finedu_session"),
			Key:    getEnv("SESSION_KEY", ""),
			Secure: getBoolEnv("SESSION_SECURE", true),
			MaxAge: getIntEnv("SESSION_MAX_AGE", 7*24*3600),
		},
		Site: SiteConfig{
			URL:            strings.TrimRight(getEnv("SITE_URL", "http://localhost:3000"), "/"),
			Name:           getEnv("SITE_NAME", "Rubiane Joaquim Educação Financeira"),
			WhatsAppNumber: getEnv("WHATSAPP_NUMBER", "244944905246"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if cfg.IsDevelopment() && cfg.Session.Key == "" {
		cfg.Session.Key = "development-session-key-not-for-production-use"
		cfg.Session.Secure = false
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("API_URL is required")
	}
	if _, err := url.ParseRequestURI(c.Backend.BaseURL); err != nil {
		return fmt.Errorf("API_URL is invalid: %w", err)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}
	if len(c.Session.Key) < minSessionKeyLen {
		return fmt.Errorf("SESSION_KEY must be at least %d bytes", minSessionKeyLen)
	}
	return nil
}

// MediaRoot returns the backend origin used to resolve relative media paths
func (c *BackendConfig) MediaRoot() string {
	return strings.TrimSuffix(c.BaseURL, "/api")
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
