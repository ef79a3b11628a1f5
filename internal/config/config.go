// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingSecret is returned when MYTODO_SECRET_KEY_BASE is unset or empty.
var ErrMissingSecret = errors.New("MYTODO_SECRET_KEY_BASE is required")

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr           string
	DBPath               string
	SecretKeyBase        string
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	CookieSecure         bool
	LogLevel             slog.Level
}

// Load reads configuration from environment variables and returns a validated Config.
// MYTODO_SECRET_KEY_BASE is required; it peppers password hashes.
// Optional variables with defaults: MYTODO_LISTEN_ADDR (127.0.0.1:8080),
// MYTODO_DB_PATH (mytodo.db), MYTODO_SESSION_TTL (24h),
// MYTODO_SESSION_SWEEP_INTERVAL (10m), MYTODO_COOKIE_SECURE (false),
// MYTODO_LOG_LEVEL (info).
func Load() (*Config, error) {
	secret := os.Getenv("MYTODO_SECRET_KEY_BASE")
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("MYTODO_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "mytodo.db"
	if v, ok := os.LookupEnv("MYTODO_DB_PATH"); ok {
		dbPath = v
	}

	sessionTTL, err := durationEnv("MYTODO_SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	sweepInterval, err := durationEnv("MYTODO_SESSION_SWEEP_INTERVAL", 10*time.Minute)
	if err != nil {
		return nil, err
	}

	cookieSecure := false
	if v, ok := os.LookupEnv("MYTODO_COOKIE_SECURE"); ok && v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("MYTODO_COOKIE_SECURE has invalid bool %q: %w", v, err)
		}
		cookieSecure = parsed
	}

	logLevel := slog.LevelInfo
	if v, ok := os.LookupEnv("MYTODO_LOG_LEVEL"); ok && v != "" {
		if err := logLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("MYTODO_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	return &Config{
		ListenAddr:           listenAddr,
		DBPath:               dbPath,
		SecretKeyBase:        secret,
		SessionTTL:           sessionTTL,
		SessionSweepInterval: sweepInterval,
		CookieSecure:         cookieSecure,
		LogLevel:             logLevel,
	}, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}

	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid duration %q: %w", key, v, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %q", key, v)
	}
	return parsed, nil
}
