package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

type Config struct {
	APIURL          string
	AppHost         string
	SessionSecret   []byte
	SessionTTL      time.Duration
	AuthScheme      string
	DisplayTimezone *time.Location
	LoginRateLimit  int
	LoginRateWindow time.Duration
	TrustedProxies  []string
	LogLevel        string
	GinMode         string
}

// Load reads the environment. godotenv must have populated it beforehand.
func Load() (*Config, error) {
	cfg := &Config{
		APIURL:     strings.TrimRight(getEnv("API_URL", "http://127.0.0.1:8000"), "/"),
		AppHost:    getEnv("APP_HOST", ":8080"),
		AuthScheme: getEnv("AUTH_SCHEME", "Token"),
		LogLevel:   getEnv("LOG_LEVEL", "debug"),
		GinMode:    getEnv("GIN_MODE", "debug"),
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is not set")
	}
	cfg.SessionSecret = []byte(secret)

	var err error
	if cfg.SessionTTL, err = time.ParseDuration(getEnv("SESSION_TTL", "120h")); err != nil {
		return nil, fmt.Errorf("parse SESSION_TTL: %w", err)
	}
	if cfg.LoginRateWindow, err = time.ParseDuration(getEnv("LOGIN_RATE_WINDOW", "5m")); err != nil {
		return nil, fmt.Errorf("parse LOGIN_RATE_WINDOW: %w", err)
	}
	if cfg.LoginRateLimit, err = strconv.Atoi(getEnv("LOGIN_RATE_LIMIT", "10")); err != nil {
		return nil, fmt.Errorf("parse LOGIN_RATE_LIMIT: %w", err)
	}
	cfg.TrustedProxies = splitList(os.Getenv("TRUSTED_PROXIES"))
	if cfg.DisplayTimezone, err = time.LoadLocation(getEnv("DISPLAY_TIMEZONE", "America/Santiago")); err != nil {
		return nil, fmt.Errorf("load DISPLAY_TIMEZONE: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// splitList reads a comma-separated variable; empty means none.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
