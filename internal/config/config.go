package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cecepns/stroke-care/internal/domain"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port string

	// Database
	DatabasePath string

	// Security
	AllowedOrigins []string
	JWTSecret      string
	TokenTTL       time.Duration

	// Rate Limiting
	RateLimitAPI    rate.Limit
	RateLimitWS     rate.Limit
	RateLimitStrict rate.Limit

	// Logging
	LogLevel string

	// Relay
	MaxMessageSize   int
	MaxContentLength int
	RecentLimit      int
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Port:             "8080",
		DatabasePath:     "stroke-care.db",
		AllowedOrigins:   []string{"http://localhost:8080", "http://localhost:5173"},
		JWTSecret:        "change-me-in-production",
		TokenTTL:         domain.TokenTTL,
		RateLimitAPI:     domain.DefaultRateLimitAPI,
		RateLimitWS:      domain.DefaultRateLimitWS,
		RateLimitStrict:  domain.DefaultRateLimitStrict,
		LogLevel:         "info", // Options: debug, info, warn, error, silent
		MaxMessageSize:   domain.MaxMessageSize,
		MaxContentLength: domain.MaxContentLength,
		RecentLimit:      domain.DefaultRecentLimit,
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	cfg := DefaultConfig()

	// Server
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	// Database
	if path := os.Getenv("DATABASE_PATH"); path != "" {
		cfg.DatabasePath = path
	}

	// Security
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = parseOrigins(origins)
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWTSecret = secret
	}

	if ttl := os.Getenv("TOKEN_TTL_HOURS"); ttl != "" {
		if hours, err := strconv.Atoi(ttl); err == nil && hours > 0 {
			cfg.TokenTTL = time.Duration(hours) * time.Hour
		}
	}

	// Rate Limiting
	if rl := os.Getenv("RATE_LIMIT_API"); rl != "" {
		if val, err := strconv.Atoi(rl); err == nil && val > 0 {
			cfg.RateLimitAPI = rate.Limit(val)
		}
	}

	if rl := os.Getenv("RATE_LIMIT_WS"); rl != "" {
		if val, err := strconv.Atoi(rl); err == nil && val > 0 {
			cfg.RateLimitWS = rate.Limit(val)
		}
	}

	if rl := os.Getenv("RATE_LIMIT_STRICT"); rl != "" {
		if val, err := strconv.Atoi(rl); err == nil && val > 0 {
			cfg.RateLimitStrict = rate.Limit(val)
		}
	}

	// Logging
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	// Relay
	if size := os.Getenv("MAX_MESSAGE_SIZE"); size != "" {
		if val, err := strconv.Atoi(size); err == nil && val > 0 {
			cfg.MaxMessageSize = val
		}
	}

	if length := os.Getenv("MAX_CONTENT_LENGTH"); length != "" {
		if val, err := strconv.Atoi(length); err == nil && val > 0 {
			cfg.MaxContentLength = val
		}
	}

	if limit := os.Getenv("RECENT_LIMIT"); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil && val > 0 {
			cfg.RecentLimit = val
		}
	}

	return cfg
}

// parseOrigins parses comma-separated origins
func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
