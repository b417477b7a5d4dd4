// Package config provides environment-driven configuration for the GMAO server.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Enrichment modes.
const (
	EnrichModeCache = "cache"
	EnrichModeStore = "store"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	DatabaseURL       Secret
	DBMaxConns        int
	Port              string
	ListenHost        string
	CORSOrigins       []string
	LogLevel          string
	UploadDir         string
	PublicBaseURL     string
	EnrichMode        string
	EnrichConcurrency int
	ReferenceCacheTTL time.Duration
	RateLimit         float64
	RateBurst         int
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}

	return nil
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:   Secret(envOrDefault("DATABASE_URL", "")),
		Port:          envOrDefault("PORT", "3030"),
		ListenHost:    envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:      envOrDefault("LOG_LEVEL", "info"),
		UploadDir:     envOrDefault("UPLOAD_DIR", "./uploads"),
		PublicBaseURL: strings.TrimRight(envOrDefault("PUBLIC_BASE_URL", "http://localhost:3030/uploads"), "/"),
		EnrichMode:    envOrDefault("ENRICH_MODE", EnrichModeCache),
	}

	var err error

	cfg.EnrichConcurrency, err = strconv.Atoi(envOrDefault("ENRICH_CONCURRENCY", "0"))
	if err != nil || cfg.EnrichConcurrency < 0 || cfg.EnrichConcurrency > 256 {
		return nil, fmt.Errorf("ENRICH_CONCURRENCY must be an integer between 0 and 256")
	}

	cfg.DBMaxConns, err = strconv.Atoi(envOrDefault("DB_MAX_CONNS", "20"))
	if err != nil {
		return nil, fmt.Errorf("DB_MAX_CONNS must be an integer: %w", err)
	}

	cfg.ReferenceCacheTTL, err = time.ParseDuration(envOrDefault("REFERENCE_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("REFERENCE_CACHE_TTL must be a duration: %w", err)
	}

	cfg.RateLimit, err = strconv.ParseFloat(envOrDefault("RATE_LIMIT", "20"), 64)
	if err != nil {
		return nil, fmt.Errorf("RATE_LIMIT must be a number: %w", err)
	}

	cfg.RateBurst, err = strconv.Atoi(envOrDefault("RATE_BURST", "40"))
	if err != nil {
		return nil, fmt.Errorf("RATE_BURST must be an integer: %w", err)
	}

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3000")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
