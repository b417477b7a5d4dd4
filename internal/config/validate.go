package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// validate runs every check and reports all failures together, so an
// operator fixes a broken .env in one pass.
func (c *Config) validate() error {
	checks := []func() error{
		c.checkDatabase,
		c.checkListen,
		c.checkLogLevel,
		c.checkCORS,
		c.checkUploads,
		c.checkEnrichment,
		c.checkLimits,
	}

	var errs []error
	for _, check := range checks {
		if err := check(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (c *Config) checkDatabase() error {
	raw := c.DatabaseURL.Value()
	if raw == "" {
		return errors.New("DATABASE_URL is required")
	}

	u, err := url.Parse(raw)
	switch {
	case err != nil:
		return fmt.Errorf("DATABASE_URL is not a valid URL: %w", err)
	case u.Scheme != "postgres" && u.Scheme != "postgresql":
		return errors.New("DATABASE_URL scheme must be postgres:// or postgresql://")
	case u.Hostname() == "":
		return errors.New("DATABASE_URL must include a host")
	case !isLoopback(u.Hostname()) && u.Query().Get("sslmode") == "disable":
		return fmt.Errorf("DATABASE_URL sslmode=disable is not allowed for non-local host %q", u.Hostname())
	}

	return nil
}

// listenHosts are loopback for workstation installs and wildcards for
// containers.
var listenHosts = []string{"127.0.0.1", "::1", "localhost", "0.0.0.0", "::"}

func (c *Config) checkListen() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid integer: %w", err)
	}
	if port < 1 || port > 65535 {
		return errors.New("PORT must be between 1 and 65535")
	}

	if !slices.Contains(listenHosts, c.ListenHost) {
		return fmt.Errorf("LISTEN_HOST must be a loopback address or 0.0.0.0/:: for containers (got %q)", c.ListenHost)
	}

	return nil
}

func (c *Config) checkLogLevel() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}

	return nil
}

func (c *Config) checkCORS() error {
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return errors.New("CORS_ORIGINS must not contain wildcard '*'")
		}
		if strings.ContainsAny(origin, "*?[]") {
			return fmt.Errorf("CORS_ORIGINS must not contain glob characters (*?[]), got %q", origin)
		}
		if u, err := url.Parse(origin); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("CORS_ORIGINS contains invalid origin %q (must have scheme and host)", origin)
		}
	}

	return nil
}

// checkUploads guards the photo store: files land in UPLOAD_DIR and are
// linked from PUBLIC_BASE_URL.
func (c *Config) checkUploads() error {
	if strings.TrimSpace(c.UploadDir) == "" {
		return errors.New("UPLOAD_DIR must not be empty")
	}

	u, err := url.Parse(c.PublicBaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("PUBLIC_BASE_URL must be an absolute http(s) URL, got %q", c.PublicBaseURL)
	}
	if u.Scheme == "http" && !isLoopback(u.Hostname()) {
		return errors.New("PUBLIC_BASE_URL must use HTTPS for non-localhost hosts")
	}

	return nil
}

func (c *Config) checkEnrichment() error {
	if c.EnrichMode != EnrichModeCache && c.EnrichMode != EnrichModeStore {
		return fmt.Errorf("ENRICH_MODE must be %q or %q, got %q", EnrichModeCache, EnrichModeStore, c.EnrichMode)
	}
	if c.ReferenceCacheTTL < time.Second || c.ReferenceCacheTTL > 24*time.Hour {
		return errors.New("REFERENCE_CACHE_TTL must be between 1s and 24h")
	}

	return nil
}

func (c *Config) checkLimits() error {
	var errs []error
	if c.DBMaxConns < 2 || c.DBMaxConns > 200 {
		errs = append(errs, errors.New("DB_MAX_CONNS must be between 2 and 200"))
	}
	if c.RateLimit <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT must be positive"))
	}
	if c.RateBurst < 1 {
		errs = append(errs, errors.New("RATE_BURST must be at least 1"))
	}

	return errors.Join(errs...)
}

func isLoopback(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}
