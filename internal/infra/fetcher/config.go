package fetcher

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Some storefronts return a bot-detection page for unknown clients, so the
// fetcher identifies itself as a desktop browser.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// PageFetchConfig holds the configuration for product page fetching.
//
// Security settings:
//   - DenyPrivateIPs: Prevents SSRF attacks by blocking private IP addresses
//   - MaxBodySize: Prevents memory exhaustion from oversized responses
//   - MaxRedirects: Prevents infinite redirect loops
//   - Timeout: Prevents resource starvation from slow servers
type PageFetchConfig struct {
	// Timeout is the maximum duration for a single HTTP request.
	// Default: 10s
	Timeout time.Duration

	// MaxBodySize is the maximum HTTP response body size in bytes.
	// Responses exceeding this limit are rejected. Product pages rarely
	// exceed a few megabytes of markup.
	// Default: 5242880 (5MB)
	MaxBodySize int64

	// MaxRedirects is the maximum number of HTTP redirects to follow.
	// Each redirect target is revalidated for SSRF.
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs controls whether to block access to private IP
	// addresses. Should always be true in production.
	// Default: true
	DenyPrivateIPs bool

	// UserAgent is sent with every request.
	UserAgent string
}

// DefaultConfig returns the default configuration for page fetching.
func DefaultConfig() PageFetchConfig {
	return PageFetchConfig{
		Timeout:        10 * time.Second,
		MaxBodySize:    5 * 1024 * 1024, // 5MB
		MaxRedirects:   5,
		DenyPrivateIPs: true,
		UserAgent:      defaultUserAgent,
	}
}

// Validate checks if the configuration values are valid and safe.
func (c *PageFetchConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	if c.UserAgent == "" {
		return fmt.Errorf("user agent must not be empty")
	}

	return nil
}

// LoadConfigFromEnv loads configuration from environment variables.
// If a variable is not set, the default value is used. After loading, the
// configuration is validated.
//
// Environment variables:
//   - PAGE_FETCH_TIMEOUT: duration string, e.g., "10s" (default: 10s)
//   - PAGE_FETCH_MAX_BODY_SIZE: integer in bytes (default: 5242880)
//   - PAGE_FETCH_MAX_REDIRECTS: integer (default: 5)
//   - PAGE_FETCH_DENY_PRIVATE_IPS: "true" or "false" (default: true)
//   - PAGE_FETCH_USER_AGENT: string (default: desktop browser UA)
func LoadConfigFromEnv() (PageFetchConfig, error) {
	cfg := DefaultConfig()

	if val := os.Getenv("PAGE_FETCH_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid PAGE_FETCH_TIMEOUT: %v (expected format: '10s', '1m')", err)
		}
		cfg.Timeout = parsed
	}

	if val := os.Getenv("PAGE_FETCH_MAX_BODY_SIZE"); val != "" {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid PAGE_FETCH_MAX_BODY_SIZE: %v", err)
		}
		cfg.MaxBodySize = parsed
	}

	if val := os.Getenv("PAGE_FETCH_MAX_REDIRECTS"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid PAGE_FETCH_MAX_REDIRECTS: %v", err)
		}
		cfg.MaxRedirects = parsed
	}

	if val := os.Getenv("PAGE_FETCH_DENY_PRIVATE_IPS"); val != "" {
		cfg.DenyPrivateIPs = val == "true"
	}

	if val := os.Getenv("PAGE_FETCH_USER_AGENT"); val != "" {
		cfg.UserAgent = val
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
