package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime settings. Environment variables are read first; a
// YAML file named by CONFIG_FILE may override upstream and CORS settings.
type Config struct {
	Port        string `yaml:"port"`
	FrontendURL string `yaml:"frontend_url"`
	DatabaseURL string `yaml:"-"`

	UpstreamBaseURL   string            `yaml:"upstream_base_url"`
	UpstreamTimeout   time.Duration     `yaml:"-"`
	CategoryEndpoints map[string]string `yaml:"category_endpoints"`
	CategoryAliases   map[string]string `yaml:"category_aliases"`
	TrackingURL       string            `yaml:"tracking_url"`

	AllowedOrigins []string      `yaml:"allowed_origins"`
	CacheTTL       time.Duration `yaml:"-"`
	TrendingLimit  int           `yaml:"trending_limit"`

	RateLimit       int           `yaml:"rate_limit"`
	RateLimitWindow time.Duration `yaml:"-"`

	// AdminJWTSecret is the HS256 key for admin bearer tokens (role=admin).
	// Mint one with `go run ./cmd/admin-token -subject <name>`.
	AdminJWTSecret string `yaml:"-"`
}

// fileConfig is the YAML shape; durations are given in seconds.
type fileConfig struct {
	Config             `yaml:",inline"`
	UpstreamTimeoutSec int `yaml:"upstream_timeout_sec"`
	CacheTTLSec        int `yaml:"cache_ttl_sec"`
}

var defaultEndpoints = map[string]string{
	"smartphone": "/smartphones",
	"laptop":     "/laptops",
	"tv":         "/tvs",
	"networking": "/networking",
}

// Load builds the configuration from the environment and the optional YAML
// file.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              envOr("PORT", "8080"),
		FrontendURL:       envOr("FRONTEND_URL", "http://localhost:3000"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		UpstreamBaseURL:   strings.TrimRight(os.Getenv("UPSTREAM_API_URL"), "/"),
		UpstreamTimeout:   time.Duration(envInt("UPSTREAM_TIMEOUT_SEC", 15)) * time.Second,
		CategoryEndpoints: copyMap(defaultEndpoints),
		CategoryAliases:   map[string]string{},
		TrackingURL:       os.Getenv("TRACKING_URL"),
		CacheTTL:          time.Duration(envInt("CACHE_TTL_SEC", 600)) * time.Second,
		TrendingLimit:     envInt("TRENDING_LIMIT", 8),
		RateLimit:         envInt("RATE_LIMIT", 100),
		RateLimitWindow:   time.Minute,
		AdminJWTSecret:    os.Getenv("ADMIN_JWT_SECRET"),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeYAML(path); err != nil {
			return nil, err
		}
	}

	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{cfg.FrontendURL}
	}
	if cfg.TrackingURL == "" && cfg.UpstreamBaseURL != "" {
		cfg.TrackingURL = cfg.UpstreamBaseURL + "/track/feature-click"
	}

	if cfg.UpstreamBaseURL == "" {
		return nil, fmt.Errorf("UPSTREAM_API_URL environment variable is required")
	}
	return cfg, nil
}

func (c *Config) mergeYAML(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if fc.Port != "" {
		c.Port = fc.Port
	}
	if fc.FrontendURL != "" {
		c.FrontendURL = fc.FrontendURL
	}
	if fc.UpstreamBaseURL != "" {
		c.UpstreamBaseURL = strings.TrimRight(fc.UpstreamBaseURL, "/")
	}
	for k, v := range fc.CategoryEndpoints {
		c.CategoryEndpoints[strings.ToLower(k)] = v
	}
	for k, v := range fc.CategoryAliases {
		c.CategoryAliases[strings.ToLower(k)] = strings.ToLower(v)
	}
	if fc.TrackingURL != "" {
		c.TrackingURL = fc.TrackingURL
	}
	if len(fc.AllowedOrigins) > 0 {
		c.AllowedOrigins = fc.AllowedOrigins
	}
	if fc.TrendingLimit > 0 {
		c.TrendingLimit = fc.TrendingLimit
	}
	if fc.RateLimit > 0 {
		c.RateLimit = fc.RateLimit
	}
	if fc.UpstreamTimeoutSec > 0 {
		c.UpstreamTimeout = time.Duration(fc.UpstreamTimeoutSec) * time.Second
	}
	if fc.CacheTTLSec > 0 {
		c.CacheTTL = time.Duration(fc.CacheTTLSec) * time.Second
	}
	return nil
}

// AdminEnabled reports whether admin routes should be mounted.
func (c *Config) AdminEnabled() bool {
	return c.AdminJWTSecret != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
