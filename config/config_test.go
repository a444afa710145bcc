package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "FRONTEND_URL", "DATABASE_URL", "UPSTREAM_API_URL", "UPSTREAM_TIMEOUT_SEC",
		"TRACKING_URL", "CACHE_TTL_SEC", "TRENDING_LIMIT", "RATE_LIMIT", "ADMIN_JWT_SECRET", "CONFIG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadRequiresUpstream(t *testing.T) {
	clearEnv(t)
	if _, err := Load(); err == nil {
		t.Fatal("expected an error without UPSTREAM_API_URL")
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("UPSTREAM_API_URL", "https://catalog.example.com/api/")
	t.Setenv("CACHE_TTL_SEC", "60")
	t.Setenv("RATE_LIMIT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UpstreamBaseURL != "https://catalog.example.com/api" {
		t.Fatalf("upstream = %q", cfg.UpstreamBaseURL)
	}
	if cfg.TrackingURL != "https://catalog.example.com/api/track/feature-click" {
		t.Fatalf("tracking = %q", cfg.TrackingURL)
	}
	if cfg.CacheTTL != time.Minute || cfg.RateLimit != 100 || cfg.Port != "8080" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != cfg.FrontendURL {
		t.Fatalf("origins = %v", cfg.AllowedOrigins)
	}
	if cfg.CategoryEndpoints["tv"] != "/tvs" || cfg.AdminEnabled() {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadMergesYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
upstream_base_url: https://yaml.example.com/
upstream_timeout_sec: 3
cache_ttl_sec: 120
category_endpoints:
  TV: /v2/televisions
category_aliases:
  telly: TV
allowed_origins:
  - https://shop.example.com
  - https://admin.example.com
trending_limit: 4
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("ADMIN_JWT_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UpstreamBaseURL != "https://yaml.example.com" || cfg.UpstreamTimeout != 3*time.Second || cfg.CacheTTL != 2*time.Minute {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.CategoryEndpoints["tv"] != "/v2/televisions" || cfg.CategoryEndpoints["laptop"] != "/laptops" {
		t.Fatalf("endpoints = %v", cfg.CategoryEndpoints)
	}
	if cfg.CategoryAliases["telly"] != "tv" {
		t.Fatalf("aliases = %v", cfg.CategoryAliases)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.TrendingLimit != 4 || !cfg.AdminEnabled() {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadBadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("category_endpoints: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("UPSTREAM_API_URL", "https://catalog.example.com")
	t.Setenv("CONFIG_FILE", path)
	if _, err := Load(); err == nil {
		t.Fatal("expected a parse error")
	}

	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected a read error")
	}
}

func TestInitDBWithoutURL(t *testing.T) {
	db, err := InitDB("")
	if db != nil || err != nil {
		t.Fatalf("expected nil pool and no error, got %v %v", db, err)
	}
}
