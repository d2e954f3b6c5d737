package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("database:\n  dsn: test.sqlite\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.DSN != "test.sqlite" || cfg.Database.Driver != "sqlite" {
		t.Fatalf("database = %+v", cfg.Database)
	}
	if cfg.Search.PageSize != DefaultPageSize {
		t.Fatalf("page size = %d", cfg.Search.PageSize)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Fatalf("cache ttl = %v", cfg.Cache.TTL)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("search:\n  page_size: 10\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CFP_SEARCH_PAGE_SIZE", "50")

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Search.PageSize != 50 {
		t.Fatalf("page size = %d, want 50", cfg.Search.PageSize)
	}
}

func TestValidateRejectsRedisWithoutAddr(t *testing.T) {
	cfg := Config{
		Database: DatabaseConfig{DSN: "x"},
		Cache:    CacheConfig{Backend: "redis"},
		Search:   SearchConfig{PageSize: 25},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate() expected error")
	}
}
