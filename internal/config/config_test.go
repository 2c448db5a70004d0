package config

import (
	"strings"
	"testing"
)

func getenvFrom(env map[string]string) func(string) string {
	return func(k string) string { return env[k] }
}

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv(getenvFrom(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Env != "dev" || cfg.Addr != "127.0.0.1:8080" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFromEnvRejectsUnknownEnv(t *testing.T) {
	_, err := LoadFromEnv(getenvFrom(map[string]string{"APP_ENV": "staging"}))
	if err == nil || !strings.Contains(err.Error(), "APP_ENV") {
		t.Fatalf("expected APP_ENV error, got %v", err)
	}
}

func TestLoadFromEnvProdRequirements(t *testing.T) {
	_, err := LoadFromEnv(getenvFrom(map[string]string{"APP_ENV": "prod"}))
	if err == nil || !strings.Contains(err.Error(), "APP_DB_DSN") {
		t.Fatalf("expected APP_DB_DSN error, got %v", err)
	}

	_, err = LoadFromEnv(getenvFrom(map[string]string{
		"APP_ENV":    "prod",
		"APP_DB_DSN": "postgres://localhost/alumnihub",
	}))
	if err == nil || !strings.Contains(err.Error(), "APP_IDENTITY_API_KEY") {
		t.Fatalf("expected APP_IDENTITY_API_KEY error, got %v", err)
	}

	cfg, err := LoadFromEnv(getenvFrom(map[string]string{
		"APP_ENV":              "prod",
		"APP_DB_DSN":           "postgres://localhost/alumnihub",
		"APP_IDENTITY_API_KEY": "key-123",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.IsProd() {
		t.Fatalf("expected prod config")
	}
}

func TestLoadFromEnvSessionCacheKey(t *testing.T) {
	env := map[string]string{
		"APP_SESSION_CACHE_PATH": "/tmp/session.bin",
	}
	if _, err := LoadFromEnv(getenvFrom(env)); err == nil {
		t.Fatalf("expected missing key error")
	}

	env["APP_SESSION_CACHE_KEY"] = "zz"
	if _, err := LoadFromEnv(getenvFrom(env)); err == nil {
		t.Fatalf("expected hex error")
	}

	env["APP_SESSION_CACHE_KEY"] = strings.Repeat("ab", 32)
	cfg, err := LoadFromEnv(getenvFrom(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.SessionCacheKey) != 32 || cfg.SessionCachePath != "/tmp/session.bin" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}
