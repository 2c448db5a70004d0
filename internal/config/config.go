package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	Addr     string
	LogLevel string
	DBDSN    string

	IdentityAPIKey    string
	GoogleWebClientID string
	AppleServiceID    string

	// SessionCachePath and SessionCacheKey enable the encrypted on-disk
	// session cache. The key is 32 bytes, hex encoded in the environment.
	SessionCachePath string
	SessionCacheKey  []byte
}

// Load reads a .env file when present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return LoadFromEnv(os.Getenv)
}

func LoadFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Env:               getenv("APP_ENV"),
		Addr:              getenv("APP_ADDR"),
		LogLevel:          getenv("APP_LOG_LEVEL"),
		DBDSN:             getenv("APP_DB_DSN"),
		IdentityAPIKey:    getenv("APP_IDENTITY_API_KEY"),
		GoogleWebClientID: getenv("APP_GOOGLE_WEB_CLIENT_ID"),
		AppleServiceID:    getenv("APP_APPLE_SERVICE_ID"),
		SessionCachePath:  getenv("APP_SESSION_CACHE_PATH"),
	}

	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8080"
	}

	switch cfg.Env {
	case "dev", "prod", "test":
	default:
		return Config{}, errors.New("APP_ENV: must be one of dev, test, prod")
	}

	keyRaw := getenv("APP_SESSION_CACHE_KEY")
	if keyRaw != "" {
		key, err := hex.DecodeString(keyRaw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_SESSION_CACHE_KEY: %w", err)
		}
		if len(key) != 32 {
			return Config{}, errors.New("APP_SESSION_CACHE_KEY: must decode to 32 bytes")
		}
		cfg.SessionCacheKey = key
	}
	if cfg.SessionCachePath != "" && cfg.SessionCacheKey == nil {
		return Config{}, errors.New("APP_SESSION_CACHE_KEY: required when APP_SESSION_CACHE_PATH is set")
	}

	if cfg.IsProd() {
		if cfg.DBDSN == "" {
			return Config{}, errors.New("APP_DB_DSN: required in prod")
		}
		if cfg.IdentityAPIKey == "" {
			return Config{}, errors.New("APP_IDENTITY_API_KEY: required in prod")
		}
	}

	return cfg, nil
}

func (c Config) IsProd() bool { return c.Env == "prod" }
