package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	PostgresConn            string
	ServerAddress           string
	JWTSecret               string
	TokenTTL                time.Duration
	WSInsecureSkipVerify    bool
	RejectSiblingQuotations bool
	DefaultLocale           string
}

// Load читает .env (если есть) и переменные окружения.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		PostgresConn:            os.Getenv("POSTGRES_CONN"),
		ServerAddress:           getenv("SERVER_ADDRESS", "0.0.0.0:8080"),
		JWTSecret:               os.Getenv("JWT_SECRET"),
		TokenTTL:                7 * 24 * time.Hour,
		RejectSiblingQuotations: true,
		DefaultLocale:           getenv("DEFAULT_LOCALE", "en"),
	}

	if cfg.PostgresConn == "" {
		return cfg, errors.New("POSTGRES_CONN env variable is not set")
	}
	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET env variable is not set")
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return cfg, fmt.Errorf("invalid TOKEN_TTL %q", v)
		}
		cfg.TokenTTL = ttl
	}

	var err error
	if cfg.WSInsecureSkipVerify, err = getbool("WS_INSECURE_SKIP_VERIFY", false); err != nil {
		return cfg, err
	}
	if cfg.RejectSiblingQuotations, err = getbool("REJECT_SIBLING_QUOTATIONS", true); err != nil {
		return cfg, err
	}
	if cfg.DefaultLocale != "en" && cfg.DefaultLocale != "tr" {
		return cfg, fmt.Errorf("unsupported DEFAULT_LOCALE %q", cfg.DefaultLocale)
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s %q", key, v)
	}
	return b, nil
}
