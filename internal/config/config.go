package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	ErrMissingSecret      = errors.New("JWT_SECRET is not set")
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is not set")
	ErrUnknownDriver      = errors.New("unknown DB_DRIVER")
)

type Config struct {
	Port       string
	GinMode    string
	DBDriver   string
	SQLitePath string
	// DatabaseURL is only read for the postgres driver.
	DatabaseURL     string
	DBLogLevel      string
	RedisURL        string
	JWTSecret       string
	SessionPasscode string
	TokenTTL        time.Duration
	// CORSOrigins is "*" or a list of allowed browser origins.
	CORSOrigins []string
}

// Load reads .env.local, then .env, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, falling back to defaults.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:            get("PORT", "8080"),
		GinMode:         get("GIN_MODE", "debug"),
		DBDriver:        strings.ToLower(get("DB_DRIVER", DriverSQLite)),
		SQLitePath:      get("SQLITE_PATH", "chat.db"),
		DatabaseURL:     get("DATABASE_URL", ""),
		DBLogLevel:      strings.ToLower(get("DB_LOG_LEVEL", "warn")),
		RedisURL:        get("REDIS_URL", ""),
		JWTSecret:       get("JWT_SECRET", ""),
		SessionPasscode: get("SESSION_PASSCODE", ""),
		TokenTTL:        24 * time.Hour,
	}

	for _, origin := range strings.Split(get("CORS_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	if v := get("TOKEN_TTL", ""); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config: TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = ttl
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}

	switch cfg.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, ErrMissingDatabaseURL
		}
	default:
		return nil, fmt.Errorf("config: %w %q", ErrUnknownDriver, cfg.DBDriver)
	}

	return cfg, nil
}
