package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Storage  StorageConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	PublicURL   string
}

// DatabaseConfig takes either URL or the discrete DB* fields. SimpleProtocol
// is needed behind transaction-mode poolers, which cannot keep prepared
// statements.
type DatabaseConfig struct {
	URL string

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	SimpleProtocol bool
	SlowQuery      time.Duration

	MigrationsDir string
}

// AuthConfig points at the hosted auth service. JWTSecret is the secret the
// service signs access tokens with.
type AuthConfig struct {
	BaseURL   string
	AnonKey   string
	JWTSecret string
	Timeout   time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type NATSConfig struct {
	URL         string
	ConnTimeout time.Duration
}

type StorageConfig struct {
	RootDir       string
	SigningSecret string
	URLTTL        time.Duration
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// Load reads the process environment, after merging an optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optDefault := func(key, def string) string {
		if v := opt(key); v != "" {
			return v
		}
		return def
	}
	dur := func(key string, def time.Duration) time.Duration {
		raw := opt(key)
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			invalid = append(invalid, key)
			return def
		}
		return d
	}
	flag := func(key string) bool {
		raw := opt(key)
		if raw == "" {
			return false
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, key)
		}
		return v
	}
	num := func(key string, def int) int {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		PublicURL:   strings.TrimRight(optDefault("PUBLIC_URL", "http://localhost:8080"), "/"),
	}

	cfg.Database = DatabaseConfig{
		URL:        opt("DATABASE_URL"),
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  optDefault("DB_SSL_MODE", "require"),

		ConnectTimeout:        dur("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(num("DB_POOL_MAX_CONNS", 10)),
		PoolMinConns:          int32(num("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   dur("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		PoolMaxConnIdleTime:   dur("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
		PoolHealthCheckPeriod: dur("DB_POOL_HEALTH_CHECK_PERIOD", time.Minute),

		SimpleProtocol: flag("DB_SIMPLE_PROTOCOL"),
		SlowQuery:      dur("DB_SLOW_QUERY", 500*time.Millisecond),

		MigrationsDir: optDefault("DB_MIGRATIONS_DIR", "migrations"),
	}

	cfg.Auth = AuthConfig{
		BaseURL:   strings.TrimRight(req("AUTH_BASE_URL"), "/"),
		AnonKey:   req("AUTH_ANON_KEY"),
		JWTSecret: req("AUTH_JWT_SECRET"),
		Timeout:   dur("AUTH_TIMEOUT", 5*time.Second),
	}

	cfg.Redis = RedisConfig{
		Host:     optDefault("REDIS_HOST", "localhost"),
		Port:     optDefault("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD"),
		DB:       num("REDIS_DB", 0),
		TTL:      dur("REDIS_TTL", 10*time.Minute),
	}

	cfg.NATS = NATSConfig{
		URL:         opt("NATS_URL"),
		ConnTimeout: dur("NATS_CONN_TIMEOUT", 5*time.Second),
	}

	cfg.Storage = StorageConfig{
		RootDir:       optDefault("STORAGE_ROOT", "data/storage"),
		SigningSecret: opt("STORAGE_SIGNING_SECRET"),
		URLTTL:        dur("STORAGE_URL_TTL", time.Hour),
	}
	if cfg.Database.URL == "" {
		for _, key := range []string{"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER"} {
			if opt(key) == "" {
				missing = append(missing, key+" (or DATABASE_URL)")
			}
		}
	}
	if cfg.Storage.SigningSecret == "" {
		cfg.Storage.SigningSecret = cfg.Auth.JWTSecret
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.App.Environment), "production")
}
