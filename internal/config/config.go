package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters. Sessions are opaque DB-backed
// tokens with a fixed expiry; logout deletes the row.
type AuthConfig struct {
	SessionCookieName string
	SessionTTLDays    int
	BcryptCost        int
	SecureCookies     bool
}

// RateLimitConfig defines fixed-window limits for the throttled endpoints.
type RateLimitConfig struct {
	LoginLimit       int
	LoginWindowSec   int
	LookupLimit      int
	LookupWindowSec  int
	UseRedis         bool
	MemorySweepEvery int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "case-portal"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			SessionCookieName: getEnv("AUTH_SESSION_COOKIE", "session_token"),
			SessionTTLDays:    getEnvAsInt("AUTH_SESSION_TTL_DAYS", 30),
			BcryptCost:        getEnvAsInt("AUTH_BCRYPT_COST", 12),
			SecureCookies:     getEnvAsBool("AUTH_SECURE_COOKIES", false),
		},
		RateLimit: RateLimitConfig{
			LoginLimit:       getEnvAsInt("RATE_LIMIT_LOGIN", 5),
			LoginWindowSec:   getEnvAsInt("RATE_LIMIT_LOGIN_WINDOW_SECONDS", 60),
			LookupLimit:      getEnvAsInt("RATE_LIMIT_LOOKUP", 10),
			LookupWindowSec:  getEnvAsInt("RATE_LIMIT_LOOKUP_WINDOW_SECONDS", 60),
			UseRedis:         getEnvAsBool("RATE_LIMIT_USE_REDIS", false),
			MemorySweepEvery: getEnvAsInt("RATE_LIMIT_MEMORY_SWEEP_SECONDS", 300),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// SessionTTL returns the configured session lifetime.
func (a AuthConfig) SessionTTL() time.Duration {
	days := a.SessionTTLDays
	if days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}

// LoginWindow returns the login rate-limit window.
func (r RateLimitConfig) LoginWindow() time.Duration {
	return time.Duration(r.LoginWindowSec) * time.Second
}

// LookupWindow returns the lookup rate-limit window.
func (r RateLimitConfig) LookupWindow() time.Duration {
	return time.Duration(r.LookupWindowSec) * time.Second
}

// SweepInterval returns how often the in-memory limiter store evicts expired
// windows.
func (r RateLimitConfig) SweepInterval() time.Duration {
	return time.Duration(r.MemorySweepEvery) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
