package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultAuthRateLimit  = 5
	defaultAuthRateWindow = 15 * time.Minute
)

type Config struct {
	// Application
	AppName         string
	AppEnv          string
	Port            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	// Database (PostgreSQL with PostGIS)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret      string
	JWTExpiry      time.Duration
	AuthRateLimit  int
	AuthRateWindow time.Duration
	// Honour X-Forwarded-For / X-Real-IP; enable only behind a proxy that sets them
	TrustProxyHeaders bool

	// Rate limit counters (optional, in-memory when empty)
	RedisURL string

	// Observability (optional)
	SentryDSN string

	// Storage for case images (optional, S3-compatible)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: MinIO, R2, DO Spaces, etc.
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:         envString("APP_NAME", "rescuelink"),
		AppEnv:          envRequired("APP_ENV"), // 'development' or 'production'
		Port:            envString("PORT", "8090"),
		RequestTimeout:  envDuration("REQUEST_TIMEOUT", defaultRequestTimeout),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		// Database
		DBDriver:     envString("DB_DRIVER", "pgx"),
		DBConnection: envRequired("DB_CONNECTION"),

		// Security
		JWTSecret:         envRequired("JWT_SECRET"),
		JWTExpiry:         envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days
		AuthRateLimit:     envInt("AUTH_RATE_LIMIT", defaultAuthRateLimit),
		AuthRateWindow:    envDuration("AUTH_RATE_WINDOW", defaultAuthRateWindow),
		TrustProxyHeaders: envBool("TRUST_PROXY_HEADERS", false),

		RedisURL:  envString("REDIS_URL", ""),
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		S3Region:    envString("S3_REGION", "us-east-1"),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
	}

	cfg.fallbackNonPositive()

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction refuses to boot a production deployment with a guessable signing key.
func validateProduction(cfg *Config) {
	if len(cfg.JWTSecret) < 32 {
		slog.Error("production deployment requires JWT_SECRET of at least 32 bytes")
		os.Exit(1)
	}
}

// fallbackNonPositive restores defaults for limits and durations that must be above zero.
func (c *Config) fallbackNonPositive() {
	if c.AuthRateLimit <= 0 {
		slog.Warn("config AUTH_RATE_LIMIT must be positive, using default", "value", c.AuthRateLimit, "default", defaultAuthRateLimit)
		c.AuthRateLimit = defaultAuthRateLimit
	}
	if c.AuthRateWindow <= 0 {
		slog.Warn("config AUTH_RATE_WINDOW must be positive, using default", "value", c.AuthRateWindow, "default", defaultAuthRateWindow)
		c.AuthRateWindow = defaultAuthRateWindow
	}
	if c.RequestTimeout <= 0 {
		slog.Warn("config REQUEST_TIMEOUT must be positive, using default", "value", c.RequestTimeout, "default", defaultRequestTimeout)
		c.RequestTimeout = defaultRequestTimeout
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// StorageEnabled reports whether case image uploads can be served.
func (c *Config) StorageEnabled() bool {
	return c.S3Bucket != ""
}
