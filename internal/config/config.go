package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrJWTSecretRequired = errors.New("JWT_SECRET is required")
	ErrUnknownDriver     = errors.New("unknown database driver")
	ErrUnknownBackend    = errors.New("unknown blob backend")
	ErrUnknownSameSite   = errors.New("unknown cookie same-site mode")
	ErrS3BucketRequired  = errors.New("S3_BUCKET is required for the s3 blob backend")
)

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		CORS
		BlobStore
		BlobSweep
		TTS
		Translate
	}

	HTTP struct {
		Port          int32
		Host          string
		MaxBodyBytes  int64
		AuthRateLimit int // requests per minute per IP on /auth, 0 disables
	}
	Global struct {
		ShutdownTimeoutInSeconds int
		LogLevel                 string
		LogFormat                string // "json" or "text"
		Environment              string
	}
	Database struct {
		Driver   string // "sqlite" or "postgres"
		URL      string // file path for sqlite, DSN for postgres
		LogLevel string // gorm logger: silent, error, warn, info
	}
	Auth struct {
		JWTSecret      string
		JWTIssuer      string
		TokenExpiry    time.Duration
		BcryptCost     int
		SecureCookies  bool
		CookieSameSite string // strict, lax or none

		MaxLoginAttempts int           // Max failed attempts before lockout
		RateLimitWindow  time.Duration // Time window for counting attempts
		LockoutDuration  time.Duration // How long to lock out
	}
	CORS struct {
		AllowedOrigins []string
	}
	BlobStore struct {
		Backend     string // "gorm" or "s3"
		S3Bucket    string
		S3Region    string
		S3Endpoint  string // custom endpoint for MinIO and friends
		S3AccessKey string
		S3SecretKey string
		S3Prefix    string
		S3PathStyle bool
	}
	BlobSweep struct {
		Enabled  bool
		Schedule string        // Cron format: "0 * * * *" = hourly
		Grace    time.Duration // blobs younger than this are never swept
	}
	TTS struct {
		BaseURL   string
		Voice     string
		Timeout   time.Duration
		RateLimit float64 // requests per second, 0 = unlimited
	}
	Translate struct {
		BaseURL   string
		Timeout   time.Duration
		RateLimit float64
	}
)

// SameSite maps the configured cookie mode to net/http's value.
func (a Auth) SameSite() http.SameSite {
	switch strings.ToLower(a.CookieSameSite) {
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}

// IsDevelopment reports whether the service runs with development defaults.
func (g Global) IsDevelopment() bool {
	return g.Environment == "" || g.Environment == "development"
}

// loadEnvFile loads a .env file into the process environment.
// A missing file is fine; variables already set always win.
func loadEnvFile(path string) {
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not load env file", "path", path, "error", err)
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func NewConfig() *Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	loadEnvFile(envFile)

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("server_port", 3000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("http_max_body_bytes", 50<<20) // 50 MiB, books travel inline
	v.SetDefault("http_auth_rate_limit", 60)
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("environment", "development")

	v.SetDefault("database_driver", DatabaseDriverSQLite)
	v.SetDefault("database_url", DefaultDatabasePath)
	v.SetDefault("database_log_level", "warn")

	// Auth defaults
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_issuer", "")
	v.SetDefault("auth_token_expiry", "720h") // 30 days
	v.SetDefault("auth_bcrypt_cost", 10)
	v.SetDefault("auth_secure_cookies", true)
	v.SetDefault("auth_cookie_samesite", "strict")
	v.SetDefault("auth_max_login_attempts", 5)
	v.SetDefault("auth_rate_limit_window", "15m")
	v.SetDefault("auth_lockout_duration", "30m")

	v.SetDefault("frontend_url", "http://localhost:5173")

	// Blob storage defaults
	v.SetDefault("blob_backend", BlobBackendGorm)
	v.SetDefault("s3_region", "us-east-1")
	v.SetDefault("s3_prefix", "books/")
	v.SetDefault("s3_use_path_style", true)
	v.SetDefault("blob_sweep_enabled", true)
	v.SetDefault("blob_sweep_schedule", "0 * * * *") // Hourly at :00
	v.SetDefault("blob_sweep_grace", "1h")

	// Upstream services
	v.SetDefault("tts_api_url", "http://localhost:5002")
	v.SetDefault("tts_voice", "default")
	v.SetDefault("tts_timeout", "60s")
	v.SetDefault("tts_rate_limit", 0)
	v.SetDefault("translate_api_url", "http://localhost:5000")
	v.SetDefault("translate_timeout", "30s")
	v.SetDefault("translate_rate_limit", 0)

	return &Config{
		HTTP: HTTP{
			Port:          v.GetInt32("SERVER_PORT"),
			Host:          v.GetString("HOST"),
			MaxBodyBytes:  v.GetInt64("HTTP_MAX_BODY_BYTES"),
			AuthRateLimit: v.GetInt("HTTP_AUTH_RATE_LIMIT"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
			LogLevel:                 v.GetString("LOG_LEVEL"),
			LogFormat:                v.GetString("LOG_FORMAT"),
			Environment:              v.GetString("ENVIRONMENT"),
		},
		Database: Database{
			Driver:   strings.ToLower(v.GetString("DATABASE_DRIVER")),
			URL:      v.GetString("DATABASE_URL"),
			LogLevel: v.GetString("DATABASE_LOG_LEVEL"),
		},
		Auth: Auth{
			JWTSecret:        v.GetString("JWT_SECRET"),
			JWTIssuer:        v.GetString("JWT_ISSUER"),
			TokenExpiry:      v.GetDuration("AUTH_TOKEN_EXPIRY"),
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:    v.GetBool("AUTH_SECURE_COOKIES"),
			CookieSameSite:   strings.ToLower(v.GetString("AUTH_COOKIE_SAMESITE")),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
		CORS: CORS{
			AllowedOrigins: splitList(v.GetString("FRONTEND_URL")),
		},
		BlobStore: BlobStore{
			Backend:     strings.ToLower(v.GetString("BLOB_BACKEND")),
			S3Bucket:    v.GetString("S3_BUCKET"),
			S3Region:    v.GetString("S3_REGION"),
			S3Endpoint:  v.GetString("S3_ENDPOINT"),
			S3AccessKey: v.GetString("S3_ACCESS_KEY"),
			S3SecretKey: v.GetString("S3_SECRET_KEY"),
			S3Prefix:    v.GetString("S3_PREFIX"),
			S3PathStyle: v.GetBool("S3_USE_PATH_STYLE"),
		},
		BlobSweep: BlobSweep{
			Enabled:  v.GetBool("BLOB_SWEEP_ENABLED"),
			Schedule: v.GetString("BLOB_SWEEP_SCHEDULE"),
			Grace:    v.GetDuration("BLOB_SWEEP_GRACE"),
		},
		TTS: TTS{
			BaseURL:   strings.TrimRight(v.GetString("TTS_API_URL"), "/"),
			Voice:     v.GetString("TTS_VOICE"),
			Timeout:   v.GetDuration("TTS_TIMEOUT"),
			RateLimit: v.GetFloat64("TTS_RATE_LIMIT"),
		},
		Translate: Translate{
			BaseURL:   strings.TrimRight(v.GetString("TRANSLATE_API_URL"), "/"),
			Timeout:   v.GetDuration("TRANSLATE_TIMEOUT"),
			RateLimit: v.GetFloat64("TRANSLATE_RATE_LIMIT"),
		},
	}
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return ErrJWTSecretRequired
	}

	switch c.Database.Driver {
	case DatabaseDriverSQLite, DatabaseDriverPostgres:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Database.Driver)
	}

	switch c.BlobStore.Backend {
	case BlobBackendGorm:
	case BlobBackendS3:
		if c.BlobStore.S3Bucket == "" {
			return ErrS3BucketRequired
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.BlobStore.Backend)
	}

	switch c.Auth.CookieSameSite {
	case "strict", "lax", "none":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSameSite, c.Auth.CookieSameSite)
	}

	return nil
}
