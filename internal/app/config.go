package app

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/openhire/jobboard/pkg/tokenx"
)

// ErrMissingAccessSecret aborts startup: running without a signing secret
// would make every issued token forgeable by anyone who guesses the
// fallback.
var ErrMissingAccessSecret = errors.New("ACCESS_TOKEN_SECRET is not set")

type Config struct {
	AccessSecret  string        // Required: HMAC secret for access tokens
	RefreshSecret string        // Optional: HMAC secret for refresh tokens (default: derived from access secret)
	AccessTTL     time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTTL    time.Duration // Optional: refresh token lifetime (default: 168h)

	DatabaseFile    string // Optional: path to SQLite database file (default: ./jobboard.db)
	SecurityLogFile string // Optional: path to the append-only security log (default: logs/security.log)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	CORSAllowedOrigins []string // Optional: origins allowed to send credentialed requests
	MaxBodyBytes       int64    // Optional: request body cap in bytes (default: 10240)
}

func LoadConfig() (Config, error) {
	cfg := Config{
		AccessSecret:        os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshSecret:       os.Getenv("REFRESH_TOKEN_SECRET"),
		AccessTTL:           getEnvDurationOrDefault("ACCESS_TOKEN_TTL", tokenx.DefaultAccessTTL),
		RefreshTTL:          getEnvDurationOrDefault("REFRESH_TOKEN_TTL", tokenx.DefaultRefreshTTL),
		DatabaseFile:        getEnvOrDefault("DATABASE_FILE", "jobboard.db"),
		SecurityLogFile:     getEnvOrDefault("SECURITY_LOG_FILE", "logs/security.log"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		MaxBodyBytes:        int64(getEnvIntOrDefault("MAX_BODY_BYTES", 10240)),
	}

	if cfg.AccessSecret == "" {
		return Config{}, ErrMissingAccessSecret
	}

	// A dedicated refresh secret keeps the two token types from ever being
	// interchangeable; derive one when the operator didn't provide it.
	if cfg.RefreshSecret == "" {
		cfg.RefreshSecret = cfg.AccessSecret + "-refresh"
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	} else if cfg.Env == "dev" {
		cfg.CORSAllowedOrigins = []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:8080",
		}
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
