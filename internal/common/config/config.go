package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kvolkov/session-gate/internal/common/constants"
)

var (
	ErrMissingRequiredEnv = errors.New("missing required environment variable")
	ErrInvalidJWTSecret   = errors.New("JWT_SECRET must be at least 32 bytes")
)

type Config struct {
	HTTPPort       string
	DatabaseURL    string
	JWTSecret      string
	RequestTimeout time.Duration

	// SessionTTL bounds session lifetime. Zero keeps sessions alive for
	// the whole process lifetime, which is the legacy behavior.
	SessionTTL time.Duration

	LogDir   string
	LogLevel string
}

func Load() (Config, error) {
	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return Config{}, err
	}

	if err := validateJWTSecret(jwtSecret); err != nil {
		return Config{}, err
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return Config{}, err
	}

	return Config{
		HTTPPort:       getEnv("AUTH_HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL:    databaseURL,
		JWTSecret:      jwtSecret,
		RequestTimeout: getDurationEnv("AUTH_REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		SessionTTL:     getDurationEnv("SESSION_TTL", 0),
		LogDir:         os.Getenv("LOG_DIR"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
	}, nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidJWTSecret, len(secret))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
