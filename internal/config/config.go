package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort            = "8080"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultJWTTTL          = "24h"
	defaultRateLimitWindow = "24h"
	defaultRateLimit       = "true"
	defaultFrontendURL     = "https://opinor.app"
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
	defaultQRMilestoneStep = 10
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	// RateLimitEnabled gates the one-feedback-per-IP-per-24h guard. Both
	// modes are supported deployments, which is why this is a switch and
	// not a constant.
	RateLimitEnabled bool
	RateLimitWindow  time.Duration

	// LexiconPath overrides the embedded keyword lexicon when set.
	LexiconPath string

	// RedisAddr enables QR scan counters when set; empty disables them.
	RedisAddr     string
	RedisPassword string

	FrontendURL     string
	QRMilestoneStep int64

	LogLevel  string
	LogFormat string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:          strings.ToLower(getEnv("APP_ENV", "dev")),
		Port:            getEnv("PORT", defaultPort),
		DatabaseURL:     getEnv("DATABASE_URL", "opinor.db"),
		JWTSecret:       strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret)),
		LexiconPath:     strings.TrimSpace(os.Getenv("KEYWORD_LEXICON_PATH")),
		RedisAddr:       strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", defaultFrontendURL), "/"),
		LogLevel:    getEnv("LOG_LEVEL", defaultLogLevel),
		LogFormat:   getEnv("LOG_FORMAT", defaultLogFormat),
	}

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}

	cfg.QRMilestoneStep, err = parseInt64Env("QR_MILESTONE_STEP", defaultQRMilestoneStep)
	if err != nil {
		return nil, err
	}

	cfg.RateLimitEnabled = parseBoolEnv("RATE_LIMIT_ENABLED", defaultRateLimit)
	cfg.RateLimitWindow, err = parseDurationEnv("RATE_LIMIT_WINDOW", defaultRateLimitWindow)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be > 0")
	}
	if cfg.QRMilestoneStep <= 0 {
		return fmt.Errorf("QR_MILESTONE_STEP must be > 0")
	}
	if isProdLike(cfg.AppEnv) && cfg.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func isProdLike(env string) bool {
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseInt64Env(name string, fallback int64) (int64, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, raw, err)
	}
	return v, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
