package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppURL                 string
	DatabaseDSN            string
	RateLimit              int
	RedisAddr              string
	IssuerStore            string
	LogLevel               string
	JWTSecret              string
	AdminAPIKey            string
	SignupBonusPoints      int64
	TokenTTL               time.Duration
	IssuerSweepInterval    time.Duration
	CompanionAddr          string
	ExtensionVersion       string
	ShutdownTimeoutSeconds int
}

func Load() (Config, error) {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")
	redisHost := getEnv("REDIS_HOST", "127.0.0.1")
	redisPort := getEnv("REDIS_PORT", "6379")

	rateLimit, err := getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60)
	if err != nil {
		return Config{}, err
	}
	bonus, err := getEnvAsInt("SIGNUP_BONUS_POINTS", 50)
	if err != nil {
		return Config{}, err
	}
	ttl, err := getEnvAsInt("TOKEN_TTL_SECONDS", 300)
	if err != nil {
		return Config{}, err
	}
	sweep, err := getEnvAsInt("ISSUER_SWEEP_SECONDS", 60)
	if err != nil {
		return Config{}, err
	}
	shutdown, err := getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		DatabaseDSN:            getEnv("DATABASE_DSN", "promote.db"),
		RateLimit:              rateLimit,
		RedisAddr:              fmt.Sprintf("%s:%s", redisHost, redisPort),
		IssuerStore:            getEnv("ISSUER_STORE", "memory"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		AdminAPIKey:            os.Getenv("ADMIN_API_KEY"),
		SignupBonusPoints:      int64(bonus),
		TokenTTL:               time.Duration(ttl) * time.Second,
		IssuerSweepInterval:    time.Duration(sweep) * time.Second,
		CompanionAddr:          getEnv("COMPANION_ADDR", "127.0.0.1:8787"),
		ExtensionVersion:       getEnv("EXTENSION_VERSION", "1.0.0"),
		ShutdownTimeoutSeconds: shutdown,
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN must not be empty")
	}
	if cfg.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.SignupBonusPoints < 0 {
		return fmt.Errorf("SIGNUP_BONUS_POINTS must not be negative")
	}
	if cfg.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL_SECONDS must be greater than 0")
	}
	if cfg.IssuerSweepInterval <= 0 {
		return fmt.Errorf("ISSUER_SWEEP_SECONDS must be greater than 0")
	}
	if cfg.IssuerStore != "memory" && cfg.IssuerStore != "redis" {
		return fmt.Errorf("ISSUER_STORE must be memory or redis")
	}
	return nil
}

// RequireServerSecrets checks the settings only the API server needs.
func (c Config) RequireServerSecrets() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.AdminAPIKey == "" {
		return fmt.Errorf("ADMIN_API_KEY must not be empty")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) (int, error) {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid integer value for %s", key)
		}
		return i, nil
	}
	return defaultVal, nil
}
