// Package config loads server settings from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	SessionStoreSQLite = "sqlite"
	SessionStoreRedis  = "redis"

	devSessionSecret   = "grocerybuddy-dev-secret-change-me-please"
	minSecretLenInProd = 32
)

type Config struct {
	Port              int
	DatabaseURL       string
	SessionSecret     string
	AllowedOrigins    []string
	TrustProxyHeaders bool
	Env               string
	LogLevel          string
	BcryptCost        int
	SessionStore      string
	RedisURL          string
	SessionTTL        time.Duration
	JanitorInterval   time.Duration
}

func (c *Config) Production() bool {
	return c.Env == EnvProduction
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads envFile if it exists (an empty name skips it), then the process
// environment, which wins over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 5000)
	v.SetDefault("DATABASE_URL", "grocerybuddy.db")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("ALLOWED_ORIGIN", "")
	v.SetDefault("TRUST_PROXY_HEADERS", false)
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("SESSION_STORE", SessionStoreSQLite)
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("SESSION_JANITOR_INTERVAL", "1h")

	cfg := &Config{
		Port:              v.GetInt("PORT"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		SessionSecret:     v.GetString("SESSION_SECRET"),
		AllowedOrigins:    splitList(v.GetString("ALLOWED_ORIGIN")),
		TrustProxyHeaders: v.GetBool("TRUST_PROXY_HEADERS"),
		Env:               strings.ToLower(v.GetString("APP_ENV")),
		LogLevel:          v.GetString("LOG_LEVEL"),
		BcryptCost:        v.GetInt("BCRYPT_COST"),
		SessionStore:      strings.ToLower(v.GetString("SESSION_STORE")),
		RedisURL:          v.GetString("REDIS_URL"),
		SessionTTL:        v.GetDuration("SESSION_TTL"),
		JanitorInterval:   v.GetDuration("SESSION_JANITOR_INTERVAL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT %d out of range", c.Port)
	}
	if c.DatabaseURL == "" {
		return errors.New("config: DATABASE_URL is required")
	}
	if c.SessionSecret == "" {
		if c.Production() {
			return errors.New("config: SESSION_SECRET is required in production")
		}
		c.SessionSecret = devSessionSecret
	}
	if c.Production() && len(c.SessionSecret) < minSecretLenInProd {
		return fmt.Errorf("config: SESSION_SECRET must be at least %d characters in production", minSecretLenInProd)
	}
	if c.BcryptCost < bcrypt.DefaultCost || c.BcryptCost > 14 {
		return fmt.Errorf("config: BCRYPT_COST must be between %d and 14", bcrypt.DefaultCost)
	}
	switch c.SessionStore {
	case SessionStoreSQLite:
	case SessionStoreRedis:
		if c.RedisURL == "" {
			return errors.New("config: REDIS_URL is required when SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("config: unknown SESSION_STORE %q", c.SessionStore)
	}
	if c.SessionTTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}
	if c.JanitorInterval <= 0 {
		return errors.New("config: SESSION_JANITOR_INTERVAL must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
