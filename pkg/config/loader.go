// Package config provides configuration loading and validation utilities.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultConfigDir = "./configs"

// Load reads configuration from the environment-specific YAML file and
// environment variables, validates it, and returns the resulting Config.
func Load() (*Config, *viper.Viper, error) {
	// .env files are optional
	_ = godotenv.Load(".env.local", ".env")

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	return LoadFrom(defaultConfigDir, env)
}

// LoadFrom reads <dir>/<env>.yaml when present. A missing file is not an
// error: defaults and environment variables are enough to run the bot.
func LoadFrom(dir, env string) (*Config, *viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(fmt.Sprintf("%s/%s.yaml", strings.TrimRight(dir, "/"), env))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !isMissingFile(err) {
		return nil, nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, nil, err
	}
	cfg.AppEnv = env

	return cfg, v, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.token", "")
	v.SetDefault("bot.mode", "polling")
	v.SetDefault("bot.poll_timeout", 10*time.Second)
	v.SetDefault("bot.webhook_listen", "")
	v.SetDefault("bot.webhook_url", "")
	v.SetDefault("bot.language", "ru")
	v.SetDefault("bot.dedup_ttl", 10*time.Minute)

	v.SetDefault("admin.handle", "@Zhdanov_Albert")

	v.SetDefault("moderation.expel_unverified", false)
	v.SetDefault("moderation.revoke_messages", false)

	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.pool_size", 10)
	v.SetDefault("store.redis.min_idle_conns", 1)
	v.SetDefault("store.redis.pool_timeout", 4*time.Second)
	v.SetDefault("store.redis.idle_timeout", 5*time.Minute)
	v.SetDefault("store.redis.max_retries", 3)
	v.SetDefault("store.redis.min_retry_backoff", 8*time.Millisecond)
	v.SetDefault("store.redis.max_retry_backoff", 512*time.Millisecond)
	v.SetDefault("store.postgres.dsn", "")
	v.SetDefault("store.postgres.max_open_conns", 5)

	v.SetDefault("members.ttl", 30*24*time.Hour)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.file.path", "")
	v.SetDefault("logger.file.max_size_mb", 50)
	v.SetDefault("logger.file.max_backups", 5)
	v.SetDefault("logger.file.max_age_days", 14)

	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "")
	v.SetDefault("sentry.sample_rate", 1.0)

	v.SetDefault("server.addr", ":9090")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
}

func isMissingFile(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return true
	}

	return errors.Is(err, fs.ErrNotExist)
}
