package config

import (
	"time"

	appredis "github.com/Proton-105/social-credit-bot/pkg/redis"
)

// Config holds runtime configuration for the social credit bot.
type Config struct {
	AppEnv     string           `mapstructure:"app_env"`
	Bot        BotConfig        `mapstructure:"bot"`
	Admin      AdminConfig      `mapstructure:"admin"`
	Moderation ModerationConfig `mapstructure:"moderation"`
	Store      StoreConfig      `mapstructure:"store"`
	Members    MembersConfig    `mapstructure:"members"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
	Server     ServerConfig     `mapstructure:"server"`
}

// BotConfig describes the Telegram connection.
type BotConfig struct {
	Token         string        `mapstructure:"token" validate:"required"`
	Mode          string        `mapstructure:"mode" validate:"oneof=polling webhook"`
	PollTimeout   time.Duration `mapstructure:"poll_timeout"`
	WebhookListen string        `mapstructure:"webhook_listen" validate:"required_if=Mode webhook"`
	WebhookURL    string        `mapstructure:"webhook_url" validate:"required_if=Mode webhook"`
	Language      string        `mapstructure:"language" validate:"required"`
	// DedupTTL is how long a handled command message is remembered, so
	// that a redelivered update is not executed twice. Zero disables it.
	DedupTTL time.Duration `mapstructure:"dedup_ttl" validate:"gte=0"`
}

// AdminConfig names the single privileged handle.
type AdminConfig struct {
	Handle string `mapstructure:"handle" validate:"required"`
}

// ModerationConfig tunes the expel command.
type ModerationConfig struct {
	ExpelUnverified bool `mapstructure:"expel_unverified"`
	RevokeMessages  bool `mapstructure:"revoke_messages"`
}

// StoreConfig selects the score store backend.
type StoreConfig struct {
	Backend  string          `mapstructure:"backend" validate:"oneof=memory redis postgres"`
	Redis    appredis.Config `mapstructure:"redis"`
	Postgres PostgresConfig  `mapstructure:"postgres"`
}

// PostgresConfig holds connection settings for the postgres backend.
type PostgresConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=0"`
}

// MembersConfig controls how long observed members are remembered.
type MembersConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// LoggerConfig configures slog output.
type LoggerConfig struct {
	Level  string        `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string        `mapstructure:"format" validate:"oneof=json text"`
	File   LogFileConfig `mapstructure:"file"`
}

// LogFileConfig enables rotated file output when Path is set.
type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
}

// SentryConfig toggles error reporting.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn" validate:"required_if=Enabled true"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// ServerConfig configures the ops HTTP server exposing health and metrics.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}
