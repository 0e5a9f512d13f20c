package config

import (
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watch re-reads the config file whenever it changes and hands every valid
// result to apply. Invalid edits are logged and ignored so the running
// configuration stays in effect.
func Watch(v *viper.Viper, log *slog.Logger, apply func(*Config)) bool {
	if v == nil || apply == nil {
		return false
	}
	if log == nil {
		log = slog.Default()
	}

	file := v.ConfigFileUsed()
	if file == "" {
		return false
	}
	if _, err := os.Stat(file); err != nil {
		log.Debug("config file not present, hot reload disabled", slog.String("file", file))
		return false
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := decode(v)
		if err != nil {
			log.Error("config reload rejected", slog.String("file", e.Name), slog.Any("error", err))
			return
		}

		log.Info("config reloaded", slog.String("file", e.Name), slog.String("op", e.Op.String()))
		apply(cfg)
	})
	v.WatchConfig()

	return true
}
