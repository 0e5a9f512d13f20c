package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Proton-105/social-credit-bot/internal/bot"
	"github.com/Proton-105/social-credit-bot/internal/command"
	"github.com/Proton-105/social-credit-bot/internal/credit"
	"github.com/Proton-105/social-credit-bot/internal/database"
	"github.com/Proton-105/social-credit-bot/internal/health"
	"github.com/Proton-105/social-credit-bot/internal/i18n"
	"github.com/Proton-105/social-credit-bot/internal/idempotency"
	"github.com/Proton-105/social-credit-bot/internal/lifecycle"
	"github.com/Proton-105/social-credit-bot/internal/members"
	"github.com/Proton-105/social-credit-bot/migrations"
	"github.com/Proton-105/social-credit-bot/pkg/config"
	"github.com/Proton-105/social-credit-bot/pkg/graceful"
	"github.com/Proton-105/social-credit-bot/pkg/logger"
	appredis "github.com/Proton-105/social-credit-bot/pkg/redis"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "social-credit-bot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: sentryEnvironment(cfg),
			SampleRate:  cfg.Sentry.SampleRate,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
	}

	appLog := logger.New(*cfg)
	log := appLog.Logger
	slog.SetDefault(log)

	log.Info("starting social credit bot",
		slog.String("env", cfg.AppEnv),
		slog.String("mode", cfg.Bot.Mode),
		slog.String("store", cfg.Store.Backend),
	)

	shutdown := lifecycle.NewShutdown(log)
	shutdown.Register("logger", func(context.Context) error { return appLog.Close() })
	if cfg.Sentry.Enabled {
		shutdown.Register("sentry", func(context.Context) error {
			sentry.Flush(2 * time.Second)
			return nil
		})
	}

	checker := health.NewChecker(log)

	store, directory, guard, err := openBackends(ctx, cfg, log, shutdown, checker)
	if err != nil {
		_ = shutdown.Execute(context.Background())
		return err
	}

	catalog, err := i18n.Load(cfg.Bot.Language)
	if err != nil {
		_ = shutdown.Execute(context.Background())
		return fmt.Errorf("load messages: %w", err)
	}
	messages := catalog.Default()

	b, err := bot.New(*cfg, log)
	if err != nil {
		_ = shutdown.Execute(context.Background())
		return err
	}
	checker.AddCheck("telegram", health.NewTelegramChecker(b.Telebot()))

	gate := command.NewGate(cfg.Admin.Handle)
	service := command.NewService(
		store,
		command.NewResolver(directory, log),
		gate,
		bot.NewPlatform(b.Telebot(), cfg.Moderation.RevokeMessages, log),
		messages,
		command.Options{ExpelUnverified: cfg.Moderation.ExpelUnverified},
		log,
	)
	b.Setup(service, messages, directory, guard)

	if config.Watch(v, log, func(next *config.Config) {
		gate.SetHandle(next.Admin.Handle)
		appLog.SetLevel(next.Logger.Level)
		service.SetOptions(command.Options{ExpelUnverified: next.Moderation.ExpelUnverified})
	}) {
		log.Info("watching config file for changes", slog.String("file", v.ConfigFileUsed()))
	}

	mux := http.NewServeMux()
	mux.Handle("/healthz", checker.Handler(5*time.Second))
	mux.Handle("/metrics", promhttp.Handler())
	ops := graceful.NewServer(log, cfg.Server.Addr, graceful.LogRequests(log, mux), cfg.Server.ShutdownTimeout)

	opsDone := make(chan error, 1)
	go func() { opsDone <- ops.ListenAndServe(ctx) }()
	shutdown.Register("ops server", func(context.Context) error { return <-opsDone })

	go b.Start()
	shutdown.Register("telegram bot", func(context.Context) error {
		b.Stop()
		return nil
	})

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout+5*time.Second)
	defer cancel()

	return shutdown.Execute(shutdownCtx)
}

// openBackends builds the score store, member directory and duplicate
// update guard selected by store.backend and registers their checks and
// shutdown hooks.
func openBackends(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
	shutdown *lifecycle.Shutdown,
	checker *health.Checker,
) (credit.Store, members.Directory, idempotency.Guard, error) {
	switch cfg.Store.Backend {
	case "redis":
		client, err := appredis.New(ctx, cfg.Store.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		shutdown.Register("redis", func(context.Context) error { return client.Close() })
		checker.AddCheck("redis", client)

		return credit.NewRedisStore(client.Client, log),
			members.NewRedisDirectory(client.Client, cfg.Members.TTL),
			idempotency.NewRedisGuard(client.Client, log),
			nil

	case "postgres":
		db, err := sql.Open("postgres", cfg.Store.Postgres.DSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		db.SetMaxOpenConns(cfg.Store.Postgres.MaxOpenConns)
		shutdown.Register("postgres", func(context.Context) error { return db.Close() })

		if err := db.PingContext(ctx); err != nil {
			return nil, nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		if err := database.NewMigrator(db, log).Apply(ctx, migrations.FS, "."); err != nil {
			return nil, nil, nil, fmt.Errorf("apply migrations: %w", err)
		}

		store := credit.NewPostgresStore(db, log)
		checker.AddCheck("postgres", store)

		return store, members.NewMemoryDirectory(cfg.Members.TTL), idempotency.NewMemoryGuard(), nil

	default:
		store := credit.NewMemoryStore()
		checker.AddCheck("store", store)

		return store, members.NewMemoryDirectory(cfg.Members.TTL), idempotency.NewMemoryGuard(), nil
	}
}

func sentryEnvironment(cfg *config.Config) string {
	if cfg.Sentry.Environment != "" {
		return cfg.Sentry.Environment
	}
	return cfg.AppEnv
}
