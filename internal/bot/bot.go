// Package bot connects the command service to Telegram.
package bot

import (
	"fmt"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/social-credit-bot/internal/bot/handlers"
	"github.com/Proton-105/social-credit-bot/internal/command"
	apperrors "github.com/Proton-105/social-credit-bot/internal/errors"
	"github.com/Proton-105/social-credit-bot/internal/i18n"
	"github.com/Proton-105/social-credit-bot/internal/idempotency"
	"github.com/Proton-105/social-credit-bot/internal/members"
	"github.com/Proton-105/social-credit-bot/pkg/config"
)

// Bot wraps telebot.Bot with the router and its dependencies.
type Bot struct {
	telebot    *telebot.Bot
	log        *slog.Logger
	router     *Router
	errHandler *apperrors.Handler
	messages   i18n.Translator
	directory  members.Directory
	dedupTTL   time.Duration
}

// New builds a telegram bot instance configured according to the application settings.
func New(cfg config.Config, log *slog.Logger) (*Bot, error) {
	if log == nil {
		log = slog.Default()
	}

	settings := telebot.Settings{
		Token:     cfg.Bot.Token,
		ParseMode: telebot.ModeHTML,
		OnError: func(err error, c telebot.Context) {
			log.Error("telebot error", slog.Any("error", err))
		},
	}

	if cfg.Bot.Mode == "webhook" {
		settings.Poller = &telebot.Webhook{
			Listen:   cfg.Bot.WebhookListen,
			Endpoint: &telebot.WebhookEndpoint{PublicURL: cfg.Bot.WebhookURL},
		}
	} else {
		settings.Poller = &telebot.LongPoller{
			Timeout: cfg.Bot.PollTimeout,
		}
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	return &Bot{
		telebot:    tb,
		log:        log,
		errHandler: apperrors.NewHandler(log),
		dedupTTL:   cfg.Bot.DedupTTL,
	}, nil
}

// Setup installs the router for the credit commands. It must be called
// once before Start.
func (b *Bot) Setup(exec handlers.Executor, messages i18n.Translator, directory members.Directory, guard idempotency.Guard) {
	b.messages = messages
	b.directory = directory
	b.router = NewRouter(b.log)
	if b.telebot.Me != nil {
		b.router.SetBotName(b.telebot.Me.Username)
	}

	b.router.Use(RecoveryMiddleware(b.log, b.errHandler, b.messages))
	b.router.Use(LoggingMiddleware(b.log))
	b.router.Use(IdempotencyMiddleware(guard, b.dedupTTL, b.log))
	b.router.Use(ErrorHandlingMiddleware(b.errHandler, b.messages, b.log))
	b.router.Use(MetricsMiddleware)

	for _, cmd := range command.All() {
		b.router.RegisterCommand(cmd, handlers.NewCommandHandler(exec, cmd))
	}

	b.telebot.Use(RecordMembers(b.directory, b.log))
	b.telebot.Handle(telebot.OnText, b.router.Route)
	b.telebot.Handle(telebot.OnMedia, func(telebot.Context) error { return nil })
}

// Start runs the telegram bot event loop. It blocks until Stop is called.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.log.Info("telegram bot started", slog.String("username", b.Username()))
		b.telebot.Start()
	}
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	b.log.Info("stopping telegram bot...")
	b.telebot.Stop()
}

// Telebot exposes the underlying telebot.Bot instance for the platform adapter.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

// Username returns the bot's own username once connected.
func (b *Bot) Username() string {
	if b.telebot == nil || b.telebot.Me == nil {
		return ""
	}
	return b.telebot.Me.Username
}
